package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/pop/v6/slices"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
)

var ValidClaimStatus = map[api.ClaimStatus]struct{}{
	api.ClaimStatusDraft:       {},
	api.ClaimStatusSubmitted:   {},
	api.ClaimStatusUnderReview: {},
	api.ClaimStatusApproved:    {},
	api.ClaimStatusRejected:    {},
	api.ClaimStatusPaid:        {},
	api.ClaimStatusProcessing:  {},
}

// filters accepted by Claims.FindWithQuery, mapped to their column
var claimFilterColumns = map[string]string{
	"status":      "status",
	"booking_id":  "booking_id",
	"reported_by": "reported_by",
}

type Claims []Claim

type Claim struct {
	ID                 uuid.UUID        `db:"id"`
	BookingID          uuid.UUID        `db:"booking_id" validate:"required"`
	ReportedBy         uuid.UUID        `db:"reported_by" validate:"required"`
	ReporterRole       api.ReporterRole `db:"reporter_role" validate:"reporterRole"`
	TotalEstimatedCost int              `db:"total_estimated_cost" validate:"min=0"`
	Status             api.ClaimStatus  `db:"status" validate:"claimStatus"`
	Notes              string           `db:"notes"`
	FraudWarnings      slices.String    `db:"fraud_warnings"`
	OwnerClaims30d     int              `db:"owner_claims_30d" validate:"min=0"`
	LockedAt           nulls.Time       `db:"locked_at"`
	LockedBy           nulls.UUID       `db:"locked_by"`
	ProcessedAt        nulls.Time       `db:"processed_at"`
	CreatedAt          time.Time        `db:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at"`

	Damages ClaimDamages `has_many:"claim_damages" order_by:"position asc" validate:"-"`
	Payout  *ClaimPayout `db:"-" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (c *Claim) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(c), nil
}

// Create stores the Claim and its damages as new records in the database.
// If its status is not valid, it is created in Draft status.
func (c *Claim) Create(tx *pop.Connection) error {
	if _, ok := ValidClaimStatus[c.Status]; !ok {
		c.Status = api.ClaimStatusDraft
	}
	if c.FraudWarnings == nil {
		c.FraudWarnings = slices.String{}
	}
	if err := create(tx, c); err != nil {
		return err
	}

	for i := range c.Damages {
		c.Damages[i].ClaimID = c.ID
		c.Damages[i].Position = i
		if err := c.Damages[i].Create(tx); err != nil {
			return err
		}
	}
	return nil
}

// FindByID loads the claim with its damages and payout
func (c *Claim) FindByID(tx *pop.Connection, id uuid.UUID) (bool, error) {
	found, err := find(tx, c, id)
	if !found || err != nil {
		return found, err
	}
	if err := c.LoadDamages(tx); err != nil {
		return true, err
	}
	return true, c.LoadPayout(tx)
}

// LoadDamages - a simple wrapper method for loading damages on the struct
func (c *Claim) LoadDamages(tx *pop.Connection) error {
	return appErrorFromDB(tx.Load(c, "Damages"), api.ErrorQueryFailure)
}

// LoadPayout loads the payout, if the claim has one
func (c *Claim) LoadPayout(tx *pop.Connection) error {
	var payout ClaimPayout
	found, err := payout.FindByClaimID(tx, c.ID)
	if err != nil {
		return err
	}
	if found {
		c.Payout = &payout
	}
	return nil
}

// FindWithQuery returns a page of claims, most recent first, filtered by status, booking or reporter
func (c *Claims) FindWithQuery(tx *pop.Connection, q api.QueryParams) error {
	query := tx.Q()
	for key, column := range claimFilterColumns {
		v := q.Filter(key)
		if v == "" {
			continue
		}
		if column != "status" {
			if _, err := uuid.FromString(v); err != nil {
				err = fmt.Errorf("invalid %s filter: %w", key, err)
				return api.NewAppError(err, api.ErrorMustBeAValidUUID, api.CategoryUser)
			}
		}
		query = query.Where(column+" = ?", strings.ToLower(v))
	}

	err := query.Order("created_at desc").Paginate(q.Page(), q.Limit()).All(c)
	if err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}

	for i := range *c {
		if err := (*c)[i].LoadDamages(tx); err != nil {
			return err
		}
		if err := (*c)[i].LoadPayout(tx); err != nil {
			return err
		}
	}
	return nil
}

// ConvertClaim converts a claim, with whatever has been loaded on it, to its api representation
func (c *Claim) ConvertClaim() api.Claim {
	claim := api.Claim{
		ID:                 c.ID,
		BookingID:          c.BookingID,
		ReportedBy:         c.ReportedBy,
		ReporterRole:       c.ReporterRole,
		Damages:            c.Damages.ConvertToAPI(),
		TotalEstimatedCost: api.Currency(c.TotalEstimatedCost),
		Status:             c.Status,
		Notes:              c.Notes,
		FraudWarnings:      append([]string{}, c.FraudWarnings...),
		OwnerClaims30d:     c.OwnerClaims30d,
		LockedAt:           convertTimeToAPI(c.LockedAt),
		LockedBy:           convertUUIDToAPI(c.LockedBy),
		ProcessedAt:        convertTimeToAPI(c.ProcessedAt),
		CreatedAt:          c.CreatedAt.UTC(),
		UpdatedAt:          c.UpdatedAt.UTC(),
	}
	if c.Payout != nil {
		p := c.Payout.ConvertToAPI()
		claim.Payout = &p
	}
	return claim
}

func (c *Claims) ConvertClaims() api.Claims {
	claims := make(api.Claims, len(*c))
	for i, cc := range *c {
		claims[i] = cc.ConvertClaim()
	}
	return claims
}

// NewClaimFromAPI builds a claim model ready to be created
func NewClaimFromAPI(in api.Claim) Claim {
	c := Claim{
		ID:                 in.ID,
		BookingID:          in.BookingID,
		ReportedBy:         in.ReportedBy,
		ReporterRole:       in.ReporterRole,
		TotalEstimatedCost: int(in.TotalEstimatedCost),
		Status:             in.Status,
		Notes:              in.Notes,
		FraudWarnings:      slices.String(append([]string{}, in.FraudWarnings...)),
		OwnerClaims30d:     in.OwnerClaims30d,
		CreatedAt:          in.CreatedAt,
		UpdatedAt:          in.UpdatedAt,
	}
	for _, d := range in.Damages {
		c.Damages = append(c.Damages, NewClaimDamageFromAPI(d))
	}
	return c
}
