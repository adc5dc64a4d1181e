package api

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

type ClaimStatus string

const (
	ClaimStatusDraft       = ClaimStatus("draft")
	ClaimStatusSubmitted   = ClaimStatus("submitted")
	ClaimStatusUnderReview = ClaimStatus("under_review")
	ClaimStatusApproved    = ClaimStatus("approved")
	ClaimStatusRejected    = ClaimStatus("rejected")
	ClaimStatusPaid        = ClaimStatus("paid")
	ClaimStatusProcessing  = ClaimStatus("processing")
)

// AllClaimStatuses lists the statuses in workflow order
var AllClaimStatuses = []ClaimStatus{
	ClaimStatusDraft,
	ClaimStatusSubmitted,
	ClaimStatusUnderReview,
	ClaimStatusApproved,
	ClaimStatusProcessing,
	ClaimStatusPaid,
	ClaimStatusRejected,
}

// IsTerminal reports whether a claim in this status can no longer be settled
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimStatusPaid || s == ClaimStatusRejected
}

type ReporterRole string

const (
	ReporterRoleOwner  = ReporterRole("owner")
	ReporterRoleRenter = ReporterRole("renter")
)

// swagger:model
type Claims []Claim

// swagger:model
type Claim struct {
	// unique ID
	//
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	// booking the damage was reported on
	//
	// swagger:strfmt uuid4
	BookingID uuid.UUID `json:"booking_id"`

	// actor that reported the damage
	//
	// swagger:strfmt uuid4
	ReportedBy   uuid.UUID    `json:"reported_by"`
	ReporterRole ReporterRole `json:"reporter_role"`

	Damages DamageItems `json:"damages"`

	// sum of the damage estimates, in reference-currency cents
	TotalEstimatedCost Currency `json:"total_estimated_cost"`

	Status         ClaimStatus `json:"status"`
	Notes          string      `json:"notes"`
	FraudWarnings  []string    `json:"fraud_warnings"`
	OwnerClaims30d int         `json:"owner_claims_30d"`

	// swagger:strfmt date-time
	LockedAt *time.Time `json:"locked_at"`

	// swagger:strfmt uuid4
	LockedBy *uuid.UUID `json:"locked_by"`

	// swagger:strfmt date-time
	ProcessedAt *time.Time `json:"processed_at"`

	// present once the claim has been paid
	Payout *ClaimPayout `json:"payout,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// swagger:model
type ClaimCreateInput struct {
	Damages []DamageItemInput `json:"damages"`
	Notes   string            `json:"notes"`
}

// swagger:model
type ClaimStatusInput struct {
	// optional explanation recorded in the claim history
	Reason string `json:"reason"`
}

// ClaimPayout is the persisted record of a settled waterfall
//
// swagger:model
type ClaimPayout struct {
	WaterfallBreakdown

	FxRate      decimal.Decimal `json:"fx_rate"`
	MaxCoverage Currency        `json:"max_coverage"`

	// set when the guarantee-fund ledger append failed and an operator must reconcile it
	ReconciliationRequired bool `json:"reconciliation_required"`

	// swagger:strfmt date-time
	CreatedAt time.Time `json:"created_at"`
}

// ClaimProcessResult is what a settlement attempt returns to the caller. It is never replaced by an error.
//
// swagger:model
type ClaimProcessResult struct {
	OK          bool                `json:"ok"`
	Claim       *Claim              `json:"claim,omitempty"`
	Eligibility *EligibilityResult  `json:"eligibility,omitempty"`
	Waterfall   *WaterfallBreakdown `json:"waterfall,omitempty"`
	Error       string              `json:"error,omitempty"`
	ErrorKey    ErrorKey            `json:"error_key,omitempty"`

	ReconciliationRequired bool `json:"reconciliation_required,omitempty"`
}

// Actor is the authenticated caller, as identified by the API gateway
type Actor struct {
	ID    uuid.UUID
	Roles []string
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
