package models

import (
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
)

// ClaimPayout is the settled waterfall of a paid claim. All amounts are settlement-currency cents.
type ClaimPayout struct {
	ID                     uuid.UUID       `db:"id"`
	ClaimID                uuid.UUID       `db:"claim_id" validate:"required"`
	TotalClaimAmount       int             `db:"total_claim_amount" validate:"min=0"`
	HoldCaptured           int             `db:"hold_captured" validate:"min=0"`
	WalletDebited          int             `db:"wallet_debited" validate:"min=0"`
	ExtraCharged           int             `db:"extra_charged" validate:"min=0"`
	FundPaid               int             `db:"fund_paid" validate:"min=0"`
	RemainingUncovered     int             `db:"remaining_uncovered" validate:"min=0"`
	FxRate                 decimal.Decimal `db:"fx_rate"`
	MaxCoverage            int             `db:"max_coverage" validate:"min=0"`
	ReconciliationRequired bool            `db:"reconciliation_required"`
	ReconciledAt           nulls.Time      `db:"reconciled_at"`
	CreatedAt              time.Time       `db:"created_at"`
	UpdatedAt              time.Time       `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (p *ClaimPayout) Validate(tx *pop.Connection) (*validate.Errors, error) {
	vErrs := validateModel(p)
	total := p.HoldCaptured + p.WalletDebited + p.ExtraCharged + p.FundPaid + p.RemainingUncovered
	if total != p.TotalClaimAmount {
		vErrs.Add("ClaimPayout.TotalClaimAmount", "breakdown does not add up to the claim amount")
	}
	if !p.FxRate.IsPositive() {
		vErrs.Add("ClaimPayout.FxRate", "fx rate must be positive")
	}
	return vErrs, nil
}

func (p *ClaimPayout) Create(tx *pop.Connection) error {
	return create(tx, p)
}

// FindByClaimID loads the payout of a claim, reporting false if it has none
func (p *ClaimPayout) FindByClaimID(tx *pop.Connection, claimID uuid.UUID) (bool, error) {
	err := tx.Where("claim_id = ?", claimID).First(p)
	if err == nil {
		return true, nil
	}
	if !domain.IsOtherThanNoRows(err) {
		return false, nil
	}
	return false, appErrorFromDB(err, api.ErrorQueryFailure)
}

func (p *ClaimPayout) Breakdown() api.WaterfallBreakdown {
	return api.WaterfallBreakdown{
		TotalClaimAmount:   api.Currency(p.TotalClaimAmount),
		HoldCaptured:       api.Currency(p.HoldCaptured),
		WalletDebited:      api.Currency(p.WalletDebited),
		ExtraCharged:       api.Currency(p.ExtraCharged),
		FundPaid:           api.Currency(p.FundPaid),
		RemainingUncovered: api.Currency(p.RemainingUncovered),
	}
}

func (p *ClaimPayout) ConvertToAPI() api.ClaimPayout {
	return api.ClaimPayout{
		WaterfallBreakdown:     p.Breakdown(),
		FxRate:                 p.FxRate,
		MaxCoverage:            api.Currency(p.MaxCoverage),
		ReconciliationRequired: p.ReconciliationRequired,
		CreatedAt:              p.CreatedAt.UTC(),
	}
}

func NewClaimPayoutFromAPI(claimID uuid.UUID, in api.ClaimPayout) ClaimPayout {
	return ClaimPayout{
		ClaimID:                claimID,
		TotalClaimAmount:       int(in.TotalClaimAmount),
		HoldCaptured:           int(in.HoldCaptured),
		WalletDebited:          int(in.WalletDebited),
		ExtraCharged:           int(in.ExtraCharged),
		FundPaid:               int(in.FundPaid),
		RemainingUncovered:     int(in.RemainingUncovered),
		FxRate:                 in.FxRate,
		MaxCoverage:            int(in.MaxCoverage),
		ReconciliationRequired: in.ReconciliationRequired,
		CreatedAt:              in.CreatedAt,
		UpdatedAt:              in.CreatedAt,
	}
}
