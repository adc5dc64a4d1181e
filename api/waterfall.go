package api

import (
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// WaterfallBreakdown records how a claim amount was split across funding sources. All amounts are
// settlement-currency cents and the parts always add up to TotalClaimAmount.
//
// swagger:model
type WaterfallBreakdown struct {
	TotalClaimAmount   Currency `json:"total_claim_amount"`
	HoldCaptured       Currency `json:"hold_captured"`
	WalletDebited      Currency `json:"wallet_debited"`
	ExtraCharged       Currency `json:"extra_charged"`
	FundPaid           Currency `json:"fund_paid"`
	RemainingUncovered Currency `json:"remaining_uncovered"`
}

// Accounted sums every bucket of the breakdown
func (w WaterfallBreakdown) Accounted() Currency {
	return w.HoldCaptured + w.WalletDebited + w.ExtraCharged + w.FundPaid + w.RemainingUncovered
}

// IsBalanced reports whether every cent of the claim is accounted for
func (w WaterfallBreakdown) IsBalanced() bool {
	return w.Accounted() == w.TotalClaimAmount
}

// swagger:model
type SimulationInput struct {
	// reference-currency cents
	Amount Currency `json:"amount"`
}

// swagger:model
type SimulationResult struct {
	Eligibility        EligibilityResult  `json:"eligibility"`
	EstimatedBreakdown WaterfallBreakdown `json:"estimated_breakdown"`
	Formatted          string             `json:"formatted"`
}

// CaptureRequest asks the payments service to capture part of a card authorization
type CaptureRequest struct {
	AuthorizationID string
	ClaimID         uuid.UUID

	// billing-currency major units
	Amount decimal.Decimal

	IdempotencyKey string
}

type CaptureResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// WalletDebitRequest asks the wallet to debit a renter's security deposit
type WalletDebitRequest struct {
	BookingID uuid.UUID
	ClaimID   uuid.UUID

	// reference-currency major units
	Amount decimal.Decimal
}

type WalletDebitResult struct {
	Success bool `json:"success"`

	// reference-currency major units actually moved
	DebitedAmount decimal.Decimal `json:"debited_amount"`

	Error string `json:"error,omitempty"`
}

// FundPayout is the guarantee-fund ledger record of a claim payout
type FundPayout struct {
	ClaimID   uuid.UUID
	BookingID uuid.UUID

	// reference-currency major units
	Amount decimal.Decimal

	// settlement-currency cents
	SettlementAmount Currency

	FxRate decimal.Decimal
}
