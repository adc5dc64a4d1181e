package api

import (
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// RiskSnapshot describes the payment and security posture of a booking, as provided by the risk service
//
// swagger:model
type RiskSnapshot struct {
	// swagger:strfmt uuid4
	BookingID         uuid.UUID `json:"booking_id"`
	HasCard           bool      `json:"has_card"`
	HasWalletSecurity bool      `json:"has_wallet_security"`

	// settlement-currency cents
	EstimatedHoldAmount Currency `json:"estimated_hold_amount"`

	// settlement-currency cents
	EstimatedDeposit Currency `json:"estimated_deposit"`

	// reference to the card authorization, empty if there is none
	AuthorizationID string `json:"authorization_id"`

	// reference->settlement conversion rate fixed when the booking was made
	FxRate decimal.Decimal `json:"fx_rate"`

	// reference-currency cents
	FranchiseAmount Currency `json:"franchise_amount"`
}

// swagger:model
type EligibilityRequest struct {
	// swagger:strfmt uuid4
	BookingID uuid.UUID `json:"booking_id"`

	// settlement-currency cents
	ClaimAmountCents Currency `json:"claim_amount_cents"`

	// swagger:strfmt uuid4
	RiskPolicyID uuid.UUID `json:"risk_policy_id,omitempty"`
}

// swagger:model
type EligibilityResult struct {
	Eligible bool `json:"eligible"`

	// settlement-currency cents
	MaxCoverage Currency `json:"max_coverage"`

	Reasons []string `json:"reasons"`
}
