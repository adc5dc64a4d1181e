package api

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// swagger:model
type LedgerEntries []LedgerEntry

// LedgerEntry is one guarantee-fund payout
//
// swagger:model
type LedgerEntry struct {
	// unique ID
	//
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	// claim ID
	//
	// swagger:strfmt uuid4
	ClaimID uuid.UUID `json:"claim_id"`

	// booking ID
	//
	// swagger:strfmt uuid4
	BookingID uuid.UUID `json:"booking_id"`

	// reference-currency cents
	Amount Currency `json:"amount"`

	// settlement-currency cents
	SettlementAmount Currency `json:"settlement_amount"`

	FxRate decimal.Decimal `json:"fx_rate"`

	// date added to ledger
	//
	// swagger:strfmt date-time
	DateSubmitted time.Time `json:"date_submitted"`

	// date entered into accounting system
	//
	// swagger:strfmt date-time
	DateEntered *time.Time `json:"date_entered"`
}

// swagger:model
type LedgerReconcileInput struct {
	// Entries submitted before this date (YYYY-MM-DD) are marked as entered
	EndDate string `json:"end_date"`
}

// swagger:model
type LedgerReconcileResponse struct {
	NumberOfRecordsEntered int `json:"number_of_records_entered"`
}
