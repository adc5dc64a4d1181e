package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/fin"
	"github.com/silinternational/claims-settlement-api/log"
)

type LedgerEntries []LedgerEntry

// LedgerEntry is one guarantee-fund payout. There is at most one per claim.
type LedgerEntry struct {
	ID               uuid.UUID       `db:"id"`
	ClaimID          uuid.UUID       `db:"claim_id" validate:"required"`
	BookingID        uuid.UUID       `db:"booking_id" validate:"required"`
	Amount           int             `db:"amount" validate:"min=0"`
	SettlementAmount int             `db:"settlement_amount" validate:"min=0"`
	FxRate           decimal.Decimal `db:"fx_rate"`
	DateSubmitted    time.Time       `db:"date_submitted"`
	DateEntered      nulls.Time      `db:"date_entered"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (le *LedgerEntry) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(le), nil
}

func (le *LedgerEntry) Create(tx *pop.Connection) error {
	return create(tx, le)
}

// AllNotEntered returns the entries submitted before cutoff that have not been entered into accounting
func (le *LedgerEntries) AllNotEntered(tx *pop.Connection, cutoff time.Time) error {
	err := tx.Where("date_entered IS NULL").
		Where("date_submitted < ?", cutoff).
		Order("date_submitted asc").
		All(le)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// FindBatch returns the entries of the month starting on firstDay that have not been entered into accounting
func (le *LedgerEntries) FindBatch(tx *pop.Connection, firstDay time.Time) error {
	lastDay := domain.EndOfMonth(firstDay).Add(domain.DurationDay)

	err := tx.Where("date_submitted >= ? AND date_submitted < ?", firstDay, lastDay).
		Where("date_entered IS NULL").
		Order("date_submitted asc").
		All(le)

	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// Reconcile marks the entries as entered into the accounting system
func (le *LedgerEntries) Reconcile(ctx context.Context) error {
	tx := Tx(ctx)
	now := time.Now().UTC()

	for i := range *le {
		e := &(*le)[i]
		if e.DateEntered.Valid {
			continue
		}
		e.DateEntered = nulls.NewTime(now)
		err := tx.RawQuery("UPDATE ledger_entries SET date_entered = ?, updated_at = ? WHERE id = ?",
			now, now, e.ID).Exec()
		if err != nil {
			return appErrorFromDB(err, api.ErrorUpdateFailure)
		}
	}
	return nil
}

// ToCsv renders the entries as an accounting batch: one expense line per payout, closed by a credit to the
// guarantee-fund account. Amounts are in the reference currency.
func (le *LedgerEntries) ToCsv(providerType string, batchDate time.Time) ([]byte, string, error) {
	if len(*le) == 0 {
		return nil, "", errors.New("no ledger entries, cannot convert to CSV")
	}

	const block = "guarantee_fund"
	batch := fin.NewBatch(providerType, batchDate)

	var balance api.Currency
	for _, e := range *le {
		batch.AppendToBatch(block, fin.Transaction{
			Account:     domain.Env.ClaimsExpenseAccount,
			Amount:      api.Currency(e.Amount),
			Description: e.transactionDescription(),
			Reference:   e.ClaimID.String(),
			Date:        batchDate,
		})
		balance += api.Currency(e.Amount)
	}
	batch.AppendToBatch(block, fin.Transaction{
		Account:     domain.Env.FundAccount,
		Amount:      -balance,
		Description: fmt.Sprintf("Total guarantee fund payouts %s", batchDate.Format("Jan 2006")),
		Date:        batchDate,
	})

	data, contentType := batch.RenderBatch()
	return data, contentType, nil
}

func (le *LedgerEntry) transactionDescription() string {
	return fmt.Sprintf("Guarantee fund claim %s %s",
		le.ClaimID.String()[:8], le.DateSubmitted.Format("Jan 02, 2006"))
}

func (le *LedgerEntry) ConvertToAPI() api.LedgerEntry {
	return api.LedgerEntry{
		ID:               le.ID,
		ClaimID:          le.ClaimID,
		BookingID:        le.BookingID,
		Amount:           api.Currency(le.Amount),
		SettlementAmount: api.Currency(le.SettlementAmount),
		FxRate:           le.FxRate,
		DateSubmitted:    le.DateSubmitted.UTC(),
		DateEntered:      convertTimeToAPI(le.DateEntered),
	}
}

func (le *LedgerEntries) ConvertToAPI() api.LedgerEntries {
	entries := make(api.LedgerEntries, len(*le))
	for i, e := range *le {
		entries[i] = e.ConvertToAPI()
	}
	return entries
}

// FundLedger appends guarantee-fund payouts to the ledger
type FundLedger struct {
	db *pop.Connection
}

func NewFundLedger(db *pop.Connection) *FundLedger {
	return &FundLedger{db: db}
}

// RecordPayout appends a payout to the ledger. Recording a claim that is already in the ledger succeeds without
// writing anything, so a retried settlement or reconciliation never pays twice.
func (f *FundLedger) RecordPayout(ctx context.Context, payout api.FundPayout) error {
	tx := connFromContext(ctx, f.db)

	var existing LedgerEntry
	err := tx.Where("claim_id = ?", payout.ClaimID).First(&existing)
	if err == nil {
		return nil
	}
	if domain.IsOtherThanNoRows(err) {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}

	entry := LedgerEntry{
		ClaimID:          payout.ClaimID,
		BookingID:        payout.BookingID,
		Amount:           int(api.CurrencyFromDecimal(payout.Amount)),
		SettlementAmount: int(payout.SettlementAmount),
		FxRate:           payout.FxRate,
		DateSubmitted:    time.Now().UTC(),
	}
	if err := entry.Create(tx); err != nil {
		if isUniqueViolation(err) {
			log.WithFields(log.Fields{"claim_id": payout.ClaimID.String()}).
				Info("guarantee fund payout already recorded")
			return nil
		}
		return err
	}
	return nil
}
