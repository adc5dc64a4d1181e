package models

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/fin"
)

func (ms *ModelSuite) TestFundLedger_RecordPayout() {
	ledger := NewFundLedger(ms.DB)
	payout := api.FundPayout{
		ClaimID:          domain.GetUUID(),
		BookingID:        domain.GetUUID(),
		Amount:           decimal.RequireFromString("400.00"),
		SettlementAmount: 160000000,
		FxRate:           decimal.NewFromInt(4000),
	}

	ms.NoError(ledger.RecordPayout(context.Background(), payout))
	ms.NoError(ledger.RecordPayout(context.Background(), payout), "recording the same claim again succeeds")

	var entries LedgerEntries
	ms.NoError(ms.DB.Where("claim_id = ?", payout.ClaimID).All(&entries))
	ms.Len(entries, 1, "a claim is paid from the fund only once")
	ms.Equal(40000, entries[0].Amount)
	ms.Equal(160000000, entries[0].SettlementAmount)
	ms.True(entries[0].FxRate.Equal(payout.FxRate))
	ms.False(entries[0].DateEntered.Valid)
}

func (ms *ModelSuite) TestLedgerEntries_FindBatch() {
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	CreateLedgerEntryFixtures(ms.DB, 2, march.Add(10*domain.DurationDay))
	CreateLedgerEntryFixtures(ms.DB, 1, time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC))
	CreateLedgerEntryFixtures(ms.DB, 1, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	var batch LedgerEntries
	ms.NoError(batch.FindBatch(ms.DB, march))
	ms.Len(batch, 3)

	ms.NoError(batch.Reconcile(CreateTestContext(api.Actor{})))
	for _, e := range batch {
		ms.True(e.DateEntered.Valid)
	}

	var again LedgerEntries
	ms.NoError(again.FindBatch(ms.DB, march))
	ms.Empty(again, "entered entries are not batched again")

	var pending LedgerEntries
	ms.NoError(pending.AllNotEntered(ms.DB, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))
	ms.Len(pending, 1)
}

func (ms *ModelSuite) TestLedgerEntries_ToCsv() {
	defer func(expense, fund string) {
		domain.Env.ClaimsExpenseAccount, domain.Env.FundAccount = expense, fund
	}(domain.Env.ClaimsExpenseAccount, domain.Env.FundAccount)
	domain.Env.ClaimsExpenseAccount = "63550"
	domain.Env.FundAccount = "20410"

	var empty LedgerEntries
	_, _, err := empty.ToCsv(fin.ProviderTypeSage, time.Now())
	ms.Error(err)

	date := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	entries := CreateLedgerEntryFixtures(ms.DB, 2, date)

	data, contentType, err := entries.ToCsv(fin.ProviderTypeSage, date)
	ms.NoError(err)
	ms.Equal(domain.ContentCSV, contentType)

	csv := string(data)
	ms.Contains(csv, `"63550","",100.00,"2","Guarantee fund claim `)
	ms.Contains(csv, `"63550","",200.00,"2","Guarantee fund claim `)
	ms.Contains(csv, `"20410","",-300.00,"2","Total guarantee fund payouts Mar 2026"`)
	ms.Equal(2+1+3, strings.Count(csv, "\n"), "two headers, a summary row and three transactions")

	data, _, err = entries.ToCsv(fin.ProviderTypeNetSuite, date)
	ms.NoError(err)
	ms.Equal(1+2, strings.Count(string(data), "\n"), "the balancing line is folded into the credit account")
	ms.Contains(string(data), `"63550","20410",100.00`)
}
