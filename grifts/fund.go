package grifts

import (
	"fmt"
	"os"
	"time"

	"github.com/gobuffalo/grift/grift"

	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
	"github.com/silinternational/claims-settlement-api/storage"
)

var _ = grift.Namespace("fund", func() {
	grift.Desc("export", "Writes the guarantee fund ledger batch of a month to a CSV file. "+
		"Optional arg: the month as YYYY-MM, defaults to last month")
	_ = grift.Add("export", func(c *grift.Context) error {
		month := domain.BeginningOfMonth(time.Now().UTC().AddDate(0, -1, 0))
		if len(c.Args) > 0 {
			t, err := time.Parse("2006-01", c.Args[0])
			if err != nil {
				return fmt.Errorf("invalid month %q, %w", c.Args[0], err)
			}
			month = t
		}

		var entries models.LedgerEntries
		if err := entries.FindBatch(models.DB, month); err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Printf("no ledger batch for %s\n", month.Format("Jan 2006"))
			return nil
		}

		data, _, err := entries.ToCsv(domain.Env.FinanceProvider, domain.EndOfMonth(month))
		if err != nil {
			return err
		}

		filename := fmt.Sprintf("guarantee_fund_%s.csv", month.Format("2006-01"))
		if err := os.WriteFile(filename, data, 0o600); err != nil {
			return err
		}
		fmt.Printf("wrote %d entries to %s\n", len(entries), filename)

		if !storage.Enabled() {
			return nil
		}
		u, err := storage.StoreFile(storage.BatchKey(domain.Env.FinanceProvider, month), domain.ContentCSV, data)
		if err != nil {
			return err
		}
		fmt.Printf("archived batch, available until %s at %s\n", u.Expiration.Format(time.RFC3339), u.URL)
		return nil
	})
})
