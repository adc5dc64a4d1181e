package fin

import (
	"fmt"
	"time"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
)

const (
	ProviderTypeSage     = "sage"
	ProviderTypeNetSuite = "netsuite"
)

// Transaction is one journal line. Positive amounts are debits, negative amounts are credits.
type Transaction struct {
	Account     string
	Amount      api.Currency
	Description string
	Reference   string
	Date        time.Time
}

// TransactionBlocks groups journal lines so that the last line of each block balances the others
type TransactionBlocks map[string][]Transaction

type Provider interface {
	AppendToBatch(block string, t Transaction)

	// RenderBatch returns the batch file and its content type
	RenderBatch() ([]byte, string)
}

// NewBatch starts an accounting batch for the month containing date
func NewBatch(providerType string, date time.Time) Provider {
	batchDesc := fmt.Sprintf("%s %s Claims JE", date.Format("January 2006"), domain.Env.AppName)

	switch providerType {
	case ProviderTypeSage:
		return &Sage{
			Period:             getFiscalPeriod(int(date.Month())),
			Year:               getFiscalYear(date),
			JournalDescription: batchDesc,
		}
	case ProviderTypeNetSuite:
		return newNetSuiteReport(batchDesc, date)
	}
	panic("fin: invalid provider type " + providerType)
}

func IsValidProvider(providerType string) bool {
	return providerType == ProviderTypeSage || providerType == ProviderTypeNetSuite
}

func getFiscalPeriod(month int) int {
	return (month-domain.Env.FiscalStartMonth+12)%12 + 1
}

func getFiscalYear(date time.Time) int {
	if domain.Env.FiscalStartMonth == 1 || int(date.Month()) < domain.Env.FiscalStartMonth {
		return date.Year()
	}
	return date.Year() + 1
}
