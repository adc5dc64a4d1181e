package actions

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gobuffalo/buffalo"

	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
)

// swagger:operation GET /ledger/batch Ledger LedgerBatch
//
// LedgerBatch
//
// return last month's guarantee-fund payouts that are not yet entered into accounting, as a journal entry
// batch for the configured finance provider
//
// ---
// responses:
//   '200':
//     description: the batch of ledger entries
//     content:
//       text/csv:
//         schema:
//           type: string
//           format: text
//   '204':
//     description: nothing to export
func batchesGetLatest(c buffalo.Context) error {
	firstDay := domain.BeginningOfMonth(domain.BeginningOfMonth(time.Now().UTC()).Add(-domain.DurationDay))

	var le models.LedgerEntries
	if err := le.FindBatch(models.Tx(c), firstDay); err != nil {
		return reportError(c, err)
	}

	if len(le) == 0 {
		return c.Render(http.StatusNoContent, nil)
	}

	csvData, _, err := le.ToCsv(domain.Env.FinanceProvider, domain.EndOfMonth(firstDay))
	if err != nil {
		return reportError(c, err)
	}

	filename := fmt.Sprintf("guarantee_fund_batch_%s.csv", firstDay.Format("2006-01"))
	return renderCsv(c, filename, csvData)
}
