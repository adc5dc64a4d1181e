package actions

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gobuffalo/buffalo"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
)

// swagger:operation GET /ledger Ledger LedgerList
//
// LedgerList
//
// Return the guarantee-fund payouts not yet entered into accounting, up to the beginning of the current day
// (0:00 UTC). If `text/csv` is specified in the `Accept` header, the response is a journal entry batch for
// the configured finance provider.
//
// ---
// responses:
//   '200':
//     description: the ledger entries
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/LedgerEntry"
//   '204':
//     description: no entries to export as CSV
// produces:
//   - application/json
//   - text/csv
func ledgerList(c buffalo.Context) error {
	tx := models.Tx(c)

	date := time.Now().UTC().Truncate(domain.DurationDay)
	var le models.LedgerEntries
	if err := le.AllNotEntered(tx, date); err != nil {
		return reportError(c, err)
	}

	if domain.IsStringInSlice(domain.ContentCSV, c.Request().Header["Accept"]) {
		if len(le) == 0 {
			return c.Render(http.StatusNoContent, nil)
		}

		csvData, _, err := le.ToCsv(domain.Env.FinanceProvider, date)
		if err != nil {
			return reportError(c, err)
		}
		filename := fmt.Sprintf("guarantee_fund_%s.csv", date.Format(domain.DateFormat))
		return renderCsv(c, filename, csvData)
	}

	return renderOk(c, le.ConvertToAPI())
}

// swagger:operation POST /ledger Ledger LedgerReconcile
//
// LedgerReconcile
//
// Mark ledger entries submitted before `end_date` as entered into accounting. Call this only after all
// entries returned by LedgerList have been fully loaded into the accounting record.
//
// ---
// parameters:
//   - name: ledger reconcile input
//     in: body
//     description: ledger reconcile input
//     required: true
//     schema:
//       "$ref": "#/definitions/LedgerReconcileInput"
// responses:
//   '200':
//     description: number of entries marked as entered
//     schema:
//       "$ref": "#/definitions/LedgerReconcileResponse"
func ledgerReconcile(c buffalo.Context) error {
	var input api.LedgerReconcileInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	date, err := time.Parse(domain.DateFormat, input.EndDate)
	if err != nil {
		return reportError(c, api.NewAppError(err, api.ErrorValidation, api.CategoryUser))
	}

	var le models.LedgerEntries
	if err := le.AllNotEntered(models.Tx(c), date); err != nil {
		return reportError(c, err)
	}

	if err := le.Reconcile(c); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, api.LedgerReconcileResponse{NumberOfRecordsEntered: len(le)})
}
