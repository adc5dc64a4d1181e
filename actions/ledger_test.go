package actions

import (
	"net/http"
	"testing"
	"time"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
)

func (as *ActionSuite) Test_LedgerList() {
	yesterday := time.Now().UTC().Add(-domain.DurationDay)
	models.CreateLedgerEntryFixtures(as.DB, 2, yesterday)
	admin := newAdmin()

	tests := []struct {
		name        string
		actor       api.Actor
		accept      string
		wantStatus  int
		wantEntries int
		wantInBody  []string
	}{
		{
			name:       "unauthenticated",
			wantStatus: http.StatusUnauthorized,
			wantInBody: []string{`"key":"` + api.ErrorMissingActor.String()},
		},
		{
			name:       "not an admin",
			actor:      api.Actor{ID: domain.GetUUID()},
			wantStatus: http.StatusNotFound,
			wantInBody: []string{`"key":"` + api.ErrorNotAuthorized.String()},
		},
		{
			name:        "json",
			actor:       admin,
			wantStatus:  http.StatusOK,
			wantEntries: 2,
		},
		{
			name:       "csv",
			actor:      admin,
			accept:     domain.ContentCSV,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.actorJSON(tt.actor, "/ledger")
			if tt.accept != "" {
				req.Headers["Accept"] = tt.accept
			}
			res := req.Get()

			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			if tt.wantStatus != http.StatusOK {
				as.verifyResponseData(tt.wantInBody, body, "")
				return
			}

			if tt.accept == domain.ContentCSV {
				as.Contains(res.Header().Get("Content-Disposition"), "guarantee_fund_")
				as.NotEmpty(body)
				return
			}

			var entries api.LedgerEntries
			as.NoError(as.decodeBody(res.Body.Bytes(), &entries))
			as.Len(entries, tt.wantEntries)
		})
	}
}

func (as *ActionSuite) Test_LedgerReconcile() {
	yesterday := time.Now().UTC().Add(-domain.DurationDay)
	models.CreateLedgerEntryFixtures(as.DB, 3, yesterday)
	admin := newAdmin()

	res := as.actorJSON(admin, "/ledger").Post(api.LedgerReconcileInput{EndDate: "not a date"})
	as.Equal(http.StatusBadRequest, res.Code)
	as.verifyResponseData([]string{`"key":"` + api.ErrorValidation.String()}, res.Body.String(), "")

	tomorrow := time.Now().UTC().Add(domain.DurationDay).Format(domain.DateFormat)
	res = as.actorJSON(admin, "/ledger").Post(api.LedgerReconcileInput{EndDate: tomorrow})
	as.Equal(http.StatusOK, res.Code, "body: %s", res.Body.String())

	var got api.LedgerReconcileResponse
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Equal(3, got.NumberOfRecordsEntered)

	req := as.actorJSON(admin, "/ledger")
	req.Headers["Accept"] = domain.ContentCSV
	res = req.Get()
	as.Equal(http.StatusNoContent, res.Code, "nothing left to enter")
}

func (as *ActionSuite) Test_BatchesGetLatest() {
	admin := newAdmin()

	res := as.actorJSON(admin, "/ledger/batch").Get()
	as.Equal(http.StatusNoContent, res.Code)

	lastMonth := domain.BeginningOfMonth(time.Now().UTC()).Add(-domain.DurationDay)
	models.CreateLedgerEntryFixtures(as.DB, 2, lastMonth)

	res = as.actorJSON(admin, "/ledger/batch").Get()
	as.Equal(http.StatusOK, res.Code, "body: %s", res.Body.String())
	as.Contains(res.Header().Get("Content-Disposition"), lastMonth.Format("2006-01"))
}
