package actions

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
)

func (as *ActionSuite) Test_ClaimsCreate() {
	f := models.CreateBookingFixtures(as.DB, models.FixturesConfig{NumberOfBookings: 2})
	booking := f.Bookings[0]
	renter := api.Actor{ID: booking.RenterID}
	owner := api.Actor{ID: f.Cars[0].OwnerID}

	noInspections := models.CreateBookingFixtures(as.DB, models.FixturesConfig{NumberOfBookings: 1, NoInspections: true})

	goodInput := api.ClaimCreateInput{
		Damages: []api.DamageItemInput{
			{Type: api.DamageTypeBody, Severity: api.DamageSeverityModerate, Area: "rear bumper", EstimatedCost: 45000},
		},
		Notes: "scratched while parking",
	}

	tests := []struct {
		name       string
		actor      api.Actor
		bookingID  string
		input      any
		wantStatus int
		wantInBody []string
	}{
		{
			name:       "unauthenticated",
			bookingID:  booking.ID.String(),
			input:      goodInput,
			wantStatus: http.StatusUnauthorized,
			wantInBody: []string{`"key":"` + api.ErrorMissingActor.String()},
		},
		{
			name:       "not a participant",
			actor:      api.Actor{ID: domain.GetUUID()},
			bookingID:  booking.ID.String(),
			input:      goodInput,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown field",
			actor:      renter,
			bookingID:  booking.ID.String(),
			input:      map[string]any{"damages": goodInput.Damages, "bogus": 1},
			wantStatus: http.StatusBadRequest,
			wantInBody: []string{`"key":"` + api.ErrorInvalidRequestBody.String()},
		},
		{
			name:       "no damages",
			actor:      renter,
			bookingID:  booking.ID.String(),
			input:      api.ClaimCreateInput{},
			wantStatus: http.StatusBadRequest,
			wantInBody: []string{`"key":"` + api.ErrorClaimMissingDamages.String()},
		},
		{
			name:       "missing inspections",
			actor:      api.Actor{ID: noInspections.Bookings[0].RenterID},
			bookingID:  noInspections.Bookings[0].ID.String(),
			input:      goodInput,
			wantStatus: http.StatusBadRequest,
			wantInBody: []string{`"key":"` + api.ErrorClaimMissingInspections.String()},
		},
		{
			name:       "renter",
			actor:      renter,
			bookingID:  booking.ID.String(),
			input:      goodInput,
			wantStatus: http.StatusOK,
			wantInBody: []string{
				`"status":"` + string(api.ClaimStatusDraft),
				`"reporter_role":"` + string(api.ReporterRoleRenter),
				`"total_estimated_cost":45000`,
				`"area":"rear bumper"`,
			},
		},
		{
			name:       "owner",
			actor:      owner,
			bookingID:  booking.ID.String(),
			input:      goodInput,
			wantStatus: http.StatusOK,
			wantInBody: []string{`"reporter_role":"` + string(api.ReporterRoleOwner)},
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.actorJSON(tt.actor, fmt.Sprintf("/%s/%s/claims", domain.TypeBooking, tt.bookingID))
			res := req.Post(tt.input)

			body := res.Body.String()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", body)
			as.verifyResponseData(tt.wantInBody, body, "")
		})
	}
}

func (as *ActionSuite) Test_ClaimsView() {
	f := models.CreateBookingFixtures(as.DB, models.FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 1})
	claim := f.Claims[0]

	tests := []struct {
		name       string
		actor      api.Actor
		wantStatus int
	}{
		{name: "reporter", actor: api.Actor{ID: claim.ReportedBy}, wantStatus: http.StatusOK},
		{name: "admin", actor: newAdmin(), wantStatus: http.StatusOK},
		{name: "someone else", actor: api.Actor{ID: domain.GetUUID()}, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			res := as.actorJSON(tt.actor, "/%s/%s", domain.TypeClaim, claim.ID).Get()
			as.Equal(tt.wantStatus, res.Code, "incorrect status code returned, body: %s", res.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var got api.Claim
			as.NoError(as.decodeBody(res.Body.Bytes(), &got))
			as.Equal(claim.ID, got.ID)
			as.Len(got.Damages, 1)
		})
	}
}

func (as *ActionSuite) Test_ClaimsList() {
	models.CreateBookingFixtures(as.DB, models.FixturesConfig{NumberOfBookings: 2, ClaimsPerBooking: 2})

	res := as.actorJSON(api.Actor{ID: domain.GetUUID()}, "/%s", domain.TypeClaim).Get()
	as.Equal(http.StatusNotFound, res.Code, "only admins can list claims")

	res = as.actorJSON(newAdmin(), "/%s?limit=3", domain.TypeClaim).Get()
	as.Equal(http.StatusOK, res.Code, "body: %s", res.Body.String())

	var got api.Claims
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Len(got, 3)
}

func (as *ActionSuite) Test_ClaimsWorkflow() {
	f := models.CreateBookingFixtures(as.DB, models.FixturesConfig{
		NumberOfBookings: 1, ClaimsPerBooking: 1, ClaimStatus: api.ClaimStatusDraft,
	})
	claim := f.Claims[0]
	reporter := api.Actor{ID: claim.ReportedBy}
	admin := newAdmin()

	steps := []struct {
		name       string
		actor      api.Actor
		action     string
		input      any
		wantStatus int
		wantClaim  api.ClaimStatus
	}{
		{name: "reporter submits", actor: reporter, action: "submit", wantStatus: http.StatusOK, wantClaim: api.ClaimStatusSubmitted},
		{name: "reporter can't review", actor: reporter, action: "review", wantStatus: http.StatusNotFound},
		{name: "admin reviews", actor: admin, action: "review", wantStatus: http.StatusOK, wantClaim: api.ClaimStatusUnderReview},
		{
			name: "admin approves", actor: admin, action: "approve",
			input: api.ClaimStatusInput{Reason: "photos match check-out"}, wantStatus: http.StatusOK,
			wantClaim: api.ClaimStatusApproved,
		},
		{name: "approve twice", actor: admin, action: "approve", wantStatus: http.StatusBadRequest},
	}

	for _, s := range steps {
		as.T().Run(s.name, func(t *testing.T) {
			res := as.actorJSON(s.actor, "/%s/%s/%s", domain.TypeClaim, claim.ID, s.action).Post(s.input)
			as.Equal(s.wantStatus, res.Code, "incorrect status code returned, body: %s", res.Body.String())
			if s.wantClaim == "" {
				return
			}
			as.verifyResponseData([]string{`"status":"` + string(s.wantClaim)}, res.Body.String(), s.name)
		})
	}

	res := as.actorJSON(reporter, "/%s/%s/history", domain.TypeClaim, claim.ID).Get()
	as.Equal(http.StatusOK, res.Code)
	var history api.ClaimHistories
	as.NoError(as.decodeBody(res.Body.Bytes(), &history))
	as.Len(history, 3, "submitted, under review and approved")
	as.Equal("photos match check-out", history[2].Reason)
}

func (as *ActionSuite) Test_ClaimsProcess() {
	models.CreateRiskPolicyFixtures(as.DB)
	f := models.CreateBookingFixtures(as.DB, models.FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 2})
	admin := newAdmin()

	// the first claim is paid from the card hold
	res := as.actorJSON(admin, "/%s/%s/process", domain.TypeClaim, f.Claims[0].ID).Post(nil)
	as.Equal(http.StatusOK, res.Code, "body: %s", res.Body.String())

	var result api.ClaimProcessResult
	as.NoError(as.decodeBody(res.Body.Bytes(), &result))
	as.True(result.OK)
	as.NotNil(result.Claim)
	as.Equal(api.ClaimStatusPaid, result.Claim.Status)
	as.NotNil(result.Waterfall)
	as.True(result.Waterfall.IsBalanced())
	as.Equal(api.Currency(200000000), result.Waterfall.HoldCaptured)
	as.Equal(1, as.services.captureCount())

	// a paid claim can't be processed again
	res = as.actorJSON(admin, "/%s/%s/process", domain.TypeClaim, f.Claims[0].ID).Post(nil)
	as.Equal(http.StatusConflict, res.Code, "body: %s", res.Body.String())
	as.Equal(1, as.services.captureCount(), "no second capture")

	// the second claim is ineligible and is rejected
	as.services.mutex.Lock()
	as.services.eligible = false
	as.services.mutex.Unlock()

	res = as.actorJSON(admin, "/%s/%s/process", domain.TypeClaim, f.Claims[1].ID).Post(nil)
	as.Equal(http.StatusUnprocessableEntity, res.Code, "body: %s", res.Body.String())
	as.verifyResponseData([]string{`"error_key":"` + api.ErrorClaimIneligible.String()}, res.Body.String(), "")

	var claim models.Claim
	found, err := claim.FindByID(as.DB, f.Claims[1].ID)
	as.NoError(err)
	as.True(found)
	as.Equal(api.ClaimStatusRejected, claim.Status)
	as.False(claim.LockedAt.Valid, "lock released")

	// unknown claim
	res = as.actorJSON(admin, "/%s/%s/process", domain.TypeClaim, domain.GetUUID()).Post(nil)
	as.Equal(http.StatusNotFound, res.Code, "body: %s", res.Body.String())
}

func (as *ActionSuite) Test_processStatus() {
	tests := []struct {
		result api.ClaimProcessResult
		want   int
	}{
		{result: api.ClaimProcessResult{OK: true}, want: http.StatusOK},
		{result: api.ClaimProcessResult{ErrorKey: api.ErrorClaimLocked}, want: http.StatusConflict},
		{result: api.ClaimProcessResult{ErrorKey: api.ErrorClaimTerminal}, want: http.StatusConflict},
		{result: api.ClaimProcessResult{ErrorKey: api.ErrorClaimNotFound}, want: http.StatusNotFound},
		{result: api.ClaimProcessResult{ErrorKey: api.ErrorClaimIneligible}, want: http.StatusUnprocessableEntity},
		{result: api.ClaimProcessResult{ErrorKey: api.ErrorPaymentsService}, want: http.StatusBadGateway},
		{result: api.ClaimProcessResult{ErrorKey: api.ErrorClaimProcessing}, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		as.T().Run(string(tt.result.ErrorKey), func(t *testing.T) {
			as.Equal(tt.want, processStatus(tt.result))
		})
	}
}
