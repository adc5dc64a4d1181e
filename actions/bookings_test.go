package actions

import (
	"net/http"
	"testing"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
)

func (as *ActionSuite) Test_BookingsDamageSuggestions() {
	f := models.CreateBookingFixtures(as.DB, models.FixturesConfig{NumberOfBookings: 1})
	booking := f.Bookings[0]

	tests := []struct {
		name       string
		actor      api.Actor
		wantStatus int
	}{
		{name: "renter", actor: api.Actor{ID: booking.RenterID}, wantStatus: http.StatusOK},
		{name: "owner", actor: api.Actor{ID: f.Cars[0].OwnerID}, wantStatus: http.StatusOK},
		{name: "admin", actor: newAdmin(), wantStatus: http.StatusOK},
		{name: "stranger", actor: api.Actor{ID: domain.GetUUID()}, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			res := as.actorJSON(tt.actor, "/%s/%s/damage-suggestions", domain.TypeBooking, booking.ID).Get()
			as.Equal(tt.wantStatus, res.Code, "body: %s", res.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var got api.DamageSuggestions
			as.NoError(as.decodeBody(res.Body.Bytes(), &got))
			as.True(got.Inspections.Valid)
			as.NotEmpty(got.Damages, "the check-out shows new or worse damage")
			as.Equal(got.Damages.Total(), got.Total)
		})
	}
}

func (as *ActionSuite) Test_BookingsInspectionCheck() {
	f := models.CreateBookingFixtures(as.DB, models.FixturesConfig{NumberOfBookings: 1, NoInspections: true})
	booking := f.Bookings[0]

	res := as.actorJSON(api.Actor{ID: booking.RenterID}, "/%s/%s/inspection-check", domain.TypeBooking, booking.ID).Get()
	as.Equal(http.StatusOK, res.Code, "body: %s", res.Body.String())

	var got api.InspectionCheck
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.False(got.Valid)
	as.ElementsMatch([]api.InspectionStage{api.InspectionStageCheckIn, api.InspectionStageCheckOut}, got.Missing)

	res = as.actorJSON(newAdmin(), "/%s/%s/inspection-check", domain.TypeBooking, domain.GetUUID()).Get()
	as.Equal(http.StatusNotFound, res.Code)
}

func (as *ActionSuite) Test_BookingsWaterfallSimulation() {
	models.CreateRiskPolicyFixtures(as.DB)
	f := models.CreateBookingFixtures(as.DB, models.FixturesConfig{NumberOfBookings: 1})
	booking := f.Bookings[0]
	renter := api.Actor{ID: booking.RenterID}

	res := as.actorJSON(renter, "/%s/%s/waterfall-simulation", domain.TypeBooking, booking.ID).
		Post(api.SimulationInput{Amount: 100000})
	as.Equal(http.StatusOK, res.Code, "body: %s", res.Body.String())

	var got api.SimulationResult
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.True(got.Eligibility.Eligible)
	as.True(got.EstimatedBreakdown.IsBalanced())
	as.Equal(api.Currency(400000000), got.EstimatedBreakdown.TotalClaimAmount)
	as.NotEmpty(got.Formatted)
	as.Equal(0, as.services.captureCount(), "a simulation moves no money")

	res = as.actorJSON(renter, "/%s/%s/waterfall-simulation", domain.TypeBooking, booking.ID).
		Post(api.SimulationInput{Amount: -1})
	as.Equal(http.StatusBadRequest, res.Code)
	as.verifyResponseData([]string{`"key":"` + api.ErrorInvalidAmount.String()}, res.Body.String(), "")
}
