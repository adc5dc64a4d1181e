package models

import (
	"testing"

	"github.com/silinternational/claims-settlement-api/api"
)

func (ms *ModelSuite) TestCreateBookingFixtures() {
	tests := []struct {
		name            string
		config          FixturesConfig
		wantBookings    int
		wantClaims      int
		wantInspections int
	}{
		{
			name:            "single booking, no claims",
			config:          FixturesConfig{NumberOfBookings: 1},
			wantBookings:    1,
			wantInspections: 2,
		},
		{
			name:         "several bookings with claims, no inspections",
			config:       FixturesConfig{NumberOfBookings: 3, ClaimsPerBooking: 2, NoInspections: true},
			wantBookings: 3,
			wantClaims:   6,
		},
	}
	for _, tt := range tests {
		ms.T().Run(tt.name, func(t *testing.T) {
			got := CreateBookingFixtures(ms.DB, tt.config)
			ms.Len(got.Bookings, tt.wantBookings, "incorrect number of Bookings")
			ms.Len(got.Cars, tt.wantBookings, "incorrect number of Cars")
			ms.Len(got.Claims, tt.wantClaims, "incorrect number of Claims")
			ms.Len(got.Inspections, tt.wantInspections, "incorrect number of Inspections")
			for _, c := range got.Claims {
				ms.Equal(api.ClaimStatusApproved, c.Status)
			}
		})
	}
}

func (ms *ModelSuite) TestCreatePaidClaimFixture() {
	f := CreateBookingFixtures(ms.DB, FixturesConfig{NumberOfBookings: 1})
	claim := CreatePaidClaimFixture(ms.DB, f.Bookings[0], 800000)

	var found Claim
	ok, err := found.FindByID(ms.DB, claim.ID)
	ms.NoError(err)
	ms.True(ok)
	ms.Equal(api.ClaimStatusPaid, found.Status)
	ms.NotNil(found.Payout)
	ms.True(found.Payout.ReconciliationRequired)
}
