package messages

import (
	"context"
	"time"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
	"github.com/silinternational/claims-settlement-api/notifications"
	"github.com/silinternational/claims-settlement-api/settlement"
)

func (ts *TestSuite) TestClaimFraudWarningSend() {
	f := models.CreateBookingFixtures(ts.DB, models.FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 1})
	claim := f.Claims[0]

	ts.NoError(ClaimFraudWarningSend(claim, []string{"late report: 9 days after the booking ended"}))
	validateEmail(ts, testData{
		wantSubject:      "1 fraud warning(s)",
		wantBodyContains: []string{claim.ID.String(), "late report: 9 days", "500.00"},
	})
}

func (ts *TestSuite) TestClaimRejectedSend() {
	f := models.CreateBookingFixtures(ts.DB, models.FixturesConfig{
		NumberOfBookings: 1, ClaimsPerBooking: 1, ClaimStatus: api.ClaimStatusRejected,
	})
	claim := f.Claims[0]

	h := models.ClaimHistory{
		ClaimID:   claim.ID,
		Action:    models.HistoryActionUpdate,
		FieldName: models.FieldClaimStatus,
		OldValue:  string(api.ClaimStatusUnderReview),
		NewValue:  string(api.ClaimStatusRejected),
		Reason:    "pre-existing damage",
	}
	ts.NoError(h.Create(ts.DB))

	ts.NoError(ClaimRejectedSend(ts.DB, claim))
	validateEmail(ts, testData{
		wantSubject:      "Claim rejected",
		wantBodyContains: []string{claim.ID.String(), "pre-existing damage"},
	})
}

func (ts *TestSuite) TestClaimRejectedSend_IneligibleAtSettlement() {
	f := models.CreateBookingFixtures(ts.DB, models.FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 1})
	claim := f.Claims[0]

	ctx := context.Background()
	store := models.NewStore(ts.DB)
	lock := settlement.Lock{
		ClaimID:    claim.ID,
		Holder:     domain.GetUUID(),
		AcquiredAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	ok, err := store.TryLockClaim(ctx, lock)
	ts.NoError(err)
	ts.True(ok)
	ok, err = store.UnlockClaim(ctx, lock, api.ClaimStatusRejected, "Claim no elegible: booking cancelled")
	ts.NoError(err)
	ts.True(ok)
	notifications.TestEmailService.DeleteSentMessages()

	ts.NoError(ClaimRejectedSend(ts.DB, claim))
	validateEmail(ts, testData{
		wantSubject:      "Claim rejected",
		wantBodyContains: []string{claim.ID.String(), "booking cancelled"},
	})
}

func (ts *TestSuite) TestClaimPaidSend() {
	f := models.CreateBookingFixtures(ts.DB, models.FixturesConfig{NumberOfBookings: 1})
	claim := models.CreatePaidClaimFixture(ts.DB, f.Bookings[0], 50000)
	claim.Payout = nil

	ts.NoError(ClaimPaidSend(ts.DB, claim))
	validateEmail(ts, testData{
		wantSubject:      "Claim paid",
		wantBodyContains: []string{"Guarantee fund: " + domain.Env.ReferenceCurrency + " 500.00"},
	})
}

func (ts *TestSuite) TestClaimPaidSend_NoPayout() {
	f := models.CreateBookingFixtures(ts.DB, models.FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 1})

	ts.Error(ClaimPaidSend(ts.DB, f.Claims[0]))
	ts.Equal(0, notifications.TestEmailService.GetNumberOfMessagesSent())
}

func (ts *TestSuite) TestClaimReconciliationRequiredSend() {
	f := models.CreateBookingFixtures(ts.DB, models.FixturesConfig{NumberOfBookings: 1})
	claim := models.CreatePaidClaimFixture(ts.DB, f.Bookings[0], 123456)

	ts.NoError(ClaimReconciliationRequiredSend(ts.DB, claim))
	validateEmail(ts, testData{
		wantSubject:      "reconciliation",
		wantBodyContains: []string{"1,234.56", "/claims/" + claim.ID.String() + "/reconcile"},
	})
}

func (ts *TestSuite) TestClaimLockExpiredSend() {
	f := models.CreateBookingFixtures(ts.DB, models.FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 1})

	ts.NoError(ClaimLockExpiredSend(f.Claims[0]))
	validateEmail(ts, testData{
		wantSubject:      "lock expired",
		wantBodyContains: []string{string(api.ClaimStatusApproved)},
	})
}

func (ts *TestSuite) TestNoOperationsEmail() {
	domain.Env.OperationsEmail = ""
	claim := models.Claim{ID: domain.GetUUID(), BookingID: domain.GetUUID(), CreatedAt: time.Now()}

	ts.NoError(ClaimLockExpiredSend(claim))
	ts.Equal(0, notifications.TestEmailService.GetNumberOfMessagesSent())
}
