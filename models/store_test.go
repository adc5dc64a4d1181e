package models

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/settlement"
)

func (ms *ModelSuite) newLock(claimID uuid.UUID) settlement.Lock {
	return settlement.Lock{
		ClaimID:    claimID,
		Holder:     domain.GetUUID(),
		AcquiredAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (ms *ModelSuite) TestStore_TryLockClaim() {
	ctx := context.Background()
	store := NewStore(ms.DB)
	f := CreateBookingFixtures(ms.DB, FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 1})
	claim := f.Claims[0]
	paid := CreateClaimFixtures(ms.DB, f.Bookings[0], 1, api.ClaimStatusPaid)[0]

	lock := ms.newLock(claim.ID)
	ok, err := store.TryLockClaim(ctx, lock)
	ms.NoError(err)
	ms.True(ok)

	got, found, err := store.FindClaim(ctx, claim.ID)
	ms.NoError(err)
	ms.True(found)
	ms.Equal(api.ClaimStatusProcessing, got.Status)
	ms.Equal(lock.Holder, *got.LockedBy)
	ms.True(lock.AcquiredAt.Equal(*got.LockedAt))

	ok, err = store.TryLockClaim(ctx, ms.newLock(claim.ID))
	ms.NoError(err)
	ms.False(ok, "a locked claim cannot be locked again")

	ok, err = store.TryLockClaim(ctx, ms.newLock(paid.ID))
	ms.NoError(err)
	ms.False(ok, "a paid claim cannot be locked")

	ok, err = store.TryLockClaim(ctx, ms.newLock(domain.GetUUID()))
	ms.NoError(err)
	ms.False(ok)
}

func (ms *ModelSuite) TestStore_TryLockClaim_Concurrent() {
	store := NewStore(ms.DB)
	f := CreateBookingFixtures(ms.DB, FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 1})
	claimID := f.Claims[0].ID

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.TryLockClaim(context.Background(), ms.newLock(claimID))
			if err != nil {
				errs <- err
			}
			results <- ok
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		ms.NoError(err)
	}
	winners := 0
	for ok := range results {
		if ok {
			winners++
		}
	}
	ms.Equal(1, winners, "exactly one attempt may hold the lock")
}

func (ms *ModelSuite) TestStore_UnlockClaim() {
	ctx := context.Background()
	store := NewStore(ms.DB)
	f := CreateBookingFixtures(ms.DB, FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 1})
	claimID := f.Claims[0].ID

	lock := ms.newLock(claimID)
	ok, err := store.TryLockClaim(ctx, lock)
	ms.NoError(err)
	ms.True(ok)

	tests := []struct {
		name string
		lock func() settlement.Lock
		want bool
	}{
		{
			name: "other holder",
			lock: func() settlement.Lock { l := lock; l.Holder = domain.GetUUID(); return l },
			want: false,
		},
		{
			name: "same holder, older acquisition",
			lock: func() settlement.Lock { l := lock; l.AcquiredAt = l.AcquiredAt.Add(-time.Second); return l },
			want: false,
		},
		{
			name: "holder",
			lock: func() settlement.Lock { return lock },
			want: true,
		},
		{
			name: "already released",
			lock: func() settlement.Lock { return lock },
			want: false,
		},
	}
	for _, tt := range tests {
		ms.T().Run(tt.name, func(t *testing.T) {
			ok, err := store.UnlockClaim(ctx, tt.lock(), api.ClaimStatusRejected, "")
			ms.NoError(err)
			ms.Equal(tt.want, ok)
		})
	}

	got, _, err := store.FindClaim(ctx, claimID)
	ms.NoError(err)
	ms.Equal(api.ClaimStatusRejected, got.Status)
	ms.Nil(got.LockedAt)
	ms.Nil(got.LockedBy)

	var histories ClaimHistories
	ms.NoError(histories.FindByClaimID(ms.DB, claimID))
	last := histories[len(histories)-1]
	ms.Equal(string(api.ClaimStatusProcessing), last.OldValue)
	ms.Equal(string(api.ClaimStatusRejected), last.NewValue)
	ms.Equal(ClaimStatusChangeUnlocked, last.Reason)
}

func (ms *ModelSuite) TestStore_UnlockClaimWithReason() {
	ctx := context.Background()
	store := NewStore(ms.DB)
	f := CreateBookingFixtures(ms.DB, FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 1})
	claimID := f.Claims[0].ID

	lock := ms.newLock(claimID)
	ok, err := store.TryLockClaim(ctx, lock)
	ms.NoError(err)
	ms.True(ok)

	const reason = "Claim no elegible: exceeds policy limit"
	ok, err = store.UnlockClaim(ctx, lock, api.ClaimStatusRejected, reason)
	ms.NoError(err)
	ms.True(ok)

	var histories ClaimHistories
	ms.NoError(histories.FindByClaimID(ms.DB, claimID))
	last := histories[len(histories)-1]
	ms.Equal(string(api.ClaimStatusRejected), last.NewValue)
	ms.Equal(reason, last.Reason, "the rejection reason replaces the generic one")
}

func (ms *ModelSuite) TestStore_SettleClaim() {
	ctx := context.Background()
	store := NewStore(ms.DB)
	f := CreateBookingFixtures(ms.DB, FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 1})
	claimID := f.Claims[0].ID

	lock := ms.newLock(claimID)
	ok, err := store.TryLockClaim(ctx, lock)
	ms.NoError(err)
	ms.True(ok)

	payout := api.ClaimPayout{
		WaterfallBreakdown: api.WaterfallBreakdown{
			TotalClaimAmount: 2000000,
			HoldCaptured:     400000,
			FundPaid:         1600000,
		},
		FxRate:                 decimal.NewFromInt(4000),
		MaxCoverage:            400000000,
		ReconciliationRequired: true,
		CreatedAt:              time.Now().UTC().Truncate(time.Microsecond),
	}

	stranger := lock
	stranger.Holder = domain.GetUUID()
	ok, err = store.SettleClaim(ctx, stranger, payout)
	ms.NoError(err)
	ms.False(ok, "only the holder may settle")

	ok, err = store.SettleClaim(ctx, lock, payout)
	ms.NoError(err)
	ms.True(ok)

	got, _, err := store.FindClaim(ctx, claimID)
	ms.NoError(err)
	ms.Equal(api.ClaimStatusPaid, got.Status)
	ms.Nil(got.LockedAt)
	ms.NotNil(got.ProcessedAt)
	ms.NotNil(got.Payout)
	ms.Equal(payout.WaterfallBreakdown, got.Payout.WaterfallBreakdown)
	ms.True(got.Payout.FxRate.Equal(payout.FxRate))
	ms.True(got.Payout.ReconciliationRequired)

	needing, err := store.FindClaimsNeedingReconciliation(ctx)
	ms.NoError(err)
	ms.Len(needing, 1)
	ms.Equal(claimID, needing[0].ID)

	ms.NoError(store.MarkPayoutReconciled(ctx, claimID, time.Now().UTC()))
	needing, err = store.FindClaimsNeedingReconciliation(ctx)
	ms.NoError(err)
	ms.Empty(needing)

	err = store.MarkPayoutReconciled(ctx, claimID, time.Now().UTC())
	ms.EqualAppError(api.AppError{Key: api.ErrorClaimStatus, Category: api.CategoryUser}, err)

	ok, err = store.TryLockClaim(ctx, ms.newLock(claimID))
	ms.NoError(err)
	ms.False(ok, "a paid claim stays paid")
}

func (ms *ModelSuite) TestStore_UpdateClaimStatus() {
	ctx := context.Background()
	store := NewStore(ms.DB)
	f := CreateBookingFixtures(ms.DB, FixturesConfig{
		NumberOfBookings: 1,
		ClaimsPerBooking: 2,
		ClaimStatus:      api.ClaimStatusSubmitted,
	})
	actor := domain.GetUUID()

	change := settlement.StatusChange{
		ClaimID: f.Claims[0].ID,
		From:    api.ClaimStatusSubmitted,
		To:      api.ClaimStatusUnderReview,
		Actor:   actor,
		Reason:  "looking into it",
		At:      time.Now().UTC(),
	}
	ok, err := store.UpdateClaimStatus(ctx, change)
	ms.NoError(err)
	ms.True(ok)

	ok, err = store.UpdateClaimStatus(ctx, change)
	ms.NoError(err)
	ms.False(ok, "the claim is no longer in the from status")

	locked := f.Claims[1].ID
	_, err = store.TryLockClaim(ctx, ms.newLock(locked))
	ms.NoError(err)
	ok, err = store.UpdateClaimStatus(ctx, settlement.StatusChange{
		ClaimID: locked,
		From:    api.ClaimStatusProcessing,
		To:      api.ClaimStatusRejected,
		Actor:   actor,
		At:      time.Now().UTC(),
	})
	ms.NoError(err)
	ms.False(ok, "a locked claim cannot change status by hand")

	var histories ClaimHistories
	ms.NoError(histories.FindByClaimID(ms.DB, change.ClaimID))
	last := histories[len(histories)-1]
	ms.Equal(actor, last.ActorID.UUID)
	ms.Equal("looking into it", last.Reason)
	ms.Equal(string(api.ClaimStatusUnderReview), last.NewValue)
}

func (ms *ModelSuite) TestStore_Counts() {
	ctx := context.Background()
	store := NewStore(ms.DB)
	f := CreateBookingFixtures(ms.DB, FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 2})
	booking := f.Bookings[0]
	CreateClaimFixtures(ms.DB, booking, 1, api.ClaimStatusRejected)

	n, err := store.CountOpenClaimsForBooking(ctx, booking.ID)
	ms.NoError(err)
	ms.Equal(2, n)

	n, err = store.CountClaimsByReporterSince(ctx, booking.RenterID, time.Now().Add(-domain.ClaimFrequencyWindow))
	ms.NoError(err)
	ms.Equal(3, n)

	n, err = store.CountClaimsByReporterSince(ctx, booking.RenterID, time.Now().Add(time.Hour))
	ms.NoError(err)
	ms.Equal(0, n)
}

func (ms *ModelSuite) TestStore_FindStaleLocks() {
	ctx := context.Background()
	store := NewStore(ms.DB)
	f := CreateBookingFixtures(ms.DB, FixturesConfig{NumberOfBookings: 1, ClaimsPerBooking: 2})

	old := ms.newLock(f.Claims[0].ID)
	old.AcquiredAt = old.AcquiredAt.Add(-time.Hour)
	_, err := store.TryLockClaim(ctx, old)
	ms.NoError(err)
	_, err = store.TryLockClaim(ctx, ms.newLock(f.Claims[1].ID))
	ms.NoError(err)

	stale, err := store.FindStaleLocks(ctx, time.Now().Add(-15*time.Minute))
	ms.NoError(err)
	ms.Len(stale, 1)
	ms.Equal(f.Claims[0].ID, stale[0].ID)
}

func (ms *ModelSuite) TestStore_Bookings() {
	ctx := context.Background()
	store := NewStore(ms.DB)
	f := CreateBookingFixtures(ms.DB, FixturesConfig{NumberOfBookings: 1})
	booking := f.Bookings[0]

	got, found, err := store.FindBooking(ctx, booking.ID)
	ms.NoError(err)
	ms.True(found)
	ms.Equal(booking.CarID, got.CarID)

	car, found, err := store.FindCar(ctx, booking.CarID)
	ms.NoError(err)
	ms.True(found)
	ms.Equal(api.Currency(12000000), car.DailyRate)

	inspections, err := store.FindInspections(ctx, booking.ID)
	ms.NoError(err)
	ms.Len(inspections, 2)
	ms.Equal(api.InspectionStageCheckIn, inspections[0].Stage)
	ms.Len(inspections[1].Damages, 2)

	_, found, err = store.FindBooking(ctx, domain.GetUUID())
	ms.NoError(err)
	ms.False(found)
}

func (ms *ModelSuite) TestStore_FindRiskPolicy() {
	ctx := context.Background()
	store := NewStore(ms.DB)
	CreateRiskPolicyFixtures(ms.DB)

	tests := []struct {
		rate api.Currency
		want string
	}{
		{rate: 0, want: "Economy"},
		{rate: 15000000, want: "Economy"},
		{rate: 15000001, want: "Standard"},
		{rate: 30000000, want: "Standard"},
		{rate: 90000000, want: "Premium"},
	}
	for _, tt := range tests {
		ms.T().Run(tt.want, func(t *testing.T) {
			got, found, err := store.FindRiskPolicy(ctx, tt.rate)
			ms.NoError(err)
			ms.True(found)
			ms.Equal(tt.want, got.Name)
		})
	}
}
