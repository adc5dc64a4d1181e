package models

import (
	"context"

	"github.com/silinternational/claims-settlement-api/api"
)

func (ms *ModelSuite) TestClaimHistories_FindByClaimID() {
	ctx := context.Background()
	store := NewStore(ms.DB)
	f := CreateBookingFixtures(ms.DB, FixturesConfig{NumberOfBookings: 1})
	booking := f.Bookings[0]

	claim, err := store.InsertClaim(ctx, api.Claim{
		BookingID:    booking.ID,
		ReportedBy:   booking.RenterID,
		ReporterRole: api.ReporterRoleRenter,
		Status:       api.ClaimStatusDraft,
		Damages: api.DamageItems{
			{Type: api.DamageTypeTire, Severity: api.DamageSeverityMinor, Area: "front left", EstimatedCost: 10000},
		},
		TotalEstimatedCost: 10000,
	})
	ms.NoError(err)
	ms.Equal(api.ClaimStatusDraft, claim.Status)
	ms.Len(claim.Damages, 1)

	lock := ms.newLock(claim.ID)
	ok, err := store.TryLockClaim(ctx, lock)
	ms.NoError(err)
	ms.True(ok)

	var histories ClaimHistories
	ms.NoError(histories.FindByClaimID(ms.DB, claim.ID))
	ms.Len(histories, 2)

	created := histories[0].ConvertToAPI()
	ms.Equal(HistoryActionCreate, created.Action)
	ms.Equal(booking.RenterID, *created.ActorID)
	ms.Equal(string(api.ClaimStatusDraft), created.NewValue)

	locked := histories[1].ConvertToAPI()
	ms.Equal(FieldClaimLockedBy, locked.FieldName)
	ms.Equal(lock.Holder.String(), locked.NewValue)
	ms.Nil(locked.ActorID, "lock changes are made by the system")
}
