//go:build development

// This build tag ensures that this file will not be included unless
//  the `development` tag is explicitly requested (which should be never)

package models

import (
	"fmt"
	"time"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
)

type FixturesConfig struct {
	NumberOfBookings int
	ClaimsPerBooking int
	ClaimStatus      api.ClaimStatus

	// skip the check-in and check-out inspections
	NoInspections bool
}

// Fixtures hold slices of model objects created for test fixtures
type Fixtures struct {
	Bookings
	Cars
	Claims
	Inspections
	RiskPolicies
}

// TestBuffaloContext is a buffalo context user in tests
type TestBuffaloContext struct {
	buffalo.DefaultContext
	params map[any]any
}

// Value returns the value associated with the given key in the test context
func (b *TestBuffaloContext) Value(key any) any {
	return b.params[key]
}

// Set sets the value to be associated with the given key in the test context
func (b *TestBuffaloContext) Set(key string, val any) {
	b.params[key] = val
}

// CreateTestContext sets the domain.ContextKeyActor to the actor param in the TestBuffaloContext
func CreateTestContext(actor api.Actor) buffalo.Context {
	ctx := &TestBuffaloContext{
		params: map[any]any{},
	}
	ctx.Set(domain.ContextKeyActor, actor)
	return ctx
}

func mustCreate(tx *pop.Connection, f Creatable) {
	if err := f.Create(tx); err != nil {
		panic(fmt.Sprintf("error creating %T fixture, %s", f, err))
	}
}

// CreateRiskPolicyFixtures creates three contiguous coverage bands. Daily rates are settlement-currency cents.
func CreateRiskPolicyFixtures(tx *pop.Connection) RiskPolicies {
	policies := RiskPolicies{
		{Name: "Economy", MinDailyRate: 0, MaxDailyRate: 15000000, FranchiseAmount: 50000, MaxCoverage: 400000000},
		{Name: "Standard", MinDailyRate: 15000001, MaxDailyRate: 30000000, FranchiseAmount: 80000, MaxCoverage: 800000000},
		{Name: "Premium", MinDailyRate: 30000001, MaxDailyRate: 0, FranchiseAmount: 120000, MaxCoverage: 1500000000},
	}
	for i := range policies {
		mustCreate(tx, &policies[i])
	}
	return policies
}

// CreateBookingFixtures generates bookings on distinct cars, each ended yesterday, with check-in and check-out
// inspections and, optionally, claims
func CreateBookingFixtures(tx *pop.Connection, config FixturesConfig) Fixtures {
	var f Fixtures
	now := time.Now().UTC()

	for i := 0; i < config.NumberOfBookings; i++ {
		car := Car{
			OwnerID:   domain.GetUUID(),
			Make:      "Renault",
			Model:     "Duster",
			Plate:     fmt.Sprintf("FIX%03d", i),
			DailyRate: 12000000,
		}
		mustCreate(tx, &car)
		f.Cars = append(f.Cars, car)

		booking := Booking{
			CarID:    car.ID,
			RenterID: domain.GetUUID(),
			StartsAt: now.Add(-4 * domain.DurationDay),
			EndsAt:   now.Add(-domain.DurationDay),
		}
		mustCreate(tx, &booking)
		f.Bookings = append(f.Bookings, booking)

		if !config.NoInspections {
			checkIn := Inspection{
				BookingID:   booking.ID,
				Stage:       api.InspectionStageCheckIn,
				InspectedAt: booking.StartsAt,
				Damages: InspectionDamages{
					{Type: api.DamageTypeBody, Severity: api.DamageSeverityMinor, Area: "rear bumper"},
				},
			}
			checkOut := Inspection{
				BookingID:   booking.ID,
				Stage:       api.InspectionStageCheckOut,
				InspectedAt: booking.EndsAt,
				Damages: InspectionDamages{
					{Type: api.DamageTypeBody, Severity: api.DamageSeverityModerate, Area: "rear bumper"},
					{Type: api.DamageTypeGlass, Severity: api.DamageSeverityMinor, Area: "windshield"},
				},
			}
			mustCreate(tx, &checkIn)
			mustCreate(tx, &checkOut)
			f.Inspections = append(f.Inspections, checkIn, checkOut)
		}

		status := config.ClaimStatus
		if status == "" {
			status = api.ClaimStatusApproved
		}
		f.Claims = append(f.Claims, CreateClaimFixtures(tx, booking, config.ClaimsPerBooking, status)...)
	}

	return f
}

// CreateClaimFixtures creates claims reported by the renter of the booking, each for 500.00 of body damage
func CreateClaimFixtures(tx *pop.Connection, booking Booking, n int, status api.ClaimStatus) Claims {
	claims := make(Claims, n)
	for i := range claims {
		claims[i] = Claim{
			BookingID:          booking.ID,
			ReportedBy:         booking.RenterID,
			ReporterRole:       api.ReporterRoleRenter,
			TotalEstimatedCost: 50000,
			Status:             status,
			Notes:              fmt.Sprintf("fixture claim %d", i),
			Damages: ClaimDamages{
				{Type: api.DamageTypeBody, Severity: api.DamageSeverityModerate, Area: "rear bumper", EstimatedCost: 50000},
			},
		}
		if status == api.ClaimStatusPaid {
			claims[i].ProcessedAt.Time, claims[i].ProcessedAt.Valid = time.Now().UTC(), true
		}
		mustCreate(tx, &claims[i])
	}
	return claims
}

// CreatePaidClaimFixture creates a paid claim with a payout whose fund share still needs reconciliation
func CreatePaidClaimFixture(tx *pop.Connection, booking Booking, fundPaid int) Claim {
	claim := CreateClaimFixtures(tx, booking, 1, api.ClaimStatusPaid)[0]
	payout := ClaimPayout{
		ClaimID:                claim.ID,
		TotalClaimAmount:       fundPaid,
		FundPaid:               fundPaid,
		FxRate:                 decimal.NewFromInt(4000),
		MaxCoverage:            400000000,
		ReconciliationRequired: true,
	}
	mustCreate(tx, &payout)
	claim.Payout = &payout
	return claim
}

// CreateLedgerEntryFixtures records n payouts in the guarantee-fund ledger, submitted on the given date
func CreateLedgerEntryFixtures(tx *pop.Connection, n int, submitted time.Time) LedgerEntries {
	entries := make(LedgerEntries, n)
	for i := range entries {
		entries[i] = LedgerEntry{
			ClaimID:          uuid.Must(uuid.NewV4()),
			BookingID:        uuid.Must(uuid.NewV4()),
			Amount:           10000 * (i + 1),
			SettlementAmount: 40000000 * (i + 1),
			FxRate:           decimal.NewFromInt(4000),
			DateSubmitted:    submitted,
		}
		mustCreate(tx, &entries[i])
	}
	return entries
}

// DestroyAll destroys all data in the database, children first
func DestroyAll() {
	var histories ClaimHistories
	destroyTable(&histories)
	var entries LedgerEntries
	destroyTable(&entries)

	var payouts []ClaimPayout
	destroyTable(&payouts)
	var damages ClaimDamages
	destroyTable(&damages)
	var claims Claims
	destroyTable(&claims)

	var inspectionDamages InspectionDamages
	destroyTable(&inspectionDamages)
	var inspections Inspections
	destroyTable(&inspections)
	var bookings Bookings
	destroyTable(&bookings)
	var cars Cars
	destroyTable(&cars)
	var policies RiskPolicies
	destroyTable(&policies)
}

func destroyTable(i any) {
	if err := DB.All(i); err != nil {
		panic(err.Error())
	}
	if err := DB.Destroy(i); err != nil {
		panic(err.Error())
	}
}
