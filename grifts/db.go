package grifts

import (
	"fmt"
	"time"

	"github.com/gobuffalo/grift/grift"
	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
)

var _ = grift.Namespace("db", func() {
	grift.Desc("seed", "Seeds a database")
	_ = grift.Add("seed", func(c *grift.Context) error {
		count, err := models.DB.Count(models.RiskPolicies{})
		if err != nil {
			return err
		}

		if count > 0 {
			fmt.Printf("\nINFO: It appears that the grifts have already been run, "+
				"since there are already %v risk policies.\n", count)
			return nil
		}

		return models.DB.Transaction(func(tx *pop.Connection) error {
			if err := createRiskPolicies(tx); err != nil {
				return err
			}

			cars, err := createCars(tx)
			if err != nil {
				return err
			}

			return createBookings(tx, cars)
		})
	})
})

// createRiskPolicies seeds contiguous coverage bands, keyed by the car's daily rate in settlement-currency cents
func createRiskPolicies(tx *pop.Connection) error {
	policies := models.RiskPolicies{
		{Name: "Economy", MinDailyRate: 0, MaxDailyRate: 15000000, FranchiseAmount: 50000, MaxCoverage: 400000000},
		{Name: "Standard", MinDailyRate: 15000001, MaxDailyRate: 30000000, FranchiseAmount: 80000, MaxCoverage: 800000000},
		{Name: "Premium", MinDailyRate: 30000001, MaxDailyRate: 0, FranchiseAmount: 120000, MaxCoverage: 1500000000},
	}
	for i := range policies {
		if err := policies[i].Create(tx); err != nil {
			return fmt.Errorf("error creating risk policy %s, %w", policies[i].Name, err)
		}
	}
	return nil
}

func createCars(tx *pop.Connection) (models.Cars, error) {
	ownerUUIDs := []string{
		"0b6b5c8e-7a2a-4c55-9e3e-0a7f6d1c2b01",
		"0b6b5c8e-7a2a-4c55-9e3e-0a7f6d1c2b02",
	}

	cars := models.Cars{
		{Make: "Renault", Model: "Duster", Plate: "KLM123", DailyRate: 12000000},
		{Make: "Mazda", Model: "CX-5", Plate: "HJK456", DailyRate: 22000000},
		{Make: "Toyota", Model: "Prado", Plate: "FGH789", DailyRate: 45000000},
	}
	for i := range cars {
		cars[i].OwnerID = uuid.FromStringOrNil(ownerUUIDs[i%len(ownerUUIDs)])
		if err := cars[i].Create(tx); err != nil {
			return nil, fmt.Errorf("error creating car %s, %w", cars[i].Plate, err)
		}
	}
	return cars, nil
}

// createBookings creates a finished booking for each car, with check-in and check-out inspections that show
// new damage
func createBookings(tx *pop.Connection, cars models.Cars) error {
	renterID := uuid.FromStringOrNil("5f0c2a8d-31e4-4d7b-8a6e-2c9d4b7e3a10")
	now := time.Now().UTC()

	for _, car := range cars {
		booking := models.Booking{
			CarID:    car.ID,
			RenterID: renterID,
			StartsAt: now.Add(-5 * domain.DurationDay),
			EndsAt:   now.Add(-2 * domain.DurationDay),
		}
		if err := booking.Create(tx); err != nil {
			return fmt.Errorf("error creating booking for car %s, %w", car.Plate, err)
		}

		inspections := models.Inspections{
			{
				BookingID:   booking.ID,
				Stage:       api.InspectionStageCheckIn,
				InspectedAt: booking.StartsAt,
			},
			{
				BookingID:   booking.ID,
				Stage:       api.InspectionStageCheckOut,
				InspectedAt: booking.EndsAt,
				Damages: models.InspectionDamages{
					{Type: api.DamageTypeBody, Severity: api.DamageSeverityModerate, Area: "front left door"},
					{Type: api.DamageTypeGlass, Severity: api.DamageSeverityMinor, Area: "windshield"},
				},
			},
		}
		for i := range inspections {
			if err := inspections[i].Create(tx); err != nil {
				return fmt.Errorf("error creating inspection for booking %s, %w", booking.ID, err)
			}
		}
	}
	return nil
}
