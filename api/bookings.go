package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// swagger:model
type Booking struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	// swagger:strfmt uuid4
	CarID uuid.UUID `json:"car_id"`

	// swagger:strfmt uuid4
	RenterID uuid.UUID `json:"renter_id"`

	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// swagger:model
type Car struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	// swagger:strfmt uuid4
	OwnerID uuid.UUID `json:"owner_id"`

	Make  string `json:"make"`
	Model string `json:"model"`
	Plate string `json:"plate"`

	// settlement-currency cents
	DailyRate Currency `json:"daily_rate"`
}

// RiskPolicy is the coverage band applicable to cars within a daily-rate range
//
// swagger:model
type RiskPolicy struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	Name         string   `json:"name"`
	MinDailyRate Currency `json:"min_daily_rate"`

	// zero means unbounded
	MaxDailyRate Currency `json:"max_daily_rate"`

	// deductible, in reference-currency cents
	FranchiseAmount Currency `json:"franchise_amount"`

	// settlement-currency cents
	MaxCoverage Currency `json:"max_coverage"`
}

type InspectionStage string

const (
	InspectionStageCheckIn  = InspectionStage("check_in")
	InspectionStageCheckOut = InspectionStage("check_out")
)

// swagger:model
type Inspection struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	// swagger:strfmt uuid4
	BookingID   uuid.UUID       `json:"booking_id"`
	Stage       InspectionStage `json:"stage"`
	InspectedAt time.Time       `json:"inspected_at"`
	Damages     DamageItems     `json:"damages"`
}

// InspectionCheck reports whether both inspections needed to establish damage exist
//
// swagger:model
type InspectionCheck struct {
	Valid   bool              `json:"valid"`
	Missing []InspectionStage `json:"missing"`
}

// DamageSuggestions is the advisory output of diffing check-in and check-out inspections
//
// swagger:model
type DamageSuggestions struct {
	Inspections InspectionCheck `json:"inspections"`
	Damages     DamageItems     `json:"damages"`
	Total       Currency        `json:"total"`
}
