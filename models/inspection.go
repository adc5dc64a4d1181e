package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
)

type Inspections []Inspection

type Inspection struct {
	ID          uuid.UUID           `db:"id"`
	BookingID   uuid.UUID           `db:"booking_id" validate:"required"`
	Stage       api.InspectionStage `db:"stage" validate:"inspectionStage"`
	InspectedAt time.Time           `db:"inspected_at" validate:"required"`
	CreatedAt   time.Time           `db:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at"`

	Damages InspectionDamages `has_many:"inspection_damages" order_by:"position asc" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (i *Inspection) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(i), nil
}

// Create stores the inspection and the damages noted on it
func (i *Inspection) Create(tx *pop.Connection) error {
	if err := create(tx, i); err != nil {
		return err
	}
	for n := range i.Damages {
		i.Damages[n].InspectionID = i.ID
		i.Damages[n].Position = n
		if err := i.Damages[n].Create(tx); err != nil {
			return err
		}
	}
	return nil
}

func (i *Inspection) LoadDamages(tx *pop.Connection) error {
	return appErrorFromDB(tx.Load(i, "Damages"), api.ErrorQueryFailure)
}

func (i *Inspection) ConvertToAPI() api.Inspection {
	damages := make(api.DamageItems, len(i.Damages))
	for n := range i.Damages {
		damages[n] = i.Damages[n].ConvertToAPI()
	}
	return api.Inspection{
		ID:          i.ID,
		BookingID:   i.BookingID,
		Stage:       i.Stage,
		InspectedAt: i.InspectedAt.UTC(),
		Damages:     damages,
	}
}

func (i Inspections) ConvertToAPI() []api.Inspection {
	out := make([]api.Inspection, len(i))
	for n := range i {
		out[n] = i[n].ConvertToAPI()
	}
	return out
}

type InspectionDamages []InspectionDamage

// InspectionDamage is damage already present on the car when it was inspected
type InspectionDamage struct {
	ID           uuid.UUID          `db:"id"`
	InspectionID uuid.UUID          `db:"inspection_id" validate:"required"`
	Position     int                `db:"position" validate:"min=0"`
	Type         api.DamageType     `db:"type" validate:"damageType"`
	Severity     api.DamageSeverity `db:"severity" validate:"damageSeverity"`
	Area         string             `db:"area" validate:"required"`
	Description  string             `db:"description"`
	CreatedAt    time.Time          `db:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (d *InspectionDamage) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(d), nil
}

func (d *InspectionDamage) Create(tx *pop.Connection) error {
	return create(tx, d)
}

func (d *InspectionDamage) ConvertToAPI() api.DamageItem {
	return api.DamageItem{
		Type:        d.Type,
		Severity:    d.Severity,
		Area:        d.Area,
		Description: d.Description,
	}
}
