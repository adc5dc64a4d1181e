package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
)

type Bookings []Booking

type Booking struct {
	ID        uuid.UUID `db:"id"`
	CarID     uuid.UUID `db:"car_id" validate:"required"`
	RenterID  uuid.UUID `db:"renter_id" validate:"required"`
	StartsAt  time.Time `db:"starts_at" validate:"required"`
	EndsAt    time.Time `db:"ends_at" validate:"required"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Car         Car         `belongs_to:"cars" validate:"-"`
	Inspections Inspections `has_many:"inspections" order_by:"inspected_at asc" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (b *Booking) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(b), nil
}

func (b *Booking) Create(tx *pop.Connection) error {
	return create(tx, b)
}

func (b *Booking) FindByID(tx *pop.Connection, id uuid.UUID) (bool, error) {
	return find(tx, b, id)
}

// LoadInspections - a simple wrapper method for loading inspections, with their damages, on the struct
func (b *Booking) LoadInspections(tx *pop.Connection) error {
	if err := tx.Load(b, "Inspections"); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	for i := range b.Inspections {
		if err := b.Inspections[i].LoadDamages(tx); err != nil {
			return err
		}
	}
	return nil
}

func (b *Booking) ConvertToAPI() api.Booking {
	return api.Booking{
		ID:       b.ID,
		CarID:    b.CarID,
		RenterID: b.RenterID,
		StartsAt: b.StartsAt.UTC(),
		EndsAt:   b.EndsAt.UTC(),
	}
}
