package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
)

type Cars []Car

type Car struct {
	ID        uuid.UUID `db:"id"`
	OwnerID   uuid.UUID `db:"owner_id" validate:"required"`
	Make      string    `db:"make"`
	Model     string    `db:"model"`
	Plate     string    `db:"plate" validate:"required"`
	DailyRate int       `db:"daily_rate" validate:"min=0"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (c *Car) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(c), nil
}

func (c *Car) Create(tx *pop.Connection) error {
	return create(tx, c)
}

func (c *Car) FindByID(tx *pop.Connection, id uuid.UUID) (bool, error) {
	return find(tx, c, id)
}

func (c *Car) ConvertToAPI() api.Car {
	return api.Car{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Make:      c.Make,
		Model:     c.Model,
		Plate:     c.Plate,
		DailyRate: api.Currency(c.DailyRate),
	}
}
