package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
)

var ValidDamageTypes = map[api.DamageType]struct{}{
	api.DamageTypeBody:       {},
	api.DamageTypeGlass:      {},
	api.DamageTypeInterior:   {},
	api.DamageTypeMechanical: {},
	api.DamageTypeTire:       {},
	api.DamageTypeTheft:      {},
	api.DamageTypeOther:      {},
}

type ClaimDamages []ClaimDamage

// ClaimDamage is one damaged area of a claim. Position keeps the order in which they were reported.
type ClaimDamage struct {
	ID            uuid.UUID          `db:"id"`
	ClaimID       uuid.UUID          `db:"claim_id" validate:"required"`
	Position      int                `db:"position" validate:"min=0"`
	Type          api.DamageType     `db:"type" validate:"damageType"`
	Severity      api.DamageSeverity `db:"severity" validate:"damageSeverity"`
	Area          string             `db:"area" validate:"required"`
	EstimatedCost int                `db:"estimated_cost" validate:"min=0"`
	Description   string             `db:"description"`
	CreatedAt     time.Time          `db:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (d *ClaimDamage) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(d), nil
}

func (d *ClaimDamage) Create(tx *pop.Connection) error {
	return create(tx, d)
}

func (d *ClaimDamage) ConvertToAPI() api.DamageItem {
	return api.DamageItem{
		Type:          d.Type,
		Severity:      d.Severity,
		Area:          d.Area,
		EstimatedCost: api.Currency(d.EstimatedCost),
		Description:   d.Description,
	}
}

func (d ClaimDamages) ConvertToAPI() api.DamageItems {
	items := make(api.DamageItems, len(d))
	for i := range d {
		items[i] = d[i].ConvertToAPI()
	}
	return items
}

func NewClaimDamageFromAPI(item api.DamageItem) ClaimDamage {
	return ClaimDamage{
		Type:          item.Type,
		Severity:      item.Severity,
		Area:          item.Area,
		EstimatedCost: int(item.EstimatedCost),
		Description:   item.Description,
	}
}
