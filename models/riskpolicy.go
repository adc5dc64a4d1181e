package models

import (
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
)

type RiskPolicies []RiskPolicy

// RiskPolicy is a coverage band selected by a car's daily rate. A zero MaxDailyRate is unbounded.
type RiskPolicy struct {
	ID              uuid.UUID `db:"id"`
	Name            string    `db:"name" validate:"required"`
	MinDailyRate    int       `db:"min_daily_rate" validate:"min=0"`
	MaxDailyRate    int       `db:"max_daily_rate" validate:"min=0"`
	FranchiseAmount int       `db:"franchise_amount" validate:"min=0"`
	MaxCoverage     int       `db:"max_coverage" validate:"min=0"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (r *RiskPolicy) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(r), nil
}

func (r *RiskPolicy) Create(tx *pop.Connection) error {
	return create(tx, r)
}

// FindByDailyRate loads the narrowest policy whose band contains the daily rate
func (r *RiskPolicy) FindByDailyRate(tx *pop.Connection, dailyRate int) (bool, error) {
	err := tx.Where("min_daily_rate <= ?", dailyRate).
		Where("max_daily_rate = 0 OR max_daily_rate >= ?", dailyRate).
		Order("min_daily_rate desc").
		First(r)
	if err == nil {
		return true, nil
	}
	if !domain.IsOtherThanNoRows(err) {
		return false, nil
	}
	return false, appErrorFromDB(err, api.ErrorQueryFailure)
}

func (r *RiskPolicies) All(tx *pop.Connection) error {
	return appErrorFromDB(tx.Order("min_daily_rate asc").All(r), api.ErrorQueryFailure)
}

func (r *RiskPolicy) ConvertToAPI() api.RiskPolicy {
	return api.RiskPolicy{
		ID:              r.ID,
		Name:            r.Name,
		MinDailyRate:    api.Currency(r.MinDailyRate),
		MaxDailyRate:    api.Currency(r.MaxDailyRate),
		FranchiseAmount: api.Currency(r.FranchiseAmount),
		MaxCoverage:     api.Currency(r.MaxCoverage),
	}
}

func (r *RiskPolicies) ConvertToAPI() []api.RiskPolicy {
	out := make([]api.RiskPolicy, len(*r))
	for i := range *r {
		out[i] = (*r)[i].ConvertToAPI()
	}
	return out
}
