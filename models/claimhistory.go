package models

import (
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
)

const (
	HistoryActionCreate = "create"
	HistoryActionUpdate = "update"
)

type ClaimHistories []ClaimHistory

// ClaimHistory is an audit record of a change to a claim. ActorID is empty for changes made by the system.
type ClaimHistory struct {
	ID        uuid.UUID  `db:"id"`
	ClaimID   uuid.UUID  `db:"claim_id" validate:"required"`
	ActorID   nulls.UUID `db:"actor_id"`
	Action    string     `db:"action" validate:"required"`
	FieldName string     `db:"field_name"`
	OldValue  string     `db:"old_value"`
	NewValue  string     `db:"new_value"`
	Reason    string     `db:"reason"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" (pop.ValidateAndSave, pop.ValidateAndCreate, pop.ValidateAndUpdate) method.
func (ch *ClaimHistory) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(ch), nil
}

func (ch *ClaimHistory) Create(tx *pop.Connection) error {
	return create(tx, ch)
}

// FindByClaimID returns the history of a claim, oldest first
func (ch *ClaimHistories) FindByClaimID(tx *pop.Connection, claimID uuid.UUID) error {
	err := tx.Where("claim_id = ?", claimID).Order("created_at asc").All(ch)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

func (ch *ClaimHistory) ConvertToAPI() api.ClaimHistory {
	return api.ClaimHistory{
		ID:        ch.ID,
		ClaimID:   ch.ClaimID,
		ActorID:   convertUUIDToAPI(ch.ActorID),
		Action:    ch.Action,
		FieldName: ch.FieldName,
		OldValue:  ch.OldValue,
		NewValue:  ch.NewValue,
		Reason:    ch.Reason,
		CreatedAt: ch.CreatedAt.UTC(),
	}
}

func (ch ClaimHistories) ConvertToAPI() api.ClaimHistories {
	out := make(api.ClaimHistories, len(ch))
	for i := range ch {
		out[i] = ch[i].ConvertToAPI()
	}
	return out
}

func newStatusHistory(claimID uuid.UUID, actor nulls.UUID, from, to api.ClaimStatus, reason string) ClaimHistory {
	return ClaimHistory{
		ClaimID:   claimID,
		ActorID:   actor,
		Action:    HistoryActionUpdate,
		FieldName: FieldClaimStatus,
		OldValue:  string(from),
		NewValue:  string(to),
		Reason:    reason,
	}
}
