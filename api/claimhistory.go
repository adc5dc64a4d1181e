package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// swagger:model
type ClaimHistories []ClaimHistory

// ClaimHistory is one recorded change to a claim
//
// swagger:model
type ClaimHistory struct {
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	// swagger:strfmt uuid4
	ClaimID uuid.UUID `json:"claim_id"`

	// empty for changes made by the system, such as an expired settlement lock
	//
	// swagger:strfmt uuid4
	ActorID *uuid.UUID `json:"actor_id"`

	Action    string `json:"action"`
	FieldName string `json:"field_name"`
	OldValue  string `json:"old_value"`
	NewValue  string `json:"new_value"`
	Reason    string `json:"reason"`

	// swagger:strfmt date-time
	CreatedAt time.Time `json:"created_at"`
}
