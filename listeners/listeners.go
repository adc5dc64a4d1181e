package listeners

import (
	"errors"
	"fmt"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/nulls"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
	"github.com/silinternational/claims-settlement-api/models"
)

type apiListener struct {
	name     string
	listener func(events.Event)
}

// Register new listener functions here.  Remember, though, that these groupings just
// describe what we want.  They don't make it happen this way. The listeners
// themselves still need to verify the event kind
var apiListeners = map[string][]apiListener{
	domain.EventApiClaimCreated: {
		{
			name:     "claim-created",
			listener: claimCreated,
		},
	},
	domain.EventApiClaimFraudWarning: {
		{
			name:     "claim-fraud-warning",
			listener: claimFraudWarning,
		},
	},
	domain.EventApiClaimRejected: {
		{
			name:     "claim-rejected",
			listener: claimRejected,
		},
	},
	domain.EventApiClaimPaid: {
		{
			name:     "claim-paid",
			listener: claimPaid,
		},
	},
	domain.EventApiClaimReconcile: {
		{
			name:     "claim-reconcile",
			listener: claimReconcile,
		},
	},
	domain.EventApiClaimLockExpired: {
		{
			name:     "claim-lock-expired",
			listener: claimLockExpired,
		},
	},
}

// RegisterListeners registers all the listeners to be used by the app
func RegisterListeners() {
	for _, listeners := range apiListeners {
		for _, l := range listeners {
			_, err := events.NamedListen(l.name, l.listener)
			if err != nil {
				log.Errorf("Failed registering listener: %s, err: %s", l.name, err.Error())
			}
		}
	}
}

func getID(p events.Payload) (uuid.UUID, error) {
	i, ok := p[domain.EventPayloadID]
	if !ok {
		return uuid.UUID{}, fmt.Errorf("id not in event payload")
	}

	switch id := i.(type) {
	case string:
		return uuid.FromStringOrNil(id), nil
	case uuid.UUID:
		return id, nil
	case nulls.UUID:
		return id.UUID, nil
	default:
		return uuid.UUID{}, fmt.Errorf("id not a valid type: %T", id)
	}
}

func getWarnings(p events.Payload) []string {
	warnings, _ := p[domain.EventPayloadWarnings].([]string)
	return warnings
}

// findObject loads the object named in the payload, retrying with an increasing delay in case the
// transaction that emitted the event has not been committed yet
func findObject(payload events.Payload, object any, listenerName string) error {
	id, err := getID(payload)
	if err != nil {
		err := errors.New("Failed to get object ID from event payload: " + err.Error())
		log.Error(err.Error())
		return err
	}

	var findErr error
	for i := 1; i <= domain.Env.ListenerMaxRetries; i++ {
		findErr = models.DB.Find(object, id)
		if findErr == nil {
			return nil
		}
		if domain.IsOtherThanNoRows(findErr) {
			break
		}
		time.Sleep(getDelayDuration(i * i))
	}

	log.Errorf("Failed to find object in %s, %s", listenerName, findErr)
	return fmt.Errorf("failed to find object in %s, %w", listenerName, findErr)
}

func panicRecover(name string) {
	if err := recover(); err != nil {
		log.Errorf("panic occurred in %s: %s", name, err)
	}
}

// getDelayDuration is a helper function to calculate delay in milliseconds before processing event
func getDelayDuration(multiplier int) time.Duration {
	return time.Duration(domain.Env.ListenerDelayMilliseconds) * time.Millisecond * time.Duration(multiplier)
}
