package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/log"
)

type LockReason string

const (
	LockReasonAlreadyLocked   = LockReason("already_locked")
	LockReasonAlreadyTerminal = LockReason("already_terminal")
	LockReasonNotFound        = LockReason("not_found")
)

// ErrLockLost means the lock was no longer held when the claim was settled
var ErrLockLost = errors.New("settlement lock is no longer held")

// Lock is the outcome of a lock acquisition attempt. Holder and AcquiredAt together identify the lock so
// that a holder can never release a lock taken by someone else after its own expired.
type Lock struct {
	ClaimID    uuid.UUID
	Holder     uuid.UUID
	AcquiredAt time.Time

	Acquired bool

	// why the lock was not acquired
	Reason LockReason

	// set by the stale-lock sweep
	Expired bool
}

// LockManager grants at most one settlement attempt per claim at a time
type LockManager struct {
	store LockStore
	now   func() time.Time
}

func NewLockManager(store LockStore) *LockManager {
	return &LockManager{store: store, now: time.Now}
}

// Acquire tries to lock a claim for settlement. A lock held elsewhere, a settled claim or a missing claim
// is not an error: it is reported through Lock.Acquired and Lock.Reason.
func (m *LockManager) Acquire(ctx context.Context, claimID, holder uuid.UUID) (Lock, error) {
	lock := Lock{
		ClaimID:    claimID,
		Holder:     holder,
		AcquiredAt: m.now().UTC().Truncate(time.Microsecond),
	}

	ok, err := m.store.TryLockClaim(ctx, lock)
	if err != nil {
		return Lock{}, fmt.Errorf("failed to lock claim %s: %w", claimID, err)
	}
	if ok {
		lock.Acquired = true
		return lock, nil
	}

	// only used to explain the decline, the update above already decided it
	claim, found, err := m.store.FindClaim(ctx, claimID)
	switch {
	case err != nil:
		log.WithFields(log.Fields{"claim_id": claimID.String()}).
			Warningf("could not classify declined claim lock: %s", err)
		lock.Reason = LockReasonAlreadyLocked
	case !found:
		lock.Reason = LockReasonNotFound
	case claim.Status.IsTerminal():
		lock.Reason = LockReasonAlreadyTerminal
	default:
		lock.Reason = LockReasonAlreadyLocked
	}

	return lock, nil
}

// Release clears a lock that was acquired by Acquire. A claim that is not yet terminal is moved to fallback.
// A non-empty reason is recorded in the claim history; otherwise a generic one is used.
func (m *LockManager) Release(ctx context.Context, lock Lock, fallback api.ClaimStatus, reason string) error {
	if !lock.Acquired {
		return nil
	}

	ok, err := m.store.UnlockClaim(ctx, lock, fallback, reason)
	if err != nil {
		return fmt.Errorf("failed to release lock on claim %s: %w", lock.ClaimID, err)
	}
	if !ok {
		log.WithFields(log.Fields{
			"claim_id": lock.ClaimID.String(),
			"holder":   lock.Holder.String(),
		}).Warning("claim lock was already released")
	}
	return nil
}

// MarkPaid records the payout and moves the claim to paid, which also releases the lock
func (m *LockManager) MarkPaid(ctx context.Context, lock Lock, payout api.ClaimPayout) error {
	if !lock.Acquired {
		return ErrLockLost
	}

	if payout.CreatedAt.IsZero() {
		payout.CreatedAt = m.now().UTC()
	}

	ok, err := m.store.SettleClaim(ctx, lock, payout)
	if err != nil {
		return fmt.Errorf("failed to mark claim %s as paid: %w", lock.ClaimID, err)
	}
	if !ok {
		return ErrLockLost
	}
	return nil
}

// ReleaseStale releases locks held for longer than timeout, returning the claims to approved so they can be
// retried. It returns the number of locks released.
func (m *LockManager) ReleaseStale(ctx context.Context, timeout time.Duration) (int, error) {
	stale, err := m.store.FindStaleLocks(ctx, m.now().UTC().Add(-timeout))
	if err != nil {
		return 0, fmt.Errorf("failed to find stale claim locks: %w", err)
	}

	released := 0
	for _, claim := range stale {
		if claim.LockedAt == nil || claim.LockedBy == nil {
			continue
		}

		lock := Lock{
			ClaimID:    claim.ID,
			Holder:     *claim.LockedBy,
			AcquiredAt: *claim.LockedAt,
			Acquired:   true,
			Expired:    true,
		}
		ok, err := m.store.UnlockClaim(ctx, lock, api.ClaimStatusApproved, "")
		if err != nil {
			log.WithFields(log.Fields{"claim_id": claim.ID.String()}).
				Errorf("failed to release stale claim lock: %s", err)
			continue
		}
		if ok {
			released++
			log.WithFields(log.Fields{
				"claim_id":  claim.ID.String(),
				"locked_at": claim.LockedAt.Format(time.RFC3339),
			}).Warning("released stale claim lock")
		}
	}

	return released, nil
}
