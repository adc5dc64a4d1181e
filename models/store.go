package models

import (
	"context"
	"fmt"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/settlement"
)

const (
	sqlLockClaim = `UPDATE claims SET locked_at = ?, locked_by = ?, status = ?, updated_at = ?
		WHERE id = ? AND locked_at IS NULL AND status NOT IN (?, ?)`

	sqlUnlockClaim = `UPDATE claims SET locked_at = NULL, locked_by = NULL,
		status = CASE WHEN status IN (?, ?) THEN status ELSE ? END, updated_at = ?
		WHERE id = ? AND locked_by = ? AND locked_at = ?`

	sqlSettleClaim = `UPDATE claims SET locked_at = NULL, locked_by = NULL, status = ?, processed_at = ?, updated_at = ?
		WHERE id = ? AND locked_by = ? AND locked_at = ?`

	sqlUpdateClaimStatus = `UPDATE claims SET status = ?, updated_at = ?
		WHERE id = ? AND status = ? AND locked_at IS NULL`

	sqlReconcilePayout = `UPDATE claim_payouts SET reconciliation_required = false, reconciled_at = ?, updated_at = ?
		WHERE claim_id = ? AND reconciliation_required = true`
)

// Store is the PostgreSQL implementation of the settlement stores. Lock changes are single conditional
// updates, so the database decides which of several concurrent attempts wins.
type Store struct {
	db *pop.Connection
}

var (
	_ settlement.ClaimStore   = (*Store)(nil)
	_ settlement.LockStore    = (*Store)(nil)
	_ settlement.BookingStore = (*Store)(nil)
	_ settlement.PolicyStore  = (*Store)(nil)
)

func NewStore(db *pop.Connection) *Store {
	return &Store{db: db}
}

// conn returns the request transaction if the context carries one
func (s *Store) conn(ctx context.Context) *pop.Connection {
	return connFromContext(ctx, s.db)
}

func connFromContext(ctx context.Context, fallback *pop.Connection) *pop.Connection {
	if tx, ok := ctx.Value(domain.ContextKeyTx).(*pop.Connection); ok && tx != nil {
		return tx
	}
	return fallback
}

// transaction runs fn in the request transaction if there is one, otherwise in a new one
func (s *Store) transaction(ctx context.Context, fn func(tx *pop.Connection) error) error {
	if tx, ok := ctx.Value(domain.ContextKeyTx).(*pop.Connection); ok && tx != nil {
		return fn(tx)
	}
	return s.db.Transaction(fn)
}

func (s *Store) InsertClaim(ctx context.Context, claim api.Claim) (api.Claim, error) {
	m := NewClaimFromAPI(claim)
	m.ID = uuid.Nil

	err := s.transaction(ctx, func(tx *pop.Connection) error {
		if err := m.Create(tx); err != nil {
			return err
		}
		h := ClaimHistory{
			ClaimID:   m.ID,
			ActorID:   nulls.NewUUID(m.ReportedBy),
			Action:    HistoryActionCreate,
			FieldName: FieldClaimStatus,
			NewValue:  string(m.Status),
			Reason:    ClaimStatusChangeCreated,
		}
		return h.Create(tx)
	})
	if err != nil {
		return api.Claim{}, err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiClaimCreated,
		Message: "Claim created",
		Payload: events.Payload{domain.EventPayloadID: m.ID},
	})
	if len(m.FraudWarnings) > 0 {
		emitEvent(events.Event{
			Kind:    domain.EventApiClaimFraudWarning,
			Message: "Claim created with fraud warnings",
			Payload: events.Payload{
				domain.EventPayloadID:       m.ID,
				domain.EventPayloadWarnings: []string(m.FraudWarnings),
			},
		})
	}

	return m.ConvertClaim(), nil
}

func (s *Store) FindClaim(ctx context.Context, id uuid.UUID) (api.Claim, bool, error) {
	var c Claim
	found, err := c.FindByID(s.conn(ctx), id)
	if !found || err != nil {
		return api.Claim{}, found, err
	}
	return c.ConvertClaim(), true, nil
}

func (s *Store) CountClaimsByReporterSince(ctx context.Context, reporterID uuid.UUID, since time.Time) (int, error) {
	n, err := s.conn(ctx).Where("reported_by = ? AND created_at >= ?", reporterID, since).Count(&Claim{})
	return n, appErrorFromDB(err, api.ErrorQueryFailure)
}

func (s *Store) CountOpenClaimsForBooking(ctx context.Context, bookingID uuid.UUID) (int, error) {
	n, err := s.conn(ctx).Where("booking_id = ? AND status <> ?", bookingID, string(api.ClaimStatusRejected)).
		Count(&Claim{})
	return n, appErrorFromDB(err, api.ErrorQueryFailure)
}

func (s *Store) UpdateClaimStatus(ctx context.Context, change settlement.StatusChange) (bool, error) {
	updated := false
	err := s.transaction(ctx, func(tx *pop.Connection) error {
		n, err := tx.RawQuery(sqlUpdateClaimStatus, string(change.To), change.At, change.ClaimID, string(change.From)).
			ExecWithCount()
		if err != nil {
			return appErrorFromDB(err, api.ErrorUpdateFailure)
		}
		if n == 0 {
			return nil
		}
		updated = true

		h := newStatusHistory(change.ClaimID, nulls.NewUUID(change.Actor), change.From, change.To, change.Reason)
		return h.Create(tx)
	})
	if err != nil || !updated {
		return false, err
	}

	if change.To == api.ClaimStatusRejected {
		emitEvent(events.Event{
			Kind:    domain.EventApiClaimRejected,
			Message: "Claim rejected",
			Payload: events.Payload{domain.EventPayloadID: change.ClaimID},
		})
	}
	return true, nil
}

func (s *Store) FindClaimsNeedingReconciliation(ctx context.Context) (api.Claims, error) {
	tx := s.conn(ctx)

	var claims Claims
	q := `SELECT claims.* FROM claims JOIN claim_payouts ON claim_payouts.claim_id = claims.id
		WHERE claim_payouts.reconciliation_required = true ORDER BY claims.processed_at ASC`
	if err := tx.RawQuery(q).All(&claims); err != nil {
		return nil, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	for i := range claims {
		if err := claims[i].LoadPayout(tx); err != nil {
			return nil, err
		}
	}
	return claims.ConvertClaims(), nil
}

func (s *Store) MarkPayoutReconciled(ctx context.Context, claimID uuid.UUID, at time.Time) error {
	return s.transaction(ctx, func(tx *pop.Connection) error {
		n, err := tx.RawQuery(sqlReconcilePayout, at, at, claimID).ExecWithCount()
		if err != nil {
			return appErrorFromDB(err, api.ErrorUpdateFailure)
		}
		if n == 0 {
			err := fmt.Errorf("claim %s has no payout awaiting reconciliation", claimID)
			return api.NewAppError(err, api.ErrorClaimStatus, api.CategoryUser)
		}
		h := ClaimHistory{
			ClaimID:   claimID,
			Action:    HistoryActionUpdate,
			FieldName: FieldClaimReconciled,
			OldValue:  "true",
			NewValue:  "false",
			Reason:    ClaimStatusChangeReconciled,
		}
		return h.Create(tx)
	})
}

func (s *Store) TryLockClaim(ctx context.Context, lock settlement.Lock) (bool, error) {
	locked := false
	err := s.transaction(ctx, func(tx *pop.Connection) error {
		n, err := tx.RawQuery(sqlLockClaim,
			lock.AcquiredAt, lock.Holder, string(api.ClaimStatusProcessing), lock.AcquiredAt,
			lock.ClaimID, string(api.ClaimStatusPaid), string(api.ClaimStatusRejected),
		).ExecWithCount()
		if err != nil {
			return appErrorFromDB(err, api.ErrorUpdateFailure)
		}
		if n == 0 {
			return nil
		}
		locked = true

		h := ClaimHistory{
			ClaimID:   lock.ClaimID,
			Action:    HistoryActionUpdate,
			FieldName: FieldClaimLockedBy,
			NewValue:  lock.Holder.String(),
			Reason:    ClaimStatusChangeLocked + lock.Holder.String(),
		}
		return h.Create(tx)
	})
	return locked, err
}

func (s *Store) UnlockClaim(ctx context.Context, lock settlement.Lock, fallback api.ClaimStatus, reason string) (bool, error) {
	var status api.ClaimStatus
	err := s.transaction(ctx, func(tx *pop.Connection) error {
		now := time.Now().UTC()
		n, err := tx.RawQuery(sqlUnlockClaim,
			string(api.ClaimStatusPaid), string(api.ClaimStatusRejected), string(fallback), now,
			lock.ClaimID, lock.Holder, lock.AcquiredAt,
		).ExecWithCount()
		if err != nil {
			return appErrorFromDB(err, api.ErrorUpdateFailure)
		}
		if n == 0 {
			return nil
		}

		var c Claim
		if err := tx.Select("status").Find(&c, lock.ClaimID); err != nil {
			return appErrorFromDB(err, api.ErrorQueryFailure)
		}
		status = c.Status

		switch {
		case reason != "":
		case lock.Expired:
			reason = ClaimStatusChangeExpired
		default:
			reason = ClaimStatusChangeUnlocked
		}
		h := newStatusHistory(lock.ClaimID, nulls.UUID{}, api.ClaimStatusProcessing, status, reason)
		return h.Create(tx)
	})
	if err != nil || status == "" {
		return false, err
	}

	if lock.Expired {
		emitEvent(events.Event{
			Kind:    domain.EventApiClaimLockExpired,
			Message: "Claim settlement lock expired",
			Payload: events.Payload{domain.EventPayloadID: lock.ClaimID},
		})
	}
	if status == api.ClaimStatusRejected {
		emitEvent(events.Event{
			Kind:    domain.EventApiClaimRejected,
			Message: "Claim rejected",
			Payload: events.Payload{domain.EventPayloadID: lock.ClaimID},
		})
	}
	return true, nil
}

func (s *Store) SettleClaim(ctx context.Context, lock settlement.Lock, payout api.ClaimPayout) (bool, error) {
	settled := false
	err := s.transaction(ctx, func(tx *pop.Connection) error {
		at := payout.CreatedAt.UTC()
		n, err := tx.RawQuery(sqlSettleClaim,
			string(api.ClaimStatusPaid), at, at,
			lock.ClaimID, lock.Holder, lock.AcquiredAt,
		).ExecWithCount()
		if err != nil {
			return appErrorFromDB(err, api.ErrorUpdateFailure)
		}
		if n == 0 {
			return nil
		}
		settled = true

		p := NewClaimPayoutFromAPI(lock.ClaimID, payout)
		if err := p.Create(tx); err != nil {
			return err
		}

		h := newStatusHistory(lock.ClaimID, nulls.UUID{}, api.ClaimStatusProcessing, api.ClaimStatusPaid,
			ClaimStatusChangePaid)
		return h.Create(tx)
	})
	if err != nil || !settled {
		return false, err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiClaimPaid,
		Message: "Claim paid",
		Payload: events.Payload{domain.EventPayloadID: lock.ClaimID},
	})
	if payout.ReconciliationRequired {
		emitEvent(events.Event{
			Kind:    domain.EventApiClaimReconcile,
			Message: "Guarantee fund payout needs reconciliation",
			Payload: events.Payload{domain.EventPayloadID: lock.ClaimID},
		})
	}
	return true, nil
}

func (s *Store) FindStaleLocks(ctx context.Context, lockedBefore time.Time) (api.Claims, error) {
	var claims Claims
	err := s.conn(ctx).Where("locked_at < ?", lockedBefore).Order("locked_at asc").All(&claims)
	if err != nil {
		return nil, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return claims.ConvertClaims(), nil
}

func (s *Store) FindBooking(ctx context.Context, id uuid.UUID) (api.Booking, bool, error) {
	var b Booking
	found, err := b.FindByID(s.conn(ctx), id)
	if !found || err != nil {
		return api.Booking{}, found, err
	}
	return b.ConvertToAPI(), true, nil
}

func (s *Store) FindCar(ctx context.Context, id uuid.UUID) (api.Car, bool, error) {
	var c Car
	found, err := c.FindByID(s.conn(ctx), id)
	if !found || err != nil {
		return api.Car{}, found, err
	}
	return c.ConvertToAPI(), true, nil
}

func (s *Store) FindInspections(ctx context.Context, bookingID uuid.UUID) ([]api.Inspection, error) {
	b := Booking{ID: bookingID}
	if err := b.LoadInspections(s.conn(ctx)); err != nil {
		return nil, err
	}
	return b.Inspections.ConvertToAPI(), nil
}

func (s *Store) FindRiskPolicy(ctx context.Context, dailyRate api.Currency) (api.RiskPolicy, bool, error) {
	var p RiskPolicy
	found, err := p.FindByDailyRate(s.conn(ctx), int(dailyRate))
	if !found || err != nil {
		return api.RiskPolicy{}, found, err
	}
	return p.ConvertToAPI(), true, nil
}
