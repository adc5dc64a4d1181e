// Package settlement sequences claim creation and claim settlement: evidence and anti-fraud validation,
// the per-claim processing lock, eligibility, the funds waterfall and persistence of the outcome.
//
// Every public operation returns a value or an *api.AppError. ProcessClaim goes further and never fails at
// all: declines, missing dependencies, ineligibility and unexpected panics all come back as an
// api.ClaimProcessResult with OK=false.
package settlement

import (
	"context"
	"time"

	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/waterfall"
)

// ClaimStore persists claims and their status changes
type ClaimStore interface {
	InsertClaim(ctx context.Context, claim api.Claim) (api.Claim, error)
	FindClaim(ctx context.Context, id uuid.UUID) (api.Claim, bool, error)
	CountClaimsByReporterSince(ctx context.Context, reporterID uuid.UUID, since time.Time) (int, error)

	// CountOpenClaimsForBooking counts the claims on a booking that have not been rejected
	CountOpenClaimsForBooking(ctx context.Context, bookingID uuid.UUID) (int, error)

	// UpdateClaimStatus applies a manual status change if the claim is still in change.From and is not
	// locked. It reports false if either condition no longer holds.
	UpdateClaimStatus(ctx context.Context, change StatusChange) (bool, error)

	FindClaimsNeedingReconciliation(ctx context.Context) (api.Claims, error)
	MarkPayoutReconciled(ctx context.Context, claimID uuid.UUID, at time.Time) error
}

// LockStore holds the lock fields of a claim. Every method must be a single conditional write.
type LockStore interface {
	// TryLockClaim sets locked_at and locked_by and moves the claim to processing, only if the claim is
	// unlocked and not terminal
	TryLockClaim(ctx context.Context, lock Lock) (bool, error)

	// UnlockClaim clears the lock held by lock.Holder since lock.AcquiredAt, moving a non-terminal claim to
	// fallback and recording reason, or a default one when empty, in the history
	UnlockClaim(ctx context.Context, lock Lock, fallback api.ClaimStatus, reason string) (bool, error)

	// SettleClaim records the payout and moves the claim to paid, clearing the lock
	SettleClaim(ctx context.Context, lock Lock, payout api.ClaimPayout) (bool, error)

	FindClaim(ctx context.Context, id uuid.UUID) (api.Claim, bool, error)
	FindStaleLocks(ctx context.Context, lockedBefore time.Time) (api.Claims, error)
}

// BookingStore reads the rental a claim was reported on
type BookingStore interface {
	FindBooking(ctx context.Context, id uuid.UUID) (api.Booking, bool, error)
	FindCar(ctx context.Context, id uuid.UUID) (api.Car, bool, error)
	FindInspections(ctx context.Context, bookingID uuid.UUID) ([]api.Inspection, error)
}

// PolicyStore finds the risk policy covering a car's daily rate
type PolicyStore interface {
	FindRiskPolicy(ctx context.Context, dailyRate api.Currency) (api.RiskPolicy, bool, error)
}

// RiskService is the external risk and eligibility evaluator
type RiskService interface {
	GetRiskSnapshot(ctx context.Context, bookingID uuid.UUID) (api.RiskSnapshot, bool, error)
	AssessEligibility(ctx context.Context, req api.EligibilityRequest) (api.EligibilityResult, error)
}

// StatusChange is a manual step in the claim workflow
type StatusChange struct {
	ClaimID uuid.UUID
	From    api.ClaimStatus
	To      api.ClaimStatus
	Actor   uuid.UUID
	Reason  string
	At      time.Time
}

type Dependencies struct {
	Claims   ClaimStore
	Locks    LockStore
	Bookings BookingStore
	Policies PolicyStore
	Risk     RiskService
	Engine   *waterfall.Engine

	// used to retry guarantee-fund ledger appends that failed during settlement
	Fund waterfall.GuaranteeFund
}

// Service is the settlement orchestrator
type Service struct {
	claims   ClaimStore
	bookings BookingStore
	policies PolicyStore
	risk     RiskService
	engine   *waterfall.Engine
	fund     waterfall.GuaranteeFund

	locks     *LockManager
	validator *Validator

	settlementCurrency string
	now                func() time.Time
}

func NewService(deps Dependencies, rules FraudRules) *Service {
	s := &Service{
		claims:             deps.Claims,
		bookings:           deps.Bookings,
		policies:           deps.Policies,
		risk:               deps.Risk,
		engine:             deps.Engine,
		fund:               deps.Fund,
		locks:              NewLockManager(deps.Locks),
		settlementCurrency: domain.Env.SettlementCurrency,
		now:                time.Now,
	}
	s.validator = NewValidator(deps.Claims, deps.Bookings, rules)
	return s
}

// Validator exposes the claim validator used by the service
func (s *Service) Validator() *Validator {
	return s.validator
}

// Locks exposes the lock manager used by the service
func (s *Service) Locks() *LockManager {
	return s.locks
}

func (s *Service) setClock(now func() time.Time) {
	s.now = now
	s.locks.now = now
	s.validator.now = now
}
