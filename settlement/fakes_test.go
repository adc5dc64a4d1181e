package settlement

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"github.com/silinternational/claims-settlement-api/api"
)

// memStore implements every store interface in memory. Each method holds the mutex for its whole body,
// which gives the same atomicity as the conditional updates of the database store.
type memStore struct {
	mu          sync.Mutex
	claims      map[uuid.UUID]*api.Claim
	bookings    map[uuid.UUID]api.Booking
	cars        map[uuid.UUID]api.Car
	inspections map[uuid.UUID][]api.Inspection
	policies    []api.RiskPolicy
	changes     []StatusChange
	unlocks     []Lock

	unlockReasons []string
	settleErr     error

	// panic when a paid claim is read back
	panicOnPaidFind bool
}

func newMemStore() *memStore {
	return &memStore{
		claims:      map[uuid.UUID]*api.Claim{},
		bookings:    map[uuid.UUID]api.Booking{},
		cars:        map[uuid.UUID]api.Car{},
		inspections: map[uuid.UUID][]api.Inspection{},
	}
}

func copyClaim(c *api.Claim) api.Claim {
	out := *c
	out.Damages = append(api.DamageItems{}, c.Damages...)
	out.FraudWarnings = append([]string{}, c.FraudWarnings...)
	if c.Payout != nil {
		p := *c.Payout
		out.Payout = &p
	}
	return out
}

func (m *memStore) InsertClaim(_ context.Context, claim api.Claim) (api.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	claim.ID = uuid.Must(uuid.NewV4())
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = time.Now().UTC()
	}
	claim.UpdatedAt = claim.CreatedAt
	m.claims[claim.ID] = &claim
	return copyClaim(&claim), nil
}

func (m *memStore) FindClaim(_ context.Context, id uuid.UUID) (api.Claim, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.claims[id]
	if !ok {
		return api.Claim{}, false, nil
	}
	if m.panicOnPaidFind && c.Status == api.ClaimStatusPaid {
		panic("paid claim could not be read")
	}
	return copyClaim(c), true, nil
}

func (m *memStore) CountClaimsByReporterSince(_ context.Context, reporterID uuid.UUID, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.claims {
		if c.ReportedBy == reporterID && !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountOpenClaimsForBooking(_ context.Context, bookingID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.claims {
		if c.BookingID == bookingID && c.Status != api.ClaimStatusRejected {
			n++
		}
	}
	return n, nil
}

func (m *memStore) UpdateClaimStatus(_ context.Context, change StatusChange) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.claims[change.ClaimID]
	if !ok || c.Status != change.From || c.LockedAt != nil {
		return false, nil
	}
	c.Status = change.To
	c.UpdatedAt = change.At
	m.changes = append(m.changes, change)
	return true, nil
}

func (m *memStore) FindClaimsNeedingReconciliation(_ context.Context) (api.Claims, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out api.Claims
	for _, c := range m.claims {
		if c.Payout != nil && c.Payout.ReconciliationRequired {
			out = append(out, copyClaim(c))
		}
	}
	return out, nil
}

func (m *memStore) MarkPayoutReconciled(_ context.Context, claimID uuid.UUID, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.claims[claimID]
	if !ok || c.Payout == nil {
		return errors.New("no payout")
	}
	c.Payout.ReconciliationRequired = false
	return nil
}

func (m *memStore) TryLockClaim(_ context.Context, lock Lock) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.claims[lock.ClaimID]
	if !ok || c.LockedAt != nil || c.Status.IsTerminal() {
		return false, nil
	}
	at, holder := lock.AcquiredAt, lock.Holder
	c.LockedAt, c.LockedBy = &at, &holder
	c.Status = api.ClaimStatusProcessing
	return true, nil
}

func (m *memStore) holds(c *api.Claim, lock Lock) bool {
	return c.LockedAt != nil && c.LockedBy != nil && *c.LockedBy == lock.Holder && c.LockedAt.Equal(lock.AcquiredAt)
}

func (m *memStore) UnlockClaim(_ context.Context, lock Lock, fallback api.ClaimStatus, reason string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.claims[lock.ClaimID]
	if !ok || !m.holds(c, lock) {
		return false, nil
	}
	c.LockedAt, c.LockedBy = nil, nil
	if !c.Status.IsTerminal() {
		c.Status = fallback
	}
	m.unlocks = append(m.unlocks, lock)
	m.unlockReasons = append(m.unlockReasons, reason)
	return true, nil
}

func (m *memStore) SettleClaim(_ context.Context, lock Lock, payout api.ClaimPayout) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settleErr != nil {
		return false, m.settleErr
	}
	c, ok := m.claims[lock.ClaimID]
	if !ok || !m.holds(c, lock) {
		return false, nil
	}
	at := payout.CreatedAt
	c.Status = api.ClaimStatusPaid
	c.ProcessedAt = &at
	c.LockedAt, c.LockedBy = nil, nil
	c.Payout = &payout
	return true, nil
}

func (m *memStore) FindStaleLocks(_ context.Context, lockedBefore time.Time) (api.Claims, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out api.Claims
	for _, c := range m.claims {
		if c.LockedAt != nil && c.LockedAt.Before(lockedBefore) {
			out = append(out, copyClaim(c))
		}
	}
	return out, nil
}

func (m *memStore) FindBooking(_ context.Context, id uuid.UUID) (api.Booking, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	return b, ok, nil
}

func (m *memStore) FindCar(_ context.Context, id uuid.UUID) (api.Car, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.cars[id]
	return c, ok, nil
}

func (m *memStore) FindInspections(_ context.Context, bookingID uuid.UUID) ([]api.Inspection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]api.Inspection{}, m.inspections[bookingID]...), nil
}

func (m *memStore) FindRiskPolicy(_ context.Context, dailyRate api.Currency) (api.RiskPolicy, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.policies {
		if dailyRate >= p.MinDailyRate && (p.MaxDailyRate == 0 || dailyRate <= p.MaxDailyRate) {
			return p, true, nil
		}
	}
	return api.RiskPolicy{}, false, nil
}

type fakeRisk struct {
	mu          sync.Mutex
	snapshots   map[uuid.UUID]api.RiskSnapshot
	eligibility api.EligibilityResult
	err         error
	panics      bool
	requests    []api.EligibilityRequest
}

func (f *fakeRisk) GetRiskSnapshot(_ context.Context, bookingID uuid.UUID) (api.RiskSnapshot, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.snapshots[bookingID]
	return s, ok, nil
}

func (f *fakeRisk) AssessEligibility(_ context.Context, req api.EligibilityRequest) (api.EligibilityResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.panics {
		panic("risk service exploded")
	}
	f.requests = append(f.requests, req)
	if f.err != nil {
		return api.EligibilityResult{}, f.err
	}
	return f.eligibility, nil
}

type fakeCard struct {
	mu    sync.Mutex
	calls int
	delay time.Duration
}

func (f *fakeCard) CaptureAuthorization(_ context.Context, _ api.CaptureRequest) (api.CaptureResult, error) {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return api.CaptureResult{OK: true}, nil
}

type fakeWallet struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeWallet) DebitForDamage(_ context.Context, req api.WalletDebitRequest) (api.WalletDebitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return api.WalletDebitResult{Success: true, DebitedAmount: req.Amount}, nil
}

type fakeFund struct {
	mu      sync.Mutex
	payouts []api.FundPayout
	err     error
}

func (f *fakeFund) RecordPayout(_ context.Context, payout api.FundPayout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.payouts = append(f.payouts, payout)
	return nil
}

func (f *fakeFund) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

var oneToOne = decimal.NewFromInt(1)
