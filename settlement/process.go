package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/log"
	"github.com/silinternational/claims-settlement-api/waterfall"
)

const (
	MessageAlreadyProcessing = "already being processed"
	MessageAlreadySettled    = "claim already settled"
	MessageClaimNotFound     = "claim not found"
	MessageProcessingFailed  = "claim processing failed, it can be retried"
	MessageIneligiblePrefix  = "Claim no elegible: "
)

// coverage is everything about a booking that decides how a claim on it is paid
type coverage struct {
	snapshot api.RiskSnapshot
	booking  api.Booking
	car      api.Car
	policy   api.RiskPolicy
}

// ProcessClaim settles a claim: it takes the claim lock, checks eligibility, runs the funds waterfall and
// marks the claim paid. It never returns an error and never panics; the lock is released or settled exactly
// once on every path.
func (s *Service) ProcessClaim(ctx context.Context, claimID uuid.UUID, actor api.Actor) (result api.ClaimProcessResult) {
	l := log.WithFields(log.Fields{"claim_id": claimID.String(), "actor_id": actor.ID.String()})

	lock, err := s.locks.Acquire(ctx, claimID, actor.ID)
	if err != nil {
		l.Errorf("claim lock acquisition failed: %s", err)
		return api.ClaimProcessResult{Error: MessageProcessingFailed, ErrorKey: api.ErrorClaimProcessing}
	}
	if !lock.Acquired {
		l.Infof("claim processing declined: %s", lock.Reason)
		return declined(lock.Reason)
	}

	fallback := api.ClaimStatusApproved
	settled := false
	defer func() {
		if r := recover(); r != nil {
			l.Errorf("panic while processing claim: %v", r)
			if settled {
				// the claim is paid and the lock is gone, only the reload failed
				return
			}
			result = api.ClaimProcessResult{Error: MessageProcessingFailed, ErrorKey: api.ErrorClaimProcessing}
			fallback = api.ClaimStatusApproved
		}
		if settled {
			return
		}

		reason := ""
		if fallback == api.ClaimStatusRejected {
			reason = result.Error
		}
		if err := s.locks.Release(context.WithoutCancel(ctx), lock, fallback, reason); err != nil {
			l.Errorf("failed to release claim lock: %s", err)
		}
		if result.Claim == nil {
			if claim, found, err := s.claims.FindClaim(context.WithoutCancel(ctx), claimID); err == nil && found {
				result.Claim = &claim
			}
		}
	}()

	result, fallback, settled = s.settle(ctx, lock)
	if settled {
		if paid, found, err := s.claims.FindClaim(ctx, claimID); err == nil && found {
			result.Claim = &paid
		}
	}
	return result
}

func (s *Service) settle(ctx context.Context, lock Lock) (api.ClaimProcessResult, api.ClaimStatus, bool) {
	retryable := api.ClaimStatusApproved
	l := log.WithFields(log.Fields{"claim_id": lock.ClaimID.String()})

	claim, err := s.findClaim(ctx, lock.ClaimID)
	if err != nil {
		return failure(err), retryable, false
	}

	cov, err := s.loadCoverage(ctx, claim.BookingID)
	if err != nil {
		l.Warningf("claim dependency missing: %s", err)
		return failure(err), retryable, false
	}

	amount, err := api.ReferenceToSettlement(claim.TotalEstimatedCost, cov.snapshot.FxRate)
	if err != nil {
		l.Errorf("claim total cannot be converted to the settlement currency: %s", err)
		return failure(api.NewAppError(err, api.ErrorInvalidAmount, api.CategoryUser)), retryable, false
	}
	eligibility, err := s.risk.AssessEligibility(ctx, api.EligibilityRequest{
		BookingID:        claim.BookingID,
		ClaimAmountCents: amount,
		RiskPolicyID:     cov.policy.ID,
	})
	if err != nil {
		l.Errorf("eligibility assessment failed: %s", err)
		return failure(api.NewAppError(err, api.ErrorRiskService, api.CategoryExternal)), retryable, false
	}

	if !eligibility.Eligible {
		return api.ClaimProcessResult{
			Eligibility: &eligibility,
			Error:       MessageIneligiblePrefix + strings.Join(eligibility.Reasons, ", "),
			ErrorKey:    api.ErrorClaimIneligible,
		}, api.ClaimStatusRejected, false
	}

	wf, err := s.engine.Execute(ctx, waterfall.Request{
		ClaimID:     claim.ID,
		BookingID:   claim.BookingID,
		Amount:      amount,
		Snapshot:    cov.snapshot,
		MaxCoverage: eligibility.MaxCoverage,
	})
	if err != nil {
		l.Errorf("waterfall rejected the claim amount: %s", err)
		return failure(api.NewAppError(err, api.ErrorInvalidAmount, api.CategoryInternal)), retryable, false
	}

	payout := api.ClaimPayout{
		WaterfallBreakdown:     wf.Breakdown,
		FxRate:                 cov.snapshot.FxRate,
		MaxCoverage:            eligibility.MaxCoverage,
		ReconciliationRequired: wf.ReconciliationRequired,
	}
	if err := s.locks.MarkPaid(ctx, lock, payout); err != nil {
		l.Errorf("funds were collected but the claim could not be marked paid: %s", err)
		return failure(api.NewAppError(err, api.ErrorClaimProcessing, api.CategoryInternal)), retryable, false
	}

	claim.Status = api.ClaimStatusPaid
	claim.LockedAt, claim.LockedBy = nil, nil
	claim.Payout = &payout

	return api.ClaimProcessResult{
		OK:                     true,
		Claim:                  &claim,
		Eligibility:            &eligibility,
		Waterfall:              &wf.Breakdown,
		ReconciliationRequired: wf.ReconciliationRequired,
	}, "", true
}

func declined(reason LockReason) api.ClaimProcessResult {
	switch reason {
	case LockReasonAlreadyTerminal:
		return api.ClaimProcessResult{Error: MessageAlreadySettled, ErrorKey: api.ErrorClaimTerminal}
	case LockReasonNotFound:
		return api.ClaimProcessResult{Error: MessageClaimNotFound, ErrorKey: api.ErrorClaimNotFound}
	default:
		return api.ClaimProcessResult{Error: MessageAlreadyProcessing, ErrorKey: api.ErrorClaimLocked}
	}
}

func failure(err error) api.ClaimProcessResult {
	res := api.ClaimProcessResult{Error: err.Error(), ErrorKey: api.ErrorClaimProcessing}
	var appErr *api.AppError
	if errors.As(err, &appErr) {
		res.ErrorKey = appErr.Key
	}
	return res
}

// EvaluateClaim asks for the eligibility of a claim without locking or changing it
func (s *Service) EvaluateClaim(ctx context.Context, claimID uuid.UUID) (api.EligibilityResult, error) {
	claim, err := s.findClaim(ctx, claimID)
	if err != nil {
		return api.EligibilityResult{}, err
	}

	cov, err := s.loadCoverage(ctx, claim.BookingID)
	if err != nil {
		return api.EligibilityResult{}, err
	}

	amount, err := api.ReferenceToSettlement(claim.TotalEstimatedCost, cov.snapshot.FxRate)
	if err != nil {
		return api.EligibilityResult{}, api.NewAppError(err, api.ErrorInvalidAmount, api.CategoryUser)
	}
	return s.assess(ctx, claim.BookingID, amount, cov)
}

// SimulateWaterfall previews how an amount, in reference-currency cents, would be collected for a booking
func (s *Service) SimulateWaterfall(ctx context.Context, bookingID uuid.UUID, amount api.Currency) (api.SimulationResult, error) {
	if amount < 0 {
		err := errors.New("the simulated amount must not be negative")
		return api.SimulationResult{}, api.NewAppError(err, api.ErrorInvalidAmount, api.CategoryUser)
	}

	cov, err := s.loadCoverage(ctx, bookingID)
	if err != nil {
		return api.SimulationResult{}, err
	}

	settlementAmount, err := api.ReferenceToSettlement(amount, cov.snapshot.FxRate)
	if err != nil {
		return api.SimulationResult{}, api.NewAppError(err, api.ErrorInvalidAmount, api.CategoryUser)
	}
	eligibility, err := s.assess(ctx, bookingID, settlementAmount, cov)
	if err != nil {
		return api.SimulationResult{}, err
	}

	breakdown, err := waterfall.Simulate(waterfall.Request{
		BookingID:   bookingID,
		Amount:      settlementAmount,
		Snapshot:    cov.snapshot,
		MaxCoverage: eligibility.MaxCoverage,
	})
	if err != nil {
		return api.SimulationResult{}, api.NewAppError(err, api.ErrorInvalidAmount, api.CategoryUser)
	}

	return api.SimulationResult{
		Eligibility:        eligibility,
		EstimatedBreakdown: breakdown,
		Formatted:          FormatBreakdown(breakdown, s.settlementCurrency),
	}, nil
}

func (s *Service) assess(ctx context.Context, bookingID uuid.UUID, amount api.Currency, cov coverage) (api.EligibilityResult, error) {
	eligibility, err := s.risk.AssessEligibility(ctx, api.EligibilityRequest{
		BookingID:        bookingID,
		ClaimAmountCents: amount,
		RiskPolicyID:     cov.policy.ID,
	})
	if err != nil {
		return api.EligibilityResult{}, api.NewAppError(err, api.ErrorRiskService, api.CategoryExternal)
	}
	if eligibility.Reasons == nil {
		eligibility.Reasons = []string{}
	}
	return eligibility, nil
}

func (s *Service) loadCoverage(ctx context.Context, bookingID uuid.UUID) (coverage, error) {
	var cov coverage

	snapshot, found, err := s.risk.GetRiskSnapshot(ctx, bookingID)
	if err != nil {
		return cov, api.NewAppError(err, api.ErrorRiskService, api.CategoryExternal)
	}
	if !found {
		return cov, missing("no risk snapshot for booking %s", bookingID)
	}
	if !snapshot.FxRate.IsPositive() {
		return cov, missing("risk snapshot for booking %s has no fx rate", bookingID)
	}
	cov.snapshot = snapshot

	booking, found, err := s.bookings.FindBooking(ctx, bookingID)
	if err != nil {
		return cov, api.NewAppError(err, api.ErrorQueryFailure, api.CategoryDatabase)
	}
	if !found {
		return cov, missing("booking %s not found", bookingID)
	}
	cov.booking = booking

	car, found, err := s.bookings.FindCar(ctx, booking.CarID)
	if err != nil {
		return cov, api.NewAppError(err, api.ErrorQueryFailure, api.CategoryDatabase)
	}
	if !found {
		return cov, missing("car %s not found", booking.CarID)
	}
	cov.car = car

	policy, found, err := s.policies.FindRiskPolicy(ctx, car.DailyRate)
	if err != nil {
		return cov, api.NewAppError(err, api.ErrorQueryFailure, api.CategoryDatabase)
	}
	if !found {
		return cov, missing("no risk policy for daily rate %s", car.DailyRate)
	}
	cov.policy = policy

	return cov, nil
}

func missing(format string, args ...any) error {
	appErr := api.NewAppError(fmt.Errorf(format, args...), api.ErrorClaimDependencyMissing, api.CategoryNotFound)
	appErr.Message = appErr.Err.Error()
	return appErr
}
