package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/log"
)

// manualTransitions lists the workflow steps a person may take. Processing, paid and the automatic rejection
// of an ineligible claim only happen through ProcessClaim.
func manualTransitions() map[api.ClaimStatus][]api.ClaimStatus {
	return map[api.ClaimStatus][]api.ClaimStatus{
		api.ClaimStatusDraft:       {api.ClaimStatusSubmitted},
		api.ClaimStatusSubmitted:   {api.ClaimStatusUnderReview, api.ClaimStatusRejected},
		api.ClaimStatusUnderReview: {api.ClaimStatusApproved, api.ClaimStatusRejected},
	}
}

func isTransitionValid(from, to api.ClaimStatus) bool {
	for _, s := range manualTransitions()[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CreateClaim validates the evidence and anti-fraud heuristics for a new claim and stores it as a draft.
// The actor must be the renter or the owner of the car.
func (s *Service) CreateClaim(ctx context.Context, bookingID uuid.UUID, actor api.Actor, input api.ClaimCreateInput) (api.Claim, error) {
	damages, err := validateDamageInputs(input.Damages)
	if err != nil {
		return api.Claim{}, err
	}

	booking, found, err := s.bookings.FindBooking(ctx, bookingID)
	if err != nil {
		return api.Claim{}, api.NewAppError(err, api.ErrorQueryFailure, api.CategoryDatabase)
	}
	if !found {
		err := fmt.Errorf("booking %s not found", bookingID)
		return api.Claim{}, api.NewAppError(err, api.ErrorBookingNotFound, api.CategoryNotFound)
	}

	role, err := s.reporterRole(ctx, booking, actor)
	if err != nil {
		return api.Claim{}, err
	}

	check, err := s.validator.ValidateInspections(ctx, bookingID)
	if err != nil {
		return api.Claim{}, api.NewAppError(err, api.ErrorQueryFailure, api.CategoryDatabase)
	}
	if !check.Valid {
		appErr := api.NewAppError(
			fmt.Errorf("booking %s is missing inspections: %v", bookingID, check.Missing),
			api.ErrorClaimMissingInspections,
			api.CategoryUser,
		)
		appErr.Extras = map[string]any{"missing": check.Missing}
		return api.Claim{}, appErr
	}

	total := damages.Total()
	fraud, err := s.validator.ValidateClaimAntiFraud(ctx, bookingID, actor.ID, total)
	if err != nil {
		return api.Claim{}, api.NewAppError(err, api.ErrorQueryFailure, api.CategoryDatabase)
	}
	if fraud.Blocked {
		log.WithFields(log.Fields{
			"booking_id":  bookingID.String(),
			"reporter_id": actor.ID.String(),
			"reason":      fraud.BlockReason,
		}).Warning("claim blocked by anti-fraud rules")

		appErr := api.NewAppError(errors.New(fraud.BlockReason), api.ErrorClaimFraudBlocked, api.CategoryUser)
		appErr.Message = fraud.BlockReason
		return api.Claim{}, appErr
	}

	claim := api.Claim{
		BookingID:          bookingID,
		ReportedBy:         actor.ID,
		ReporterRole:       role,
		Damages:            damages,
		TotalEstimatedCost: total,
		Status:             api.ClaimStatusDraft,
		Notes:              strings.TrimSpace(input.Notes),
		FraudWarnings:      fraud.Warnings,
		OwnerClaims30d:     fraud.OwnerClaims30d,
	}
	return s.claims.InsertClaim(ctx, claim)
}

func (s *Service) reporterRole(ctx context.Context, booking api.Booking, actor api.Actor) (api.ReporterRole, error) {
	if actor.ID == booking.RenterID {
		return api.ReporterRoleRenter, nil
	}

	car, found, err := s.bookings.FindCar(ctx, booking.CarID)
	if err != nil {
		return "", api.NewAppError(err, api.ErrorQueryFailure, api.CategoryDatabase)
	}
	if found && actor.ID == car.OwnerID {
		return api.ReporterRoleOwner, nil
	}

	err = fmt.Errorf("actor %s is neither the renter nor the owner on booking %s", actor.ID, booking.ID)
	return "", api.NewAppError(err, api.ErrorClaimReporterNotInvolved, api.CategoryForbidden)
}

// SubmitClaim moves a draft claim to submitted. Only the reporter may submit.
func (s *Service) SubmitClaim(ctx context.Context, claimID uuid.UUID, actor api.Actor) (api.Claim, error) {
	return s.transition(ctx, claimID, actor, api.ClaimStatusSubmitted, "", func(c api.Claim) bool {
		return c.ReportedBy == actor.ID
	})
}

// ReviewClaim starts the review of a submitted claim
func (s *Service) ReviewClaim(ctx context.Context, claimID uuid.UUID, actor api.Actor) (api.Claim, error) {
	return s.transition(ctx, claimID, actor, api.ClaimStatusUnderReview, "", nil)
}

// ApproveClaim makes a reviewed claim ready for settlement
func (s *Service) ApproveClaim(ctx context.Context, claimID uuid.UUID, actor api.Actor, reason string) (api.Claim, error) {
	return s.transition(ctx, claimID, actor, api.ClaimStatusApproved, reason, nil)
}

// RejectClaim closes a submitted or reviewed claim without payment
func (s *Service) RejectClaim(ctx context.Context, claimID uuid.UUID, actor api.Actor, reason string) (api.Claim, error) {
	return s.transition(ctx, claimID, actor, api.ClaimStatusRejected, reason, nil)
}

func (s *Service) transition(ctx context.Context, claimID uuid.UUID, actor api.Actor, to api.ClaimStatus,
	reason string, allowed func(api.Claim) bool,
) (api.Claim, error) {
	claim, err := s.findClaim(ctx, claimID)
	if err != nil {
		return api.Claim{}, err
	}

	if allowed != nil && !allowed(claim) {
		err := fmt.Errorf("actor %s may not move claim %s to %s", actor.ID, claimID, to)
		return api.Claim{}, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryForbidden)
	}

	if claim.LockedAt != nil {
		err := fmt.Errorf("claim %s is being processed", claimID)
		return api.Claim{}, api.NewAppError(err, api.ErrorClaimLocked, api.CategoryConflict)
	}

	if !isTransitionValid(claim.Status, to) {
		err := fmt.Errorf("invalid claim status transition from %s to %s", claim.Status, to)
		return api.Claim{}, api.NewAppError(err, api.ErrorClaimStatus, api.CategoryUser)
	}

	ok, err := s.claims.UpdateClaimStatus(ctx, StatusChange{
		ClaimID: claimID,
		From:    claim.Status,
		To:      to,
		Actor:   actor.ID,
		Reason:  strings.TrimSpace(reason),
		At:      s.now().UTC(),
	})
	if err != nil {
		return api.Claim{}, api.NewAppError(err, api.ErrorUpdateFailure, api.CategoryDatabase)
	}
	if !ok {
		err := fmt.Errorf("claim %s changed while moving it to %s", claimID, to)
		return api.Claim{}, api.NewAppError(err, api.ErrorClaimStatus, api.CategoryConflict)
	}

	return s.findClaim(ctx, claimID)
}

// FindClaim loads a claim, returning a NotFound AppError if it does not exist
func (s *Service) FindClaim(ctx context.Context, claimID uuid.UUID) (api.Claim, error) {
	return s.findClaim(ctx, claimID)
}

func (s *Service) findClaim(ctx context.Context, claimID uuid.UUID) (api.Claim, error) {
	claim, found, err := s.claims.FindClaim(ctx, claimID)
	if err != nil {
		return api.Claim{}, api.NewAppError(err, api.ErrorQueryFailure, api.CategoryDatabase)
	}
	if !found {
		err := fmt.Errorf("claim %s not found", claimID)
		return api.Claim{}, api.NewAppError(err, api.ErrorClaimNotFound, api.CategoryNotFound)
	}
	return claim, nil
}

// SuggestDamages compares the inspections of a booking and proposes damage items with estimated costs
func (s *Service) SuggestDamages(ctx context.Context, bookingID uuid.UUID) (api.DamageSuggestions, error) {
	check, err := s.validator.ValidateInspections(ctx, bookingID)
	if err != nil {
		return api.DamageSuggestions{}, api.NewAppError(err, api.ErrorQueryFailure, api.CategoryDatabase)
	}

	damages, err := s.validator.CompareDamages(ctx, bookingID)
	if err != nil {
		return api.DamageSuggestions{}, api.NewAppError(err, api.ErrorQueryFailure, api.CategoryDatabase)
	}

	return api.DamageSuggestions{
		Inspections: check,
		Damages:     damages,
		Total:       damages.Total(),
	}, nil
}
