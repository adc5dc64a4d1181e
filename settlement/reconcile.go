package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/log"
)

// ReconcileFundPayout retries the guarantee-fund ledger append of a paid claim whose payout is flagged for
// reconciliation. A claim that does not need it is returned unchanged.
func (s *Service) ReconcileFundPayout(ctx context.Context, claimID uuid.UUID) (api.Claim, error) {
	claim, err := s.findClaim(ctx, claimID)
	if err != nil {
		return api.Claim{}, err
	}

	if claim.Status != api.ClaimStatusPaid || claim.Payout == nil {
		err := fmt.Errorf("claim %s has not been paid", claimID)
		return api.Claim{}, api.NewAppError(err, api.ErrorClaimStatus, api.CategoryUser)
	}
	if !claim.Payout.ReconciliationRequired {
		return claim, nil
	}

	if s.fund == nil {
		err := errors.New("no guarantee fund configured")
		return api.Claim{}, api.NewAppError(err, api.ErrorGenericInternalServer, api.CategoryInternal)
	}

	p := claim.Payout
	err = s.fund.RecordPayout(ctx, api.FundPayout{
		ClaimID:          claim.ID,
		BookingID:        claim.BookingID,
		Amount:           api.SettlementToReference(p.FundPaid, p.FxRate),
		SettlementAmount: p.FundPaid,
		FxRate:           p.FxRate,
	})
	if err != nil {
		return api.Claim{}, api.NewAppError(err, api.ErrorSaveFailure, api.CategoryInternal)
	}

	if err := s.claims.MarkPayoutReconciled(ctx, claim.ID, s.now().UTC()); err != nil {
		return api.Claim{}, api.NewAppError(err, api.ErrorUpdateFailure, api.CategoryDatabase)
	}

	return s.findClaim(ctx, claimID)
}

// ReconcileFundPayouts retries every payout flagged for reconciliation and returns how many succeeded
func (s *Service) ReconcileFundPayouts(ctx context.Context) (int, error) {
	claims, err := s.claims.FindClaimsNeedingReconciliation(ctx)
	if err != nil {
		return 0, err
	}

	reconciled := 0
	for _, c := range claims {
		if _, err := s.ReconcileFundPayout(ctx, c.ID); err != nil {
			log.WithFields(log.Fields{"claim_id": c.ID.String()}).
				Errorf("fund payout reconciliation failed: %s", err)
			continue
		}
		reconciled++
	}
	return reconciled, nil
}
