package messages

import (
	"fmt"
	"strings"

	"github.com/gobuffalo/pop/v6"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
	"github.com/silinternational/claims-settlement-api/notifications"
	"github.com/silinternational/claims-settlement-api/settlement"
)

// ClaimFraudWarningSend notifies operations that a new claim raised anti-fraud warnings
func ClaimFraudWarningSend(claim models.Claim, warnings []string) error {
	if len(warnings) == 0 {
		warnings = claim.FraudWarnings
	}
	msg := newClaimMessage(claim, MessageTemplateClaimFraudWarningOperations,
		fmt.Sprintf("Claim with %d fraud warning(s) on booking %s", len(warnings), claim.BookingID))
	msg.Data["warnings"] = warnings
	return notifications.SendToOperations(msg)
}

// ClaimRejectedSend notifies operations that a claim was rejected, with the reason recorded in its history
func ClaimRejectedSend(tx *pop.Connection, claim models.Claim) error {
	var histories models.ClaimHistories
	if err := histories.FindByClaimID(tx, claim.ID); err != nil {
		return err
	}

	reason := ""
	for i := len(histories) - 1; i >= 0; i-- {
		h := histories[i]
		if h.FieldName == models.FieldClaimStatus && h.NewValue == string(api.ClaimStatusRejected) {
			reason = h.Reason
			break
		}
	}

	msg := newClaimMessage(claim, MessageTemplateClaimRejectedOperations, "Claim rejected")
	msg.Data["reason"] = reason
	return notifications.SendToOperations(msg)
}

// ClaimPaidSend sends operations the waterfall breakdown of a paid claim
func ClaimPaidSend(tx *pop.Connection, claim models.Claim) error {
	if err := claim.LoadPayout(tx); err != nil {
		return err
	}
	if claim.Payout == nil {
		return fmt.Errorf("claim %s has no payout", claim.ID)
	}

	msg := newClaimMessage(claim, MessageTemplateClaimPaidOperations, "Claim paid")
	msg.Data["breakdown"] = settlement.FormatBreakdown(claim.Payout.Breakdown(), domain.Env.ReferenceCurrency)
	return notifications.SendToOperations(msg)
}

// ClaimReconciliationRequiredSend tells operations that a guarantee fund payout was not recorded in the ledger
func ClaimReconciliationRequiredSend(tx *pop.Connection, claim models.Claim) error {
	if err := claim.LoadPayout(tx); err != nil {
		return err
	}
	if claim.Payout == nil {
		return fmt.Errorf("claim %s has no payout", claim.ID)
	}

	msg := newClaimMessage(claim, MessageTemplateClaimReconcileOperations,
		"Guarantee fund payout needs reconciliation")
	msg.Data["fundPaid"] = settlement.FormatAmount(api.Currency(claim.Payout.FundPaid), domain.Env.ReferenceCurrency)
	return notifications.SendToOperations(msg)
}

// ClaimLockExpiredSend warns operations that a settlement did not finish before its lock expired
func ClaimLockExpiredSend(claim models.Claim) error {
	msg := newClaimMessage(claim, MessageTemplateClaimLockExpiredOperations, "Claim settlement lock expired")
	msg.Data["lockTimeout"] = strings.TrimSuffix(domain.ClaimLockTimeout().String(), "0s")
	msg.Data["status"] = string(claim.Status)
	return notifications.SendToOperations(msg)
}
