package messages

import (
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
	"github.com/silinternational/claims-settlement-api/notifications"
	"github.com/silinternational/claims-settlement-api/settlement"
)

// Email templates
const (
	MessageTemplateClaimFraudWarningOperations = "claim_fraud_warning_operations"
	MessageTemplateClaimRejectedOperations     = "claim_rejected_operations"
	MessageTemplateClaimPaidOperations         = "claim_paid_operations"
	MessageTemplateClaimReconcileOperations    = "claim_reconcile_operations"
	MessageTemplateClaimLockExpiredOperations  = "claim_lock_expired_operations"
)

func claimURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/claims/%s", domain.Env.UIURL, id)
}

// newClaimMessage prepares an operations message with the data common to all claim templates
func newClaimMessage(claim models.Claim, template, subject string) notifications.Message {
	msg := notifications.NewEmailMessage()
	msg.Template = template
	msg.Subject = subject
	msg.Data["claimURL"] = claimURL(claim.ID)
	msg.Data["claimID"] = claim.ID.String()
	msg.Data["bookingID"] = claim.BookingID.String()
	msg.Data["reporterRole"] = string(claim.ReporterRole)
	msg.Data["claimTotal"] = settlement.FormatAmount(api.Currency(claim.TotalEstimatedCost), domain.Env.ReferenceCurrency)
	return msg
}
