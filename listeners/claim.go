package listeners

import (
	"github.com/gobuffalo/events"

	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
	"github.com/silinternational/claims-settlement-api/messages"
	"github.com/silinternational/claims-settlement-api/models"
)

func claimCreated(e events.Event) {
	if e.Kind != domain.EventApiClaimCreated {
		return
	}

	defer panicRecover(e.Kind)

	var claim models.Claim
	if err := findObject(e.Payload, &claim, e.Kind); err != nil {
		return
	}

	log.WithFields(log.Fields{
		"claim_id":   claim.ID,
		"booking_id": claim.BookingID,
		"reporter":   claim.ReporterRole,
		"total":      claim.TotalEstimatedCost,
	}).Info("claim created")
}

func claimFraudWarning(e events.Event) {
	if e.Kind != domain.EventApiClaimFraudWarning {
		return
	}

	defer panicRecover(e.Kind)

	var claim models.Claim
	if err := findObject(e.Payload, &claim, e.Kind); err != nil {
		return
	}

	if err := messages.ClaimFraudWarningSend(claim, getWarnings(e.Payload)); err != nil {
		log.Errorf("error sending fraud warning message for claim %s, %s", claim.ID, err)
	}
}

func claimRejected(e events.Event) {
	if e.Kind != domain.EventApiClaimRejected {
		return
	}

	defer panicRecover(e.Kind)

	var claim models.Claim
	if err := findObject(e.Payload, &claim, e.Kind); err != nil {
		return
	}

	if err := messages.ClaimRejectedSend(models.DB, claim); err != nil {
		log.Errorf("error sending rejected message for claim %s, %s", claim.ID, err)
	}
}

func claimPaid(e events.Event) {
	if e.Kind != domain.EventApiClaimPaid {
		return
	}

	defer panicRecover(e.Kind)

	var claim models.Claim
	if err := findObject(e.Payload, &claim, e.Kind); err != nil {
		return
	}

	if err := messages.ClaimPaidSend(models.DB, claim); err != nil {
		log.Errorf("error sending paid message for claim %s, %s", claim.ID, err)
	}
}

func claimReconcile(e events.Event) {
	if e.Kind != domain.EventApiClaimReconcile {
		return
	}

	defer panicRecover(e.Kind)

	var claim models.Claim
	if err := findObject(e.Payload, &claim, e.Kind); err != nil {
		return
	}

	if err := messages.ClaimReconciliationRequiredSend(models.DB, claim); err != nil {
		log.Errorf("error sending reconciliation message for claim %s, %s", claim.ID, err)
	}
}

func claimLockExpired(e events.Event) {
	if e.Kind != domain.EventApiClaimLockExpired {
		return
	}

	defer panicRecover(e.Kind)

	var claim models.Claim
	if err := findObject(e.Payload, &claim, e.Kind); err != nil {
		return
	}

	if err := messages.ClaimLockExpiredSend(claim); err != nil {
		log.Errorf("error sending lock expired message for claim %s, %s", claim.ID, err)
	}
}
