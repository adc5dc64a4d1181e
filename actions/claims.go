package actions

import (
	"context"
	"errors"
	"net/http"

	"github.com/gobuffalo/buffalo"
	"github.com/gofrs/uuid"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/models"
)

// swagger:operation GET /claims Claims ClaimsList
//
// ClaimsList
//
// list claims, newest first. Admin only.
//
// ---
// parameters:
// - name: filter
//   in: query
//   required: false
//   description: comma-separated `field:value` pairs. Fields are `status`, `booking_id` and `reported_by`.
// - name: limit
//   in: query
//   required: false
//   description: number of claims per page, at most 50
// - name: page
//   in: query
//   required: false
//   description: page number, starting at 1
// responses:
//   '200':
//     description: a list of Claims
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/Claim"
func claimsList(c buffalo.Context) error {
	var claims models.Claims
	if err := claims.FindWithQuery(models.Tx(c), api.NewQueryParams(c.Params())); err != nil {
		return reportError(c, err)
	}
	return renderOk(c, claims.ConvertClaims())
}

// swagger:operation GET /claims/{id} Claims ClaimsView
//
// ClaimsView
//
// view a specific claim
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: claim ID
// responses:
//   '200':
//     description: a Claim
//     schema:
//       "$ref": "#/definitions/Claim"
func claimsView(c buffalo.Context) error {
	claim, err := getViewableClaim(c)
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, claim)
}

// swagger:operation GET /claims/{id}/history Claims ClaimsHistory
//
// ClaimsHistory
//
// list the status changes of a claim, oldest first
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: claim ID
// responses:
//   '200':
//     description: the claim history
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/ClaimHistory"
func claimsHistory(c buffalo.Context) error {
	claim, err := getViewableClaim(c)
	if err != nil {
		return reportError(c, err)
	}

	var histories models.ClaimHistories
	if err := histories.FindByClaimID(models.Tx(c), claim.ID); err != nil {
		return reportError(c, err)
	}
	return renderOk(c, histories.ConvertToAPI())
}

// swagger:operation POST /bookings/{id}/claims Claims ClaimsCreate
//
// ClaimsCreate
//
// report damage on a booking. The caller must be the renter or the owner of the car, both inspections must
// be on file and the anti-fraud rules must pass. The claim is created as a draft.
//
// ---
// parameters:
//   - name: id
//     in: path
//     required: true
//     description: booking ID
//   - name: claim input
//     in: body
//     description: claim create input object
//     required: true
//     schema:
//       "$ref": "#/definitions/ClaimCreateInput"
// responses:
//   '200':
//     description: the new Claim
//     schema:
//       "$ref": "#/definitions/Claim"
func claimsCreate(c buffalo.Context) error {
	bookingID, err := getUUIDParam(c, "id")
	if err != nil {
		return reportError(c, err)
	}

	var input api.ClaimCreateInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	claim, err := svc.CreateClaim(c, bookingID, models.CurrentActor(c), input)
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, claim)
}

// swagger:operation POST /claims/{id}/submit Claims ClaimsSubmit
//
// ClaimsSubmit
//
// Submit a draft claim for review. Only the reporter may submit.
//
// ---
// parameters:
//   - name: id
//     in: path
//     required: true
//     description: claim ID
// responses:
//   '200':
//     description: submitted Claim
//     schema:
//       "$ref": "#/definitions/Claim"
func claimsSubmit(c buffalo.Context) error {
	id, err := getUUIDParam(c, "id")
	if err != nil {
		return reportError(c, err)
	}

	claim, err := svc.SubmitClaim(c, id, models.CurrentActor(c))
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, claim)
}

// swagger:operation POST /claims/{id}/review Claims ClaimsReview
//
// ClaimsReview
//
// Admin starts the review of a submitted claim.
//
// ---
// parameters:
//   - name: id
//     in: path
//     required: true
//     description: claim ID
// responses:
//   '200':
//     description: Claim under review
//     schema:
//       "$ref": "#/definitions/Claim"
func claimsReview(c buffalo.Context) error {
	id, err := getUUIDParam(c, "id")
	if err != nil {
		return reportError(c, err)
	}

	claim, err := svc.ReviewClaim(c, id, models.CurrentActor(c))
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, claim)
}

// swagger:operation POST /claims/{id}/approve Claims ClaimsApprove
//
// ClaimsApprove
//
// Admin approves a reviewed claim, making it ready for settlement.
//
// ---
// parameters:
//   - name: id
//     in: path
//     required: true
//     description: claim ID
//   - name: status input
//     in: body
//     description: optional reason for the history
//     required: false
//     schema:
//       "$ref": "#/definitions/ClaimStatusInput"
// responses:
//   '200':
//     description: approved Claim
//     schema:
//       "$ref": "#/definitions/Claim"
func claimsApprove(c buffalo.Context) error {
	return changeClaimStatus(c, svc.ApproveClaim)
}

// swagger:operation POST /claims/{id}/reject Claims ClaimsReject
//
// ClaimsReject
//
// Admin rejects a submitted or reviewed claim.
//
// ---
// parameters:
//   - name: id
//     in: path
//     required: true
//     description: claim ID
//   - name: status input
//     in: body
//     description: reason for the rejection
//     required: false
//     schema:
//       "$ref": "#/definitions/ClaimStatusInput"
// responses:
//   '200':
//     description: rejected Claim
//     schema:
//       "$ref": "#/definitions/Claim"
func claimsReject(c buffalo.Context) error {
	return changeClaimStatus(c, svc.RejectClaim)
}

type statusChanger func(ctx context.Context, claimID uuid.UUID, actor api.Actor, reason string) (api.Claim, error)

func changeClaimStatus(c buffalo.Context, change statusChanger) error {
	id, err := getUUIDParam(c, "id")
	if err != nil {
		return reportError(c, err)
	}

	var input api.ClaimStatusInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	claim, err := change(c, id, models.CurrentActor(c), input.Reason)
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, claim)
}

// swagger:operation GET /claims/{id}/eligibility Claims ClaimsEligibility
//
// ClaimsEligibility
//
// Admin asks the risk service whether a claim would be covered, without changing the claim.
//
// ---
// parameters:
//   - name: id
//     in: path
//     required: true
//     description: claim ID
// responses:
//   '200':
//     description: eligibility assessment
//     schema:
//       "$ref": "#/definitions/EligibilityResult"
func claimsEligibility(c buffalo.Context) error {
	id, err := getUUIDParam(c, "id")
	if err != nil {
		return reportError(c, err)
	}

	result, err := svc.EvaluateClaim(c, id)
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, result)
}

// swagger:operation POST /claims/{id}/process Claims ClaimsProcess
//
// ClaimsProcess
//
// Admin settles an approved claim: the claim is locked, its eligibility assessed and the amount collected
// from the card hold, the wallet security and the guarantee fund, in that order. The result is always a
// ClaimProcessResult.
//
// ---
// parameters:
//   - name: id
//     in: path
//     required: true
//     description: claim ID
// responses:
//   '200':
//     description: the claim was paid
//     schema:
//       "$ref": "#/definitions/ClaimProcessResult"
//   '404':
//     description: the claim does not exist or a dependency of the settlement is missing
//     schema:
//       "$ref": "#/definitions/ClaimProcessResult"
//   '409':
//     description: the claim is being processed or was already settled
//     schema:
//       "$ref": "#/definitions/ClaimProcessResult"
//   '422':
//     description: the claim is not eligible for coverage and was rejected
//     schema:
//       "$ref": "#/definitions/ClaimProcessResult"
func claimsProcess(c buffalo.Context) error {
	id, err := getUUIDParam(c, "id")
	if err != nil {
		return reportError(c, err)
	}

	result := svc.ProcessClaim(c, id, models.CurrentActor(c))
	return c.Render(processStatus(result), r.JSON(result))
}

func processStatus(result api.ClaimProcessResult) int {
	if result.OK {
		return http.StatusOK
	}
	switch result.ErrorKey {
	case api.ErrorClaimLocked, api.ErrorClaimTerminal:
		return http.StatusConflict
	case api.ErrorClaimNotFound, api.ErrorClaimDependencyMissing:
		return http.StatusNotFound
	case api.ErrorClaimIneligible:
		return http.StatusUnprocessableEntity
	case api.ErrorRiskService, api.ErrorPaymentsService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// swagger:operation POST /claims/{id}/reconcile Claims ClaimsReconcile
//
// ClaimsReconcile
//
// Admin retries the guarantee-fund ledger entry of a paid claim whose payout is flagged for reconciliation.
//
// ---
// parameters:
//   - name: id
//     in: path
//     required: true
//     description: claim ID
// responses:
//   '200':
//     description: the reconciled Claim
//     schema:
//       "$ref": "#/definitions/Claim"
func claimsReconcile(c buffalo.Context) error {
	id, err := getUUIDParam(c, "id")
	if err != nil {
		return reportError(c, err)
	}

	claim, err := svc.ReconcileFundPayout(c, id)
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, claim)
}

// getViewableClaim loads the claim named in the route, hiding it from actors who may not see it
func getViewableClaim(c buffalo.Context) (api.Claim, error) {
	id, err := getUUIDParam(c, "id")
	if err != nil {
		return api.Claim{}, err
	}

	claim, err := svc.FindClaim(c, id)
	if err != nil {
		return api.Claim{}, err
	}

	if !canViewClaim(models.CurrentActor(c), claim) {
		err := errors.New("actor not allowed to view claim " + id.String())
		return api.Claim{}, api.NewAppError(err, api.ErrorClaimNotFound, api.CategoryForbidden)
	}
	return claim, nil
}
