package actions

import (
	"github.com/gobuffalo/buffalo"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/models"
	"github.com/silinternational/claims-settlement-api/settlement"
)

// swagger:operation GET /config/damage-estimates Config DamageEstimates
//
// DamageEstimates
//
// suggested cost band for a damage type and severity, in reference-currency cents
//
// ---
// parameters:
// - name: type
//   in: query
//   required: true
//   description: damage type
// - name: severity
//   in: query
//   required: true
//   description: damage severity
// responses:
//   '200':
//     description: the cost estimate
//     schema:
//       "$ref": "#/definitions/CostEstimate"
func damageEstimates(c buffalo.Context) error {
	estimate, err := settlement.EstimateDamageCost(
		api.DamageType(c.Param("type")),
		api.DamageSeverity(c.Param("severity")),
	)
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, estimate)
}

// swagger:operation GET /config/claim-statuses Config ClaimStatuses
//
// ClaimStatuses
//
// list all claim statuses
//
// ---
// responses:
//   '200':
//     description: list of claim statuses
//     schema:
//       type: array
//       items:
//         type: string
func claimStatuses(c buffalo.Context) error {
	return renderOk(c, api.AllClaimStatuses)
}

// swagger:operation GET /config/risk-policies Config RiskPolicies
//
// RiskPolicies
//
// list the risk policies, by daily rate band
//
// ---
// responses:
//   '200':
//     description: list of risk policies
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/RiskPolicy"
func riskPolicies(c buffalo.Context) error {
	var policies models.RiskPolicies
	if err := policies.All(models.Tx(c)); err != nil {
		return reportError(c, err)
	}
	return renderOk(c, policies.ConvertToAPI())
}
