package actions

import (
	"net/http"
	"testing"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/models"
)

func (as *ActionSuite) Test_DamageEstimates() {
	actor := api.Actor{ID: domain.GetUUID()}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantInBody []string
	}{
		{
			name:       "good",
			query:      "?type=glass&severity=minor",
			wantStatus: http.StatusOK,
			wantInBody: []string{`"type":"glass"`, `"severity":"minor"`, `"suggested":`},
		},
		{
			name:       "bad type",
			query:      "?type=engine&severity=minor",
			wantStatus: http.StatusBadRequest,
			wantInBody: []string{`"key":"` + api.ErrorInvalidDamageType.String()},
		},
		{
			name:       "bad severity",
			query:      "?type=glass&severity=awful",
			wantStatus: http.StatusBadRequest,
			wantInBody: []string{`"key":"` + api.ErrorInvalidDamageSeverity.String()},
		},
	}
	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			res := as.actorJSON(actor, "/damage-estimates"+tt.query).Get()
			as.Equal(tt.wantStatus, res.Code, "body: %s", res.Body.String())
			as.verifyResponseData(tt.wantInBody, res.Body.String(), "")
		})
	}
}

func (as *ActionSuite) Test_ClaimStatuses() {
	res := as.actorJSON(api.Actor{ID: domain.GetUUID()}, "/config/claim-statuses").Get()
	as.Equal(http.StatusOK, res.Code)

	var got []api.ClaimStatus
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Equal(api.AllClaimStatuses, got)
}

func (as *ActionSuite) Test_RiskPolicies() {
	models.CreateRiskPolicyFixtures(as.DB)

	res := as.actorJSON(api.Actor{ID: domain.GetUUID()}, "/config/risk-policies").Get()
	as.Equal(http.StatusOK, res.Code)

	var got []api.RiskPolicy
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Len(got, 3)
}

func (as *ActionSuite) Test_Status() {
	res := as.JSON("/status").Get()
	as.Equal(http.StatusNoContent, res.Code, "no identity needed")

	res = as.JSON("/").Get()
	as.Equal(http.StatusOK, res.Code)
	as.Contains(res.Body.String(), domain.Env.AppName)
}
