package gateway

import (
	"context"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/silinternational/claims-settlement-api/api"
)

// RiskClient calls the risk service
type RiskClient struct {
	client
}

func NewRiskClient(baseURL, token string, httpClient *http.Client) *RiskClient {
	return &RiskClient{client: newClient(baseURL, token, httpClient)}
}

// GetRiskSnapshot fetches the payment and security posture of a booking. found is false when the risk
// service has no snapshot for it.
func (r *RiskClient) GetRiskSnapshot(ctx context.Context, bookingID uuid.UUID) (api.RiskSnapshot, bool, error) {
	var snapshot api.RiskSnapshot
	found, err := r.do(ctx, request{
		method: http.MethodGet,
		path:   "/bookings/" + bookingID.String() + "/risk-snapshot",
	}, &snapshot)
	if err != nil {
		return api.RiskSnapshot{}, false, errors.WithMessagef(err, "risk snapshot for booking %s", bookingID)
	}
	return snapshot, found, nil
}

func (r *RiskClient) AssessEligibility(ctx context.Context, req api.EligibilityRequest) (api.EligibilityResult, error) {
	var result api.EligibilityResult
	found, err := r.do(ctx, request{
		method: http.MethodPost,
		path:   "/eligibility",
		body:   req,
	}, &result)
	if err != nil {
		return api.EligibilityResult{}, errors.WithMessagef(err, "eligibility for booking %s", req.BookingID)
	}
	if !found {
		return api.EligibilityResult{}, errors.Errorf("eligibility endpoint not found at %s", r.baseURL)
	}
	return result, nil
}
