package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/silinternational/claims-settlement-api/api"
	"github.com/silinternational/claims-settlement-api/domain"
)

// PaymentsClient calls the payments service for card captures and wallet debits
type PaymentsClient struct {
	client
}

func NewPaymentsClient(baseURL, token string, httpClient *http.Client) *PaymentsClient {
	return &PaymentsClient{client: newClient(baseURL, token, httpClient)}
}

type captureBody struct {
	ClaimID  uuid.UUID       `json:"claim_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// CaptureAuthorization captures part of a card authorization. A request the payments service refuses comes
// back as a result with OK false; transport failures and server errors come back as an error.
func (p *PaymentsClient) CaptureAuthorization(ctx context.Context, req api.CaptureRequest) (api.CaptureResult, error) {
	if req.AuthorizationID == "" {
		return api.CaptureResult{Error: "no authorization to capture"}, nil
	}

	var result api.CaptureResult
	found, err := p.do(ctx, request{
		method: http.MethodPost,
		path:   "/authorizations/" + url.PathEscape(req.AuthorizationID) + "/capture",
		body: captureBody{
			ClaimID:  req.ClaimID,
			Amount:   req.Amount,
			Currency: domain.Env.ReferenceCurrency,
		},
		idempotencyKey: req.IdempotencyKey,
	}, &result)

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.IsClientError() {
		return api.CaptureResult{Error: statusErr.Body}, nil
	}
	if err != nil {
		return api.CaptureResult{}, paymentsError(err, "capture for claim %s", req.ClaimID)
	}
	if !found {
		return api.CaptureResult{Error: "authorization " + req.AuthorizationID + " not found"}, nil
	}
	return result, nil
}

type debitBody struct {
	ClaimID  uuid.UUID       `json:"claim_id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// DebitForDamage debits the renter's security deposit held for a booking. The result reports what was
// actually moved, which may be less than requested.
func (p *PaymentsClient) DebitForDamage(ctx context.Context, req api.WalletDebitRequest) (api.WalletDebitResult, error) {
	var result api.WalletDebitResult
	found, err := p.do(ctx, request{
		method: http.MethodPost,
		path:   "/wallets/bookings/" + req.BookingID.String() + "/debits",
		body: debitBody{
			ClaimID:  req.ClaimID,
			Amount:   req.Amount,
			Currency: domain.Env.ReferenceCurrency,
		},
		idempotencyKey: WalletDebitKey(req.ClaimID),
	}, &result)

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.IsClientError() {
		return api.WalletDebitResult{Error: statusErr.Body}, nil
	}
	if err != nil {
		return api.WalletDebitResult{}, paymentsError(err, "wallet debit for claim %s", req.ClaimID)
	}
	if !found {
		return api.WalletDebitResult{Error: "no wallet security for booking " + req.BookingID.String()}, nil
	}
	return result, nil
}

// WalletDebitKey is the idempotency key of the single wallet debit a claim may make
func WalletDebitKey(claimID uuid.UUID) string {
	return "claim-" + claimID.String() + "-wallet_debit"
}

func paymentsError(err error, format string, args ...any) error {
	return api.NewAppError(errors.WithMessagef(err, format, args...), api.ErrorPaymentsService, api.CategoryExternal)
}
