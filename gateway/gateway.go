// Package gateway holds the HTTP clients for the services a settlement depends on: the risk service, which
// owns risk snapshots and eligibility, and the payments service, which owns card authorizations and wallets.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/silinternational/claims-settlement-api/domain"
	"github.com/silinternational/claims-settlement-api/log"
)

const (
	HeaderServiceToken   = "X-Service-Token"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// maximum number of response body bytes kept for error messages
const errorBodyLimit = 512

// StatusError is returned when a service answers with an unexpected HTTP status
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// IsClientError reports whether the service rejected the request itself, as opposed to failing to serve it
func (e *StatusError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func newClient(baseURL, token string, httpClient *http.Client) client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: domain.ExternalTimeout()}
	}
	return client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

type request struct {
	method         string
	path           string
	body           any
	idempotencyKey string
}

// do sends the request and decodes a 2xx response into out. found is false on a 404, any other status
// outside 2xx is a *StatusError.
func (c client) do(ctx context.Context, r request, out any) (found bool, err error) {
	url := c.baseURL + r.path

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return false, errors.Wrapf(err, "failed to encode request to %s", url)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, url, body)
	if err != nil {
		return false, errors.Wrapf(err, "failed to create request to %s", url)
	}
	req.Header.Set("Accept", domain.ContentJson)
	if body != nil {
		req.Header.Set("Content-Type", domain.ContentJson)
	}
	if c.token != "" {
		req.Header.Set(HeaderServiceToken, c.token)
	}
	if r.idempotencyKey != "" {
		req.Header.Set(HeaderIdempotencyKey, r.idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, errors.Wrapf(err, "%s %s failed", r.method, url)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warningf("error closing response body from %s, %s", url, err)
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return false, &StatusError{
			Method: r.method,
			URL:    url,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		return true, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, errors.Wrapf(err, "failed to decode response from %s", url)
	}
	return true, nil
}
