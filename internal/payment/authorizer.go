// Package payment defines the authorization contract against the
// external payment gateway.  The gateway is an opaque collaborator:
// checkout only needs "authorized with this reference" or "declined
// for this reason".  Declines are business outcomes, not errors in the
// infrastructure sense, and are modeled as a dedicated error type so
// the orchestrator can map them to a stable error code.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Methods accepted by the checkout endpoint.
const (
	MethodCard         = "CARD"
	MethodWallet       = "WALLET"
	MethodBankTransfer = "BANK_TRANSFER"
)

// ValidMethod reports whether m is a recognized payment method.
func ValidMethod(m string) bool {
	switch m {
	case MethodCard, MethodWallet, MethodBankTransfer:
		return true
	}
	return false
}

// DeclinedError is returned by an Authorizer when the gateway refuses
// the charge.  Reason is safe to surface to the end user ("Insufficient
// funds", "Card expired", ...).
type DeclinedError struct {
	Reason string
}

func (e *DeclinedError) Error() string { return "payment declined: " + e.Reason }

// Authorization is the successful outcome of an Authorize call.
type Authorization struct {
	Ref      string    // gateway reference for the authorization
	IssuedAt time.Time // when the authorization was granted
}

// Authorizer authorizes a charge for a user and payment method.  The
// final amount is not known yet when checkout authorizes (pricing runs
// inside the reservation transaction), so the gateway grants a hold on
// the method rather than a fixed-amount capture.  It returns
// *DeclinedError for business declines; any other error is an
// infrastructure failure.  Implementations must honor ctx cancellation
// because the call crosses the network.
type Authorizer interface {
	Authorize(ctx context.Context, userID uint64, method string) (*Authorization, error)
}

// GatewayClient is the production Authorizer.  It POSTs an
// authorization request to the configured gateway URL and interprets
// the JSON response.  A per-request timeout bounds the call even when
// the caller's context has none.
type GatewayClient struct {
	URL     string
	Timeout time.Duration
	HTTP    *http.Client
}

// NewGatewayClient constructs a GatewayClient for the given endpoint.
func NewGatewayClient(url string, timeout time.Duration) *GatewayClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GatewayClient{URL: url, Timeout: timeout, HTTP: &http.Client{Timeout: timeout}}
}

type gatewayRequest struct {
	Reference string `json:"reference"`
	UserID    uint64 `json:"user_id"`
	Method    string `json:"method"`
}

type gatewayResponse struct {
	Approved bool   `json:"approved"`
	Ref      string `json:"ref"`
	Reason   string `json:"reason"`
}

// Authorize implements Authorizer.  The request carries a fresh UUID
// so gateway-side idempotent retry is possible; the gateway may echo
// it back or substitute its own reference.
func (g *GatewayClient) Authorize(ctx context.Context, userID uint64, method string) (*Authorization, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()

	reqBody := gatewayRequest{
		Reference: uuid.NewString(),
		UserID:    userID,
		Method:    method,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway: unexpected status %d", resp.StatusCode)
	}
	var out gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("payment gateway: decode response: %w", err)
	}
	if !out.Approved {
		reason := out.Reason
		if reason == "" {
			reason = "declined"
		}
		return nil, &DeclinedError{Reason: reason}
	}
	ref := out.Ref
	if ref == "" {
		ref = reqBody.Reference
	}
	return &Authorization{Ref: ref, IssuedAt: time.Now().UTC()}, nil
}
