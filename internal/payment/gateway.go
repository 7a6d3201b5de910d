// Package payment wraps the external payment provider behind a small
// gateway interface so application code never sees provider wire details.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable reports that the provider could not be reached or returned
// an unusable response.
var ErrUnavailable = errors.New("payment: gateway unavailable")

// IntentRequest describes the purchase a payment intent is opened for.
type IntentRequest struct {
	OrderID     string
	AmountCents int64
	Description string
}

// Intent is the provider handle for an in-flight payment.
type Intent struct {
	IntentID    string
	RedirectURL string
}

// VerifyResult reports the provider's view of a payment intent.
type VerifyResult struct {
	IntentID    string
	Paid        bool
	AmountCents int64
}

// Gateway is the provider boundary used by the order workflow.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
	VerifyIntent(ctx context.Context, intentID string) (VerifyResult, error)
}

// Client talks JSON over HTTP to the payment provider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a provider client. A nil logger falls back to the
// process default.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type intentPayload struct {
	OrderID     string `json:"order_id"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description,omitempty"`
}

type intentResponse struct {
	IntentID    string `json:"intent_id"`
	RedirectURL string `json:"redirect_url"`
}

type verifyResponse struct {
	IntentID    string `json:"intent_id"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
}

// CreateIntent opens a payment intent for the given order.
func (c *Client) CreateIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	body, err := json.Marshal(intentPayload{
		OrderID:     req.OrderID,
		AmountCents: req.AmountCents,
		Description: req.Description,
	})
	if err != nil {
		return Intent{}, err
	}

	var resp intentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/intents", bytes.NewReader(body), &resp); err != nil {
		return Intent{}, err
	}
	if resp.IntentID == "" {
		return Intent{}, fmt.Errorf("%w: response missing intent id", ErrUnavailable)
	}
	return Intent{IntentID: resp.IntentID, RedirectURL: resp.RedirectURL}, nil
}

// VerifyIntent fetches the provider's final status for an intent.
func (c *Client) VerifyIntent(ctx context.Context, intentID string) (VerifyResult, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodGet, "/v1/intents/"+intentID, nil, &resp); err != nil {
		return VerifyResult{}, err
	}
	return VerifyResult{
		IntentID:    resp.IntentID,
		Paid:        resp.Status == "succeeded",
		AmountCents: resp.AmountCents,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("payment provider request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("payment provider returned error status", "method", method, "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}
