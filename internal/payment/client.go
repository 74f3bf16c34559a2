package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"quickbite/internal/domain"
)

// Capturer obtains payment before an order is created.
type Capturer interface {
	Capture(ctx context.Context, amount decimal.Decimal, currency string, method domain.PaymentMethod, reference string) (string, error)
}

// Client calls the payment provider over HTTP. Every capture runs under a
// bounded timeout; hitting it surfaces domain.ErrPaymentTimeout instead of
// hanging the submission.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

type captureRequest struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Method    string `json:"method"`
	Reference string `json:"reference,omitempty"`
}

type captureResponse struct {
	PaymentReference string `json:"paymentReference"`
	Reason           string `json:"reason,omitempty"`
}

func (c *Client) Capture(ctx context.Context, amount decimal.Decimal, currency string, method domain.PaymentMethod, reference string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(captureRequest{
		Amount:    amount.String(),
		Currency:  currency,
		Method:    string(method),
		Reference: reference,
	})
	if err != nil {
		return "", fmt.Errorf("marshal capture request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/capture", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build capture request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.ErrPaymentTimeout
		}
		return "", fmt.Errorf("capture call: %w", err)
	}
	defer resp.Body.Close()

	var parsed captureResponse
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read capture response: %w", err)
	}
	if err := json.Unmarshal(raw, &parsed); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("decode capture response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		reason := parsed.Reason
		if reason == "" {
			reason = fmt.Sprintf("provider returned %d", resp.StatusCode)
		}
		return "", &domain.PaymentError{Reason: reason}
	}
	return parsed.PaymentReference, nil
}
