package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/canteen-order/internal/common"
)

// Doer performs a backend request.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client posts orders to the backend.
type Client struct {
	baseURL string
	http    Doer
	newKey  func() string
}

// NewClient builds the order sink for the backend at baseURL. doer should be
// limited to a single attempt.
func NewClient(baseURL string, doer Doer) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
		newKey:  uuid.NewString,
	}
}

// PlaceOrder posts p to /api/orders. Any non-2xx response or a reply without
// an id is a failure wrapping ErrOrderSubmission.
func (c *Client) PlaceOrder(ctx context.Context, p Payload) (Result, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return Result{}, fmt.Errorf("%w: encode payload: %v", ErrOrderSubmission, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrOrderSubmission, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", c.newKey())

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrOrderSubmission, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return Result{}, fmt.Errorf("%w: unexpected status %d", ErrOrderSubmission, resp.StatusCode)
	}

	var ack struct {
		ID common.FlexibleID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return Result{}, fmt.Errorf("%w: decode response: %v", ErrOrderSubmission, err)
	}
	if ack.ID.IsZero() {
		return Result{}, fmt.Errorf("%w: response has no id", ErrOrderSubmission)
	}
	return Result{ID: ack.ID.String()}, nil
}
