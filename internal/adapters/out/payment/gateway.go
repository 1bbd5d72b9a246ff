package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/shopspring/decimal"
)

const (
	statusSucceeded = "succeeded"
	statusDeclined  = "declined"
)

// HTTPError is a non-2xx answer from the payment provider.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	body := string(e.Body)
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.StatusCode, body)
}

type settleRequest struct {
	OrderID string          `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
	Method  string          `json:"method"`
}

type settleResponse struct {
	Status        string `json:"status"`
	Reference     string `json:"reference"`
	FailureReason string `json:"failure_reason"`
}

type refundRequest struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// Gateway talks to the payment provider's REST API. Every call carries the order id as
// idempotency key, so a retried settlement never charges twice.
type Gateway struct {
	baseURL *url.URL
	http    *http.Client
}

var _ ports.PaymentGateway = (*Gateway)(nil)

func NewGateway(baseURL string, timeout time.Duration) (*Gateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gateway{baseURL: u, http: &http.Client{Timeout: timeout}}, nil
}

func (g *Gateway) Settle(
	ctx context.Context,
	orderID kernel.UUID,
	amount decimal.Decimal,
	method order.PaymentMethod,
) (ports.SettlementOutcome, error) {
	var out settleResponse
	err := g.postJSON(ctx, "v1/settlements", orderID, settleRequest{
		OrderID: orderID.String(),
		Amount:  amount,
		Method:  string(method),
	}, &out)
	if err != nil {
		return ports.SettlementOutcome{}, err
	}

	switch out.Status {
	case statusSucceeded:
		return ports.SettlementOutcome{Succeeded: true, Reference: out.Reference}, nil
	case statusDeclined:
		return ports.SettlementOutcome{Reference: out.Reference, FailureReason: out.FailureReason}, nil
	default:
		return ports.SettlementOutcome{}, fmt.Errorf("settle %s: unexpected status %q", orderID, out.Status)
	}
}

func (g *Gateway) Refund(ctx context.Context, orderID kernel.UUID, reason string) error {
	return g.postJSON(ctx, "v1/refunds", orderID, refundRequest{OrderID: orderID.String(), Reason: reason}, nil)
}

func (g *Gateway) postJSON(ctx context.Context, path string, orderID kernel.UUID, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	u := g.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", path+":"+orderID.String())

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode JSON: %w", path, err)
	}
	return nil
}
