package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domainerrors "threadmart/contexts/commerce-core/payment-service/domain/errors"
	"threadmart/contexts/commerce-core/payment-service/ports"
)

// Provider talks to a Stripe-style checkout REST API. Requests are
// form-encoded with a bearer key, responses are JSON.
type Provider struct {
	BaseURL    string
	APIKey     string
	SuccessURL string
	CancelURL  string
	Client     *http.Client
}

type sessionPayload struct {
	ID            string `json:"id"`
	PaymentStatus string `json:"payment_status"`
	URL           string `json:"url"`
	Created       int64  `json:"created"`
}

type errorPayload struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p Provider) CreateCheckoutSession(ctx context.Context, input ports.CheckoutInput) (ports.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", input.OrderID)
	form.Set("customer_email", input.BuyerEmail)
	form.Set("success_url", p.SuccessURL)
	form.Set("cancel_url", p.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(input.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(input.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", input.Description)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.BaseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return ports.CheckoutSession{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return p.send(req)
}

func (p Provider) GetCheckoutSession(ctx context.Context, sessionID string) (ports.CheckoutSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.BaseURL+"/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return ports.CheckoutSession{}, err
	}
	return p.send(req)
}

func (p Provider) send(req *http.Request) (ports.CheckoutSession, error) {
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.client().Do(req)
	if err != nil {
		return ports.CheckoutSession{}, fmt.Errorf("%w: %v", domainerrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ports.CheckoutSession{}, domainerrors.ErrSessionNotFound
	case resp.StatusCode >= 400:
		var body errorPayload
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return ports.CheckoutSession{}, fmt.Errorf("%w: status %d: %s",
			domainerrors.ErrProviderUnavailable, resp.StatusCode, body.Error.Message)
	}

	var payload sessionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ports.CheckoutSession{}, fmt.Errorf("%w: %v", domainerrors.ErrProviderUnavailable, err)
	}

	status := ports.SessionStatusOpen
	if payload.PaymentStatus == "paid" {
		status = ports.SessionStatusPaid
	}
	return ports.CheckoutSession{
		SessionID:   payload.ID,
		Status:      status,
		RedirectURL: payload.URL,
		CreatedAt:   time.Unix(payload.Created, 0).UTC(),
	}, nil
}

func (p Provider) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return http.DefaultClient
}
