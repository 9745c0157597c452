package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "threadmart/contexts/commerce-core/payment-service/domain/errors"
	"threadmart/contexts/commerce-core/payment-service/ports"
)

func TestCreateCheckoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk_test" {
			t.Fatalf("missing bearer key, got %q", r.Header.Get("Authorization"))
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form failed: %v", err)
		}
		if got := r.PostForm.Get("client_reference_id"); got != "ord_000001" {
			t.Fatalf("unexpected reference id %q", got)
		}
		if got := r.PostForm.Get("line_items[0][price_data][unit_amount]"); got != "1999" {
			t.Fatalf("unexpected amount %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":             "cs_test_1",
			"payment_status": "unpaid",
			"url":            "https://checkout.example/cs_test_1",
			"created":        1700000000,
		})
	}))
	defer server.Close()

	provider := Provider{
		BaseURL:    server.URL,
		APIKey:     "sk_test",
		SuccessURL: "https://shop.example/paid",
		CancelURL:  "https://shop.example/cancel",
		Client:     server.Client(),
	}
	session, err := provider.CreateCheckoutSession(context.Background(), ports.CheckoutInput{
		OrderID:     "ord_000001",
		BuyerEmail:  "buyer@example.com",
		Description: "Linen Shirt",
		AmountCents: 1999,
		Currency:    "USD",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if session.SessionID != "cs_test_1" || session.Status != ports.SessionStatusOpen {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.RedirectURL != "https://checkout.example/cs_test_1" {
		t.Fatalf("unexpected redirect: %q", session.RedirectURL)
	}
}

func TestGetCheckoutSessionStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/checkout/sessions/cs_paid":
			json.NewEncoder(w).Encode(map[string]any{"id": "cs_paid", "payment_status": "paid"})
		case "/v1/checkout/sessions/cs_open":
			json.NewEncoder(w).Encode(map[string]any{"id": "cs_open", "payment_status": "unpaid"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	provider := Provider{BaseURL: server.URL, APIKey: "sk_test", Client: server.Client()}

	paid, err := provider.GetCheckoutSession(context.Background(), "cs_paid")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if paid.Status != ports.SessionStatusPaid {
		t.Fatalf("expected paid, got %q", paid.Status)
	}

	open, err := provider.GetCheckoutSession(context.Background(), "cs_open")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if open.Status != ports.SessionStatusOpen {
		t.Fatalf("expected open, got %q", open.Status)
	}

	if _, err := provider.GetCheckoutSession(context.Background(), "cs_missing"); !errors.Is(err, domainerrors.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestProviderErrorSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "card declined"}})
	}))
	defer server.Close()

	provider := Provider{BaseURL: server.URL, APIKey: "sk_test", Client: server.Client()}
	_, err := provider.GetCheckoutSession(context.Background(), "cs_any")
	if !errors.Is(err, domainerrors.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
