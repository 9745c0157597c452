package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogservice "threadmart/contexts/commerce-core/catalog-service"
	orderservice "threadmart/contexts/commerce-core/order-service"
	catalogate "threadmart/contexts/commerce-core/order-service/adapters/catalog"
	paymentservice "threadmart/contexts/commerce-core/payment-service"
	ordergate "threadmart/contexts/commerce-core/payment-service/adapters/order"
	accountservice "threadmart/contexts/identity-access/account-service"
	accountports "threadmart/contexts/identity-access/account-service/ports"
	"threadmart/internal/shared/token"
)

const testCookieName = "token"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tokens, err := token.NewCodec("test-secret", token.DefaultTTL)
	if err != nil {
		t.Fatalf("new codec failed: %v", err)
	}
	logger := slog.Default()

	accounts := accountservice.NewInMemoryModule(tokens, logger)
	catalog := catalogservice.NewInMemoryModule(logger)
	orders := orderservice.NewInMemoryModule(catalogate.Gateway{Catalog: catalog.Service}, logger)
	payments := paymentservice.NewInMemoryModule(ordergate.Gateway{Orders: orders.Service}, logger)

	return New(accounts, catalog, orders, payments, &tokens, testCookieName, token.DefaultTTL, logger, ":0")
}

var seedSequence int

// seedUser writes straight to the account store so tests can mint roles the
// public register endpoint refuses, then logs in for the session cookie.
func seedUser(t *testing.T, server *Server, role string, status string) (accountports.Identity, *http.Cookie) {
	t.Helper()

	seedSequence++
	email := fmt.Sprintf("%s%d@example.com", role, seedSequence)

	store := server.accounts.Store
	userID, err := store.NewID(context.Background())
	if err != nil {
		t.Fatalf("new id failed: %v", err)
	}
	identity, err := store.CreateUser(context.Background(), userID, accountports.RegisterInput{
		Name:  "Test " + role,
		Email: email,
		Role:  role,
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	if status != accountports.StatusPending {
		identity, err = store.UpdateStatus(context.Background(), userID, status, time.Now().UTC())
		if err != nil {
			t.Fatalf("seed status failed: %v", err)
		}
	}

	body := []byte(fmt.Sprintf(`{"email":%q}`, email))
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("seed login expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == testCookieName && cookie.Value != "" {
			return identity, cookie
		}
	}
	t.Fatalf("seed login did not set the session cookie")
	return accountports.Identity{}, nil
}

func doJSON(t *testing.T, server *Server, method string, path string, body string, cookie *http.Cookie, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, rr.Body.String())
	}
}
