package application

import (
	"context"
	"errors"
	"testing"
	"time"

	ordermemory "threadmart/contexts/commerce-core/order-service/adapters/memory"
	orderapplication "threadmart/contexts/commerce-core/order-service/application"
	orderports "threadmart/contexts/commerce-core/order-service/ports"
	ordergateway "threadmart/contexts/commerce-core/payment-service/adapters/order"
	"threadmart/contexts/commerce-core/payment-service/adapters/memory"
	domainerrors "threadmart/contexts/commerce-core/payment-service/domain/errors"
	"threadmart/contexts/commerce-core/payment-service/ports"
)

type stubCatalog struct{}

func (stubCatalog) ProductSummary(_ context.Context, productID string) (orderports.ProductSummary, error) {
	return orderports.ProductSummary{
		ProductID:  productID,
		Title:      "Linen Shirt",
		PriceCents: 1999,
		Currency:   "USD",
	}, nil
}

type fixture struct {
	payments Service
	provider *memory.Provider
	orders   orderapplication.Service
}

func newFixture() fixture {
	store := ordermemory.NewStore()
	orders := orderapplication.Service{
		Repo:           store,
		Catalog:        stubCatalog{},
		Idempotency:    store,
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: 7 * 24 * time.Hour,
	}
	provider := memory.NewProvider()
	return fixture{
		payments: Service{
			Orders:   ordergateway.Gateway{Orders: orders},
			Provider: provider,
		},
		provider: provider,
		orders:   orders,
	}
}

func (f fixture) approvedOrder(t *testing.T) orderports.Order {
	t.Helper()
	order, err := f.orders.PlaceOrder(context.Background(), "idem-place", orderports.PlaceOrderInput{
		ProductID:  "prod_1",
		BuyerEmail: "buyer@example.com",
		BuyerName:  "Amina",
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	approved, err := f.orders.ApproveOrder(context.Background(), "idem-approve", order.OrderID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	return approved
}

func TestCreateSessionAttachesSessionToOrder(t *testing.T) {
	f := newFixture()
	order := f.approvedOrder(t)

	session, err := f.payments.CreateSession(context.Background(), order.OrderID, "buyer@example.com")
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if session.SessionID == "" || session.RedirectURL == "" {
		t.Fatalf("expected session with redirect, got %+v", session)
	}

	stored, err := f.orders.GetOrder(context.Background(), order.OrderID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if stored.PaymentSessionID != session.SessionID {
		t.Fatalf("expected session id on order, got %q", stored.PaymentSessionID)
	}
}

func TestCreateSessionRequiresOwnership(t *testing.T) {
	f := newFixture()
	order := f.approvedOrder(t)

	_, err := f.payments.CreateSession(context.Background(), order.OrderID, "stranger@example.com")
	if !errors.Is(err, domainerrors.ErrNotOrderOwner) {
		t.Fatalf("expected ErrNotOrderOwner, got %v", err)
	}
}

func TestCreateSessionRequiresApprovedOrder(t *testing.T) {
	f := newFixture()

	order, err := f.orders.PlaceOrder(context.Background(), "idem-place", orderports.PlaceOrderInput{
		ProductID:  "prod_1",
		BuyerEmail: "buyer@example.com",
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	_, err = f.payments.CreateSession(context.Background(), order.OrderID, "buyer@example.com")
	if !errors.Is(err, domainerrors.ErrOrderNotApproved) {
		t.Fatalf("expected ErrOrderNotApproved, got %v", err)
	}
}

func TestCreateSessionUnknownOrder(t *testing.T) {
	f := newFixture()

	_, err := f.payments.CreateSession(context.Background(), "ord_missing", "buyer@example.com")
	if !errors.Is(err, domainerrors.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestResolveSessionMarksPaidOnce(t *testing.T) {
	f := newFixture()
	order := f.approvedOrder(t)

	session, err := f.payments.CreateSession(context.Background(), order.OrderID, "buyer@example.com")
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}

	// buyer has not finished checkout yet
	if _, err := f.payments.ResolveSession(context.Background(), order.OrderID, "buyer@example.com"); !errors.Is(err, domainerrors.ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete, got %v", err)
	}

	if err := f.provider.CompleteSession(session.SessionID); err != nil {
		t.Fatalf("complete session failed: %v", err)
	}

	resolved, err := f.payments.ResolveSession(context.Background(), order.OrderID, "buyer@example.com")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Status != ports.SessionStatusPaid {
		t.Fatalf("expected paid session, got %+v", resolved)
	}

	stored, err := f.orders.GetOrder(context.Background(), order.OrderID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if stored.PaymentStatus != orderports.PaymentStatusPaid {
		t.Fatalf("expected order paid, got %s", stored.PaymentStatus)
	}

	// the second resolve is rejected before any write
	if _, err := f.payments.ResolveSession(context.Background(), order.OrderID, "buyer@example.com"); !errors.Is(err, domainerrors.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestResolveSessionWithoutSession(t *testing.T) {
	f := newFixture()
	order := f.approvedOrder(t)

	_, err := f.payments.ResolveSession(context.Background(), order.OrderID, "buyer@example.com")
	if !errors.Is(err, domainerrors.ErrNoPaymentSession) {
		t.Fatalf("expected ErrNoPaymentSession, got %v", err)
	}
}
