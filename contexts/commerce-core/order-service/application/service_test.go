package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"threadmart/contexts/commerce-core/order-service/adapters/memory"
	domainerrors "threadmart/contexts/commerce-core/order-service/domain/errors"
	"threadmart/contexts/commerce-core/order-service/domain/lifecycle"
	"threadmart/contexts/commerce-core/order-service/ports"
)

type stubCatalog struct {
	products map[string]ports.ProductSummary
}

func (c stubCatalog) ProductSummary(_ context.Context, productID string) (ports.ProductSummary, error) {
	product, ok := c.products[productID]
	if !ok {
		return ports.ProductSummary{}, domainerrors.ErrProductNotFound
	}
	return product, nil
}

func newTestService() (Service, *memory.Store) {
	store := memory.NewStore()
	catalog := stubCatalog{products: map[string]ports.ProductSummary{
		"prod_1": {ProductID: "prod_1", Title: "Linen Shirt", PriceCents: 1999, Currency: "USD"},
		"prod_2": {ProductID: "prod_2", Title: "Wool Scarf", PriceCents: 2999, Currency: "USD"},
	}}
	return Service{
		Repo:           store,
		Catalog:        catalog,
		Idempotency:    store,
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: 7 * 24 * time.Hour,
	}, store
}

func placeOrder(t *testing.T, service Service, key string, productID string) ports.Order {
	t.Helper()
	order, err := service.PlaceOrder(context.Background(), key, ports.PlaceOrderInput{
		ProductID:  productID,
		BuyerEmail: "buyer@example.com",
		BuyerName:  "Amina",
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	return order
}

func TestPlaceOrderStartsPendingUnpaid(t *testing.T) {
	service, _ := newTestService()

	order := placeOrder(t, service, "idem-1", "prod_1")
	if order.OrderStatus != lifecycle.StatusPending {
		t.Fatalf("expected pending, got %s", order.OrderStatus)
	}
	if order.PaymentStatus != ports.PaymentStatusUnpaid {
		t.Fatalf("expected unpaid, got %s", order.PaymentStatus)
	}
	if order.ProductTitle != "Linen Shirt" || order.PriceCents != 1999 {
		t.Fatalf("expected product snapshot on order, got %+v", order)
	}
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	service, _ := newTestService()

	_, err := service.PlaceOrder(context.Background(), "idem-1", ports.PlaceOrderInput{
		ProductID:  "prod_missing",
		BuyerEmail: "buyer@example.com",
	})
	if !errors.Is(err, domainerrors.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestDuplicateActiveOrderRejectedUntilTerminal(t *testing.T) {
	service, _ := newTestService()

	first := placeOrder(t, service, "idem-1", "prod_1")

	_, err := service.PlaceOrder(context.Background(), "idem-2", ports.PlaceOrderInput{
		ProductID:  "prod_1",
		BuyerEmail: "buyer@example.com",
	})
	if !errors.Is(err, domainerrors.ErrDuplicateActiveOrder) {
		t.Fatalf("expected ErrDuplicateActiveOrder, got %v", err)
	}

	// another product is fine
	placeOrder(t, service, "idem-3", "prod_2")

	// rejecting the first order frees the slot
	if _, err := service.RejectOrder(context.Background(), "idem-4", first.OrderID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	placeOrder(t, service, "idem-5", "prod_1")
}

func TestApproveSetsApprovedAtAndSeedsTracking(t *testing.T) {
	service, _ := newTestService()

	order := placeOrder(t, service, "idem-1", "prod_1")

	approved, err := service.ApproveOrder(context.Background(), "idem-2", order.OrderID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.OrderStatus != lifecycle.StatusApproved {
		t.Fatalf("expected approved, got %s", approved.OrderStatus)
	}
	if approved.ApprovedAt == nil {
		t.Fatalf("expected approvedAt to be set")
	}

	record, err := service.GetTracking(context.Background(), order.OrderID)
	if err != nil {
		t.Fatalf("get tracking failed: %v", err)
	}
	if len(record.Entries) != 1 {
		t.Fatalf("expected exactly one seeded entry, got %d", len(record.Entries))
	}
	if record.Entries[0].Status != lifecycle.StatusPicked || record.Entries[0].Location != ports.SeedLocation {
		t.Fatalf("unexpected seed entry: %+v", record.Entries[0])
	}
}

func TestApproveReplayWithSameKeyReturnsFirstResult(t *testing.T) {
	service, _ := newTestService()

	order := placeOrder(t, service, "idem-1", "prod_1")

	first, err := service.ApproveOrder(context.Background(), "idem-2", order.OrderID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	second, err := service.ApproveOrder(context.Background(), "idem-2", order.OrderID)
	if err != nil {
		t.Fatalf("approve replay failed: %v", err)
	}
	if first.OrderID != second.OrderID || second.OrderStatus != lifecycle.StatusApproved {
		t.Fatalf("expected replayed response, got %+v", second)
	}

	// a fresh key hits the state machine and fails
	if _, err := service.ApproveOrder(context.Background(), "idem-3", order.OrderID); !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestAppendTrackingMirrorsOrderStatus(t *testing.T) {
	service, _ := newTestService()

	order := placeOrder(t, service, "idem-1", "prod_1")
	if _, err := service.ApproveOrder(context.Background(), "idem-2", order.OrderID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	updated, record, err := service.AppendTracking(context.Background(), "idem-3", order.OrderID, "in_transit", "Dhaka Hub", "left warehouse")
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if updated.OrderStatus != lifecycle.StatusInTransit {
		t.Fatalf("expected in_transit mirrored on order, got %s", updated.OrderStatus)
	}
	if len(record.Entries) == 0 || record.Entries[len(record.Entries)-1].Location != "Dhaka Hub" {
		t.Fatalf("unexpected tracking record: %+v", record)
	}

	delivered, _, err := service.AppendTracking(context.Background(), "idem-4", order.OrderID, "delivered", "Front door", "")
	if err != nil {
		t.Fatalf("append delivered failed: %v", err)
	}
	if delivered.OrderStatus != lifecycle.StatusDelivered {
		t.Fatalf("expected delivered mirrored on order, got %s", delivered.OrderStatus)
	}

	// nothing leaves a terminal state
	if _, _, err := service.AppendTracking(context.Background(), "idem-5", order.OrderID, "in_transit", "Nowhere", ""); !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition after delivery, got %v", err)
	}
}

func TestAppendTrackingRejectsUnknownStatus(t *testing.T) {
	service, _ := newTestService()

	order := placeOrder(t, service, "idem-1", "prod_1")
	_, _, err := service.AppendTracking(context.Background(), "idem-2", order.OrderID, "teleported", "Moon", "")
	if !errors.Is(err, domainerrors.ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestAppendTrackingOnPendingOrderRejected(t *testing.T) {
	service, _ := newTestService()

	order := placeOrder(t, service, "idem-1", "prod_1")
	_, _, err := service.AppendTracking(context.Background(), "idem-2", order.OrderID, "in_transit", "Dhaka Hub", "")
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for unapproved order, got %v", err)
	}
}

func TestListBuyerOrdersApprovedView(t *testing.T) {
	service, _ := newTestService()

	first := placeOrder(t, service, "idem-1", "prod_1")
	second := placeOrder(t, service, "idem-2", "prod_2")

	if _, err := service.ApproveOrder(context.Background(), "idem-3", first.OrderID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	orders, total, err := service.ListBuyerOrders(context.Background(), "buyer@example.com", "approved", "", 0, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].OrderID != first.OrderID {
		t.Fatalf("expected only the approved order, got total=%d orders=%+v", total, orders)
	}

	// delivered orders drop out of the approved view
	if _, _, err := service.AppendTracking(context.Background(), "idem-4", first.OrderID, "in_transit", "Dhaka Hub", ""); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if _, _, err := service.AppendTracking(context.Background(), "idem-5", first.OrderID, "delivered", "Front door", ""); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	_, total, err = service.ListBuyerOrders(context.Background(), "buyer@example.com", "approved", "", 0, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected empty approved view, got %d", total)
	}

	// explicit status filter still sees everything
	orders, total, err = service.ListBuyerOrders(context.Background(), "buyer@example.com", "", "pending", 0, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || orders[0].OrderID != second.OrderID {
		t.Fatalf("expected the pending order, got total=%d orders=%+v", total, orders)
	}
}

func TestIdempotencyKeyRequired(t *testing.T) {
	service, _ := newTestService()

	_, err := service.PlaceOrder(context.Background(), "", ports.PlaceOrderInput{
		ProductID:  "prod_1",
		BuyerEmail: "buyer@example.com",
	})
	if !errors.Is(err, domainerrors.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected ErrIdempotencyKeyRequired, got %v", err)
	}
}

func TestIdempotencyKeyConflict(t *testing.T) {
	service, _ := newTestService()

	placeOrder(t, service, "idem-1", "prod_1")
	_, err := service.PlaceOrder(context.Background(), "idem-1", ports.PlaceOrderInput{
		ProductID:  "prod_2",
		BuyerEmail: "buyer@example.com",
	})
	if !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
}

func TestMarkPaidIsIdempotentGuarded(t *testing.T) {
	service, _ := newTestService()

	order := placeOrder(t, service, "idem-1", "prod_1")

	paid, err := service.MarkPaid(context.Background(), order.OrderID)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.PaymentStatus != ports.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", paid.PaymentStatus)
	}

	if _, err := service.MarkPaid(context.Background(), order.OrderID); !errors.Is(err, domainerrors.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestStatusChangeWritesOutboxRow(t *testing.T) {
	service, store := newTestService()

	order := placeOrder(t, service, "idem-1", "prod_1")
	if _, err := service.ApproveOrder(context.Background(), "idem-2", order.OrderID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	rows, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(rows) != 1 || rows[0].EventType != "order.status_changed" {
		t.Fatalf("expected one pending status event, got %+v", rows)
	}
}
