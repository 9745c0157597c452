package ports

import (
	"context"
	"time"

	"threadmart/contexts/commerce-core/order-service/domain/lifecycle"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

const SeedLocation = "Warehouse"

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Order struct {
	OrderID          string
	ProductID        string
	ProductTitle     string
	BuyerEmail       string
	BuyerName        string
	PriceCents       int64
	Currency         string
	OrderStatus      lifecycle.Status
	PaymentStatus    string
	PaymentSessionID string
	ApprovedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type PlaceOrderInput struct {
	ProductID  string
	BuyerEmail string
	BuyerName  string
}

// TrackingEntry is one append-only timeline row on a shipment record.
type TrackingEntry struct {
	Status    lifecycle.Status
	Location  string
	Note      string
	UpdatedAt time.Time
}

// TrackingRecord is one-to-one with an order, created lazily on the first
// tracking event.
type TrackingRecord struct {
	OrderID   string
	Entries   []TrackingEntry
	UpdatedAt time.Time
}

type OrderFilter struct {
	BuyerEmail string
	// Status narrows to one status; ExcludeStatuses is a $nin-style set.
	// At most one of the two is set.
	Status          lifecycle.Status
	ExcludeStatuses []lifecycle.Status
	Skip            int64
	Limit           int64
}

// ProductCatalog is the catalog boundary the order service reads from.
type ProductCatalog interface {
	ProductSummary(ctx context.Context, productID string) (ProductSummary, error)
}

type ProductSummary struct {
	ProductID  string
	Title      string
	PriceCents int64
	Currency   string
}

type OrderStatusChangedEvent struct {
	OrderID    string           `json:"order_id"`
	ProductID  string           `json:"product_id"`
	BuyerEmail string           `json:"buyer_email"`
	From       lifecycle.Status `json:"from"`
	To         lifecycle.Status `json:"to"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type OutboxRow struct {
	OutboxID  string
	EventType string
	Payload   []byte
	Status    string
	CreatedAt time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxRow, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, now time.Time) error
}

type EventPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, event OrderStatusChangedEvent) error
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

// Repository owns the orders and tracking collections. Status-changing
// operations are single calls so an adapter can commit the order update,
// the tracking write and the outbox row atomically.
type Repository interface {
	// CreateOrder enforces the one-active-order-per-product-per-buyer
	// guard inside the store and returns ErrDuplicateActiveOrder.
	CreateOrder(ctx context.Context, orderID string, input PlaceOrderInput, product ProductSummary, now time.Time) (Order, error)
	GetOrder(ctx context.Context, orderID string) (Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]Order, int64, error)

	// ApproveOrder moves pending -> approved, stamps approvedAt and seeds
	// the tracking record with a single picked/Warehouse entry.
	ApproveOrder(ctx context.Context, orderID string, now time.Time) (Order, error)
	// RejectOrder moves pending -> rejected.
	RejectOrder(ctx context.Context, orderID string, now time.Time) (Order, error)
	// AppendTracking appends a timeline entry (upserting the record) and
	// mirrors the entry status onto the order.
	AppendTracking(ctx context.Context, orderID string, entry TrackingEntry, now time.Time) (Order, TrackingRecord, error)
	GetTracking(ctx context.Context, orderID string) (TrackingRecord, error)

	// AttachPaymentSession stores the checkout session id on the order.
	AttachPaymentSession(ctx context.Context, orderID string, sessionID string, now time.Time) (Order, error)
	// MarkPaid flips paymentStatus exactly once; a second call returns
	// ErrAlreadyProcessed.
	MarkPaid(ctx context.Context, orderID string, now time.Time) (Order, error)
}
