package ports

import (
	"context"
	"time"
)

const (
	SessionStatusOpen = "open"
	SessionStatusPaid = "paid"
)

type CheckoutInput struct {
	OrderID     string
	BuyerEmail  string
	Description string
	AmountCents int64
	Currency    string
}

type CheckoutSession struct {
	SessionID   string
	Status      string
	RedirectURL string
	CreatedAt   time.Time
}

// Provider is the outbound boundary to the checkout provider.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, input CheckoutInput) (CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (CheckoutSession, error)
}

// OrderView is the slice of an order the payment flow needs.
type OrderView struct {
	OrderID          string
	BuyerEmail       string
	ProductTitle     string
	PriceCents       int64
	Currency         string
	Approved         bool
	Paid             bool
	PaymentSessionID string
}

// OrderGateway is the order-service boundary. AttachSession and MarkPaid
// are the order-side writes of the payment flow.
type OrderGateway interface {
	Order(ctx context.Context, orderID string) (OrderView, error)
	AttachSession(ctx context.Context, orderID string, sessionID string) error
	MarkPaid(ctx context.Context, orderID string) error
}
