package order

import (
	"context"
	"errors"

	orderapplication "threadmart/contexts/commerce-core/order-service/application"
	ordererrors "threadmart/contexts/commerce-core/order-service/domain/errors"
	"threadmart/contexts/commerce-core/order-service/domain/lifecycle"
	orderports "threadmart/contexts/commerce-core/order-service/ports"
	domainerrors "threadmart/contexts/commerce-core/payment-service/domain/errors"
	"threadmart/contexts/commerce-core/payment-service/ports"
)

// Gateway adapts the order application service to the payment-side
// order boundary.
type Gateway struct {
	Orders orderapplication.Service
}

func (g Gateway) Order(ctx context.Context, orderID string) (ports.OrderView, error) {
	found, err := g.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return ports.OrderView{}, translate(err)
	}
	return ports.OrderView{
		OrderID:          found.OrderID,
		BuyerEmail:       found.BuyerEmail,
		ProductTitle:     found.ProductTitle,
		PriceCents:       found.PriceCents,
		Currency:         found.Currency,
		Approved:         found.ApprovedAt != nil && !lifecycle.IsTerminal(found.OrderStatus),
		Paid:             found.PaymentStatus == orderports.PaymentStatusPaid,
		PaymentSessionID: found.PaymentSessionID,
	}, nil
}

func (g Gateway) AttachSession(ctx context.Context, orderID string, sessionID string) error {
	if _, err := g.Orders.AttachPaymentSession(ctx, orderID, sessionID); err != nil {
		return translate(err)
	}
	return nil
}

func (g Gateway) MarkPaid(ctx context.Context, orderID string) error {
	if _, err := g.Orders.MarkPaid(ctx, orderID); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, ordererrors.ErrOrderNotFound):
		return domainerrors.ErrOrderNotFound
	case errors.Is(err, ordererrors.ErrAlreadyProcessed):
		return domainerrors.ErrAlreadyProcessed
	case errors.Is(err, ordererrors.ErrInvalidRequest):
		return domainerrors.ErrInvalidRequest
	default:
		return err
	}
}
