package application

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "threadmart/contexts/commerce-core/payment-service/domain/errors"
	"threadmart/contexts/commerce-core/payment-service/ports"
)

type Service struct {
	Orders   ports.OrderGateway
	Provider ports.Provider
	Logger   *slog.Logger
}

// CreateSession opens a checkout session for an approved, unpaid order
// owned by the caller and stores the session id on the order.
func (s Service) CreateSession(ctx context.Context, orderID string, callerEmail string) (ports.CheckoutSession, error) {
	orderID = strings.TrimSpace(orderID)
	callerEmail = strings.ToLower(strings.TrimSpace(callerEmail))
	if orderID == "" || callerEmail == "" {
		return ports.CheckoutSession{}, domainerrors.ErrInvalidRequest
	}

	order, err := s.guardedOrder(ctx, orderID, callerEmail)
	if err != nil {
		return ports.CheckoutSession{}, err
	}
	if order.Paid {
		return ports.CheckoutSession{}, domainerrors.ErrAlreadyProcessed
	}
	if !order.Approved {
		return ports.CheckoutSession{}, domainerrors.ErrOrderNotApproved
	}

	session, err := s.Provider.CreateCheckoutSession(ctx, ports.CheckoutInput{
		OrderID:     order.OrderID,
		BuyerEmail:  order.BuyerEmail,
		Description: order.ProductTitle,
		AmountCents: order.PriceCents,
		Currency:    order.Currency,
	})
	if err != nil {
		return ports.CheckoutSession{}, err
	}
	if err := s.Orders.AttachSession(ctx, order.OrderID, session.SessionID); err != nil {
		return ports.CheckoutSession{}, err
	}

	resolveLogger(s.Logger).Info("checkout session created",
		"event", "payment_session_created",
		"module", "commerce-core/payment-service",
		"layer", "application",
		"order_id", order.OrderID,
		"session_id", session.SessionID,
	)
	return session, nil
}

// ResolveSession reads the session back from the provider and marks the
// order paid at most once. A second resolve surfaces ErrAlreadyProcessed.
func (s Service) ResolveSession(ctx context.Context, orderID string, callerEmail string) (ports.CheckoutSession, error) {
	orderID = strings.TrimSpace(orderID)
	callerEmail = strings.ToLower(strings.TrimSpace(callerEmail))
	if orderID == "" || callerEmail == "" {
		return ports.CheckoutSession{}, domainerrors.ErrInvalidRequest
	}

	order, err := s.guardedOrder(ctx, orderID, callerEmail)
	if err != nil {
		return ports.CheckoutSession{}, err
	}
	if order.Paid {
		return ports.CheckoutSession{}, domainerrors.ErrAlreadyProcessed
	}
	if order.PaymentSessionID == "" {
		return ports.CheckoutSession{}, domainerrors.ErrNoPaymentSession
	}

	session, err := s.Provider.GetCheckoutSession(ctx, order.PaymentSessionID)
	if err != nil {
		return ports.CheckoutSession{}, err
	}
	if session.Status != ports.SessionStatusPaid {
		return ports.CheckoutSession{}, domainerrors.ErrPaymentIncomplete
	}

	if err := s.Orders.MarkPaid(ctx, order.OrderID); err != nil {
		return ports.CheckoutSession{}, err
	}
	resolveLogger(s.Logger).Info("order paid",
		"event", "payment_session_resolved",
		"module", "commerce-core/payment-service",
		"layer", "application",
		"order_id", order.OrderID,
		"session_id", session.SessionID,
	)
	return session, nil
}

func (s Service) guardedOrder(ctx context.Context, orderID string, callerEmail string) (ports.OrderView, error) {
	order, err := s.Orders.Order(ctx, orderID)
	if err != nil {
		return ports.OrderView{}, err
	}
	if order.BuyerEmail != callerEmail {
		return ports.OrderView{}, domainerrors.ErrNotOrderOwner
	}
	return order, nil
}
