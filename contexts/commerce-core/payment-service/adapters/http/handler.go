package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"threadmart/contexts/commerce-core/payment-service/application"
	httptransport "threadmart/contexts/commerce-core/payment-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateSessionHandler(ctx context.Context, orderID string, callerEmail string) (httptransport.SessionResponse, error) {
	session, err := h.Service.CreateSession(ctx, strings.TrimSpace(orderID), callerEmail)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	resp := httptransport.SessionResponse{Status: "success"}
	resp.Data.OrderID = strings.TrimSpace(orderID)
	resp.Data.Session = httptransport.Session{
		SessionID:   session.SessionID,
		Status:      session.Status,
		RedirectURL: session.RedirectURL,
	}
	return resp, nil
}

func (h Handler) ResolveSessionHandler(ctx context.Context, orderID string, callerEmail string) (httptransport.ResolveResponse, error) {
	session, err := h.Service.ResolveSession(ctx, strings.TrimSpace(orderID), callerEmail)
	if err != nil {
		return httptransport.ResolveResponse{}, err
	}
	resp := httptransport.ResolveResponse{Status: "success"}
	resp.Data.OrderID = strings.TrimSpace(orderID)
	resp.Data.SessionID = session.SessionID
	resp.Data.PaymentStatus = "paid"
	return resp, nil
}
