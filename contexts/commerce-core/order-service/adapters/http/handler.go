package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"threadmart/contexts/commerce-core/order-service/application"
	"threadmart/contexts/commerce-core/order-service/ports"
	httptransport "threadmart/contexts/commerce-core/order-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) PlaceOrderHandler(ctx context.Context, idempotencyKey string, buyerEmail string, buyerName string, req httptransport.PlaceOrderRequest) (httptransport.OrderResponse, error) {
	order, err := h.Service.PlaceOrder(ctx, idempotencyKey, ports.PlaceOrderInput{
		ProductID:  strings.TrimSpace(req.ProductID),
		BuyerEmail: buyerEmail,
		BuyerName:  buyerName,
	})
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	resp := httptransport.OrderResponse{Status: "success"}
	resp.Data.Order = toOrder(order)
	return resp, nil
}

func (h Handler) ListBuyerOrdersHandler(ctx context.Context, buyerEmail string, view string, status string, skip int64, limit int64) (httptransport.ListOrdersResponse, error) {
	orders, total, err := h.Service.ListBuyerOrders(ctx, buyerEmail, view, status, skip, limit)
	if err != nil {
		return httptransport.ListOrdersResponse{}, err
	}
	return toListResponse(orders, total), nil
}

func (h Handler) ListAllOrdersHandler(ctx context.Context, status string, skip int64, limit int64) (httptransport.ListOrdersResponse, error) {
	orders, total, err := h.Service.ListAllOrders(ctx, status, skip, limit)
	if err != nil {
		return httptransport.ListOrdersResponse{}, err
	}
	return toListResponse(orders, total), nil
}

func (h Handler) ApproveOrderHandler(ctx context.Context, idempotencyKey string, orderID string) (httptransport.OrderResponse, error) {
	order, err := h.Service.ApproveOrder(ctx, idempotencyKey, strings.TrimSpace(orderID))
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	resp := httptransport.OrderResponse{Status: "success"}
	resp.Data.Order = toOrder(order)
	return resp, nil
}

func (h Handler) RejectOrderHandler(ctx context.Context, idempotencyKey string, orderID string) (httptransport.OrderResponse, error) {
	order, err := h.Service.RejectOrder(ctx, idempotencyKey, strings.TrimSpace(orderID))
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	resp := httptransport.OrderResponse{Status: "success"}
	resp.Data.Order = toOrder(order)
	return resp, nil
}

func (h Handler) AppendTrackingHandler(ctx context.Context, idempotencyKey string, orderID string, req httptransport.AppendTrackingRequest) (httptransport.TrackingResponse, error) {
	order, record, err := h.Service.AppendTracking(ctx, idempotencyKey, strings.TrimSpace(orderID), req.Status, req.Location, req.Note)
	if err != nil {
		return httptransport.TrackingResponse{}, err
	}
	resp := httptransport.TrackingResponse{Status: "success"}
	resp.Data.Order = toOrder(order)
	resp.Data.OrderID = record.OrderID
	resp.Data.Entries = toEntries(record.Entries)
	return resp, nil
}

func (h Handler) GetTrackingHandler(ctx context.Context, orderID string) (httptransport.GetTrackingResponse, error) {
	record, err := h.Service.GetTracking(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return httptransport.GetTrackingResponse{}, err
	}
	resp := httptransport.GetTrackingResponse{Status: "success"}
	resp.Data.OrderID = record.OrderID
	resp.Data.Entries = toEntries(record.Entries)
	return resp, nil
}

func toListResponse(orders []ports.Order, total int64) httptransport.ListOrdersResponse {
	resp := httptransport.ListOrdersResponse{Status: "success"}
	resp.Data.Total = total
	for _, order := range orders {
		resp.Data.Orders = append(resp.Data.Orders, toOrder(order))
	}
	return resp
}

func toOrder(order ports.Order) httptransport.Order {
	out := httptransport.Order{
		OrderID:          order.OrderID,
		ProductID:        order.ProductID,
		ProductTitle:     order.ProductTitle,
		BuyerEmail:       order.BuyerEmail,
		BuyerName:        order.BuyerName,
		PriceCents:       order.PriceCents,
		Currency:         order.Currency,
		OrderStatus:      string(order.OrderStatus),
		PaymentStatus:    order.PaymentStatus,
		PaymentSessionID: order.PaymentSessionID,
		CreatedAt:        order.CreatedAt.UTC().Format(time.RFC3339),
	}
	if order.ApprovedAt != nil {
		out.ApprovedAt = order.ApprovedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func toEntries(entries []ports.TrackingEntry) []httptransport.TrackingEntry {
	out := make([]httptransport.TrackingEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, httptransport.TrackingEntry{
			Status:   string(entry.Status),
			Location: entry.Location,
			Note:     entry.Note,
			UpdateAt: entry.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
