package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	domainerrors "threadmart/contexts/commerce-core/order-service/domain/errors"
	"threadmart/contexts/commerce-core/order-service/domain/lifecycle"
	"threadmart/contexts/commerce-core/order-service/ports"
)

type Service struct {
	Repo           ports.Repository
	Catalog        ports.ProductCatalog
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
	IdempotencyTTL time.Duration
}

func (s Service) PlaceOrder(ctx context.Context, idempotencyKey string, input ports.PlaceOrderInput) (ports.Order, error) {
	var out ports.Order
	input.ProductID = strings.TrimSpace(input.ProductID)
	input.BuyerEmail = strings.ToLower(strings.TrimSpace(input.BuyerEmail))
	input.BuyerName = strings.TrimSpace(input.BuyerName)
	if input.ProductID == "" || input.BuyerEmail == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}

	requestHash := hashStrings("place_order", input.BuyerEmail, input.ProductID)
	err := s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			product, err := s.Catalog.ProductSummary(ctx, input.ProductID)
			if err != nil {
				return nil, err
			}
			orderID, err := s.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			order, err := s.Repo.CreateOrder(ctx, orderID, input, product, s.now())
			if err != nil {
				return nil, err
			}
			ResolveLogger(s.Logger).Info("order placed",
				"event", "order_placed",
				"module", "commerce-core/order-service",
				"layer", "application",
				"order_id", order.OrderID,
				"product_id", order.ProductID,
				"buyer", order.BuyerEmail,
			)
			return json.Marshal(order)
		},
	)
	return out, err
}

func (s Service) GetOrder(ctx context.Context, orderID string) (ports.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return ports.Order{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetOrder(ctx, strings.TrimSpace(orderID))
}

// ListBuyerOrders serves the buyer order views. The approved view covers
// orders that were approved and are still in flight.
func (s Service) ListBuyerOrders(ctx context.Context, buyerEmail string, view string, status string, skip int64, limit int64) ([]ports.Order, int64, error) {
	buyerEmail = strings.ToLower(strings.TrimSpace(buyerEmail))
	if buyerEmail == "" {
		return nil, 0, domainerrors.ErrInvalidRequest
	}

	filter := ports.OrderFilter{BuyerEmail: buyerEmail, Skip: skip, Limit: limit}
	switch strings.ToLower(strings.TrimSpace(view)) {
	case "", "all":
	case "approved":
		filter.ExcludeStatuses = []lifecycle.Status{
			lifecycle.StatusPending,
			lifecycle.StatusRejected,
			lifecycle.StatusDelivered,
		}
	default:
		return nil, 0, domainerrors.ErrInvalidRequest
	}
	if strings.TrimSpace(status) != "" {
		parsed, ok := lifecycle.Parse(status)
		if !ok {
			return nil, 0, domainerrors.ErrUnknownStatus
		}
		filter.Status = parsed
		filter.ExcludeStatuses = nil
	}
	return s.list(ctx, filter)
}

func (s Service) ListAllOrders(ctx context.Context, status string, skip int64, limit int64) ([]ports.Order, int64, error) {
	filter := ports.OrderFilter{Skip: skip, Limit: limit}
	if strings.TrimSpace(status) != "" {
		parsed, ok := lifecycle.Parse(status)
		if !ok {
			return nil, 0, domainerrors.ErrUnknownStatus
		}
		filter.Status = parsed
	}
	return s.list(ctx, filter)
}

func (s Service) list(ctx context.Context, filter ports.OrderFilter) ([]ports.Order, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	return s.Repo.ListOrders(ctx, filter)
}

func (s Service) ApproveOrder(ctx context.Context, idempotencyKey string, orderID string) (ports.Order, error) {
	var out ports.Order
	if strings.TrimSpace(orderID) == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}

	requestHash := hashStrings("approve_order", strings.TrimSpace(orderID))
	err := s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			order, err := s.Repo.ApproveOrder(ctx, strings.TrimSpace(orderID), s.now())
			if err != nil {
				return nil, err
			}
			ResolveLogger(s.Logger).Info("order approved",
				"event", "order_approved",
				"module", "commerce-core/order-service",
				"layer", "application",
				"order_id", order.OrderID,
			)
			return json.Marshal(order)
		},
	)
	return out, err
}

func (s Service) RejectOrder(ctx context.Context, idempotencyKey string, orderID string) (ports.Order, error) {
	var out ports.Order
	if strings.TrimSpace(orderID) == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}

	requestHash := hashStrings("reject_order", strings.TrimSpace(orderID))
	err := s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			order, err := s.Repo.RejectOrder(ctx, strings.TrimSpace(orderID), s.now())
			if err != nil {
				return nil, err
			}
			ResolveLogger(s.Logger).Info("order rejected",
				"event", "order_rejected",
				"module", "commerce-core/order-service",
				"layer", "application",
				"order_id", order.OrderID,
			)
			return json.Marshal(order)
		},
	)
	return out, err
}

type trackingUpdate struct {
	Order    ports.Order
	Tracking ports.TrackingRecord
}

func (s Service) AppendTracking(ctx context.Context, idempotencyKey string, orderID string, status string, location string, note string) (ports.Order, ports.TrackingRecord, error) {
	var out trackingUpdate
	orderID = strings.TrimSpace(orderID)
	location = strings.TrimSpace(location)
	note = strings.TrimSpace(note)
	if orderID == "" || location == "" {
		return ports.Order{}, ports.TrackingRecord{}, domainerrors.ErrInvalidRequest
	}
	parsed, ok := lifecycle.Parse(status)
	if !ok {
		return ports.Order{}, ports.TrackingRecord{}, domainerrors.ErrUnknownStatus
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return ports.Order{}, ports.TrackingRecord{}, err
	}

	requestHash := hashStrings("append_tracking", orderID, string(parsed), location, note)
	err := s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			order, record, err := s.Repo.AppendTracking(ctx, orderID, ports.TrackingEntry{
				Status:   parsed,
				Location: location,
				Note:     note,
			}, s.now())
			if err != nil {
				return nil, err
			}
			ResolveLogger(s.Logger).Info("tracking appended",
				"event", "order_tracking_appended",
				"module", "commerce-core/order-service",
				"layer", "application",
				"order_id", order.OrderID,
				"order_status", string(order.OrderStatus),
			)
			return json.Marshal(trackingUpdate{Order: order, Tracking: record})
		},
	)
	return out.Order, out.Tracking, err
}

func (s Service) GetTracking(ctx context.Context, orderID string) (ports.TrackingRecord, error) {
	if strings.TrimSpace(orderID) == "" {
		return ports.TrackingRecord{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetTracking(ctx, strings.TrimSpace(orderID))
}

// AttachPaymentSession and MarkPaid are the order-side half of the payment
// flow; the payment service calls them through its order gateway port.
func (s Service) AttachPaymentSession(ctx context.Context, orderID string, sessionID string) (ports.Order, error) {
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(sessionID) == "" {
		return ports.Order{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.AttachPaymentSession(ctx, strings.TrimSpace(orderID), strings.TrimSpace(sessionID), s.now())
}

func (s Service) MarkPaid(ctx context.Context, orderID string) (ports.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return ports.Order{}, domainerrors.ErrInvalidRequest
	}
	order, err := s.Repo.MarkPaid(ctx, strings.TrimSpace(orderID), s.now())
	if err != nil {
		return ports.Order{}, err
	}
	ResolveLogger(s.Logger).Info("order marked paid",
		"event", "order_marked_paid",
		"module", "commerce-core/order-service",
		"layer", "application",
		"order_id", order.OrderID,
	)
	return order, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) requireIdempotency(key string) error {
	if strings.TrimSpace(key) == "" {
		return domainerrors.ErrIdempotencyKeyRequired
	}
	return nil
}

func (s Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.Get(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.Payload)
	}

	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Payload:     payload,
		ExpiresAt:   now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}
	return decode(payload)
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}
