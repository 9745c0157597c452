package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "threadmart/contexts/commerce-core/order-service/domain/errors"
	"threadmart/contexts/commerce-core/order-service/domain/lifecycle"
	"threadmart/contexts/commerce-core/order-service/ports"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Store keeps orders, tracking records and the outbox behind one lock, so
// every status change commits its dual write and its event together.
type Store struct {
	mu sync.RWMutex

	ordersByID    map[string]ports.Order
	trackingByOID map[string]ports.TrackingRecord
	outbox        []ports.OutboxRow
	idempotency   map[string]ports.IdempotencyRecord
	sequence      uint64
}

func NewStore() *Store {
	return &Store{
		ordersByID:    make(map[string]ports.Order),
		trackingByOID: make(map[string]ports.TrackingRecord),
		idempotency:   make(map[string]ports.IdempotencyRecord),
		sequence:      1,
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextID("order"), nil
}

func (s *Store) nextID(prefix string) string {
	id := fmt.Sprintf("%s_%06d", prefix, s.sequence)
	s.sequence++
	return id
}

func (s *Store) CreateOrder(_ context.Context, orderID string, input ports.PlaceOrderInput, product ports.ProductSummary, now time.Time) (ports.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// guard runs under the same lock as the insert
	for _, existing := range s.ordersByID {
		if existing.ProductID == input.ProductID &&
			strings.EqualFold(existing.BuyerEmail, input.BuyerEmail) &&
			!lifecycle.IsTerminal(existing.OrderStatus) {
			return ports.Order{}, domainerrors.ErrDuplicateActiveOrder
		}
	}

	order := ports.Order{
		OrderID:       orderID,
		ProductID:     product.ProductID,
		ProductTitle:  product.Title,
		BuyerEmail:    input.BuyerEmail,
		BuyerName:     input.BuyerName,
		PriceCents:    product.PriceCents,
		Currency:      product.Currency,
		OrderStatus:   lifecycle.StatusPending,
		PaymentStatus: ports.PaymentStatusUnpaid,
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}
	s.ordersByID[orderID] = order
	return order, nil
}

func (s *Store) GetOrder(_ context.Context, orderID string) (ports.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.ordersByID[orderID]
	if !ok {
		return ports.Order{}, domainerrors.ErrOrderNotFound
	}
	return order, nil
}

func (s *Store) ListOrders(_ context.Context, filter ports.OrderFilter) ([]ports.Order, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	excluded := make(map[lifecycle.Status]bool, len(filter.ExcludeStatuses))
	for _, status := range filter.ExcludeStatuses {
		excluded[status] = true
	}

	matched := make([]ports.Order, 0, len(s.ordersByID))
	for _, order := range s.ordersByID {
		if filter.BuyerEmail != "" && !strings.EqualFold(order.BuyerEmail, filter.BuyerEmail) {
			continue
		}
		if filter.Status != "" && order.OrderStatus != filter.Status {
			continue
		}
		if excluded[order.OrderStatus] {
			continue
		}
		matched = append(matched, order)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].OrderID < matched[j].OrderID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := filter.Skip
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *Store) ApproveOrder(_ context.Context, orderID string, now time.Time) (ports.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.ordersByID[orderID]
	if !ok {
		return ports.Order{}, domainerrors.ErrOrderNotFound
	}
	if !lifecycle.CanTransition(order.OrderStatus, lifecycle.StatusApproved) {
		return ports.Order{}, domainerrors.ErrInvalidTransition
	}

	now = now.UTC()
	from := order.OrderStatus
	approvedAt := now
	order.OrderStatus = lifecycle.StatusApproved
	order.ApprovedAt = &approvedAt
	order.UpdatedAt = now
	s.ordersByID[orderID] = order

	s.trackingByOID[orderID] = ports.TrackingRecord{
		OrderID: orderID,
		Entries: []ports.TrackingEntry{{
			Status:    lifecycle.StatusPicked,
			Location:  ports.SeedLocation,
			UpdatedAt: now,
		}},
		UpdatedAt: now,
	}
	s.appendOutbox(order, from, lifecycle.StatusApproved, now)
	return order, nil
}

func (s *Store) RejectOrder(_ context.Context, orderID string, now time.Time) (ports.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.ordersByID[orderID]
	if !ok {
		return ports.Order{}, domainerrors.ErrOrderNotFound
	}
	if !lifecycle.CanTransition(order.OrderStatus, lifecycle.StatusRejected) {
		return ports.Order{}, domainerrors.ErrInvalidTransition
	}

	now = now.UTC()
	from := order.OrderStatus
	order.OrderStatus = lifecycle.StatusRejected
	order.UpdatedAt = now
	s.ordersByID[orderID] = order
	s.appendOutbox(order, from, lifecycle.StatusRejected, now)
	return order, nil
}

func (s *Store) AppendTracking(_ context.Context, orderID string, entry ports.TrackingEntry, now time.Time) (ports.Order, ports.TrackingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.ordersByID[orderID]
	if !ok {
		return ports.Order{}, ports.TrackingRecord{}, domainerrors.ErrOrderNotFound
	}
	if !lifecycle.CanTransition(order.OrderStatus, entry.Status) {
		return ports.Order{}, ports.TrackingRecord{}, domainerrors.ErrInvalidTransition
	}

	now = now.UTC()
	entry.UpdatedAt = now

	record, ok := s.trackingByOID[orderID]
	if !ok {
		record = ports.TrackingRecord{OrderID: orderID}
	}
	record.Entries = append(record.Entries, entry)
	record.UpdatedAt = now
	s.trackingByOID[orderID] = record

	from := order.OrderStatus
	order.OrderStatus = entry.Status
	order.UpdatedAt = now
	s.ordersByID[orderID] = order
	s.appendOutbox(order, from, entry.Status, now)
	return order, record, nil
}

func (s *Store) GetTracking(_ context.Context, orderID string) (ports.TrackingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.trackingByOID[orderID]
	if !ok {
		return ports.TrackingRecord{}, domainerrors.ErrTrackingNotFound
	}
	return record, nil
}

func (s *Store) AttachPaymentSession(_ context.Context, orderID string, sessionID string, now time.Time) (ports.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.ordersByID[orderID]
	if !ok {
		return ports.Order{}, domainerrors.ErrOrderNotFound
	}
	order.PaymentSessionID = sessionID
	order.UpdatedAt = now.UTC()
	s.ordersByID[orderID] = order
	return order, nil
}

func (s *Store) MarkPaid(_ context.Context, orderID string, now time.Time) (ports.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.ordersByID[orderID]
	if !ok {
		return ports.Order{}, domainerrors.ErrOrderNotFound
	}
	if order.PaymentStatus == ports.PaymentStatusPaid {
		return ports.Order{}, domainerrors.ErrAlreadyProcessed
	}
	order.PaymentStatus = ports.PaymentStatusPaid
	order.UpdatedAt = now.UTC()
	s.ordersByID[orderID] = order
	return order, nil
}

// appendOutbox must be called with the write lock held.
func (s *Store) appendOutbox(order ports.Order, from lifecycle.Status, to lifecycle.Status, now time.Time) {
	payload, _ := json.Marshal(ports.OrderStatusChangedEvent{
		OrderID:    order.OrderID,
		ProductID:  order.ProductID,
		BuyerEmail: order.BuyerEmail,
		From:       from,
		To:         to,
		OccurredAt: now,
	})
	s.outbox = append(s.outbox, ports.OutboxRow{
		OutboxID:  s.nextID("outbox"),
		EventType: "order.status_changed",
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: now,
	})
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]ports.OutboxRow, 0, limit)
	for _, row := range s.outbox {
		if row.Status != outboxStatusPending {
			continue
		}
		rows = append(rows, row)
		if len(rows) >= limit {
			break
		}
	}
	return rows, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, row := range s.outbox {
		if row.OutboxID == outboxID {
			s.outbox[i].Status = outboxStatusPublished
			return nil
		}
	}
	return nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.idempotency[key]
	if !ok || now.After(record.ExpiresAt) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idempotency[record.Key] = record
	return nil
}
