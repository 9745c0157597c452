package mongoadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainerrors "threadmart/contexts/commerce-core/order-service/domain/errors"
	"threadmart/contexts/commerce-core/order-service/domain/lifecycle"
	"threadmart/contexts/commerce-core/order-service/ports"
)

const (
	ordersCollection      = "orders"
	trackingCollection    = "tracking"
	outboxCollection      = "order_outbox"
	idempotencyCollection = "order_idempotency"

	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type orderDocument struct {
	ID               string     `bson:"_id"`
	ProductID        string     `bson:"productId"`
	ProductTitle     string     `bson:"productTitle"`
	BuyerEmail       string     `bson:"buyerEmail"`
	BuyerName        string     `bson:"buyerName,omitempty"`
	PriceCents       int64      `bson:"priceCents"`
	Currency         string     `bson:"currency"`
	OrderStatus      string     `bson:"orderStatus"`
	PaymentStatus    string     `bson:"paymentStatus"`
	PaymentSessionID string     `bson:"paymentSessionId,omitempty"`
	Active           bool       `bson:"active"`
	ApprovedAt       *time.Time `bson:"approvedAt,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt"`
	UpdatedAt        time.Time  `bson:"updatedAt"`
}

type trackingEntryDocument struct {
	Status   string    `bson:"status"`
	Location string    `bson:"location"`
	Note     string    `bson:"note,omitempty"`
	UpdateAt time.Time `bson:"updateAt"`
}

type trackingDocument struct {
	OrderID   string                  `bson:"orderId"`
	Entries   []trackingEntryDocument `bson:"entries"`
	UpdatedAt time.Time               `bson:"updatedAt"`
}

type outboxDocument struct {
	ID          string     `bson:"_id"`
	EventType   string     `bson:"eventType"`
	Payload     []byte     `bson:"payload"`
	Status      string     `bson:"status"`
	CreatedAt   time.Time  `bson:"createdAt"`
	PublishedAt *time.Time `bson:"publishedAt,omitempty"`
}

type idempotencyDocument struct {
	Key         string    `bson:"_id"`
	RequestHash string    `bson:"requestHash"`
	Payload     []byte    `bson:"payload"`
	ExpiresAt   time.Time `bson:"expiresAt"`
}

// Repository commits each status change, its tracking write and its outbox
// row in one multi-document transaction.
type Repository struct {
	client      *mongo.Client
	orders      *mongo.Collection
	tracking    *mongo.Collection
	outbox      *mongo.Collection
	idempotency *mongo.Collection
	logger      *slog.Logger
}

func NewRepository(client *mongo.Client, db *mongo.Database, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		client:      client,
		orders:      db.Collection(ordersCollection),
		tracking:    db.Collection(trackingCollection),
		outbox:      db.Collection(outboxCollection),
		idempotency: db.Collection(idempotencyCollection),
		logger:      logger,
	}
}

// EnsureIndexes creates the partial unique index that enforces the
// one-active-order-per-product-per-buyer guard at the store. Call once at
// startup.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "productId", Value: 1}, {Key: "buyerEmail", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"active": true}),
	})
	if err != nil {
		return err
	}
	_, err = r.tracking.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "orderId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *Repository) CreateOrder(ctx context.Context, orderID string, input ports.PlaceOrderInput, product ports.ProductSummary, now time.Time) (ports.Order, error) {
	doc := orderDocument{
		ID:            orderID,
		ProductID:     product.ProductID,
		ProductTitle:  product.Title,
		BuyerEmail:    input.BuyerEmail,
		BuyerName:     input.BuyerName,
		PriceCents:    product.PriceCents,
		Currency:      product.Currency,
		OrderStatus:   string(lifecycle.StatusPending),
		PaymentStatus: ports.PaymentStatusUnpaid,
		Active:        true,
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}
	if _, err := r.orders.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ports.Order{}, domainerrors.ErrDuplicateActiveOrder
		}
		return ports.Order{}, err
	}
	return doc.toOrder(), nil
}

func (r *Repository) GetOrder(ctx context.Context, orderID string) (ports.Order, error) {
	var doc orderDocument
	err := r.orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ports.Order{}, domainerrors.ErrOrderNotFound
		}
		return ports.Order{}, err
	}
	return doc.toOrder(), nil
}

func (r *Repository) ListOrders(ctx context.Context, filter ports.OrderFilter) ([]ports.Order, int64, error) {
	query := bson.M{}
	if filter.BuyerEmail != "" {
		query["buyerEmail"] = filter.BuyerEmail
	}
	if filter.Status != "" {
		query["orderStatus"] = string(filter.Status)
	} else if len(filter.ExcludeStatuses) > 0 {
		excluded := make([]string, 0, len(filter.ExcludeStatuses))
		for _, status := range filter.ExcludeStatuses {
			excluded = append(excluded, string(status))
		}
		query["orderStatus"] = bson.M{"$nin": excluded}
	}

	total, err := r.orders.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Limit)
	cursor, err := r.orders.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	items := make([]ports.Order, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toOrder())
	}
	return items, total, nil
}

func (r *Repository) ApproveOrder(ctx context.Context, orderID string, now time.Time) (ports.Order, error) {
	now = now.UTC()
	result, err := r.inTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		doc, err := r.lockOrder(sc, orderID)
		if err != nil {
			return nil, err
		}
		from := lifecycle.Status(doc.OrderStatus)
		if !lifecycle.CanTransition(from, lifecycle.StatusApproved) {
			return nil, domainerrors.ErrInvalidTransition
		}

		doc.OrderStatus = string(lifecycle.StatusApproved)
		doc.ApprovedAt = &now
		doc.UpdatedAt = now
		if _, err := r.orders.UpdateOne(sc,
			bson.M{"_id": orderID},
			bson.M{"$set": bson.M{
				"orderStatus": doc.OrderStatus,
				"approvedAt":  now,
				"updatedAt":   now,
			}},
		); err != nil {
			return nil, err
		}

		seed := trackingDocument{
			OrderID: orderID,
			Entries: []trackingEntryDocument{{
				Status:   string(lifecycle.StatusPicked),
				Location: ports.SeedLocation,
				UpdateAt: now,
			}},
			UpdatedAt: now,
		}
		if _, err := r.tracking.ReplaceOne(sc,
			bson.M{"orderId": orderID},
			seed,
			options.Replace().SetUpsert(true),
		); err != nil {
			return nil, err
		}

		if err := r.writeOutbox(sc, doc, from, lifecycle.StatusApproved, now); err != nil {
			return nil, err
		}
		return doc.toOrder(), nil
	})
	if err != nil {
		return ports.Order{}, err
	}
	return result.(ports.Order), nil
}

func (r *Repository) RejectOrder(ctx context.Context, orderID string, now time.Time) (ports.Order, error) {
	now = now.UTC()
	result, err := r.inTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		doc, err := r.lockOrder(sc, orderID)
		if err != nil {
			return nil, err
		}
		from := lifecycle.Status(doc.OrderStatus)
		if !lifecycle.CanTransition(from, lifecycle.StatusRejected) {
			return nil, domainerrors.ErrInvalidTransition
		}

		doc.OrderStatus = string(lifecycle.StatusRejected)
		doc.Active = false
		doc.UpdatedAt = now
		if _, err := r.orders.UpdateOne(sc,
			bson.M{"_id": orderID},
			bson.M{"$set": bson.M{
				"orderStatus": doc.OrderStatus,
				"active":      false,
				"updatedAt":   now,
			}},
		); err != nil {
			return nil, err
		}

		if err := r.writeOutbox(sc, doc, from, lifecycle.StatusRejected, now); err != nil {
			return nil, err
		}
		return doc.toOrder(), nil
	})
	if err != nil {
		return ports.Order{}, err
	}
	return result.(ports.Order), nil
}

func (r *Repository) AppendTracking(ctx context.Context, orderID string, entry ports.TrackingEntry, now time.Time) (ports.Order, ports.TrackingRecord, error) {
	now = now.UTC()

	type appendResult struct {
		order    ports.Order
		tracking ports.TrackingRecord
	}

	result, err := r.inTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		doc, err := r.lockOrder(sc, orderID)
		if err != nil {
			return nil, err
		}
		from := lifecycle.Status(doc.OrderStatus)
		if !lifecycle.CanTransition(from, entry.Status) {
			return nil, domainerrors.ErrInvalidTransition
		}

		doc.OrderStatus = string(entry.Status)
		doc.Active = !lifecycle.IsTerminal(entry.Status)
		doc.UpdatedAt = now
		if _, err := r.orders.UpdateOne(sc,
			bson.M{"_id": orderID},
			bson.M{"$set": bson.M{
				"orderStatus": doc.OrderStatus,
				"active":      doc.Active,
				"updatedAt":   now,
			}},
		); err != nil {
			return nil, err
		}

		entryDoc := trackingEntryDocument{
			Status:   string(entry.Status),
			Location: entry.Location,
			Note:     entry.Note,
			UpdateAt: now,
		}
		if _, err := r.tracking.UpdateOne(sc,
			bson.M{"orderId": orderID},
			bson.M{
				"$push":        bson.M{"entries": entryDoc},
				"$set":         bson.M{"updatedAt": now},
				"$setOnInsert": bson.M{"orderId": orderID},
			},
			options.Update().SetUpsert(true),
		); err != nil {
			return nil, err
		}

		if err := r.writeOutbox(sc, doc, from, entry.Status, now); err != nil {
			return nil, err
		}

		var trackingDoc trackingDocument
		if err := r.tracking.FindOne(sc, bson.M{"orderId": orderID}).Decode(&trackingDoc); err != nil {
			return nil, err
		}
		return appendResult{order: doc.toOrder(), tracking: trackingDoc.toRecord()}, nil
	})
	if err != nil {
		return ports.Order{}, ports.TrackingRecord{}, err
	}
	out := result.(appendResult)
	return out.order, out.tracking, nil
}

func (r *Repository) GetTracking(ctx context.Context, orderID string) (ports.TrackingRecord, error) {
	var doc trackingDocument
	err := r.tracking.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ports.TrackingRecord{}, domainerrors.ErrTrackingNotFound
		}
		return ports.TrackingRecord{}, err
	}
	return doc.toRecord(), nil
}

func (r *Repository) AttachPaymentSession(ctx context.Context, orderID string, sessionID string, now time.Time) (ports.Order, error) {
	var doc orderDocument
	err := r.orders.FindOneAndUpdate(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"paymentSessionId": sessionID, "updatedAt": now.UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ports.Order{}, domainerrors.ErrOrderNotFound
		}
		return ports.Order{}, err
	}
	return doc.toOrder(), nil
}

func (r *Repository) MarkPaid(ctx context.Context, orderID string, now time.Time) (ports.Order, error) {
	var doc orderDocument
	err := r.orders.FindOneAndUpdate(ctx,
		bson.M{"_id": orderID, "paymentStatus": ports.PaymentStatusUnpaid},
		bson.M{"$set": bson.M{"paymentStatus": ports.PaymentStatusPaid, "updatedAt": now.UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toOrder(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return ports.Order{}, err
	}

	// Either the order does not exist or it is already paid.
	if _, lookupErr := r.GetOrder(ctx, orderID); lookupErr != nil {
		return ports.Order{}, lookupErr
	}
	return ports.Order{}, domainerrors.ErrAlreadyProcessed
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxRow, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := r.outbox.Find(ctx, bson.M{"status": outboxStatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []outboxDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	rows := make([]ports.OutboxRow, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, ports.OutboxRow{
			OutboxID:  doc.ID,
			EventType: doc.EventType,
			Payload:   doc.Payload,
			Status:    doc.Status,
			CreatedAt: doc.CreatedAt,
		})
	}
	return rows, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, now time.Time) error {
	now = now.UTC()
	_, err := r.outbox.UpdateOne(ctx,
		bson.M{"_id": outboxID},
		bson.M{"$set": bson.M{"status": outboxStatusPublished, "publishedAt": now}},
	)
	return err
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var doc idempotencyDocument
	err := r.idempotency.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}
	if now.After(doc.ExpiresAt) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return ports.IdempotencyRecord{
		Key:         doc.Key,
		RequestHash: doc.RequestHash,
		Payload:     doc.Payload,
		ExpiresAt:   doc.ExpiresAt,
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	_, err := r.idempotency.ReplaceOne(ctx,
		bson.M{"_id": record.Key},
		idempotencyDocument{
			Key:         record.Key,
			RequestHash: record.RequestHash,
			Payload:     record.Payload,
			ExpiresAt:   record.ExpiresAt,
		},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *Repository) inTransaction(ctx context.Context, fn func(mongo.SessionContext) (any, error)) (any, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)
	return session.WithTransaction(ctx, fn)
}

func (r *Repository) lockOrder(sc mongo.SessionContext, orderID string) (orderDocument, error) {
	var doc orderDocument
	err := r.orders.FindOne(sc, bson.M{"_id": orderID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return orderDocument{}, domainerrors.ErrOrderNotFound
		}
		return orderDocument{}, err
	}
	return doc, nil
}

func (r *Repository) writeOutbox(sc mongo.SessionContext, doc orderDocument, from lifecycle.Status, to lifecycle.Status, now time.Time) error {
	payload, err := json.Marshal(ports.OrderStatusChangedEvent{
		OrderID:    doc.ID,
		ProductID:  doc.ProductID,
		BuyerEmail: doc.BuyerEmail,
		From:       from,
		To:         to,
		OccurredAt: now,
	})
	if err != nil {
		return err
	}
	_, err = r.outbox.InsertOne(sc, outboxDocument{
		ID:        uuid.NewString(),
		EventType: "order.status_changed",
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: now,
	})
	return err
}

func (d orderDocument) toOrder() ports.Order {
	return ports.Order{
		OrderID:          d.ID,
		ProductID:        d.ProductID,
		ProductTitle:     d.ProductTitle,
		BuyerEmail:       d.BuyerEmail,
		BuyerName:        d.BuyerName,
		PriceCents:       d.PriceCents,
		Currency:         d.Currency,
		OrderStatus:      lifecycle.Status(d.OrderStatus),
		PaymentStatus:    d.PaymentStatus,
		PaymentSessionID: d.PaymentSessionID,
		ApprovedAt:       d.ApprovedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (d trackingDocument) toRecord() ports.TrackingRecord {
	entries := make([]ports.TrackingEntry, 0, len(d.Entries))
	for _, entry := range d.Entries {
		entries = append(entries, ports.TrackingEntry{
			Status:    lifecycle.Status(entry.Status),
			Location:  entry.Location,
			Note:      entry.Note,
			UpdatedAt: entry.UpdateAt,
		})
	}
	return ports.TrackingRecord{
		OrderID:   d.OrderID,
		Entries:   entries,
		UpdatedAt: d.UpdatedAt,
	}
}
