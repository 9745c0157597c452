package mongoadapter

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainerrors "threadmart/contexts/commerce-core/catalog-service/domain/errors"
	"threadmart/contexts/commerce-core/catalog-service/ports"
)

const productsCollection = "products"

type productDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description,omitempty"`
	Category    string    `bson:"category,omitempty"`
	PriceCents  int64     `bson:"priceCents"`
	Currency    string    `bson:"currency"`
	ImageURL    string    `bson:"imageURL,omitempty"`
	SellerEmail string    `bson:"sellerEmail"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

type Repository struct {
	products *mongo.Collection
	logger   *slog.Logger
}

func NewRepository(db *mongo.Database, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		products: db.Collection(productsCollection),
		logger:   logger,
	}
}

func (r *Repository) CreateProduct(ctx context.Context, productID string, input ports.ProductInput, now time.Time) (ports.Product, error) {
	doc := productDocument{
		ID:          productID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		PriceCents:  input.PriceCents,
		Currency:    input.Currency,
		ImageURL:    input.ImageURL,
		SellerEmail: input.SellerEmail,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	if _, err := r.products.InsertOne(ctx, doc); err != nil {
		return ports.Product{}, err
	}
	return doc.toProduct(), nil
}

func (r *Repository) GetProduct(ctx context.Context, productID string) (ports.Product, error) {
	var doc productDocument
	err := r.products.FindOne(ctx, bson.M{"_id": productID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ports.Product{}, domainerrors.ErrProductNotFound
		}
		return ports.Product{}, err
	}
	return doc.toProduct(), nil
}

func (r *Repository) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]ports.Product, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(filter.Category) + "$", Options: "i"}
	}
	if filter.Search != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}

	total, err := r.products.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(filter.Skip).
		SetLimit(filter.Limit)
	cursor, err := r.products.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	items := make([]ports.Product, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toProduct())
	}
	return items, total, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, productID string, input ports.ProductInput, now time.Time) (ports.Product, error) {
	var doc productDocument
	err := r.products.FindOneAndUpdate(ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{
			"title":       input.Title,
			"description": input.Description,
			"category":    input.Category,
			"priceCents":  input.PriceCents,
			"currency":    input.Currency,
			"imageURL":    input.ImageURL,
			"updatedAt":   now.UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ports.Product{}, domainerrors.ErrProductNotFound
		}
		return ports.Product{}, err
	}
	return doc.toProduct(), nil
}

func (r *Repository) DeleteProduct(ctx context.Context, productID string) error {
	res, err := r.products.DeleteOne(ctx, bson.M{"_id": productID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainerrors.ErrProductNotFound
	}
	return nil
}

func (d productDocument) toProduct() ports.Product {
	return ports.Product{
		ProductID:   d.ID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		PriceCents:  d.PriceCents,
		Currency:    d.Currency,
		ImageURL:    d.ImageURL,
		SellerEmail: d.SellerEmail,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
