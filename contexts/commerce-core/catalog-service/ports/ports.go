package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Product struct {
	ProductID   string
	Title       string
	Description string
	Category    string
	PriceCents  int64
	Currency    string
	ImageURL    string
	SellerEmail string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProductInput struct {
	Title       string
	Description string
	Category    string
	PriceCents  int64
	Currency    string
	ImageURL    string
	SellerEmail string
}

type ProductFilter struct {
	// Search is matched as a case-insensitive substring of the title.
	Search   string
	Category string
	Skip     int64
	Limit    int64
}

type Repository interface {
	CreateProduct(ctx context.Context, productID string, input ProductInput, now time.Time) (Product, error)
	GetProduct(ctx context.Context, productID string) (Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	UpdateProduct(ctx context.Context, productID string, input ProductInput, now time.Time) (Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}
