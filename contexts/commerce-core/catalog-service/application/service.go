package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "threadmart/contexts/commerce-core/catalog-service/domain/errors"
	"threadmart/contexts/commerce-core/catalog-service/ports"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (s Service) CreateProduct(ctx context.Context, input ports.ProductInput) (ports.Product, error) {
	if err := validateInput(&input); err != nil {
		return ports.Product{}, err
	}

	productID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Product{}, err
	}

	product, err := s.Repo.CreateProduct(ctx, productID, input, s.now())
	if err != nil {
		return ports.Product{}, err
	}

	resolveLogger(s.Logger).Info("product created",
		"event", "product_created",
		"module", "commerce-core/catalog-service",
		"layer", "application",
		"product_id", product.ProductID,
		"seller", product.SellerEmail,
	)
	return product, nil
}

func (s Service) GetProduct(ctx context.Context, productID string) (ports.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetProduct(ctx, strings.TrimSpace(productID))
}

func (s Service) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]ports.Product, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	return s.Repo.ListProducts(ctx, filter)
}

// UpdateProduct replaces the mutable fields. callerEmail must match the
// product's seller unless the caller is an admin.
func (s Service) UpdateProduct(ctx context.Context, productID string, callerEmail string, callerIsAdmin bool, input ports.ProductInput) (ports.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}
	if err := validateInput(&input); err != nil {
		return ports.Product{}, err
	}

	current, err := s.Repo.GetProduct(ctx, strings.TrimSpace(productID))
	if err != nil {
		return ports.Product{}, err
	}
	if !callerIsAdmin && !strings.EqualFold(current.SellerEmail, callerEmail) {
		return ports.Product{}, domainerrors.ErrNotProductOwner
	}
	input.SellerEmail = current.SellerEmail

	return s.Repo.UpdateProduct(ctx, current.ProductID, input, s.now())
}

func (s Service) DeleteProduct(ctx context.Context, productID string, callerEmail string, callerIsAdmin bool) error {
	if strings.TrimSpace(productID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	current, err := s.Repo.GetProduct(ctx, strings.TrimSpace(productID))
	if err != nil {
		return err
	}
	if !callerIsAdmin && !strings.EqualFold(current.SellerEmail, callerEmail) {
		return domainerrors.ErrNotProductOwner
	}
	return s.Repo.DeleteProduct(ctx, current.ProductID)
}

func validateInput(input *ports.ProductInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	input.SellerEmail = strings.ToLower(strings.TrimSpace(input.SellerEmail))

	if input.Title == "" || input.SellerEmail == "" {
		return domainerrors.ErrInvalidRequest
	}
	if input.PriceCents < 0 {
		return domainerrors.ErrInvalidRequest
	}
	if input.Currency == "" {
		input.Currency = "USD"
	}
	return nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
