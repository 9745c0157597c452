package catalog

import (
	"context"
	"errors"

	catalogapplication "threadmart/contexts/commerce-core/catalog-service/application"
	catalogerrors "threadmart/contexts/commerce-core/catalog-service/domain/errors"
	domainerrors "threadmart/contexts/commerce-core/order-service/domain/errors"
	"threadmart/contexts/commerce-core/order-service/ports"
)

// Gateway adapts the catalog module to the order service's read-only
// product boundary.
type Gateway struct {
	Catalog catalogapplication.Service
}

func (g Gateway) ProductSummary(ctx context.Context, productID string) (ports.ProductSummary, error) {
	product, err := g.Catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrProductNotFound) {
			return ports.ProductSummary{}, domainerrors.ErrProductNotFound
		}
		return ports.ProductSummary{}, err
	}
	return ports.ProductSummary{
		ProductID:  product.ProductID,
		Title:      product.Title,
		PriceCents: product.PriceCents,
		Currency:   product.Currency,
	}, nil
}
