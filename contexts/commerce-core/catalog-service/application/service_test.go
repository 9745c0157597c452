package application

import (
	"context"
	"errors"
	"testing"

	"threadmart/contexts/commerce-core/catalog-service/adapters/memory"
	domainerrors "threadmart/contexts/commerce-core/catalog-service/domain/errors"
	"threadmart/contexts/commerce-core/catalog-service/ports"
)

func newTestService() (Service, *memory.Store) {
	store := memory.NewStore()
	return Service{Repo: store, Clock: store, IDGen: store}, store
}

func seedProduct(t *testing.T, service Service, title string, category string, seller string) ports.Product {
	t.Helper()
	product, err := service.CreateProduct(context.Background(), ports.ProductInput{
		Title:       title,
		Category:    category,
		PriceCents:  1999,
		SellerEmail: seller,
	})
	if err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func TestCreateProductDefaultsCurrency(t *testing.T) {
	service, _ := newTestService()

	product := seedProduct(t, service, "Linen Shirt", "apparel", "seller@example.com")
	if product.Currency != "USD" {
		t.Fatalf("expected USD default, got %s", product.Currency)
	}
}

func TestListProductsSubstringSearch(t *testing.T) {
	service, _ := newTestService()

	seedProduct(t, service, "Linen Shirt", "apparel", "seller@example.com")
	seedProduct(t, service, "Wool Scarf", "apparel", "seller@example.com")
	seedProduct(t, service, "Ceramic Mug", "kitchen", "seller@example.com")

	products, total, err := service.ListProducts(context.Background(), ports.ProductFilter{Search: "shirt"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].Title != "Linen Shirt" {
		t.Fatalf("unexpected search result: total=%d products=%+v", total, products)
	}

	products, total, err = service.ListProducts(context.Background(), ports.ProductFilter{Category: "apparel", Skip: 1, Limit: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(products) != 1 {
		t.Fatalf("expected 1 of 2 apparel, got %d of %d", len(products), total)
	}
}

func TestUpdateProductOwnershipCheck(t *testing.T) {
	service, _ := newTestService()

	product := seedProduct(t, service, "Linen Shirt", "apparel", "seller@example.com")

	_, err := service.UpdateProduct(context.Background(), product.ProductID, "other@example.com", false, ports.ProductInput{
		Title:       "Stolen Shirt",
		SellerEmail: "other@example.com",
	})
	if !errors.Is(err, domainerrors.ErrNotProductOwner) {
		t.Fatalf("expected ErrNotProductOwner, got %v", err)
	}

	updated, err := service.UpdateProduct(context.Background(), product.ProductID, "other@example.com", true, ports.ProductInput{
		Title:       "Relisted Shirt",
		SellerEmail: "other@example.com",
	})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if updated.SellerEmail != "seller@example.com" {
		t.Fatalf("seller must not change on update, got %s", updated.SellerEmail)
	}
}

func TestDeleteProductThenGet(t *testing.T) {
	service, _ := newTestService()

	product := seedProduct(t, service, "Linen Shirt", "apparel", "seller@example.com")
	if err := service.DeleteProduct(context.Background(), product.ProductID, "seller@example.com", false); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := service.GetProduct(context.Background(), product.ProductID); !errors.Is(err, domainerrors.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
