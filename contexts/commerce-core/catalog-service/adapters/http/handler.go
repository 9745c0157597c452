package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"threadmart/contexts/commerce-core/catalog-service/application"
	"threadmart/contexts/commerce-core/catalog-service/ports"
	httptransport "threadmart/contexts/commerce-core/catalog-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateProductHandler(ctx context.Context, sellerEmail string, req httptransport.ProductRequest) (httptransport.ProductResponse, error) {
	product, err := h.Service.CreateProduct(ctx, toInput(req, sellerEmail))
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	resp := httptransport.ProductResponse{Status: "success"}
	resp.Data.Product = toProduct(product)
	return resp, nil
}

func (h Handler) GetProductHandler(ctx context.Context, productID string) (httptransport.ProductResponse, error) {
	product, err := h.Service.GetProduct(ctx, strings.TrimSpace(productID))
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	resp := httptransport.ProductResponse{Status: "success"}
	resp.Data.Product = toProduct(product)
	return resp, nil
}

func (h Handler) ListProductsHandler(ctx context.Context, filter ports.ProductFilter) (httptransport.ListProductsResponse, error) {
	products, total, err := h.Service.ListProducts(ctx, filter)
	if err != nil {
		return httptransport.ListProductsResponse{}, err
	}
	resp := httptransport.ListProductsResponse{Status: "success"}
	resp.Data.Total = total
	for _, product := range products {
		resp.Data.Products = append(resp.Data.Products, toProduct(product))
	}
	return resp, nil
}

func (h Handler) UpdateProductHandler(ctx context.Context, productID string, callerEmail string, callerIsAdmin bool, req httptransport.ProductRequest) (httptransport.ProductResponse, error) {
	product, err := h.Service.UpdateProduct(ctx, strings.TrimSpace(productID), callerEmail, callerIsAdmin, toInput(req, callerEmail))
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	resp := httptransport.ProductResponse{Status: "success"}
	resp.Data.Product = toProduct(product)
	return resp, nil
}

func (h Handler) DeleteProductHandler(ctx context.Context, productID string, callerEmail string, callerIsAdmin bool) (httptransport.DeleteProductResponse, error) {
	if err := h.Service.DeleteProduct(ctx, strings.TrimSpace(productID), callerEmail, callerIsAdmin); err != nil {
		return httptransport.DeleteProductResponse{}, err
	}
	resp := httptransport.DeleteProductResponse{Status: "success"}
	resp.Data.ProductID = strings.TrimSpace(productID)
	resp.Data.Deleted = true
	return resp, nil
}

func toInput(req httptransport.ProductRequest, sellerEmail string) ports.ProductInput {
	return ports.ProductInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		ImageURL:    req.ImageURL,
		SellerEmail: sellerEmail,
	}
}

func toProduct(product ports.Product) httptransport.Product {
	return httptransport.Product{
		ProductID:   product.ProductID,
		Title:       product.Title,
		Description: product.Description,
		Category:    product.Category,
		PriceCents:  product.PriceCents,
		Currency:    product.Currency,
		ImageURL:    product.ImageURL,
		SellerEmail: product.SellerEmail,
		CreatedAt:   product.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   product.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
