package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "threadmart/contexts/commerce-core/catalog-service/domain/errors"
	"threadmart/contexts/commerce-core/catalog-service/ports"
)

type Store struct {
	mu sync.RWMutex

	productsByID map[string]ports.Product
	sequence     uint64
}

func NewStore() *Store {
	return &Store{
		productsByID: make(map[string]ports.Product),
		sequence:     1,
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("prod_%06d", s.sequence)
	s.sequence++
	return id, nil
}

func (s *Store) CreateProduct(_ context.Context, productID string, input ports.ProductInput, now time.Time) (ports.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := ports.Product{
		ProductID:   productID,
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
	s.productsByID[productID] = product
	return product, nil
}

func (s *Store) GetProduct(_ context.Context, productID string) (ports.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.productsByID[productID]
	if !ok {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	return product, nil
}

func (s *Store) ListProducts(_ context.Context, filter ports.ProductFilter) ([]ports.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]ports.Product, 0, len(s.productsByID))
	for _, product := range s.productsByID {
		if filter.Category != "" && !strings.EqualFold(product.Category, filter.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(product.Title), search) {
			continue
		}
		matched = append(matched, product)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ProductID < matched[j].ProductID
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

func (s *Store) UpdateProduct(_ context.Context, productID string, input ports.ProductInput, now time.Time) (ports.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.productsByID[productID]
	if !ok {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	product.Title = input.Title
	product.Description = input.Description
	product.Category = input.Category
	product.PriceCents = input.PriceCents
	product.Currency = input.Currency
	product.ImageURL = input.ImageURL
	product.UpdatedAt = now.UTC()
	s.productsByID[productID] = product
	return product, nil
}

func (s *Store) DeleteProduct(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.productsByID[productID]; !ok {
		return domainerrors.ErrProductNotFound
	}
	delete(s.productsByID, productID)
	return nil
}
