package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/almondkiruthu/flashtans-app/pkg/storefront"
)

// ProductRepository implements storefront.ProductRepository against a Store.
type ProductRepository struct {
	store *Store
}

// NewProductRepository creates a product repository around the given store.
func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{store: s}
}

// List returns every product, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]storefront.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]storefront.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get retrieves a product by id.
func (r *ProductRepository) Get(ctx context.Context, id string) (storefront.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return storefront.Product{}, storefront.ErrNotFound
	}
	return p, nil
}

// Create stores a new product with a fresh id and timestamps.
func (r *ProductRepository) Create(ctx context.Context, np storefront.NewProduct) (storefront.Product, error) {
	now := time.Now()
	p := storefront.Product{
		ID:          uuid.NewString(),
		Name:        np.Name,
		Price:       np.Price,
		Description: np.Description,
		Stock:       np.Stock,
		Image:       np.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Image == "" {
		p.Image = storefront.DefaultImage
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return p, nil
}

// Update overwrites the mutable fields and refreshes updated_at.
func (r *ProductRepository) Update(ctx context.Context, id string, up storefront.ProductUpdate) (storefront.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return storefront.Product{}, storefront.ErrNotFound
	}
	p.Name = up.Name
	p.Price = up.Price
	p.Description = up.Description
	p.Stock = up.Stock
	p.UpdatedAt = time.Now()
	s.products[id] = p
	return p, nil
}

// Delete removes a product if present and reports whether it did. A missing
// id is a no-op, not an error. Order items referencing the product keep their
// snapshot fields.
func (r *ProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return false, nil
	}
	delete(s.products, id)
	return true, nil
}

// DecrementStock subtracts quantity from the product's stock. A missing
// product is deliberately not an error: historical order items may reference
// products since removed from the catalog.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.products[id]; ok {
		p.Stock -= quantity
		s.products[id] = p
	}
	return nil
}
