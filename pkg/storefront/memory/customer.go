package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/almondkiruthu/flashtans-app/pkg/storefront"
)

// CustomerRepository implements storefront.CustomerRepository against a Store.
type CustomerRepository struct {
	store *Store
}

// NewCustomerRepository creates a customer repository around the given store.
func NewCustomerRepository(s *Store) *CustomerRepository {
	return &CustomerRepository{store: s}
}

// Create stores a new customer and returns only the generated id.
func (r *CustomerRepository) Create(ctx context.Context, nc storefront.NewCustomer) (string, error) {
	c := storefront.Customer{
		ID:        uuid.NewString(),
		Name:      nc.Name,
		Email:     nc.Email,
		Address:   nc.Address,
		CreatedAt: time.Now(),
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
	return c.ID, nil
}

// Get retrieves a customer by id.
func (r *CustomerRepository) Get(ctx context.Context, id string) (storefront.Customer, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return storefront.Customer{}, storefront.ErrNotFound
	}
	return c, nil
}
