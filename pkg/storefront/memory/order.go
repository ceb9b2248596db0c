package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/almondkiruthu/flashtans-app/pkg/storefront"
)

// OrderRepository implements storefront.OrderRepository against a Store.
type OrderRepository struct {
	store *Store
}

// NewOrderRepository creates an order repository around the given store.
func NewOrderRepository(s *Store) *OrderRepository {
	return &OrderRepository{store: s}
}

// Create inserts the order, its items, and the stock decrements in one
// critical section; no other operation can observe a partial order. Stock
// sufficiency is re-checked under the lock: callers validate before building
// the order, but two orders for the same product can both pass that check
// before either reaches this point. On ErrInsufficientStock nothing is
// written.
func (r *OrderRepository) Create(ctx context.Context, no storefront.NewOrder) (storefront.Order, error) {
	s := r.store
	s.mu.Lock()

	for _, it := range no.Items {
		// A product that no longer exists is skipped here: the item keeps
		// its snapshot fields and the decrement below no-ops.
		if p, ok := s.products[it.ProductID]; ok && p.Stock < it.Quantity {
			s.mu.Unlock()
			return storefront.Order{}, fmt.Errorf("product %s: %w", it.ProductID, storefront.ErrInsufficientStock)
		}
	}

	o := storefront.Order{
		ID:         uuid.NewString(),
		CustomerID: no.CustomerID,
		Total:      no.Total,
		Status:     storefront.StatusPending,
		CreatedAt:  time.Now(),
	}
	s.orders[o.ID] = o

	for _, it := range no.Items {
		item := storefront.OrderItem{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		}
		s.orderItems[item.ID] = item

		if p, ok := s.products[it.ProductID]; ok {
			p.Stock -= it.Quantity
			s.products[it.ProductID] = p
		}
	}
	s.mu.Unlock()

	// Hydrate outside the critical section; Get takes the same lock.
	return r.Get(ctx, o.ID)
}

// Get returns the order with its items and, when the customer still exists,
// the customer's name, email, and address. A missing customer is tolerated;
// the fields simply stay empty.
func (r *OrderRepository) Get(ctx context.Context, id string) (storefront.Order, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return storefront.Order{}, storefront.ErrNotFound
	}
	if c, ok := s.customers[o.CustomerID]; ok {
		o.CustomerName = c.Name
		o.CustomerEmail = c.Email
		o.CustomerAddress = c.Address
	}
	for _, it := range s.orderItems {
		if it.OrderID == id {
			o.Items = append(o.Items, it)
		}
	}
	return o, nil
}

// List returns every order, newest first, with the customer's name and email
// merged in when the customer still exists.
func (r *OrderRepository) List(ctx context.Context) ([]storefront.Order, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]storefront.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if c, ok := s.customers[o.CustomerID]; ok {
			o.CustomerName = c.Name
			o.CustomerEmail = c.Email
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
