// Package memory implements the storefront repositories over an in-memory
// store. State is lost on process restart, by design.
package memory

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/almondkiruthu/flashtans-app/pkg/storefront"
)

// Store holds the four collections. Every read and write on any collection
// must happen while holding mu; the lock is scoped to the whole store rather
// than per collection, so multi-collection operations such as order creation
// are serialized against everything else. Known throughput ceiling, accepted
// for the handful of concurrent requests this shop sees.
type Store struct {
	mu         sync.Mutex
	products   map[string]storefront.Product
	customers  map[string]storefront.Customer
	orders     map[string]storefront.Order
	orderItems map[string]storefront.OrderItem
}

// NewStore returns an empty store. Construct one at process start and pass it
// to the repository constructors.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]storefront.Product),
		customers:  make(map[string]storefront.Customer),
		orders:     make(map[string]storefront.Order),
		orderItems: make(map[string]storefront.OrderItem),
	}
}

// Seed populates the catalog with the sample products. It does nothing when
// the product collection is already non-empty, so calling it twice is safe.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.products) > 0 {
		return
	}

	now := time.Now()
	samples := []storefront.Product{
		{
			ID:          "1",
			Name:        "Buckets",
			Price:       decimal.NewFromFloat(29.99),
			Description: "Amazon S3 Buckets for scalable storage",
			Stock:       50,
		},
		{
			ID:          "2",
			Name:        "Load Balancers",
			Price:       decimal.NewFromFloat(34.99),
			Description: "Customizable load balancers for your applications",
			Stock:       30,
		},
		{
			ID:          "3",
			Name:        "Microsoft Azure",
			Price:       decimal.NewFromFloat(24.99),
			Description: "Cloud computing services for building, testing, and deploying applications",
			Stock:       25,
		},
	}
	for _, p := range samples {
		p.Image = storefront.DefaultImage
		p.CreatedAt = now
		p.UpdatedAt = now
		s.products[p.ID] = p
	}
}
