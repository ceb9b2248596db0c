// Package storefront defines the entities and repository contracts for the
// Flash Tans shop: a product catalog, customers, and orders with their items.
package storefront

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// StatusPending is the status every order carries; no transition logic exists.
const StatusPending = "pending"

// DefaultImage is used when a product is created without an image reference.
const DefaultImage = "/images/placeholder.jpg"

// Product is a catalog entry.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Customer is immutable after creation.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is a placed order. The customer fields are merged in on reads and
// stay empty when the referenced customer no longer exists.
type Order struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`

	CustomerName    string `json:"customer_name,omitempty"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	CustomerAddress string `json:"customer_address,omitempty"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots the product name and price at order time; it is never
// re-read from the live product record.
type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// NewProduct carries the fields for creating a product. Image is optional.
type NewProduct struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Stock       int
	Image       string
}

// ProductUpdate overwrites the mutable product fields.
type ProductUpdate struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Stock       int
}

// NewCustomer carries the fields for creating a customer.
type NewCustomer struct {
	Name    string
	Email   string
	Address string
}

// NewOrder carries a validated order: the caller has checked stock
// sufficiency and computed the total from the item subtotals.
type NewOrder struct {
	CustomerID string
	Total      decimal.Decimal
	Items      []NewOrderItem
}

// NewOrderItem carries the snapshot fields for one order line.
type NewOrderItem struct {
	ProductID   string
	ProductName string
	Price       decimal.Decimal
	Quantity    int
	Subtotal    decimal.Decimal
}

// ProductRepository defines behavior for the product catalog.
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, np NewProduct) (Product, error)
	Update(ctx context.Context, id string, up ProductUpdate) (Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	DecrementStock(ctx context.Context, id string, quantity int) error
}

// CustomerRepository defines behavior for customers. Create returns only the
// generated id; the order workflow depends on that.
type CustomerRepository interface {
	Create(ctx context.Context, nc NewCustomer) (string, error)
	Get(ctx context.Context, id string) (Customer, error)
}

// OrderRepository defines behavior for orders and their items.
type OrderRepository interface {
	Create(ctx context.Context, no NewOrder) (Order, error)
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
}

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInsufficientStock indicates an order asked for more units than a product
// has in stock. Nothing is written when it is returned.
var ErrInsufficientStock = errors.New("insufficient stock")
