package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/almondkiruthu/flashtans-app/pkg/storefront"
)

// ProductRepository persists products in PostgreSQL.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a product repository over the given database.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, price, description, stock, image, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (storefront.Product, error) {
	var p storefront.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Stock, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// List returns every product, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]storefront.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	products := []storefront.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Get retrieves a product by id.
func (r *ProductRepository) Get(ctx context.Context, id string) (storefront.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return storefront.Product{}, storefront.ErrNotFound
	}
	if err != nil {
		return storefront.Product{}, fmt.Errorf("getting product %s: %w", id, err)
	}
	return p, nil
}

// Create inserts a new product and returns the stored record.
func (r *ProductRepository) Create(ctx context.Context, np storefront.NewProduct) (storefront.Product, error) {
	id := uuid.NewString()
	image := np.Image
	if image == "" {
		image = storefront.DefaultImage
	}
	now := time.Now()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, price, description, stock, image, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$7)`,
		id, np.Name, np.Price, np.Description, np.Stock, image, now,
	); err != nil {
		return storefront.Product{}, fmt.Errorf("inserting product: %w", err)
	}
	return r.Get(ctx, id)
}

// Update overwrites the mutable fields and refreshes updated_at.
func (r *ProductRepository) Update(ctx context.Context, id string, up storefront.ProductUpdate) (storefront.Product, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = $2, price = $3, description = $4, stock = $5, updated_at = now() WHERE id = $1`,
		id, up.Name, up.Price, up.Description, up.Stock,
	)
	if err != nil {
		return storefront.Product{}, fmt.Errorf("updating product %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storefront.Product{}, storefront.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a product and reports whether a row was deleted.
func (r *ProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting product %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DecrementStock subtracts quantity from the product's stock. A missing
// product affects zero rows and is not an error.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock = stock - $1 WHERE id = $2`, quantity, id,
	); err != nil {
		return fmt.Errorf("decrementing stock for %s: %w", id, err)
	}
	return nil
}
