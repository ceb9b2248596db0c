package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/almondkiruthu/flashtans-app/pkg/storefront"
)

func TestProductRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())

	created, err := repo.Create(ctx, storefront.NewProduct{
		Name:        "X",
		Price:       decimal.NewFromFloat(9.99),
		Description: "d",
		Stock:       3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("expected generated timestamps")
	}
	if created.Image != storefront.DefaultImage {
		t.Fatalf("expected default image, got %q", created.Image)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "X" || got.Description != "d" || got.Stock != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.Price.Equal(decimal.NewFromFloat(9.99)) {
		t.Fatalf("expected price 9.99, got %s", got.Price)
	}
}

func TestProductGetMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())

	if _, err := repo.Get(ctx, "nope"); !errors.Is(err, storefront.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		p, err := repo.Create(ctx, storefront.NewProduct{Name: name, Price: decimal.NewFromInt(1), Stock: 1})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		ids = append(ids, p.ID)
		time.Sleep(2 * time.Millisecond)
	}

	if deleted, err := repo.Delete(ctx, ids[1]); err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 products, got %d", len(list))
	}
	if list[0].Name != "third" || list[1].Name != "first" {
		t.Fatalf("expected newest first, got [%s, %s]", list[0].Name, list[1].Name)
	}
}

func TestProductUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())

	p, err := repo.Create(ctx, storefront.NewProduct{Name: "X", Price: decimal.NewFromInt(5), Stock: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	updated, err := repo.Update(ctx, p.ID, storefront.ProductUpdate{
		Name:        "Y",
		Price:       decimal.NewFromFloat(7.50),
		Description: "new",
		Stock:       9,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Y" || updated.Stock != 9 || !updated.Price.Equal(decimal.NewFromFloat(7.50)) {
		t.Fatalf("update not applied: %+v", updated)
	}
	if !updated.UpdatedAt.After(p.UpdatedAt) {
		t.Fatal("expected updated_at to be refreshed")
	}
	if !updated.CreatedAt.Equal(p.CreatedAt) {
		t.Fatal("created_at must not change on update")
	}

	if _, err := repo.Update(ctx, "nope", storefront.ProductUpdate{}); !errors.Is(err, storefront.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())

	p, err := repo.Create(ctx, storefront.NewProduct{Name: "X", Price: decimal.NewFromInt(1), Stock: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := repo.Delete(ctx, p.ID)
	if err != nil || !deleted {
		t.Fatalf("first delete: deleted=%v err=%v", deleted, err)
	}
	deleted, err = repo.Delete(ctx, p.ID)
	if err != nil || deleted {
		t.Fatalf("second delete: deleted=%v err=%v", deleted, err)
	}
	if _, err := repo.Get(ctx, p.ID); !errors.Is(err, storefront.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDecrementStock(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(NewStore())

	p, err := repo.Create(ctx, storefront.NewProduct{Name: "X", Price: decimal.NewFromInt(1), Stock: 50})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.DecrementStock(ctx, p.ID, 2); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	got, err := repo.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 48 {
		t.Fatalf("expected stock 48, got %d", got.Stock)
	}

	// Missing products no-op.
	if err := repo.DecrementStock(ctx, "nope", 5); err != nil {
		t.Fatalf("decrement missing: %v", err)
	}
}

func TestSeedIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewProductRepository(store)

	store.Seed()
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 seeded products, got %d", len(list))
	}

	store.Seed()
	list, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("second seed must not add products, got %d", len(list))
	}
}

func TestSeedSkipsNonEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := NewProductRepository(store)

	if _, err := repo.Create(ctx, storefront.NewProduct{Name: "X", Price: decimal.NewFromInt(1), Stock: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	store.Seed()

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("seed must not touch a non-empty catalog, got %d products", len(list))
	}
}
