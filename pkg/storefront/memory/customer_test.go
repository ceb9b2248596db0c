package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/almondkiruthu/flashtans-app/pkg/storefront"
)

func TestCustomerCreateReturnsID(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(NewStore())

	id, err := repo.Create(ctx, storefront.NewCustomer{
		Name:    "Ada",
		Email:   "ada@example.com",
		Address: "1 Engine St",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}

	c, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.Name != "Ada" || c.Email != "ada@example.com" || c.Address != "1 Engine St" {
		t.Fatalf("unexpected customer: %+v", c)
	}
	if c.CreatedAt.IsZero() {
		t.Fatal("expected a created_at timestamp")
	}
}

func TestCustomerGetMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository(NewStore())

	if _, err := repo.Get(ctx, "nope"); !errors.Is(err, storefront.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
