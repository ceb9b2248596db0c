package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/almondkiruthu/flashtans-app/pkg/storefront"
)

func mustCreateProduct(t *testing.T, repo *ProductRepository, name string, price float64, stock int) storefront.Product {
	t.Helper()
	p, err := repo.Create(context.Background(), storefront.NewProduct{
		Name:  name,
		Price: decimal.NewFromFloat(price),
		Stock: stock,
	})
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

// itemFor builds the snapshot line the checkout handler would build.
func itemFor(p storefront.Product, qty int) storefront.NewOrderItem {
	return storefront.NewOrderItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Quantity:    qty,
		Subtotal:    p.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func totalOf(items []storefront.NewOrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}

func TestOrderCreateTotalsAndStock(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	products := NewProductRepository(store)
	customers := NewCustomerRepository(store)
	orders := NewOrderRepository(store)

	a := mustCreateProduct(t, products, "A", 10.00, 50)
	b := mustCreateProduct(t, products, "B", 5.00, 10)

	custID, err := customers.Create(ctx, storefront.NewCustomer{Name: "Ada", Email: "ada@example.com", Address: "1 Engine St"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	items := []storefront.NewOrderItem{itemFor(a, 2), itemFor(b, 1)}
	o, err := orders.Create(ctx, storefront.NewOrder{
		CustomerID: custID,
		Total:      totalOf(items),
		Items:      items,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if !o.Total.Equal(decimal.NewFromFloat(25.00)) {
		t.Fatalf("expected total 25.00, got %s", o.Total)
	}
	if o.Status != storefront.StatusPending {
		t.Fatalf("expected status pending, got %q", o.Status)
	}
	if len(o.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(o.Items))
	}
	for _, it := range o.Items {
		switch it.ProductID {
		case a.ID:
			if it.Quantity != 2 || !it.Subtotal.Equal(decimal.NewFromFloat(20.00)) {
				t.Fatalf("bad line for A: %+v", it)
			}
		case b.ID:
			if it.Quantity != 1 || !it.Subtotal.Equal(decimal.NewFromFloat(5.00)) {
				t.Fatalf("bad line for B: %+v", it)
			}
		default:
			t.Fatalf("unexpected product in items: %s", it.ProductID)
		}
		if it.OrderID != o.ID {
			t.Fatalf("item %s does not reference order %s", it.ID, o.ID)
		}
	}
	if o.CustomerName != "Ada" || o.CustomerEmail != "ada@example.com" || o.CustomerAddress != "1 Engine St" {
		t.Fatalf("customer fields not merged: %+v", o)
	}

	gotA, err := products.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get A: %v", err)
	}
	if gotA.Stock != 48 {
		t.Fatalf("expected stock 48, got %d", gotA.Stock)
	}
}

func TestOrderCreateInsufficientStock(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	products := NewProductRepository(store)
	orders := NewOrderRepository(store)

	p := mustCreateProduct(t, products, "A", 10.00, 1)

	items := []storefront.NewOrderItem{itemFor(p, 2)}
	_, err := orders.Create(ctx, storefront.NewOrder{CustomerID: "c", Total: totalOf(items), Items: items})
	if !errors.Is(err, storefront.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Nothing may have been written.
	list, err := orders.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no orders, got %d", len(list))
	}
	got, err := products.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 1 {
		t.Fatalf("stock must be untouched, got %d", got.Stock)
	}
}

func TestOrderGetMissing(t *testing.T) {
	ctx := context.Background()
	orders := NewOrderRepository(NewStore())

	if _, err := orders.Get(ctx, "nope"); !errors.Is(err, storefront.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderSurvivesCustomerDeletion(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	products := NewProductRepository(store)
	customers := NewCustomerRepository(store)
	orders := NewOrderRepository(store)

	p := mustCreateProduct(t, products, "A", 10.00, 5)
	custID, err := customers.Create(ctx, storefront.NewCustomer{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	items := []storefront.NewOrderItem{itemFor(p, 1)}
	o, err := orders.Create(ctx, storefront.NewOrder{CustomerID: custID, Total: totalOf(items), Items: items})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	store.mu.Lock()
	delete(store.customers, custID)
	store.mu.Unlock()

	got, err := orders.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get after customer deletion: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.Items))
	}
	if got.CustomerName != "" || got.CustomerEmail != "" || got.CustomerAddress != "" {
		t.Fatalf("customer fields must be omitted: %+v", got)
	}
}

func TestOrderKeepsSnapshotOfDeletedProduct(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	products := NewProductRepository(store)
	orders := NewOrderRepository(store)

	p := mustCreateProduct(t, products, "A", 10.00, 5)
	items := []storefront.NewOrderItem{itemFor(p, 1)}

	if deleted, err := products.Delete(ctx, p.ID); err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}

	// The product is gone but the snapshot line still goes through; the
	// stock decrement silently no-ops.
	o, err := orders.Create(ctx, storefront.NewOrder{CustomerID: "c", Total: totalOf(items), Items: items})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if len(o.Items) != 1 || o.Items[0].ProductName != "A" {
		t.Fatalf("expected snapshot item for A, got %+v", o.Items)
	}
}

func TestConcurrentOrdersNeverPartial(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	products := NewProductRepository(store)
	orders := NewOrderRepository(store)

	a := mustCreateProduct(t, products, "A", 10.00, 100)
	b := mustCreateProduct(t, products, "B", 5.00, 100)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		p := a
		if i%2 == 1 {
			p = b
		}
		go func(p storefront.Product) {
			defer wg.Done()
			items := []storefront.NewOrderItem{itemFor(p, 1)}
			if _, err := orders.Create(ctx, storefront.NewOrder{CustomerID: "c", Total: totalOf(items), Items: items}); err != nil {
				t.Errorf("create order: %v", err)
			}
		}(p)
	}
	wg.Wait()

	list, err := orders.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != n {
		t.Fatalf("expected %d orders, got %d", n, len(list))
	}
	for _, o := range list {
		got, err := orders.Get(ctx, o.ID)
		if err != nil {
			t.Fatalf("get %s: %v", o.ID, err)
		}
		if len(got.Items) != 1 {
			t.Fatalf("order %s committed with %d items, want 1", o.ID, len(got.Items))
		}
	}

	gotA, _ := products.Get(ctx, a.ID)
	gotB, _ := products.Get(ctx, b.ID)
	if gotA.Stock+gotB.Stock != 200-n {
		t.Fatalf("stock accounting off: A=%d B=%d", gotA.Stock, gotB.Stock)
	}
}
