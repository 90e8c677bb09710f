// Package seed fills the catalog and order book with demo data. All
// randomness comes from the caller's *rand.Rand so runs are repeatable.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/example/storefront/pkg/store"
)

// DefaultOrderCount matches the amount of demo orders seeded per run.
const DefaultOrderCount = 20

type ProductSpec struct {
	Name     string
	Category string
}

func DefaultProducts() []ProductSpec {
	return []ProductSpec{
		{"computer", "electronics"},
		{"laptop", "electronics"},
		{"monitor", "electronics"},
		{"speakers", "audio"},
		{"headphones", "audio"},
		{"eggs", "food"},
		{"rice", "food"},
		{"bread", "food"},
		{"milk", "food"},
		{"wheat", "food"},
		{"oats", "food"},
		{"notebook", "stationery"},
		{"pen", "stationery"},
		{"pencil", "stationery"},
		{"shampoo", "bathing"},
		{"soap", "bathing"},
		{"conditioner", "bathing"},
		{"curtains", "decor"},
		{"chair", "decor"},
	}
}

// Products creates the default catalog. Products that already exist are
// skipped so reseeding is harmless. Returns how many were created.
func Products(ctx context.Context, catalog store.Catalog) (int, error) {
	created := 0
	for _, spec := range DefaultProducts() {
		_, err := catalog.CreateProduct(ctx, spec.Name, spec.Category)
		if errors.Is(err, store.ErrProductExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seeding product %q: %w", spec.Name, err)
		}
		created++
	}
	return created, nil
}

// Orders places count random orders, each with 1-10 distinct products
// and quantities of 1-10. The catalog must already hold products.
func Orders(ctx context.Context, rng *rand.Rand, catalog store.Catalog, orders store.OrderStore, count int) (int, error) {
	products, err := catalog.Products(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing products: %w", err)
	}
	if len(products) == 0 {
		return 0, errors.New("cannot seed orders from an empty catalog")
	}

	maxPick := len(products)
	if maxPick > 10 {
		maxPick = 10
	}

	placed := 0
	for i := 0; i < count; i++ {
		pick := 1 + rng.Intn(maxPick)
		perm := rng.Perm(len(products))

		lines := make([]store.LineItem, 0, pick)
		for _, idx := range perm[:pick] {
			lines = append(lines, store.LineItem{
				ProductID: products[idx].ID,
				Quantity:  1 + rng.Intn(10),
			})
		}

		if _, err := orders.CreateOrder(ctx, lines); err != nil {
			return placed, fmt.Errorf("seeding order %d: %w", i+1, err)
		}
		placed++
	}
	return placed, nil
}
