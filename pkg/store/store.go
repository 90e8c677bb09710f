package store

import (
	"context"
	"errors"

	"github.com/example/storefront/pkg/models"
)

// Sentinel errors returned by Catalog and OrderStore implementations.
// Handlers map these onto HTTP status codes.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
	ErrOrderNotFound   = errors.New("order not found")
	// ErrDuplicateLine means an order tried to carry the same product twice.
	ErrDuplicateLine = errors.New("duplicate product in order")
	ErrEmptyOrder    = errors.New("order must contain at least one line")
)

// LineItem is a resolved (product, quantity) pair ready to be committed
// as one OrderLine.
type LineItem struct {
	ProductID int64
	Quantity  int
}

// Catalog gives read/create access to products.
type Catalog interface {
	// CreateProduct fails with ErrProductExists when the exact name is taken.
	CreateProduct(ctx context.Context, name, category string) (*models.Product, error)
	ProductByID(ctx context.Context, id int64) (*models.Product, error)
	// ProductByNameFragment returns the product whose name contains fragment
	// as a substring. When several match, the lowest id wins.
	ProductByNameFragment(ctx context.Context, fragment string) (*models.Product, error)
	Products(ctx context.Context) ([]models.Product, error)
}

// OrderStore persists order headers and their lines.
type OrderStore interface {
	// CreateOrder commits a new header plus one line per item as a single
	// atomic unit. Nothing is persisted on failure. A repeated product id
	// among the items fails the whole call with ErrDuplicateLine.
	CreateOrder(ctx context.Context, items []LineItem) (*models.Order, error)
	// OrdersContaining returns every order with at least one line for the
	// product, lines fully materialized.
	OrdersContaining(ctx context.Context, productID int64) ([]models.Order, error)
	CountOrders(ctx context.Context) (int64, error)
	CountLines(ctx context.Context) (int64, error)
}

// Store is the full persistence surface the service runs on.
type Store interface {
	Catalog
	OrderStore
}
