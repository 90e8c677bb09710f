package shop

import (
	"context"
	"fmt"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/store"
	"go.uber.org/zap"
)

// RequestedItem is one entry of a placement request: a product name
// fragment and the quantity to order.
type RequestedItem struct {
	Name     string
	Quantity int
}

// RecommendationCache holds ranked recommendation results keyed by
// product id. Implementations must be best-effort: a cache failure is
// never a request failure. A nil cache is valid and disables caching.
type RecommendationCache interface {
	GetRecommendations(ctx context.Context, productID int64) ([]int64, bool)
	SetRecommendations(ctx context.Context, productID int64, productIDs []int64)
	InvalidateRecommendations(ctx context.Context, productIDs ...int64)
}

// OrderPlacer turns a list of requested items into one committed order,
// or nothing at all.
type OrderPlacer struct {
	catalog store.Catalog
	orders  store.OrderStore
	cache   RecommendationCache
	logger  *zap.Logger
}

func NewOrderPlacer(catalog store.Catalog, orders store.OrderStore, cache RecommendationCache, logger *zap.Logger) *OrderPlacer {
	return &OrderPlacer{
		catalog: catalog,
		orders:  orders,
		cache:   cache,
		logger:  logger,
	}
}

// Place resolves every requested fragment against the catalog and, only
// if all of them resolve, commits a new order with one line per item.
// Any unresolved fragment aborts the whole call before anything is
// written. Two fragments resolving to the same product fail the order
// with store.ErrDuplicateLine instead of merging quantities.
func (p *OrderPlacer) Place(ctx context.Context, items []RequestedItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, store.ErrEmptyOrder
	}

	lines := make([]store.LineItem, 0, len(items))
	for _, item := range items {
		product, err := p.catalog.ProductByNameFragment(ctx, item.Name)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", item.Name, err)
		}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		lines = append(lines, store.LineItem{ProductID: product.ID, Quantity: quantity})
	}

	order, err := p.orders.CreateOrder(ctx, lines)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int("line_count", len(order.Lines)))

	// A new order only shifts co-occurrence counts of the products it
	// contains, so only their cached recommendations go stale.
	if p.cache != nil {
		ids := make([]int64, len(lines))
		for i, line := range lines {
			ids[i] = line.ProductID
		}
		p.cache.InvalidateRecommendations(ctx, ids...)
	}

	return order, nil
}
