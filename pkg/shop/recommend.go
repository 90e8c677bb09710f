package shop

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/storefront/pkg/store"
	"go.uber.org/zap"
)

// RecommendationEngine ranks products by how often they were ordered
// together with a target product.
type RecommendationEngine struct {
	catalog store.Catalog
	orders  store.OrderStore
	cache   RecommendationCache
	logger  *zap.Logger
}

func NewRecommendationEngine(catalog store.Catalog, orders store.OrderStore, cache RecommendationCache, logger *zap.Logger) *RecommendationEngine {
	return &RecommendationEngine{
		catalog: catalog,
		orders:  orders,
		cache:   cache,
		logger:  logger,
	}
}

// Recommend returns product ids sorted by descending co-occurrence count
// with the target product; equal counts fall back to ascending id. A
// product that never shares an order with anything yields an empty list,
// not an error. An unknown product id fails with store.ErrProductNotFound.
func (e *RecommendationEngine) Recommend(ctx context.Context, productID int64) ([]int64, error) {
	product, err := e.catalog.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if ids, ok := e.cache.GetRecommendations(ctx, product.ID); ok {
			return ids, nil
		}
	}

	orders, err := e.orders.OrdersContaining(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching orders for product %d: %w", product.ID, err)
	}

	counts := make(map[int64]int)
	for _, order := range orders {
		for _, line := range order.Lines {
			// The target never recommends itself.
			if line.ProductID == product.ID {
				continue
			}
			counts[line.ProductID]++
		}
	}

	ranked := make([]int64, 0, len(counts))
	for id := range counts {
		ranked = append(ranked, id)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	e.logger.Debug("Recommendations computed",
		zap.Int64("product_id", product.ID),
		zap.Int("order_count", len(orders)),
		zap.Int("result_count", len(ranked)))

	if e.cache != nil {
		e.cache.SetRecommendations(ctx, product.ID, ranked)
	}

	return ranked, nil
}
