package shop

import (
	"context"
	"testing"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCache records everything so tests can watch cache traffic.
type fakeCache struct {
	entries map[int64][]int64
	hits    int
}

func (f *fakeCache) GetRecommendations(ctx context.Context, productID int64) ([]int64, bool) {
	ids, ok := f.entries[productID]
	if ok {
		f.hits++
	}
	return ids, ok
}

func (f *fakeCache) SetRecommendations(ctx context.Context, productID int64, productIDs []int64) {
	f.entries[productID] = productIDs
}

func (f *fakeCache) InvalidateRecommendations(ctx context.Context, productIDs ...int64) {
	for _, id := range productIDs {
		delete(f.entries, id)
	}
}

// seedScenario builds the catalog {A, B, C} with orders {A,B}, {A,C},
// {A,B,C} and returns the three products.
func seedScenario(t *testing.T, s *store.MemoryStore) (a, b, c *models.Product) {
	t.Helper()
	ctx := context.Background()

	var err error
	a, err = s.CreateProduct(ctx, "alpha", "test")
	require.NoError(t, err)
	b, err = s.CreateProduct(ctx, "beta", "test")
	require.NoError(t, err)
	c, err = s.CreateProduct(ctx, "gamma", "test")
	require.NoError(t, err)

	for _, lines := range [][]store.LineItem{
		{{ProductID: a.ID, Quantity: 1}, {ProductID: b.ID, Quantity: 2}},
		{{ProductID: a.ID, Quantity: 1}, {ProductID: c.ID, Quantity: 1}},
		{{ProductID: a.ID, Quantity: 1}, {ProductID: b.ID, Quantity: 1}, {ProductID: c.ID, Quantity: 1}},
	} {
		_, err := s.CreateOrder(ctx, lines)
		require.NoError(t, err)
	}
	return a, b, c
}

func TestRecommend_RanksByCoOccurrence(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	a, b, c := seedScenario(t, s)
	engine := NewRecommendationEngine(s, s, nil, zap.NewNop())

	// B and C each share two orders with A; ties fall back to id order.
	got, err := engine.Recommend(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{b.ID, c.ID}, got)

	// A shares two orders with B, C only one: strict count ordering.
	got, err = engine.Recommend(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, c.ID}, got)
}

func TestRecommend_ExcludesTarget(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	a, b, c := seedScenario(t, s)
	engine := NewRecommendationEngine(s, s, nil, zap.NewNop())

	for _, p := range []*models.Product{a, b, c} {
		got, err := engine.Recommend(ctx, p.ID)
		require.NoError(t, err)
		assert.NotContains(t, got, p.ID)
	}
}

func TestRecommend_UnknownProduct(t *testing.T) {
	s := store.NewMemoryStore()
	engine := NewRecommendationEngine(s, s, nil, zap.NewNop())

	_, err := engine.Recommend(context.Background(), 404)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestRecommend_NoCoOccurrence(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	engine := NewRecommendationEngine(s, s, nil, zap.NewNop())

	lonely, err := s.CreateProduct(ctx, "curtains", "decor")
	require.NoError(t, err)

	// No orders at all.
	got, err := engine.Recommend(ctx, lonely.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Sole occupant of its only order.
	_, err = s.CreateOrder(ctx, []store.LineItem{{ProductID: lonely.ID, Quantity: 1}})
	require.NoError(t, err)

	got, err = engine.Recommend(ctx, lonely.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecommend_UsesCache(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	a, b, c := seedScenario(t, s)
	cache := &fakeCache{entries: make(map[int64][]int64)}
	engine := NewRecommendationEngine(s, s, cache, zap.NewNop())

	first, err := engine.Recommend(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, cache.hits)

	second, err := engine.Recommend(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first, second)
	assert.Equal(t, []int64{a.ID, c.ID}, second)
}
