package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/storefront/pkg/config"
	"github.com/go-redis/redis/v8"
)

const defaultCacheTTL = 30 * time.Minute

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) ttl() time.Duration {
	if r.config.CacheTTL > 0 {
		return r.config.CacheTTL
	}
	return defaultCacheTTL
}

func recommendationKey(productID int64) string {
	return fmt.Sprintf("recommend:%d", productID)
}

// GetRecommendations implements shop.RecommendationCache. A miss and a
// cache failure look the same to the caller.
func (r *RedisRepository) GetRecommendations(ctx context.Context, productID int64) ([]int64, bool) {
	var ids []int64
	if err := r.GetJSON(ctx, recommendationKey(productID), &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (r *RedisRepository) SetRecommendations(ctx context.Context, productID int64, productIDs []int64) {
	if productIDs == nil {
		productIDs = []int64{}
	}
	_ = r.SetJSON(ctx, recommendationKey(productID), productIDs, r.ttl())
}

func (r *RedisRepository) InvalidateRecommendations(ctx context.Context, productIDs ...int64) {
	if len(productIDs) == 0 {
		return
	}
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = recommendationKey(id)
	}
	_ = r.Del(ctx, keys...)
}
