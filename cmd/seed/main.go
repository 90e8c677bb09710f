package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/seed"
	"github.com/example/storefront/pkg/store"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "random seed for order generation")
	orderCount := flag.Int("orders", seed.DefaultOrderCount, "number of demo orders to place")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	st, err := store.NewGormStore(&cfg.MySQL)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}

	ctx := context.Background()

	created, err := seed.Products(ctx, st)
	if err != nil {
		logger.Fatal("Failed to seed products", zap.Error(err))
	}
	logger.Info("Products seeded", zap.Int("created", created))

	rng := rand.New(rand.NewSource(*seedValue))
	placed, err := seed.Orders(ctx, rng, st, st, *orderCount)
	if err != nil {
		logger.Fatal("Failed to seed orders", zap.Error(err))
	}
	logger.Info("Orders seeded",
		zap.Int("placed", placed),
		zap.Int64("seed", *seedValue))
}
