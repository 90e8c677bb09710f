package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/storefront/gateway"
	"github.com/example/storefront/pkg/audit"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/discovery"
	"github.com/example/storefront/pkg/repository"
	"github.com/example/storefront/pkg/shop"
	"github.com/example/storefront/pkg/store"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting storefront service",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	// MySQL-backed catalog and order store
	st, err := store.NewGormStore(&cfg.MySQL)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}

	// Redis recommendation cache
	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	defer redisRepo.Close()

	ctx := context.Background()
	if err := redisRepo.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}

	// Mongo audit sink behind an actor
	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoRepo.Close(ctx)

	auditor := audit.NewRecorder(mongoRepo, logger)
	defer auditor.Stop()

	// Core services
	placer := shop.NewOrderPlacer(st, st, redisRepo, logger)
	engine := shop.NewRecommendationEngine(st, st, redisRepo, logger)

	// Service discovery; the service still runs if etcd is down
	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd)
	if err != nil {
		logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		sd = nil
	}
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	if sd != nil {
		if err := sd.Register(ctx, instance); err != nil {
			logger.Warn("Failed to register service", zap.Error(err))
		} else {
			logger.Info("Service registered in etcd",
				zap.String("name", cfg.Server.Name),
				zap.String("address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)))
		}
	}

	// Gateway
	gw := gateway.NewGateway(cfg, logger, st, placer, engine, auditor)
	gw.SetupRoutes()

	// Start gateway in goroutine
	gwErr := make(chan error, 1)
	go func() {
		if err := gw.Start(); err != nil {
			gwErr <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-gwErr:
		logger.Fatal("Gateway error", zap.Error(err))
	}

	if sd != nil {
		if err := sd.Deregister(ctx, instance); err != nil {
			logger.Error("Failed to deregister service", zap.Error(err))
		}
		sd.Close()
	}

	logger.Info("Service stopped")
}
