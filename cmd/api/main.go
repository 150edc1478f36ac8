package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/markus-roe/fhwien-dashboard-sub000/internal/config"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/feed"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/handler"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/logger"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/repository/postgres"
	"github.com/markus-roe/fhwien-dashboard-sub000/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.ServiceEnvironment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting calendar feed service",
		zap.String("environment", cfg.ServiceEnvironment),
		zap.String("port", cfg.ServicePort))

	ctx := context.Background()

	// Initialize Postgres client
	pgClient, err := postgres.NewClient(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create Postgres client", zap.Error(err))
	}
	defer pgClient.Close()

	// Initialize repository
	repo := postgres.NewRepository(pgClient, log)

	// Initialize token authority; an empty secret is a startup fault,
	// the service must not come up without it.
	auth, err := token.NewAuthority(cfg.FeedSecret, cfg.FeedResolveMaxUsers)
	if err != nil {
		log.Fatal("Failed to create token authority", zap.Error(err))
	}

	// Initialize feed service
	feedService := feed.NewService(repo, auth, log)

	// Initialize handler
	h := handler.NewHandler(feedService, log)

	addr := fmt.Sprintf(":%s", cfg.ServicePort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
