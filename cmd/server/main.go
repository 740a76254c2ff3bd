package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kendall-wood/blackbuy-backend/config"
	"github.com/kendall-wood/blackbuy-backend/internal/delivery/http"
	"github.com/kendall-wood/blackbuy-backend/internal/domain"
	"github.com/kendall-wood/blackbuy-backend/internal/infrastructure/cache"
	"github.com/kendall-wood/blackbuy-backend/internal/infrastructure/feedback"
	"github.com/kendall-wood/blackbuy-backend/internal/infrastructure/typesense"
	"github.com/kendall-wood/blackbuy-backend/internal/logger"
	"github.com/kendall-wood/blackbuy-backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if cfg == nil {
		// Unreadable config file or decode failure; fall back to defaults
		// so the error is at least logged properly.
		cfg = &config.Config{
			Server: config.ServerConfig{Port: "8080", Environment: "development"},
			Log:    config.LogConfig{Level: "info", Format: "console"},
		}
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	if err != nil {
		// Missing endpoints or keys are fatal in development; production
		// serves a visible not-configured state instead of crash-looping.
		if cfg.Server.Environment == "production" {
			log.Error("running degraded, configuration incomplete", zap.Error(err))
			router := http.SetupDegradedRouter(log)
			if err := router.Run(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil {
				log.Fatal("server exited", zap.Error(err))
			}
			return
		}
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	log.Info("starting blackbuy backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cacheType", cfg.Cache.Type),
	)

	var cacheRepo domain.CacheRepository
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatal("failed to create redis cache", zap.Error(err))
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			cancel()
			log.Fatal("redis unreachable", zap.Error(err))
		}
		cancel()
		defer redisCache.Close()
		cacheRepo = redisCache
	default:
		cacheRepo = cache.NewMemoryCache()
	}

	searchClient := typesense.NewClient(
		cfg.Typesense.Host,
		cfg.Typesense.APIKey,
		cfg.Typesense.Collection,
		log.Named("typesense"),
	)
	feedbackClient := feedback.NewClient(cfg.Backend.BaseURL, log.Named("feedback"))

	classifier := usecase.NewClassifier(log.Named("classifier"))
	scanService := usecase.NewScanService(searchClient, log.Named("scan"))
	catalogService := usecase.NewCatalogService(searchClient, cacheRepo, usecase.CatalogConfig{
		PageSize:  cfg.Catalog.PageSize,
		Freshness: cfg.Catalog.Freshness,
	}, log.Named("catalog"))

	handler := http.NewHandler(classifier, scanService, catalogService, searchClient, feedbackClient, log)
	router := http.SetupRouter(cfg, handler, log)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server listening", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
