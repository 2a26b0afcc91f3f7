// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/retailpulse/pos-insights/internal/api"
	"github.com/retailpulse/pos-insights/internal/cache"
	"github.com/retailpulse/pos-insights/internal/config"
	"github.com/retailpulse/pos-insights/internal/repository"
	"github.com/retailpulse/pos-insights/internal/repository/store"
	"github.com/retailpulse/pos-insights/internal/service"
	"github.com/retailpulse/pos-insights/internal/storage"
	"github.com/retailpulse/pos-insights/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := store.Open(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	analyticsCache, err := cache.NewAnalyticsCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("report cache unavailable, falling back to no-op")
		analyticsCache = cache.NewNoopAnalyticsCache()
	}

	var objectStore storage.ObjectStorage
	if cfg.Storage.Enabled {
		objectStore, err = storage.NewMinioClient(cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to object storage")
		}
	}

	salesService := service.NewSalesService(repository.NewSalesRepository(db.DB), analyticsCache)
	stockRepo := repository.NewStockRepository(db.DB)
	services := &api.Services{
		SalesService:     salesService,
		InventoryService: service.NewInventoryService(stockRepo, salesService, analyticsCache, objectStore),
		ProposalService:  service.NewProposalService(stockRepo, repository.NewOrderSettingsRepository(db.DB), objectStore),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
