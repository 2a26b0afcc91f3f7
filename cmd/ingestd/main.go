// cmd/ingestd/main.go
//
// ingestd pulls POS export CSVs out of Google Drive on a schedule, loads them
// into the analytics database, and exposes a small HTTP surface for browsing
// the watched folder and triggering ingest on demand.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/retailpulse/pos-insights/internal/cache"
	"github.com/retailpulse/pos-insights/internal/config"
	"github.com/retailpulse/pos-insights/internal/drive"
	"github.com/retailpulse/pos-insights/internal/etl"
	"github.com/retailpulse/pos-insights/internal/repository"
	"github.com/retailpulse/pos-insights/internal/repository/store"
	"github.com/retailpulse/pos-insights/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

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

	ingestor := etl.NewIngestor(repository.NewIngestRepository(db), analyticsCache)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driveService, err := drive.NewService(ctx, loadDriveCredentials(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize drive service")
	}

	watcher := etl.NewWatcher(
		drive.NewDownloader(driveService),
		ingestor,
		time.Duration(cfg.ETL.IntervalSeconds)*time.Second,
		drive.DownloadOptions{
			FolderID:    cfg.ETL.DriveFolderID,
			DownloadDir: cfg.ETL.DownloadDir,
		},
	)
	go watcher.Run(ctx)

	r := mux.NewRouter()
	drive.NewHandler(driveService, ingestor).RegisterRoutes(r)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	port := os.Getenv("INGESTD_PORT")
	if port == "" {
		port = "8081"
	}

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		log.Info().Str("port", port).Msg("starting ingestd")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start ingestd")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down ingestd...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("ingestd forced to shutdown")
	}
}

// loadDriveCredentials prefers the inline env var and falls back to the
// credentials file path from config.
func loadDriveCredentials(cfg *config.Config) string {
	if creds := os.Getenv("GOOGLE_DRIVE_CREDENTIALS_JSON"); creds != "" {
		return creds
	}
	if cfg.ETL.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.ETL.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.ETL.CredentialsFile).Msg("failed to read drive credentials")
		}
		return string(data)
	}
	log.Fatal().Msg("drive credentials not configured")
	return ""
}
