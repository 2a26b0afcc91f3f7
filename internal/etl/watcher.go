package etl

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/retailpulse/pos-insights/internal/drive"
)

// Watcher periodically pulls new POS exports from Google Drive and feeds
// them to the Ingestor. It is the only component that drives ingestion on a
// schedule; the HTTP ingest endpoint triggers the same path on demand.
type Watcher struct {
	downloader *drive.Downloader
	ingestor   *Ingestor
	interval   time.Duration
	opts       drive.DownloadOptions
}

func NewWatcher(downloader *drive.Downloader, ingestor *Ingestor, interval time.Duration, opts drive.DownloadOptions) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Watcher{
		downloader: downloader,
		ingestor:   ingestor,
		interval:   interval,
		opts:       opts,
	}
}

// Run blocks until ctx is cancelled, running one sync immediately and then
// one per interval.
func (w *Watcher) Run(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Str("folder", w.opts.FolderID).Msg("etl: watcher started")

	if err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("etl: initial sync failed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("etl: watcher stopped")
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("etl: sync failed")
			}
		}
	}
}

// RunOnce downloads the watched folder and ingests everything found.
func (w *Watcher) RunOnce(ctx context.Context) error {
	if w.downloader != nil {
		paths, err := w.downloader.DownloadFolderCSV(ctx, w.opts)
		if err != nil {
			return err
		}
		log.Debug().Int("files", len(paths)).Msg("etl: downloaded exports")
	}
	return w.ingestor.IngestDir(ctx, w.opts.DownloadDir)
}
