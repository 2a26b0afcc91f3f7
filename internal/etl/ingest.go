package etl

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/retailpulse/pos-insights/internal/cache"
	"github.com/retailpulse/pos-insights/internal/domain"
	"github.com/retailpulse/pos-insights/internal/repository"
)

// Ingestor loads POS export CSVs into the analytics database. Each file is
// classified by its header: a file with a quantity column is a sales export,
// a file with a current_stock column is a stock snapshot.
type Ingestor struct {
	repo  repository.IngestRepository
	cache cache.AnalyticsCache
}

func NewIngestor(repo repository.IngestRepository, cacheImpl cache.AnalyticsCache) *Ingestor {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopAnalyticsCache()
	}
	return &Ingestor{repo: repo, cache: cacheImpl}
}

// IngestDir loads every CSV in dir and invalidates cached reports once
// anything was imported. Files that fail to parse are logged and skipped so
// one bad export does not block the rest of the batch.
func (in *Ingestor) IngestDir(ctx context.Context, dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return fmt.Errorf("failed to scan ingest dir: %w", err)
	}

	imported := 0
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := in.IngestFile(ctx, path); err != nil {
			log.Error().Err(err).Str("file", path).Msg("etl: failed to ingest file")
			continue
		}
		imported++
	}

	if imported > 0 {
		if err := in.cache.InvalidateAll(ctx); err != nil {
			log.Warn().Err(err).Msg("etl: failed to invalidate report cache")
		}
		log.Info().Int("files", imported).Str("dir", dir).Msg("etl: ingest complete")
	}
	return nil
}

// IngestFile loads a single CSV export.
func (in *Ingestor) IngestFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return in.Ingest(ctx, f)
}

// Ingest parses a CSV stream and writes its rows.
func (in *Ingestor) Ingest(ctx context.Context, r io.Reader) error {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	switch {
	case hasColumns(colMap, "symbol", "quantity"):
		return in.ingestSales(ctx, reader, colMap)
	case hasColumns(colMap, "symbol", "current_stock"):
		return in.ingestSnapshots(ctx, reader, colMap)
	default:
		return fmt.Errorf("unrecognized CSV header: %v", header)
	}
}

func (in *Ingestor) ingestSales(ctx context.Context, reader *csv.Reader, colMap map[string]int) error {
	var records []domain.SaleRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		get := fieldGetter(row, colMap)
		source := domain.RecordSource(get("source"))
		if source == "" {
			source = domain.SourceTransaction
		}

		records = append(records, domain.SaleRecord{
			Symbol:     get("symbol"),
			Name:       get("name"),
			SoldAt:     parseTime(get("sold_at")),
			UpdatedAt:  parseTime(get("updated_at")),
			NetValue:   parseFloat(get("net_value")),
			GrossValue: parseFloat(get("gross_value")),
			Quantity:   parseFloat(get("quantity")),
			Source:     source,
		})
	}

	if err := in.repo.InsertSaleRecords(ctx, records); err != nil {
		return fmt.Errorf("failed to store sale records: %w", err)
	}
	return nil
}

func (in *Ingestor) ingestSnapshots(ctx context.Context, reader *csv.Reader, colMap map[string]int) error {
	var snapshots []domain.StockSnapshot
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		get := fieldGetter(row, colMap)
		snapshots = append(snapshots, domain.StockSnapshot{
			Symbol:         get("symbol"),
			Name:           get("name"),
			CurrentStock:   parseFloat(get("current_stock")),
			StockValue:     parseFloat(get("stock_value")),
			UnitCost:       parseFloat(get("unit_cost")),
			LastMovementAt: parseTime(get("last_movement_at")),
			FirstStockedAt: parseTime(get("first_stocked_at")),
			Sales90Days:    parseFloat(get("sales_90d")),
			LifetimeSales:  parseFloat(get("lifetime_sales")),
		})
	}

	if err := in.repo.UpsertStockSnapshots(ctx, snapshots); err != nil {
		return fmt.Errorf("failed to store stock snapshots: %w", err)
	}
	return nil
}

func hasColumns(colMap map[string]int, cols ...string) bool {
	for _, col := range cols {
		if _, ok := colMap[col]; !ok {
			return false
		}
	}
	return true
}

func fieldGetter(row []string, colMap map[string]int) func(string) string {
	return func(col string) string {
		if idx, ok := colMap[col]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
}

func parseFloat(val string) float64 {
	if val == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(val, 64)
	return f
}

// parseTime accepts the timestamp layouts seen in POS exports. Unparseable
// values come back as the zero time, which downstream code reads as missing.
func parseTime(val string) time.Time {
	if val == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, val); err == nil {
			return t
		}
	}
	return time.Time{}
}
