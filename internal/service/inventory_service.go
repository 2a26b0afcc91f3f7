package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/retailpulse/pos-insights/internal/cache"
	"github.com/retailpulse/pos-insights/internal/domain"
	"github.com/retailpulse/pos-insights/internal/metrics"
	"github.com/retailpulse/pos-insights/internal/repository"
	"github.com/retailpulse/pos-insights/internal/storage"
)

// InventoryService derives minimum-stock recommendations and the warehouse
// rotation report from stock snapshots plus sales history.
type InventoryService struct {
	stockRepo repository.StockRepository
	sales     *SalesService
	cache     cache.AnalyticsCache
	store     storage.ObjectStorage
	rotation  metrics.RotationPolicy
	now       func() time.Time
}

func NewInventoryService(stockRepo repository.StockRepository, sales *SalesService, cacheImpl cache.AnalyticsCache, store storage.ObjectStorage) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopAnalyticsCache()
	}
	return &InventoryService{
		stockRepo: stockRepo,
		sales:     sales,
		cache:     cacheImpl,
		store:     store,
		rotation:  metrics.DefaultRotationPolicy(),
		now:       time.Now,
	}
}

// GetMinStock recommends reorder points for the requested symbols (all
// stocked products when symbols is empty).
func (s *InventoryService) GetMinStock(ctx context.Context, symbols []string, policy metrics.MinStockPolicy) ([]domain.MinStockRecommendation, error) {
	snapshots, err := s.stockRepo.GetStockSnapshots(ctx, symbols)
	if err != nil {
		return nil, err
	}

	profiles, err := s.sales.GetSeasonalityAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	recs := make([]domain.MinStockRecommendation, 0, len(snapshots))
	for _, snapshot := range snapshots {
		profile, ok := profiles[snapshot.Symbol]
		if !ok {
			profile = domain.SeasonalityProfile{Symbol: snapshot.Symbol}
		}
		recs = append(recs, metrics.RecommendMinStock(profile, snapshot.CurrentStock, policy, now))
	}

	return recs, nil
}

// GetRotation classifies the whole warehouse into rotation categories.
func (s *InventoryService) GetRotation(ctx context.Context, symbols []string) (domain.RotationReport, error) {
	filter := domain.SalesFilter{Symbols: symbols}

	var report domain.RotationReport
	if hit, err := s.cache.GetJSON(ctx, "rotation", filter, &report); err != nil {
		log.Warn().Err(err).Msg("inventory: cache get rotation failed")
	} else if hit {
		return report, nil
	}

	snapshots, err := s.stockRepo.GetStockSnapshots(ctx, symbols)
	if err != nil {
		return domain.RotationReport{}, err
	}

	now := s.now()
	inputs := make([]metrics.RotationInput, 0, len(snapshots))
	for _, snapshot := range snapshots {
		inputs = append(inputs, metrics.RotationInputFromSnapshot(snapshot, now))
	}

	report = metrics.BuildRotationReport(inputs, s.rotation)

	if err := s.cache.SetJSON(ctx, "rotation", filter, report); err != nil {
		log.Warn().Err(err).Msg("inventory: cache set rotation failed")
	}

	return report, nil
}

// RotationPolicy exposes the active thresholds for the API.
func (s *InventoryService) RotationPolicy() metrics.RotationPolicy {
	return s.rotation
}

// ExportRotation renders the rotation report to CSV and uploads it,
// returning the object key.
func (s *InventoryService) ExportRotation(ctx context.Context, symbols []string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	report, err := s.GetRotation(ctx, symbols)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"category", "label", "product_count", "total_quantity", "total_value", "avg_days_no_movement", "avg_days_of_stock"})
	for _, cat := range report.Categories {
		_ = w.Write([]string{
			string(cat.Category),
			cat.Label,
			strconv.Itoa(cat.ProductCount),
			strconv.FormatFloat(cat.TotalQuantity, 'f', 2, 64),
			strconv.FormatFloat(cat.TotalValue, 'f', 2, 64),
			strconv.FormatFloat(cat.AvgDaysNoMove, 'f', 1, 64),
			strconv.FormatFloat(cat.AvgDaysOfStock, 'f', 1, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("rendering rotation csv: %w", err)
	}

	key := fmt.Sprintf("exports/rotation-%s.csv", s.now().Format("20060102-150405"))
	if err := s.store.UploadObject(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("uploading rotation export: %w", err)
	}

	log.Info().Str("key", key).Int("products", report.TotalProducts).Msg("rotation export uploaded")
	return key, nil
}
