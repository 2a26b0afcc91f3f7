package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/retailpulse/pos-insights/internal/cache"
	"github.com/retailpulse/pos-insights/internal/domain"
	"github.com/retailpulse/pos-insights/internal/metrics"
	"github.com/retailpulse/pos-insights/internal/repository"
)

// SalesService serves time-bucketed sales summaries and per-product
// seasonality profiles.
type SalesService struct {
	repo        repository.SalesRepository
	cache       cache.AnalyticsCache
	seasonality metrics.SeasonalityConfig
	now         func() time.Time
}

func NewSalesService(repo repository.SalesRepository, cacheImpl cache.AnalyticsCache) *SalesService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopAnalyticsCache()
	}
	return &SalesService{
		repo:        repo,
		cache:       cacheImpl,
		seasonality: metrics.DefaultSeasonalityConfig(),
		now:         time.Now,
	}
}

func (s *SalesService) GetSummary(ctx context.Context, filter domain.SalesFilter, g metrics.Granularity) (domain.SalesSummary, error) {
	report := "sales_summary:" + string(g)

	var summary domain.SalesSummary
	if hit, err := s.cache.GetJSON(ctx, report, filter, &summary); err != nil {
		log.Warn().Err(err).Msg("sales: cache get summary failed")
	} else if hit {
		return summary, nil
	}

	records, err := s.repo.GetSaleRecords(ctx, filter)
	if err != nil {
		return domain.SalesSummary{}, err
	}

	summary = metrics.Summarize(records, g)
	if summary.Buckets == nil {
		summary.Buckets = make([]domain.TimeBucket, 0)
	}

	if err := s.cache.SetJSON(ctx, report, filter, summary); err != nil {
		log.Warn().Err(err).Msg("sales: cache set summary failed")
	}

	return summary, nil
}

// GetSeasonality builds the profile from the trailing three years of sales
// so year-over-year trends have the years to compare against.
func (s *SalesService) GetSeasonality(ctx context.Context, symbol string) (domain.SeasonalityProfile, error) {
	now := s.now()
	filter := domain.SalesFilter{
		Symbols: []string{symbol},
		From:    now.AddDate(-3, 0, 0),
	}

	records, err := s.repo.GetSaleRecords(ctx, filter)
	if err != nil {
		return domain.SeasonalityProfile{}, fmt.Errorf("loading sales history for %s: %w", symbol, err)
	}

	bySymbol, _ := metrics.WeeklySalesBySymbol(records)
	return metrics.BuildProfile(symbol, bySymbol[symbol], now, s.seasonality), nil
}

// GetSeasonalityAll builds profiles for every product sold in the window.
func (s *SalesService) GetSeasonalityAll(ctx context.Context) (map[string]domain.SeasonalityProfile, error) {
	now := s.now()
	records, err := s.repo.GetSaleRecords(ctx, domain.SalesFilter{From: now.AddDate(-3, 0, 0)})
	if err != nil {
		return nil, fmt.Errorf("loading sales history: %w", err)
	}

	return metrics.BuildProfiles(records, now, s.seasonality), nil
}

func (s *SalesService) GetSymbols(ctx context.Context) ([]string, error) {
	return s.repo.GetSymbols(ctx)
}
