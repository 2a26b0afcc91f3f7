package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/retailpulse/pos-insights/internal/domain"
	"github.com/retailpulse/pos-insights/internal/metrics"
	"github.com/retailpulse/pos-insights/internal/repository"
	"github.com/retailpulse/pos-insights/internal/storage"
)

// ProposalService computes purchase proposals and owns the per-symbol
// order settings. Report exports go to object storage when configured.
type ProposalService struct {
	stockRepo    repository.StockRepository
	settingsRepo repository.OrderSettingsRepository
	store        storage.ObjectStorage
	policy       metrics.ProposalPolicy
	now          func() time.Time
}

func NewProposalService(stockRepo repository.StockRepository, settingsRepo repository.OrderSettingsRepository, store storage.ObjectStorage) *ProposalService {
	return &ProposalService{
		stockRepo:    stockRepo,
		settingsRepo: settingsRepo,
		store:        store,
		policy:       metrics.DefaultProposalPolicy(),
		now:          time.Now,
	}
}

func (s *ProposalService) GetProposal(ctx context.Context, symbols []string) (domain.PurchaseProposal, error) {
	snapshots, err := s.stockRepo.GetStockSnapshots(ctx, symbols)
	if err != nil {
		return domain.PurchaseProposal{}, err
	}

	overrides, err := s.settingsRepo.GetAll(ctx)
	if err != nil {
		return domain.PurchaseProposal{}, err
	}

	return metrics.BuildProposal(snapshots, overrides, s.policy), nil
}

// GetSettings returns the stored override for a symbol, or the defaults
// when none exists.
func (s *ProposalService) GetSettings(ctx context.Context, symbol string) (domain.OrderSettings, error) {
	settings, err := s.settingsRepo.Get(ctx, symbol)
	if err != nil {
		return domain.OrderSettings{}, err
	}
	if settings == nil {
		return domain.OrderSettings{
			Symbol:             symbol,
			DeliveryTimeDays:   s.policy.DeliveryTimeDays,
			OrderFrequencyDays: s.policy.OrderFrequencyDays,
		}, nil
	}
	return *settings, nil
}

func (s *ProposalService) SaveSettings(ctx context.Context, settings domain.OrderSettings) error {
	if settings.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if settings.DeliveryTimeDays < 0 || settings.OrderFrequencyDays < 0 || settings.OptimalBatchSize < 0 {
		return fmt.Errorf("order settings must not be negative")
	}
	return s.settingsRepo.Upsert(ctx, settings)
}

// ExportProposal renders the current proposal to CSV and uploads it,
// returning the object key.
func (s *ProposalService) ExportProposal(ctx context.Context, symbols []string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	proposal, err := s.GetProposal(ctx, symbols)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"symbol", "name", "daily_consumption", "minimum_stock", "current_stock", "quantity_to_order", "status"})
	for _, item := range proposal.Items {
		_ = w.Write([]string{
			item.Symbol,
			item.Name,
			strconv.FormatFloat(item.DailyConsumption, 'f', 2, 64),
			strconv.FormatFloat(item.MinimumStock, 'f', 2, 64),
			strconv.FormatFloat(item.CurrentStock, 'f', 2, 64),
			strconv.Itoa(item.QuantityToOrder),
			string(item.Status),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("rendering proposal csv: %w", err)
	}

	key := fmt.Sprintf("exports/proposal-%s.csv", s.now().Format("20060102-150405"))
	if err := s.store.UploadObject(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("uploading proposal export: %w", err)
	}

	log.Info().Str("key", key).Int("items", len(proposal.Items)).Msg("proposal export uploaded")
	return key, nil
}
