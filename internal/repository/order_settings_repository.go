package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/retailpulse/pos-insights/internal/domain"
)

// OrderSettingsRepository persists per-symbol purchasing overrides. The
// proposal calculator only consumes these; missing rows mean "use the
// defaults" and are not an error.
type OrderSettingsRepository interface {
	Get(ctx context.Context, symbol string) (*domain.OrderSettings, error)
	GetAll(ctx context.Context) (map[string]domain.OrderSettings, error)
	Upsert(ctx context.Context, settings domain.OrderSettings) error
}

type orderSettingsRepository struct {
	db *sqlx.DB
}

func NewOrderSettingsRepository(db *sqlx.DB) OrderSettingsRepository {
	return &orderSettingsRepository{db: db}
}

func (r *orderSettingsRepository) Get(ctx context.Context, symbol string) (*domain.OrderSettings, error) {
	query := r.db.Rebind(`
        SELECT symbol, delivery_time_days, order_frequency_days, optimal_batch_size, updated_at
        FROM order_settings
        WHERE symbol = ?
    `)

	var settings domain.OrderSettings
	err := r.db.GetContext(ctx, &settings, query, symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting order settings for %s: %w", symbol, err)
	}

	return &settings, nil
}

func (r *orderSettingsRepository) GetAll(ctx context.Context) (map[string]domain.OrderSettings, error) {
	query := `
        SELECT symbol, delivery_time_days, order_frequency_days, optimal_batch_size, updated_at
        FROM order_settings
    `

	var rows []domain.OrderSettings
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error getting order settings: %w", err)
	}

	out := make(map[string]domain.OrderSettings, len(rows))
	for _, row := range rows {
		out[row.Symbol] = row
	}
	return out, nil
}

func (r *orderSettingsRepository) Upsert(ctx context.Context, settings domain.OrderSettings) error {
	query := r.db.Rebind(`
        INSERT INTO order_settings (symbol, delivery_time_days, order_frequency_days, optimal_batch_size, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (symbol)
        DO UPDATE SET
            delivery_time_days = excluded.delivery_time_days,
            order_frequency_days = excluded.order_frequency_days,
            optimal_batch_size = excluded.optimal_batch_size,
            updated_at = excluded.updated_at
    `)

	_, err := r.db.ExecContext(ctx, query,
		settings.Symbol,
		settings.DeliveryTimeDays,
		settings.OrderFrequencyDays,
		settings.OptimalBatchSize,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("error upserting order settings for %s: %w", settings.Symbol, err)
	}

	return nil
}
