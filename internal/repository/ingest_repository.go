package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/retailpulse/pos-insights/internal/domain"
	"github.com/retailpulse/pos-insights/internal/repository/store"
)

// IngestRepository writes rows pulled from POS export files. All writes run
// inside a single transaction per file so a malformed export never leaves a
// half-loaded table behind.
type IngestRepository interface {
	InsertSaleRecords(ctx context.Context, records []domain.SaleRecord) error
	UpsertStockSnapshots(ctx context.Context, snapshots []domain.StockSnapshot) error
	UpsertOrderSettings(ctx context.Context, settings []domain.OrderSettings) error
}

type ingestRepository struct {
	db *store.DB
}

func NewIngestRepository(db *store.DB) IngestRepository {
	return &ingestRepository{db: db}
}

func (r *ingestRepository) InsertSaleRecords(ctx context.Context, records []domain.SaleRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := r.db.Rebind(`
        INSERT INTO sales (symbol, name, sold_at, updated_at, net_value, gross_value, quantity, source)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `)

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare sales insert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			// Zero times are stored as-is. ResolveDate treats the zero
			// time as "no timestamp", so no NULL juggling is needed.
			_, err := stmt.ExecContext(ctx,
				rec.Symbol, rec.Name, rec.SoldAt, rec.UpdatedAt,
				rec.NetValue, rec.GrossValue, rec.Quantity, rec.Source,
			)
			if err != nil {
				return fmt.Errorf("failed to insert sale for %s: %w", rec.Symbol, err)
			}
		}
		return nil
	})
}

func (r *ingestRepository) UpsertStockSnapshots(ctx context.Context, snapshots []domain.StockSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	query := r.db.Rebind(`
        INSERT INTO stock_snapshots (symbol, name, current_stock, stock_value, unit_cost,
                                     last_movement_at, first_stocked_at, sales_90d, lifetime_sales)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (symbol) DO UPDATE SET
            name = EXCLUDED.name,
            current_stock = EXCLUDED.current_stock,
            stock_value = EXCLUDED.stock_value,
            unit_cost = EXCLUDED.unit_cost,
            last_movement_at = EXCLUDED.last_movement_at,
            first_stocked_at = EXCLUDED.first_stocked_at,
            sales_90d = EXCLUDED.sales_90d,
            lifetime_sales = EXCLUDED.lifetime_sales
    `)

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare snapshot upsert: %w", err)
		}
		defer stmt.Close()

		for _, snap := range snapshots {
			_, err := stmt.ExecContext(ctx,
				snap.Symbol, snap.Name, snap.CurrentStock, snap.StockValue, snap.UnitCost,
				snap.LastMovementAt, snap.FirstStockedAt,
				snap.Sales90Days, snap.LifetimeSales,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert snapshot for %s: %w", snap.Symbol, err)
			}
		}
		return nil
	})
}

func (r *ingestRepository) UpsertOrderSettings(ctx context.Context, settings []domain.OrderSettings) error {
	if len(settings) == 0 {
		return nil
	}

	query := r.db.Rebind(`
        INSERT INTO order_settings (symbol, delivery_time_days, order_frequency_days, optimal_batch_size, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (symbol) DO UPDATE SET
            delivery_time_days = EXCLUDED.delivery_time_days,
            order_frequency_days = EXCLUDED.order_frequency_days,
            optimal_batch_size = EXCLUDED.optimal_batch_size,
            updated_at = EXCLUDED.updated_at
    `)

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare settings upsert: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, s := range settings {
			_, err := stmt.ExecContext(ctx,
				s.Symbol, s.DeliveryTimeDays, s.OrderFrequencyDays, s.OptimalBatchSize, now,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert settings for %s: %w", s.Symbol, err)
			}
		}
		return nil
	})
}
