package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/retailpulse/pos-insights/internal/domain"
)

type StockRepository interface {
	GetStockSnapshots(ctx context.Context, symbols []string) ([]domain.StockSnapshot, error)
}

type stockRepository struct {
	db *sqlx.DB
}

func NewStockRepository(db *sqlx.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) GetStockSnapshots(ctx context.Context, symbols []string) ([]domain.StockSnapshot, error) {
	query := `
        SELECT symbol, name, current_stock, stock_value, unit_cost,
               last_movement_at, first_stocked_at, sales_90d, lifetime_sales
        FROM stock_snapshots
    `

	var args []interface{}
	if len(symbols) > 0 {
		query += " WHERE symbol IN (?)"
		args = append(args, symbols)
	}
	query += " ORDER BY symbol"

	query, expanded, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error building stock query: %w", err)
	}
	query = r.db.Rebind(query)

	var snapshots []domain.StockSnapshot
	if err := r.db.SelectContext(ctx, &snapshots, query, expanded...); err != nil {
		return nil, fmt.Errorf("error getting stock snapshots: %w", err)
	}

	return snapshots, nil
}
