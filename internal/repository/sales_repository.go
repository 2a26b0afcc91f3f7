// internal/repository/sales_repository.go
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/retailpulse/pos-insights/internal/domain"
)

type SalesRepository interface {
	GetSaleRecords(ctx context.Context, filter domain.SalesFilter) ([]domain.SaleRecord, error)
	GetSymbols(ctx context.Context) ([]string, error)
}

type salesRepository struct {
	db *sqlx.DB
}

func NewSalesRepository(db *sqlx.DB) SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) GetSaleRecords(ctx context.Context, filter domain.SalesFilter) ([]domain.SaleRecord, error) {
	query := `
        SELECT symbol, name, sold_at, updated_at, net_value, gross_value, quantity, source
        FROM sales
        WHERE 1=1
    `

	var args []interface{}
	var conditions []string

	if len(filter.Symbols) > 0 {
		conditions = append(conditions, "symbol IN (?)")
		args = append(args, filter.Symbols)
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "sold_at >= ?")
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "sold_at < ?")
		args = append(args, filter.To)
	}
	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, filter.Source)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sold_at"

	query, expanded, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error building sales query: %w", err)
	}
	query = r.db.Rebind(query)

	var records []domain.SaleRecord
	if err := r.db.SelectContext(ctx, &records, query, expanded...); err != nil {
		return nil, fmt.Errorf("error getting sale records: %w", err)
	}

	return records, nil
}

func (r *salesRepository) GetSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	query := `SELECT DISTINCT symbol FROM sales ORDER BY symbol`
	if err := r.db.SelectContext(ctx, &symbols, query); err != nil {
		return nil, fmt.Errorf("error getting symbols: %w", err)
	}
	return symbols, nil
}
