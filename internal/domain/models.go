// internal/domain/models.go
package domain

import "time"

// RecordSource marks whether a sale row came from true transaction data or
// from a stock snapshot table used as a stand-in for sales. The POS export
// conflates the two in some feeds, so the distinction stays explicit here
// instead of being silently flattened.
type RecordSource string

const (
	SourceTransaction RecordSource = "transaction"
	SourceSnapshot    RecordSource = "snapshot"
)

// SaleRecord represents one product sale line pulled from the POS database.
type SaleRecord struct {
	Symbol     string       `json:"symbol" db:"symbol"`
	Name       string       `json:"name" db:"name"`
	SoldAt     time.Time    `json:"sold_at" db:"sold_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`
	NetValue   float64      `json:"net_value" db:"net_value"`
	GrossValue float64      `json:"gross_value" db:"gross_value"`
	Quantity   float64      `json:"quantity" db:"quantity"`
	Source     RecordSource `json:"source" db:"source"`
}

// StockSnapshot represents the current inventory state of one product.
type StockSnapshot struct {
	Symbol         string    `json:"symbol" db:"symbol"`
	Name           string    `json:"name" db:"name"`
	CurrentStock   float64   `json:"current_stock" db:"current_stock"`
	StockValue     float64   `json:"stock_value" db:"stock_value"`
	UnitCost       float64   `json:"unit_cost" db:"unit_cost"`
	LastMovementAt time.Time `json:"last_movement_at" db:"last_movement_at"`
	FirstStockedAt time.Time `json:"first_stocked_at" db:"first_stocked_at"`
	Sales90Days    float64   `json:"sales_90d" db:"sales_90d"`
	LifetimeSales  float64   `json:"lifetime_sales" db:"lifetime_sales"`
}

// OrderSettings are per-symbol purchasing overrides persisted in the
// order_settings table. Missing rows fall back to the global defaults.
type OrderSettings struct {
	Symbol             string    `json:"symbol" db:"symbol"`
	DeliveryTimeDays   int       `json:"delivery_time_days" db:"delivery_time_days"`
	OrderFrequencyDays int       `json:"order_frequency_days" db:"order_frequency_days"`
	OptimalBatchSize   int       `json:"optimal_batch_size" db:"optimal_batch_size"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// SalesFilter restricts which sale records a query returns.
type SalesFilter struct {
	Symbols []string  `json:"symbols"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Source  string    `json:"source"`
}
