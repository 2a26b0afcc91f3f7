package domain

// TimeBucket holds running sums for one day/week/month/year bucket.
// The Key is a zero-padded ISO-like string (2024-01-05, 2024-W02, 2024-01,
// 2024) so lexicographic order matches chronological order.
type TimeBucket struct {
	Key           string  `json:"key"`
	TotalNet      float64 `json:"total_net"`
	TotalGross    float64 `json:"total_gross"`
	TotalQuantity float64 `json:"total_quantity"`
}

// SalesSummary is the aggregated response for one granularity, including how
// many input rows had to be excluded for missing dates.
type SalesSummary struct {
	Granularity   string       `json:"granularity"`
	Buckets       []TimeBucket `json:"buckets"`
	ExcludedCount int          `json:"excluded_count"`
}

// WeeklyIndex is one (isoYear, isoWeek) entry of a seasonality profile.
type WeeklyIndex struct {
	ISOYear       int     `json:"iso_year"`
	ISOWeek       int     `json:"iso_week"`
	SalesQuantity float64 `json:"sales_quantity"`
	Index         float64 `json:"index"`
	YoYChangePct  float64 `json:"yoy_change_pct"`
	Trend         string  `json:"trend"`
}

// SeasonalityProfile is the per-product output of the seasonality calculator.
type SeasonalityProfile struct {
	Symbol        string        `json:"symbol"`
	AnnualAverage float64       `json:"annual_average"`
	PeakISOYear   int           `json:"peak_iso_year"`
	PeakISOWeek   int           `json:"peak_iso_week"`
	Weekly        []WeeklyIndex `json:"weekly"`
	HasData       bool          `json:"has_data"`
}

// MinStockRecommendation is derived per request, never stored.
type MinStockRecommendation struct {
	Symbol             string  `json:"symbol"`
	AnnualAverage      float64 `json:"annual_average"`
	MaxIndex           float64 `json:"max_index"`
	HorizonWeeks       int     `json:"horizon_weeks"`
	RecommendedMinimum int     `json:"recommended_minimum"`
	CurrentStock       float64 `json:"current_stock"`
	ToOrder            int     `json:"to_order"`
}

// RotationProduct is one classified product with the inputs that decided
// its category, kept for drill-down views.
type RotationProduct struct {
	Symbol           string           `json:"symbol"`
	Name             string           `json:"name"`
	Category         RotationCategory `json:"category"`
	CurrentStock     float64          `json:"current_stock"`
	StockValue       float64          `json:"stock_value"`
	DaysNoMovement   int              `json:"days_no_movement"`
	DaysOfStock      float64          `json:"days_of_stock"`
	DailyConsumption float64          `json:"daily_consumption"`
}

// RotationSummary aggregates one category.
type RotationSummary struct {
	Category         RotationCategory  `json:"category"`
	Label            string            `json:"label"`
	ProductCount     int               `json:"product_count"`
	TotalQuantity    float64           `json:"total_quantity"`
	TotalValue       float64           `json:"total_value"`
	AvgDaysNoMove    float64           `json:"avg_days_no_movement"`
	AvgDaysOfStock   float64           `json:"avg_days_of_stock"`
	TopFrozenCapital []RotationProduct `json:"top_frozen_capital"`
}

// RotationReport covers the whole warehouse. TotalValue always equals the
// sum of the category totals.
type RotationReport struct {
	Categories    []RotationSummary `json:"categories"`
	TotalProducts int               `json:"total_products"`
	TotalValue    float64           `json:"total_value"`
}

// PurchaseProposalItem is the per-product reorder recommendation.
type PurchaseProposalItem struct {
	Symbol             string         `json:"symbol"`
	Name               string         `json:"name"`
	DailyConsumption   float64        `json:"daily_consumption"`
	DeliveryTimeDays   int            `json:"delivery_time_days"`
	OrderFrequencyDays int            `json:"order_frequency_days"`
	OptimalBatchSize   int            `json:"optimal_batch_size"`
	MinimumStock       float64        `json:"minimum_stock"`
	CurrentStock       float64        `json:"current_stock"`
	QuantityToOrder    int            `json:"quantity_to_order"`
	Status             ProposalStatus `json:"status"`
}

// PurchaseProposalSummary rolls up a proposal run.
type PurchaseProposalSummary struct {
	TotalProducts      int     `json:"total_products"`
	BelowMinimumCount  int     `json:"below_minimum_count"`
	OKCount            int     `json:"ok_count"`
	SurplusCount       int     `json:"surplus_count"`
	TotalPurchaseValue float64 `json:"total_purchase_value"`
}

// PurchaseProposal is the full proposal response.
type PurchaseProposal struct {
	Items   []PurchaseProposalItem  `json:"items"`
	Summary PurchaseProposalSummary `json:"summary"`
}
