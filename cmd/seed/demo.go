// cmd/seed/demo.go
package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/retailpulse/pos-insights/internal/domain"
	"github.com/retailpulse/pos-insights/internal/repository"
)

// generateDemoData seeds a deterministic dataset: every product gets a
// sinusoidal weekly demand curve with its own phase, so seasonality and
// rotation reports have something meaningful to chew on.
func generateDemoData(ctx context.Context, repo repository.IngestRepository, products, weeks int) error {
	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC().Truncate(24 * time.Hour)

	var (
		records   []domain.SaleRecord
		snapshots []domain.StockSnapshot
		settings  []domain.OrderSettings
	)

	for p := 0; p < products; p++ {
		symbol := fmt.Sprintf("SKU-%03d", p+1)
		name := fmt.Sprintf("Demo Product %03d", p+1)
		unitCost := 5 + rng.Float64()*45
		baseDemand := 2 + rng.Float64()*20
		phase := rng.Float64() * 2 * math.Pi

		// A tail of products never sells, to exercise the dead stock path.
		dead := p%10 == 9

		lifetime := 0.0
		last90 := 0.0
		var lastSale time.Time

		for w := weeks; w >= 1 && !dead; w-- {
			weekStart := now.AddDate(0, 0, -7*w)
			seasonal := 1 + 0.6*math.Sin(phase+2*math.Pi*float64(weekStart.YearDay())/365)
			qty := math.Max(0, math.Round(baseDemand*seasonal+rng.NormFloat64()))
			if qty == 0 {
				continue
			}

			soldAt := weekStart.AddDate(0, 0, rng.Intn(7))
			net := qty * unitCost * 1.4
			records = append(records, domain.SaleRecord{
				Symbol:     symbol,
				Name:       name,
				SoldAt:     soldAt,
				UpdatedAt:  soldAt,
				NetValue:   net,
				GrossValue: net * 1.23,
				Quantity:   qty,
				Source:     domain.SourceTransaction,
			})

			lifetime += qty
			if now.Sub(soldAt) <= 90*24*time.Hour {
				last90 += qty
			}
			if soldAt.After(lastSale) {
				lastSale = soldAt
			}
		}

		stock := math.Round(baseDemand * (1 + rng.Float64()*6))
		if dead {
			stock = math.Round(5 + rng.Float64()*20)
			lastSale = now.AddDate(0, 0, -(120 + rng.Intn(200)))
		}

		snapshots = append(snapshots, domain.StockSnapshot{
			Symbol:         symbol,
			Name:           name,
			CurrentStock:   stock,
			StockValue:     stock * unitCost,
			UnitCost:       unitCost,
			LastMovementAt: lastSale,
			FirstStockedAt: now.AddDate(0, 0, -7*weeks),
			Sales90Days:    last90,
			LifetimeSales:  lifetime,
		})

		// Per-symbol overrides for a third of the catalog.
		if p%3 == 0 {
			settings = append(settings, domain.OrderSettings{
				Symbol:             symbol,
				DeliveryTimeDays:   3 + rng.Intn(12),
				OrderFrequencyDays: 7 + rng.Intn(21),
				OptimalBatchSize:   6 * (1 + rng.Intn(4)),
			})
		}
	}

	if err := repo.InsertSaleRecords(ctx, records); err != nil {
		return fmt.Errorf("failed to seed sales: %w", err)
	}
	if err := repo.UpsertStockSnapshots(ctx, snapshots); err != nil {
		return fmt.Errorf("failed to seed snapshots: %w", err)
	}
	if err := repo.UpsertOrderSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to seed order settings: %w", err)
	}

	log.Printf("seeded %d sales, %d snapshots, %d order settings", len(records), len(snapshots), len(settings))
	return nil
}
