package metrics

import (
	"math"

	"github.com/retailpulse/pos-insights/internal/domain"
)

// ProposalPolicy carries the defaults and the surplus trigger of the
// purchase-proposal calculator. Per-symbol overrides win over the defaults
// field by field.
type ProposalPolicy struct {
	DeliveryTimeDays   int
	OrderFrequencyDays int
	// SurplusFactor: stock above this multiple of the minimum is SURPLUS.
	SurplusFactor float64
	// ConsumptionWindowDays is the trailing window the daily average is
	// computed over.
	ConsumptionWindowDays int
}

// DefaultProposalPolicy is a 7-day delivery, 14-day order cycle and the
// 120% surplus trigger over a 90-day consumption window.
func DefaultProposalPolicy() ProposalPolicy {
	return ProposalPolicy{
		DeliveryTimeDays:      7,
		OrderFrequencyDays:    14,
		SurplusFactor:         1.2,
		ConsumptionWindowDays: 90,
	}
}

// ProposeForProduct computes the reorder recommendation for one product.
// Settings may be nil, in which case the policy defaults apply.
func ProposeForProduct(s domain.StockSnapshot, settings *domain.OrderSettings, p ProposalPolicy) domain.PurchaseProposalItem {
	if p.SurplusFactor <= 0 {
		p.SurplusFactor = 1.2
	}
	if p.ConsumptionWindowDays <= 0 {
		p.ConsumptionWindowDays = 90
	}

	delivery := p.DeliveryTimeDays
	frequency := p.OrderFrequencyDays
	batch := 0
	if settings != nil {
		if settings.DeliveryTimeDays > 0 {
			delivery = settings.DeliveryTimeDays
		}
		if settings.OrderFrequencyDays > 0 {
			frequency = settings.OrderFrequencyDays
		}
		batch = settings.OptimalBatchSize
	}

	daily := s.Sales90Days / float64(p.ConsumptionWindowDays)
	minimum := float64(delivery+frequency) * daily

	toOrder := 0
	if diff := minimum - s.CurrentStock; diff > 0 {
		toOrder = int(math.Ceil(diff))
	}
	if batch > 0 && toOrder > 0 {
		if rem := toOrder % batch; rem != 0 {
			toOrder += batch - rem
		}
	}

	status := domain.StatusOK
	switch {
	case s.CurrentStock < minimum:
		status = domain.StatusBelow
	case s.CurrentStock > p.SurplusFactor*minimum:
		status = domain.StatusSurplus
	}

	return domain.PurchaseProposalItem{
		Symbol:             s.Symbol,
		Name:               s.Name,
		DailyConsumption:   daily,
		DeliveryTimeDays:   delivery,
		OrderFrequencyDays: frequency,
		OptimalBatchSize:   batch,
		MinimumStock:       minimum,
		CurrentStock:       s.CurrentStock,
		QuantityToOrder:    toOrder,
		Status:             status,
	}
}

// BuildProposal runs the calculator over every product and rolls up the
// summary. Purchase value uses the unit cost carried on each snapshot.
func BuildProposal(snapshots []domain.StockSnapshot, overrides map[string]domain.OrderSettings, p ProposalPolicy) domain.PurchaseProposal {
	proposal := domain.PurchaseProposal{
		Items: make([]domain.PurchaseProposalItem, 0, len(snapshots)),
	}

	for _, s := range snapshots {
		var settings *domain.OrderSettings
		if o, ok := overrides[s.Symbol]; ok {
			settings = &o
		}

		item := ProposeForProduct(s, settings, p)
		proposal.Items = append(proposal.Items, item)

		proposal.Summary.TotalProducts++
		switch item.Status {
		case domain.StatusBelow:
			proposal.Summary.BelowMinimumCount++
		case domain.StatusSurplus:
			proposal.Summary.SurplusCount++
		default:
			proposal.Summary.OKCount++
		}
		proposal.Summary.TotalPurchaseValue += float64(item.QuantityToOrder) * s.UnitCost
	}

	return proposal
}
