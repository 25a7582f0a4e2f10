package report

import (
	"context"
	"sort"
	"time"

	"prism/internal/dimension"
	"prism/pkg/runcontext"
)

// Customer segmentation tiers, assigned from lifetime spend and tenure.
const (
	SegmentVIP     = "VIP"
	SegmentRegular = "Regular"
	SegmentNew     = "New"
)

// Segmentation thresholds.
const (
	vipSpendThreshold   = 5000.0
	tenureMonthsMinimum = 12
)

// CustomerSegment is one customer's computed lifetime metrics and tier.
type CustomerSegment struct {
	CustomerKey  int64   `json:"customer_key"`
	Spend        float64 `json:"spend"`
	Orders       int     `json:"orders"`
	TenureMonths int     `json:"tenure_months"`
	// RecencyMonths is months since the last order, measured against the
	// pinned run clock.
	RecencyMonths int    `json:"recency_months"`
	Segment       string `json:"segment"`
}

// SegmentCustomers derives lifetime spend, tenure (months between first and
// last order) and recency per customer, then assigns tiers: VIP needs at
// least a year of tenure and spend above the threshold, Regular a year of
// tenure at or below it, everyone else is New. Facts without a resolved
// customer key are skipped. Output is ordered by customer key.
func SegmentCustomers(ctx context.Context, facts []dimension.FactSale) []CustomerSegment {
	type acc struct {
		spend       float64
		orders      map[string]struct{}
		first, last *time.Time
	}
	byCustomer := make(map[int64]*acc)
	for _, f := range facts {
		if f.CustomerKey == nil {
			continue
		}
		a := byCustomer[*f.CustomerKey]
		if a == nil {
			a = &acc{orders: make(map[string]struct{})}
			byCustomer[*f.CustomerKey] = a
		}
		a.spend += f.SalesAmount
		a.orders[f.OrderNumber] = struct{}{}
		if f.OrderDate != nil {
			if a.first == nil || f.OrderDate.Before(*a.first) {
				a.first = f.OrderDate
			}
			if a.last == nil || f.OrderDate.After(*a.last) {
				a.last = f.OrderDate
			}
		}
	}

	now := runcontext.Now(ctx)
	out := make([]CustomerSegment, 0, len(byCustomer))
	for key, a := range byCustomer {
		seg := CustomerSegment{
			CustomerKey: key,
			Spend:       a.spend,
			Orders:      len(a.orders),
		}
		if a.first != nil && a.last != nil {
			seg.TenureMonths = monthsBetween(*a.first, *a.last)
			seg.RecencyMonths = monthsBetween(*a.last, now)
		}
		switch {
		case seg.TenureMonths >= tenureMonthsMinimum && seg.Spend > vipSpendThreshold:
			seg.Segment = SegmentVIP
		case seg.TenureMonths >= tenureMonthsMinimum:
			seg.Segment = SegmentRegular
		default:
			seg.Segment = SegmentNew
		}
		out = append(out, seg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerKey < out[j].CustomerKey })
	return out
}

// Product cost bands.
const (
	CostBandLow     = "Below 100"
	CostBandMid     = "100-500"
	CostBandHigh    = "500-1000"
	CostBandPremium = "Above 1000"
)

// ProductSegment is one product with its cost band.
type ProductSegment struct {
	ProductKey int64   `json:"product_key"`
	Cost       float64 `json:"cost"`
	CostBand   string  `json:"cost_band"`
}

// SegmentProducts assigns each product to a fixed cost band. Output follows
// the input (surrogate key) order.
func SegmentProducts(products []dimension.DimProduct) []ProductSegment {
	out := make([]ProductSegment, 0, len(products))
	for _, p := range products {
		band := CostBandLow
		switch {
		case p.Cost > 1000:
			band = CostBandPremium
		case p.Cost >= 500:
			band = CostBandHigh
		case p.Cost >= 100:
			band = CostBandMid
		}
		out = append(out, ProductSegment{ProductKey: p.ProductKey, Cost: p.Cost, CostBand: band})
	}
	return out
}

// monthsBetween counts whole calendar months from a to b, zero when b
// precedes a.
func monthsBetween(a, b time.Time) int {
	if b.Before(a) {
		return 0
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
