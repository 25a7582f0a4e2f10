package report

import (
	"sort"

	"prism/internal/dimension"
)

// revenueWindow is the trailing moving-average window in months.
const revenueWindow = 3

// RevenueReport is the monthly revenue trend over the fact table.
type RevenueReport struct {
	Periods       []string  `json:"periods"`
	Revenue       []float64 `json:"revenue"`
	RunningTotal  []float64 `json:"running_total"`
	MovingAverage []float64 `json:"moving_average"`
	Deltas        []Delta   `json:"deltas"`
	Contribution  []float64 `json:"contribution"`
}

// Revenue aggregates fact sales into a per-month trend report. Facts without
// an order date carry no period and are excluded. Months are ordered
// chronologically.
func Revenue(facts []dimension.FactSale) RevenueReport {
	byMonth := make(map[string]float64)
	for _, f := range facts {
		if f.OrderDate == nil {
			continue
		}
		byMonth[f.OrderDate.Format("2006-01")] += f.SalesAmount
	}

	periods := make([]string, 0, len(byMonth))
	for period := range byMonth {
		periods = append(periods, period)
	}
	sort.Strings(periods)

	points := make([]Point, 0, len(periods))
	revenue := make([]float64, 0, len(periods))
	for _, period := range periods {
		points = append(points, Point{Period: period, Value: byMonth[period]})
		revenue = append(revenue, byMonth[period])
	}

	return RevenueReport{
		Periods:       periods,
		Revenue:       revenue,
		RunningTotal:  RunningTotal(points, false),
		MovingAverage: MovingAverage(revenue, revenueWindow),
		Deltas:        PeriodDeltas(points),
		Contribution:  Contribution(points),
	}
}
