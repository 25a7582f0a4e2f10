package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prism/internal/dimension"
	"prism/pkg/runcontext"
)

func date(s string) *time.Time { t, _ := time.Parse("2006-01-02", s); return &t }
func key(v int64) *int64       { return &v }

func TestRunningTotal(t *testing.T) {
	points := []Point{
		{Period: "2023", Value: 10},
		{Period: "2023", Value: 5},
		{Period: "2024", Value: 7},
	}

	assert.Equal(t, []float64{10, 15, 22}, RunningTotal(points, false))
	assert.Equal(t, []float64{10, 15, 7}, RunningTotal(points, true), "accumulator resets on period change")
	assert.Empty(t, RunningTotal(nil, false))
}

func TestMovingAverage(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	got := MovingAverage(values, 2)
	require.Len(t, got, 4)
	assert.InDelta(t, 10, got[0], 1e-9, "partial window averages what exists")
	assert.InDelta(t, 15, got[1], 1e-9)
	assert.InDelta(t, 25, got[2], 1e-9)
	assert.InDelta(t, 35, got[3], 1e-9)

	assert.Equal(t, values, MovingAverage(values, 1))
}

func TestPeriodDeltas(t *testing.T) {
	got := PeriodDeltas([]Point{
		{Period: "2023-01", Value: 100},
		{Period: "2023-02", Value: 150},
		{Period: "2023-03", Value: 90},
		{Period: "2023-04", Value: 90},
	})
	require.Len(t, got, 4)

	assert.Equal(t, NoChange, got[0].Direction, "first period has no prior")
	assert.Equal(t, Increase, got[1].Direction)
	assert.InDelta(t, 50, got[1].Change, 1e-9)
	assert.Equal(t, Decrease, got[2].Direction)
	assert.Equal(t, NoChange, got[3].Direction)
}

func TestContribution(t *testing.T) {
	got := Contribution([]Point{{Value: 25}, {Value: 75}})
	assert.InDelta(t, 0.25, got[0], 1e-9)
	assert.InDelta(t, 0.75, got[1], 1e-9)

	zeros := Contribution([]Point{{Value: 0}, {Value: 0}})
	assert.Equal(t, []float64{0, 0}, zeros, "zero total yields zero ratios, not NaN")
}

func TestRevenue(t *testing.T) {
	facts := []dimension.FactSale{
		{OrderNumber: "A1", OrderDate: date("2023-01-05"), SalesAmount: 100},
		{OrderNumber: "A2", OrderDate: date("2023-01-20"), SalesAmount: 50},
		{OrderNumber: "A3", OrderDate: date("2023-02-01"), SalesAmount: 150},
		{OrderNumber: "A4", OrderDate: nil, SalesAmount: 999},
	}

	got := Revenue(facts)
	require.Equal(t, []string{"2023-01", "2023-02"}, got.Periods)
	assert.Equal(t, []float64{150, 150}, got.Revenue, "dateless facts carry no period")
	assert.Equal(t, []float64{150, 300}, got.RunningTotal)
	assert.Equal(t, NoChange, got.Deltas[1].Direction)
	assert.InDelta(t, 0.5, got.Contribution[0], 1e-9)
}

func TestSegmentCustomers(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	ctx := runcontext.WithTime(context.Background(), now)

	facts := []dimension.FactSale{
		// Customer 1: two years of history, big spend -> VIP.
		{CustomerKey: key(1), OrderNumber: "A1", OrderDate: date("2022-01-10"), SalesAmount: 4000},
		{CustomerKey: key(1), OrderNumber: "A2", OrderDate: date("2024-01-10"), SalesAmount: 3000},
		// Customer 2: long tenure, modest spend -> Regular.
		{CustomerKey: key(2), OrderNumber: "B1", OrderDate: date("2022-03-01"), SalesAmount: 100},
		{CustomerKey: key(2), OrderNumber: "B2", OrderDate: date("2023-06-01"), SalesAmount: 200},
		// Customer 3: recent only -> New.
		{CustomerKey: key(3), OrderNumber: "C1", OrderDate: date("2024-05-01"), SalesAmount: 9999},
		// Unresolved customer reference is skipped, not counted.
		{CustomerKey: nil, OrderNumber: "X1", OrderDate: date("2024-01-01"), SalesAmount: 1},
	}

	got := SegmentCustomers(ctx, facts)
	require.Len(t, got, 3)

	assert.Equal(t, SegmentVIP, got[0].Segment)
	assert.InDelta(t, 7000, got[0].Spend, 1e-9)
	assert.Equal(t, 24, got[0].TenureMonths)
	assert.Equal(t, 2, got[0].Orders)

	assert.Equal(t, SegmentRegular, got[1].Segment)
	assert.Equal(t, SegmentNew, got[2].Segment)
	assert.Equal(t, 1, got[2].RecencyMonths)
}

func TestSegmentCustomersUsesPinnedClock(t *testing.T) {
	facts := []dimension.FactSale{
		{CustomerKey: key(1), OrderNumber: "A1", OrderDate: date("2020-01-01"), SalesAmount: 10},
	}

	early := runcontext.WithTime(context.Background(), time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC))
	late := runcontext.WithTime(context.Background(), time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 1, SegmentCustomers(early, facts)[0].RecencyMonths)
	assert.Equal(t, 37, SegmentCustomers(late, facts)[0].RecencyMonths)
}

func TestSegmentProducts(t *testing.T) {
	products := []dimension.DimProduct{
		{ProductKey: 1, Cost: 50},
		{ProductKey: 2, Cost: 100},
		{ProductKey: 3, Cost: 999},
		{ProductKey: 4, Cost: 2500},
	}

	got := SegmentProducts(products)
	require.Len(t, got, 4)
	assert.Equal(t, CostBandLow, got[0].CostBand)
	assert.Equal(t, CostBandMid, got[1].CostBand)
	assert.Equal(t, CostBandHigh, got[2].CostBand)
	assert.Equal(t, CostBandPremium, got[3].CostBand)
}
