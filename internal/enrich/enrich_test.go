package enrich

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prism/internal/cleanse"
	"prism/internal/silver"
	"prism/pkg/runcontext"
)

func i64(v int64) *int64       { return &v }
func f64(v float64) *float64   { return &v }
func date(s string) *time.Time { t, _ := time.Parse("2006-01-02", s); return &t }

func TestParseDateToken(t *testing.T) {
	tests := []struct {
		name       string
		token      *int64
		want       *time.Time
		wantReason string
	}{
		{name: "nil token", token: nil},
		{name: "valid token", token: i64(20230615), want: date("2023-06-15")},
		{name: "zero token", token: i64(0), wantReason: ReasonDateZero},
		{name: "too short", token: i64(2023), wantReason: ReasonDateBadLength},
		{name: "too long", token: i64(202306150), wantReason: ReasonDateBadLength},
		{name: "negative", token: i64(-20230615), wantReason: ReasonDateBadLength},
		{name: "length valid but month 13", token: i64(20231301), wantReason: ReasonDateNotCalendar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := ParseDateToken(tt.token)
			assert.Equal(t, tt.wantReason, reason)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.True(t, tt.want.Equal(*got))
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		sales     float64
		quantity  int64
		price     *float64
		wantSales float64
		wantPrice *float64
	}{
		{name: "zero sales recomputed", sales: 0, quantity: 3, price: f64(10), wantSales: 30, wantPrice: f64(10)},
		{name: "null price backfilled", sales: 100, quantity: 5, price: nil, wantSales: 100, wantPrice: f64(20)},
		{name: "consistent row preserved", sales: 50, quantity: 5, price: f64(10), wantSales: 50, wantPrice: f64(10)},
		{name: "inconsistent sales recomputed", sales: 999, quantity: 2, price: f64(10), wantSales: 20, wantPrice: f64(10)},
		{name: "negative price normalized into formula", sales: 0, quantity: 4, price: f64(-5), wantSales: 20, wantPrice: f64(5)},
		{name: "zero quantity yields null price", sales: 100, quantity: 0, price: nil, wantSales: 100, wantPrice: nil},
		{name: "negative sales with null price defaults", sales: -50, quantity: 2, price: nil, wantSales: 0, wantPrice: f64(0)},
		{name: "negative quantity normalized into formula", sales: 5, quantity: -2, price: f64(10), wantSales: 20, wantPrice: f64(10)},
		{name: "negative quantity backfills positive price", sales: 100, quantity: -5, price: nil, wantSales: 100, wantPrice: f64(20)},
		{name: "negative sales and price both repaired", sales: -50, quantity: 2, price: f64(-25), wantSales: 50, wantPrice: f64(25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sales, price := Reconcile(tt.sales, tt.quantity, tt.price)
			assert.InDelta(t, tt.wantSales, sales, 1e-9)
			if tt.wantPrice == nil {
				assert.Nil(t, price)
			} else {
				require.NotNil(t, price)
				assert.InDelta(t, *tt.wantPrice, *price, 1e-9)
			}
		})
	}
}

func TestSalesEnrichment(t *testing.T) {
	rows := []cleanse.Sale{
		{OrderNumber: "SO1", CustomerID: i64(1), OrderDate: i64(20230615), ShipDate: i64(0), DueDate: i64(123), Sales: 0, Quantity: 3, Price: f64(10)},
	}

	got := Sales(rows, cleanse.NopReporter{})
	require.Len(t, got, 1)
	require.NotNil(t, got[0].OrderDate)
	assert.True(t, got[0].OrderDate.Equal(*date("2023-06-15")))
	assert.Nil(t, got[0].ShipDate)
	assert.Nil(t, got[0].DueDate)
	assert.InDelta(t, 30, got[0].Sales, 1e-9)
}

func TestProductValidity(t *testing.T) {
	products := []silver.Product{
		{ProductID: 2, ProductNumber: "AB-1234", StartDate: date("2022-01-01")},
		{ProductID: 1, ProductNumber: "AB-1234", StartDate: date("2021-01-01")},
		{ProductID: 3, ProductNumber: "CD-9999", StartDate: date("2020-05-01")},
	}

	got := ProductValidity(products)
	require.Len(t, got, 3)

	// AB-1234: earlier row closes out the day before its successor starts.
	require.NotNil(t, got[0].EndDate)
	assert.True(t, got[0].EndDate.Equal(*date("2021-12-31")))
	assert.Nil(t, got[1].EndDate, "latest row per key stays open")
	assert.Nil(t, got[2].EndDate, "sole row per key stays open")
}

func TestProductValidityDeterministicAcrossInputOrder(t *testing.T) {
	a := []silver.Product{
		{ProductID: 1, ProductNumber: "K", StartDate: date("2021-01-01")},
		{ProductID: 2, ProductNumber: "K", StartDate: date("2022-01-01")},
	}
	b := []silver.Product{
		{ProductID: 2, ProductNumber: "K", StartDate: date("2022-01-01")},
		{ProductID: 1, ProductNumber: "K", StartDate: date("2021-01-01")},
	}

	assert.Equal(t, ProductValidity(a), ProductValidity(b))
}

func TestGuardBirthdate(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ctx := runcontext.WithTime(context.Background(), now)

	past := date("1990-04-02")
	kept, repaired := GuardBirthdate(ctx, past)
	assert.False(t, repaired)
	assert.Equal(t, past, kept)

	future := date("2031-01-01")
	kept, repaired = GuardBirthdate(ctx, future)
	assert.True(t, repaired)
	assert.Nil(t, kept)

	kept, repaired = GuardBirthdate(ctx, nil)
	assert.False(t, repaired)
	assert.Nil(t, kept)
}

func TestDemographicsGuard(t *testing.T) {
	ctx := runcontext.WithTime(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	rows := []silver.Demographic{
		{CustomerID: "AW1", Birthdate: date("2030-01-01"), Gender: "Female"},
		{CustomerID: "AW2", Birthdate: date("1985-07-20"), Gender: "Male"},
	}

	got := Demographics(ctx, rows, cleanse.NopReporter{})
	require.Len(t, got, 2)
	assert.Nil(t, got[0].Birthdate)
	assert.NotNil(t, got[1].Birthdate)
}
