package cleanse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prism/internal/staging"
)

func str(s string) *string     { return &s }
func i64(v int64) *int64       { return &v }
func f64(v float64) *float64   { return &v }
func date(s string) *time.Time { t, _ := time.Parse("2006-01-02", s); return &t }

func TestCustomersNormalization(t *testing.T) {
	rows := []staging.CustomerRow{
		{
			Ordinal:       1,
			CustomerID:    i64(29466),
			CustomerKey:   str("  AW00029466 "),
			FirstName:     str(" Jon "),
			LastName:      str("Yang"),
			MaritalStatus: str("m"),
			Gender:        str(" F "),
			CreateDate:    date("2021-01-05"),
		},
		{Ordinal: 2, CustomerID: nil, CustomerKey: str("AW00000001")},
		{Ordinal: 3, CustomerID: i64(29467), Gender: str("martian")},
	}

	got := Customers(rows, NopReporter{})
	require.Len(t, got, 2, "null business key row is dropped")

	assert.Equal(t, "AW00029466", got[0].CustomerKey)
	assert.Equal(t, "Jon", got[0].FirstName)
	assert.Equal(t, "Married", got[0].MaritalStatus)
	assert.Equal(t, "Female", got[0].Gender)

	assert.Equal(t, Unknown, got[1].Gender)
	assert.Equal(t, Unknown, got[1].MaritalStatus)
	assert.Empty(t, got[1].FirstName)
}

func TestRemapIsCaseAndAccentInsensitive(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"SINGLE", "Single"},
		{"  s  ", "Single"},
		{"Married", "Married"},
		{"divorced", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		got, _ := remap(maritalVocab, &tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}

	accented := "FÉMALE"
	got, _ := remap(genderVocab, &accented)
	assert.Equal(t, "Female", got)
}

func TestSplitProductKey(t *testing.T) {
	tests := []struct {
		key        string
		wantCat    string
		wantNumber string
	}{
		{"CO-RF-FR-R92B-58", "CO_RF", "FR-R92B-58", },
		{"AC-HE-HL-U509", "AC_HE", "HL-U509"},
		{"SHORT", "SHORT", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		cat, num := SplitProductKey(tt.key)
		assert.Equal(t, tt.wantCat, cat, "key %q", tt.key)
		assert.Equal(t, tt.wantNumber, num, "key %q", tt.key)
	}
}

func TestProductsNormalization(t *testing.T) {
	rows := []staging.ProductRow{
		{Ordinal: 1, ProductID: i64(210), ProductKey: str("CO-RF-FR-R92B-58"), Name: str(" HL Road Frame "), Cost: nil, Line: str("R"), StartDate: date("2021-01-01"), EndDate: date("2030-01-01")},
		{Ordinal: 2, ProductID: i64(211), ProductKey: str("CO-RF-FR-R92B-60"), Cost: f64(-12), Line: str("x")},
		{Ordinal: 3, ProductID: nil},
	}

	got := Products(rows, NopReporter{})
	require.Len(t, got, 2)

	assert.Equal(t, "CO_RF", got[0].CategoryID)
	assert.Equal(t, "FR-R92B-58", got[0].ProductNumber)
	assert.Equal(t, "HL Road Frame", got[0].Name)
	assert.Zero(t, got[0].Cost, "null cost defaults to 0")
	assert.Equal(t, "Road", got[0].Line)
	assert.Nil(t, got[0].EndDate, "raw end date is discarded; enrichment derives it")

	assert.Zero(t, got[1].Cost, "negative cost clamps to 0")
	assert.Equal(t, Unknown, got[1].Line)
}

func TestSalesNormalization(t *testing.T) {
	rows := []staging.SalesRow{
		{Ordinal: 1, OrderNumber: str(" SO43697 "), ProductKey: str("FR-R92B-58"), CustomerID: i64(21768), OrderDate: i64(20230101), Sales: nil, Quantity: i64(1), Price: f64(3578.27)},
		{Ordinal: 2, OrderNumber: nil, CustomerID: i64(1)},
		{Ordinal: 3, OrderNumber: str("   "), CustomerID: i64(2)},
		{Ordinal: 4, OrderNumber: str("SO43700"), ProductKey: str("HL-U509"), CustomerID: nil, Sales: f64(10), Quantity: i64(1)},
	}

	got := Sales(rows, NopReporter{})
	require.Len(t, got, 2, "rows without an order number are dropped")
	assert.Equal(t, "SO43697", got[0].OrderNumber)
	assert.Zero(t, got[0].Sales, "null sales defaults to 0 for reconciliation")
	require.NotNil(t, got[0].Price)
	assert.InDelta(t, 3578.27, *got[0].Price, 1e-9)
	require.NotNil(t, got[0].CustomerID)
	assert.Equal(t, int64(21768), *got[0].CustomerID)

	assert.Nil(t, got[1].CustomerID, "a missing customer reference stays null")
}

func TestDemographicsNormalization(t *testing.T) {
	rows := []staging.DemographicRow{
		{Ordinal: 1, CustomerID: str("NASAW00029466"), Birthdate: date("1971-10-06"), Gender: str("F")},
		{Ordinal: 2, CustomerID: str("AW00013502"), Gender: nil},
		{Ordinal: 3, CustomerID: str("  ")},
	}

	got := Demographics(rows, NopReporter{})
	require.Len(t, got, 2)
	assert.Equal(t, "AW00029466", got[0].CustomerID)
	assert.Equal(t, "Female", got[0].Gender)
	assert.Equal(t, Unknown, got[1].Gender)
}

func TestLocationsNormalization(t *testing.T) {
	rows := []staging.LocationRow{
		{Ordinal: 1, CustomerID: str("AW-00011000"), Country: str("  us ")},
		{Ordinal: 2, CustomerID: str("AW00011001"), Country: str("Australia")},
		{Ordinal: 3, CustomerID: str("AW00011002"), Country: nil},
		{Ordinal: 4, CustomerID: nil, Country: str("DE")},
	}

	got := Locations(rows, NopReporter{})
	require.Len(t, got, 3)
	assert.Equal(t, "AW00011000", got[0].CustomerID)
	assert.Equal(t, "United States", got[0].Country)
	assert.Equal(t, "Australia", got[1].Country, "unrecognized countries pass through trimmed")
	assert.Equal(t, Unknown, got[2].Country)
}

func TestCategoriesNormalization(t *testing.T) {
	rows := []staging.CategoryRow{
		{Ordinal: 1, CategoryID: str("CO_RF"), Category: str(" Components "), Subcategory: str("Road Frames"), Maintenance: str("Yes")},
		{Ordinal: 2, CategoryID: str("AC_HE"), Category: str("Accessories"), Subcategory: str("Helmets"), Maintenance: nil},
		{Ordinal: 3, CategoryID: nil},
	}

	got := Categories(rows, NopReporter{})
	require.Len(t, got, 2)
	assert.Equal(t, "Components", got[0].Category)
	assert.Equal(t, "Yes", got[0].Maintenance)
	assert.Equal(t, Unknown, got[1].Maintenance)
}
