package enrich

import (
	"math"
	"time"

	"prism/internal/cleanse"
	"prism/internal/silver"
)

// monetaryEpsilon bounds float drift when deciding whether a stored sales
// value is consistent with quantity x |price|.
const monetaryEpsilon = 1e-6

// Reporter mirrors cleanse.Reporter for enrichment-stage repairs.
type Reporter = cleanse.Reporter

// Monetary repair reasons.
const (
	ReasonSalesRecomputed = "sales_recomputed"
	ReasonPriceBackfilled = "price_backfilled"
)

const entitySales = "sales"

// Sales finalizes normalized sales rows: date tokens become validated
// calendar dates, the sales measure is reconciled against quantity x |price|
// and missing prices are backfilled from the reconciled sales value.
func Sales(rows []cleanse.Sale, rep Reporter) []silver.Sale {
	out := make([]silver.Sale, 0, len(rows))
	for _, row := range rows {
		orderDate := parseReported(row.OrderDate, rep)
		shipDate := parseReported(row.ShipDate, rep)
		dueDate := parseReported(row.DueDate, rep)

		sales, price := Reconcile(row.Sales, row.Quantity, row.Price)
		if sales != row.Sales {
			rep.Repaired(entitySales, ReasonSalesRecomputed, 1)
		}
		if !samePrice(price, row.Price) {
			rep.Repaired(entitySales, ReasonPriceBackfilled, 1)
		}

		out = append(out, silver.Sale{
			OrderNumber: row.OrderNumber,
			ProductKey:  row.ProductKey,
			CustomerID:  row.CustomerID,
			OrderDate:   orderDate,
			ShipDate:    shipDate,
			DueDate:     dueDate,
			Sales:       sales,
			Quantity:    row.Quantity,
			Price:       price,
		})
	}
	return out
}

// Reconcile applies the two monetary rules in order, and never returns a
// negative sales or price value.
//
// Sales: recomputed as |quantity| x |price| when the stored value is null
// (already defaulted to 0 by cleansing), non-positive, or inconsistent with
// the formula; otherwise preserved exactly. A negative stored value with no
// price to rebuild from defaults to 0.
//
// Price: backfilled as sales / |quantity| when null or non-positive, with a
// zero quantity yielding null rather than a division error; otherwise
// preserved.
func Reconcile(sales float64, quantity int64, price *float64) (float64, *float64) {
	units := math.Abs(float64(quantity))

	if price != nil {
		expected := units * math.Abs(*price)
		if sales <= 0 || math.Abs(sales-expected) > monetaryEpsilon {
			sales = expected
		}
	} else if sales < 0 {
		sales = 0
	}

	if price == nil || *price <= 0 {
		if quantity == 0 {
			price = nil
		} else {
			derived := sales / units
			price = &derived
		}
	}
	return sales, price
}

func parseReported(token *int64, rep Reporter) *time.Time {
	t, reason := ParseDateToken(token)
	if reason != "" {
		rep.Repaired(entitySales, reason, 1)
	}
	return t
}

func samePrice(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
