package cleanse

import (
	"prism/internal/staging"
)

const entitySales = "sales"

// Sale is a normalized sales transaction awaiting enrichment. Date fields are
// still integer-encoded tokens; the enrichment engine owns date validation
// and monetary reconciliation.
type Sale struct {
	OrderNumber string
	ProductKey  string
	// CustomerID is a foreign reference, not the business key: it stays null
	// when absent so the dimensional join never confuses a missing reference
	// with a real id.
	CustomerID *int64
	OrderDate  *int64
	ShipDate   *int64
	DueDate    *int64
	Sales      float64
	Quantity   int64
	Price      *float64
}

// Sales normalizes raw CRM sales rows. Null stored sales defaults to 0 (the
// enrichment engine recomputes any non-positive value); price is left as-is
// because price repair is owned entirely by the enrichment backfill rule.
// Rows with a null order number are dropped.
func Sales(rows []staging.SalesRow, rep Reporter) []Sale {
	out := make([]Sale, 0, len(rows))
	for _, row := range rows {
		if row.OrderNumber == nil || trimmed(row.OrderNumber) == "" {
			rep.Dropped(entitySales, ReasonNullBusinessKey, 1)
			continue
		}

		sales := 0.0
		if row.Sales == nil {
			rep.Repaired(entitySales, ReasonMissingValue, 1)
		} else {
			sales = *row.Sales
		}

		var quantity int64
		if row.Quantity == nil {
			rep.Repaired(entitySales, ReasonMissingValue, 1)
		} else {
			quantity = *row.Quantity
		}

		out = append(out, Sale{
			OrderNumber: trimmed(row.OrderNumber),
			ProductKey:  trimmed(row.ProductKey),
			CustomerID:  row.CustomerID,
			OrderDate:   row.OrderDate,
			ShipDate:    row.ShipDate,
			DueDate:     row.DueDate,
			Sales:       sales,
			Quantity:    quantity,
			Price:       row.Price,
		})
	}
	return out
}
