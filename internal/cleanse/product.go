package cleanse

import (
	"strings"

	"prism/internal/silver"
	"prism/internal/staging"
)

const entityProduct = "product"

// Products normalizes raw CRM product rows: the packed product key is split
// into a category prefix and a short product number, null costs default to 0
// and negative costs clamp to 0. Rows with a null business key are dropped.
//
// The raw end date is discarded here: validity intervals are derived from
// start dates by the enrichment engine, never trusted from upstream.
func Products(rows []staging.ProductRow, rep Reporter) []silver.Product {
	out := make([]silver.Product, 0, len(rows))
	for _, row := range rows {
		if row.ProductID == nil {
			rep.Dropped(entityProduct, ReasonNullBusinessKey, 1)
			continue
		}

		categoryID, productNumber := SplitProductKey(trimmed(row.ProductKey))

		cost := 0.0
		switch {
		case row.Cost == nil:
			rep.Repaired(entityProduct, ReasonMissingValue, 1)
		case *row.Cost < 0:
			rep.Repaired(entityProduct, ReasonNegativeValue, 1)
		default:
			cost = *row.Cost
		}

		line, repaired := remap(productLineVocab, row.Line)
		if repaired {
			rep.Repaired(entityProduct, ReasonOutOfVocabulary, 1)
		}

		out = append(out, silver.Product{
			ProductID:     *row.ProductID,
			CategoryID:    categoryID,
			ProductNumber: productNumber,
			Name:          trimmed(row.Name),
			Cost:          cost,
			Line:          line,
			StartDate:     row.StartDate,
		})
	}
	return out
}

// SplitProductKey decomposes a packed product key: the category id is the
// first 5 characters with the internal separator swapped to underscore, the
// product number is everything from character 7 on. Keys too short for
// either component yield an empty string for it.
func SplitProductKey(key string) (categoryID, productNumber string) {
	if len(key) >= 5 {
		categoryID = strings.ReplaceAll(key[:5], "-", "_")
	} else {
		categoryID = strings.ReplaceAll(key, "-", "_")
	}
	if len(key) >= 7 {
		productNumber = key[6:]
	}
	return categoryID, productNumber
}
