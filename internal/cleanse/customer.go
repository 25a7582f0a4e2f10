package cleanse

import (
	"prism/internal/silver"
	"prism/internal/staging"
)

const entityCustomer = "customer"

// Customer pairs a conformed customer with its staging ordinal so the
// deduplication resolver can break recency ties deterministically.
type Customer struct {
	silver.Customer
	Ordinal int64
}

// Customers normalizes raw CRM customer rows. Cardinality is preserved
// except for rows with a null business key, which are dropped.
func Customers(rows []staging.CustomerRow, rep Reporter) []Customer {
	out := make([]Customer, 0, len(rows))
	for _, row := range rows {
		if row.CustomerID == nil {
			rep.Dropped(entityCustomer, ReasonNullBusinessKey, 1)
			continue
		}

		marital, repaired := remap(maritalVocab, row.MaritalStatus)
		if repaired {
			rep.Repaired(entityCustomer, ReasonOutOfVocabulary, 1)
		}
		gender, repaired := remap(genderVocab, row.Gender)
		if repaired {
			rep.Repaired(entityCustomer, ReasonOutOfVocabulary, 1)
		}

		out = append(out, Customer{
			Customer: silver.Customer{
				CustomerID:    *row.CustomerID,
				CustomerKey:   trimmed(row.CustomerKey),
				FirstName:     trimmed(row.FirstName),
				LastName:      trimmed(row.LastName),
				MaritalStatus: marital,
				Gender:        gender,
				CreateDate:    row.CreateDate,
			},
			Ordinal: row.Ordinal,
		})
	}
	return out
}
