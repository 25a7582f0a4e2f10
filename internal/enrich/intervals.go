package enrich

import (
	"sort"
	"time"

	"prism/internal/silver"
)

// ProductValidity derives the end date of each product row from the start
// date of its successor: rows sharing a short product number are ordered by
// start date ascending, each row's end date is the next row's start date
// minus one day, and the last row keeps a nil end date (still in
// production). Rows with equal start dates order by product id so the
// derivation is reproducible.
//
// The input slice is returned re-ordered by the derivation ordering.
func ProductValidity(products []silver.Product) []silver.Product {
	byNumber := make(map[string][]int, len(products))
	for i, p := range products {
		byNumber[p.ProductNumber] = append(byNumber[p.ProductNumber], i)
	}

	for _, group := range byNumber {
		sort.SliceStable(group, func(a, b int) bool {
			pa, pb := products[group[a]], products[group[b]]
			if !sameDate(pa.StartDate, pb.StartDate) {
				return beforeDate(pa.StartDate, pb.StartDate)
			}
			return pa.ProductID < pb.ProductID
		})
		for i, idx := range group {
			if i == len(group)-1 {
				products[idx].EndDate = nil
				continue
			}
			next := products[group[i+1]].StartDate
			if next == nil {
				products[idx].EndDate = nil
				continue
			}
			end := next.AddDate(0, 0, -1)
			products[idx].EndDate = &end
		}
	}

	// Deterministic output order for the replace-all silver write.
	sort.SliceStable(products, func(a, b int) bool {
		if products[a].ProductNumber != products[b].ProductNumber {
			return products[a].ProductNumber < products[b].ProductNumber
		}
		if !sameDate(products[a].StartDate, products[b].StartDate) {
			return beforeDate(products[a].StartDate, products[b].StartDate)
		}
		return products[a].ProductID < products[b].ProductID
	})
	return products
}

// beforeDate orders nil starts first so undated rows close out against the
// earliest dated successor.
func beforeDate(a, b *time.Time) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return true
	case b == nil:
		return false
	default:
		return a.Before(*b)
	}
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
