// Package dedupe collapses multiple raw versions of the same business key
// into one canonical row: group by key, keep the row with the greatest
// recency. Ties on recency resolve to the lowest staging ordinal, which makes
// the outcome reproducible across runs over the same snapshot.
package dedupe

import (
	"sort"
	"time"
)

// Latest keeps exactly one row per key: the one whose recency is greatest,
// with the lowest ordinal winning on equal recency. A nil recency loses to
// any non-nil recency; two nil recencies fall back to the ordinal. The
// result is ordered by ordinal ascending.
func Latest[K comparable, T any](rows []T, key func(T) K, recency func(T) *time.Time, ordinal func(T) int64) []T {
	best := make(map[K]T, len(rows))
	for _, row := range rows {
		k := key(row)
		cur, seen := best[k]
		if !seen || moreRecent(row, cur, recency, ordinal) {
			best[k] = row
		}
	}

	out := make([]T, 0, len(best))
	for _, row := range best {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return ordinal(out[i]) < ordinal(out[j])
	})
	return out
}

func moreRecent[T any](candidate, incumbent T, recency func(T) *time.Time, ordinal func(T) int64) bool {
	cr, ir := recency(candidate), recency(incumbent)
	switch {
	case cr == nil && ir == nil:
		return ordinal(candidate) < ordinal(incumbent)
	case cr == nil:
		return false
	case ir == nil:
		return true
	case cr.After(*ir):
		return true
	case ir.After(*cr):
		return false
	default:
		return ordinal(candidate) < ordinal(incumbent)
	}
}
