package enrich

import (
	"context"

	"prism/internal/silver"
)

const entityDemographic = "demographic"

// Demographics applies the future-date guard to ERP birthdates against the
// pinned run clock.
func Demographics(ctx context.Context, rows []silver.Demographic, rep Reporter) []silver.Demographic {
	out := make([]silver.Demographic, 0, len(rows))
	for _, row := range rows {
		birthdate, repaired := GuardBirthdate(ctx, row.Birthdate)
		if repaired {
			rep.Repaired(entityDemographic, ReasonFutureBirthdate, 1)
		}
		row.Birthdate = birthdate
		out = append(out, row)
	}
	return out
}
