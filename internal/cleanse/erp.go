package cleanse

import (
	"strings"

	"prism/internal/silver"
	"prism/internal/staging"
)

const (
	entityDemographic = "demographic"
	entityLocation    = "location"
	entityCategory    = "category"
)

// legacyIDPrefix is carried by ERP demographic ids exported from the old
// system and must be stripped to line up with the CRM customer number.
const legacyIDPrefix = "NAS"

// Demographics normalizes raw ERP demographic rows: the legacy prefix is
// stripped from the customer id and gender is remapped. Birthdates pass
// through; the future-date guard belongs to the enrichment engine.
func Demographics(rows []staging.DemographicRow, rep Reporter) []silver.Demographic {
	out := make([]silver.Demographic, 0, len(rows))
	for _, row := range rows {
		id := trimmed(row.CustomerID)
		if id == "" {
			rep.Dropped(entityDemographic, ReasonNullBusinessKey, 1)
			continue
		}
		if strings.HasPrefix(id, legacyIDPrefix) {
			id = id[len(legacyIDPrefix):]
			rep.Repaired(entityDemographic, ReasonKeyFormat, 1)
		}

		gender, repaired := remap(genderVocab, row.Gender)
		if repaired {
			rep.Repaired(entityDemographic, ReasonOutOfVocabulary, 1)
		}

		out = append(out, silver.Demographic{
			CustomerID: id,
			Birthdate:  row.Birthdate,
			Gender:     gender,
		})
	}
	return out
}

// Locations normalizes raw ERP location rows: embedded dashes in the
// customer id are removed so it joins against the CRM customer number, and
// country values are normalized.
func Locations(rows []staging.LocationRow, rep Reporter) []silver.Location {
	out := make([]silver.Location, 0, len(rows))
	for _, row := range rows {
		id := trimmed(row.CustomerID)
		if id == "" {
			rep.Dropped(entityLocation, ReasonNullBusinessKey, 1)
			continue
		}
		if strings.Contains(id, "-") {
			id = strings.ReplaceAll(id, "-", "")
			rep.Repaired(entityLocation, ReasonKeyFormat, 1)
		}

		country, repaired := mapCountry(row.Country)
		if repaired {
			rep.Repaired(entityLocation, ReasonOutOfVocabulary, 1)
		}

		out = append(out, silver.Location{
			CustomerID: id,
			Country:    country,
		})
	}
	return out
}

// Categories normalizes raw ERP product category rows.
func Categories(rows []staging.CategoryRow, rep Reporter) []silver.Category {
	out := make([]silver.Category, 0, len(rows))
	for _, row := range rows {
		id := trimmed(row.CategoryID)
		if id == "" {
			rep.Dropped(entityCategory, ReasonNullBusinessKey, 1)
			continue
		}

		maintenance := trimmed(row.Maintenance)
		if maintenance == "" {
			maintenance = Unknown
			rep.Repaired(entityCategory, ReasonMissingValue, 1)
		}

		out = append(out, silver.Category{
			CategoryID:  id,
			Category:    trimmed(row.Category),
			Subcategory: trimmed(row.Subcategory),
			Maintenance: maintenance,
		})
	}
	return out
}
