package cleanse

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Unknown is the explicit fallback for every closed categorical vocabulary.
const Unknown = "Unknown"

// Closed vocabularies, keyed by folded source value. Sources encode these
// inconsistently (single letters, full words, mixed case), so both forms map
// to the canonical output.
var (
	maritalVocab = map[string]string{
		"s":       "Single",
		"single":  "Single",
		"m":       "Married",
		"married": "Married",
	}

	genderVocab = map[string]string{
		"f":      "Female",
		"female": "Female",
		"m":      "Male",
		"male":   "Male",
	}

	productLineVocab = map[string]string{
		"r":        "Road",
		"road":     "Road",
		"m":        "Mountain",
		"mountain": "Mountain",
		"s":        "other Sales",
		"t":        "Touring",
		"touring":  "Touring",
	}

	countryVocab = map[string]string{
		"de":            "Germany",
		"germany":       "Germany",
		"us":            "United States",
		"usa":           "United States",
		"united states": "United States",
	}
)

// remap resolves a raw categorical value against a vocabulary. Any value not
// in the vocabulary, including nil and blank, maps to Unknown. The second
// return reports whether the value needed repair (was not already canonical).
func remap(vocab map[string]string, raw *string) (string, bool) {
	if raw == nil {
		return Unknown, true
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return Unknown, true
	}
	if out, ok := vocab[foldKey(trimmed)]; ok {
		return out, out != trimmed
	}
	return Unknown, true
}

// mapCountry normalizes country values. Unlike the closed vocabularies the
// country set is open: known codes expand to full names, blanks fall back to
// Unknown, and any other value passes through trimmed.
func mapCountry(raw *string) (string, bool) {
	if raw == nil {
		return Unknown, true
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return Unknown, true
	}
	if out, ok := countryVocab[foldKey(trimmed)]; ok {
		return out, out != trimmed
	}
	return trimmed, trimmed != *raw
}

// foldKey lowercases, trims and strips diacritics so vocabulary lookups are
// insensitive to case and accents.
func foldKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// trimmed dereferences and trims an optional string, empty when nil.
func trimmed(raw *string) string {
	if raw == nil {
		return ""
	}
	return strings.TrimSpace(*raw)
}
