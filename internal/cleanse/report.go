// Package cleanse implements the row-local repair rules of the pipeline:
// whitespace trimming, categorical remapping to closed vocabularies,
// composite-key decomposition, known-prefix stripping and numeric defaulting.
// Rules never reject a row; the only drops are rows with a null business key.
package cleanse

// Reporter receives repair and drop counts so the caller can surface them as
// metrics. Implementations must be safe for concurrent use: entity
// normalizers run in parallel.
type Reporter interface {
	Repaired(entity, reason string, n int)
	Dropped(entity, reason string, n int)
}

// NopReporter discards all counts.
type NopReporter struct{}

func (NopReporter) Repaired(string, string, int) {}
func (NopReporter) Dropped(string, string, int)  {}

// Drop and repair reasons reported by the normalizers.
const (
	ReasonNullBusinessKey = "null_business_key"
	ReasonOutOfVocabulary = "out_of_vocabulary"
	ReasonMissingValue    = "missing_value"
	ReasonNegativeValue   = "negative_value"
	ReasonKeyFormat       = "key_format"
)
