package staging

import "context"

// MemoryStore serves a fixed snapshot. Used in tests and local runs.
type MemoryStore struct {
	snapshot Snapshot
}

// NewMemory builds a staging store over the given snapshot.
func NewMemory(snapshot Snapshot) *MemoryStore {
	return &MemoryStore{snapshot: snapshot}
}

func (s *MemoryStore) Snapshot(_ context.Context) (*Snapshot, error) {
	// Shallow-copy the slices so callers cannot mutate the stored snapshot.
	out := Snapshot{
		Customers:    append([]CustomerRow(nil), s.snapshot.Customers...),
		Products:     append([]ProductRow(nil), s.snapshot.Products...),
		Sales:        append([]SalesRow(nil), s.snapshot.Sales...),
		Demographics: append([]DemographicRow(nil), s.snapshot.Demographics...),
		Locations:    append([]LocationRow(nil), s.snapshot.Locations...),
		Categories:   append([]CategoryRow(nil), s.snapshot.Categories...),
	}
	return &out, nil
}
