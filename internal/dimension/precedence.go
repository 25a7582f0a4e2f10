package dimension

// Source names for master-data precedence.
const (
	SourceCRM = "crm"
	SourceERP = "erp"
)

// Resolver picks an attribute value across sources by a declared precedence
// order rather than per-field rules: the first source in the order whose
// value is present and not the fallback wins. New sources slot in by
// extending the order, not by touching resolver logic.
type Resolver struct {
	order    []string
	fallback string
}

// NewResolver builds a resolver over the given precedence order, highest
// priority first. An empty order defaults to CRM then ERP.
func NewResolver(order []string, fallback string) *Resolver {
	if len(order) == 0 {
		order = []string{SourceCRM, SourceERP}
	}
	return &Resolver{order: append([]string(nil), order...), fallback: fallback}
}

// Resolve returns the winning value among per-source candidates, or the
// fallback when every source is absent or carries the fallback itself.
func (r *Resolver) Resolve(values map[string]string) string {
	for _, source := range r.order {
		if v, ok := values[source]; ok && v != "" && v != r.fallback {
			return v
		}
	}
	return r.fallback
}
