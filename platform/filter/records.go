package filter

// Record exposes named attributes to the filter. Missing attributes report ok=false.
type Record interface {
	Attribute(name string) (any, bool)
}

// Map is a Record backed by a plain map.
type Map map[string]any

// Attribute implements Record.
func (m Map) Attribute(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// FilterRecords returns the records matching every criterion, preserving
// input order. Empty criteria return all records.
func FilterRecords[R Record](records []R, schema *Schema, criteria Criteria) ([]R, error) {
	pred, err := Parse(schema, criteria)
	if err != nil {
		return nil, err
	}
	return Apply(pred, records), nil
}

// Apply filters records in memory. The result never aliases the input slice.
func Apply[R Record](p Predicate, records []R) []R {
	st := newEvalState()
	out := make([]R, 0, len(records))
	for _, r := range records {
		if p.match(r, st) {
			out = append(out, r)
		}
	}
	return out
}
