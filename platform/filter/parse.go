package filter

import (
	"math"
	"reflect"
	"sort"
	"strings"
)

// Predicate is the conjunction of validated clauses, ordered cheapest first.
// The zero Predicate matches everything.
type Predicate struct {
	clauses []Clause
}

// Clauses returns the clauses in evaluation order.
func (p Predicate) Clauses() []Clause {
	out := make([]Clause, len(p.clauses))
	copy(out, p.clauses)
	return out
}

// Empty reports whether the predicate imposes no constraint.
func (p Predicate) Empty() bool {
	return len(p.clauses) == 0
}

// Match evaluates the predicate against a single record.
func (p Predicate) Match(r Record) bool {
	return p.match(r, newEvalState())
}

func (p Predicate) match(r Record, st *evalState) bool {
	for _, c := range p.clauses {
		if !c.match(r, st) {
			return false
		}
	}
	return true
}

// Parse validates criteria against schema and builds a Predicate.
// Every error it returns wraps ErrInvalidFilter and is an *Error naming the field.
func Parse(schema *Schema, criteria Criteria) (Predicate, error) {
	clauses := make([]Clause, 0, len(criteria))
	for name, raw := range criteria {
		clause, err := parseOne(schema, name, raw)
		if err != nil {
			return Predicate{}, err
		}
		if clause != nil {
			clauses = append(clauses, clause)
		}
	}

	sort.SliceStable(clauses, func(i, j int) bool {
		ci, cj := clauses[i].cost(), clauses[j].cost()
		if ci != cj {
			return ci < cj
		}
		return clauses[i].FieldName() < clauses[j].FieldName()
	})
	return Predicate{clauses: clauses}, nil
}

func parseOne(schema *Schema, name string, raw any) (Clause, error) {
	if schema.search != nil && name == schema.search.Name {
		return parseSearch(*schema.search, raw)
	}

	field, ok := schema.fields[name]
	if !ok {
		return nil, invalid(name, "unknown field")
	}
	if isEmpty(raw) {
		return nil, nil
	}

	if bounds, ok := asRangeObject(raw); ok {
		return parseRange(field, bounds)
	}
	if items, ok := asList(raw); ok {
		return parseList(field, items)
	}

	v, err := coerce(field, raw)
	if err != nil {
		return nil, err
	}
	return Equals{Field: field, Value: v}, nil
}

func parseSearch(search Search, raw any) (Clause, error) {
	if raw == nil {
		return nil, nil
	}
	text, ok := raw.(string)
	if !ok {
		return nil, invalid(search.Name, "search text must be a string")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	return Contains{Search: search, Text: text, folded: newEvalState().fold(text)}, nil
}

func parseList(field Field, items []any) (Clause, error) {
	values := make([]any, 0, len(items))
	seen := make(map[any]struct{}, len(items))
	for _, item := range items {
		if isEmpty(item) {
			continue
		}
		if _, nested := asList(item); nested {
			return nil, invalid(field.Name, "nested lists are not allowed")
		}
		if _, obj := asRangeObject(item); obj {
			return nil, invalid(field.Name, "ranges are not allowed inside a list")
		}
		v, err := coerce(field, item)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return OneOf{Field: field, Values: values}, nil
}

func parseRange(field Field, bounds map[string]any) (Clause, error) {
	if !field.Kind.numeric() {
		return nil, invalid(field.Name, "range requires a number field, got %s", field.Kind)
	}
	r := Range{Field: field}
	for key, raw := range bounds {
		if key != "min" && key != "max" {
			return nil, invalid(field.Name, "unexpected range key %q", key)
		}
		if isEmpty(raw) {
			continue
		}
		n, ok := numberValue(raw)
		if !ok {
			return nil, invalid(field.Name, "range %s must be a number", key)
		}
		if field.Kind == KindInteger && !isWhole(n) {
			return nil, invalid(field.Name, "range %s must be a whole number", key)
		}
		if key == "min" {
			r.Min = &n
		} else {
			r.Max = &n
		}
	}
	if r.Min == nil && r.Max == nil {
		return nil, nil
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return nil, invalid(field.Name, "min %v is greater than max %v", *r.Min, *r.Max)
	}
	return r, nil
}

func coerce(field Field, raw any) (any, error) {
	switch field.Kind {
	case KindString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
		return nil, invalid(field.Name, "expected a string")
	case KindNumber:
		if n, ok := numberValue(raw); ok {
			return n, nil
		}
		return nil, invalid(field.Name, "expected a number")
	case KindInteger:
		n, ok := numberValue(raw)
		if !ok || !isWhole(n) {
			return nil, invalid(field.Name, "expected a whole number")
		}
		return n, nil
	case KindBool:
		if b, ok := boolValue(raw); ok {
			return b, nil
		}
		return nil, invalid(field.Name, "expected a boolean")
	}
	return nil, invalid(field.Name, "unsupported field kind")
}

// isWhole reports whether n is an integer that float64 represents exactly.
func isWhole(n float64) bool {
	return n == math.Trunc(n) && math.Abs(n) < 1<<53
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	if items, ok := asList(v); ok {
		return len(items) == 0
	}
	return false
}

// asList accepts any slice or array except []byte.
func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asRangeObject recognises {min, max} objects: map[string]any from JSON or
// query decoding, and the RangeValue helper type.
func asRangeObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case RangeValue:
		return t.bounds(), true
	case *RangeValue:
		if t == nil {
			return nil, false
		}
		return t.bounds(), true
	}
	return nil, false
}

// RangeValue is a typed convenience for building range criteria in Go code.
type RangeValue struct {
	Min *float64
	Max *float64
}

// between builds a closed range criterion.
func between(min, max float64) RangeValue {
	return RangeValue{Min: &min, Max: &max}
}

// atLeast builds a range criterion with only a lower bound.
func atLeast(min float64) RangeValue {
	return RangeValue{Min: &min}
}

// atMost builds a range criterion with only an upper bound.
func atMost(max float64) RangeValue {
	return RangeValue{Max: &max}
}

func (r RangeValue) bounds() map[string]any {
	m := make(map[string]any, 2)
	if r.Min != nil {
		m["min"] = *r.Min
	}
	if r.Max != nil {
		m["max"] = *r.Max
	}
	return m
}
