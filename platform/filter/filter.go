// Package filter turns sparse, user-supplied criteria into a conjunctive
// predicate over named record attributes.
//
// A Schema declares which attributes are filterable and how they are typed.
// Parse validates criteria against the schema and returns a Predicate, which
// can be evaluated in memory (FilterRecords, Predicate.Match) or compiled
// into a parameterised SQL fragment (Predicate.SQL).
//
// Criteria semantics, per field:
//   - scalar            -> attribute equals the value
//   - list              -> attribute equals any element (OR within the field)
//   - {min, max} object -> inclusive range, either bound may be omitted
//   - string on the schema's search field -> case-insensitive substring over
//     the search attributes
//
// Fields are combined with AND. Absent, nil, empty-string and empty-list
// values impose no constraint. Unknown fields are rejected.
//
// Schemas and Predicates are immutable and safe for concurrent use.
package filter

import (
	"errors"
	"fmt"
)

// Kind is the value type of a filterable attribute.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	// KindInteger is a number restricted to whole values, for integer columns.
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	default:
		return "unknown"
	}
}

// Field declares one filterable attribute.
type Field struct {
	Name   string // criteria key and record attribute name
	Kind   Kind
	Column string // SQL column; defaults to Name
}

func (k Kind) numeric() bool { return k == KindNumber || k == KindInteger }

func (f Field) column() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Search declares the free-text field. Name is the criteria key, Attributes
// are the record attributes scanned in memory and Columns the SQL columns
// scanned by ILIKE.
type Search struct {
	Name       string
	Attributes []string
	Columns    []string
}

// DefaultSearchField is the conventional criteria key for free-text search.
const DefaultSearchField = "search"

// Schema is the set of filterable attributes of one record type.
type Schema struct {
	fields map[string]Field
	search *Search
}

// NewSchema builds a schema. It panics on duplicate field names or a search
// field that collides with a regular field; schemas are declared once at
// package init and a broken one is a programming error.
func NewSchema(search *Search, fields ...Field) *Schema {
	s := &Schema{fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		if _, dup := s.fields[f.Name]; dup {
			panic(fmt.Sprintf("filter: duplicate field %q", f.Name))
		}
		s.fields[f.Name] = f
	}
	if search != nil {
		cp := *search
		if cp.Name == "" {
			cp.Name = DefaultSearchField
		}
		if _, dup := s.fields[cp.Name]; dup {
			panic(fmt.Sprintf("filter: search field %q collides with a regular field", cp.Name))
		}
		s.search = &cp
	}
	return s
}

// Field looks up a regular field by name.
func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// SearchField returns the free-text criteria key, or "" when the schema has none.
func (s *Schema) SearchField() string {
	if s.search == nil {
		return ""
	}
	return s.search.Name
}

// Criteria maps field names to filter values as decoded from JSON or built
// by CriteriaFromQuery.
type Criteria map[string]any

// ErrInvalidFilter is matched by every error Parse returns.
var ErrInvalidFilter = errors.New("invalid filter")

// Error describes why a criterion was rejected.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid filter on %q: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidFilter) match.
func (e *Error) Unwrap() error {
	return ErrInvalidFilter
}

func invalid(field, format string, args ...any) *Error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}
