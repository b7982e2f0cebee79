package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Clause is one constraint of a Predicate. The concrete types are Equals,
// OneOf, Range and Contains.
type Clause interface {
	FieldName() string
	cost() int
	match(r Record, st *evalState) bool
	writeSQL(b *sqlBuilder)
}

// Equals requires the attribute to equal Value. Strings compare case-sensitively.
type Equals struct {
	Field Field
	Value any // string, float64 or bool depending on Field.Kind
}

// OneOf requires the attribute to equal at least one of Values.
type OneOf struct {
	Field  Field
	Values []any
}

// Range requires Min <= attribute <= Max. A nil bound is open.
type Range struct {
	Field Field
	Min   *float64
	Max   *float64
}

// Contains requires at least one search attribute to contain Text,
// compared under Unicode case folding.
type Contains struct {
	Search Search
	Text   string
	folded string
}

func (c Equals) FieldName() string   { return c.Field.Name }
func (c OneOf) FieldName() string    { return c.Field.Name }
func (c Range) FieldName() string    { return c.Field.Name }
func (c Contains) FieldName() string { return c.Search.Name }

func (Equals) cost() int   { return 0 }
func (OneOf) cost() int    { return 1 }
func (Range) cost() int    { return 2 }
func (Contains) cost() int { return 3 }

// evalState carries per-evaluation scratch that must not be shared between
// goroutines.
type evalState struct {
	folder cases.Caser
}

func newEvalState() *evalState {
	return &evalState{folder: cases.Fold()}
}

func (st *evalState) fold(s string) string {
	return st.folder.String(s)
}

func (c Equals) match(r Record, _ *evalState) bool {
	v, ok := attribute(r, c.Field)
	return ok && v == c.Value
}

func (c OneOf) match(r Record, _ *evalState) bool {
	v, ok := attribute(r, c.Field)
	if !ok {
		return false
	}
	for _, want := range c.Values {
		if v == want {
			return true
		}
	}
	return false
}

func (c Range) match(r Record, _ *evalState) bool {
	v, ok := attribute(r, c.Field)
	if !ok {
		return false
	}
	n := v.(float64)
	if c.Min != nil && n < *c.Min {
		return false
	}
	if c.Max != nil && n > *c.Max {
		return false
	}
	return true
}

func (c Contains) match(r Record, st *evalState) bool {
	for _, name := range c.Search.Attributes {
		raw, ok := r.Attribute(name)
		if !ok {
			continue
		}
		s, ok := stringValue(raw)
		if !ok {
			continue
		}
		if strings.Contains(st.fold(s), c.folded) {
			return true
		}
	}
	return false
}

// attribute reads a record attribute and normalises it to the field kind.
// Missing, nil or mistyped attributes never match.
func attribute(r Record, f Field) (any, bool) {
	raw, ok := r.Attribute(f.Name)
	if !ok || raw == nil {
		return nil, false
	}
	switch f.Kind {
	case KindString:
		s, ok := stringValue(raw)
		return s, ok
	case KindNumber, KindInteger:
		n, ok := numberValue(raw)
		return n, ok
	case KindBool:
		b, ok := boolValue(raw)
		return b, ok
	}
	return nil, false
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case *string:
		if t == nil {
			return "", false
		}
		return *t, true
	case fmt.Stringer:
		return t.String(), true
	}
	return "", false
}

func numberValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t)
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case *float64:
		if t == nil {
			return 0, false
		}
		return *t, true
	case *int:
		if t == nil {
			return 0, false
		}
		return float64(*t), true
	case interface{ Float64() (float64, error) }: // json.Number
		n, err := t.Float64()
		return n, err == nil
	case interface{ Float64() (float64, bool) }: // decimal.Decimal
		n, _ := t.Float64()
		return n, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return n, err == nil && !math.IsNaN(n) && !math.IsInf(n, 0)
	}
	return 0, false
}

func boolValue(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case *bool:
		if t == nil {
			return false, false
		}
		return *t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	}
	return false, false
}
