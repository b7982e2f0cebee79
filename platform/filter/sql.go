package filter

import (
	"strconv"
	"strings"
)

type sqlBuilder struct {
	parts []string
	args  []any
	next  int
}

func (b *sqlBuilder) placeholder(v any) string {
	b.args = append(b.args, v)
	p := "$" + strconv.Itoa(b.next)
	b.next++
	return p
}

// SQL compiles the predicate into a parameterised WHERE fragment (without
// the WHERE keyword) whose placeholders start at $firstArg. Values only ever
// travel as arguments. An empty predicate yields "" and no args.
func (p Predicate) SQL(firstArg int) (string, []any) {
	if firstArg < 1 {
		firstArg = 1
	}
	b := &sqlBuilder{next: firstArg}
	for _, c := range p.clauses {
		c.writeSQL(b)
	}
	return strings.Join(b.parts, " AND "), b.args
}

// BuildPredicate parses criteria against schema and compiles the result in
// one step, for storage code that never needs the in-memory form.
func BuildPredicate(schema *Schema, criteria Criteria, firstArg int) (string, []any, error) {
	p, err := Parse(schema, criteria)
	if err != nil {
		return "", nil, err
	}
	where, args := p.SQL(firstArg)
	return where, args, nil
}

func (c Equals) writeSQL(b *sqlBuilder) {
	b.parts = append(b.parts, c.Field.column()+" = "+b.placeholder(sqlScalar(c.Value)))
}

func (c OneOf) writeSQL(b *sqlBuilder) {
	b.parts = append(b.parts, c.Field.column()+" = ANY("+b.placeholder(sqlArray(c.Field.Kind, c.Values))+")")
}

func (c Range) writeSQL(b *sqlBuilder) {
	col := c.Field.column()
	switch {
	case c.Min != nil && c.Max != nil:
		b.parts = append(b.parts, col+" BETWEEN "+b.placeholder(sqlScalar(*c.Min))+" AND "+b.placeholder(sqlScalar(*c.Max)))
	case c.Min != nil:
		b.parts = append(b.parts, col+" >= "+b.placeholder(sqlScalar(*c.Min)))
	case c.Max != nil:
		b.parts = append(b.parts, col+" <= "+b.placeholder(sqlScalar(*c.Max)))
	}
}

func (c Contains) writeSQL(b *sqlBuilder) {
	if len(c.Search.Columns) == 0 {
		// No searchable columns: nothing can contain the text.
		b.parts = append(b.parts, "FALSE")
		return
	}
	ph := b.placeholder("%" + EscapeLike(c.Text) + "%")
	ors := make([]string, len(c.Search.Columns))
	for i, col := range c.Search.Columns {
		ors[i] = col + " ILIKE " + ph
	}
	b.parts = append(b.parts, "("+strings.Join(ors, " OR ")+")")
}

// EscapeLike escapes LIKE/ILIKE wildcards using the default backslash escape.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// sqlScalar sends whole numbers as int64 so they bind to integer columns.
func sqlScalar(v any) any {
	if f, ok := v.(float64); ok && isWhole(f) {
		return int64(f)
	}
	return v
}

func sqlArray(kind Kind, values []any) any {
	switch kind {
	case KindString:
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = v.(string)
		}
		return out
	case KindBool:
		out := make([]bool, len(values))
		for i, v := range values {
			out[i] = v.(bool)
		}
		return out
	}

	whole := true
	for _, v := range values {
		if !isWhole(v.(float64)) {
			whole = false
			break
		}
	}
	if whole {
		out := make([]int64, len(values))
		for i, v := range values {
			out[i] = int64(v.(float64))
		}
		return out
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.(float64)
	}
	return out
}
