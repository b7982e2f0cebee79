package filter

import (
	"net/url"
	"regexp"
	"slices"
)

var rangeKeyPattern = regexp.MustCompile(`^([A-Za-z0-9_.]+)\[(min|max)\]$`)

// CriteriaFromQuery converts URL query parameters into Criteria:
// k=v becomes a scalar, a repeated k becomes a list and k[min]/k[max]
// become a range object. Keys listed in reserved (pagination, sorting)
// are skipped.
func CriteriaFromQuery(values url.Values, reserved ...string) Criteria {
	criteria := make(Criteria, len(values))
	for key, vals := range values {
		if len(vals) == 0 || slices.Contains(reserved, key) {
			continue
		}

		if m := rangeKeyPattern.FindStringSubmatch(key); m != nil {
			name, bound := m[1], m[2]
			obj, _ := criteria[name].(map[string]any)
			if obj == nil {
				obj = make(map[string]any, 2)
				criteria[name] = obj
			}
			obj[bound] = vals[0]
			continue
		}

		if _, isRange := criteria[key].(map[string]any); isRange {
			// k[min]/k[max] win over a bare k.
			continue
		}
		if len(vals) == 1 {
			criteria[key] = vals[0]
			continue
		}
		list := make([]any, len(vals))
		for i, v := range vals {
			list[i] = v
		}
		criteria[key] = list
	}
	return criteria
}
