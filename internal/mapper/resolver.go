package mapper

import (
	"strings"

	"github.com/fieldstack/simport/internal/template"
)

// Mapping records, for each raw header index, which template column it
// feeds, and the inverse lookup used during projection. A raw header with no
// entry is unmapped: its data is dropped from the template output but the
// row it belongs to is still emitted.
type Mapping struct {
	targets []string       // per raw header index; "" means unmapped
	sources map[string]int // template column -> claiming raw header index
}

// Target returns the template column claimed by raw header i, if any.
func (m Mapping) Target(i int) (string, bool) {
	if i < 0 || i >= len(m.targets) || m.targets[i] == "" {
		return "", false
	}
	return m.targets[i], true
}

// Source returns the raw header index feeding a template column, if any.
func (m Mapping) Source(column string) (int, bool) {
	i, ok := m.sources[column]
	return i, ok
}

// Len returns the number of raw headers the mapping was built from.
func (m Mapping) Len() int { return len(m.targets) }

// MappedCount returns how many raw headers resolved to a template column.
func (m Mapping) MappedCount() int { return len(m.sources) }

// Unmapped returns the raw headers (original spelling) that resolved to no
// template column, in input order.
func (m Mapping) Unmapped(rawHeaders []string) []string {
	var out []string
	for i, t := range m.targets {
		if t == "" && i < len(rawHeaders) {
			out = append(out, rawHeaders[i])
		}
	}
	return out
}

// candidate is a template column with its normalized name and aliases, used
// for alias and containment matching.
type candidate struct {
	column  string
	name    string
	aliases []string
}

// Resolve maps each raw header to at most one template column. Headers are
// visited in input order; each tries an exact match on the normalized column
// name, then the column's registered aliases, then fuzzy containment against
// the column name and aliases. A fuzzy probe matching several columns takes
// the first in schema order. A column claimed by an earlier header cannot be
// claimed again; the later header is left unmapped rather than letting two
// sources silently fight over one field.
//
// Resolve is pure and order-sensitive: same headers and schema, same mapping.
func Resolve(rawHeaders []string, schema *template.Schema) Mapping {
	candidates := make([]candidate, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		c := candidate{column: col, name: Normalize(col)}
		for _, a := range schema.Aliases[col] {
			if n := Normalize(a); n != "" {
				c.aliases = append(c.aliases, n)
			}
		}
		candidates = append(candidates, c)
	}

	m := Mapping{
		targets: make([]string, len(rawHeaders)),
		sources: make(map[string]int, len(rawHeaders)),
	}

	for i, raw := range rawHeaders {
		target := resolveOne(Normalize(raw), candidates)
		if target == "" {
			continue
		}
		if _, claimed := m.sources[target]; claimed {
			continue // first claim wins
		}
		m.targets[i] = target
		m.sources[target] = i
	}

	return m
}

// resolveOne applies the exact -> alias -> fuzzy precedence for a single
// normalized header. Ties at each stage go to the first column in schema
// order, which keeps resolution deterministic.
func resolveOne(header string, candidates []candidate) string {
	if header == "" {
		return ""
	}

	for _, c := range candidates {
		if header == c.name {
			return c.column
		}
	}

	for _, c := range candidates {
		for _, alias := range c.aliases {
			if header == alias {
				return c.column
			}
		}
	}

	for _, c := range candidates {
		if containsEither(header, c.name) {
			return c.column
		}
		for _, alias := range c.aliases {
			if containsEither(header, alias) {
				return c.column
			}
		}
	}

	return ""
}

// containsEither reports whether one normalized string contains the other.
func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
