// Package query compiles canonical entities into the Elasticsearch query
// DSL. Clauses form a small closed set of variants (term, range,
// multi_match, nested, bool, match_all); each variant knows how to
// serialize itself to the engine's grammar.
package query

import "encoding/json"

// Clause is one node of the query tree. Every variant serializes to the
// engine's JSON grammar via json.Marshaler.
type Clause interface {
	json.Marshaler
}

// MatchAll matches every document.
type MatchAll struct{}

// MarshalJSON implements json.Marshaler.
func (MatchAll) MarshalJSON() ([]byte, error) {
	return []byte(`{"match_all":{}}`), nil
}

// Term is an exact-value clause on a keyword field.
type Term struct {
	Field string
	Value string
}

// MarshalJSON implements json.Marshaler.
func (t Term) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]string{
		"term": {t.Field: t.Value},
	})
}

// Range restricts a numeric field. Only the bounds that are set are
// emitted.
type Range struct {
	Field string
	GTE   *int
	LTE   *int
}

// MarshalJSON implements json.Marshaler.
func (r Range) MarshalJSON() ([]byte, error) {
	bounds := make(map[string]int, 2)
	if r.GTE != nil {
		bounds["gte"] = *r.GTE
	}
	if r.LTE != nil {
		bounds["lte"] = *r.LTE
	}
	return json.Marshal(map[string]map[string]map[string]int{
		"range": {r.Field: bounds},
	})
}

// MultiMatch scores a text query across several fields.
type MultiMatch struct {
	Query     string
	Fields    []string
	Type      string // best_fields, phrase_prefix, bool_prefix
	Fuzziness string // empty omits the parameter
}

// MarshalJSON implements json.Marshaler.
func (m MultiMatch) MarshalJSON() ([]byte, error) {
	body := map[string]any{
		"query":  m.Query,
		"fields": m.Fields,
	}
	if m.Type != "" {
		body["type"] = m.Type
	}
	if m.Fuzziness != "" {
		body["fuzziness"] = m.Fuzziness
	}
	return json.Marshal(map[string]any{"multi_match": body})
}

// Match is a single-field full-text clause.
type Match struct {
	Field string
	Query string
}

// MarshalJSON implements json.Marshaler.
func (m Match) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]string{
		"match": {m.Field: m.Query},
	})
}

// Nested scopes a query to an array-valued embedded object, evaluated
// per element.
type Nested struct {
	Path  string
	Query Clause
}

// MarshalJSON implements json.Marshaler.
func (n Nested) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"nested": map[string]any{
			"path":  n.Path,
			"query": n.Query,
		},
	})
}

// Bool combines clauses. Must clauses contribute to relevance scoring;
// Filter clauses restrict without scoring. Empty lists are omitted.
type Bool struct {
	Must   []Clause
	Filter []Clause
}

// MarshalJSON implements json.Marshaler.
func (b Bool) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, 2)
	if len(b.Must) > 0 {
		body["must"] = b.Must
	}
	if len(b.Filter) > 0 {
		body["filter"] = b.Filter
	}
	return json.Marshal(map[string]any{"bool": body})
}
