package query

import "github.com/fyrsmithlabs/trialsearchd/internal/interpreter"

// Compile deterministically turns entities into a query clause. It is pure
// and total: well-formed entities always compile, and an entity structure
// with no fields set compiles to match_all rather than an empty bool
// wrapper.
func Compile(e interpreter.Entities) Clause {
	var must, filter []Clause

	if e.Phase != "" {
		filter = append(filter, Term{Field: "phase", Value: e.Phase})
	}
	if e.Status != "" {
		filter = append(filter, Term{Field: "overall_status", Value: e.Status})
	}

	if e.Condition != "" {
		must = append(must, MultiMatch{
			Query: e.Condition,
			Fields: []string{
				"brief_title^3",
				"official_title^2",
				"brief_summaries_description",
			},
			Type:      "best_fields",
			Fuzziness: "AUTO",
		})
	}

	// Keywords are exact technical tokens (gene and drug names), so they
	// get phrase-prefix matching instead of fuzzy prose matching.
	if e.Keyword != "" {
		must = append(must, MultiMatch{
			Query: e.Keyword,
			Fields: []string{
				"brief_title^2",
				"official_title^2",
				"brief_summaries_description",
				"detailed_description",
			},
			Type: "phrase_prefix",
		})
	}

	if loc := locationClause(e.Location); loc != nil {
		filter = append(filter, loc)
	}

	if e.Sponsor != "" {
		filter = append(filter, Nested{
			Path:  "sponsors",
			Query: Match{Field: "sponsors.name", Query: e.Sponsor},
		})
	}

	if e.AgeGroup != "" {
		filter = append(filter, Nested{
			Path:  "age",
			Query: Term{Field: "age.age_category", Value: e.AgeGroup},
		})
	}

	if e.EnrollmentMin != nil || e.EnrollmentMax != nil {
		filter = append(filter, Range{
			Field: "enrollment",
			GTE:   e.EnrollmentMin,
			LTE:   e.EnrollmentMax,
		})
	}

	if len(must) == 0 && len(filter) == 0 {
		return MatchAll{}
	}
	return Bool{Must: must, Filter: filter}
}

// locationClause builds the nested facilities filter from the sub-fields
// that are present. Normalization collapses empty locations before
// compilation, but an all-empty filter is still handled defensively.
func locationClause(loc *interpreter.Location) Clause {
	if loc == nil {
		return nil
	}

	var terms []Clause
	if loc.Country != "" {
		terms = append(terms, Term{Field: "facilities.country", Value: loc.Country})
	}
	if loc.State != "" {
		terms = append(terms, Term{Field: "facilities.state", Value: loc.State})
	}
	if loc.City != "" {
		terms = append(terms, Term{Field: "facilities.city", Value: loc.City})
	}
	if len(terms) == 0 {
		return nil
	}

	return Nested{
		Path:  "facilities",
		Query: Bool{Must: terms},
	}
}
