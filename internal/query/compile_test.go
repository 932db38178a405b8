package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/trialsearchd/internal/interpreter"
)

func marshal(t *testing.T, c Clause) string {
	t.Helper()
	data, err := json.Marshal(c)
	require.NoError(t, err)
	return string(data)
}

// asMap round-trips a clause through JSON for structural assertions.
func asMap(t *testing.T, c Clause) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(marshal(t, c)), &m))
	return m
}

func TestCompileEmptyEntitiesMatchAll(t *testing.T) {
	got := Compile(interpreter.Entities{Confidence: 0.8})
	assert.JSONEq(t, `{"match_all":{}}`, marshal(t, got))
}

func TestCompileExactFieldsAreFilters(t *testing.T) {
	got := asMap(t, Compile(interpreter.Entities{Phase: "PHASE2", Status: "RECRUITING"}))

	boolQ := got["bool"].(map[string]any)
	assert.Nil(t, boolQ["must"], "term clauses must not contribute to scoring")

	filters := boolQ["filter"].([]any)
	require.Len(t, filters, 2)
	assert.Equal(t, map[string]any{"term": map[string]any{"phase": "PHASE2"}}, filters[0])
	assert.Equal(t, map[string]any{"term": map[string]any{"overall_status": "RECRUITING"}}, filters[1])
}

func TestCompileConditionFuzzyBestFields(t *testing.T) {
	got := asMap(t, Compile(interpreter.Entities{Condition: "Breast Cancer"}))

	must := got["bool"].(map[string]any)["must"].([]any)
	require.Len(t, must, 1)

	mm := must[0].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "Breast Cancer", mm["query"])
	assert.Equal(t, "best_fields", mm["type"])
	assert.Equal(t, "AUTO", mm["fuzziness"])
	assert.Equal(t, []any{"brief_title^3", "official_title^2", "brief_summaries_description"}, mm["fields"])
}

func TestCompileKeywordPhrasePrefix(t *testing.T) {
	got := asMap(t, Compile(interpreter.Entities{Keyword: "BRCA1"}))

	mm := got["bool"].(map[string]any)["must"].([]any)[0].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "phrase_prefix", mm["type"])
	assert.NotContains(t, mm, "fuzziness")
	assert.Equal(t, []any{"brief_title^2", "official_title^2", "brief_summaries_description", "detailed_description"}, mm["fields"])
}

func TestCompileLocationNested(t *testing.T) {
	got := asMap(t, Compile(interpreter.Entities{
		Location: &interpreter.Location{Country: "United States", City: "Boston"},
	}))

	filters := got["bool"].(map[string]any)["filter"].([]any)
	require.Len(t, filters, 1)

	nested := filters[0].(map[string]any)["nested"].(map[string]any)
	assert.Equal(t, "facilities", nested["path"])

	inner := nested["query"].(map[string]any)["bool"].(map[string]any)["must"].([]any)
	require.Len(t, inner, 2, "only present sub-fields are combined")
	assert.Equal(t, map[string]any{"term": map[string]any{"facilities.country": "United States"}}, inner[0])
	assert.Equal(t, map[string]any{"term": map[string]any{"facilities.city": "Boston"}}, inner[1])
}

func TestCompileEmptyLocationDefensive(t *testing.T) {
	// Normalization should collapse this before compilation, but the
	// compiler must still not emit an empty nested clause.
	got := Compile(interpreter.Entities{Location: &interpreter.Location{}})
	assert.JSONEq(t, `{"match_all":{}}`, marshal(t, got))
}

func TestCompileSponsorAndAgeGroup(t *testing.T) {
	got := asMap(t, Compile(interpreter.Entities{Sponsor: "Pfizer", AgeGroup: "child"}))

	filters := got["bool"].(map[string]any)["filter"].([]any)
	require.Len(t, filters, 2)

	sponsor := filters[0].(map[string]any)["nested"].(map[string]any)
	assert.Equal(t, "sponsors", sponsor["path"])
	assert.Equal(t, map[string]any{"match": map[string]any{"sponsors.name": "Pfizer"}}, sponsor["query"])

	age := filters[1].(map[string]any)["nested"].(map[string]any)
	assert.Equal(t, "age", age["path"])
	assert.Equal(t, map[string]any{"term": map[string]any{"age.age_category": "child"}}, age["query"])
}

func TestCompileEnrollmentRange(t *testing.T) {
	minV, maxV := 50, 200
	got := asMap(t, Compile(interpreter.Entities{EnrollmentMin: &minV, EnrollmentMax: &maxV}))

	filters := got["bool"].(map[string]any)["filter"].([]any)
	require.Len(t, filters, 1)
	r := filters[0].(map[string]any)["range"].(map[string]any)["enrollment"].(map[string]any)
	assert.Equal(t, float64(50), r["gte"])
	assert.Equal(t, float64(200), r["lte"])
}

func TestCompileEnrollmentMinOnly(t *testing.T) {
	minV := 100
	got := asMap(t, Compile(interpreter.Entities{EnrollmentMin: &minV}))

	r := got["bool"].(map[string]any)["filter"].([]any)[0].(map[string]any)["range"].(map[string]any)["enrollment"].(map[string]any)
	assert.Equal(t, float64(100), r["gte"])
	assert.NotContains(t, r, "lte")
}

func TestCompileMixedMustAndFilter(t *testing.T) {
	got := asMap(t, Compile(interpreter.Entities{
		Condition: "Diabetes",
		Status:    "RECRUITING",
	}))

	boolQ := got["bool"].(map[string]any)
	assert.Len(t, boolQ["must"], 1)
	assert.Len(t, boolQ["filter"], 1)
}

func TestCompileDeterministic(t *testing.T) {
	e := interpreter.Entities{
		Phase:     "PHASE3",
		Condition: "Melanoma",
		Sponsor:   "NCI",
	}
	assert.Equal(t, marshal(t, Compile(e)), marshal(t, Compile(e)))
}
