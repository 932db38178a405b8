package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformSentinelStrings(t *testing.T) {
	out := Transform(map[string]any{
		"nct_id":      "NCT00001",
		"phase":       "NA",
		"gender":      "None",
		"source":      "  ",
		"brief_title": "N/A",
	})

	assert.Equal(t, "NCT00001", out["nct_id"])
	assert.Nil(t, out["phase"])
	assert.Nil(t, out["gender"])
	assert.Nil(t, out["source"])
	assert.Nil(t, out["brief_title"])
}

func TestTransformEnrollment(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  any
	}{
		{"numeric string", "250", 250},
		{"padded string", " 42 ", 42},
		{"json number", float64(100), 100},
		{"sentinel", "NA", nil},
		{"garbage", "many", nil},
		{"missing", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Transform(map[string]any{"enrollment": tc.input})
			assert.Equal(t, tc.want, out["enrollment"])
		})
	}
}

func TestTransformBooleans(t *testing.T) {
	out := Transform(map[string]any{
		"healthy_volunteers": "Yes",
		"has_results":        "false",
	})
	assert.Equal(t, true, out["healthy_volunteers"])
	assert.Equal(t, false, out["has_results"])

	out = Transform(map[string]any{"healthy_volunteers": "maybe"})
	assert.Nil(t, out["healthy_volunteers"])
}

func TestTransformNestedArraysAlwaysPresent(t *testing.T) {
	out := Transform(map[string]any{
		"sponsors": []any{map[string]any{"name": "NCI"}},
	})

	assert.Len(t, out["sponsors"], 1)
	assert.Equal(t, []any{}, out["facilities"])
	assert.Equal(t, []any{}, out["conditions"])
	assert.Equal(t, []any{}, out["age"])
}

func TestTransformPassesTextAndDatesThrough(t *testing.T) {
	out := Transform(map[string]any{
		"brief_title": "A Study of Something",
		"start_date":  "2024-01-15",
	})
	assert.Equal(t, "A Study of Something", out["brief_title"])
	assert.Equal(t, "2024-01-15", out["start_date"])
}
