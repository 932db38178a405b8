package index

import (
	"fmt"
	"strconv"
	"strings"
)

// Source dumps encode missing values as sentinel strings.
var noneStrings = map[string]struct{}{
	"None": {},
	"NA":   {},
	"N/A":  {},
	"":     {},
}

var keywordFields = []string{
	"nct_id", "phase", "overall_status", "gender", "study_type",
	"intervention_model", "primary_purpose", "source", "acronym",
	"allocation", "masking", "minimum_age", "maximum_age",
}

var textFields = []string{
	"brief_title", "official_title",
	"brief_summaries_description", "detailed_description",
}

var dateFields = []string{
	"start_date", "completion_date", "primary_completion_date",
}

var nestedFields = []string{
	"sponsors", "facilities", "design_outcomes", "age",
	"conditions", "interventions", "keywords",
	"browse_conditions", "browse_interventions",
}

// Transform normalizes a raw trial document for indexing: sentinel
// strings become nulls, enrollment and boolean fields are coerced to
// typed values, and nested arrays are always present.
func Transform(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))

	for _, field := range keywordFields {
		out[field] = cleanString(doc[field])
	}
	for _, field := range textFields {
		if s, ok := doc[field].(string); ok {
			if _, none := noneStrings[strings.TrimSpace(s)]; none {
				out[field] = nil
				continue
			}
		}
		out[field] = doc[field]
	}

	out["enrollment"] = parseEnrollment(doc["enrollment"])

	for _, field := range dateFields {
		out[field] = doc[field]
	}

	out["healthy_volunteers"] = parseBoolean(doc["healthy_volunteers"])
	out["has_results"] = parseBoolean(doc["has_results"])

	for _, field := range nestedFields {
		if v, ok := doc[field].([]any); ok && v != nil {
			out[field] = v
		} else {
			out[field] = []any{}
		}
	}

	return out
}

// cleanString converts sentinel strings to nil and everything else to
// its string form.
func cleanString(value any) any {
	if value == nil {
		return nil
	}
	if s, ok := value.(string); ok {
		if _, none := noneStrings[strings.TrimSpace(s)]; none {
			return nil
		}
		return s
	}
	return fmt.Sprintf("%v", value)
}

// parseEnrollment coerces enrollment counts to integers, nil on
// anything unparseable.
func parseEnrollment(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return int(v)
	case int:
		return v
	case string:
		cleaned := strings.TrimSpace(v)
		if _, none := noneStrings[cleaned]; none {
			return nil
		}
		n, err := strconv.Atoi(cleaned)
		if err != nil {
			return nil
		}
		return n
	default:
		return nil
	}
}

// parseBoolean accepts the boolean spellings seen in source dumps.
func parseBoolean(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
		return nil
	default:
		return nil
	}
}
