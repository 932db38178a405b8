package interpreter

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trialsearchd/internal/registry"
)

// normalize validates parsed extractor output against the registry and
// shapes it into Entities. The extractor is only partially trusted: enum
// values outside the valid sets are dropped to absent rather than rejected,
// confidence is clamped into [0, 1], an all-empty location collapses to
// nil, and enrollment bounds given as numeric strings are coerced. It is a
// pure function of the parsed data and the registry, and idempotent.
func normalize(data map[string]any, reg *registry.Registry, logger *zap.Logger) Entities {
	e := Entities{
		Condition:     stringField(data, "condition"),
		Sponsor:       stringField(data, "sponsor"),
		Keyword:       stringField(data, "keyword"),
		Clarification: stringField(data, "clarification"),
		Confidence:    DefaultConfidence,
	}

	if phase := stringField(data, "phase"); phase != "" {
		if reg.ValidPhase(phase) {
			e.Phase = phase
		} else {
			logger.Warn("extractor returned invalid phase", zap.String("phase", phase))
		}
	}

	if status := stringField(data, "status"); status != "" {
		if reg.ValidStatus(status) {
			e.Status = status
		} else {
			logger.Warn("extractor returned invalid status", zap.String("status", status))
		}
	}

	if age := stringField(data, "age_group"); age != "" {
		if reg.ValidAgeGroup(age) {
			e.AgeGroup = age
		} else {
			logger.Warn("extractor returned invalid age_group", zap.String("age_group", age))
		}
	}

	if raw, ok := data["confidence"]; ok {
		if conf, ok := floatValue(raw); ok {
			e.Confidence = clamp(conf, 0.0, 1.0)
		}
	}

	if loc, ok := data["location"].(map[string]any); ok {
		l := &Location{
			City:    stringField(loc, "city"),
			State:   stringField(loc, "state"),
			Country: stringField(loc, "country"),
		}
		if !l.Empty() {
			e.Location = l
		}
	}

	e.EnrollmentMin = intField(data, "enrollment_min")
	e.EnrollmentMax = intField(data, "enrollment_max")

	return e
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// intField coerces an enrollment bound to a non-negative int. Numeric
// strings are accepted; anything else drops the field.
func intField(data map[string]any, key string) *int {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil
	}

	var n int
	switch v := raw.(type) {
	case float64:
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}

	if n < 0 {
		return nil
	}
	return &n
}

func floatValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
