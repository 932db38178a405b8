// Package interpreter turns free-text clinical-trials search queries into
// a validated entity structure. It builds extraction instructions from the
// domain registry, invokes the LLM, recovers a JSON object from the reply,
// and normalizes the result against the registry. Every failure mode
// degrades to a valid low-confidence structure; Interpret never returns an
// error.
package interpreter

// Location is a geographic filter. Each sub-field is independently
// optional; a Location with no sub-fields set is represented as nil.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Empty reports whether no sub-field is set.
func (l *Location) Empty() bool {
	return l == nil || (l.City == "" && l.State == "" && l.Country == "")
}

// Entities is the canonical interpretation of a search query. Zero values
// mean the field was not extracted. Confidence is always set and lies in
// [0, 1].
type Entities struct {
	Phase         string    `json:"phase,omitempty"`
	Condition     string    `json:"condition,omitempty"`
	Status        string    `json:"status,omitempty"`
	Location      *Location `json:"location,omitempty"`
	Sponsor       string    `json:"sponsor,omitempty"`
	Keyword       string    `json:"keyword,omitempty"`
	AgeGroup      string    `json:"age_group,omitempty"`
	EnrollmentMin *int      `json:"enrollment_min,omitempty"`
	EnrollmentMax *int      `json:"enrollment_max,omitempty"`
	Confidence    float64   `json:"confidence"`
	Clarification string    `json:"clarification,omitempty"`
}

// DefaultConfidence applies when the extractor omits a confidence score.
const DefaultConfidence = 0.8

// Empty reports whether no filterable field was extracted.
func (e Entities) Empty() bool {
	return e.Phase == "" && e.Condition == "" && e.Status == "" &&
		e.Location.Empty() && e.Sponsor == "" && e.Keyword == "" &&
		e.AgeGroup == "" && e.EnrollmentMin == nil && e.EnrollmentMax == nil
}
