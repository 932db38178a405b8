package search

// Sponsor is one sponsoring organization of a trial.
type Sponsor struct {
	Name               string `json:"name"`
	AgencyClass        string `json:"agency_class,omitempty"`
	LeadOrCollaborator string `json:"lead_or_collaborator,omitempty"`
}

// Facility is one site where a trial runs.
type Facility struct {
	Name    string `json:"name,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
	Status  string `json:"status,omitempty"`
}

// AgeCategory tags a trial with a target age group.
type AgeCategory struct {
	AgeCategory string `json:"age_category"`
}

// TrialResult is the public result schema for one trial. Records are built
// fresh per search response and never mutated afterwards.
type TrialResult struct {
	NCTID                     string              `json:"nct_id"`
	BriefTitle                string              `json:"brief_title"`
	OfficialTitle             string              `json:"official_title,omitempty"`
	Phase                     string              `json:"phase,omitempty"`
	OverallStatus             string              `json:"overall_status,omitempty"`
	Enrollment                *int                `json:"enrollment,omitempty"`
	Sponsors                  []Sponsor           `json:"sponsors"`
	Facilities                []Facility          `json:"facilities"`
	Conditions                []map[string]string `json:"conditions"`
	BriefSummariesDescription string              `json:"brief_summaries_description,omitempty"`
	StartDate                 string              `json:"start_date,omitempty"`
	CompletionDate            string              `json:"completion_date,omitempty"`
	Age                       []AgeCategory       `json:"age"`
	Gender                    string              `json:"gender,omitempty"`
	StudyType                 string              `json:"study_type,omitempty"`
	Source                    string              `json:"source,omitempty"`
}
