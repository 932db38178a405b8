// Package registry holds the static clinical-trials domain vocabulary:
// valid enumeration values for phase, recruitment status, and age group,
// plus the synonym tables used to build extraction prompts and to
// validate extractor output.
//
// A Registry is built once at process start and is read-only afterwards,
// so it is safe to share across concurrent requests.
package registry

// Registry is the immutable domain vocabulary.
type Registry struct {
	statusSynonyms  map[string]string
	phaseMappings   map[string]string
	ageSynonyms     map[string]string
	locationAliases map[string]string

	validPhases    map[string]struct{}
	validStatuses  map[string]struct{}
	validAgeGroups map[string]struct{}
}

// New constructs the registry with the built-in vocabulary.
func New() *Registry {
	return &Registry{
		statusSynonyms: map[string]string{
			"open":        "RECRUITING",
			"recruiting":  "RECRUITING",
			"active":      "RECRUITING",
			"enrolling":   "RECRUITING",
			"running":     "RECRUITING",
			"closed":      "COMPLETED",
			"finished":    "COMPLETED",
			"completed":   "COMPLETED",
			"done":        "COMPLETED",
			"upcoming":    "NOT_YET_RECRUITING",
			"not started": "NOT_YET_RECRUITING",
			"planned":     "NOT_YET_RECRUITING",
			"ongoing":     "ACTIVE_NOT_RECRUITING",
			"paused":      "SUSPENDED",
			"halted":      "SUSPENDED",
			"stopped":     "TERMINATED",
			"ended early": "TERMINATED",
		},
		phaseMappings: map[string]string{
			"phase 1":      "PHASE1",
			"phase i":      "PHASE1",
			"p1":           "PHASE1",
			"phase 1/2":    "PHASE1/PHASE2",
			"phase i/ii":   "PHASE1/PHASE2",
			"phase 2":      "PHASE2",
			"phase ii":     "PHASE2",
			"p2":           "PHASE2",
			"phase 2/3":    "PHASE2/PHASE3",
			"phase ii/iii": "PHASE2/PHASE3",
			"phase 3":      "PHASE3",
			"phase iii":    "PHASE3",
			"p3":           "PHASE3",
			"phase 4":      "PHASE4",
			"phase iv":     "PHASE4",
			"p4":           "PHASE4",
		},
		ageSynonyms: map[string]string{
			"pediatric": "child",
			"children":  "child",
			"kids":      "child",
			"elderly":   "older-adults",
			"seniors":   "older-adults",
			"geriatric": "older-adults",
			"teens":     "adolescent",
			"teenagers": "adolescent",
			"babies":    "infant",
			"neonatal":  "infant",
			"newborn":   "infant",
		},
		locationAliases: map[string]string{
			"usa":           "United States",
			"us":            "United States",
			"united states": "United States",
			"america":       "United States",
			"uk":            "United Kingdom",
			"britain":       "United Kingdom",
			"england":       "United Kingdom",
		},
		validPhases: toSet(phaseValues),
		validStatuses: toSet(statusValues),
		validAgeGroups: toSet(ageGroupValues),
	}
}

var (
	phaseValues = []string{
		"NA", "PHASE1", "PHASE1/PHASE2", "PHASE2",
		"PHASE2/PHASE3", "PHASE3", "PHASE4", "Phase NA",
	}
	statusValues = []string{
		"ACTIVE_NOT_RECRUITING", "COMPLETED", "NOT_YET_RECRUITING",
		"RECRUITING", "SUSPENDED", "TERMINATED", "UNKNOWN", "WITHDRAWN",
	}
	ageGroupValues = []string{
		"adult", "older-adults", "child", "adolescent", "infant", "toddler",
	}
)

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// ValidPhase reports whether v is a known trial phase value.
func (r *Registry) ValidPhase(v string) bool {
	_, ok := r.validPhases[v]
	return ok
}

// ValidStatus reports whether v is a known recruitment status value.
func (r *Registry) ValidStatus(v string) bool {
	_, ok := r.validStatuses[v]
	return ok
}

// ValidAgeGroup reports whether v is a known age-group value.
func (r *Registry) ValidAgeGroup(v string) bool {
	_, ok := r.validAgeGroups[v]
	return ok
}

// Phases returns the valid phase values in stable order.
func (r *Registry) Phases() []string { return phaseValues }

// Statuses returns the valid recruitment status values in stable order.
func (r *Registry) Statuses() []string { return statusValues }

// AgeGroups returns the valid age-group values in stable order.
func (r *Registry) AgeGroups() []string { return ageGroupValues }

// StatusSynonyms returns the user-term to status-enum table.
func (r *Registry) StatusSynonyms() map[string]string { return r.statusSynonyms }

// PhaseMappings returns the user-term to phase-enum table.
func (r *Registry) PhaseMappings() map[string]string { return r.phaseMappings }

// AgeGroupSynonyms returns the user-term to age-group table.
func (r *Registry) AgeGroupSynonyms() map[string]string { return r.ageSynonyms }

// LocationAliases returns the location-name normalization table.
func (r *Registry) LocationAliases() map[string]string { return r.locationAliases }
