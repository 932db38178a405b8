package search

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingField reports a raw hit without a required field. This is a
// data-integrity fault: it propagates to the caller instead of being
// silently defaulted.
var ErrMissingField = errors.New("raw hit missing required field")

// Facilities beyond this count are dropped for display bandwidth; the
// engine's order is preserved, never re-sorted.
const maxFacilities = 3

// rawTrial mirrors the stored document. Pointer fields distinguish absent
// required values from empty ones.
type rawTrial struct {
	NCTID                     *string             `json:"nct_id"`
	BriefTitle                *string             `json:"brief_title"`
	OfficialTitle             string              `json:"official_title"`
	Phase                     string              `json:"phase"`
	OverallStatus             string              `json:"overall_status"`
	Enrollment                *int                `json:"enrollment"`
	Sponsors                  []Sponsor           `json:"sponsors"`
	Facilities                []Facility          `json:"facilities"`
	Conditions                []map[string]string `json:"conditions"`
	BriefSummariesDescription string              `json:"brief_summaries_description"`
	StartDate                 string              `json:"start_date"`
	CompletionDate            string              `json:"completion_date"`
	Age                       []AgeCategory       `json:"age"`
	Gender                    string              `json:"gender"`
	StudyType                 string              `json:"study_type"`
	Source                    string              `json:"source"`
}

// MapHits converts raw hits into trial results in engine order.
func MapHits(hits []Hit) ([]TrialResult, error) {
	results := make([]TrialResult, 0, len(hits))
	for _, hit := range hits {
		result, err := mapHit(hit)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func mapHit(hit Hit) (TrialResult, error) {
	var raw rawTrial
	if err := json.Unmarshal(hit.Source, &raw); err != nil {
		return TrialResult{}, fmt.Errorf("decoding hit %s: %w", hit.ID, err)
	}

	if raw.NCTID == nil {
		return TrialResult{}, fmt.Errorf("hit %s: %w: nct_id", hit.ID, ErrMissingField)
	}
	if raw.BriefTitle == nil {
		return TrialResult{}, fmt.Errorf("hit %s: %w: brief_title", hit.ID, ErrMissingField)
	}

	facilities := raw.Facilities
	if len(facilities) > maxFacilities {
		facilities = facilities[:maxFacilities]
	}

	return TrialResult{
		NCTID:                     *raw.NCTID,
		BriefTitle:                *raw.BriefTitle,
		OfficialTitle:             raw.OfficialTitle,
		Phase:                     raw.Phase,
		OverallStatus:             raw.OverallStatus,
		Enrollment:                raw.Enrollment,
		Sponsors:                  emptyIfNil(raw.Sponsors),
		Facilities:                emptyIfNil(facilities),
		Conditions:                emptyIfNil(raw.Conditions),
		BriefSummariesDescription: raw.BriefSummariesDescription,
		StartDate:                 raw.StartDate,
		CompletionDate:            raw.CompletionDate,
		Age:                       emptyIfNil(raw.Age),
		Gender:                    raw.Gender,
		StudyType:                 raw.StudyType,
		Source:                    raw.Source,
	}, nil
}

// emptyIfNil keeps nested collections as empty ordered sequences rather
// than nulls in the public schema.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
