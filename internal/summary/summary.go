// Package summary generates a short cited overview of search results via
// the LLM. Summaries are best-effort: every failure degrades to no summary
// rather than an error.
package summary

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trialsearchd/internal/llm"
	"github.com/fyrsmithlabs/trialsearchd/internal/search"
)

// At most this many results feed the summary context.
const maxTrialsInContext = 10

const systemPrompt = `You are a clinical trials research assistant. Synthesize the provided clinical trial results into a concise overview.

Rules:
1. Write 3-5 sentences summarizing the key findings across the trials
2. Include numbered citation markers [1], [2], etc. to reference specific trials
3. Citation numbers correspond to the trial's position in the results (1-indexed)
4. Focus on: trial phases, conditions being studied, recruiting status, sponsor patterns, and notable enrollment sizes
5. Be objective and informative - help users quickly understand what types of trials match their search
6. Only cite trials that you specifically mention details from
7. Output plain text only - no markdown formatting`

// Service produces result summaries.
type Service struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewService creates a summary service.
func NewService(completer llm.Completer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{completer: completer, logger: logger.Named("summary")}
}

// Summarize returns a cited overview of the results, or empty when there is
// nothing to summarize, the LLM is not configured, or generation fails.
func (s *Service) Summarize(ctx context.Context, queryText string, results []search.TrialResult) string {
	if len(results) == 0 {
		return ""
	}
	if !s.completer.Available() {
		s.logger.Warn("no extraction API key configured, skipping summary generation")
		return ""
	}

	user := fmt.Sprintf("Search query: %q\n\nClinical trials found:\n\n%s\n\nProvide a brief summary with citations.",
		queryText, trialsContext(results))

	reply, err := s.completer.Complete(ctx, systemPrompt, user)
	if err != nil {
		s.logger.Error("summary generation failed", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(reply)
}

// trialsContext renders up to maxTrialsInContext results as a numbered
// citation list.
func trialsContext(results []search.TrialResult) string {
	if len(results) > maxTrialsInContext {
		results = results[:maxTrialsInContext]
	}

	entries := make([]string, 0, len(results))
	for i, trial := range results {
		sponsor := "Unknown"
		if len(trial.Sponsors) > 0 {
			sponsor = trial.Sponsors[0].Name
		}

		entries = append(entries, fmt.Sprintf(
			"[%d] %s\n    NCT ID: %s\n    Phase: %s\n    Status: %s\n    Conditions: %s\n    Sponsor: %s\n    Enrollment: %s",
			i+1,
			trial.BriefTitle,
			trial.NCTID,
			orNA(trial.Phase),
			orNA(trial.OverallStatus),
			orNA(conditionNames(trial.Conditions)),
			sponsor,
			enrollmentString(trial.Enrollment),
		))
	}
	return strings.Join(entries, "\n\n")
}

// conditionNames flattens the condition key/value mappings, capped to keep
// the prompt bounded.
func conditionNames(conditions []map[string]string) string {
	var values []string
	for _, c := range conditions {
		for _, v := range c {
			if v != "" {
				values = append(values, v)
			}
		}
	}
	joined := strings.Join(values, ", ")
	if len(joined) > 200 {
		joined = joined[:200]
	}
	return joined
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func enrollmentString(enrollment *int) string {
	if enrollment == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *enrollment)
}
