// Package suggest turns a text prefix into autocomplete suggestions from
// trial titles, with a primary search-as-you-type strategy and a simpler
// phrase-prefix fallback.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trialsearchd/internal/query"
	"github.com/fyrsmithlabs/trialsearchd/internal/search"
)

// MinPrefixLength is the shortest trimmed prefix that triggers a lookup.
const MinPrefixLength = 2

// DefaultLimit caps suggestion counts when the caller does not.
const DefaultLimit = 10

// maxConditionSuggestions caps the static condition-name matches.
const maxConditionSuggestions = 5

// commonConditions backs the condition autocomplete; these are matched by
// prefix without touching the engine.
var commonConditions = []string{
	"Breast Cancer",
	"Lung Cancer",
	"Diabetes",
	"Asthma",
	"COVID-19",
	"Heart Disease",
	"Alzheimer's",
	"Melanoma",
	"Leukemia",
	"Rheumatoid Arthritis",
	"Multiple Sclerosis",
}

// Service produces autocomplete suggestions.
type Service struct {
	client *search.Client
	index  string
	logger *zap.Logger
}

// NewService creates a suggestion service over the given client and index.
func NewService(client *search.Client, index string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, index: index, logger: logger.Named("suggest")}
}

// Suggest returns up to limit title suggestions for the prefix. Prefixes
// shorter than MinPrefixLength after trimming return an empty list without
// touching the engine. The primary n-gram strategy is tried first; if it
// yields nothing, one phrase-prefix retry runs over the plain title
// fields. Deduplication is case-insensitive, first occurrence wins, and
// the limit is applied only after deduplication.
func (s *Service) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < MinPrefixLength {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	primary := query.MultiMatch{
		Query: prefix,
		Type:  "bool_prefix",
		Fields: []string{
			"brief_title.suggest",
			"brief_title.suggest._2gram",
			"brief_title.suggest._3gram",
			"official_title.suggest",
			"official_title.suggest._2gram",
			"official_title.suggest._3gram",
		},
	}

	suggestions, seen, err := s.titles(ctx, primary, limit, nil)
	if err != nil {
		return nil, err
	}

	if len(suggestions) == 0 {
		s.logger.Debug("primary suggestion query empty, falling back",
			zap.String("prefix", prefix))

		fallback := query.MultiMatch{
			Query:  prefix,
			Type:   "phrase_prefix",
			Fields: []string{"brief_title", "official_title"},
		}
		suggestions, _, err = s.titles(ctx, fallback, limit, seen)
		if err != nil {
			return nil, err
		}
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// Conditions returns common condition names matching the prefix,
// case-insensitively, capped at maxConditionSuggestions. It is pure and
// never queries the engine.
func (s *Service) Conditions(prefix string) []string {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < MinPrefixLength {
		return []string{}
	}

	lower := strings.ToLower(prefix)
	matches := []string{}
	for _, condition := range commonConditions {
		if strings.HasPrefix(strings.ToLower(condition), lower) {
			matches = append(matches, condition)
			if len(matches) == maxConditionSuggestions {
				break
			}
		}
	}
	return matches
}

type suggestRequest struct {
	Size   int          `json:"size"`
	Query  query.Clause `json:"query"`
	Source []string     `json:"_source"`
}

// titles runs one suggestion query and collects deduplicated brief titles
// in relevance order. seen may carry state from a previous strategy.
func (s *Service) titles(ctx context.Context, q query.Clause, limit int, seen map[string]struct{}) ([]string, map[string]struct{}, error) {
	body, err := json.Marshal(suggestRequest{
		Size:   limit,
		Query:  q,
		Source: []string{"brief_title"},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("encoding suggestion request: %w", err)
	}

	resp, err := s.client.Search(ctx, s.index, bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}

	if seen == nil {
		seen = make(map[string]struct{})
	}

	var suggestions []string
	for _, hit := range resp.Hits.Hits {
		var src struct {
			BriefTitle string `json:"brief_title"`
		}
		if err := json.Unmarshal(hit.Source, &src); err != nil {
			continue
		}
		key := strings.ToLower(src.BriefTitle)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, src.BriefTitle)
	}

	return suggestions, seen, nil
}
