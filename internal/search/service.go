package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trialsearchd/internal/interpreter"
	"github.com/fyrsmithlabs/trialsearchd/internal/query"
)

// sourceFields restricts the stored fields fetched per hit. Anything else
// on a raw record is ignored.
var sourceFields = []string{
	"nct_id",
	"brief_title",
	"official_title",
	"phase",
	"overall_status",
	"enrollment",
	"sponsors",
	"facilities",
	"conditions",
	"brief_summaries_description",
	"start_date",
	"completion_date",
	"age",
	"gender",
	"study_type",
	"source",
}

// Service compiles entities, runs the search, and maps results.
type Service struct {
	client *Client
	index  string
	logger *zap.Logger
}

// NewService creates a search service over the given client and index.
func NewService(client *Client, index string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, index: index, logger: logger.Named("search")}
}

type searchRequest struct {
	Query  query.Clause        `json:"query"`
	From   int                 `json:"from"`
	Size   int                 `json:"size"`
	Sort   []map[string]string `json:"sort"`
	Source []string            `json:"_source"`
}

// Search executes the compiled query with pagination and returns mapped
// results plus the engine-reported total hit count. Relevance ordering is
// the engine's; ties break on enrollment size.
func (s *Service) Search(ctx context.Context, entities interpreter.Entities, page, pageSize int) ([]TrialResult, int64, error) {
	req := searchRequest{
		Query: query.Compile(entities),
		From:  (page - 1) * pageSize,
		Size:  pageSize,
		Sort: []map[string]string{
			{"_score": "desc"},
			{"enrollment": "desc"},
		},
		Source: sourceFields,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, 0, fmt.Errorf("encoding search request: %w", err)
	}

	s.logger.Debug("executing search",
		zap.Int("page", page),
		zap.Int("page_size", pageSize),
	)

	resp, err := s.client.Search(ctx, s.index, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}

	results, err := MapHits(resp.Hits.Hits)
	if err != nil {
		return nil, 0, err
	}

	return results, resp.Hits.Total.Value, nil
}
