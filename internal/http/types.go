// Package http provides the HTTP API for trialsearchd.
package http

import (
	"github.com/fyrsmithlabs/trialsearchd/internal/interpreter"
	"github.com/fyrsmithlabs/trialsearchd/internal/search"
)

// SearchRequest is the request body for POST /api/v1/search.
type SearchRequest struct {
	Query          string `json:"query"`
	Page           int    `json:"page"`
	PageSize       int    `json:"page_size"`
	IncludeSummary bool   `json:"include_summary"`
}

// SearchResponse is the response body for POST /api/v1/search.
type SearchResponse struct {
	QueryInterpretation interpreter.Entities `json:"query_interpretation"`
	Results             []search.TrialResult `json:"results"`
	Total               int64                `json:"total"`
	Page                int                  `json:"page"`
	PageSize            int                  `json:"page_size"`
	Clarification       string               `json:"clarification,omitempty"`
	Summary             string               `json:"summary,omitempty"`
}

// SuggestionResponse is the response body for GET /api/v1/suggestions.
type SuggestionResponse struct {
	Suggestions []string `json:"suggestions"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	ESURL  string `json:"es_url"`
}
