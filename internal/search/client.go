// Package search executes compiled queries against Elasticsearch and maps
// raw hits into the public trial result schema.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/fyrsmithlabs/trialsearchd/internal/config"
)

// Client wraps the Elasticsearch client with the narrow surface this
// service needs.
type Client struct {
	es *elasticsearch.Client
}

// NewClient creates an Elasticsearch client from configuration.
func NewClient(cfg config.ElasticsearchConfig) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password.Value(),
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation error: %w", err)
	}
	return &Client{es: es}, nil
}

// Response is the subset of the engine's search response this service
// consumes.
type Response struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

// Hit is one raw search hit.
type Hit struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// Search executes a query body against the index and decodes the hits
// envelope. Engine-level failures (unreachable, non-2xx) are returned as
// errors and are expected to propagate to the caller as request failures.
func (c *Client) Search(ctx context.Context, index string, body io.Reader) (*Response, error) {
	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(body),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search error: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned status: %s", res.Status())
	}

	var resp Response
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("elasticsearch response parsing error: %w", err)
	}
	return &resp, nil
}

// Ping checks cluster reachability for health reporting.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Info(c.es.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.Status())
	}
	return nil
}

// Raw exposes the underlying client for provisioning and bulk ingestion.
func (c *Client) Raw() *elasticsearch.Client {
	return c.es
}
