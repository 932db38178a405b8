package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"go.uber.org/zap"
)

// Provisioner creates the index and bulk-loads documents.
type Provisioner struct {
	client *elasticsearch.Client
	index  string
	logger *zap.Logger
}

// NewProvisioner creates a provisioner for the given index.
func NewProvisioner(client *elasticsearch.Client, index string, logger *zap.Logger) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provisioner{client: client, index: index, logger: logger.Named("index")}
}

// Create creates the index with the clinical-trials mapping. When
// deleteExisting is set an existing index is dropped first; otherwise an
// existing index is left untouched.
func (p *Provisioner) Create(ctx context.Context, deleteExisting bool) error {
	exists, err := p.exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		if !deleteExisting {
			p.logger.Info("index already exists, skipping", zap.String("index", p.index))
			return nil
		}
		p.logger.Info("deleting existing index", zap.String("index", p.index))
		res, err := p.client.Indices.Delete([]string{p.index}, p.client.Indices.Delete.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("deleting index %s: %w", p.index, err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("deleting index %s: %s", p.index, res.String())
		}
	}

	res, err := p.client.Indices.Create(
		p.index,
		p.client.Indices.Create.WithContext(ctx),
		p.client.Indices.Create.WithBody(strings.NewReader(Mapping)),
	)
	if err != nil {
		return fmt.Errorf("creating index %s: %w", p.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("creating index %s: %s", p.index, res.String())
	}

	p.logger.Info("index created", zap.String("index", p.index))
	return nil
}

func (p *Provisioner) exists(ctx context.Context) (bool, error) {
	res, err := p.client.Indices.Exists([]string{p.index}, p.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("checking index %s: %w", p.index, err)
	}
	defer res.Body.Close()
	return res.StatusCode == 200, nil
}

// Ingest reads a JSON array of raw trial documents and bulk-indexes them.
// Documents without an nct_id are skipped; the nct_id is the document ID
// so re-ingestion is idempotent. Returns (indexed, failed) counts.
func (p *Provisioner) Ingest(ctx context.Context, r io.Reader) (int64, int64, error) {
	var docs []map[string]any
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return 0, 0, fmt.Errorf("decoding documents: %w", err)
	}
	p.logger.Info("loaded documents", zap.Int("count", len(docs)))

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     p.client,
		Index:      p.index,
		NumWorkers: 4,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("creating bulk indexer: %w", err)
	}

	skipped := 0
	for _, doc := range docs {
		transformed := Transform(doc)
		nctID, _ := transformed["nct_id"].(string)
		if nctID == "" {
			skipped++
			continue
		}

		body, err := json.Marshal(transformed)
		if err != nil {
			p.logger.Warn("skipping unencodable document", zap.String("nct_id", nctID), zap.Error(err))
			skipped++
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: nctID,
			Body:       bytes.NewReader(body),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					p.logger.Error("bulk item failed", zap.String("nct_id", item.DocumentID), zap.Error(err))
				} else {
					p.logger.Error("bulk item rejected",
						zap.String("nct_id", item.DocumentID),
						zap.String("type", res.Error.Type),
						zap.String("reason", res.Error.Reason))
				}
			},
		})
		if err != nil {
			_ = bi.Close(ctx)
			return 0, 0, fmt.Errorf("queueing document %s: %w", nctID, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return 0, 0, fmt.Errorf("flushing bulk indexer: %w", err)
	}

	if skipped > 0 {
		p.logger.Warn("skipped documents without nct_id", zap.Int("count", skipped))
	}

	stats := bi.Stats()

	res, err := p.client.Indices.Refresh(
		p.client.Indices.Refresh.WithContext(ctx),
		p.client.Indices.Refresh.WithIndex(p.index),
	)
	if err != nil {
		p.logger.Warn("index refresh failed", zap.Error(err))
	} else {
		res.Body.Close()
	}

	return int64(stats.NumIndexed), int64(stats.NumFailed), nil
}
