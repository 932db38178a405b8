package suggest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trialsearchd/internal/config"
	"github.com/fyrsmithlabs/trialsearchd/internal/search"
)

func newFakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *search.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := search.NewClient(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	return client
}

func titlesResponse(titles ...string) string {
	hits := make([]map[string]any, 0, len(titles))
	for _, title := range titles {
		hits = append(hits, map[string]any{
			"_source": map[string]string{"brief_title": title},
		})
	}
	body, _ := json.Marshal(map[string]any{
		"hits": map[string]any{
			"total": map[string]any{"value": len(titles)},
			"hits":  hits,
		},
	})
	return string(body)
}

func TestSuggestShortPrefixNoCall(t *testing.T) {
	calls := 0
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(titlesResponse()))
	})

	svc := NewService(client, "clinical_trials", zap.NewNop())
	for _, prefix := range []string{"", " ", "a", "  b  "} {
		got, err := svc.Suggest(context.Background(), prefix, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Zero(t, calls, "short prefixes must not reach the engine")
}

func TestSuggestPrimaryStrategy(t *testing.T) {
	var captured map[string]any
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte(titlesResponse("Asthma Study", "Asthma Trial")))
	})

	svc := NewService(client, "clinical_trials", zap.NewNop())
	got, err := svc.Suggest(context.Background(), "asth", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Asthma Study", "Asthma Trial"}, got)

	mm := captured["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "bool_prefix", mm["type"])
	assert.Contains(t, mm["fields"], "brief_title.suggest._2gram")
	assert.Contains(t, mm["fields"], "official_title.suggest._3gram")
}

func TestSuggestFallbackAfterEmptyPrimary(t *testing.T) {
	var types []string
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		_ = json.Unmarshal(body, &req)
		mm := req["query"].(map[string]any)["multi_match"].(map[string]any)
		types = append(types, mm["type"].(string))

		if len(types) == 1 {
			_, _ = w.Write([]byte(titlesResponse()))
			return
		}
		_, _ = w.Write([]byte(titlesResponse("Cancer Treatment Study")))
	})

	svc := NewService(client, "clinical_trials", zap.NewNop())
	got, err := svc.Suggest(context.Background(), "cance", 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"Cancer Treatment Study"}, got)
	// Primary attempted first, then exactly one fallback.
	assert.Equal(t, []string{"bool_prefix", "phrase_prefix"}, types)
}

func TestSuggestCaseInsensitiveDedupe(t *testing.T) {
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(titlesResponse("Test Trial", "test trial", "Other Study")))
	})

	svc := NewService(client, "clinical_trials", zap.NewNop())
	got, err := svc.Suggest(context.Background(), "test", 10)
	require.NoError(t, err)

	// First-seen casing wins and relevance order is preserved.
	assert.Equal(t, []string{"Test Trial", "Other Study"}, got)
}

func TestSuggestLimitAppliedAfterDedupe(t *testing.T) {
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(titlesResponse("Dup", "DUP", "Second", "Third")))
	})

	svc := NewService(client, "clinical_trials", zap.NewNop())
	got, err := svc.Suggest(context.Background(), "du", 2)
	require.NoError(t, err)

	// "DUP" collapses into "Dup"; truncation happens after dedupe so
	// "Second" still makes the cut.
	assert.Equal(t, []string{"Dup", "Second"}, got)
}

func TestConditions(t *testing.T) {
	svc := &Service{logger: zap.NewNop()}

	assert.Empty(t, svc.Conditions("x"))
	assert.Empty(t, svc.Conditions("  "))
	assert.Equal(t, []string{"Lung Cancer"}, svc.Conditions("lu"))
	assert.Equal(t, []string{"COVID-19"}, svc.Conditions("covid"))
	assert.Equal(t, []string{"Multiple Sclerosis"}, svc.Conditions("MULTI"))
}

func TestSuggestEngineErrorPropagates(t *testing.T) {
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{}`))
	})

	svc := NewService(client, "clinical_trials", zap.NewNop())
	_, err := svc.Suggest(context.Background(), "asthma", 10)
	assert.Error(t, err)
}
