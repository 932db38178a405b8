package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trialsearchd/internal/search"
)

type fakeCompleter struct {
	reply     string
	err       error
	available bool
	calls     int
	lastUser  string
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string) (string, error) {
	f.calls++
	f.lastUser = user
	return f.reply, f.err
}

func (f *fakeCompleter) Available() bool { return f.available }

func trial(id, title string) search.TrialResult {
	return search.TrialResult{
		NCTID:      id,
		BriefTitle: title,
		Phase:      "PHASE2",
		Sponsors:   []search.Sponsor{{Name: "NCI"}},
	}
}

func TestSummarize(t *testing.T) {
	fake := &fakeCompleter{reply: "  Two phase 2 trials are recruiting [1][2].  ", available: true}
	svc := NewService(fake, zap.NewNop())

	got := svc.Summarize(context.Background(), "asthma trials", []search.TrialResult{
		trial("NCT1", "First Study"),
		trial("NCT2", "Second Study"),
	})

	assert.Equal(t, "Two phase 2 trials are recruiting [1][2].", got)
	assert.Contains(t, fake.lastUser, "[1] First Study")
	assert.Contains(t, fake.lastUser, "[2] Second Study")
	assert.Contains(t, fake.lastUser, "NCT1")
	assert.Contains(t, fake.lastUser, `"asthma trials"`)
}

func TestSummarizeEmptyResults(t *testing.T) {
	fake := &fakeCompleter{available: true}
	svc := NewService(fake, zap.NewNop())

	assert.Empty(t, svc.Summarize(context.Background(), "q", nil))
	assert.Zero(t, fake.calls)
}

func TestSummarizeUnavailableCompleter(t *testing.T) {
	fake := &fakeCompleter{available: false}
	svc := NewService(fake, zap.NewNop())

	assert.Empty(t, svc.Summarize(context.Background(), "q", []search.TrialResult{trial("NCT1", "T")}))
	assert.Zero(t, fake.calls)
}

func TestSummarizeFailureDegradesToEmpty(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("api down"), available: true}
	svc := NewService(fake, zap.NewNop())

	assert.Empty(t, svc.Summarize(context.Background(), "q", []search.TrialResult{trial("NCT1", "T")}))
	assert.Equal(t, 1, fake.calls)
}

func TestSummarizeCapsContext(t *testing.T) {
	fake := &fakeCompleter{reply: "ok", available: true}
	svc := NewService(fake, zap.NewNop())

	var results []search.TrialResult
	for i := 0; i < 15; i++ {
		results = append(results, trial("NCT1", "Study"))
	}
	_ = svc.Summarize(context.Background(), "q", results)

	assert.Contains(t, fake.lastUser, "[10] Study")
	assert.NotContains(t, fake.lastUser, "[11]")
}
