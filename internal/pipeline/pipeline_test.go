package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/linkshelf/internal/store"
	"github.com/jonathan/linkshelf/internal/types"
)

// stubAnalyzer returns a minimal LinkData without touching the network.
type stubAnalyzer struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (a *stubAnalyzer) Analyze(_ context.Context, url, _ string) types.LinkData {
	current := a.inFlight.Add(1)
	defer a.inFlight.Add(-1)
	for {
		seen := a.maxSeen.Load()
		if current <= seen || a.maxSeen.CompareAndSwap(seen, current) {
			break
		}
	}
	return types.LinkData{URL: url, Category: types.CategoryOther}
}

// faultySaver fails for URLs containing a sentinel substring and otherwise
// delegates to an in-memory map.
type faultySaver struct {
	mu     sync.Mutex
	nextID int
	seen   map[string]bool
}

func newFaultySaver() *faultySaver {
	return &faultySaver{nextID: 1, seen: make(map[string]bool)}
}

func (s *faultySaver) Save(link types.LinkData) (*types.Record, error) {
	if strings.Contains(link.URL, "boom") {
		return nil, assert.AnError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[link.URL] {
		return nil, nil
	}
	s.seen[link.URL] = true
	record := &types.Record{ID: s.nextID, URL: link.URL, Category: link.Category}
	s.nextID++
	return record, nil
}

func TestProcess_EmptyInput(t *testing.T) {
	result := Process(context.Background(), nil, &stubAnalyzer{}, newFaultySaver(), Options{MaxConcurrency: 4})

	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, result.Saved)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.RunID)
}

func TestProcess_DropsEmptyEntries(t *testing.T) {
	result := Process(context.Background(), []string{"", "https://a.com", ""}, &stubAnalyzer{}, newFaultySaver(), Options{MaxConcurrency: 4})

	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Saved)
}

func TestProcess_DeduplicatesInput(t *testing.T) {
	urls := []string{"https://a.com", "https://a.com", "https://b.com"}
	result := Process(context.Background(), urls, &stubAnalyzer{}, newFaultySaver(), Options{MaxConcurrency: 4})

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 0, result.Skipped)
}

func TestProcess_OneFailureDoesNotAbortBatch(t *testing.T) {
	urls := []string{"https://a.com", "https://boom.example.com", "https://b.com"}
	result := Process(context.Background(), urls, &stubAnalyzer{}, newFaultySaver(), Options{MaxConcurrency: 4})

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "https://boom.example.com", result.Errors[0].URL)
	assert.NotEmpty(t, result.Errors[0].Message)

	// Every unique URL is accounted for exactly once.
	assert.Equal(t, result.Total, result.Saved+result.Skipped+len(result.Errors))
}

func TestProcess_SkippedOnRepeatRun(t *testing.T) {
	saver := newFaultySaver()

	first := Process(context.Background(), []string{"https://a.com"}, &stubAnalyzer{}, saver, Options{MaxConcurrency: 2})
	assert.Equal(t, 1, first.Saved)

	second := Process(context.Background(), []string{"https://a.com"}, &stubAnalyzer{}, saver, Options{MaxConcurrency: 2})
	assert.Equal(t, 1, second.Total)
	assert.Equal(t, 0, second.Saved)
	assert.Equal(t, 1, second.Skipped)
}

func TestProcess_RespectsConcurrencyCap(t *testing.T) {
	analyzer := &stubAnalyzer{}
	urls := make([]string, 20)
	for i := range urls {
		urls[i] = "https://example.com/" + string(rune('a'+i))
	}

	result := Process(context.Background(), urls, analyzer, newFaultySaver(), Options{MaxConcurrency: 3})

	assert.Equal(t, 20, result.Total)
	assert.LessOrEqual(t, analyzer.maxSeen.Load(), int32(3))
}

func TestProcess_ZeroConcurrencyTreatedAsOne(t *testing.T) {
	result := Process(context.Background(), []string{"https://a.com"}, &stubAnalyzer{}, newFaultySaver(), Options{})
	assert.Equal(t, 1, result.Saved)
}

func TestProcess_ProgressEvents(t *testing.T) {
	var mu sync.Mutex
	events := make(map[string]string)

	opts := Options{
		MaxConcurrency: 2,
		OnProgress: func(e ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			events[e.URL] = e.Status
		},
	}

	saver := newFaultySaver()
	urls := []string{"https://a.com", "https://boom.example.com"}
	result := Process(context.Background(), urls, &stubAnalyzer{}, saver, opts)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, StatusSaved, events["https://a.com"])
	assert.Equal(t, StatusError, events["https://boom.example.com"])
	assert.Len(t, events, result.Total)
}

func TestProcess_AgainstRealStore(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "links.json"))
	require.NoError(t, err)

	urls := []string{"https://a.com", "https://b.com"}
	first := Process(context.Background(), urls, &stubAnalyzer{}, s, Options{MaxConcurrency: 4})
	assert.Equal(t, 2, first.Saved)

	// Same URLs against the same store on a later run are skipped.
	second := Process(context.Background(), urls, &stubAnalyzer{}, s, Options{MaxConcurrency: 4})
	assert.Equal(t, 0, second.Saved)
	assert.Equal(t, 2, second.Skipped)

	records, err := s.GetAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
