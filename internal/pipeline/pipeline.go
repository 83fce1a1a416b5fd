// Package pipeline provides the high-level orchestration for the link
// classification process: fan out classify+store units across unique input
// URLs under a concurrency cap, and aggregate per-URL outcomes without letting
// one failure abort the batch.
package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/linkshelf/internal/types"
	"github.com/jonathan/linkshelf/internal/urlutil"
)

// Analyzer classifies a single URL. classify.Classifier is the production
// implementation; it absorbs fetch and model faults internally.
type Analyzer interface {
	Analyze(ctx context.Context, url, domain string) types.LinkData
}

// LinkSaver persists classified links with deduplication. A nil record with a
// nil error means the link was already stored.
type LinkSaver interface {
	Save(link types.LinkData) (*types.Record, error)
}

// Status values reported in progress events.
const (
	StatusSaved   = "saved"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// ProgressEvent reports the completion of one per-URL unit of work.
type ProgressEvent struct {
	RunID   string `json:"run_id"`
	URL     string `json:"url"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ProgressCallback is invoked as units complete. Completion order is
// nondeterministic. The callback runs under the result lock and must not
// block.
type ProgressCallback func(event ProgressEvent)

// Options configures a pipeline run.
type Options struct {
	// MaxConcurrency caps in-flight units. Values below 1 are treated as 1.
	MaxConcurrency int
	OnProgress     ProgressCallback
}

// Process classifies and stores every unique URL in urls and returns the
// aggregated result. Input is deduplicated by exact string match preserving
// first-seen order; empty entries are dropped. A per-URL failure is recorded
// in the result's error list and never blocks or aborts the other units.
func Process(ctx context.Context, urls []string, analyzer Analyzer, saver LinkSaver, opts Options) types.ProcessResult {
	unique := dedupe(urls)

	result := types.ProcessResult{
		RunID:  uuid.NewString(),
		Total:  len(unique),
		Errors: []types.ProcessError{},
	}
	if len(unique) == 0 {
		return result
	}

	limit := opts.MaxConcurrency
	if limit < 1 {
		limit = 1
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(limit)

	for _, url := range unique {
		url := url
		g.Go(func() error {
			link := analyzer.Analyze(ctx, url, urlutil.Domain(url))
			record, err := saver.Save(link)

			mu.Lock()
			defer mu.Unlock()

			event := ProgressEvent{RunID: result.RunID, URL: url}
			switch {
			case err != nil:
				result.Errors = append(result.Errors, types.ProcessError{URL: url, Message: err.Error()})
				event.Status = StatusError
				event.Message = err.Error()
			case record != nil:
				result.Saved++
				event.Status = StatusSaved
			default:
				result.Skipped++
				event.Status = StatusSkipped
			}
			if opts.OnProgress != nil {
				opts.OnProgress(event)
			}
			return nil
		})
	}

	// Units report failures through the result, never through the group.
	_ = g.Wait()

	return result
}

// dedupe drops empty entries and exact-string duplicates, preserving
// first-seen order.
func dedupe(urls []string) []string {
	seen := make(map[string]bool)
	unique := make([]string, 0, len(urls))
	for _, url := range urls {
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		unique = append(unique, url)
	}
	return unique
}
