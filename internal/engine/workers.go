package engine

import (
	"context"
	"sync"

	"github.com/newshound/newshound/internal/types"
)

// Job is one page awaiting extraction.
type Job struct {
	SourceID string
	Page     *types.Page
}

// Result pairs a job with its extraction outcome. Err is set for
// filtered pages, validation failures and unknown sources; storage
// failures arrive as rejected outcomes with a nil Err.
type Result struct {
	SourceID string
	URL      string
	Record   *types.ArticleRecord
	Outcome  types.StorageOutcome
	Err      error
}

// Run processes jobs concurrently with the configured number of workers
// and closes the returned channel when all jobs are done. Each page is
// independent; one bad page never blocks or fails the others.
func (e *Engine) Run(ctx context.Context, jobs <-chan Job) <-chan Result {
	results := make(chan Result)

	var wg sync.WaitGroup
	workers := e.cfg.Extract.Concurrency
	if workers < 1 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.metrics.ActiveWorkers.Add(1)
			defer e.metrics.ActiveWorkers.Add(-1)

			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-jobs:
					if !ok {
						return
					}
					rec, outcome, err := e.ExtractAndStore(ctx, job.SourceID, job.Page)
					select {
					case results <- Result{
						SourceID: job.SourceID,
						URL:      job.Page.URL,
						Record:   rec,
						Outcome:  outcome,
						Err:      err,
					}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
