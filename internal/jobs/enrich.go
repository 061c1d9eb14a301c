// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"iter"
	"runtime"

	"golang.org/x/sync/errgroup"

	xglog "github.com/ManuGH/tlgrab/internal/log"
	"github.com/ManuGH/tlgrab/internal/teleloisirs"
)

// DefaultWorkers bounds the enrichment pool when no size is configured.
func DefaultWorkers() int {
	return min(32, runtime.NumCPU()+4)
}

// EnrichOptions configures an Enricher.
type EnrichOptions struct {
	Workers int
	// OnFailure is called from the consuming goroutine for every failed fetch.
	OnFailure func(b teleloisirs.Broadcast, err error)
}

// Enricher fetches the program of every broadcast with bounded parallelism.
type Enricher struct {
	fetcher   ProgramFetcher
	workers   int
	onFailure func(teleloisirs.Broadcast, error)
}

// NewEnricher returns an enricher backed by f.
func NewEnricher(f ProgramFetcher, opts EnrichOptions) *Enricher {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &Enricher{fetcher: f, workers: workers, onFailure: opts.OnFailure}
}

type enrichResult struct {
	program teleloisirs.Program
	err     error
}

// Enrich yields one (broadcast, program) pair per input broadcast, in input
// order. A failed fetch is logged and yields the empty Program. Every task
// already started is awaited before the sequence returns, including when the
// consumer stops early.
func (e *Enricher) Enrich(ctx context.Context, broadcasts []teleloisirs.Broadcast) iter.Seq2[teleloisirs.Broadcast, teleloisirs.Program] {
	return func(yield func(teleloisirs.Broadcast, teleloisirs.Program) bool) {
		logger := xglog.WithComponentFromContext(ctx, "jobs")

		// One buffered slot per broadcast; a task only ever writes its own.
		slots := make([]chan enrichResult, len(broadcasts))
		for i := range slots {
			slots[i] = make(chan enrichResult, 1)
		}

		var g errgroup.Group
		g.SetLimit(e.workers)
		stop := make(chan struct{})
		submitted := make(chan struct{})

		go func() {
			defer close(submitted)
			for i, b := range broadcasts {
				select {
				case <-stop:
					return
				default:
				}
				g.Go(func() error {
					slots[i] <- e.fetch(ctx, b)
					return nil
				})
			}
		}()

		defer func() {
			close(stop)
			<-submitted
			_ = g.Wait()
		}()

		for i, b := range broadcasts {
			res := <-slots[i]
			if res.err != nil {
				logger.Warn().
					Err(res.err).
					Str(xglog.FieldEvent, "enrich.failed").
					Str(xglog.FieldBroadcastID, b.ID.String()).
					Str(xglog.FieldProgramID, b.ProgramID()).
					Msg("unable to retrieve program data")
				if e.onFailure != nil {
					e.onFailure(b, res.err)
				}
				res.program = teleloisirs.Program{}
			}
			if !yield(b, res.program) {
				return
			}
		}
	}
}

func (e *Enricher) fetch(ctx context.Context, b teleloisirs.Broadcast) enrichResult {
	id := b.ProgramID()
	if id == "" {
		return enrichResult{}
	}
	p, err := e.fetcher.Program(ctx, id)
	return enrichResult{program: p, err: err}
}
