// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package batch

import (
	"context"
	"sync"

	"github.com/matt-FFFFFF/repobatch/internal/ctxlog"
	"github.com/matt-FFFFFF/repobatch/internal/project"
)

// DefaultMaxWorkers bounds concurrent execution when no worker count is given.
const DefaultMaxWorkers = 4

// runFunc is the command runner used by the batch executors.
// It is a variable so tests can observe scheduling without real processes.
var runFunc = Run

// Options control how a batch is executed.
type Options struct {
	// ContinueOnError keeps a sequential batch going past a failing project.
	// When false, the batch stops at the first failure and the returned
	// BatchResult holds only the outcomes produced so far.
	// It has no effect in parallel mode, where every project always runs.
	ContinueOnError bool
	// Parallel runs commands concurrently, bounded by MaxWorkers.
	Parallel bool
	// MaxWorkers is the maximum number of simultaneously running child
	// processes in parallel mode. Values below one fall back to
	// DefaultMaxWorkers.
	MaxWorkers int
}

// RunBatch executes spec once per project and aggregates the outcomes.
// Results are ordered by submission regardless of mode.
func RunBatch(ctx context.Context, projects []*project.Project, spec CommandSpec, opts Options) *BatchResult {
	if opts.Parallel {
		return runParallel(ctx, projects, spec, opts.MaxWorkers)
	}

	return runSequential(ctx, projects, spec, opts.ContinueOnError)
}

func runSequential(ctx context.Context, projects []*project.Project, spec CommandSpec, continueOnError bool) *BatchResult {
	results := make([]*CommandResult, 0, len(projects))

	for _, p := range projects {
		res := runFunc(ctx, p, spec)
		results = append(results, res)

		if !continueOnError && !res.Success {
			ctxlog.Debug(ctx, "stopping batch on first failure", "project", p.Name)
			break
		}
	}

	return NewBatchResult(results)
}

// runParallel submits one unit of work per project. A buffered channel acts
// as the admission gate: at most workers child processes are in flight at
// once. All projects are submitted regardless of earlier failures, and each
// outcome lands at its submission index so the result order is stable no
// matter which process finishes first.
func runParallel(ctx context.Context, projects []*project.Project, spec CommandSpec, workers int) *BatchResult {
	if workers < 1 {
		workers = DefaultMaxWorkers
	}

	results := make([]*CommandResult, len(projects))
	gate := make(chan struct{}, workers)

	var wg sync.WaitGroup

	for i, p := range projects {
		wg.Add(1)

		go func(i int, p *project.Project) {
			defer wg.Done()

			gate <- struct{}{}
			defer func() { <-gate }()

			results[i] = runFunc(ctx, p, spec)
		}(i, p)
	}

	wg.Wait()

	return NewBatchResult(results)
}
