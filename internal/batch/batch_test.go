// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package batch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matt-FFFFFF/repobatch/internal/project"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testProjects(names ...string) []*project.Project {
	projects := make([]*project.Project, 0, len(names))
	for _, n := range names {
		projects = append(projects, &project.Project{Path: "/repos/" + n, Name: n})
	}

	return projects
}

// fakeRunner fails the named projects and succeeds everywhere else.
func fakeRunner(failing ...string) func(context.Context, *project.Project, CommandSpec) *CommandResult {
	failSet := make(map[string]struct{}, len(failing))
	for _, n := range failing {
		failSet[n] = struct{}{}
	}

	return func(_ context.Context, p *project.Project, _ CommandSpec) *CommandResult {
		if _, ok := failSet[p.Name]; ok {
			return &CommandResult{Project: p, Success: false, ExitCode: 1}
		}

		return &CommandResult{Project: p, Success: true, ExitCode: 0}
	}
}

func TestRunBatch_SequentialAllSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)
	defer gostub.Stub(&runFunc, fakeRunner()).Reset()

	res := RunBatch(context.Background(), testProjects("a", "b", "c"), CommandSpec{}, Options{ContinueOnError: true})

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 3, res.Successful)
	assert.Equal(t, 0, res.Failed)
	require.Len(t, res.Results, 3)
}

func TestRunBatch_SequentialStopsOnFirstFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	defer gostub.Stub(&runFunc, fakeRunner("a")).Reset()

	res := RunBatch(context.Background(), testProjects("a", "b"), CommandSpec{}, Options{ContinueOnError: false})

	require.Len(t, res.Results, 1)
	assert.Equal(t, "a", res.Results[0].Project.Name)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 0, res.Successful)
	assert.Equal(t, 1, res.Failed)
}

func TestRunBatch_SequentialContinueOnError(t *testing.T) {
	defer goleak.VerifyNone(t)
	defer gostub.Stub(&runFunc, fakeRunner("a")).Reset()

	res := RunBatch(context.Background(), testProjects("a", "b"), CommandSpec{}, Options{ContinueOnError: true})

	require.Len(t, res.Results, 2)
	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 1, res.Failed)
}

func TestRunBatch_ParallelResultOrderMatchesSubmission(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Later submissions complete first; the result order must not change.
	delays := map[string]time.Duration{
		"a": 30 * time.Millisecond,
		"b": 20 * time.Millisecond,
		"c": 10 * time.Millisecond,
		"d": 0,
	}
	stub := func(_ context.Context, p *project.Project, _ CommandSpec) *CommandResult {
		time.Sleep(delays[p.Name])
		return &CommandResult{Project: p, Success: true}
	}
	defer gostub.Stub(&runFunc, stub).Reset()

	res := RunBatch(context.Background(), testProjects("a", "b", "c", "d"), CommandSpec{},
		Options{Parallel: true, MaxWorkers: 4})

	require.Len(t, res.Results, 4)

	for i, want := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, want, res.Results[i].Project.Name)
	}
}

func TestRunBatch_ParallelRespectsWorkerBound(t *testing.T) {
	defer goleak.VerifyNone(t)

	const bound = 2

	var active, peak int64

	stub := func(_ context.Context, p *project.Project, _ CommandSpec) *CommandResult {
		n := atomic.AddInt64(&active, 1)

		for {
			old := atomic.LoadInt64(&peak)
			if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
				break
			}
		}

		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&active, -1)

		return &CommandResult{Project: p, Success: true}
	}
	defer gostub.Stub(&runFunc, stub).Reset()

	res := RunBatch(context.Background(), testProjects("a", "b", "c", "d", "e", "f"), CommandSpec{},
		Options{Parallel: true, MaxWorkers: bound})

	assert.Equal(t, 6, res.Total)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(bound))
	assert.Positive(t, atomic.LoadInt64(&peak))
}

func TestRunBatch_ParallelNoEarlyStop(t *testing.T) {
	defer goleak.VerifyNone(t)
	defer gostub.Stub(&runFunc, fakeRunner("a", "b")).Reset()

	res := RunBatch(context.Background(), testProjects("a", "b", "c"), CommandSpec{},
		Options{Parallel: true, MaxWorkers: 1})

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 2, res.Failed)
}

func TestRunBatch_ParallelDefaultWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)
	defer gostub.Stub(&runFunc, fakeRunner()).Reset()

	res := RunBatch(context.Background(), testProjects("a"), CommandSpec{},
		Options{Parallel: true, MaxWorkers: 0})

	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Successful)
}

func TestRunBatch_EmptyInput(t *testing.T) {
	defer goleak.VerifyNone(t)
	defer gostub.Stub(&runFunc, fakeRunner()).Reset()

	for _, opts := range []Options{{}, {Parallel: true, MaxWorkers: 2}} {
		res := RunBatch(context.Background(), nil, CommandSpec{}, opts)

		assert.Equal(t, 0, res.Total)
		assert.Empty(t, res.Results)
	}
}
