// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package batch

import (
	"github.com/matt-FFFFFF/repobatch/internal/project"
)

// SentinelExitCode marks an outcome that has no real exit status: the process
// timed out or failed to launch.
const SentinelExitCode = -1

// CommandResult is the normalized outcome of one command execution against
// one project. Every execution attempt produces exactly one CommandResult;
// no fault propagates past the runner.
type CommandResult struct {
	Project  *project.Project // The project the command ran in
	Success  bool             // True iff the process launched and exited zero within the timeout
	Output   string           // Captured stdout, empty when capture is disabled
	Error    string           // Captured stderr, or a human-readable fault description
	ExitCode int              // Process exit status, or SentinelExitCode
}

// BatchResult aggregates the outcomes of one batch run. Results are in
// submission order, not completion order, even under concurrent execution.
type BatchResult struct {
	Results    []*CommandResult
	Total      int
	Successful int
	Failed     int
}

// NewBatchResult builds a BatchResult from a completed list of outcomes.
// Total always equals len(results) and Successful+Failed always equals Total.
func NewBatchResult(results []*CommandResult) *BatchResult {
	successful := 0

	for _, r := range results {
		if r.Success {
			successful++
		}
	}

	return &BatchResult{
		Results:    results,
		Total:      len(results),
		Successful: successful,
		Failed:     len(results) - successful,
	}
}

// FailedProjects returns the projects whose command failed, in result order.
func (b *BatchResult) FailedProjects() []*project.Project {
	var projects []*project.Project

	for _, r := range b.Results {
		if !r.Success {
			projects = append(projects, r.Project)
		}
	}

	return projects
}

// SuccessfulProjects returns the projects whose command succeeded, in result order.
func (b *BatchResult) SuccessfulProjects() []*project.Project {
	var projects []*project.Project

	for _, r := range b.Results {
		if r.Success {
			projects = append(projects, r.Project)
		}
	}

	return projects
}
