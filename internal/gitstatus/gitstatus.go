// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package gitstatus reports working tree cleanliness for git projects.
// It reads repository state in-process via go-git rather than shelling out
// to the git executable.
package gitstatus

import (
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
)

var (
	// ErrNotARepository is returned when the path does not hold a git repository.
	ErrNotARepository = errors.New("not a git repository")
	// ErrStatusFailed is returned when the working tree status could not be read.
	ErrStatusFailed = errors.New("git status failed")
)

// HasChanges reports whether the repository at path has uncommitted changes,
// including untracked files.
func HasChanges(path string) (bool, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return false, fmt.Errorf("%w: %s", ErrNotARepository, path)
		}

		return false, errors.Join(ErrStatusFailed, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return false, errors.Join(ErrStatusFailed, err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, errors.Join(ErrStatusFailed, err)
	}

	return !status.IsClean(), nil
}

// IsDirty is a convenience wrapper for callers that treat any status error as
// "not dirty", mirroring the discovery policy of swallowing access faults.
func IsDirty(path string) bool {
	dirty, err := HasChanges(path)
	return err == nil && dirty
}
