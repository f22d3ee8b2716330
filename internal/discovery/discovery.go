// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package discovery walks a directory tree to find project roots.
//
// A directory qualifies as a project root when at least one well-known marker
// exists directly inside it. Traversal is depth-first and bounded: depth zero
// means the root itself only. Directories on the exclude list and directories
// with a leading dot are pruned entirely, their subtrees are never visited.
// Nested projects are supported; a qualifying directory's descendants continue
// to be walked for deeper project roots.
package discovery

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/matt-FFFFFF/repobatch/internal/ctxlog"
	"github.com/matt-FFFFFF/repobatch/internal/project"
	"github.com/spf13/afero"
)

// RootMarkers are the file and directory names whose presence marks a
// directory as a project root.
var RootMarkers = []string{
	".git",
	"pyproject.toml",
	"package.json",
	"Cargo.toml",
	"go.mod",
	"pom.xml",
	"build.gradle",
	".copier-answers.yml",
}

// DefaultExcludes are directory names pruned during traversal: version
// control internals, dependency caches, build output and virtual
// environments.
var DefaultExcludes = []string{
	".git",
	".venv",
	"venv",
	"node_modules",
	"__pycache__",
	".pytest_cache",
	".mypy_cache",
	".ruff_cache",
	"dist",
	"build",
	".tox",
}

// Options control a directory walk.
type Options struct {
	// MaxDepth bounds traversal. Zero visits the root only, one visits the
	// root and its immediate children, and so on.
	MaxDepth int
	// Excludes is the list of directory names to prune. Nil means
	// DefaultExcludes.
	Excludes []string
}

// Discover walks the tree under root and returns one Project per qualifying
// directory. Output order is unspecified; callers needing determinism must
// sort. Permission errors listing a directory cause that subtree to be
// skipped silently. The returned error is non-nil only when ctx is cancelled
// mid-walk.
func Discover(ctx context.Context, fs afero.Fs, root string, opts Options) ([]*project.Project, error) {
	excludes := opts.Excludes
	if excludes == nil {
		excludes = DefaultExcludes
	}

	w := &walker{
		fs:       fs,
		maxDepth: opts.MaxDepth,
		excludes: excludes,
		seen:     make(map[string]struct{}),
	}

	if err := w.walk(ctx, root, 0); err != nil {
		return nil, err
	}

	return w.projects, nil
}

type walker struct {
	fs       afero.Fs
	maxDepth int
	excludes []string
	seen     map[string]struct{}
	projects []*project.Project
}

func (w *walker) walk(ctx context.Context, dir string, depth int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if _, ok := w.seen[dir]; !ok && w.isProjectRoot(dir) {
		w.seen[dir] = struct{}{}
		w.projects = append(w.projects, project.FromPath(w.fs, dir))
	}

	if depth >= w.maxDepth {
		return nil
	}

	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		// Unreadable directories are skipped, not surfaced.
		ctxlog.Debug(ctx, "skipping unreadable directory", "dir", dir, "error", err)
		return nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		if w.pruned(name) {
			continue
		}

		if err := w.walk(ctx, filepath.Join(dir, name), depth+1); err != nil {
			return err
		}
	}

	return nil
}

// pruned reports whether a directory name is excluded from traversal
// entirely. Hidden directories are pruned by convention.
func (w *walker) pruned(name string) bool {
	if len(name) > 0 && name[0] == '.' {
		return true
	}

	return slices.Contains(w.excludes, name)
}

func (w *walker) isProjectRoot(dir string) bool {
	for _, marker := range RootMarkers {
		ok, err := afero.Exists(w.fs, filepath.Join(dir, marker))
		if err != nil {
			continue
		}

		if ok {
			return true
		}
	}

	return false
}
