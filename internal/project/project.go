// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package project defines the descriptor for one discovered project directory
// and the marker scan that classifies it.
// A project is classified by the presence of well-known marker files:
// a version control directory, a language ecosystem manifest, and the
// answers file left behind by the copier template engine.
package project

import (
	"bufio"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// GitMarker is the version control marker directory.
	GitMarker = ".git"
	// PythonMarker is the Python ecosystem manifest file.
	PythonMarker = "pyproject.toml"
	// CopierMarker is the copier template engine answers file.
	CopierMarker = ".copier-answers.yml"

	copierCommitKey  = "_commit:"
	copierSrcPathKey = "_src_path:"
)

// Project represents a discovered project directory.
// Classification flags are computed once by FromPath and never recomputed.
// CopierVersion and CopierTemplate are only populated when HasCopier is true.
type Project struct {
	Path           string            // Absolute path to the project directory
	Name           string            // Base name of the directory, used for display and pattern matching
	IsGit          bool              // A version control marker directory exists
	IsPython       bool              // A Python ecosystem manifest exists
	HasCopier      bool              // A copier answers file exists
	CopierVersion  string            // Template commit or version identifier, empty unless HasCopier
	CopierTemplate string            // Source template reference, empty unless HasCopier
	Metadata       map[string]string // Arbitrary extension metadata
}

// FromPath scans a directory for classification markers and returns a Project.
// Filesystem errors during a marker check are treated as "marker absent" for
// that check only; the scan itself never fails.
func FromPath(fs afero.Fs, path string) *Project {
	p := &Project{
		Path:     path,
		Name:     filepath.Base(path),
		Metadata: make(map[string]string),
	}

	p.IsGit = markerExists(fs, path, GitMarker)
	p.IsPython = markerExists(fs, path, PythonMarker)
	p.HasCopier = markerExists(fs, path, CopierMarker)

	if p.HasCopier {
		p.CopierVersion, p.CopierTemplate = readCopierInfo(fs, filepath.Join(path, CopierMarker))
	}

	return p
}

// markerExists reports whether a marker file or directory exists directly
// inside dir. Any error from the underlying filesystem counts as absent.
func markerExists(fs afero.Fs, dir, marker string) bool {
	ok, err := afero.Exists(fs, filepath.Join(dir, marker))
	return err == nil && ok
}

// readCopierInfo extracts the template commit and source path from a copier
// answers file. The file is line-oriented; only the two recognized keys are
// read and malformed lines are ignored. Copier answers files routinely embed
// Jinja expressions that are not valid YAML, so this intentionally avoids a
// YAML parser.
func readCopierInfo(fs afero.Fs, path string) (version, template string) {
	f, err := fs.Open(path)
	if err != nil {
		// The existence check raced a deletion, report both values absent.
		return "", ""
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, copierCommitKey):
			version = strings.TrimSpace(strings.TrimPrefix(line, copierCommitKey))
		case strings.HasPrefix(line, copierSrcPathKey):
			template = strings.TrimSpace(strings.TrimPrefix(line, copierSrcPathKey))
		}
	}

	return version, template
}
