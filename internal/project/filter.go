// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package project

import (
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

// Filter narrows a set of projects. Each field that is set must match for a
// project to pass; unset fields match everything.
//
// PythonOnly and NonPythonOnly are independent flags. Setting both yields no
// matches for any project. This falls out of AND-composition and is kept
// deliberately rather than being rejected as invalid input.
type Filter struct {
	PythonOnly    bool   // Only Python projects
	NonPythonOnly bool   // Only non-Python projects
	CopierOnly    bool   // Only copier-managed projects
	GitOnly       bool   // Only git repositories
	NamePattern   string // Shell glob matched against the project name, not the path
	HasFile       string // Relative path that must exist inside the project
}

// Matches reports whether p passes the filter.
// The HasFile check swallows filesystem errors as "not present", mirroring
// the marker scan policy.
func (f Filter) Matches(fs afero.Fs, p *Project) bool {
	if f.PythonOnly && !p.IsPython {
		return false
	}

	if f.NonPythonOnly && p.IsPython {
		return false
	}

	if f.CopierOnly && !p.HasCopier {
		return false
	}

	if f.GitOnly && !p.IsGit {
		return false
	}

	if f.NamePattern != "" {
		ok, err := path.Match(f.NamePattern, p.Name)
		if err != nil || !ok {
			return false
		}
	}

	if f.HasFile != "" {
		ok, err := afero.Exists(fs, filepath.Join(p.Path, f.HasFile))
		if err != nil || !ok {
			return false
		}
	}

	return true
}

// Apply returns the subsequence of projects that pass the filter,
// preserving input order.
func (f Filter) Apply(fs afero.Fs, projects []*Project) []*Project {
	matched := make([]*Project, 0, len(projects))

	for _, p := range projects {
		if f.Matches(fs, p) {
			matched = append(matched, p)
		}
	}

	return matched
}
