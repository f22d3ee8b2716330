// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdutil holds the flag definitions and project-gathering helpers
// shared by the repobatch subcommands.
package cmdutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/matt-FFFFFF/repobatch/internal/config"
	"github.com/matt-FFFFFF/repobatch/internal/ctxlog"
	"github.com/matt-FFFFFF/repobatch/internal/discovery"
	"github.com/matt-FFFFFF/repobatch/internal/project"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// Flag names shared across subcommands.
const (
	FlagRoot      = "root"
	FlagMaxDepth  = "max-depth"
	FlagPython    = "python"
	FlagNonPython = "non-python"
	FlagCopier    = "copier"
	FlagGit       = "git"
	FlagName      = "name"
	FlagHasFile   = "has-file"
)

// DefaultMaxDepth is the discovery depth used when neither the flag nor the
// configuration file sets one.
const DefaultMaxDepth = 1

// DiscoveryFlags returns the flags controlling where and how deep to search.
func DiscoveryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  FlagRoot,
			Usage: "Root directory to search",
			Value: ".",
		},
		&cli.IntFlag{
			Name:  FlagMaxDepth,
			Usage: "Maximum directory depth to search",
			Value: DefaultMaxDepth,
		},
	}
}

// FilterFlags returns the flags that narrow the set of matched projects.
func FilterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  FlagPython,
			Usage: "Only Python projects",
		},
		&cli.BoolFlag{
			Name:  FlagNonPython,
			Usage: "Only non-Python projects",
		},
		&cli.BoolFlag{
			Name:  FlagCopier,
			Usage: "Only copier-managed projects",
		},
		&cli.BoolFlag{
			Name:  FlagGit,
			Usage: "Only git repositories",
		},
		&cli.StringFlag{
			Name:  FlagName,
			Usage: "Filter by name glob pattern",
		},
		&cli.StringFlag{
			Name:  FlagHasFile,
			Usage: "Only projects containing this file",
		},
	}
}

// FilterFromCmd builds the project filter from the parsed command flags.
func FilterFromCmd(cmd *cli.Command) project.Filter {
	return project.Filter{
		PythonOnly:    cmd.Bool(FlagPython),
		NonPythonOnly: cmd.Bool(FlagNonPython),
		CopierOnly:    cmd.Bool(FlagCopier),
		GitOnly:       cmd.Bool(FlagGit),
		NamePattern:   cmd.String(FlagName),
		HasFile:       cmd.String(FlagHasFile),
	}
}

// Gather discovers projects under the root flag, applies the per-tree
// configuration file and the command's filter flags, and returns the matches
// sorted by name along with the loaded configuration.
func Gather(ctx context.Context, cmd *cli.Command, fs afero.Fs) ([]*project.Project, *config.Config, error) {
	root, err := absRoot(fs, cmd.String(FlagRoot))
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(fs, root)
	if err != nil {
		return nil, nil, err
	}

	maxDepth := cmd.Int(FlagMaxDepth)
	if !cmd.IsSet(FlagMaxDepth) && cfg.MaxDepth > 0 {
		maxDepth = cfg.MaxDepth
	}

	opts := discovery.Options{
		MaxDepth: maxDepth,
		Excludes: cfg.Exclude,
	}

	projects, err := discovery.Discover(ctx, fs, root, opts)
	if err != nil {
		return nil, nil, err
	}

	ctxlog.Debug(ctx, "discovery complete", "root", root, "maxDepth", maxDepth, "found", len(projects))

	matched := FilterFromCmd(cmd).Apply(fs, projects)

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})

	return matched, cfg, nil
}

func absRoot(fs afero.Fs, root string) (string, error) {
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %q: %w", root, err)
	}

	ok, err := afero.DirExists(fs, abs)
	if err != nil || !ok {
		return "", fmt.Errorf("root directory not accessible: %s", abs)
	}

	return abs, nil
}
