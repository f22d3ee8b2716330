// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package update implements the subcommand that re-applies the copier
// template to every copier-managed project.
//
// For each project the workflow is: stash uncommitted changes, run
// `copier update`, check for merge conflicts, then restore the stash.
// Failures in one project never stop the others; they are aggregated and
// reported at the end.
package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/repobatch/internal/batch"
	"github.com/matt-FFFFFF/repobatch/internal/cmdutil"
	"github.com/matt-FFFFFF/repobatch/internal/color"
	"github.com/matt-FFFFFF/repobatch/internal/ctxlog"
	"github.com/matt-FFFFFF/repobatch/internal/gitstatus"
	"github.com/matt-FFFFFF/repobatch/internal/project"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	dryRunFlag = "dry-run"

	// copier pulls and renders a whole template, so it gets a much longer
	// leash than ordinary batch commands.
	copierTimeout = 600 * time.Second
	gitTimeout    = 60 * time.Second

	stashMessage = "repobatch-update"
)

// ErrNotGit is returned when a copier-managed project is not under git
// version control, which the stash workflow requires.
var ErrNotGit = errors.New("not a git repository, refusing to update")

// Variables so tests can observe the workflow without real git and copier
// binaries.
var (
	runCmd  = batch.Run
	isDirty = gitstatus.IsDirty
)

// UpdateCmd updates every copier-managed project to the latest template
// version.
var UpdateCmd = &cli.Command{
	Name:        "update",
	Description: "Update copier-managed projects to the latest template version.",
	Flags: append(append(cmdutil.DiscoveryFlags(), cmdutil.FilterFlags()...),
		&cli.BoolFlag{
			Name:  dryRunFlag,
			Usage: "Show which projects would be updated without changing them",
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	fs := afero.NewOsFs()

	projects, _, err := cmdutil.Gather(ctx, cmd, fs)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	candidates := projects[:0:0]

	for _, p := range projects {
		if p.HasCopier {
			candidates = append(candidates, p)
		}
	}

	if len(candidates) == 0 {
		fmt.Fprintln(cmd.Writer, "No copier-managed projects found") //nolint:errcheck
		return nil
	}

	if cmd.Bool(dryRunFlag) {
		fmt.Fprintf(cmd.Writer, "Would update %d projects:\n", len(candidates)) //nolint:errcheck

		for _, p := range candidates {
			version := p.CopierVersion
			if version == "" {
				version = "unknown"
			}

			fmt.Fprintf(cmd.Writer, "  %s (%s)\n", p.Name, version) //nolint:errcheck
		}

		return nil
	}

	var errs *multierror.Error

	updated := 0

	for _, p := range candidates {
		fmt.Fprintf(cmd.Writer, "Updating %s...\n", p.Name) //nolint:errcheck

		if updateErr := updateProject(ctx, p); updateErr != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", p.Name, updateErr))

			fmt.Fprintf(cmd.Writer, "%s %s\n", color.Colorize("FAIL", color.FgRed), updateErr) //nolint:errcheck

			continue
		}

		updated++

		fmt.Fprintf(cmd.Writer, "%s %s updated\n", color.Colorize("ok", color.FgGreen), p.Name) //nolint:errcheck
	}

	fmt.Fprintf(cmd.Writer, "\nUpdated %d of %d projects\n", updated, len(candidates)) //nolint:errcheck

	if err := errs.ErrorOrNil(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}

// updateProject runs the stash / copier update / unstash cycle for a single
// project. The stash is restored after a clean update, and also after a
// failed one, so the working tree is never left without the user's local
// changes. Merge conflicts are the exception: popping onto an unmerged index
// fails, so the stash is left intact for manual resolution and the conflict
// is reported instead.
func updateProject(ctx context.Context, p *project.Project) error {
	if !p.IsGit {
		return ErrNotGit
	}

	stashed := false

	if isDirty(p.Path) {
		ctxlog.Info(ctx, "stashing uncommitted changes", "project", p.Name)

		if err := runGit(ctx, p, "stash", "push", "-u", "-m", stashMessage); err != nil {
			return fmt.Errorf("stash failed: %w", err)
		}

		stashed = true
	}

	copierSpec := batch.ArgvCommand("copier", "update", "--trust", "--defaults")
	copierSpec.Timeout = copierTimeout

	copierErr := resultErr(runCmd(ctx, p, copierSpec))

	conflictErr := checkConflicts(ctx, p)

	switch {
	case stashed && conflictErr != nil:
		ctxlog.Warn(ctx, "leaving stash intact, resolve conflicts manually", "project", p.Name)
	case stashed:
		if err := runGit(ctx, p, "stash", "pop"); err != nil {
			return multierror.Append(copierErr, fmt.Errorf("stash pop failed: %w", err)).ErrorOrNil()
		}
	}

	var errs *multierror.Error

	if copierErr != nil {
		errs = multierror.Append(errs, fmt.Errorf("copier update failed: %w", copierErr))
	}

	if conflictErr != nil {
		errs = multierror.Append(errs, conflictErr)
	}

	return errs.ErrorOrNil()
}

// checkConflicts reports unresolved merge conflicts left behind by copier's
// three-way merge.
func checkConflicts(ctx context.Context, p *project.Project) error {
	spec := batch.ArgvCommand("git", "diff", "--name-only", "--diff-filter=U")
	spec.Timeout = gitTimeout

	res := runCmd(ctx, p, spec)
	if err := resultErr(res); err != nil {
		return fmt.Errorf("conflict check failed: %w", err)
	}

	conflicted := strings.TrimSpace(res.Output)
	if conflicted == "" {
		return nil
	}

	return fmt.Errorf("merge conflicts in: %s", strings.Join(strings.Fields(conflicted), ", "))
}

func runGit(ctx context.Context, p *project.Project, args ...string) error {
	spec := batch.ArgvCommand(append([]string{"git"}, args...)...)
	spec.Timeout = gitTimeout

	return resultErr(runCmd(ctx, p, spec))
}

// resultErr converts a command result into an error carrying the captured
// stderr, or nil on success.
func resultErr(res *batch.CommandResult) error {
	if res.Success {
		return nil
	}

	detail := strings.TrimSpace(res.Error)
	if detail == "" {
		detail = strings.TrimSpace(res.Output)
	}

	if detail == "" {
		return fmt.Errorf("exit code %d", res.ExitCode)
	}

	return fmt.Errorf("exit code %d: %s", res.ExitCode, detail)
}
