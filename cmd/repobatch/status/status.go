// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package status implements the subcommand that reports git working tree
// state across projects.
package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/repobatch/internal/cmdutil"
	"github.com/matt-FFFFFF/repobatch/internal/color"
	"github.com/matt-FFFFFF/repobatch/internal/ctxlog"
	"github.com/matt-FFFFFF/repobatch/internal/gitstatus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const uncommittedFlag = "uncommitted"

// StatusCmd shows the git working tree state of every git project.
var StatusCmd = &cli.Command{
	Name:        "status",
	Description: "Show git working tree state across projects.",
	Flags: append(append(cmdutil.DiscoveryFlags(), cmdutil.FilterFlags()...),
		&cli.BoolFlag{
			Name:    uncommittedFlag,
			Aliases: []string{"u"},
			Usage:   "Only show projects with uncommitted changes",
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

	gitProjects := projects[:0:0]

	for _, p := range projects {
		if p.IsGit {
			gitProjects = append(gitProjects, p)
		}
	}

	if len(gitProjects) == 0 {
		fmt.Fprintln(cmd.Writer, "No git projects found") //nolint:errcheck
		return nil
	}

	onlyDirty := cmd.Bool(uncommittedFlag)
	table := cmdutil.NewTable(cmd.Writer, "Project", "Status")
	dirty := 0
	shown := 0

	for _, p := range gitProjects {
		changed, statusErr := gitstatus.HasChanges(p.Path)

		switch {
		case errors.Is(statusErr, gitstatus.ErrNotARepository):
			// Marker directory exists but the repository is unreadable.
			ctxlog.Debug(ctx, "skipping unreadable repository", "path", p.Path)
			continue
		case statusErr != nil:
			table.AddRow(p.Name, color.Colorize("error: "+statusErr.Error(), color.FgRed))

			shown++

			continue
		case changed:
			table.AddRow(p.Name, color.Colorize("uncommitted changes", color.FgYellow))

			dirty++
			shown++
		case !onlyDirty:
			table.AddRow(p.Name, color.Colorize("clean", color.FgGreen))

			shown++
		}
	}

	if shown == 0 {
		fmt.Fprintln(cmd.Writer, "All projects are clean") //nolint:errcheck
		return nil
	}

	if err := table.Flush(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintf(cmd.Writer, "\nProjects with uncommitted changes: %d of %d\n", dirty, len(gitProjects)) //nolint:errcheck

	return nil
}
