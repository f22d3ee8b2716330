// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package list implements the subcommand that prints discovered projects.
package list

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/repobatch/internal/cmdutil"
	"github.com/matt-FFFFFF/repobatch/internal/color"
	"github.com/matt-FFFFFF/repobatch/internal/gitstatus"
	"github.com/matt-FFFFFF/repobatch/internal/project"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// ListCmd lists all discovered projects with their classification.
var ListCmd = &cli.Command{
	Name:        "list",
	Description: "List all discovered projects.",
	Flags:       append(cmdutil.DiscoveryFlags(), cmdutil.FilterFlags()...),
	Action:      actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	fs := afero.NewOsFs()

	projects, _, err := cmdutil.Gather(ctx, cmd, fs)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if len(projects) == 0 {
		fmt.Fprintln(cmd.Writer, "No projects found") //nolint:errcheck
		return nil
	}

	table := cmdutil.NewTable(cmd.Writer, "Name", "Path", "Type", "Git", "Copier", "Template")

	for _, p := range projects {
		table.AddRow(p.Name, p.Path, projectType(p), gitCell(p), copierCell(p), templateCell(p))
	}

	if err := table.Flush(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintf(cmd.Writer, "\nTotal projects: %d\n", len(projects)) //nolint:errcheck

	return nil
}

func projectType(p *project.Project) string {
	if p.IsPython {
		return "Python"
	}

	return "Other"
}

func gitCell(p *project.Project) string {
	if !p.IsGit {
		return "-"
	}

	if gitstatus.IsDirty(p.Path) {
		return color.Colorize("dirty", color.FgYellow)
	}

	return color.Colorize("clean", color.FgGreen)
}

func copierCell(p *project.Project) string {
	if !p.HasCopier {
		return "-"
	}

	if p.CopierVersion == "" {
		return "unknown"
	}

	return p.CopierVersion
}

func templateCell(p *project.Project) string {
	if !p.HasCopier || p.CopierTemplate == "" {
		return "-"
	}

	return p.CopierTemplate
}
