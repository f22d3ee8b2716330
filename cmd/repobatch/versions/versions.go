// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package versions implements the subcommand that reports copier template
// versions across projects.
package versions

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/repobatch/internal/cmdutil"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// VersionsCmd shows the template version and source of every copier-managed
// project.
var VersionsCmd = &cli.Command{
	Name:        "versions",
	Description: "Show copier template versions across projects.",
	Flags:       append(cmdutil.DiscoveryFlags(), cmdutil.FilterFlags()...),
	Action:      actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	fs := afero.NewOsFs()

	projects, _, err := cmdutil.Gather(ctx, cmd, fs)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	copierManaged := projects[:0:0]

	for _, p := range projects {
		if p.HasCopier {
			copierManaged = append(copierManaged, p)
		}
	}

	if len(copierManaged) == 0 {
		fmt.Fprintln(cmd.Writer, "No copier-managed projects found") //nolint:errcheck
		return nil
	}

	table := cmdutil.NewTable(cmd.Writer, "Project", "Version", "Template")

	for _, p := range copierManaged {
		version := p.CopierVersion
		if version == "" {
			version = "unknown"
		}

		template := p.CopierTemplate
		if template == "" {
			template = "unknown"
		}

		table.AddRow(p.Name, version, template)
	}

	if err := table.Flush(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintf(cmd.Writer, "\nTotal projects: %d\n", len(copierManaged)) //nolint:errcheck

	return nil
}
