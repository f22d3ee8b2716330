// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show implements the subcommand that prints a named file from each
// matching project.
package show

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matt-FFFFFF/repobatch/internal/cmdutil"
	"github.com/matt-FFFFFF/repobatch/internal/color"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const fileArg = "file"

// ShowCmd prints the contents of a named file from every matching project
// that has it.
var ShowCmd = &cli.Command{
	Name:        "show",
	Description: "Show the contents of a file across projects.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      fileArg,
			UsageText: "FILE",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Flags:  append(cmdutil.DiscoveryFlags(), cmdutil.FilterFlags()...),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg(fileArg)
	if name == "" {
		return cli.Exit("Please provide a file name to show", 1)
	}

	fs := afero.NewOsFs()

	projects, _, err := cmdutil.Gather(ctx, cmd, fs)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	found := 0

	for _, p := range projects {
		content, readErr := afero.ReadFile(fs, filepath.Join(p.Path, name))
		if readErr != nil {
			continue
		}

		found++

		header := fmt.Sprintf("=== %s (%s) ===", p.Name, p.Path)
		fmt.Fprintln(cmd.Writer, color.Colorize(header, color.Bold))       //nolint:errcheck
		fmt.Fprintln(cmd.Writer, strings.TrimRight(string(content), "\n")) //nolint:errcheck
		fmt.Fprintln(cmd.Writer)                                           //nolint:errcheck
	}

	if found == 0 {
		fmt.Fprintf(cmd.Writer, "No project contains %s\n", name) //nolint:errcheck
		return nil
	}

	fmt.Fprintf(cmd.Writer, "Shown in %d of %d projects\n", found, len(projects)) //nolint:errcheck

	return nil
}
