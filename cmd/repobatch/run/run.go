// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements the subcommand that executes a shell command across
// the matching projects.
package run

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matt-FFFFFF/repobatch/internal/batch"
	"github.com/matt-FFFFFF/repobatch/internal/cmdutil"
	"github.com/matt-FFFFFF/repobatch/internal/color"
	"github.com/matt-FFFFFF/repobatch/internal/ctxlog"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	commandArg      = "command"
	timeoutFlag     = "timeout"
	verboseFlag     = "verbose"
	maxWorkersFlag  = "max-workers"
	failFastFlag    = "fail-fast"
	defaultTimeoutS = 300
)

// RunCmd runs a shell command in every matching project.
var RunCmd = &cli.Command{
	Name:        "run",
	Description: "Run a shell command in every matching project.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      commandArg,
			UsageText: "COMMAND",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Flags: append(append(cmdutil.DiscoveryFlags(), cmdutil.FilterFlags()...),
		&cli.IntFlag{
			Name:  timeoutFlag,
			Usage: "Command timeout in seconds",
			Value: defaultTimeoutS,
		},
		&cli.BoolFlag{
			Name:    verboseFlag,
			Aliases: []string{"v"},
			Usage:   "Show command output for successful projects too",
		},
		&cli.IntFlag{
			Name:    maxWorkersFlag,
			Aliases: []string{"j"},
			Usage:   "Run in parallel with N workers",
		},
		&cli.BoolFlag{
			Name:  failFastFlag,
			Usage: "Stop at the first failing project (sequential mode only)",
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	commandLine := cmd.StringArg(commandArg)
	if commandLine == "" {
		return cli.Exit("Please provide a command to run", 1)
	}

	fs := afero.NewOsFs()

	projects, cfg, err := cmdutil.Gather(ctx, cmd, fs)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if len(projects) == 0 {
		fmt.Fprintln(cmd.Writer, "No projects found") //nolint:errcheck
		return nil
	}

	timeoutS := cmd.Int(timeoutFlag)
	if !cmd.IsSet(timeoutFlag) && cfg.TimeoutSeconds > 0 {
		timeoutS = cfg.TimeoutSeconds
	}

	opts := batch.Options{
		ContinueOnError: !cmd.Bool(failFastFlag),
	}

	switch {
	case cmd.IsSet(maxWorkersFlag):
		opts.Parallel = true
		opts.MaxWorkers = cmd.Int(maxWorkersFlag)
	case cfg.MaxWorkers > 0:
		opts.Parallel = true
		opts.MaxWorkers = cfg.MaxWorkers
	}

	ctxlog.Debug(ctx, "starting batch",
		"command", commandLine,
		"projects", len(projects),
		"parallel", opts.Parallel,
		"maxWorkers", opts.MaxWorkers)

	fmt.Fprintf(cmd.Writer, "Running command in %d projects: %s\n\n", len(projects), commandLine) //nolint:errcheck

	spec := batch.ShellCommand(commandLine, time.Duration(timeoutS)*time.Second)

	result := batch.RunBatch(ctx, projects, spec, opts)

	printResults(cmd, result, cmd.Bool(verboseFlag))

	if result.Failed > 0 {
		return cli.Exit("", 1)
	}

	return nil
}

func printResults(cmd *cli.Command, result *batch.BatchResult, verbose bool) {
	for _, res := range result.Results {
		mark := color.Colorize("ok", color.FgGreen)
		if !res.Success {
			mark = color.Colorize("FAIL", color.FgRed)
		}

		fmt.Fprintf(cmd.Writer, "%s %s\n", mark, res.Project.Name) //nolint:errcheck

		if verbose || !res.Success {
			if out := strings.TrimSpace(res.Output); out != "" {
				fmt.Fprintf(cmd.Writer, "  %s\n", out) //nolint:errcheck
			}

			if errText := strings.TrimSpace(res.Error); errText != "" {
				fmt.Fprintf(cmd.Writer, "  %s\n", color.Colorize(errText, color.FgRed)) //nolint:errcheck
			}
		}
	}

	fmt.Fprintf(cmd.Writer, "\nSummary:\n  Total: %d\n  Successful: %d\n  Failed: %d\n",
		result.Total, result.Successful, result.Failed) //nolint:errcheck
}
