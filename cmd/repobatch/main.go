// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the repobatch command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/repobatch"
	"github.com/matt-FFFFFF/repobatch/cmd/repobatch/list"
	"github.com/matt-FFFFFF/repobatch/cmd/repobatch/run"
	"github.com/matt-FFFFFF/repobatch/cmd/repobatch/show"
	"github.com/matt-FFFFFF/repobatch/cmd/repobatch/status"
	"github.com/matt-FFFFFF/repobatch/cmd/repobatch/update"
	"github.com/matt-FFFFFF/repobatch/cmd/repobatch/versions"
	"github.com/matt-FFFFFF/repobatch/internal/ctxlog"
	"github.com/matt-FFFFFF/repobatch/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		list.ListCmd,
		versions.VersionsCmd,
		run.RunCmd,
		status.StatusCmd,
		show.ShowCmd,
		update.UpdateCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "repobatch",
	Description: `Repobatch is a batch operations manager for directories holding many
independent projects. It discovers project roots by their marker files,
classifies them by version control, language ecosystem and template
management, and runs shell commands across the matching set either
sequentially or with a bounded number of parallel workers.`,
	Usage:                 "repobatch run 'git pull' --root ~/src -j 4",
	Copyright:             "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", repobatch.Version, repobatch.Commit)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}
}
