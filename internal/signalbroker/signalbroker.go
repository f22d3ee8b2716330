// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker listens for OS signals that should terminate the
// process. The watchdog tolerates one signal of each type, letting an
// in-flight batch finish; a second signal of the same type cancels the
// run context.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/repobatch/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

// New creates a signal channel subscribed to the termination signals,
// or to sigs when given.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}
