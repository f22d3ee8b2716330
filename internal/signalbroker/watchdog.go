// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/repobatch/internal/ctxlog"
)

// Watch monitors the signal channel and cancels the context on the second
// signal of any given type. The first signal of each type is a no-op so a
// running batch can drain.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Info(ctx, "received second signal of type, terminating", "signal", sig.String())
			close(sigCh)
			cancel()

			return
		}

		ctxlog.Info(ctx, "received signal, send again to terminate", "signal", sig.String())

		seen[sig] = struct{}{}
	}
}
