// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-aware logger built on slog.
//
// The default handler pretty-prints to stderr and the level is taken from
// the REPOBATCH_LOG_LEVEL environment variable.
package ctxlog
