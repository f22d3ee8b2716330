// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/repobatch/internal/ctxlog"
	"github.com/matt-FFFFFF/repobatch/internal/project"
)

const maxBufferSize = 8 * 1024 * 1024 // 8MB cap on captured output per stream

var (
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrFailedToReadBuffer is returned when the buffer from the operating system pipe could not be read.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
)

// Run executes one command in proj's directory and returns its normalized
// outcome. Every failure mode, launch fault, non-zero exit, timeout, is
// reported through the CommandResult; Run never panics and never returns nil.
func Run(ctx context.Context, proj *project.Project, spec CommandSpec) *CommandResult {
	logger := ctxlog.Logger(ctx).
		With("project", proj.Name).
		With("cwd", proj.Path)

	path, args, err := spec.resolve(ctx)
	if err != nil {
		return launchFailure(proj, err)
	}

	logger.Debug("command info", "path", path, "args", args, "timeout", spec.Timeout)

	if spec.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	var rOut, wOut, rErr, wErr *os.File

	files := []*os.File{os.Stdin, os.Stdout, os.Stderr}

	if spec.Capture {
		rOut, wOut, err = os.Pipe()
		if err != nil {
			return launchFailure(proj, errors.Join(ErrFailedToCreatePipe, err))
		}

		rErr, wErr, err = os.Pipe()
		if err != nil {
			closeAll(rOut, wOut)
			return launchFailure(proj, errors.Join(ErrFailedToCreatePipe, err))
		}

		files = []*os.File{os.Stdin, wOut, wErr}
	}

	ps, err := os.StartProcess(path, args, &os.ProcAttr{
		Dir:   proj.Path,
		Env:   os.Environ(),
		Files: files,
	})
	if err != nil {
		closeAll(rOut, wOut, rErr, wErr)
		return launchFailure(proj, err)
	}

	logger.Debug("process started", "pid", ps.Pid)

	// Watchdog: kills the child when the context expires.
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			killPs(ctx, ps)
		case <-done:
		}
	}()

	state, psErr := ps.Wait()

	close(done)

	if spec.Capture {
		_ = wOut.Close()
		_ = wErr.Close()
	}

	res := &CommandResult{
		Project:  proj,
		ExitCode: state.ExitCode(),
	}

	if spec.Capture {
		res.Output = readCaptured(ctx, rOut)
		res.Error = readCaptured(ctx, rErr)
	}

	// Timeout classification reads the context state rather than racing the
	// watchdog goroutine. Termination of process descendants is best-effort;
	// only the direct child is signalled.
	if spec.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.Success = false
		res.ExitCode = SentinelExitCode
		res.Error = fmt.Sprintf("command timed out after %s", spec.Timeout)

		logger.Debug("process killed on timeout", "pid", ps.Pid)

		return res
	}

	if psErr != nil {
		res.Success = false
		res.ExitCode = SentinelExitCode
		res.Error = psErr.Error()

		return res
	}

	res.Success = res.ExitCode == 0

	logger.Debug("process finished", "exitCode", res.ExitCode, "success", res.Success)

	return res
}

func launchFailure(proj *project.Project, err error) *CommandResult {
	return &CommandResult{
		Project:  proj,
		Success:  false,
		Error:    err.Error(),
		ExitCode: SentinelExitCode,
	}
}

// readCaptured drains a pipe read end up to the buffer cap. Oversized output
// is truncated rather than failing the command.
func readCaptured(ctx context.Context, r *os.File) string {
	defer r.Close() //nolint:errcheck

	var buf bytes.Buffer

	n, err := io.CopyN(&buf, r, maxBufferSize+1)
	if err != nil && err != io.EOF {
		ctxlog.Debug(ctx, "failed to read captured output", "error", errors.Join(ErrFailedToReadBuffer, err))
		return buf.String()
	}

	if n > maxBufferSize {
		ctxlog.Debug(ctx, "captured output truncated", "maxBytes", maxBufferSize)
		return string(buf.Bytes()[:maxBufferSize])
	}

	return buf.String()
}

func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Debug(ctx, "process killed", "pid", ps.Pid)
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}
