// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package batch executes commands across discovered projects and aggregates
// the outcomes. A command runs once per project, rooted at the project
// directory, either sequentially or concurrently with a fixed bound on the
// number of in-flight child processes.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/matt-FFFFFF/repobatch/internal/ctxlog"
)

const (
	// GOOSWindows is the string constant for Windows OS from the runtime package.
	GOOSWindows          = "windows"
	commandSwitchWindows = "/C"         // Command switch for Windows cmd.exe
	commandSwitchUnix    = "-c"         // Command switch for Unix-like shells
	winSystem32          = "System32"   // Directory where cmd.exe is located on Windows
	cmdExe               = "cmd.exe"    // Command interpreter executable on Windows
	binSh                = "/bin/sh"    // Default shell for Unix-like systems
	winSystemRootEnv     = "SystemRoot" // Environment variable for Windows system root directory
)

var (
	// ErrEmptyCommand is returned when neither a command line nor an argument vector is given.
	ErrEmptyCommand = errors.New("empty command")
	// ErrCommandNotFound is returned when the executable is not found in the system PATH.
	ErrCommandNotFound = errors.New("command not found")
)

// CommandSpec describes one command to run in each project directory.
// Exactly one of CommandLine or Argv is used: CommandLine is handed to the
// shell when UseShell is true, Argv is executed directly with no shell
// interpretation otherwise.
type CommandSpec struct {
	CommandLine string        // Shell-interpreted command string
	Argv        []string      // Argument vector, executable name first
	UseShell    bool          // Interpret CommandLine with the shell
	Timeout     time.Duration // Per-command timeout, zero means none
	Capture     bool          // Capture stdout and stderr instead of inheriting them
}

// ShellCommand builds a spec that runs commandLine through the shell with
// output capture enabled.
func ShellCommand(commandLine string, timeout time.Duration) CommandSpec {
	return CommandSpec{
		CommandLine: commandLine,
		UseShell:    true,
		Timeout:     timeout,
		Capture:     true,
	}
}

// ArgvCommand builds a spec that executes argv directly, bypassing the shell,
// with output capture enabled.
func ArgvCommand(argv ...string) CommandSpec {
	return CommandSpec{
		Argv:    argv,
		Capture: true,
	}
}

// resolve turns the spec into an executable path and argument vector suitable
// for os.StartProcess. The first element of the returned args is the
// executable name.
func (s CommandSpec) resolve(ctx context.Context) (string, []string, error) {
	if s.UseShell {
		if s.CommandLine == "" {
			return "", nil, ErrEmptyCommand
		}

		shell := defaultShell(ctx)

		sw := commandSwitchUnix
		if runtime.GOOS == GOOSWindows {
			sw = commandSwitchWindows
		}

		return shell, []string{shell, sw, s.CommandLine}, nil
	}

	if len(s.Argv) == 0 {
		return "", nil, ErrEmptyCommand
	}

	path, err := exec.LookPath(s.Argv[0])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", ErrCommandNotFound, s.Argv[0])
	}

	return path, s.Argv, nil
}

func defaultShell(ctx context.Context) string {
	if runtime.GOOS == GOOSWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return fmt.Sprintf(`%s\%s\%s`, systemRoot, winSystem32, cmdExe)
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		ctxlog.Debug(ctx, "using SHELL environment variable", "shell", shell)
		return shell
	}

	return binSh
}
