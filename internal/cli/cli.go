// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
)

const (
	appName    = "nlctl"
	appVersion = "0.1.0"
)

// Execute runs the CLI application
func Execute() error {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run dispatches args to a subcommand, writing results to stdout and
// diagnostics to stderr.
func Run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return tuiCommand(nil)
	}

	command := args[0]
	rest := args[1:]

	switch command {
	case "tui":
		return tuiCommand(rest)
	case "exec":
		return execCommand(rest, stdout, stderr)
	case "examples":
		return examplesCommand(stdout)
	case "health":
		return healthCommand(rest, stdout)
	case "version":
		fmt.Fprintf(stdout, "%s version %s\n", appName, appVersion)
		return nil
	case "help", "-h", "--help":
		return printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		_ = printUsage(stderr)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) error {
	fmt.Fprintf(w, `%s - natural language security console

Usage:
  %s [command] [arguments]

Commands:
  tui              Start the interactive console (default)
  exec <text>...   Send each argument as one command and print the results
  examples         List example commands
  health           Check that the NL service is reachable
  version          Print version information
  help             Show this help message

Examples:
  %s
  %s exec "arm the system"
  %s exec --json "add user John with pin 4321" "show me all users"
  %s exec --serial --timeout 10s "disarm" "arm the system"
  %s health --config ./config.yaml

`, appName, appName, appName, appName, appName, appName, appName)
	return nil
}
