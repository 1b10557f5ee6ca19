// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"github.com/rs/zerolog"
)

// Static logger getters that map directly to config.yaml log.levels
// These ensure consistent logger names across the codebase

// GetHistoryLogger returns a logger for the history store
func GetHistoryLogger() zerolog.Logger {
	return GetLogger("history")
}

// GetTransportLogger returns a logger for the NL API client
func GetTransportLogger() zerolog.Logger {
	return GetLogger("transport")
}

// GetTUILogger returns a logger for TUI components
func GetTUILogger() zerolog.Logger {
	return GetLogger("tui")
}

// GetCLILogger returns a logger for CLI commands
func GetCLILogger() zerolog.Logger {
	return GetLogger("cli")
}

// GetTelemetryLogger returns a logger for tracing setup
func GetTelemetryLogger() zerolog.Logger {
	return GetLogger("telemetry")
}

// GetFakeBackendLogger returns a logger for the development backend
func GetFakeBackendLogger() zerolog.Logger {
	return GetLogger("fakebackend")
}
