// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package messages

import "time"

// Navigation messages for screen transitions within the TUI
type GoBackMsg struct{}

type GoToExamplesMsg struct{}

// ExampleSelectedMsg carries an example command chosen by the operator.
// It fills the input; it never submits.
type ExampleSelectedMsg struct {
	Text string
}

// TickMsg is the global clock used to refresh relative times
type TickMsg time.Time
