// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/stretchr/testify/assert"
)

// AssertSettledEvent verifies an event is an EntrySettledEvent for the entry
func AssertSettledEvent(t *testing.T, event protocol.Event, entryID string, status protocol.EntryStatus) {
	t.Helper()
	settled, ok := event.(protocol.EntrySettledEvent)
	if !assert.True(t, ok, "Expected EntrySettledEvent, got %T", event) {
		return
	}
	assert.Equal(t, entryID, settled.EntryID, "Settled entry mismatch")
	assert.Equal(t, status, settled.Status, "Settled status mismatch")
}

// AssertQuitMessage verifies that a quit message was generated
func AssertQuitMessage(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	assert.NotNil(t, cmd, "Expected a command to be generated")
	msg := ExecuteCommand(cmd)
	assert.IsType(t, tea.QuitMsg{}, msg, "Expected quit message")
}

// AssertNoCommand verifies that no command was generated
func AssertNoCommand(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	assert.Nil(t, cmd, "Expected no command to be generated")
}

// AssertViewNotEmpty verifies that the view produces non-empty output
func AssertViewNotEmpty(t *testing.T, model tea.Model) {
	t.Helper()
	view := model.View()
	assert.NotEmpty(t, view, "View should not be empty")
}
