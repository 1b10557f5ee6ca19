// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/noldarim/nlctl/internal/logger"
	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/noldarim/nlctl/internal/tui/messages"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	log := logger.GetTUILogger().With().Str("component", "console").Logger()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case messages.TickMsg:
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.store.Busy() {
			m.spinning = false
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case protocol.EntrySettledEvent:
		log.Debug().Str("entry_id", msg.EntryID).Str("status", string(msg.Status)).Msg("Entry settled")
		m.refresh()
		return m, m.syncFocus()

	case protocol.ErrorEvent:
		log.Warn().Str("message", msg.Message).Str("context", msg.Context).Msg("Backend problem reported")
		m.notice = msg.Message
		return m, nil

	case messages.ExampleSelectedMsg:
		m.input.SetValue(msg.Text)
		return m, m.syncFocus()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Examples):
		return m, func() tea.Msg { return messages.GoToExamplesMsg{} }

	case key.Matches(msg, m.keys.Clear):
		m.store.Clear()
		m.notice = ""
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	// Input is read-only while a submission is outstanding
	if m.store.Busy() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.store.Busy() {
		return m, nil
	}
	if _, accepted := m.store.Submit(m.input.Value()); !accepted {
		return m, nil
	}

	m.input.Reset()
	m.refresh()
	m.history.GotoTop()

	cmds := []tea.Cmd{m.syncFocus()}
	if !m.spinning && m.store.Busy() {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}
