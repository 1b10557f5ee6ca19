// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package examplepicker

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/noldarim/nlctl/internal/tui/messages"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, goBack
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		text := m.form.GetString("example")
		if text == "" {
			text = *m.choice
		}
		return m, Select(text)
	}

	return m, cmd
}

// Select returns the command sequence that hands text to the console and
// leaves the picker.
func Select(text string) tea.Cmd {
	return tea.Sequence(
		goBack,
		func() tea.Msg { return messages.ExampleSelectedMsg{Text: text} },
	)
}

func goBack() tea.Msg {
	return messages.GoBackMsg{}
}
