// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/noldarim/nlctl/internal/tui/layout"
)

// View renders the console screen
func (m Model) View() string {
	border := layout.BorderColor
	if m.input.Focused() {
		border = layout.PrimaryColor
	}
	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(m.input.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		input,
		"",
		m.history.View(),
	)

	return layout.RenderLayout(content, m.GetLayoutInfo(), m.width, m.height)
}
