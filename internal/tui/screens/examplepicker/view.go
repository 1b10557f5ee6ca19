// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package examplepicker

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/noldarim/nlctl/internal/tui/layout"
)

// View renders the picker screen
func (m Model) View() string {
	content := lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	return layout.RenderLayout(content, m.GetLayoutInfo(), m.width, m.height)
}
