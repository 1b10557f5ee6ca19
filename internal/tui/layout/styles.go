// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Color palette (slate)
	PrimaryColor = lipgloss.Color("#3B82F6")
	AccentColor  = lipgloss.Color("#93C5FD")
	TextColor    = lipgloss.Color("#F1F5F9")
	BodyColor    = lipgloss.Color("#CBD5E1")
	MutedColor   = lipgloss.Color("#64748B")
	DimColor     = lipgloss.Color("#475569")
	BorderColor  = lipgloss.Color("#334155")
	ErrorColor   = lipgloss.Color("#EF4444")
	ErrorBorder  = lipgloss.Color("#7F1D1D")
	WarningColor = lipgloss.Color("#F59E0B")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			Align(lipgloss.Left)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	StatsStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	BusyStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	// Footer styles
	FooterStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1).
			PaddingRight(1)

	HelpTextStyle = lipgloss.NewStyle().
			Foreground(BodyColor)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(DimColor).
			Align(lipgloss.Center)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)
)

// GetDivider returns a horizontal divider of the specified width
func GetDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(BorderColor).
		Render(strings.Repeat("─", width))
}
