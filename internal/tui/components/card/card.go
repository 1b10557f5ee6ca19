// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package card

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Style defines the visual appearance of a card
type Style struct {
	BorderColor lipgloss.Color
	BorderStyle lipgloss.Border
	Padding     []int // [top, right, bottom, left]
	Margin      []int // [top, right, bottom, left]
	Width       int   // outer width, 0 = auto
}

// DefaultStyle returns the entry card style
func DefaultStyle() Style {
	return Style{
		BorderColor: lipgloss.Color("#334155"),
		BorderStyle: lipgloss.RoundedBorder(),
		Padding:     []int{0, 1, 0, 1},
		Margin:      []int{0, 0, 1, 0},
	}
}

// Render creates a bordered card whose first line is header
func Render(header, content string, style Style) string {
	body := header
	if content != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, header, content)
	}

	box := lipgloss.NewStyle().
		Border(style.BorderStyle).
		BorderForeground(style.BorderColor)
	if len(style.Padding) == 4 {
		box = box.Padding(style.Padding[0], style.Padding[1], style.Padding[2], style.Padding[3])
	}
	if style.Width > 0 {
		// lipgloss Width excludes the border
		box = box.Width(style.Width - 2)
	}

	out := box.Render(body)
	if len(style.Margin) == 4 {
		out = lipgloss.NewStyle().
			Margin(style.Margin[0], style.Margin[1], style.Margin[2], style.Margin[3]).
			Render(out)
	}
	return out
}

// Section renders an uppercase section title above body
func Section(title string, titleColor lipgloss.Color, body string) string {
	t := lipgloss.NewStyle().
		Foreground(titleColor).
		Bold(true).
		Render(strings.ToUpper(title))
	return lipgloss.JoinVertical(lipgloss.Left, t, body)
}

// Badge renders "label: value" with the value in color
func Badge(label, value string, color lipgloss.Color) string {
	l := lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8")).Render(label + ": ")
	v := lipgloss.NewStyle().Foreground(color).Render(value)
	return lipgloss.NewStyle().
		Border(lipgloss.HiddenBorder(), false, true, false, false).
		Render(l + v)
}

// Code renders a preformatted block
func Code(text string, width int) string {
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CBD5E1")).
		Background(lipgloss.Color("#0F172A")).
		Padding(0, 1)
	if width > 0 {
		s = s.Width(width)
	}
	return s.Render(text)
}
