// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	// MinimumWidth is the minimum terminal width required
	MinimumWidth = 40
	// MinimumHeight fits header, input, footer and a few history lines
	MinimumHeight = 14
)

// LayoutInfo contains all the information needed to render a layout
type LayoutInfo struct {
	Title     string
	Subtitle  string
	Status    string
	HelpItems []HelpItem
}

// Dimensions represents the available space for content
type Dimensions struct {
	Width  int
	Height int
	Valid  bool
	Error  string
}

// ValidateSpace checks if the terminal has enough space to render properly
func ValidateSpace(width, height int) Dimensions {
	dims := Dimensions{Width: width, Height: height, Valid: true}
	switch {
	case width < MinimumWidth:
		dims.Valid = false
		dims.Error = fmt.Sprintf("Terminal too narrow (%d cols). Minimum: %d cols", width, MinimumWidth)
	case height < MinimumHeight:
		dims.Valid = false
		dims.Error = fmt.Sprintf("Terminal too short (%d lines). Minimum: %d lines", height, MinimumHeight)
	}
	return dims
}

// RenderLayout combines header, content, and footer into a complete layout
// Returns error view if terminal is too small
func RenderLayout(content string, info LayoutInfo, width, height int) string {
	dims := GetContentArea(info, width, height)
	if !dims.Valid {
		return renderSpaceError(dims.Error, width, height)
	}

	header := RenderHeader(info.Title, info.Subtitle, info.Status, width)
	footer := RenderFooter(info.HelpItems, width)

	// MaxHeight enforces the ceiling, Height sets the box size
	body := lipgloss.NewStyle().
		Width(width).
		MaxHeight(dims.Height).
		Height(dims.Height).
		Align(lipgloss.Left, lipgloss.Top).
		Render(content)

	if footer == "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// GetContentArea calculates the available width and height for content
func GetContentArea(info LayoutInfo, totalWidth, totalHeight int) Dimensions {
	dims := ValidateSpace(totalWidth, totalHeight)
	if !dims.Valid {
		return dims
	}

	headerHeight := lipgloss.Height(RenderHeader(info.Title, info.Subtitle, info.Status, totalWidth))
	footerHeight := 0
	if len(info.HelpItems) > 0 {
		footerHeight = lipgloss.Height(RenderFooter(info.HelpItems, totalWidth))
	}

	dims.Height = totalHeight - headerHeight - footerHeight
	if dims.Height < 1 {
		dims.Height = 1
	}
	return dims
}

// renderSpaceError renders an error message when terminal is too small
func renderSpaceError(message string, width, height int) string {
	lines := []string{
		"⚠ Terminal Too Small ⚠",
		"",
		message,
		"",
		fmt.Sprintf("Current: %dx%d", width, height),
		fmt.Sprintf("Minimum: %dx%d", MinimumWidth, MinimumHeight),
		"",
		"Please resize your terminal",
	}

	return lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true).
		Align(lipgloss.Center, lipgloss.Center).
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}
