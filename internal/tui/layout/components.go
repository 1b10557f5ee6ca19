// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"fmt"
	"strings"
)

// HelpItem represents a single help entry
type HelpItem struct {
	Key         string
	Description string
}

// RenderHeader creates a header with title, subtitle and optional status
func RenderHeader(title, subtitle, status string, width int) string {
	var header strings.Builder

	header.WriteString(TitleStyle.Render(title))
	if subtitle != "" {
		header.WriteString("\n")
		header.WriteString(SubtitleStyle.Render(subtitle))
	}
	if status != "" {
		header.WriteString("\n")
		header.WriteString(status)
	}

	header.WriteString("\n")
	header.WriteString(GetDivider(width))

	return header.String()
}

// RenderFooter creates a footer with help items
func RenderFooter(helpItems []HelpItem, width int) string {
	if len(helpItems) == 0 {
		return ""
	}

	helpTexts := make([]string, 0, len(helpItems))
	for _, item := range helpItems {
		helpTexts = append(helpTexts, fmt.Sprintf("[%s] %s",
			HelpKeyStyle.Render(item.Key),
			HelpTextStyle.Render(item.Description)))
	}

	// lipgloss handles wrapping
	return GetDivider(width) + "\n" + FooterStyle.Width(width).Render(strings.Join(helpTexts, " • "))
}
