// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package entrycard draws one history entry view as a card.
package entrycard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/noldarim/nlctl/internal/render"
	"github.com/noldarim/nlctl/internal/tui/components/card"
	"github.com/noldarim/nlctl/internal/tui/layout"
)

var (
	inputStyle  = lipgloss.NewStyle().Foreground(layout.BodyColor)
	timeStyle   = lipgloss.NewStyle().Foreground(layout.DimColor)
	sectionText = lipgloss.Color("#94A3B8")
)

// Render draws v in a card of the given outer width. spinner replaces the
// label of a pending entry.
func Render(v render.View, width int, spinner string) string {
	style := card.DefaultStyle()
	style.Width = width
	if v.Kind == render.KindAppError || v.Kind == render.KindTransportError {
		style.BorderColor = layout.ErrorBorder
	}

	inner := width - 4 // border and padding
	if inner < 10 {
		inner = 10
	}

	return card.Render(header(v, inner, spinner), body(v, inner), style)
}

func header(v render.View, width int, spinner string) string {
	label := v.Header.Label
	if v.Kind == render.KindPending && spinner != "" {
		label = spinner + " " + label
	}
	tag := lipgloss.NewStyle().
		Foreground(lipgloss.Color(v.Header.Color)).
		Bold(true).
		Render("[" + label + "]")

	when := timeStyle.Render(v.When)

	// Input takes what the tag and time leave, truncated to one line
	room := width - lipgloss.Width(tag) - lipgloss.Width(when) - 2
	input := firstLine(v.Input)
	if lipgloss.Width(input) > room {
		input = ansi.Truncate(input, max(room, 1), "…")
	}

	return tag + " " + inputStyle.Render(input) + " " + when
}

func body(v render.View, width int) string {
	var blocks []string
	if echo := v.Echo(); echo != "" {
		blocks = append(blocks, timeStyle.Render(ansi.Truncate("Interpreted as: "+firstLine(echo), width, "…")))
	}

	switch v.Kind {
	case render.KindPending:
		blocks = append(blocks, lipgloss.NewStyle().Foreground(layout.MutedColor).Render("Processing..."))

	case render.KindTransportError:
		blocks = append(blocks, card.Section("Error", layout.ErrorColor, card.Code(v.Error, width)))

	case render.KindAppError:
		if v.Source != nil {
			blocks = append(blocks, sourceLine(v.Source))
		}
		blocks = append(blocks, card.Section("Error", layout.ErrorColor, card.Code(v.Error, width)))

	case render.KindInterpretation:
		badges := make([]string, 0, len(v.Badges))
		for _, b := range v.Badges {
			badges = append(badges, card.Badge(b.Label, b.Value, lipgloss.Color(b.Color)))
		}
		interpretation := lipgloss.NewStyle().Width(width).Render(strings.Join(badges, " "))
		if v.Source != nil {
			interpretation = lipgloss.JoinVertical(lipgloss.Left, sourceLine(v.Source), interpretation)
		}
		blocks = append(blocks, card.Section("NLP Interpretation", sectionText, interpretation))

		if v.API != nil {
			call := v.API.Method + " " + v.API.Path
			if v.API.Payload != "" {
				call += "\n" + v.API.Payload
			}
			blocks = append(blocks, card.Section("API Call", sectionText, card.Code(call, width)))
		}
		if v.Result != "" {
			blocks = append(blocks, card.Section("Response", sectionText, card.Code(v.Result, width)))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func sourceLine(s *render.SourceBadge) string {
	return lipgloss.NewStyle().Foreground(sectionText).Render(s.Marker + " " + s.Label)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
