// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package examplepicker

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/noldarim/nlctl/internal/tui/layout"
)

// Model lets the operator pick one of the example commands
type Model struct {
	form     *huh.Form
	commands []string
	choice   *string
	width    int
	height   int
}

// NewModel creates a picker over commands
func NewModel(commands []string) Model {
	m := Model{
		commands: commands,
		choice:   new(string),
		width:    80,
		height:   24,
	}
	m.initForm()
	return m
}

// initForm initializes the huh form holding the example list
func (m *Model) initForm() {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("example").
				Title("Example commands").
				Description("The chosen command is copied into the input; edit it or press enter to send").
				Options(huh.NewOptions(m.commands...)...).
				Value(m.choice),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(false)
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// GetLayoutInfo returns layout information for the picker screen
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	return layout.LayoutInfo{
		Title:    "NL Security Control",
		Subtitle: "Pick an example command",
		HelpItems: []layout.HelpItem{
			{Key: "↑/↓", Description: "navigate"},
			{Key: "enter", Description: "use"},
			{Key: "esc", Description: "back"},
		},
	}
}

// SetSize updates the model's dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	dims := layout.GetContentArea(m.GetLayoutInfo(), width, height)
	m.form = m.form.WithWidth(width - 4).WithHeight(dims.Height - 2)
}
