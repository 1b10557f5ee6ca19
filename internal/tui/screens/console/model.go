// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noldarim/nlctl/internal/history"
	"github.com/noldarim/nlctl/internal/render"
	"github.com/noldarim/nlctl/internal/tui/components/entrycard"
	"github.com/noldarim/nlctl/internal/tui/layout"
)

const (
	inputHeight = 3
	placeholder = "Type a command in natural language... (enter to send, ctrl+j for a new line)"
	emptyState  = "No commands yet. Press ctrl+e for examples or type your own."
)

// Store is the part of the history store the console drives
type Store interface {
	Submit(text string) (id string, accepted bool)
	Clear()
	Snapshot() []history.Entry
	Busy() bool
}

type keyMap struct {
	Submit   key.Binding
	Examples key.Binding
	Clear    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:   key.NewBinding(key.WithKeys("enter")),
		Examples: key.NewBinding(key.WithKeys("ctrl+e")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+l")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// Model is the operator console: command input above the history pane
type Model struct {
	store   Store
	input   textarea.Model
	history viewport.Model
	spinner spinner.Model
	keys    keyMap

	spinning bool
	notice   string // last non-fatal problem reported by the backend side
	entries  int
	now      func() time.Time

	width  int
	height int
}

// NewModel creates a console bound to store
func NewModel(store Store) Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"))
	ta.Focus()

	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(layout.AccentColor)),
	)

	m := Model{
		store:   store,
		input:   ta,
		history: vp,
		spinner: sp,
		keys:    defaultKeyMap(),
		now:     time.Now,
		width:   80,
		height:  24,
	}
	m.SetSize(m.width, m.height)
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// GetLayoutInfo returns layout information for the console screen
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	status := layout.StatsStyle.Render(countLabel(m.entries))
	if m.store.Busy() {
		status += "  " + layout.BusyStyle.Render(m.spinner.View()+" Processing...")
	}
	if m.notice != "" {
		status += "  " + layout.WarningStyle.Render("⚠ "+m.notice)
	}

	return layout.LayoutInfo{
		Title:    "NL Security Control",
		Subtitle: "Control your security system with natural language commands",
		Status:   status,
		HelpItems: []layout.HelpItem{
			{Key: "enter", Description: "send"},
			{Key: "ctrl+j", Description: "new line"},
			{Key: "ctrl+e", Description: "examples"},
			{Key: "ctrl+l", Description: "clear history"},
			{Key: "pgup/pgdn", Description: "scroll"},
			{Key: "ctrl+c", Description: "quit"},
		},
	}
}

// SetSize updates the model's dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	dims := layout.GetContentArea(m.GetLayoutInfo(), width, height)

	// Input box border takes two columns and two rows
	m.input.SetWidth(max(width-2, 10))
	m.history.Width = width
	m.history.Height = max(dims.Height-inputHeight-3, 1)

	m.refresh()
}

// refresh re-renders the history pane from a fresh snapshot
func (m *Model) refresh() {
	entries := m.store.Snapshot()
	m.entries = len(entries)

	if len(entries) == 0 {
		m.history.SetContent(layout.EmptyStateStyle.Width(m.history.Width).Render("\n" + emptyState))
		return
	}

	opts := render.Options{Now: m.now()}
	frame := m.spinner.View()
	cards := make([]string, 0, len(entries))
	for _, e := range entries {
		cards = append(cards, entrycard.Render(render.Render(e, opts), m.history.Width, frame))
	}
	m.history.SetContent(lipgloss.JoinVertical(lipgloss.Left, cards...))
}

// syncFocus gates the input on the store's busy flag
func (m *Model) syncFocus() tea.Cmd {
	if m.store.Busy() {
		m.input.Blur()
		return nil
	}
	if !m.input.Focused() {
		return m.input.Focus()
	}
	return nil
}

// Input returns the current input text
func (m Model) Input() string {
	return m.input.Value()
}

func countLabel(n int) string {
	if n == 1 {
		return "1 command"
	}
	return fmt.Sprintf("%d commands", n)
}
