// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noldarim/nlctl/internal/examples"
	"github.com/noldarim/nlctl/internal/logger"
	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/noldarim/nlctl/internal/tui/messages"
	"github.com/noldarim/nlctl/internal/tui/screens/console"
	"github.com/noldarim/nlctl/internal/tui/screens/examplepicker"
)

// tickInterval drives relative time refresh
const tickInterval = time.Second

// ScreenType represents the current active screen
type ScreenType int

const (
	ConsoleScreen ScreenType = iota
	ExamplePickerScreen
)

type MainModel struct {
	// Current screen state
	currentScreen ScreenType

	// Individual screen models
	console console.Model
	picker  examplepicker.Model

	// Global state
	width, height int
}

// NewMainModel creates a new MainModel with the console as the initial screen
func NewMainModel(store console.Store) MainModel {
	return MainModel{
		currentScreen: ConsoleScreen,
		console:       console.NewModel(store),
	}
}

func (m MainModel) Init() tea.Cmd {
	return tea.Batch(m.console.Init(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return messages.TickMsg(t)
	})
}

// setSize updates the size for every screen
func (m *MainModel) setSize(width, height int) {
	m.width = width
	m.height = height
	m.console.SetSize(width, height)
	if m.currentScreen == ExamplePickerScreen {
		m.picker.SetSize(width, height)
	}
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case messages.TickMsg:
		// The console stays live behind the picker
		return m.updateConsole(msg, tick())

	case protocol.EntrySettledEvent, protocol.ErrorEvent, messages.ExampleSelectedMsg:
		return m.updateConsole(msg, nil)

	case messages.GoToExamplesMsg:
		log := logger.GetTUILogger()
		log.Debug().Msg("Opening example picker")
		m.picker = examplepicker.NewModel(examples.Commands())
		m.picker.SetSize(m.width, m.height)
		m.currentScreen = ExamplePickerScreen
		return m, m.picker.Init()

	case messages.GoBackMsg:
		m.currentScreen = ConsoleScreen
		return m, nil
	}

	if m.currentScreen == ExamplePickerScreen {
		model, cmd := m.picker.Update(msg)
		m.picker = model.(examplepicker.Model)
		// The console spinner keeps ticking while the picker is open
		if _, ok := msg.(tea.KeyMsg); !ok {
			return m.updateConsole(msg, cmd)
		}
		return m, cmd
	}

	return m.updateConsole(msg, nil)
}

func (m MainModel) updateConsole(msg tea.Msg, extra tea.Cmd) (tea.Model, tea.Cmd) {
	model, cmd := m.console.Update(msg)
	m.console = model.(console.Model)
	return m, tea.Batch(cmd, extra)
}

func (m MainModel) View() string {
	switch m.currentScreen {
	case ExamplePickerScreen:
		return m.picker.View()
	default:
		return m.console.View()
	}
}
