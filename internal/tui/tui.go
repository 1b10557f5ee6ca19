// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noldarim/nlctl/internal/logger"
	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/noldarim/nlctl/internal/tui/screens/console"
)

// StartTUI initializes and runs the TUI application. Events published by the
// history store arrive on eventChan and are forwarded into the program.
func StartTUI(store console.Store, eventChan <-chan protocol.Event, opts ...tea.ProgramOption) error {
	log := logger.GetTUILogger()

	mainModel := NewMainModel(store)
	deduplicator := NewEventDeduplicator(10 * time.Minute)

	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(mainModel, opts...)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-eventChan:
				if !ok {
					return
				}
				if deduplicator.ShouldProcess(event) {
					p.Send(event)
				}
			case <-done:
				return
			}
		}
	}()

	_, err := p.Run()
	close(done)
	if err != nil {
		log.Error().Err(err).Msg("TUI exited with error")
	}
	return err
}
