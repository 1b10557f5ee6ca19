// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/noldarim/nlctl/internal/history"
	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/noldarim/nlctl/internal/transport"
	"github.com/noldarim/nlctl/internal/tui"
)

func tuiCommand(args []string) error {
	var configPath string
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	fs.StringVar(&configPath, "config", "", "Path to config file (default: search ./config.yaml, ./config, /etc/nlctl, ~/.nlctl)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.shutdown()

	client := transport.NewClient(rt.cfg.Client)
	events := make(chan protocol.Event, 64)
	store := history.NewStore(client,
		history.WithMode(rt.cfg.History.Mode),
		history.WithEvents(events),
	)
	defer store.Close()

	go probeHealth(ctx, client, events)

	getLog().Info().Msg("Starting TUI")
	if err := tui.StartTUI(store, events); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// probeHealth reports an unreachable service to the console once at startup.
func probeHealth(ctx context.Context, client *transport.Client, events chan<- protocol.Event) {
	if _, err := client.Health(ctx); err != nil {
		getLog().Warn().Err(err).Msg("Health check failed")
		select {
		case events <- protocol.ErrorEvent{
			Metadata: protocol.Metadata{Version: protocol.CurrentProtocolVersion},
			Message:  "NL service unreachable: " + err.Error(),
			Context:  "startup health check",
		}:
		case <-ctx.Done():
		}
	}
}
