// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command console runs the interactive console against the fixture file
// in-process, with no HTTP involved. Handy for working on the layout.
//
// Usage:
//
//	go run ./cmd/dev/tui/console
//	go run ./cmd/dev/tui/console --fixtures ./fixtures/responses.yaml --serial
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/noldarim/nlctl/internal/config"
	"github.com/noldarim/nlctl/internal/fakebackend"
	"github.com/noldarim/nlctl/internal/history"
	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/noldarim/nlctl/internal/transport"
	"github.com/noldarim/nlctl/internal/tui"
)

// fixtureExecutor answers like the fake service would, minus the network
type fixtureExecutor struct {
	fixtures *fakebackend.Fixtures
}

func (e fixtureExecutor) Execute(ctx context.Context, text string) (protocol.NLResponse, error) {
	fx, ok := e.fixtures.Lookup(text)
	if !ok {
		msg := "Could not understand command"
		return protocol.NLResponse{
			Parsed: protocol.ParsedCommand{Text: text, Source: protocol.SourceRule},
			Error:  &msg,
		}, nil
	}

	if fx.Delay > 0 {
		select {
		case <-time.After(fx.Delay):
		case <-ctx.Done():
			return protocol.NLResponse{}, ctx.Err()
		}
	}

	if fx.Status != http.StatusOK && fx.Status != http.StatusBadRequest {
		return protocol.NLResponse{}, &transport.HTTPError{StatusCode: fx.Status, Status: http.StatusText(fx.Status)}
	}
	resp := fx.Response
	resp.Parsed.Text = text
	return resp, nil
}

func main() {
	fixturesPath := flag.String("fixtures", "./fixtures/responses.yaml", "Fixture file")
	serial := flag.Bool("serial", false, "Dispatch commands one at a time")
	flag.Parse()

	if err := run(*fixturesPath, *serial); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(fixturesPath string, serial bool) error {
	fixtures, err := fakebackend.LoadFixtures(fixturesPath)
	if err != nil {
		return err
	}

	mode := config.ModeConcurrent
	if serial {
		mode = config.ModeSerial
	}

	events := make(chan protocol.Event, 64)
	store := history.NewStore(fixtureExecutor{fixtures: fixtures},
		history.WithMode(mode),
		history.WithEvents(events),
	)
	defer store.Close()

	return tui.StartTUI(store, events)
}
