// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command fakebackend serves canned NL command responses so nlctl can be
// demoed and tested without the real service.
//
// Usage:
//
//	go run ./cmd/dev/fakebackend
//	go run ./cmd/dev/fakebackend --fixtures ./fixtures/responses.yaml --port 9090
//
// Then point nlctl at it:
//
//	NLCTL_CLIENT_BASE_URL=http://127.0.0.1:9090 go run ./cmd/nlctl
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/noldarim/nlctl/internal/config"
	"github.com/noldarim/nlctl/internal/fakebackend"
	"github.com/noldarim/nlctl/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "Config file path")
	fixturesPath := flag.String("fixtures", "", "Fixture file (overrides fakebackend.fixtures_path)")
	port := flag.Int("port", 0, "Listen port (overrides fakebackend.port)")
	flag.Parse()

	if err := run(*configFile, *fixturesPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, fixturesPath string, port int) error {
	cfg, err := config.NewConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if fixturesPath != "" {
		cfg.FakeBackend.FixturesPath = fixturesPath
	}
	if port > 0 {
		cfg.FakeBackend.Port = port
	}

	// A server wants its logs on the terminal
	for i := range cfg.Log.Output {
		if cfg.Log.Output[i].Type == "console" {
			cfg.Log.Output[i].Enabled = true
		}
	}
	if err := logger.Initialize(&cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.CloseGlobal()

	fixtures, err := fakebackend.LoadFixtures(cfg.FakeBackend.FixturesPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Fake NL service on http://%s (%d fixtures from %s)\n",
		cfg.FakeBackend.Addr(), fixtures.Len(), cfg.FakeBackend.FixturesPath)
	return fakebackend.New(&cfg.FakeBackend, cfg.Client.CorrelationHeader, fixtures).Run(ctx)
}
