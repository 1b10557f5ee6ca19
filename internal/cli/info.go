// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/noldarim/nlctl/internal/examples"
	"github.com/noldarim/nlctl/internal/transport"
	"github.com/samber/lo"
)

func examplesCommand(stdout io.Writer) error {
	for i, cmd := range examples.Commands() {
		fmt.Fprintf(stdout, "%2d. %s\n", i+1, cmd)
	}
	return nil
}

func healthCommand(args []string, stdout io.Writer) error {
	var (
		configPath string
		timeout    time.Duration
	)
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "Path to config file")
	fs.DurationVar(&timeout, "timeout", 5*time.Second, "How long to wait for the service")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rt, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.shutdown()

	status, err := transport.NewClient(rt.cfg.Client).Health(ctx)
	if err != nil {
		return fmt.Errorf("%s is not healthy: %w", rt.cfg.Client.HealthURL(), err)
	}

	fmt.Fprintf(stdout, "%s: healthy\n", rt.cfg.Client.BaseURL)
	keys := lo.Keys(status)
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(stdout, "  %s: %v\n", k, status[k])
	}
	return nil
}
