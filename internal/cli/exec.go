// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/noldarim/nlctl/internal/config"
	"github.com/noldarim/nlctl/internal/history"
	"github.com/noldarim/nlctl/internal/render"
	"github.com/noldarim/nlctl/internal/transport"
	"github.com/samber/lo"
)

type execOptions struct {
	configPath string
	jsonOutput bool
	noColor    bool
	serial     bool
	timeout    time.Duration
}

func execCommand(args []string, stdout, stderr io.Writer) error {
	opts := &execOptions{}
	fs := flag.NewFlagSet("exec", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to config file")
	fs.BoolVar(&opts.jsonOutput, "json", false, "Print results as JSON")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&opts.serial, "serial", false, "Send commands one at a time, in order")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Per-command timeout (overrides client.timeout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	texts := fs.Args()
	if len(texts) == 0 {
		return fmt.Errorf("at least one command required\n\nUsage:\n  %s exec \"<command>\" [\"<command>\" ...]", appName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := setup(ctx, opts.configPath)
	if err != nil {
		return err
	}
	defer rt.shutdown()

	if opts.serial {
		rt.cfg.History.Mode = config.ModeSerial
	}
	if opts.timeout > 0 {
		rt.cfg.Client.Timeout = opts.timeout
	}

	views, err := runCommands(ctx, rt.cfg, texts)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(views); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
	} else {
		for _, v := range views {
			fmt.Fprintln(stdout, formatText(v, !opts.noColor))
		}
	}

	failed := lo.CountBy(views, func(v render.View) bool { return v.Kind != render.KindInterpretation })
	if failed > 0 {
		return fmt.Errorf("%d of %d commands did not succeed", failed, len(views))
	}
	return nil
}

// runCommands submits every text through a history store and waits for all of
// them to settle. Views come back in submission order.
func runCommands(ctx context.Context, cfg *config.AppConfig, texts []string) ([]render.View, error) {
	client := transport.NewClient(cfg.Client)
	store := history.NewStore(client, history.WithMode(cfg.History.Mode))
	defer store.Close()

	submitted := 0
	for _, text := range texts {
		if _, accepted := store.Submit(text); accepted {
			submitted++
		}
	}
	if submitted == 0 {
		return nil, fmt.Errorf("all commands were blank")
	}
	getLog().Info().Int("submitted", submitted).Str("mode", cfg.History.Mode).Msg("Commands submitted")

	if err := store.Wait(ctx); err != nil {
		return nil, fmt.Errorf("interrupted while waiting for results: %w", err)
	}

	entries := store.Snapshot()
	slices.Reverse(entries)
	now := time.Now()
	return lo.Map(entries, func(e history.Entry, _ int) render.View {
		return render.Render(e, render.Options{Now: now})
	}), nil
}

func formatText(v render.View, color bool) string {
	text := strings.TrimRight(render.Text(v), "\n")
	if !color {
		return text
	}

	head, rest, _ := strings.Cut(text, "\n")
	tag := "[" + v.Header.Label + "]"
	styled := lipgloss.NewStyle().Foreground(lipgloss.Color(v.Header.Color)).Bold(true).Render(tag)
	head = strings.Replace(head, tag, styled, 1)
	if rest == "" {
		return head
	}
	return head + "\n" + rest
}
