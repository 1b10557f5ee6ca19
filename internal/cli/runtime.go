// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/noldarim/nlctl/internal/config"
	"github.com/noldarim/nlctl/internal/logger"
	"github.com/noldarim/nlctl/internal/telemetry"
	"github.com/rs/zerolog"
)

var (
	log     *zerolog.Logger
	logOnce sync.Once
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		l := logger.GetCLILogger()
		log = &l
	})
	return log
}

// runtime is what every subcommand talking to the service needs
type runtime struct {
	cfg      *config.AppConfig
	shutdown func()
}

// setup loads configuration, then starts logging and tracing.
func setup(ctx context.Context, configPath string) (*runtime, error) {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// File only by default, the terminal belongs to the command output
	if err := logger.Initialize(&cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	stopTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		_ = logger.CloseGlobal()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	getLog().Info().
		Str("base_url", cfg.Client.BaseURL).
		Str("mode", cfg.History.Mode).
		Dur("timeout", cfg.Client.Timeout).
		Msg("Configuration loaded")

	return &runtime{
		cfg: cfg,
		shutdown: func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := stopTracing(flushCtx); err != nil && !errors.Is(err, context.Canceled) {
				getLog().Warn().Err(err).Msg("Failed to flush traces")
			}
			_ = logger.CloseGlobal()
		},
	}, nil
}
