// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"time"

	"github.com/google/uuid"
	"github.com/noldarim/nlctl/internal/protocol"
)

// Option configures a Store
type Option func(*Store)

// WithMode selects how submissions are dispatched: config.ModeConcurrent
// (every submission starts its call immediately) or config.ModeSerial
// (one call at a time, in submission order).
func WithMode(mode string) Option {
	return func(s *Store) {
		s.mode = mode
	}
}

// WithEvents makes the store publish an EntrySettledEvent on ch after every
// settlement that updated an entry. The store never closes ch.
func WithEvents(ch chan<- protocol.Event) Option {
	return func(s *Store) {
		s.events = ch
	}
}

// WithClock overrides the time source used for SubmittedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides entry id generation
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

func defaultIDGenerator() string {
	return uuid.NewString()
}
