// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"sync"
	"time"

	"github.com/noldarim/nlctl/internal/protocol"
)

// EventDeduplicator drops events whose idempotency key was already forwarded
// to the program within ttl.
type EventDeduplicator struct {
	mu        sync.Mutex
	seen      map[string]time.Time // idempotencyKey -> first seen
	ttl       time.Duration
	lastPrune time.Time
	now       func() time.Time
}

// NewEventDeduplicator creates a new event deduplicator
func NewEventDeduplicator(ttl time.Duration) *EventDeduplicator {
	return &EventDeduplicator{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// ShouldProcess returns true if the event should be processed (not a duplicate)
func (ed *EventDeduplicator) ShouldProcess(event protocol.Event) bool {
	key := protocol.GetIdempotencyKey(event)
	if key == "" {
		// No idempotency key, always process
		return true
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	now := ed.now()
	if now.Sub(ed.lastPrune) > ed.ttl {
		ed.prune(now)
	}

	if seenAt, exists := ed.seen[key]; exists && now.Sub(seenAt) <= ed.ttl {
		return false
	}
	ed.seen[key] = now
	return true
}

// prune removes expired keys; callers hold mu
func (ed *EventDeduplicator) prune(now time.Time) {
	for key, seenAt := range ed.seen {
		if now.Sub(seenAt) > ed.ttl {
			delete(ed.seen, key)
		}
	}
	ed.lastPrune = now
}

// Len returns the number of remembered keys
func (ed *EventDeduplicator) Len() int {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return len(ed.seen)
}
