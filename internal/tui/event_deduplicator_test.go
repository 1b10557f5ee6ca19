// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"sync"
	"testing"
	"time"

	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/stretchr/testify/assert"
)

func settled(key string) protocol.EntrySettledEvent {
	return protocol.EntrySettledEvent{
		Metadata: protocol.Metadata{IdempotencyKey: key, Version: protocol.CurrentProtocolVersion},
		EntryID:  key,
		Status:   protocol.EntryStatusResolved,
	}
}

func TestEventDeduplicator_ShouldProcess(t *testing.T) {
	ed := NewEventDeduplicator(time.Minute)

	assert.True(t, ed.ShouldProcess(settled("a")), "first occurrence")
	assert.False(t, ed.ShouldProcess(settled("a")), "duplicate")
	assert.True(t, ed.ShouldProcess(settled("b")), "different key")
}

func TestEventDeduplicator_NoKeyAlwaysProcessed(t *testing.T) {
	ed := NewEventDeduplicator(time.Minute)
	ev := protocol.ErrorEvent{Message: "backend unreachable"}

	assert.True(t, ed.ShouldProcess(ev))
	assert.True(t, ed.ShouldProcess(ev))
	assert.Equal(t, 0, ed.Len())
}

func TestEventDeduplicator_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ed := NewEventDeduplicator(time.Minute)
	ed.now = func() time.Time { return now }

	assert.True(t, ed.ShouldProcess(settled("a")))
	now = now.Add(2 * time.Minute)
	assert.True(t, ed.ShouldProcess(settled("a")), "expired keys are forgotten")

	now = now.Add(2 * time.Minute)
	ed.ShouldProcess(settled("b"))
	assert.Equal(t, 1, ed.Len(), "old keys are pruned")
}

func TestEventDeduplicator_Concurrent(t *testing.T) {
	ed := NewEventDeduplicator(time.Minute)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		processed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ed.ShouldProcess(settled("same")) {
				mu.Lock()
				processed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, processed)
}
