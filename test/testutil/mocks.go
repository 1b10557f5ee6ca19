// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/noldarim/nlctl/internal/protocol"
)

// Outcome is what a scripted call returns
type Outcome struct {
	Response protocol.NLResponse
	Err      error
}

// PendingCall is a call the FakeExecutor is holding until the test replies
type PendingCall struct {
	Text  string
	reply chan Outcome
}

// Reply releases the call with a response
func (c *PendingCall) Reply(resp protocol.NLResponse) {
	c.reply <- Outcome{Response: resp}
}

// Fail releases the call with a transport error
func (c *PendingCall) Fail(err error) {
	c.reply <- Outcome{Err: err}
}

// FakeExecutor is a scripted transport.Executor.
// Every Execute call blocks until the test replies to it, so tests control
// the order in which calls settle.
type FakeExecutor struct {
	calls chan *PendingCall

	mu    sync.Mutex
	texts []string
	// active is the number of calls currently executing
	active    int
	maxActive int
}

// NewFakeExecutor creates an executor that queues incoming calls
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{calls: make(chan *PendingCall, 100)}
}

func (f *FakeExecutor) Execute(ctx context.Context, text string) (protocol.NLResponse, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	call := &PendingCall{Text: text, reply: make(chan Outcome, 1)}
	f.calls <- call

	select {
	case out := <-call.reply:
		return out.Response, out.Err
	case <-ctx.Done():
		return protocol.NLResponse{}, ctx.Err()
	}
}

// Next returns the next call that reached the executor, failing the test
// if none arrives in time
func (f *FakeExecutor) Next(t *testing.T) *PendingCall {
	t.Helper()
	select {
	case call := <-f.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an Execute call")
		return nil
	}
}

// AssertNoCall fails the test if a call arrives within d
func (f *FakeExecutor) AssertNoCall(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case call := <-f.calls:
		t.Fatalf("unexpected Execute call with text %q", call.Text)
	case <-time.After(d):
	}
}

// Texts returns every text passed to Execute, in call order
func (f *FakeExecutor) Texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

// MaxConcurrent returns the largest number of calls that were executing at once
func (f *FakeExecutor) MaxConcurrent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxActive
}

// StaticExecutor answers every call immediately with the same outcome
type StaticExecutor struct {
	Outcome Outcome
}

func (s StaticExecutor) Execute(ctx context.Context, text string) (protocol.NLResponse, error) {
	return s.Outcome.Response, s.Outcome.Err
}

// EventCapture collects events published by the store
type EventCapture struct {
	Events []protocol.Event
	ch     chan protocol.Event
	done   chan struct{}
	mu     sync.RWMutex
}

// NewEventCapture creates a new event capture instance
func NewEventCapture() *EventCapture {
	capture := &EventCapture{
		ch:   make(chan protocol.Event, 100),
		done: make(chan struct{}),
	}

	// Start capturing in background
	go func() {
		defer close(capture.done)
		for ev := range capture.ch {
			capture.mu.Lock()
			capture.Events = append(capture.Events, ev)
			capture.mu.Unlock()
		}
	}()

	return capture
}

// Channel returns the send channel for events
func (c *EventCapture) Channel() chan<- protocol.Event {
	return c.ch
}

// Count returns the number of events captured
func (c *EventCapture) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.Events)
}

// All returns a copy of all captured events
func (c *EventCapture) All() []protocol.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]protocol.Event(nil), c.Events...)
}

// WaitFor waits until at least n events have been captured
func (c *EventCapture) WaitFor(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Count() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, got %d", n, c.Count())
}

// Close stops the capture goroutine
func (c *EventCapture) Close() {
	close(c.ch)
	<-c.done
}
