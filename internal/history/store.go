// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history keeps the operator's command history and drives each
// entry from pending to its terminal state.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/noldarim/nlctl/internal/config"
	"github.com/noldarim/nlctl/internal/logger"
	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/noldarim/nlctl/internal/transport"
	"github.com/rs/zerolog"
)

var (
	log     *zerolog.Logger
	logOnce sync.Once
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		l := logger.GetHistoryLogger()
		log = &l
	})
	return log
}

// ErrStoreClosed is recorded on entries submitted after Close
var ErrStoreClosed = errors.New("history store closed")

type job struct {
	id   string
	text string
}

// Store holds the command history, most recent entry first.
//
// Submit inserts a pending entry and dispatches the call; the call's outcome
// later replaces that entry in place, found by id. An entry's position never
// changes after insertion and a settlement for an entry that was cleared is
// dropped. All list mutations happen under mu.
type Store struct {
	executor transport.Executor
	mode     string
	events   chan<- protocol.Event
	now      func() time.Time
	newID    func() string

	mu       sync.Mutex
	entries  []Entry
	inFlight int
	idle     chan struct{} // closed while inFlight == 0
	queue    []job         // serial mode only
	closed   bool

	kick   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStore creates an empty store that sends commands through executor.
func NewStore(executor transport.Executor, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		executor: executor,
		mode:     config.ModeConcurrent,
		now:      time.Now,
		newID:    defaultIDGenerator,
		idle:     make(chan struct{}),
		kick:     make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	close(s.idle)

	for _, opt := range opts {
		opt(s)
	}

	switch s.mode {
	case config.ModeSerial:
		s.wg.Add(1)
		go s.worker()
	case config.ModeConcurrent:
	default:
		getLog().Warn().Str("mode", s.mode).Msg("Unknown dispatch mode, using concurrent")
		s.mode = config.ModeConcurrent
	}

	return s
}

// Submit records text as a new pending entry at the head of the history and
// dispatches it. Blank text is ignored: no entry, no call, accepted=false.
func (s *Store) Submit(text string) (id string, accepted bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	entry := Entry{
		ID:          s.newID(),
		SubmittedAt: s.now(),
		Input:       text,
		Status:      protocol.EntryStatusPending,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.entries = append([]Entry{entry.fail(ErrStoreClosed.Error())}, s.entries...)
		return entry.ID, true
	}

	s.entries = append([]Entry{entry}, s.entries...)
	s.inFlight++
	if s.inFlight == 1 {
		s.idle = make(chan struct{})
	}

	switch s.mode {
	case config.ModeSerial:
		s.queue = append(s.queue, job{id: entry.ID, text: text})
		select {
		case s.kick <- struct{}{}:
		default:
		}
	default:
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			resp, err := s.call(text)
			s.settle(entry.ID, resp, err)
		}()
	}

	getLog().Debug().Str("entry_id", entry.ID).Str("mode", s.mode).Int("in_flight", s.inFlight).Msg("Command submitted")
	return entry.ID, true
}

// call runs the executor, turning a panic into a failure.
func (s *Store) call(text string) (resp protocol.NLResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("executor panic: %v", r)
		}
	}()
	return s.executor.Execute(s.ctx, text)
}

// settle applies the outcome of one call.
func (s *Store) settle(id string, resp protocol.NLResponse, err error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	found := idx >= 0 && s.entries[idx].IsPending()
	var status protocol.EntryStatus
	if found {
		if err != nil {
			s.entries[idx] = s.entries[idx].fail(err.Error())
		} else {
			s.entries[idx] = s.entries[idx].resolve(resp)
		}
		status = s.entries[idx].Status
	}
	s.inFlight--
	if s.inFlight == 0 {
		close(s.idle)
	}
	inFlight := s.inFlight
	s.mu.Unlock()

	if !found {
		getLog().Debug().Str("entry_id", id).Msg("Settlement for cleared entry dropped")
		return
	}

	ev := getLog().Debug().Str("entry_id", id).Str("status", string(status)).Int("in_flight", inFlight)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("Command settled")

	s.publish(protocol.EntrySettledEvent{
		Metadata: protocol.Metadata{
			EntryID:        id,
			IdempotencyKey: "settled-" + id,
			Version:        protocol.CurrentProtocolVersion,
		},
		EntryID: id,
		Status:  status,
	})
}

func (s *Store) publish(event protocol.Event) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- event:
	case <-s.ctx.Done():
	}
}

// worker sends queued commands one at a time, oldest first.
func (s *Store) worker() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.kick:
				continue
			case <-s.ctx.Done():
				s.drain()
				return
			}
		}
		j := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		resp, err := s.call(j.text)
		s.settle(j.id, resp, err)
	}
}

// drain fails whatever is still queued once the store is closed.
func (s *Store) drain() {
	s.mu.Lock()
	pending := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, j := range pending {
		s.settle(j.id, protocol.NLResponse{}, s.ctx.Err())
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// Clear empties the history. Calls already dispatched keep running; their
// outcomes are dropped on arrival.
func (s *Store) Clear() {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = nil
	s.mu.Unlock()

	getLog().Debug().Int("removed", n).Msg("History cleared")
}

// Snapshot returns a copy of the history, most recent first.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.clone()
	}
	return out
}

// Get returns a copy of the entry with the given id
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Entry{}, false
	}
	return s.entries[idx].clone(), true
}

// Len returns the number of entries since the last Clear
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Busy reports whether at least one submission is still outstanding,
// including submissions whose entries were cleared.
func (s *Store) Busy() bool {
	return s.InFlight() > 0
}

// InFlight returns the number of outstanding submissions
func (s *Store) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Wait blocks until no submission is outstanding or ctx is done.
func (s *Store) Wait(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels outstanding calls and waits for their goroutines to finish.
// Intended for process shutdown; the history stays readable afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
