// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Here lies the definition of the data the history store can send to the UI.
// All data that the UI can receive from the store will be named: Event
// Events are published only after the store's state already reflects them, so a
// receiver can always take a fresh snapshot when one arrives.
package protocol

// EntryStatus represents the lifecycle state of a history entry
type EntryStatus string

// Entry status constants
const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusResolved EntryStatus = "resolved"
	EntryStatusFailed   EntryStatus = "failed"
)

// IsTerminal reports whether no further transition can happen
func (s EntryStatus) IsTerminal() bool {
	return s == EntryStatusResolved || s == EntryStatusFailed
}

// GetIdempotencyKey extracts the idempotency key from any event
func GetIdempotencyKey(event Event) string {
	return event.GetMetadata().IdempotencyKey
}

// EntrySettledEvent is sent when a pending entry reached its terminal state
type EntrySettledEvent struct {
	Metadata
	EntryID string
	Status  EntryStatus
}

func (e EntrySettledEvent) GetMetadata() Metadata {
	return e.Metadata
}

// ErrorEvent reports a non-fatal problem the UI should surface
type ErrorEvent struct {
	Metadata
	Message string
	Context string
}

func (e ErrorEvent) GetMetadata() Metadata {
	return e.Metadata
}
