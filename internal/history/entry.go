// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"time"

	"github.com/noldarim/nlctl/internal/protocol"
)

// Entry is one submitted command and its outcome.
// Entries are values; the store hands out copies.
type Entry struct {
	ID          string
	SubmittedAt time.Time
	Input       string
	Status      protocol.EntryStatus

	// Result is set once the entry resolved. It may itself report ok=false.
	Result *protocol.NLResponse
	// ErrorMessage is set once the entry failed (transport-level failure).
	ErrorMessage string
}

// IsPending reports whether the entry is still waiting for the service
func (e Entry) IsPending() bool {
	return e.Status == protocol.EntryStatusPending
}

func (e Entry) resolve(resp protocol.NLResponse) Entry {
	e.Status = protocol.EntryStatusResolved
	e.Result = &resp
	return e
}

func (e Entry) fail(msg string) Entry {
	e.Status = protocol.EntryStatusFailed
	e.ErrorMessage = msg
	return e
}

func (e Entry) clone() Entry {
	if e.Result != nil {
		r := *e.Result
		e.Result = &r
	}
	return e
}
