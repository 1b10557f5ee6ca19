// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package fakebackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/noldarim/nlctl/internal/protocol"
)

const unknownCommandError = "Could not understand command"

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	fixtures *Fixtures
	sleep    func(time.Duration, <-chan struct{})
}

// NewHandlers creates the handler set.
func NewHandlers(fixtures *Fixtures) *Handlers {
	return &Handlers{fixtures: fixtures, sleep: sleepOrDone}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		getLog().Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func detailBody(detail string) map[string]string {
	return map[string]string{"detail": detail}
}

// Execute handles POST /nl/execute
func (h *Handlers) Execute(w http.ResponseWriter, r *http.Request) {
	var req protocol.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, detailBody("request body too large"))
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, detailBody("invalid request body: "+err.Error()))
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeJSON(w, http.StatusBadRequest, detailBody("text must not be empty"))
		return
	}

	fx, ok := h.fixtures.Lookup(text)
	if !ok {
		getLog().Debug().
			Str("correlation_id", GetCorrelationID(r.Context())).
			Str("text", text).
			Msg("No fixture matched")
		msg := unknownCommandError
		writeJSON(w, http.StatusOK, protocol.NLResponse{
			OK:     false,
			Parsed: protocol.ParsedCommand{Text: text, Source: protocol.SourceRule},
			Error:  &msg,
		})
		return
	}

	if fx.Delay > 0 {
		h.sleep(fx.Delay, r.Context().Done())
	}

	getLog().Debug().
		Str("correlation_id", GetCorrelationID(r.Context())).
		Str("fixture", fx.Name).
		Int("status", fx.Status).
		Msg("Fixture matched")

	if fx.Status != http.StatusOK && fx.Status != http.StatusBadRequest {
		writeJSON(w, fx.Status, detailBody(http.StatusText(fx.Status)))
		return
	}

	resp := fx.Response
	resp.Parsed.Text = text
	writeJSON(w, fx.Status, resp)
}

// Health handles GET /healthz
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"service":  "fakebackend",
		"fixtures": h.fixtures.Len(),
	})
}

func sleepOrDone(d time.Duration, done <-chan struct{}) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-done:
	}
}
