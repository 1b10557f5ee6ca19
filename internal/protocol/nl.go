// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Here lies the definition of the data the remote NL service returns for a command.
// The payload is owned by the service and consumed verbatim: the client never
// reinterprets it, it only reads it for display.
package protocol

import (
	"bytes"
	"encoding/json"
)

// Intent is the action a command was classified as. Empty means the service
// could not classify the command (JSON null).
type Intent string

// Intents the service currently knows about
const (
	IntentArm        Intent = "arm"
	IntentDisarm     Intent = "disarm"
	IntentAddUser    Intent = "add_user"
	IntentRemoveUser Intent = "remove_user"
	IntentListUsers  Intent = "list_users"
)

// Source tells which interpretation strategy produced the intent
type Source string

const (
	SourceRule Source = "rule"
	SourceLLM  Source = "llm"
)

// ArmMode values accepted by the arm endpoint
const (
	ModeAway = "away"
	ModeHome = "home"
	ModeStay = "stay"
)

// knownEntityKeys are the entity fields decoded into typed struct fields.
// Everything else lands in Entities.Extra.
var knownEntityKeys = []string{"name", "pin", "mode", "start_time", "end_time", "permissions"}

// Entities holds the fields extracted from the command text.
type Entities struct {
	Name        string   `json:"name,omitempty"`
	PIN         string   `json:"pin,omitempty"`
	Mode        string   `json:"mode,omitempty"`
	StartTime   string   `json:"start_time,omitempty"` // timestamp as sent by the service
	EndTime     string   `json:"end_time,omitempty"`
	Permissions []string `json:"permissions,omitempty"`

	// Extra keeps entity keys this client does not know about, verbatim.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known entity fields and keeps the rest in Extra.
// Entities may come straight from a language model, so a known key with a
// number or bool is kept as its JSON text, and a known key with any other
// shape moves to Extra untouched. Neither fails the response.
func (e *Entities) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Entities
	scalars := map[string]*string{
		"name":       &out.Name,
		"pin":        &out.PIN,
		"mode":       &out.Mode,
		"start_time": &out.StartTime,
		"end_time":   &out.EndTime,
	}
	for key, value := range raw {
		if IsNull(value) {
			continue
		}
		if dst, ok := scalars[key]; ok {
			if s, ok := scalarText(value); ok {
				*dst = s
				continue
			}
		} else if key == "permissions" {
			if perms, ok := scalarList(value); ok {
				out.Permissions = perms
				continue
			}
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[key] = value
	}

	*e = out
	return nil
}

// scalarText returns a JSON string's value, or the literal text of a number
// or bool.
func scalarText(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[', 'n':
		return "", false
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return "", false
	}
	return string(trimmed), true
}

func scalarList(raw json.RawMessage) ([]string, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := scalarText(item)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// MarshalJSON writes the known fields and merges Extra back in.
func (e Entities) MarshalJSON() ([]byte, error) {
	type plain Entities
	data, err := json.Marshal(plain(e))
	if err != nil || len(e.Extra) == 0 {
		return data, err
	}

	merged := make(map[string]json.RawMessage, len(e.Extra)+len(knownEntityKeys))
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range e.Extra {
		if _, exists := merged[k]; !exists {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// IsEmpty reports whether no entity was extracted at all
func (e Entities) IsEmpty() bool {
	return e.Name == "" && e.PIN == "" && e.Mode == "" && e.StartTime == "" &&
		e.EndTime == "" && len(e.Permissions) == 0 && len(e.Extra) == 0
}

// APICall describes the backend call an interpretation resolved to.
type APICall struct {
	Method  string          `json:"method"`
	Path    string          `json:"path"`
	Payload json.RawMessage `json:"payload"`
}

// HasPayload reports whether the call carried a non-null payload
func (a APICall) HasPayload() bool {
	return !IsNull(a.Payload)
}

// ParsedCommand is the service's interpretation of one command.
type ParsedCommand struct {
	Text     string   `json:"text,omitempty"`
	Intent   Intent   `json:"intent"`
	Source   Source   `json:"source"`
	Entities Entities `json:"entities"`
	API      *APICall `json:"api"`
}

// NLResponse is the body of POST /nl/execute.
type NLResponse struct {
	OK        bool            `json:"ok"`
	Parsed    ParsedCommand   `json:"parsed"`
	APIResult json.RawMessage `json:"api_result"`
	Error     *string         `json:"error"`

	// Detail is set by the service framework on request validation errors
	// (e.g. {"detail": "text must not be empty"} with status 400).
	Detail json.RawMessage `json:"detail,omitempty"`
}

// Failed reports an application-level failure: ok=false or a populated error.
func (r NLResponse) Failed() bool {
	return !r.OK || (r.Error != nil && *r.Error != "")
}

// HasAPIResult reports whether the backend returned a non-null call result
func (r NLResponse) HasAPIResult() bool {
	return !IsNull(r.APIResult)
}

// ErrorMessage returns the service-reported error, falling back to the
// framework detail and finally to a generic message.
func (r NLResponse) ErrorMessage() string {
	if r.Error != nil && *r.Error != "" {
		return *r.Error
	}
	if !IsNull(r.Detail) {
		var s string
		if err := json.Unmarshal(r.Detail, &s); err == nil {
			return s
		}
		return string(r.Detail)
	}
	return "Unknown error"
}

// IsNull reports whether raw is absent or the JSON literal null
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// ExecuteRequest is the body sent to POST /nl/execute
type ExecuteRequest struct {
	Text string `json:"text"`
}
