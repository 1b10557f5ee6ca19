// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns history entries into display models.
// Render is pure: it reads an entry and never changes it.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/noldarim/nlctl/internal/history"
	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/samber/lo"
)

// Kind is the single view an entry renders as
type Kind string

const (
	KindPending        Kind = "pending"
	KindInterpretation Kind = "interpretation"
	KindAppError       Kind = "app_error"
	KindTransportError Kind = "transport_error"
)

// Classification is the header label derived from the intent
type Classification struct {
	Label string `json:"label"`
	Color string `json:"color"`
	// Known is false for a missing intent and for intents outside the table
	Known bool `json:"known"`
}

// SourceBadge tells how the intent was matched
type SourceBadge struct {
	Source protocol.Source `json:"source"`
	Label  string          `json:"label"`
	Marker string          `json:"marker"`
}

// Badge is one labelled entity value
type Badge struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color"`
}

// APISection is the downstream call exactly as the service made it
type APISection struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Payload string `json:"payload,omitempty"` // pretty-printed, empty when null
}

// View is the display model of one entry.
type View struct {
	Kind        Kind           `json:"kind"`
	EntryID     string         `json:"entry_id"`
	Input       string         `json:"input"`
	ParsedText  string         `json:"parsed_text,omitempty"` // the command as the service echoed it
	SubmittedAt time.Time      `json:"submitted_at"`
	When        string         `json:"when"`
	Header      Classification `json:"header"`
	Source      *SourceBadge   `json:"source,omitempty"`
	Badges      []Badge        `json:"badges,omitempty"`
	API         *APISection    `json:"api,omitempty"`
	Result      string         `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Options controls time-dependent output
type Options struct {
	Now      time.Time      // zero = time.Now()
	Location *time.Location // nil = time.Local
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Render builds the view of entry.
func Render(entry history.Entry, opts Options) View {
	v := View{
		EntryID:     entry.ID,
		Input:       entry.Input,
		SubmittedAt: entry.SubmittedAt,
		When:        relativeTime(opts.now(), entry.SubmittedAt, opts.location()),
	}

	switch {
	case entry.Status == protocol.EntryStatusFailed:
		v.Kind = KindTransportError
		v.Header = Classify("")
		v.Error = entry.ErrorMessage
		if v.Error == "" {
			v.Error = "Unknown error"
		}

	case entry.Status == protocol.EntryStatusResolved && entry.Result != nil:
		resp := entry.Result
		v.Header = Classify(resp.Parsed.Intent)
		v.Source = Source(resp.Parsed.Source)
		v.ParsedText = resp.Parsed.Text
		if resp.Failed() {
			v.Kind = KindAppError
			v.Error = resp.ErrorMessage()
			return v
		}
		v.Kind = KindInterpretation
		v.Badges = Badges(resp.Parsed, opts.location())
		if resp.Parsed.API != nil {
			v.API = apiSection(*resp.Parsed.API)
		}
		if resp.HasAPIResult() {
			v.Result = PrettyJSON(resp.APIResult)
		}

	default:
		v.Kind = KindPending
		v.Header = Classification{Label: PendingLabel, Color: NeutralColor}
	}

	return v
}

// Echo returns the service's copy of the command when it differs from what
// was typed, and "" otherwise.
func (v View) Echo() string {
	if v.ParsedText == "" || v.ParsedText == v.Input {
		return ""
	}
	return v.ParsedText
}

// Classify maps an intent to its header label and colour.
func Classify(intent protocol.Intent) Classification {
	if intent == "" {
		return Classification{Label: UnknownLabel, Color: NeutralColor}
	}
	if style, ok := intents[intent]; ok {
		return Classification{Label: style.label, Color: style.color, Known: true}
	}
	return Classification{Label: string(intent), Color: NeutralColor}
}

// Source returns the badge for source, or nil when the service sent none.
func Source(source protocol.Source) *SourceBadge {
	if source == "" {
		return nil
	}
	if badge, ok := sources[source]; ok {
		return &badge
	}
	return &SourceBadge{Source: source, Label: string(source), Marker: "?"}
}

// Badges lists every populated entity, intent first. Unknown entity keys
// follow the known ones in key order.
func Badges(parsed protocol.ParsedCommand, loc *time.Location) []Badge {
	intentValue := string(parsed.Intent)
	if intentValue == "" {
		intentValue = "none"
	}
	badges := []Badge{{Label: "Intent", Value: intentValue, Color: Classify(parsed.Intent).Color}}

	e := parsed.Entities
	add := func(label, value, color string) {
		if value != "" {
			badges = append(badges, Badge{Label: label, Value: value, Color: color})
		}
	}
	add("Name", e.Name, colorName)
	add("PIN", e.PIN, colorPIN)
	add("Mode", e.Mode, colorMode)
	add("Perms", strings.Join(e.Permissions, "+"), colorPerms)
	add("From", localTime(e.StartTime, loc), colorTime)
	add("To", localTime(e.EndTime, loc), colorTime)

	keys := lo.Keys(e.Extra)
	slices.Sort(keys)
	for _, k := range keys {
		add(k, rawValue(e.Extra[k]), colorExtra)
	}

	return badges
}

func apiSection(call protocol.APICall) *APISection {
	s := &APISection{Method: call.Method, Path: call.Path}
	if call.HasPayload() {
		s.Payload = PrettyJSON(call.Payload)
	}
	return s
}

// PrettyJSON indents raw with two spaces, keeping key order. Invalid JSON is
// returned unchanged.
func PrettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// rawValue shows JSON strings without quotes and anything else compacted.
func rawValue(raw json.RawMessage) string {
	if protocol.IsNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// localTime converts a service timestamp to loc. Values that do not parse are
// shown as sent.
func localTime(value string, loc *time.Location) string {
	if value == "" {
		return ""
	}
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t.In(loc).Format("2006-01-02 15:04:05")
		}
	}
	return value
}

// RelativeTime formats t relative to now in the local zone.
func RelativeTime(now, t time.Time) string {
	return relativeTime(now, t, time.Local)
}

func relativeTime(now, t time.Time, loc *time.Location) string {
	seconds := int(now.Sub(t) / time.Second)
	switch {
	case seconds < 5:
		return "just now"
	case seconds < 60:
		return fmt.Sprintf("%ds ago", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm ago", seconds/60)
	default:
		return t.In(loc).Format("15:04:05")
	}
}
