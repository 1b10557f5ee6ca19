// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/noldarim/nlctl/internal/history"
	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/noldarim/nlctl/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var submitted = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func opts() Options {
	return Options{Now: submitted.Add(2 * time.Second), Location: time.UTC}
}

func resolvedEntry(t *testing.T, input, body string) history.Entry {
	t.Helper()
	var resp protocol.NLResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return history.Entry{
		ID:          "e1",
		SubmittedAt: submitted,
		Input:       input,
		Status:      protocol.EntryStatusResolved,
		Result:      &resp,
	}
}

func TestRender_ArmScenario(t *testing.T) {
	entry := resolvedEntry(t, "arm the system", `{
		"ok": true,
		"parsed": {"intent": "arm", "source": "rule", "entities": {},
		           "api": {"method": "POST", "path": "/api/arm", "payload": null}},
		"api_result": {"status": "armed"},
		"error": null
	}`)

	v := Render(entry, opts())

	assert.Equal(t, KindInterpretation, v.Kind)
	assert.Equal(t, Classification{Label: "ARM SYSTEM", Color: "#22c55e", Known: true}, v.Header)
	require.NotNil(t, v.Source)
	assert.Equal(t, "Rule-based", v.Source.Label)
	require.NotNil(t, v.API)
	assert.Equal(t, "POST", v.API.Method)
	assert.Equal(t, "/api/arm", v.API.Path)
	assert.Empty(t, v.API.Payload)
	assert.Equal(t, "{\n  \"status\": \"armed\"\n}", v.Result)
	assert.Empty(t, v.Error)
	assert.Equal(t, "just now", v.When)
}

func TestRender_NonsenseScenario(t *testing.T) {
	entry := resolvedEntry(t, "xyz nonsense", `{
		"ok": false,
		"parsed": {"intent": null, "source": "rule", "entities": {}, "api": null},
		"api_result": null,
		"error": "could not understand command"
	}`)

	v := Render(entry, opts())

	assert.Equal(t, KindAppError, v.Kind)
	assert.Equal(t, UnknownLabel, v.Header.Label)
	assert.Equal(t, NeutralColor, v.Header.Color)
	assert.False(t, v.Header.Known)
	assert.Equal(t, "could not understand command", v.Error)
	require.NotNil(t, v.Source)
	assert.Nil(t, v.API)
	assert.Empty(t, v.Badges)
	assert.Empty(t, v.Result)
}

func TestRender_AppErrorReplacesResultSections(t *testing.T) {
	entry := resolvedEntry(t, "arm", `{
		"ok": true,
		"parsed": {"intent": "arm", "source": "llm", "entities": {"mode": "away"},
		           "api": {"method": "POST", "path": "/api/arm-system", "payload": {"mode": "away"}}},
		"api_result": {"status": "error"},
		"error": "system busy"
	}`)

	v := Render(entry, opts())

	assert.Equal(t, KindAppError, v.Kind)
	assert.Equal(t, "ARM SYSTEM", v.Header.Label)
	assert.Equal(t, "AI-assisted", v.Source.Label)
	assert.Equal(t, "system busy", v.Error)
	assert.Nil(t, v.API)
	assert.Empty(t, v.Result)
	assert.Empty(t, v.Badges)
}

func TestRender_EntityRoundTrip(t *testing.T) {
	resp := testutil.AddUserResponse("John", "4321")
	entry := history.Entry{
		ID:          "e1",
		SubmittedAt: submitted,
		Input:       "add user John with pin 4321",
		Status:      protocol.EntryStatusResolved,
		Result:      &resp,
	}

	v := Render(entry, opts())

	require.Equal(t, KindInterpretation, v.Kind)
	values := map[string]string{}
	for _, b := range v.Badges {
		values[b.Label] = b.Value
	}
	assert.Equal(t, map[string]string{
		"Intent": "add_user",
		"Name":   "John",
		"PIN":    "4321",
	}, values)
	assert.Equal(t, "ADD USER", v.Header.Label)
	assert.Equal(t, "{\n  \"name\": \"John\",\n  \"pin\": \"4321\"\n}", v.API.Payload)
}

func TestRender_AllEntityFields(t *testing.T) {
	entry := resolvedEntry(t, "add user", `{
		"ok": true,
		"parsed": {"intent": "add_user", "source": "llm",
		           "entities": {"name": "Ann", "pin": "1111", "mode": "home",
		                        "permissions": ["arm", "disarm"],
		                        "start_time": "2026-03-01T09:00:00+02:00",
		                        "end_time": "not a time",
		                        "zone": "garage", "floor": 2},
		           "api": null},
		"api_result": null,
		"error": null
	}`)

	v := Render(entry, opts())

	labels := make([]string, 0, len(v.Badges))
	for _, b := range v.Badges {
		labels = append(labels, b.Label+"="+b.Value)
	}
	assert.Equal(t, []string{
		"Intent=add_user",
		"Name=Ann",
		"PIN=1111",
		"Mode=home",
		"Perms=arm+disarm",
		"From=2026-03-01 07:00:00",
		"To=not a time",
		"floor=2",
		"zone=garage",
	}, labels)
	assert.Nil(t, v.API)
	assert.Empty(t, v.Result)
}

func TestRender_PayloadKeepsKeyOrderAndIsNotTruncated(t *testing.T) {
	entry := resolvedEntry(t, "add", `{
		"ok": true,
		"parsed": {"intent": "add_user", "source": "rule", "entities": {},
		           "api": {"method": "POST", "path": "/api/add-user",
		                   "payload": {"zeta": 1, "alpha": {"b": [1, 2], "a": "x"}}}},
		"api_result": null,
		"error": null
	}`)

	v := Render(entry, opts())

	want := "{\n  \"zeta\": 1,\n  \"alpha\": {\n    \"b\": [\n      1,\n      2\n    ],\n    \"a\": \"x\"\n  }\n}"
	assert.Equal(t, want, v.API.Payload)
}

func TestRender_PendingAndFailed(t *testing.T) {
	pending := history.Entry{ID: "p", Input: "arm", SubmittedAt: submitted, Status: protocol.EntryStatusPending}
	v := Render(pending, opts())
	assert.Equal(t, KindPending, v.Kind)
	assert.Equal(t, PendingLabel, v.Header.Label)
	assert.Nil(t, v.Source)

	failed := history.Entry{
		ID:           "f",
		Input:        "arm",
		SubmittedAt:  submitted,
		Status:       protocol.EntryStatusFailed,
		ErrorMessage: "HTTP 503: Service Unavailable",
	}
	v = Render(failed, opts())
	assert.Equal(t, KindTransportError, v.Kind)
	assert.Equal(t, "HTTP 503: Service Unavailable", v.Error)
	assert.Nil(t, v.Source)
	assert.Nil(t, v.API)
	assert.Empty(t, v.Badges)
}

func TestRender_DoesNotMutateEntry(t *testing.T) {
	resp := testutil.ArmResponse()
	entry := history.Entry{ID: "e", Input: "arm", Status: protocol.EntryStatusResolved, Result: &resp}
	before := *entry.Result

	Render(entry, opts())

	assert.Equal(t, before, *entry.Result)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		intent protocol.Intent
		want   Classification
	}{
		{protocol.IntentArm, Classification{"ARM SYSTEM", "#22c55e", true}},
		{protocol.IntentDisarm, Classification{"DISARM SYSTEM", "#f59e0b", true}},
		{protocol.IntentAddUser, Classification{"ADD USER", "#3b82f6", true}},
		{protocol.IntentRemoveUser, Classification{"REMOVE USER", "#ef4444", true}},
		{protocol.IntentListUsers, Classification{"LIST USERS", "#a855f7", true}},
		{"set_temperature", Classification{"set_temperature", NeutralColor, false}},
		{"", Classification{"UNKNOWN", NeutralColor, false}},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.intent))
		})
	}
}

func TestSource(t *testing.T) {
	rule := Source(protocol.SourceRule)
	llm := Source(protocol.SourceLLM)
	require.NotNil(t, rule)
	require.NotNil(t, llm)
	assert.NotEqual(t, rule.Label, llm.Label)
	assert.NotEqual(t, rule.Marker, llm.Marker)
	assert.Nil(t, Source(""))
	assert.Equal(t, "hybrid", Source("hybrid").Label)
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{4 * time.Second, "just now"},
		{5 * time.Second, "5s ago"},
		{59 * time.Second, "59s ago"},
		{60 * time.Second, "1m ago"},
		{59 * time.Minute, "59m ago"},
		{2 * time.Hour, "10:00:00"},
		{-3 * time.Second, "just now"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(now, now.Add(-tt.ago)))
		})
	}
}

func TestText(t *testing.T) {
	resp := testutil.ArmResponse()
	entry := history.Entry{ID: "e", Input: "arm the system", SubmittedAt: submitted, Status: protocol.EntryStatusResolved, Result: &resp}

	out := Text(Render(entry, opts()))

	assert.Contains(t, out, "[ARM SYSTEM] arm the system")
	assert.Contains(t, out, "Rule-based")
	assert.Contains(t, out, "POST /api/arm-system")
	assert.Contains(t, out, "\"status\": \"armed\"")
	assert.Contains(t, out, "Mode: away")
	assert.NotContains(t, out, "Interpreted as", "echo matches the input")
}

func TestRender_ParsedTextEcho(t *testing.T) {
	resp := testutil.ArmResponse()
	entry := history.Entry{ID: "e", Input: "ARM  it now", SubmittedAt: submitted, Status: protocol.EntryStatusResolved, Result: &resp}

	v := Render(entry, opts())
	assert.Equal(t, "arm the system", v.ParsedText)
	assert.Equal(t, "arm the system", v.Echo())
	assert.Contains(t, Text(v), `Interpreted as: "arm the system"`)

	entry.Input = "arm the system"
	assert.Empty(t, Render(entry, opts()).Echo())
}

func TestRender_NumericEntitiesBecomeBadges(t *testing.T) {
	var resp protocol.NLResponse
	require.NoError(t, json.Unmarshal([]byte(`{"ok":true,"parsed":{"intent":"add_user","source":"llm",
		"entities":{"name":"John","pin":4321},"api":null},"api_result":null,"error":null}`), &resp))
	entry := history.Entry{ID: "e", Input: "add John 4321", SubmittedAt: submitted, Status: protocol.EntryStatusResolved, Result: &resp}

	v := Render(entry, opts())
	require.Equal(t, KindInterpretation, v.Kind)
	assert.Contains(t, v.Badges, Badge{Label: "PIN", Value: "4321", Color: colorPIN})
}
