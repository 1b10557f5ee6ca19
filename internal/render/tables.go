// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import "github.com/noldarim/nlctl/internal/protocol"

// NeutralColor is used for unrecognised or missing intents
const NeutralColor = "#64748b"

// Label shown while an entry waits for the service
const PendingLabel = "..."

// UnknownLabel is shown when the service returned no intent
const UnknownLabel = "UNKNOWN"

type intentStyle struct {
	label string
	color string
}

var intents = map[protocol.Intent]intentStyle{
	protocol.IntentArm:        {label: "ARM SYSTEM", color: "#22c55e"},
	protocol.IntentDisarm:     {label: "DISARM SYSTEM", color: "#f59e0b"},
	protocol.IntentAddUser:    {label: "ADD USER", color: "#3b82f6"},
	protocol.IntentRemoveUser: {label: "REMOVE USER", color: "#ef4444"},
	protocol.IntentListUsers:  {label: "LIST USERS", color: "#a855f7"},
}

// Badge colours per entity field
const (
	colorName  = "#a78bfa"
	colorPIN   = "#fb923c"
	colorMode  = "#34d399"
	colorPerms = "#60a5fa"
	colorTime  = "#f472b6"
	colorExtra = "#94a3b8"
)

var sources = map[protocol.Source]SourceBadge{
	protocol.SourceRule: {Source: protocol.SourceRule, Label: "Rule-based", Marker: "⚡"},
	protocol.SourceLLM:  {Source: protocol.SourceLLM, Label: "AI-assisted", Marker: "🤖"},
}
