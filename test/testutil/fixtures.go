// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutil

import (
	"encoding/json"

	"github.com/noldarim/nlctl/internal/protocol"
)

// Sample service responses for consistent testing

// ArmResponse returns a resolved rule-based arm interpretation
func ArmResponse() protocol.NLResponse {
	return protocol.NLResponse{
		OK: true,
		Parsed: protocol.ParsedCommand{
			Text:     "arm the system",
			Intent:   protocol.IntentArm,
			Source:   protocol.SourceRule,
			Entities: protocol.Entities{Mode: protocol.ModeAway},
			API: &protocol.APICall{
				Method:  "POST",
				Path:    "/api/arm-system",
				Payload: json.RawMessage(`{"mode":"away"}`),
			},
		},
		APIResult: json.RawMessage(`{"status":"armed","mode":"away"}`),
	}
}

// AddUserResponse returns an add_user interpretation for name and pin
func AddUserResponse(name, pin string) protocol.NLResponse {
	payload, _ := json.Marshal(map[string]string{"name": name, "pin": pin})
	return protocol.NLResponse{
		OK: true,
		Parsed: protocol.ParsedCommand{
			Text:     "add user " + name + " with pin " + pin,
			Intent:   protocol.IntentAddUser,
			Source:   protocol.SourceRule,
			Entities: protocol.Entities{Name: name, PIN: pin},
			API: &protocol.APICall{
				Method:  "POST",
				Path:    "/api/add-user",
				Payload: payload,
			},
		},
		APIResult: json.RawMessage(`{"status":"ok"}`),
	}
}

// NonsenseResponse returns the service's answer for text it could not classify
func NonsenseResponse(text string) protocol.NLResponse {
	msg := "Could not understand command"
	return protocol.NLResponse{
		OK: false,
		Parsed: protocol.ParsedCommand{
			Text:   text,
			Source: protocol.SourceRule,
		},
		Error: &msg,
	}
}
