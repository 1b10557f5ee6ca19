// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package examples lists sample commands offered to the operator.
package examples

var commands = []string{
	"arm the system",
	"please activate the alarm to stay mode",
	"turn off the alarm now",
	"add user John with pin 4321",
	"add a temporary user Sarah, pin 5678 from today 5pm to Sunday 10am",
	"remove user John",
	"show me all users",
	"My mother-in-law is coming to stay for the weekend, make sure she can arm and disarm our system using passcode 1234",
}

// Commands returns the example commands in display order.
func Commands() []string {
	return append([]string(nil), commands...)
}
