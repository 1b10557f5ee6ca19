// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package examplepicker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noldarim/nlctl/internal/examples"
	"github.com/noldarim/nlctl/internal/tui/messages"
	"github.com/noldarim/nlctl/test/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewModel(t *testing.T) {
	model := NewModel(examples.Commands())
	model.SetSize(120, 40)
	assert.NotNil(t, model.form)

	started := testutil.InitModel(model)

	testutil.AssertViewContains(t, started, "Example commands")
	testutil.AssertViewContains(t, started, "arm the system")
}

func TestEscGoesBack(t *testing.T) {
	model := NewModel(examples.Commands())

	_, cmd := testutil.SendMessage(model, testutil.SpecialKey(tea.KeyEsc))

	assert.IsType(t, messages.GoBackMsg{}, testutil.ExecuteCommand(cmd))
}

func TestCtrlCQuits(t *testing.T) {
	model := NewModel(examples.Commands())

	_, cmd := testutil.SendMessage(model, testutil.SpecialKey(tea.KeyCtrlC))

	testutil.AssertQuitMessage(t, cmd)
}

func TestSelectLeavesPickerThenFillsInput(t *testing.T) {
	cmd := Select("remove user John")
	assert.NotNil(t, cmd)
	assert.Equal(t, messages.GoBackMsg{}, goBack())
}
