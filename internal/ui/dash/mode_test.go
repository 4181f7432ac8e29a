// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineStartsNormalMatrix(t *testing.T) {
	sm := NewMachine()
	assert.Equal(t, ModeNormal, sm.Mode())
	assert.Equal(t, ViewMatrix, sm.View())
}

func TestTransitionLegalEdges(t *testing.T) {
	tests := []struct {
		name string
		path []Mode
	}{
		{"normal to insert", []Mode{ModeInsert}},
		{"normal to chat", []Mode{ModeChat}},
		{"normal to prompt", []Mode{ModePrompt}},
		{"prompt to edit", []Mode{ModePrompt, ModePromptEdit}},
		{"edit back to prompt", []Mode{ModePrompt, ModePromptEdit, ModePrompt}},
		{"chat to insert", []Mode{ModeChat, ModeInsert}},
		{"chat back to normal", []Mode{ModeChat, ModeNormal}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewMachine()
			for _, target := range tt.path {
				_, ok := sm.Transition(target)
				require.True(t, ok, "edge to %v", target)
			}
			assert.Equal(t, tt.path[len(tt.path)-1], sm.Mode())
		})
	}
}

func TestTransitionIllegalEdgeIsNoOp(t *testing.T) {
	tests := []struct {
		name   string
		setup  []Mode
		target Mode
	}{
		{"normal to prompt-edit", nil, ModePromptEdit},
		{"insert to prompt", []Mode{ModeInsert}, ModePrompt},
		{"prompt to chat", []Mode{ModePrompt}, ModeChat},
		{"prompt to insert", []Mode{ModePrompt}, ModeInsert},
		{"prompt-edit to normal", []Mode{ModePrompt, ModePromptEdit}, ModeNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewMachine()
			for _, m := range tt.setup {
				_, ok := sm.Transition(m)
				require.True(t, ok)
			}
			before := sm.Mode()
			beforeView := sm.View()

			effects, ok := sm.Transition(tt.target)
			assert.False(t, ok)
			assert.Empty(t, effects)
			assert.Equal(t, before, sm.Mode(), "mode must not change on an illegal edge")
			assert.Equal(t, beforeView, sm.View())
		})
	}
}

func TestHelpRejectsDirectInsert(t *testing.T) {
	sm := NewMachine()
	_, ok := sm.Transition(ModeHelp)
	require.True(t, ok)

	_, ok = sm.Transition(ModeInsert)
	assert.False(t, ok)
	assert.Equal(t, ModeHelp, sm.Mode())
}

func TestLeaveHelpRestoresModeAndView(t *testing.T) {
	sm := NewMachine()
	_, ok := sm.Transition(ModeChat)
	require.True(t, ok)
	require.Equal(t, ViewChat, sm.View())

	_, ok = sm.Transition(ModeHelp)
	require.True(t, ok)
	require.Equal(t, ViewHelp, sm.View())

	mode, ok := sm.LeaveHelp()
	require.True(t, ok)
	assert.Equal(t, ModeChat, mode)
	assert.Equal(t, ModeChat, sm.Mode())
	assert.Equal(t, ViewChat, sm.View())
}

func TestLeaveHelpOutsideHelpIsNoOp(t *testing.T) {
	sm := NewMachine()
	_, ok := sm.LeaveHelp()
	assert.False(t, ok)
	assert.Equal(t, ModeNormal, sm.Mode())
}

func TestCancelInsertRestoresPreviousMode(t *testing.T) {
	sm := NewMachine()
	_, ok := sm.Transition(ModeChat)
	require.True(t, ok)
	_, ok = sm.Transition(ModeInsert)
	require.True(t, ok)

	mode, effects, ok := sm.CancelInsert()
	require.True(t, ok)
	assert.Equal(t, ModeChat, mode)
	assert.Contains(t, effects, EffectClearInput)
	assert.Contains(t, effects, EffectBlurInput)
}

func TestCancelInsertOutsideInsertIsNoOp(t *testing.T) {
	sm := NewMachine()
	mode, effects, ok := sm.CancelInsert()
	assert.False(t, ok)
	assert.Empty(t, effects)
	assert.Equal(t, ModeNormal, mode)
}

func TestEnterChatEffects(t *testing.T) {
	sm := NewMachine()
	effects, ok := sm.Transition(ModeChat)
	require.True(t, ok)
	assert.Contains(t, effects, EffectStopAnimation)
	assert.Contains(t, effects, EffectLoadMessages)
	assert.Equal(t, ViewChat, sm.View())
}

func TestReenterChatSkipsAnimationStop(t *testing.T) {
	sm := NewMachine()
	_, ok := sm.Transition(ModeChat)
	require.True(t, ok)

	effects, ok := sm.Transition(ModeChat)
	require.True(t, ok)
	assert.NotContains(t, effects, EffectStopAnimation)
	assert.Contains(t, effects, EffectLoadMessages)
}

func TestLeaveChatClearsSelectionAndRestartsAnimation(t *testing.T) {
	sm := NewMachine()
	_, ok := sm.Transition(ModeChat)
	require.True(t, ok)

	effects, ok := sm.Transition(ModeNormal)
	require.True(t, ok)
	assert.Contains(t, effects, EffectClearSelection)
	assert.Contains(t, effects, EffectStartAnimation)
	assert.Equal(t, ViewMatrix, sm.View())
}

func TestEnterInsertFocusesInput(t *testing.T) {
	sm := NewMachine()
	effects, ok := sm.Transition(ModeInsert)
	require.True(t, ok)
	assert.Contains(t, effects, EffectFocusInput)
}
