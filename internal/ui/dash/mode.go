// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

// =============================================================================
// MODE
// =============================================================================

// Mode is the current input-interpretation regime. Exactly one Mode is
// active at a time; command-line capture is an orthogonal flag on the
// Multiplexer, not a Mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeChat
	ModePrompt
	ModePromptEdit
	ModeHelp
)

// String returns the display string for the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeChat:
		return "CHAT"
	case ModePrompt:
		return "PROMPT"
	case ModePromptEdit:
		return "PROMPT-EDIT"
	case ModeHelp:
		return "HELP"
	default:
		return "UNKNOWN"
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View is what the message surface currently shows. Mostly a function
// of Mode, but tracked separately so re-entering the same Mode does not
// replay entry side effects.
type View int

const (
	ViewMatrix View = iota
	ViewChatList
	ViewChat
	ViewHelp
	ViewPrompt
)

// String returns the display string for the view.
func (v View) String() string {
	switch v {
	case ViewMatrix:
		return "matrix"
	case ViewChatList:
		return "chat-list"
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	case ViewPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// =============================================================================
// EFFECTS
// =============================================================================

// Effect is a side effect a successful transition asks its caller to
// perform. Every focus change and animation start/stop happens through
// one of these, never as a scattered call.
type Effect int

const (
	EffectFocusInput Effect = iota
	EffectBlurInput
	EffectClearInput
	EffectStartAnimation
	EffectStopAnimation
	EffectLoadMessages
	EffectClearSelection
)

// =============================================================================
// STATE MACHINE
// =============================================================================

// Machine owns the current Mode and View. All mutation goes through
// Transition; an illegal edge leaves the machine untouched.
type Machine struct {
	mode Mode
	view View

	// prev is the mode snapshotted when entering HELP or INSERT, so
	// cancel can restore it.
	prev Mode
}

// NewMachine starts in NORMAL mode over the matrix view.
func NewMachine() *Machine {
	return &Machine{mode: ModeNormal, view: ViewMatrix}
}

// Mode returns the current mode.
func (sm *Machine) Mode() Mode { return sm.mode }

// View returns the current view.
func (sm *Machine) View() View { return sm.view }

// legalEdges is the reachable-transition table. A target not listed
// for the current mode is rejected.
var legalEdges = map[Mode][]Mode{
	ModeNormal:     {ModeInsert, ModeChat, ModePrompt, ModeHelp},
	ModeInsert:     {ModeNormal, ModeChat, ModeInsert, ModeHelp},
	ModeChat:       {ModeNormal, ModeChat, ModeInsert, ModeHelp},
	ModePrompt:     {ModeNormal, ModePromptEdit, ModeHelp},
	ModePromptEdit: {ModePrompt, ModeHelp},
	// HELP is only left through LeaveHelp, which restores the
	// snapshotted mode; the sole direct edge is the NORMAL fallback.
	ModeHelp: {ModeNormal},
}

func edgeAllowed(from, to Mode) bool {
	for _, m := range legalEdges[from] {
		if m == to {
			return true
		}
	}
	return false
}

// Transition moves to target if the edge is legal, returning the side
// effects the caller must perform. An illegal edge is a silent no-op:
// ok is false and no state changes.
func (sm *Machine) Transition(target Mode) (effects []Effect, ok bool) {
	if !edgeAllowed(sm.mode, target) {
		return nil, false
	}

	from := sm.mode

	switch target {
	case ModeInsert:
		if from != ModeInsert {
			sm.prev = from
		}
		effects = append(effects, EffectClearInput, EffectFocusInput)

	case ModeChat:
		// Entering CHAT from the idle surface stops the animation and
		// requests a load; re-entering from CHAT (re-selection) only
		// reloads.
		if sm.view != ViewChat {
			effects = append(effects, EffectStopAnimation)
		}
		effects = append(effects, EffectLoadMessages)
		sm.view = ViewChat

	case ModeNormal:
		switch from {
		case ModeChat:
			effects = append(effects, EffectClearSelection, EffectStartAnimation)
			sm.view = ViewMatrix
		case ModePrompt:
			effects = append(effects, EffectStartAnimation)
			sm.view = ViewMatrix
		case ModeInsert:
			effects = append(effects, EffectClearInput, EffectBlurInput)
		case ModeHelp:
			// View restore is handled by LeaveHelp.
		}

	case ModePrompt:
		if from == ModePromptEdit {
			effects = append(effects, EffectClearInput, EffectBlurInput)
		} else {
			effects = append(effects, EffectStopAnimation)
		}
		sm.view = ViewPrompt

	case ModePromptEdit:
		effects = append(effects, EffectClearInput, EffectFocusInput)
		sm.view = ViewPrompt

	case ModeHelp:
		sm.prev = from
		sm.view = ViewHelp
	}

	sm.mode = target
	return effects, true
}

// CancelInsert leaves INSERT for the previous non-INSERT mode,
// discarding uncommitted text. Returns the restored mode.
func (sm *Machine) CancelInsert() (Mode, []Effect, bool) {
	if sm.mode != ModeInsert {
		return sm.mode, nil, false
	}

	target := sm.prev
	if target == ModeInsert {
		target = ModeNormal
	}

	sm.mode = target
	return target, []Effect{EffectClearInput, EffectBlurInput}, true
}

// LeaveHelp restores the mode and view that were active when help was
// opened.
func (sm *Machine) LeaveHelp() (Mode, bool) {
	if sm.mode != ModeHelp {
		return sm.mode, false
	}

	sm.mode = sm.prev
	switch sm.mode {
	case ModeChat:
		sm.view = ViewChat
	case ModePrompt, ModePromptEdit:
		sm.view = ViewPrompt
	default:
		sm.view = ViewMatrix
	}
	return sm.mode, true
}

// KeyHints describes the legal key set for the current mode, for the
// status line.
func (sm *Machine) KeyHints() []KeyHint {
	switch sm.mode {
	case ModeNormal:
		return []KeyHint{
			{"j/k", "select chat"},
			{"1-9", "jump"},
			{"enter", "open chat"},
			{"i", "compose"},
			{":", "command"},
			{"?", "help"},
		}
	case ModeInsert:
		return []KeyHint{
			{"enter", "send"},
			{"ctrl+y", "paste yank"},
			{"esc", "cancel"},
		}
	case ModeChat:
		return []KeyHint{
			{"j/k", "scroll"},
			{"i", "compose"},
			{"r", "refresh"},
			{"esc", "back"},
		}
	case ModePrompt:
		return []KeyHint{
			{"e<n>", "edit"},
			{"d<n>", "delete"},
			{"y<n>", "yank"},
			{"esc", "back"},
		}
	case ModePromptEdit:
		return []KeyHint{
			{":w", "save"},
			{"esc", "discard"},
		}
	case ModeHelp:
		return []KeyHint{
			{"any key", "dismiss"},
		}
	default:
		return nil
	}
}

// KeyHint is one status-line hint pair.
type KeyHint struct {
	Key  string
	Desc string
}
