// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	"strings"
	"unicode/utf8"
)

// =============================================================================
// CAPTURE SLOT
// =============================================================================

// CaptureKind tags what the single armed capture slot is collecting.
// Arming a new capture always replaces the old one, so two handlers can
// never consume the same keystroke twice.
type CaptureKind int

const (
	CaptureNone CaptureKind = iota
	CaptureCommand
	CaptureSearch
	CaptureNumber
	CaptureHelpDismiss
)

// =============================================================================
// PENDING OPERATOR
// =============================================================================

// OperatorKind is a PROMPT-mode operator awaiting a numeric argument.
type OperatorKind int

const (
	OpEdit OperatorKind = iota
	OpDelete
	OpYank
)

// String returns the display string for the operator.
func (o OperatorKind) String() string {
	switch o {
	case OpEdit:
		return "edit"
	case OpDelete:
		return "delete"
	case OpYank:
		return "yank"
	default:
		return "unknown"
	}
}

// PendingOperator accumulates digits for an operator. At most one
// exists at a time; arming a new operator overwrites the old one
// (last-armed-wins).
type PendingOperator struct {
	Kind   OperatorKind
	Digits string
}

// =============================================================================
// EVENTS
// =============================================================================

// Event is the outcome of feeding one keystroke to the multiplexer.
type Event int

const (
	// EventConsumed: the keystroke was buffered; nothing to dispatch.
	EventConsumed Event = iota
	// EventPass: no capture armed; dispatch against the mode bindings.
	EventPass
	// EventCommandCommit: a command line was committed (Text holds it).
	EventCommandCommit
	// EventCommandCancel: command capture cancelled.
	EventCommandCancel
	// EventSearchCommit: a search term was committed (Text holds it).
	EventSearchCommit
	// EventSearchCancel: search capture cancelled.
	EventSearchCancel
	// EventOperatorCommit: operator plus numeric argument committed.
	EventOperatorCommit
	// EventOperatorCancel: pending operator cancelled.
	EventOperatorCancel
	// EventNumberCommit: a bare numeric jump was committed (Number holds it).
	EventNumberCommit
	// EventNumberCancel: number capture cancelled.
	EventNumberCancel
	// EventHelpDismiss: the help-dismiss capture fired.
	EventHelpDismiss
)

// FeedResult carries the event and its payload.
type FeedResult struct {
	Event    Event
	Text     string
	Operator OperatorKind
	Number   int
}

// =============================================================================
// MULTIPLEXER
// =============================================================================

// Multiplexer routes every keystroke. Dispatch priority, fixed:
// pending operator, then the armed capture slot, then the caller's
// mode-specific handling (INSERT passthrough or binding lookup).
type Multiplexer struct {
	capture CaptureKind
	buffer  string
	pending *PendingOperator
}

// NewMultiplexer creates a multiplexer with nothing armed.
func NewMultiplexer() *Multiplexer {
	return &Multiplexer{}
}

// Capture returns the armed capture kind.
func (mx *Multiplexer) Capture() CaptureKind { return mx.capture }

// Buffer returns the accumulating capture text, for status display.
func (mx *Multiplexer) Buffer() string { return mx.buffer }

// Pending returns the pending operator, or nil.
func (mx *Multiplexer) Pending() *PendingOperator { return mx.pending }

// Arm registers a capture, replacing any armed capture of any kind.
// Exactly one capture is active afterward.
func (mx *Multiplexer) Arm(kind CaptureKind) {
	mx.capture = kind
	mx.buffer = ""
}

// Disarm clears the capture slot.
func (mx *Multiplexer) Disarm() {
	mx.capture = CaptureNone
	mx.buffer = ""
}

// ArmOperator registers a pending operator, replacing any existing one
// along with its accumulated digits (last-armed-wins).
func (mx *Multiplexer) ArmOperator(kind OperatorKind) {
	mx.pending = &PendingOperator{Kind: kind}
}

// CancelOperator destroys the pending operator.
func (mx *Multiplexer) CancelOperator() {
	mx.pending = nil
}

// Feed routes one keystroke. key is the bubbletea key string ("a",
// "enter", "esc", "backspace", ...).
func (mx *Multiplexer) Feed(key string) FeedResult {
	// 1. A pending operator exclusively owns input.
	if mx.pending != nil {
		return mx.feedOperator(key)
	}

	// 2. An armed capture owns input next.
	switch mx.capture {
	case CaptureCommand:
		return mx.feedLine(key, EventCommandCommit, EventCommandCancel)
	case CaptureSearch:
		return mx.feedLine(key, EventSearchCommit, EventSearchCancel)
	case CaptureNumber:
		return mx.feedNumber(key)
	case CaptureHelpDismiss:
		mx.Disarm()
		return FeedResult{Event: EventHelpDismiss}
	}

	// 3. Nothing armed: the caller dispatches by mode.
	return FeedResult{Event: EventPass}
}

func (mx *Multiplexer) feedOperator(key string) FeedResult {
	op := mx.pending

	switch {
	case key == "esc":
		mx.pending = nil
		return FeedResult{Event: EventOperatorCancel}

	case key == "enter":
		digits := op.Digits
		mx.pending = nil
		if digits == "" {
			return FeedResult{Event: EventOperatorCancel}
		}
		return FeedResult{
			Event:    EventOperatorCommit,
			Operator: op.Kind,
			Number:   parseDigits(digits),
		}

	case key == "backspace":
		if len(op.Digits) > 0 {
			op.Digits = op.Digits[:len(op.Digits)-1]
		}
		return FeedResult{Event: EventConsumed}

	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		op.Digits += key
		return FeedResult{Event: EventConsumed}

	default:
		// Non-digit keys are swallowed; the operator stays armed.
		return FeedResult{Event: EventConsumed}
	}
}

func (mx *Multiplexer) feedLine(key string, commit, cancel Event) FeedResult {
	switch key {
	case "esc":
		mx.Disarm()
		return FeedResult{Event: cancel}

	case "enter":
		text := strings.TrimSpace(mx.buffer)
		mx.Disarm()
		return FeedResult{Event: commit, Text: text}

	case "backspace":
		if mx.buffer != "" {
			_, size := utf8.DecodeLastRuneInString(mx.buffer)
			mx.buffer = mx.buffer[:len(mx.buffer)-size]
			return FeedResult{Event: EventConsumed}
		}
		// Backspace on an empty buffer cancels, like vim.
		mx.Disarm()
		return FeedResult{Event: cancel}

	case "space":
		mx.buffer += " "
		return FeedResult{Event: EventConsumed}

	default:
		// Any single printable rune is buffered; multi-rune key names
		// (arrows, function keys) are swallowed.
		if utf8.RuneCountInString(key) == 1 {
			mx.buffer += key
		}
		return FeedResult{Event: EventConsumed}
	}
}

func (mx *Multiplexer) feedNumber(key string) FeedResult {
	switch {
	case key == "esc":
		mx.Disarm()
		return FeedResult{Event: EventNumberCancel}

	case key == "enter":
		text := mx.buffer
		mx.Disarm()
		if text == "" {
			return FeedResult{Event: EventNumberCancel}
		}
		return FeedResult{Event: EventNumberCommit, Text: text, Number: parseDigits(text)}

	case key == "backspace":
		if len(mx.buffer) > 0 {
			mx.buffer = mx.buffer[:len(mx.buffer)-1]
		}
		return FeedResult{Event: EventConsumed}

	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		mx.buffer += key
		return FeedResult{Event: EventConsumed}

	default:
		return FeedResult{Event: EventConsumed}
	}
}

func parseDigits(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
