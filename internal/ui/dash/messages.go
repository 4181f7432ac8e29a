// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatdeck/internal/draft"
	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/ollama"
)

// =============================================================================
// ASYNC RESULT MESSAGES
// =============================================================================

// Every suspension point returns to the update loop as one of these.
// Handlers check relevance (load tags, current selection) before
// mutating state, so late results for an abandoned context are dropped
// silently.

// chatsLoadedMsg carries the chat list, or the transport failure.
type chatsLoadedMsg struct {
	chats []model.ChatRef
	err   error
}

// messagesLoadedMsg carries one tagged message load. The tag names the
// selection the load was issued under; a mismatch means stale.
type messagesLoadedMsg struct {
	tag    uint64
	chatID string
	msgs   []model.Message
	err    error
}

// sentMsg is the outcome of a manual (INSERT-mode) send.
type sentMsg struct {
	msg model.Message
	err error
}

// refreshTickMsg fires after the post-send debounce.
type refreshTickMsg struct {
	tag    uint64
	chatID string
}

// draftDoneMsg is the outcome of one AI draft pipeline run.
type draftDoneMsg struct {
	result *draft.Result
	err    error
}

// modelsListedMsg carries the backend model catalog for :models.
type modelsListedMsg struct {
	models []ollama.ModelInfo
	err    error
}

// promptsReloadedMsg signals the template watcher picked up an edit.
type promptsReloadedMsg struct{}

// animTickMsg drives the background animation.
type animTickMsg struct{}

// statusExpireMsg clears a transient status line notice.
type statusExpireMsg struct {
	id int
}

// backendCheckedMsg is the startup completion-backend health probe.
type backendCheckedMsg struct {
	err error
}

// svcLifecycleMsg carries chat transport lifecycle events.
type svcLifecycleMsg struct {
	kind   svcEventKind
	reason string
}

type svcEventKind int

const (
	svcEventQRChallenge svcEventKind = iota
	svcEventAuthenticated
	svcEventReady
	svcEventDisconnected
)

// =============================================================================
// EXTERNAL INJECTION
// =============================================================================

// Constructors for events that originate outside the tea.Cmd flow:
// transport callbacks and the template watcher call these and hand the
// result to Program.Send.

// QRChallenge wraps a pairing challenge for the update loop.
func QRChallenge(data string) tea.Msg {
	return svcLifecycleMsg{kind: svcEventQRChallenge, reason: data}
}

// Authenticated signals the transport has credentials.
func Authenticated() tea.Msg {
	return svcLifecycleMsg{kind: svcEventAuthenticated}
}

// Ready signals the transport can serve calls.
func Ready() tea.Msg {
	return svcLifecycleMsg{kind: svcEventReady}
}

// Disconnected signals the transport dropped.
func Disconnected(reason string) tea.Msg {
	return svcLifecycleMsg{kind: svcEventDisconnected, reason: reason}
}

// PromptsReloaded signals the template library changed on disk.
func PromptsReloaded() tea.Msg {
	return promptsReloadedMsg{}
}
