// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session mediates chat state between the UI and the transport.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/chatdeck/internal/chatsvc"
	"github.com/jeranaias/chatdeck/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoChatSelected is returned by Send when no chat is selected.
	ErrNoChatSelected = errors.New("no chat selected")

	// ErrEmptyMessage is returned by Send when the text trims to empty.
	ErrEmptyMessage = errors.New("message is empty")
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultMessageLimit caps how many messages a load keeps.
	DefaultMessageLimit = 50

	// RefreshDelay is how long to wait after a successful send before
	// refreshing, giving the transport time to echo the message back.
	RefreshDelay = 750 * time.Millisecond
)

// =============================================================================
// SESSION
// =============================================================================

// Session holds the selected chat and its message window, and mediates
// every read and write against the chat transport.
//
// Session is not internally synchronized: all mutation happens on the
// single UI update goroutine. The transport calls themselves run in
// tea.Cmd goroutines and never touch session state: Fetch* methods are
// pure reads against the transport, Send takes the chat id its caller
// resolved before suspending, and results re-enter the UI loop where
// Apply* methods decide whether they are still relevant.
type Session struct {
	svc chatsvc.Service

	chats    []model.ChatRef
	selected *model.ChatRef
	messages []model.Message

	// manualSelection distinguishes a user-initiated selection from one
	// fired as a side effect of list population. Consumed once per
	// selection attempt.
	manualSelection bool

	// loadTag is bumped on every selection change; in-flight loads carry
	// the tag they were issued under and are dropped on mismatch.
	loadTag uint64

	// refreshLimiter throttles post-send refreshes so a burst of sends
	// does not hammer the transport.
	refreshLimiter *rate.Limiter
}

// New creates a session over the given transport.
func New(svc chatsvc.Service) *Session {
	return &Session{
		svc:            svc,
		refreshLimiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// =============================================================================
// CHAT LIST
// =============================================================================

// FetchChats pulls the chat list from the transport. It does not touch
// session state; pair it with ApplyChats on the UI goroutine. Failures
// come back as a *chatsvc.TransportError.
func (s *Session) FetchChats(ctx context.Context) ([]model.ChatRef, error) {
	chats, err := s.svc.ListChats(ctx)
	if err != nil {
		if chatsvc.IsTransportError(err) {
			return nil, err
		}
		return nil, chatsvc.NewTransportError("list", err)
	}
	return chats, nil
}

// ApplyChats installs a fetched chat list. No entry is auto-selected
// and the current selection is untouched.
func (s *Session) ApplyChats(chats []model.ChatRef) {
	s.chats = chats
}

// Chats returns the last loaded chat list.
func (s *Session) Chats() []model.ChatRef {
	return s.chats
}

// =============================================================================
// SELECTION
// =============================================================================

// MarkManualSelection arms the next SelectChat call. Selection events
// fired automatically by list population never call this, so they are
// ignored by SelectChat.
func (s *Session) MarkManualSelection() {
	s.manualSelection = true
}

// SelectChat sets the selection if and only if a manual selection is
// armed, consuming the flag exactly once per attempt. On success the
// old messages are cleared and a fresh load tag is minted and returned.
func (s *Session) SelectChat(ref model.ChatRef) (tag uint64, ok bool) {
	if !s.manualSelection {
		return 0, false
	}
	s.manualSelection = false

	s.selected = &ref
	s.messages = nil
	s.loadTag++
	return s.loadTag, true
}

// ClearSelection drops the selection and its messages. The load tag is
// bumped so any in-flight load for the old chat resolves stale.
func (s *Session) ClearSelection() {
	s.selected = nil
	s.messages = nil
	s.loadTag++
}

// Selected returns the selected chat, or nil.
func (s *Session) Selected() *model.ChatRef {
	return s.selected
}

// LoadTag returns the tag the current selection's loads must carry.
func (s *Session) LoadTag() uint64 {
	return s.loadTag
}

// =============================================================================
// MESSAGES
// =============================================================================

// FetchMessages pulls up to limit messages for the given chat from the
// transport, sorted oldest-first and truncated to the most recent limit.
// It does not touch session state; pair it with ApplyMessages on the UI
// goroutine.
func (s *Session) FetchMessages(ctx context.Context, chatID string, limit int) ([]model.Message, error) {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	msgs, err := s.svc.FetchMessages(ctx, chatID, limit)
	if err != nil {
		if chatsvc.IsTransportError(err) {
			return nil, err
		}
		return nil, chatsvc.NewTransportError("fetch", err)
	}

	return model.TailMessages(msgs, limit), nil
}

// ApplyMessages installs a load result if it is still relevant: the tag
// must match the live selection and the chat must still be selected.
// Stale results are dropped silently and the previous list is kept.
func (s *Session) ApplyMessages(tag uint64, chatID string, msgs []model.Message) bool {
	if tag != s.loadTag {
		return false
	}
	if s.selected == nil || s.selected.ID != chatID {
		return false
	}

	s.messages = msgs
	return true
}

// Messages returns the current message window, oldest first.
func (s *Session) Messages() []model.Message {
	return s.messages
}

// =============================================================================
// SENDING
// =============================================================================

// Send delivers text to the given chat. The caller resolves chatID from
// the live selection before suspending, so the transport call never
// reads selection state. Fails with ErrNoChatSelected or
// ErrEmptyMessage before touching the transport.
func (s *Session) Send(ctx context.Context, chatID string, text string) (model.Message, error) {
	if chatID == "" {
		return model.Message{}, ErrNoChatSelected
	}
	if strings.TrimSpace(text) == "" {
		return model.Message{}, ErrEmptyMessage
	}

	msg, err := s.svc.SendMessage(ctx, chatID, text)
	if err != nil {
		if chatsvc.IsTransportError(err) {
			return model.Message{}, err
		}
		return model.Message{}, chatsvc.NewTransportError("send", err)
	}
	return msg, nil
}

// AllowRefresh reports whether a post-send refresh may be issued now.
// Refreshes beyond the limiter's budget are skipped; the next send will
// pick up anything missed.
func (s *Session) AllowRefresh() bool {
	return s.refreshLimiter.Allow()
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Close tears down the transport. Errors are wrapped for display but
// shutdown proceeds regardless.
func (s *Session) Close(ctx context.Context) error {
	if err := s.svc.Close(ctx); err != nil {
		if chatsvc.IsTransportError(err) {
			return err
		}
		return chatsvc.NewTransportError("close", err)
	}
	return nil
}
