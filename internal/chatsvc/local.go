// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatsvc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/chatdeck/internal/model"
)

// =============================================================================
// LOCAL TRANSPORT
// =============================================================================

// ErrClosed is returned by all Service calls after Close.
var ErrClosed = errors.New("transport is closed")

// LocalService is the in-process transport used when no external bridge
// is configured: seeded chats, messages held in memory, and a scripted
// reply after each send so the refresh path has something to pick up.
// It satisfies Service and drives the same Events lifecycle a real
// bridge would, so the dashboard cannot tell the difference.
type LocalService struct {
	mu       sync.Mutex
	chats    []model.ChatRef
	messages map[string][]model.Message
	closed   bool

	events Events

	// replyDelay is how long after a send the scripted reply lands.
	// Zero disables replies.
	replyDelay time.Duration
}

// NewLocalService creates a local transport with a seeded roster.
func NewLocalService(events Events) *LocalService {
	now := time.Now()
	s := &LocalService{
		events:     events,
		replyDelay: 2 * time.Second,
		chats: []model.ChatRef{
			{ID: "local:notes", Name: "Notes to self", LastActive: now},
			{ID: "local:demo", Name: "Demo contact", LastActive: now.Add(-time.Hour)},
		},
		messages: map[string][]model.Message{
			"local:demo": {
				{
					ID:        uuid.NewString(),
					ChatID:    "local:demo",
					Sender:    "Demo contact",
					Body:      "hey, try /p -ct \"say hello back\" in INSERT mode",
					Timestamp: now.Add(-time.Hour),
				},
			},
		},
	}

	// A local transport is authenticated and ready by construction.
	if events.OnAuthenticated != nil {
		events.OnAuthenticated()
	}
	if events.OnReady != nil {
		events.OnReady()
	}
	return s
}

// ListChats returns the roster, most recently active first.
func (s *LocalService) ListChats(ctx context.Context) ([]model.ChatRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, NewTransportError("list", ErrClosed)
	}

	out := make([]model.ChatRef, len(s.chats))
	copy(out, s.chats)
	return out, nil
}

// FetchMessages returns the chat's messages. Order is unspecified, as
// with a real transport; callers sort.
func (s *LocalService) FetchMessages(ctx context.Context, chatID string, limit int) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, NewTransportError("fetch", ErrClosed)
	}

	msgs := s.messages[chatID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// SendMessage stores the message and schedules the scripted reply.
func (s *LocalService) SendMessage(ctx context.Context, chatID string, text string) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Message{}, NewTransportError("send", ErrClosed)
	}

	msg := model.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Sender:    "me",
		Body:      text,
		FromMe:    true,
		Timestamp: time.Now(),
	}
	s.messages[chatID] = append(s.messages[chatID], msg)
	s.touchChat(chatID)

	if s.replyDelay > 0 && chatID != "local:notes" {
		go s.scriptedReply(chatID)
	}
	return msg, nil
}

// Close shuts the transport down and fires OnDisconnected.
func (s *LocalService) Close(ctx context.Context) error {
	s.mu.Lock()
	alreadyClosed := s.closed
	s.closed = true
	s.mu.Unlock()

	if !alreadyClosed && s.events.OnDisconnected != nil {
		s.events.OnDisconnected("closed")
	}
	return nil
}

// touchChat bumps LastActive for the chat. Caller holds the lock.
func (s *LocalService) touchChat(chatID string) {
	for i := range s.chats {
		if s.chats[i].ID == chatID {
			s.chats[i].LastActive = time.Now()
			return
		}
	}
}

// scriptedReply lands a canned response so the post-send refresh has
// something new to show.
func (s *LocalService) scriptedReply(chatID string) {
	time.Sleep(s.replyDelay)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	sender := "Demo contact"
	for _, c := range s.chats {
		if c.ID == chatID {
			sender = c.DisplayName()
		}
	}

	s.messages[chatID] = append(s.messages[chatID], model.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Sender:    sender,
		Body:      "got it",
		Timestamp: time.Now(),
	})
	s.touchChat(chatID)
}

var _ Service = (*LocalService)(nil)
