// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the core data types shared across chatdeck.
package model

import (
	"sort"
	"strings"
	"time"
)

// =============================================================================
// CHAT REFERENCE
// =============================================================================

// ChatRef identifies a chat thread on the transport.
type ChatRef struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	IsGroup     bool      `json:"is_group"`
	UnreadCount int       `json:"unread_count"`
	LastActive  time.Time `json:"last_active"`
}

// DisplayName returns the name shown in the chat list, falling back to
// the raw ID for chats the transport did not name.
func (c ChatRef) DisplayName() string {
	if strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	return c.ID
}

// =============================================================================
// MESSAGE
// =============================================================================

// Message is a single chat message as delivered by the transport.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	FromMe    bool      `json:"from_me"`
	Timestamp time.Time `json:"timestamp"`
}

// =============================================================================
// ORDERING
// =============================================================================

// SortMessages orders messages ascending by timestamp, oldest first.
// Ties preserve arrival order so transports that batch same-second
// messages keep their relative ordering.
func SortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
}

// TailMessages returns the most recent limit messages in chronological
// order. The input is not modified. A non-positive limit returns an
// empty slice.
func TailMessages(msgs []Message, limit int) []Message {
	if limit <= 0 {
		return nil
	}

	sorted := make([]Message, len(msgs))
	copy(sorted, msgs)
	SortMessages(sorted)

	if len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}
	return sorted
}
