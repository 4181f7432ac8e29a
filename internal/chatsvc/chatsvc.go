// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatsvc defines the boundary to the external chat transport.
package chatsvc

import (
	"context"
	"errors"

	"github.com/jeranaias/chatdeck/internal/model"
)

// =============================================================================
// SERVICE INTERFACE
// =============================================================================

// Service is the capability chatdeck requires from a chat transport.
// Implementations must be safe for use from the single UI goroutine plus
// the tea.Cmd goroutines the dashboard spawns.
type Service interface {
	// ListChats returns the chats visible to the authenticated account.
	ListChats(ctx context.Context) ([]model.ChatRef, error)

	// FetchMessages returns up to limit messages for the chat, in
	// whatever order the transport produces them. Callers sort.
	FetchMessages(ctx context.Context, chatID string, limit int) ([]model.Message, error)

	// SendMessage delivers text to the chat and returns the transport's
	// echo of the sent message.
	SendMessage(ctx context.Context, chatID string, text string) (model.Message, error)

	// Close tears down the transport connection. Called exactly once
	// during graceful shutdown.
	Close(ctx context.Context) error
}

// =============================================================================
// LIFECYCLE EVENTS
// =============================================================================

// Events carries transport lifecycle callbacks. Any nil callback is
// skipped. Callbacks may be invoked from transport-owned goroutines;
// implementations forward them into the UI loop as messages.
type Events struct {
	// OnQRChallenge delivers pairing challenge data. Rendering the
	// challenge is up to the subscriber; the pairing protocol itself is
	// out of chatdeck's scope.
	OnQRChallenge func(data string)

	// OnAuthenticated fires once the transport has valid credentials.
	OnAuthenticated func()

	// OnReady fires when the transport can serve Service calls.
	OnReady func()

	// OnDisconnected fires when the transport drops, with the reason.
	OnDisconnected func(reason string)
}

// =============================================================================
// ERRORS
// =============================================================================

// TransportError wraps a failure from the underlying chat transport.
type TransportError struct {
	Op    string // operation that failed: "list", "fetch", "send", "close"
	Cause error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return "chat transport: " + e.Op + ": " + e.Cause.Error()
	}
	return "chat transport: " + e.Op + " failed"
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// NewTransportError wraps cause as a transport failure for op.
func NewTransportError(op string, cause error) *TransportError {
	return &TransportError{Op: op, Cause: cause}
}

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
