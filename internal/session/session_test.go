// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatdeck/internal/chatsvc"
	"github.com/jeranaias/chatdeck/internal/model"
)

// =============================================================================
// FAKE TRANSPORT
// =============================================================================

type fakeService struct {
	chats    []model.ChatRef
	messages map[string][]model.Message
	sendErr  error
	listErr  error
	fetchErr error

	mu     sync.Mutex
	sent   []string
	closed bool
}

func (f *fakeService) ListChats(ctx context.Context) ([]model.ChatRef, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.chats, nil
}

func (f *fakeService) FetchMessages(ctx context.Context, chatID string, limit int) ([]model.Message, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.messages[chatID], nil
}

func (f *fakeService) SendMessage(ctx context.Context, chatID string, text string) (model.Message, error) {
	if f.sendErr != nil {
		return model.Message{}, f.sendErr
	}
	f.mu.Lock()
	f.sent = append(f.sent, text)
	f.mu.Unlock()
	return model.Message{ID: "sent-1", ChatID: chatID, Body: text, FromMe: true, Timestamp: time.Now()}, nil
}

func (f *fakeService) Close(ctx context.Context) error {
	f.closed = true
	return nil
}

func newFake() *fakeService {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &fakeService{
		chats: []model.ChatRef{
			{ID: "alice@c.us", Name: "Alice"},
			{ID: "team@g.us", Name: "Team", IsGroup: true},
		},
		messages: map[string][]model.Message{
			"alice@c.us": {
				{ID: "m2", ChatID: "alice@c.us", Sender: "Alice", Body: "second", Timestamp: base.Add(time.Minute)},
				{ID: "m1", ChatID: "alice@c.us", Sender: "Alice", Body: "first", Timestamp: base},
				{ID: "m3", ChatID: "alice@c.us", Sender: "me", Body: "third", FromMe: true, Timestamp: base.Add(2 * time.Minute)},
			},
		},
	}
}

// =============================================================================
// CHAT LIST
// =============================================================================

func TestFetchChats_DoesNotTouchState(t *testing.T) {
	svc := newFake()
	s := New(svc)

	chats, err := s.FetchChats(context.Background())
	require.NoError(t, err)
	assert.Len(t, chats, 2)
	assert.Empty(t, s.Chats(), "fetch alone must not install the list")
	assert.Nil(t, s.Selected())
}

func TestApplyChats_NoAutoSelect(t *testing.T) {
	s := New(newFake())

	s.ApplyChats([]model.ChatRef{{ID: "alice@c.us", Name: "Alice"}})
	assert.Len(t, s.Chats(), 1)
	assert.Nil(t, s.Selected(), "installing the list must not select a chat")
}

func TestFetchChats_TransportError(t *testing.T) {
	svc := newFake()
	svc.listErr = errors.New("socket closed")
	s := New(svc)

	_, err := s.FetchChats(context.Background())
	require.Error(t, err)
	assert.True(t, chatsvc.IsTransportError(err))
	assert.Empty(t, s.Chats(), "list stays empty on failure")
}

// =============================================================================
// SELECTION
// =============================================================================

func TestSelectChat_RequiresManualSelection(t *testing.T) {
	s := New(newFake())

	// Automatic selection attempt (no arm) is ignored.
	_, ok := s.SelectChat(model.ChatRef{ID: "alice@c.us"})
	assert.False(t, ok)
	assert.Nil(t, s.Selected())

	// Manual selection goes through.
	s.MarkManualSelection()
	tag, ok := s.SelectChat(model.ChatRef{ID: "alice@c.us"})
	assert.True(t, ok)
	assert.NotZero(t, tag)
	require.NotNil(t, s.Selected())
	assert.Equal(t, "alice@c.us", s.Selected().ID)

	// The flag is consumed: a second attempt without re-arming fails.
	_, ok = s.SelectChat(model.ChatRef{ID: "team@g.us"})
	assert.False(t, ok)
	assert.Equal(t, "alice@c.us", s.Selected().ID)
}

func TestSelectChat_ClearsOldMessages(t *testing.T) {
	s := New(newFake())

	s.MarkManualSelection()
	tag, _ := s.SelectChat(model.ChatRef{ID: "alice@c.us"})
	s.ApplyMessages(tag, "alice@c.us", []model.Message{{ID: "m1"}})
	require.Len(t, s.Messages(), 1)

	s.MarkManualSelection()
	s.SelectChat(model.ChatRef{ID: "team@g.us"})
	assert.Empty(t, s.Messages())
}

// =============================================================================
// STALE LOAD PROTECTION
// =============================================================================

func TestApplyMessages_LastIssuedWins(t *testing.T) {
	s := New(newFake())

	s.MarkManualSelection()
	oldTag, _ := s.SelectChat(model.ChatRef{ID: "alice@c.us"})

	// A newer selection is issued before the first load resolves.
	s.MarkManualSelection()
	newTag, _ := s.SelectChat(model.ChatRef{ID: "team@g.us"})

	// The stale load resolves late and must be discarded.
	applied := s.ApplyMessages(oldTag, "alice@c.us", []model.Message{{ID: "stale"}})
	assert.False(t, applied)
	assert.Empty(t, s.Messages())

	// The load for the live selection lands.
	applied = s.ApplyMessages(newTag, "team@g.us", []model.Message{{ID: "fresh"}})
	assert.True(t, applied)
	require.Len(t, s.Messages(), 1)
	assert.Equal(t, "fresh", s.Messages()[0].ID)
}

func TestApplyMessages_DroppedAfterClearSelection(t *testing.T) {
	s := New(newFake())

	s.MarkManualSelection()
	tag, _ := s.SelectChat(model.ChatRef{ID: "alice@c.us"})
	s.ClearSelection()

	applied := s.ApplyMessages(tag, "alice@c.us", []model.Message{{ID: "late"}})
	assert.False(t, applied)
	assert.Empty(t, s.Messages())
}

// =============================================================================
// MESSAGE LOADING
// =============================================================================

func TestFetchMessages_SortedAndLimited(t *testing.T) {
	s := New(newFake())

	msgs, err := s.FetchMessages(context.Background(), "alice@c.us", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	// The two most recent, in chronological order.
	assert.Equal(t, "m2", msgs[0].ID)
	assert.Equal(t, "m3", msgs[1].ID)
	assert.True(t, msgs[0].Timestamp.Before(msgs[1].Timestamp))
}

func TestFetchMessages_FailureKeepsPreviousList(t *testing.T) {
	svc := newFake()
	s := New(svc)

	s.MarkManualSelection()
	tag, _ := s.SelectChat(model.ChatRef{ID: "alice@c.us"})
	s.ApplyMessages(tag, "alice@c.us", []model.Message{{ID: "kept"}})

	svc.fetchErr = errors.New("timeout")
	_, err := s.FetchMessages(context.Background(), "alice@c.us", 10)
	require.Error(t, err)
	assert.True(t, chatsvc.IsTransportError(err))

	require.Len(t, s.Messages(), 1)
	assert.Equal(t, "kept", s.Messages()[0].ID)
}

// =============================================================================
// SENDING
// =============================================================================

func TestSend_NoChatSelected(t *testing.T) {
	s := New(newFake())

	_, err := s.Send(context.Background(), "", "hi")
	assert.ErrorIs(t, err, ErrNoChatSelected)
}

func TestSend_EmptyMessage(t *testing.T) {
	svc := newFake()
	s := New(svc)

	s.MarkManualSelection()
	tag, _ := s.SelectChat(model.ChatRef{ID: "alice@c.us"})
	s.ApplyMessages(tag, "alice@c.us", []model.Message{{ID: "m1"}})

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := s.Send(context.Background(), "alice@c.us", text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}

	assert.Empty(t, svc.sent, "nothing reaches the transport")
	assert.Len(t, s.Messages(), 1, "message list unchanged")
}

func TestSend_Delivers(t *testing.T) {
	svc := newFake()
	s := New(svc)

	msg, err := s.Send(context.Background(), "alice@c.us", "hello")
	require.NoError(t, err)
	assert.True(t, msg.FromMe)
	assert.Equal(t, "alice@c.us", msg.ChatID)
	assert.Equal(t, []string{"hello"}, svc.sent)
}

// Transport calls run in tea.Cmd goroutines while the update loop
// mutates selection; fetches and sends must never touch session state.
// This test is meaningful under the race detector.
func TestConcurrentTransportCallsDoNotRaceSelection(t *testing.T) {
	svc := newFake()
	s := New(svc)
	s.ApplyChats(svc.chats)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.FetchChats(context.Background())
			_, _ = s.FetchMessages(context.Background(), "alice@c.us", 10)
			_, _ = s.Send(context.Background(), "alice@c.us", "hello")
		}()
	}

	// Selection churn on the update goroutine's side.
	for i := 0; i < 50; i++ {
		s.MarkManualSelection()
		s.SelectChat(model.ChatRef{ID: "alice@c.us"})
		_ = s.Chats()
		s.ClearSelection()
	}
	wg.Wait()

	assert.Nil(t, s.Selected())
	assert.Len(t, svc.sent, 50)
}

func TestAllowRefresh_Throttled(t *testing.T) {
	s := New(newFake())

	// Burst budget, then throttled.
	assert.True(t, s.AllowRefresh())
	assert.True(t, s.AllowRefresh())
	assert.False(t, s.AllowRefresh())
}

func TestClose(t *testing.T) {
	svc := newFake()
	s := New(svc)

	require.NoError(t, s.Close(context.Background()))
	assert.True(t, svc.closed)
}
