// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuietLocal(events Events) *LocalService {
	s := NewLocalService(events)
	s.replyDelay = 0 // keep tests deterministic
	return s
}

func TestLocalServiceLifecycleEvents(t *testing.T) {
	var authed, ready bool
	svc := newQuietLocal(Events{
		OnAuthenticated: func() { authed = true },
		OnReady:         func() { ready = true },
	})

	assert.True(t, authed)
	assert.True(t, ready)

	var reason string
	svc.events.OnDisconnected = func(r string) { reason = r }
	require.NoError(t, svc.Close(context.Background()))
	assert.Equal(t, "closed", reason)
}

func TestLocalServiceSendAndFetch(t *testing.T) {
	svc := newQuietLocal(Events{})
	ctx := context.Background()

	sent, err := svc.SendMessage(ctx, "local:notes", "remember milk")
	require.NoError(t, err)
	assert.True(t, sent.FromMe)
	assert.NotEmpty(t, sent.ID)

	msgs, err := svc.FetchMessages(ctx, "local:notes", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "remember milk", msgs[0].Body)
}

func TestLocalServiceFetchLimit(t *testing.T) {
	svc := newQuietLocal(Events{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.SendMessage(ctx, "local:notes", "m")
		require.NoError(t, err)
	}

	msgs, err := svc.FetchMessages(ctx, "local:notes", 3)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func TestLocalServiceClosedErrors(t *testing.T) {
	svc := newQuietLocal(Events{})
	ctx := context.Background()
	require.NoError(t, svc.Close(ctx))

	_, err := svc.ListChats(ctx)
	assert.True(t, IsTransportError(err))

	_, err = svc.FetchMessages(ctx, "local:notes", 1)
	assert.True(t, IsTransportError(err))

	_, err = svc.SendMessage(ctx, "local:notes", "x")
	assert.True(t, IsTransportError(err))
}

func TestLocalServiceSendBumpsActivity(t *testing.T) {
	svc := newQuietLocal(Events{})
	ctx := context.Background()

	before, err := svc.ListChats(ctx)
	require.NoError(t, err)

	var stamp = before[0].LastActive
	_, err = svc.SendMessage(ctx, before[0].ID, "ping")
	require.NoError(t, err)

	after, err := svc.ListChats(ctx)
	require.NoError(t, err)
	assert.True(t, !after[0].LastActive.Before(stamp))
}
