// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package draft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatdeck/internal/metrics"
	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/ollama"
	"github.com/jeranaias/chatdeck/internal/prompts"
	"github.com/jeranaias/chatdeck/internal/session"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeCompleter struct {
	gotModel  string
	gotPrompt string
	response  string
	err       error
}

func (f *fakeCompleter) Generate(ctx context.Context, model string, prompt string) (*ollama.GenerateResponse, error) {
	f.gotModel = model
	f.gotPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return &ollama.GenerateResponse{Response: f.response, Done: true}, nil
}

type fakeSender struct {
	gotChatID string
	gotText   string
	calls     int
	err       error
}

func (f *fakeSender) Send(ctx context.Context, chatID string, text string) (model.Message, error) {
	f.calls++
	f.gotChatID = chatID
	f.gotText = text
	if f.err != nil {
		return model.Message{}, f.err
	}
	return model.Message{ID: "m1", ChatID: chatID, Body: text, FromMe: true}, nil
}

type fakeRecorder struct {
	recorded  []metrics.Interaction
	statuses  map[string]metrics.Status
	recordErr error
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{statuses: make(map[string]metrics.Status)}
}

func (f *fakeRecorder) RecordInteraction(in metrics.Interaction) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, in)
	return nil
}

func (f *fakeRecorder) UpdateSendStatus(id string, status metrics.Status) error {
	f.statuses[id] = status
	return nil
}

func loadLibrary(t *testing.T, templates map[string]string) *prompts.Library {
	t.Helper()
	dir := t.TempDir()
	lib, err := prompts.Load(dir)
	require.NoError(t, err)
	for slug, content := range templates {
		require.NoError(t, lib.Save(slug, content))
	}
	return lib
}

func history() []model.Message {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []model.Message{
		{Sender: "Alice", Body: "hello", Timestamp: base},
		{Sender: "Bob", Body: "/p -ct ignore me", Timestamp: base.Add(time.Minute)},
		{Sender: "Alice", Body: "are we still on?", Timestamp: base.Add(2 * time.Minute)},
	}
}

// =============================================================================
// CONTEXT ASSEMBLY
// =============================================================================

func TestBuildContext(t *testing.T) {
	got := BuildContext(history())

	assert.Contains(t, got, "Alice [12:00]\nhello")
	assert.Contains(t, got, "Alice [12:02]\nare we still on?")
	assert.NotContains(t, got, "ignore me")
	assert.Contains(t, got, "\n\n")
}

func TestBuildContext_WindowLimit(t *testing.T) {
	var msgs []model.Message
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		msgs = append(msgs, model.Message{
			Sender:    "Alice",
			Body:      "msg",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}

	got := BuildContext(msgs)

	// Only the newest ten make it in.
	assert.NotContains(t, got, "[12:14]")
	assert.Contains(t, got, "[12:15]")
	assert.Contains(t, got, "[12:24]")
}

func TestBuildContext_Empty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
}

func TestBuildContext_DropsTemplateScaffolding(t *testing.T) {
	msgs := []model.Message{
		{Sender: "Alice", Body: "normal line", Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{Sender: "Bob", Body: "echoed {{CONTEXT}} back", Timestamp: time.Date(2025, 6, 1, 12, 1, 0, 0, time.UTC)},
		{Sender: "Bob", Body: "and {{CONTENT}} too", Timestamp: time.Date(2025, 6, 1, 12, 2, 0, 0, time.UTC)},
	}

	got := BuildContext(msgs)
	assert.Contains(t, got, "normal line")
	assert.NotContains(t, got, "{{CONTEXT}}")
	assert.NotContains(t, got, "{{CONTENT}}")
}

// =============================================================================
// PIPELINE RUNS
// =============================================================================

func TestRun_TemplatePathEndToEnd(t *testing.T) {
	lib := loadLibrary(t, map[string]string{
		"formal": "Context:\n{{CONTEXT}}\n\nWrite a formal reply: {{CONTENT}}",
	})
	completer := &fakeCompleter{response: "**Certainly.** I will remind him."}
	sender := &fakeSender{}
	recorder := newFakeRecorder()

	p := New(lib, completer, sender, recorder, "llama3.2")

	res, err := p.Run(context.Background(), Command{Content: "remind him", PromptSlug: "formal"}, "alice@c.us", history())
	require.NoError(t, err)

	// Template fully rendered before the backend call.
	assert.Contains(t, completer.gotPrompt, "Alice [12:00]\nhello")
	assert.Contains(t, completer.gotPrompt, "Write a formal reply: remind him")
	assert.NotContains(t, completer.gotPrompt, "{{CONTEXT}}")
	assert.Equal(t, "llama3.2", completer.gotModel)

	// Draft is sanitized and delivered to the captured chat.
	assert.Equal(t, "Certainly. I will remind him.", res.Draft)
	assert.Equal(t, res.Draft, sender.gotText)
	assert.Equal(t, "alice@c.us", sender.gotChatID)
	require.NoError(t, res.SendErr)
	assert.Equal(t, "m1", res.Sent.ID)

	// Interaction recorded and resolved to sent.
	require.Len(t, recorder.recorded, 1)
	rec := recorder.recorded[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "formal", rec.PromptSlug)
	assert.Equal(t, "**Certainly.** I will remind him.", rec.Response)
	assert.Equal(t, metrics.StatusSent, recorder.statuses[rec.ID])
	assert.Equal(t, metrics.StatusSent, res.Interaction.SentStatus)
	assert.Equal(t, rec.ID, p.LastInteractionID())
}

func TestRun_FallbackPromptWhenNoSlug(t *testing.T) {
	lib := loadLibrary(t, nil)
	completer := &fakeCompleter{response: "ok"}
	sender := &fakeSender{}
	p := New(lib, completer, sender, newFakeRecorder(), "llama3.2")

	_, err := p.Run(context.Background(), Command{Content: "say hi"}, "alice@c.us", history())
	require.NoError(t, err)

	assert.Contains(t, completer.gotPrompt, "Context:\n")
	assert.Contains(t, completer.gotPrompt, "Content:\nsay hi")
}

func TestRun_UnknownTemplateNoSendNoRecord(t *testing.T) {
	lib := loadLibrary(t, map[string]string{"formal": "{{CONTENT}}"})
	sender := &fakeSender{}
	recorder := newFakeRecorder()
	p := New(lib, &fakeCompleter{response: "x"}, sender, recorder, "llama3.2")

	_, err := p.Run(context.Background(), Command{Content: "hi", PromptSlug: "doesnotexist"}, "alice@c.us", nil)

	var notFound *prompts.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, notFound.Available, "formal")
	assert.Zero(t, sender.calls)
	assert.Empty(t, recorder.recorded)
}

func TestRun_CompletionFailureNoSend(t *testing.T) {
	lib := loadLibrary(t, nil)
	sender := &fakeSender{}
	recorder := newFakeRecorder()
	p := New(lib, &fakeCompleter{err: ollama.ErrNotRunning}, sender, recorder, "llama3.2")

	_, err := p.Run(context.Background(), Command{Content: "hi"}, "alice@c.us", nil)

	assert.True(t, IsCompletionError(err))
	assert.True(t, ollama.IsNotRunning(errors.Unwrap(err)))
	assert.Zero(t, sender.calls)
	assert.Empty(t, recorder.recorded)
	assert.Empty(t, p.LastInteractionID())
}

func TestRun_SendFailureStillRecorded(t *testing.T) {
	lib := loadLibrary(t, nil)
	recorder := newFakeRecorder()
	sender := &fakeSender{err: session.ErrNoChatSelected}
	p := New(lib, &fakeCompleter{response: "draft text"}, sender, recorder, "llama3.2")

	res, err := p.Run(context.Background(), Command{Content: "hi"}, "alice@c.us", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, res.SendErr, session.ErrNoChatSelected)
	require.Len(t, recorder.recorded, 1)
	assert.Equal(t, metrics.StatusFailed, recorder.statuses[recorder.recorded[0].ID])
	assert.Equal(t, metrics.StatusFailed, res.Interaction.SentStatus)
}

func TestRun_ModelOverride(t *testing.T) {
	lib := loadLibrary(t, nil)
	completer := &fakeCompleter{response: "ok"}
	p := New(lib, completer, &fakeSender{}, newFakeRecorder(), "llama3.2")

	_, err := p.Run(context.Background(), Command{Content: "hi", Model: "qwen2.5:7b"}, "alice@c.us", nil)
	require.NoError(t, err)
	assert.Equal(t, "qwen2.5:7b", completer.gotModel)
}

func TestRun_RecordFailureDoesNotAbort(t *testing.T) {
	lib := loadLibrary(t, nil)
	recorder := newFakeRecorder()
	recorder.recordErr = errors.New("disk full")
	sender := &fakeSender{}
	p := New(lib, &fakeCompleter{response: "ok"}, sender, recorder, "llama3.2")

	res, err := p.Run(context.Background(), Command{Content: "hi"}, "alice@c.us", nil)
	require.NoError(t, err)

	// Metrics are best-effort: the send still happened.
	assert.Equal(t, 1, sender.calls)
	assert.Error(t, res.RecordErr)
	assert.NoError(t, res.SendErr)
}

func TestRun_LastInteractionLastWriteWins(t *testing.T) {
	lib := loadLibrary(t, nil)
	p := New(lib, &fakeCompleter{response: "ok"}, &fakeSender{}, newFakeRecorder(), "llama3.2")

	res1, err := p.Run(context.Background(), Command{Content: "first"}, "alice@c.us", nil)
	require.NoError(t, err)
	res2, err := p.Run(context.Background(), Command{Content: "second"}, "alice@c.us", nil)
	require.NoError(t, err)

	assert.NotEqual(t, res1.Interaction.ID, res2.Interaction.ID)
	assert.Equal(t, res2.Interaction.ID, p.LastInteractionID())
}
