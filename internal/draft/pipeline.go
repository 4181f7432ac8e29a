// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package draft

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/chatdeck/internal/metrics"
	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/ollama"
	"github.com/jeranaias/chatdeck/internal/prompts"
)

// =============================================================================
// ERRORS
// =============================================================================

// CompletionError wraps a failed or unparsable backend call. The
// attempt is never retried automatically.
type CompletionError struct {
	Cause error
}

func (e *CompletionError) Error() string {
	return "completion failed: " + e.Cause.Error()
}

func (e *CompletionError) Unwrap() error {
	return e.Cause
}

// IsCompletionError reports whether err is a completion failure.
func IsCompletionError(err error) bool {
	var ce *CompletionError
	return errors.As(err, &ce)
}

// =============================================================================
// CONTEXT ASSEMBLY
// =============================================================================

// ContextWindow is the maximum number of recent messages included as
// completion context.
const ContextWindow = 10

const timeLayout = "15:04"

// BuildContext formats the most recent messages for the {{CONTEXT}}
// placeholder. Control lines (starting with / or :) and messages
// carrying template scaffolding are dropped so the backend never sees
// command syntax or its own prompt echoed back. Each message renders as
// "sender [time]\nbody"; messages are joined by blank lines.
func BuildContext(history []model.Message) string {
	start := len(history) - ContextWindow
	if start < 0 {
		start = 0
	}

	var blocks []string
	for _, msg := range history[start:] {
		body := strings.TrimSpace(msg.Body)
		if body == "" {
			continue
		}
		if strings.HasPrefix(body, "/") || strings.HasPrefix(body, ":") {
			continue
		}
		if strings.Contains(body, prompts.PlaceholderContext) ||
			strings.Contains(body, prompts.PlaceholderContent) {
			continue
		}

		var sb strings.Builder
		sb.WriteString(msg.Sender)
		sb.WriteString(" [")
		sb.WriteString(msg.Timestamp.Format(timeLayout))
		sb.WriteString("]\n")
		sb.WriteString(body)
		blocks = append(blocks, sb.String())
	}

	return strings.Join(blocks, "\n\n")
}

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Completer is the completion backend boundary. *ollama.Client
// satisfies it.
type Completer interface {
	Generate(ctx context.Context, model string, prompt string) (*ollama.GenerateResponse, error)
}

// Sender delivers a sanitized draft to a specific chat. The chat id is
// resolved by the caller before the pipeline goroutine starts, so the
// send never reads live selection state. *session.Session satisfies it.
type Sender interface {
	Send(ctx context.Context, chatID string, text string) (model.Message, error)
}

// Recorder persists interaction telemetry. *metrics.Store satisfies
// it. Recording is best-effort; a Recorder error never aborts a run.
type Recorder interface {
	RecordInteraction(in metrics.Interaction) error
	UpdateSendStatus(id string, status metrics.Status) error
}

// =============================================================================
// PIPELINE
// =============================================================================

// Result is the outcome of one pipeline run that reached the backend.
type Result struct {
	Interaction metrics.Interaction

	// Draft is the sanitized completion that was offered for sending.
	Draft string

	// Sent is the delivered message when SendErr is nil.
	Sent model.Message

	// SendErr is the delivery failure, if any. The interaction is
	// recorded either way.
	SendErr error

	// RecordErr reports a metrics write failure. Display-only.
	RecordErr error
}

// Pipeline runs AI draft commands end to end. Each Run is independent;
// only the last-interaction id is shared between runs.
type Pipeline struct {
	library      *prompts.Library
	completer    Completer
	sender       Sender
	recorder     Recorder
	defaultModel string

	mu     sync.Mutex
	lastID string
}

// New assembles a pipeline over its collaborators.
func New(library *prompts.Library, completer Completer, sender Sender, recorder Recorder, defaultModel string) *Pipeline {
	return &Pipeline{
		library:      library,
		completer:    completer,
		sender:       sender,
		recorder:     recorder,
		defaultModel: defaultModel,
	}
}

// LastInteractionID returns the id of the most recently completed run,
// used to correlate feedback. Overlapping runs race here and the last
// to complete wins.
func (p *Pipeline) LastInteractionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastID
}

func (p *Pipeline) setLastInteractionID(id string) {
	p.mu.Lock()
	p.lastID = id
	p.mu.Unlock()
}

// Run executes one draft command against the given chat history,
// delivering the result to chatID.
//
// Errors before the backend call (unknown template) and backend
// failures return a nil Result and no interaction is recorded. Once a
// completion arrives, the interaction is always recorded; a send
// failure is reported in Result.SendErr rather than aborting.
func (p *Pipeline) Run(ctx context.Context, cmd Command, chatID string, history []model.Message) (*Result, error) {
	chatContext := BuildContext(history)

	var prompt string
	if cmd.PromptSlug != "" {
		rendered, err := p.library.Render(cmd.PromptSlug, chatContext, cmd.Content)
		if err != nil {
			return nil, err
		}
		prompt = rendered
	} else {
		prompt = prompts.RenderFallback(chatContext, cmd.Content)
	}

	modelName := cmd.Model
	if modelName == "" {
		modelName = p.defaultModel
	}

	start := time.Now()
	resp, err := p.completer.Generate(ctx, modelName, prompt)
	if err != nil {
		return nil, &CompletionError{Cause: err}
	}
	elapsed := time.Since(start)

	result := &Result{
		Draft: Sanitize(resp.Response),
		Interaction: metrics.Interaction{
			ID:             uuid.NewString(),
			PromptSlug:     cmd.PromptSlug,
			Content:        cmd.Content,
			Context:        chatContext,
			Response:       resp.Response,
			Model:          modelName,
			ResponseTimeMs: elapsed.Milliseconds(),
			SentStatus:     metrics.StatusUnknown,
		},
	}

	if err := p.recorder.RecordInteraction(result.Interaction); err != nil {
		result.RecordErr = err
	}

	sent, sendErr := p.sender.Send(ctx, chatID, result.Draft)
	status := metrics.StatusSent
	if sendErr != nil {
		status = metrics.StatusFailed
		result.SendErr = sendErr
	} else {
		result.Sent = sent
	}

	result.Interaction.SentStatus = status
	if err := p.recorder.UpdateSendStatus(result.Interaction.ID, status); err != nil && result.RecordErr == nil {
		result.RecordErr = err
	}

	p.setLastInteractionID(result.Interaction.ID)
	return result, nil
}
