// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatdeck/internal/draft"
	"github.com/jeranaias/chatdeck/internal/session"
)

// =============================================================================
// COMMAND CONSTRUCTORS
// =============================================================================

// Each suspension point is a tea.Cmd: the call runs in its own
// goroutine and its result re-enters the single update loop as a typed
// message.

// loadChatsCmd fetches the chat list without touching session state;
// handleChatsLoaded installs the result on the update goroutine.
func (d *Dashboard) loadChatsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		chats, err := d.session.FetchChats(ctx)
		return chatsLoadedMsg{chats: chats, err: err}
	}
}

// loadMessagesCmd issues a tagged load. The tag travels with the
// result so the handler can discard it if the selection moved on.
func (d *Dashboard) loadMessagesCmd(tag uint64, chatID string) tea.Cmd {
	limit := d.messageLimit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		msgs, err := d.session.FetchMessages(ctx, chatID, limit)
		return messagesLoadedMsg{tag: tag, chatID: chatID, msgs: msgs, err: err}
	}
}

// sendCmd delivers to the chat that was selected when the command was
// built; selection changes after that never reach the goroutine.
func (d *Dashboard) sendCmd(chatID string, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		msg, err := d.session.Send(ctx, chatID, text)
		return sentMsg{msg: msg, err: err}
	}
}

// refreshAfterSendCmd schedules a delayed reload so the transport has
// time to echo the sent message back.
func (d *Dashboard) refreshAfterSendCmd(tag uint64, chatID string) tea.Cmd {
	return tea.Tick(session.RefreshDelay, func(time.Time) tea.Msg {
		return refreshTickMsg{tag: tag, chatID: chatID}
	})
}

// runDraftCmd executes one AI draft pipeline instance. The target chat
// and history snapshot are captured here, on the update goroutine, so
// the pipeline never reads selection state. Runs issued while another
// is outstanding proceed independently; there is no global busy lock.
func (d *Dashboard) runDraftCmd(cmd draft.Command, chatID string) tea.Cmd {
	history := d.session.Messages()
	timeout := d.draftTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := d.pipeline.Run(ctx, cmd, chatID, history)
		return draftDoneMsg{result: result, err: err}
	}
}

// listModelsCmd fetches the backend's model catalog for :models.
func (d *Dashboard) listModelsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		models, err := d.backend.ListModels(ctx)
		return modelsListedMsg{models: models, err: err}
	}
}

func (d *Dashboard) animTickCmd() tea.Cmd {
	return tea.Tick(d.animTick, func(time.Time) tea.Msg {
		return animTickMsg{}
	})
}

// expireStatusCmd clears the status notice unless a newer one replaced
// it in the meantime (the id check happens in the handler).
func (d *Dashboard) expireStatusCmd(id int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return statusExpireMsg{id: id}
	})
}

func (d *Dashboard) checkBackendCmd() tea.Cmd {
	autoStart := d.autoStart
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if autoStart {
			return backendCheckedMsg{err: d.backend.EnsureRunning(ctx)}
		}
		return backendCheckedMsg{err: d.backend.CheckRunning(ctx)}
	}
}
