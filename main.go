// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chatdeck is a modal terminal dashboard for chatting with AI-drafted
// replies from a local ollama backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/chatdeck/internal/chatsvc"
	"github.com/jeranaias/chatdeck/internal/config"
	"github.com/jeranaias/chatdeck/internal/draft"
	"github.com/jeranaias/chatdeck/internal/metrics"
	"github.com/jeranaias/chatdeck/internal/ollama"
	"github.com/jeranaias/chatdeck/internal/prompts"
	"github.com/jeranaias/chatdeck/internal/session"
	"github.com/jeranaias/chatdeck/internal/ui/dash"
	"github.com/jeranaias/chatdeck/internal/ui/styles"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "chatdeck:", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("chatdeck needs an interactive terminal")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	theme := styles.NewTheme()

	// Prompt template library, with the directory watcher picking up
	// external edits.
	promptsDir, err := cfg.PromptsDir()
	if err != nil {
		return err
	}
	library, err := prompts.Load(promptsDir)
	if err != nil {
		return err
	}

	// Interaction metrics are best-effort: a broken store downgrades to
	// a no-op recorder rather than blocking startup.
	var (
		recorder draft.Recorder = nopRecorder{}
		feedback dash.FeedbackRecorder
		reader   dash.MetricsReader
		store    *metrics.Store
	)
	if cfg.Metrics.Enabled {
		path, err := cfg.MetricsPath()
		if err != nil {
			return err
		}
		store, err = metrics.Open(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "chatdeck: metrics disabled:", err)
		} else {
			recorder = store
			feedback = store
			reader = store
			defer store.Close()
		}
	}

	backend := ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:      cfg.Backend.URL,
		Timeout:      cfg.BackendTimeout(),
		DefaultModel: cfg.Backend.Model,
	})

	// The transport fires lifecycle callbacks from its own goroutines;
	// forward them into the update loop once the program exists.
	var program *tea.Program
	send := func(msg tea.Msg) {
		if program != nil {
			program.Send(msg)
		}
	}
	svc := chatsvc.NewLocalService(chatsvc.Events{
		OnQRChallenge:   func(data string) { send(dash.QRChallenge(data)) },
		OnAuthenticated: func() { send(dash.Authenticated()) },
		OnReady:         func() { send(dash.Ready()) },
		OnDisconnected:  func(reason string) { send(dash.Disconnected(reason)) },
	})

	sess := session.New(svc)
	pipeline := draft.New(library, backend, sess, recorder, cfg.Backend.Model)

	dashboard := dash.New(dash.Options{
		Theme:            theme,
		Session:          sess,
		Pipeline:         pipeline,
		Library:          library,
		Backend:          backend,
		Feedback:         feedback,
		Metrics:          reader,
		RecentCount:      cfg.Metrics.RecentCount,
		MessageLimit:     cfg.UI.MessageLimit,
		AnimationTick:    cfg.AnimationTick(),
		AnimationEnabled: cfg.UI.AnimationEnabled,
		AutoStartBackend: cfg.Backend.AutoStart,
	})

	program = tea.NewProgram(dashboard, tea.WithAltScreen())

	watcher, err := prompts.NewWatcher(library, cfg.WatchDebounce(), func() {
		send(dash.PromptsReloaded())
	})
	if err == nil {
		if werr := watcher.Watch(); werr == nil {
			defer watcher.Close()
		}
	}

	// SIGINT lands on bubbletea's own ctrl+c path while the program
	// runs; SIGTERM quits it cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		return err
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sess.Close(closeCtx); err != nil {
		fmt.Fprintln(os.Stderr, "chatdeck:", err)
	}
	return nil
}

// nopRecorder swallows interaction telemetry when metrics are off.
type nopRecorder struct{}

func (nopRecorder) RecordInteraction(metrics.Interaction) error   { return nil }
func (nopRecorder) UpdateSendStatus(string, metrics.Status) error { return nil }
