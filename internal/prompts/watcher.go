// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompts loads and renders the reusable prompt templates that
// drive the AI draft pipeline.
package prompts

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// DIRECTORY WATCHER
// =============================================================================

// Watcher reloads the library when template files change on disk.
// Events are debounced: editors fire several writes per save.
type Watcher struct {
	lib      *Library
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending bool

	ctx    context.Context
	cancel context.CancelFunc

	// onReload, if set, is called after each successful reload. The
	// dashboard uses it to refresh the PROMPT view.
	onReload func()
}

// NewWatcher creates a watcher over the library's directory.
func NewWatcher(lib *Library, debounce time.Duration, onReload func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		lib:      lib,
		watcher:  fsw,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		onReload: onReload,
	}, nil
}

// Watch starts watching. Non-blocking; event processing runs in its own
// goroutines until Close.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(w.lib.Dir()); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, templateExt) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = true
			w.mu.Unlock()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the library keeps its last
			// good state.
		}
	}
}

func (w *Watcher) processPending() {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.mu.Lock()
			dirty := w.pending
			w.pending = false
			w.mu.Unlock()

			if !dirty {
				continue
			}
			if err := w.lib.Reload(); err != nil {
				continue
			}
			if w.onReload != nil {
				w.onReload()
			}
		}
	}
}
