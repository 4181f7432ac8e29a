// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompts loads and renders the reusable prompt templates that
// drive the AI draft pipeline.
//
// Templates are plain-text files in a configured directory. The slug is
// the filename without extension, so prompts/formal.txt is addressed as
// "formal". Each template may contain {{CONTEXT}} and {{CONTENT}}
// placeholders, substituted at render time.
//
// The library is loaded once at startup. An optional fsnotify watcher
// picks up edits to the directory so templates saved from PROMPT_EDIT
// mode (or an external editor) take effect without a restart.
package prompts
