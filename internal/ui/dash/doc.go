// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dash implements the chatdeck dashboard: a modal terminal UI
// over chat sessions with an AI draft pipeline.
//
// Input interpretation is governed by two cooperating pieces. The
// Machine owns the current Mode and View and validates every mode
// transition against an explicit edge table; illegal transitions are
// silent no-ops so a stray keystroke can never crash the UI. The
// Multiplexer decides, per keystroke and in fixed priority order, who
// consumes it: an armed capture (command line, search, numeric
// operator argument, help dismiss) always wins, then INSERT-mode text
// entry, then the mode-specific binding table.
//
// Asynchronous work (chat loads, sends, completions) runs in tea.Cmd
// goroutines and returns as typed messages; the update loop checks
// each result's relevance before applying it, so a stale load can
// never overwrite a newer selection.
package dash
