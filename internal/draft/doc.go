// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package draft orchestrates an AI-assisted message draft from command
// line to delivered chat message.
//
// A run moves through fixed stages: parse the /p command, assemble
// context from recent chat history, render the prompt template, call
// the completion backend, sanitize the raw completion, send it, and
// record the interaction. The completion call is the only suspension
// point; everything else is synchronous.
//
// Runs are independent. Two overlapping /p commands execute as two
// pipelines with no shared lock; they race only on the last-interaction
// id used for feedback correlation, where the last to complete wins.
package draft
