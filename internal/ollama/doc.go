// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for the local generative-text
// backend.
//
// chatdeck drives the backend through a single non-streaming endpoint:
// POST /api/generate with {model, prompt, stream:false}, returning one
// response object whose "response" field carries the completion text.
// The client also exposes a health check, model listing, and a
// best-effort attempt to start the backend if it is not running.
//
// Errors are typed (*ClientError) and categorized so the draft pipeline
// can turn them into user-facing notices without string matching.
package ollama
