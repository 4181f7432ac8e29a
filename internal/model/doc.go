// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the core data types shared across chatdeck:
// chat references, messages, and ordering helpers.
//
// The types here are transport-agnostic. The chatsvc package produces
// them, the session package mediates them, and the UI renders them.
package model
