// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatsvc defines the boundary to the external chat transport.
//
// chatdeck does not speak any messaging protocol itself. Everything it
// needs from the transport is captured by the Service interface: list
// chats, fetch messages, send a message, and tear down. Transport
// lifecycle notifications (pairing challenge, authentication, readiness,
// disconnect) arrive through the Events callbacks.
//
// Failures cross this boundary as *TransportError so callers can treat
// transport trouble uniformly: display a notice and carry on.
package chatsvc
