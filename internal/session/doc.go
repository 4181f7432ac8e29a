// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session mediates all chat state between the UI and the
// transport: the selectable chat list, the current selection, and the
// displayed message window.
//
// Message loads are asynchronous and may resolve out of order. Every
// load carries a tag minted at selection time; results whose tag no
// longer matches the live selection are discarded, so the displayed
// list always corresponds to the most recently issued selection.
package session
