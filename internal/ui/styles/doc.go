// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chatdeck
// TUI.
//
// A Theme bundles every lipgloss style the dashboard renders with,
// adjusted to the terminal's detected color capability. Views never
// construct ad hoc styles; they take them from the Theme so the whole
// surface stays consistent.
package styles
