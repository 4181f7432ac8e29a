// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// COLOR PALETTE
// =============================================================================

var (
	ColorGreen       = lipgloss.Color("#00cc66")
	ColorGreenDim    = lipgloss.Color("#1a5c38")
	ColorGreenBright = lipgloss.Color("#7fff9f")
	ColorBlue        = lipgloss.Color("#4aa5ff")
	ColorYellow      = lipgloss.Color("#e0c254")
	ColorRed         = lipgloss.Color("#e05252")
	ColorGray        = lipgloss.Color("#8a8a8a")
	ColorGrayDim     = lipgloss.Color("#4a4a4a")
	ColorWhite       = lipgloss.Color("#e8e8e8")
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds all the styled components for the dashboard.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// CHROME
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	StatusBar   lipgloss.Style
	StatusError lipgloss.Style
	StatusInfo  lipgloss.Style

	// Mode indicator in the status line (NORMAL, INSERT, ...)
	ModeIndicator lipgloss.Style
	KeyHint       lipgloss.Style
	KeyHintDesc   lipgloss.Style

	// Command-line buffer echo (":help", "/term")
	CommandLine lipgloss.Style

	// ==========================================================================
	// CHAT LIST
	// ==========================================================================

	ChatList         lipgloss.Style
	ChatItem         lipgloss.Style
	ChatItemSelected lipgloss.Style
	ChatUnread       lipgloss.Style
	ChatMeta         lipgloss.Style

	// ==========================================================================
	// MESSAGE PANE
	// ==========================================================================

	MessagePane   lipgloss.Style
	MessageMine   lipgloss.Style
	MessageTheirs lipgloss.Style
	MessageSender lipgloss.Style
	MessageTime   lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// ==========================================================================
	// PROMPT LIBRARY VIEW
	// ==========================================================================

	PromptList         lipgloss.Style
	PromptItem         lipgloss.Style
	PromptItemSelected lipgloss.Style
	PromptIndex        lipgloss.Style
	PromptEditor       lipgloss.Style

	// ==========================================================================
	// MATRIX BACKGROUND
	// ==========================================================================

	MatrixDim    lipgloss.Style
	MatrixMid    lipgloss.Style
	MatrixBright lipgloss.Style
	Logo         lipgloss.Style
}

// NewTheme creates a theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.Header = lipgloss.NewStyle().
		Foreground(ColorWhite).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorGrayDim)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(ColorGreen).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().Foreground(ColorGray)
	t.StatusError = lipgloss.NewStyle().Foreground(ColorRed)
	t.StatusInfo = lipgloss.NewStyle().Foreground(ColorBlue)

	t.ModeIndicator = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#101010")).
		Background(ColorGreen).
		Padding(0, 1).
		Bold(true)
	t.KeyHint = lipgloss.NewStyle().Foreground(ColorYellow)
	t.KeyHintDesc = lipgloss.NewStyle().Foreground(ColorGray)

	t.CommandLine = lipgloss.NewStyle().Foreground(ColorWhite)

	t.ChatList = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(ColorGrayDim).
		PaddingRight(1)
	t.ChatItem = lipgloss.NewStyle().Foreground(ColorWhite)
	t.ChatItemSelected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#101010")).
		Background(ColorGreen).
		Bold(true)
	t.ChatUnread = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	t.ChatMeta = lipgloss.NewStyle().Foreground(ColorGrayDim)

	t.MessagePane = lipgloss.NewStyle().Padding(0, 1)
	t.MessageMine = lipgloss.NewStyle().Foreground(ColorGreen)
	t.MessageTheirs = lipgloss.NewStyle().Foreground(ColorWhite)
	t.MessageSender = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
	t.MessageTime = lipgloss.NewStyle().Foreground(ColorGrayDim)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(ColorGrayDim)
	t.InputPrompt = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)

	t.PromptList = lipgloss.NewStyle().Padding(0, 1)
	t.PromptItem = lipgloss.NewStyle().Foreground(ColorWhite)
	t.PromptItemSelected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#101010")).
		Background(ColorGreen).
		Bold(true)
	t.PromptIndex = lipgloss.NewStyle().Foreground(ColorYellow)
	t.PromptEditor = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorGreenDim).
		Padding(0, 1)

	t.MatrixDim = lipgloss.NewStyle().Foreground(ColorGreenDim)
	t.MatrixMid = lipgloss.NewStyle().Foreground(ColorGreen)
	t.MatrixBright = lipgloss.NewStyle().Foreground(ColorGreenBright).Bold(true)
	t.Logo = lipgloss.NewStyle().Foreground(ColorGreenBright).Bold(true)

	return t
}
