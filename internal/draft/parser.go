// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package draft

import (
	"strings"
	"unicode"
)

// =============================================================================
// COMMAND
// =============================================================================

// CommandName is the slash command that triggers the pipeline.
const CommandName = "/p"

// Command is a parsed /p invocation.
type Command struct {
	// Content is the user's instruction (-ct). Empty is allowed.
	Content string

	// PromptSlug names a template (-p). Empty means the fallback prompt.
	PromptSlug string

	// Model overrides the configured model (-m). Empty means default.
	Model string
}

// IsDraftCommand reports whether the input is a /p invocation.
func IsDraftCommand(input string) bool {
	trimmed := strings.TrimSpace(input)
	return trimmed == CommandName || strings.HasPrefix(trimmed, CommandName+" ")
}

// ParseCommand parses `/p [-ct "content"] [-p slug] [-m model]`.
// Quoted values may span spaces. Unknown flags are ignored along with
// their value. A flag at end of input with no value yields empty.
func ParseCommand(input string) (Command, bool) {
	if !IsDraftCommand(input) {
		return Command{}, false
	}

	tokens := splitCommandLine(strings.TrimSpace(input))
	// tokens[0] is the command name itself.
	var cmd Command
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "-") {
			continue
		}

		var value string
		if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") {
			value = tokens[i+1]
			i++
		}

		switch tok {
		case "-ct":
			cmd.Content = value
		case "-p":
			cmd.PromptSlug = value
		case "-m":
			cmd.Model = value
		default:
			// Unknown flag: skip it and its value.
		}
	}

	return cmd, true
}

// =============================================================================
// TOKENIZATION
// =============================================================================

// splitCommandLine splits a command line into tokens, respecting single
// and double quotes so values may contain spaces.
func splitCommandLine(input string) []string {
	var tokens []string
	var current strings.Builder
	var inSingleQuote, inDoubleQuote bool

	for i := 0; i < len(input); i++ {
		char := rune(input[i])

		switch {
		case char == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote

		case char == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote

		case char == '\\' && i+1 < len(input) && (inDoubleQuote || inSingleQuote):
			next := rune(input[i+1])
			if next == '"' || next == '\'' || next == '\\' {
				current.WriteRune(next)
				i++
			} else {
				current.WriteRune(char)
			}

		case unicode.IsSpace(char) && !inSingleQuote && !inDoubleQuote:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
