// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package draft

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// SANITIZATION
// =============================================================================

// The backend sometimes echoes control syntax back: markup tags,
// markdown emphasis, or a leading slash/colon command fragment. Any of
// these would be misinterpreted downstream, so they are stripped before
// the draft is eligible to send.

var markupTagRe = regexp.MustCompile(`<[^<>]*>`)

// Sanitize cleans a raw completion into a sendable draft. It runs to a
// fixed point, so applying it twice yields the same result as once.
func Sanitize(raw string) string {
	s := norm.NFC.String(raw)

	for i := 0; i < 8; i++ {
		next := sanitizePass(s)
		if next == s {
			break
		}
		s = next
	}

	return s
}

func sanitizePass(s string) string {
	s = markupTagRe.ReplaceAllString(s, "")
	s = stripEmphasis(s)
	s = stripLeadingCommand(s)
	return strings.TrimSpace(s)
}

// stripEmphasis removes markdown emphasis markers. Single underscores
// survive: they are common inside usernames and identifiers.
func stripEmphasis(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "~~", "")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}

// stripLeadingCommand drops a leading /command or :command token, the
// shape the input multiplexer would otherwise try to dispatch.
func stripLeadingCommand(s string) string {
	trimmed := strings.TrimLeft(s, " \t\r\n")
	if !strings.HasPrefix(trimmed, "/") && !strings.HasPrefix(trimmed, ":") {
		return s
	}

	if idx := strings.IndexAny(trimmed, " \t\r\n"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return ""
}
