// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "markdown and markup",
			input: "**hi** <b>there</b>",
			want:  "hi there",
		},
		{
			name:  "plain text untouched",
			input: "See you at 5pm.",
			want:  "See you at 5pm.",
		},
		{
			name:  "leading slash command stripped",
			input: "/send Here is the message",
			want:  "Here is the message",
		},
		{
			name:  "leading colon command stripped",
			input: ":w Saved your draft",
			want:  "Saved your draft",
		},
		{
			name:  "bare command yields empty",
			input: "/quit",
			want:  "",
		},
		{
			name:  "backticks and tildes",
			input: "run `ls` and ~~not rm~~",
			want:  "run ls and not rm",
		},
		{
			name:  "single underscores survive",
			input: "ping user_name about it",
			want:  "ping user_name about it",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  \n  fine by me  \n",
			want:  "fine by me",
		},
		{
			name:  "nested control syntax",
			input: "/p **<i>ok</i>**",
			want:  "ok",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.input))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"**hi** <b>there</b>",
		"/send :w nested <b>*stuff*</b>",
		"plain",
		"",
		"___emphatic___ closing",
	}

	for _, input := range inputs {
		once := Sanitize(input)
		twice := Sanitize(once)
		assert.Equal(t, once, twice, "input %q", input)
	}
}
