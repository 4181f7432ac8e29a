// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

// =============================================================================
// ORDERING TESTS
// =============================================================================

func TestSortMessages_UnsortedInput(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	msgs := []Message{
		{ID: "c", Timestamp: base.Add(2 * time.Minute)},
		{ID: "a", Timestamp: base},
		{ID: "b", Timestamp: base.Add(time.Minute)},
	}

	SortMessages(msgs)

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if msgs[i].ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, msgs[i].ID)
		}
	}
}

func TestSortMessages_StableOnTies(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	msgs := []Message{
		{ID: "first", Timestamp: ts},
		{ID: "second", Timestamp: ts},
	}

	SortMessages(msgs)

	if msgs[0].ID != "first" || msgs[1].ID != "second" {
		t.Errorf("tie ordering not preserved: got %q, %q", msgs[0].ID, msgs[1].ID)
	}
}

func TestTailMessages(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	msgs := []Message{
		{ID: "d", Timestamp: base.Add(3 * time.Minute)},
		{ID: "a", Timestamp: base},
		{ID: "c", Timestamp: base.Add(2 * time.Minute)},
		{ID: "b", Timestamp: base.Add(time.Minute)},
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"limit smaller than input", 2, []string{"c", "d"}},
		{"limit equals input", 4, []string{"a", "b", "c", "d"}},
		{"limit larger than input", 10, []string{"a", "b", "c", "d"}},
		{"zero limit", 0, nil},
		{"negative limit", -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TailMessages(msgs, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d messages, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected %q, got %q", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestTailMessages_DoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	msgs := []Message{
		{ID: "b", Timestamp: base.Add(time.Minute)},
		{ID: "a", Timestamp: base},
	}

	TailMessages(msgs, 1)

	if msgs[0].ID != "b" {
		t.Error("TailMessages mutated its input")
	}
}

func TestChatRef_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		ref  ChatRef
		want string
	}{
		{"named chat", ChatRef{ID: "123@g.us", Name: "Family"}, "Family"},
		{"unnamed chat falls back to id", ChatRef{ID: "456@c.us"}, "456@c.us"},
		{"whitespace name falls back to id", ChatRef{ID: "789@c.us", Name: "   "}, "789@c.us"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.DisplayName(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
