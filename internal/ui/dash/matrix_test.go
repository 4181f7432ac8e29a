// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatdeck/internal/ui/styles"
)

func TestAnimationStartIsIdempotent(t *testing.T) {
	a := NewAnimation(40, 10, 1)
	a.Start()
	for i := 0; i < 5; i++ {
		a.Advance()
	}
	before := a.tick

	a.Start()
	assert.True(t, a.Active())
	assert.Equal(t, before, a.tick, "re-start must not reset a running animation")
}

func TestAnimationAdvanceInactiveIsNoOp(t *testing.T) {
	a := NewAnimation(40, 10, 1)
	require.False(t, a.Active())

	a.Advance()
	assert.Zero(t, a.tick)
}

func TestAnimationStopPreventsFurtherFrames(t *testing.T) {
	a := NewAnimation(40, 10, 1)
	a.Start()
	a.Advance()
	a.Stop()

	// A tick already in flight when Stop ran must not paint.
	a.Advance()
	assert.Zero(t, a.tick)
	assert.Empty(t, a.Render(styles.NewTheme()))
}

func TestAnimationRenderDimensions(t *testing.T) {
	a := NewAnimation(20, 6, 42)
	a.Start()
	for i := 0; i < 10; i++ {
		a.Advance()
	}

	out := a.Render(styles.NewTheme())
	require.NotEmpty(t, out)

	lines := 1
	for _, r := range out {
		if r == '\n' {
			lines++
		}
	}
	assert.Equal(t, 6, lines)
}

func TestAnimationResizeZeroIsSafe(t *testing.T) {
	a := NewAnimation(0, 0, 1)
	a.Start()
	a.Advance()
	assert.Empty(t, a.Render(styles.NewTheme()))
}
