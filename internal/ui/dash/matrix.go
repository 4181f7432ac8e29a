// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	"math/rand"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/chatdeck/internal/ui/styles"
)

// =============================================================================
// MATRIX BACKGROUND ANIMATION
// =============================================================================

// matrixGlyphs is the character ramp drips are drawn from.
const matrixGlyphs = "abcdefghijklmnopqrstuvwxyz0123456789$+*<>|="

// logoArt is the bouncing overlay.
var logoArt = []string{
	`  ___ _  _   _ _____ ___  ___ ___ _  __`,
	` / __| || | /_\_   _|   \| __/ __| |/ /`,
	`| (__| __ |/ _ \| | | |) | _| (__| ' < `,
	` \___|_||_/_/ \_\_| |___/|___\___|_|\_\`,
}

// drip is one falling column of glyphs.
type drip struct {
	col    int
	head   int
	length int
	speed  int
}

// Animation paints the idle matrix-rain surface with a bouncing logo.
//
// The tick loop is cooperative: Advance checks the active flag first
// and does nothing once Stop has run, so a stop issued mid-frame never
// results in one more paint.
type Animation struct {
	width  int
	height int

	active bool
	tick   int

	drips []drip
	rng   *rand.Rand

	logoX, logoY int
	logoDX       int
	logoDY       int
}

// NewAnimation creates an animation for the given surface size.
func NewAnimation(width, height int, seed int64) *Animation {
	a := &Animation{
		rng:    rand.New(rand.NewSource(seed)),
		logoDX: 1,
		logoDY: 1,
	}
	a.Resize(width, height)
	return a
}

// Resize adjusts to a new surface size, respawning drips to fit.
func (a *Animation) Resize(width, height int) {
	a.width = width
	a.height = height
	a.drips = a.drips[:0]

	if width <= 0 || height <= 0 {
		return
	}

	count := width / 3
	for i := 0; i < count; i++ {
		a.drips = append(a.drips, a.spawnDrip())
	}

	if a.logoX+a.logoWidth() > width {
		a.logoX = 0
	}
	if a.logoY+len(logoArt) > height {
		a.logoY = 0
	}
}

func (a *Animation) spawnDrip() drip {
	return drip{
		col:    a.rng.Intn(a.width),
		head:   -a.rng.Intn(a.height),
		length: 4 + a.rng.Intn(10),
		speed:  1 + a.rng.Intn(2),
	}
}

// Active reports whether the animation is running.
func (a *Animation) Active() bool { return a.active }

// Start begins ticking. Idempotent: starting a running animation is a
// no-op so re-entering the matrix view never resets the rain.
func (a *Animation) Start() {
	a.active = true
}

// Stop halts the animation and clears its state so the next Render
// paints an empty surface.
func (a *Animation) Stop() {
	a.active = false
	a.tick = 0
}

// Advance computes one frame. It aborts immediately when inactive.
func (a *Animation) Advance() {
	if !a.active {
		return
	}
	a.tick++

	for i := range a.drips {
		d := &a.drips[i]
		if a.tick%d.speed == 0 {
			d.head++
		}
		if d.head-d.length > a.height {
			a.drips[i] = a.spawnDrip()
			a.drips[i].head = 0
		}
	}

	// The logo moves slower than the rain.
	if a.tick%3 == 0 {
		a.bounceLogo()
	}
}

func (a *Animation) bounceLogo() {
	w := a.logoWidth()
	h := len(logoArt)
	if a.width <= w || a.height <= h {
		return
	}

	a.logoX += a.logoDX
	a.logoY += a.logoDY

	if a.logoX <= 0 {
		a.logoX = 0
		a.logoDX = 1
	} else if a.logoX+w >= a.width {
		a.logoX = a.width - w
		a.logoDX = -1
	}
	if a.logoY <= 0 {
		a.logoY = 0
		a.logoDY = 1
	} else if a.logoY+h >= a.height {
		a.logoY = a.height - h
		a.logoDY = -1
	}
}

func (a *Animation) logoWidth() int {
	w := 0
	for _, line := range logoArt {
		if lw := runewidth.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w
}

// Render paints the current frame. An inactive animation renders an
// empty surface.
func (a *Animation) Render(theme *styles.Theme) string {
	if !a.active || a.width <= 0 || a.height <= 0 {
		return ""
	}

	// Paint glyphs into a rune grid first, then style row by row.
	grid := make([][]byte, a.height)
	shade := make([][]byte, a.height) // 0 empty, 1 dim, 2 mid, 3 bright
	for y := range grid {
		grid[y] = make([]byte, a.width)
		shade[y] = make([]byte, a.width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	for _, d := range a.drips {
		for i := 0; i < d.length; i++ {
			y := d.head - i
			if y < 0 || y >= a.height || d.col >= a.width {
				continue
			}
			glyph := matrixGlyphs[(d.col*7+y*13+a.tick)%len(matrixGlyphs)]
			grid[y][d.col] = glyph
			switch {
			case i == 0:
				shade[y][d.col] = 3
			case i < d.length/3:
				shade[y][d.col] = 2
			default:
				shade[y][d.col] = 1
			}
		}
	}

	// Overlay the logo.
	for ly, line := range logoArt {
		y := a.logoY + ly
		if y < 0 || y >= a.height {
			continue
		}
		for lx, r := range line {
			x := a.logoX + lx
			if x < 0 || x >= a.width || r == ' ' {
				continue
			}
			grid[y][x] = byte(r)
			shade[y][x] = 3
		}
	}

	var sb strings.Builder
	for y := 0; y < a.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(renderRow(grid[y], shade[y], theme))
	}
	return sb.String()
}

// renderRow styles contiguous same-shade runs to keep escape sequences
// down.
func renderRow(row, shade []byte, theme *styles.Theme) string {
	var sb strings.Builder
	start := 0
	for start < len(row) {
		end := start
		for end < len(row) && shade[end] == shade[start] {
			end++
		}
		segment := string(row[start:end])
		switch shade[start] {
		case 1:
			sb.WriteString(theme.MatrixDim.Render(segment))
		case 2:
			sb.WriteString(theme.MatrixMid.Render(segment))
		case 3:
			sb.WriteString(theme.MatrixBright.Render(segment))
		default:
			sb.WriteString(segment)
		}
		start = end
	}
	return sb.String()
}
