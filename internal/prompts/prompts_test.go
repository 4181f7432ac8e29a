// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, slug, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, slug+".txt"), []byte(content), 0644))
}

// =============================================================================
// LOADING
// =============================================================================

func TestLoad_ReadsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "formal", "Please reply formally.\n{{CONTEXT}}\n{{CONTENT}}")
	writeTemplate(t, dir, "casual", "Keep it light.\n{{CONTENT}}")

	// Non-template files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0644))

	lib, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, lib.Len())
	assert.Equal(t, []string{"casual", "formal"}, lib.Slugs())
}

func TestLoad_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not-yet-there")

	lib, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, lib.Len())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// =============================================================================
// RENDERING
// =============================================================================

func TestRender_SubstitutesPlaceholders(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "formal", "Context below:\n{{CONTEXT}}\nTask: {{CONTENT}}")

	lib, err := Load(dir)
	require.NoError(t, err)

	out, err := lib.Render("formal", "Alice [12:00]\nhello", "remind him")
	require.NoError(t, err)

	assert.Contains(t, out, "Alice [12:00]\nhello")
	assert.Contains(t, out, "Task: remind him")
	assert.NotContains(t, out, "{{CONTEXT}}")
	assert.NotContains(t, out, "{{CONTENT}}")
}

func TestRender_UnknownSlugListsAvailable(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "formal", "{{CONTENT}}")

	lib, err := Load(dir)
	require.NoError(t, err)

	_, err = lib.Render("doesnotexist", "", "hi")
	require.Error(t, err)

	var notFound *TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "doesnotexist", notFound.Slug)
	assert.Contains(t, notFound.Available, "formal")
	assert.Contains(t, err.Error(), "formal")
}

func TestRenderFallback(t *testing.T) {
	out := RenderFallback("some context", "some content")

	assert.True(t, strings.HasPrefix(out, "Context:\n"))
	assert.Contains(t, out, "some context")
	assert.Contains(t, out, "Content:\nsome content")
}

// =============================================================================
// ORDERED ACCESS
// =============================================================================

func TestByIndex(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "b-second", "2")
	writeTemplate(t, dir, "a-first", "1")

	lib, err := Load(dir)
	require.NoError(t, err)

	first, ok := lib.ByIndex(1)
	require.True(t, ok)
	assert.Equal(t, "a-first", first.Slug)

	_, ok = lib.ByIndex(0)
	assert.False(t, ok)
	_, ok = lib.ByIndex(3)
	assert.False(t, ok)
}

// =============================================================================
// MUTATION
// =============================================================================

func TestSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	lib, err := Load(dir)
	require.NoError(t, err)

	require.NoError(t, lib.Save("draft", "New template {{CONTENT}}"))

	// Visible in memory and on disk.
	tpl, ok := lib.Get("draft")
	require.True(t, ok)
	assert.Contains(t, tpl.Content, "New template")

	data, err := os.ReadFile(filepath.Join(dir, "draft.txt"))
	require.NoError(t, err)
	assert.Equal(t, tpl.Content, string(data))

	require.NoError(t, lib.Delete("draft"))
	_, ok = lib.Get("draft")
	assert.False(t, ok)
	_, err = os.Stat(filepath.Join(dir, "draft.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestDelete_UnknownSlug(t *testing.T) {
	lib, err := Load(t.TempDir())
	require.NoError(t, err)

	err = lib.Delete("ghost")
	var notFound *TemplateNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// =============================================================================
// RELOAD
// =============================================================================

func TestReload_PicksUpExternalEdit(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "formal", "v1 {{CONTENT}}")

	lib, err := Load(dir)
	require.NoError(t, err)

	writeTemplate(t, dir, "formal", "v2 {{CONTENT}}")
	require.NoError(t, lib.Reload())

	tpl, ok := lib.Get("formal")
	require.True(t, ok)
	assert.Contains(t, tpl.Content, "v2")
}
