// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompts loads and renders the reusable prompt templates that
// drive the AI draft pipeline.
package prompts

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// =============================================================================
// PLACEHOLDERS
// =============================================================================

const (
	// PlaceholderContext marks where assembled chat context is injected.
	PlaceholderContext = "{{CONTEXT}}"

	// PlaceholderContent marks where the user's instruction is injected.
	PlaceholderContent = "{{CONTENT}}"
)

// templateExt is the file extension templates are stored with.
const templateExt = ".txt"

// =============================================================================
// ERRORS
// =============================================================================

// TemplateNotFoundError is returned when a render names an unknown
// slug. It carries the known slugs so the UI can list them.
type TemplateNotFoundError struct {
	Slug      string
	Available []string
}

func (e *TemplateNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return "prompt template not found: " + e.Slug + " (no templates loaded)"
	}
	return "prompt template not found: " + e.Slug + " (available: " + strings.Join(e.Available, ", ") + ")"
}

// =============================================================================
// TEMPLATE
// =============================================================================

// Template is one loaded prompt template.
type Template struct {
	Slug    string
	Content string
}

// Render substitutes the context and content placeholders.
func (t Template) Render(context, content string) string {
	out := strings.ReplaceAll(t.Content, PlaceholderContext, context)
	out = strings.ReplaceAll(out, PlaceholderContent, content)
	return out
}

// =============================================================================
// LIBRARY
// =============================================================================

// Library holds the loaded templates, keyed by slug.
//
// Reads and reloads may race between the UI goroutine and the watcher
// goroutine, so access is guarded.
type Library struct {
	mu        sync.RWMutex
	dir       string
	templates map[string]Template
}

// Load reads every *.txt file in dir into a library. A missing
// directory is created empty rather than treated as fatal; the user may
// simply not have authored templates yet.
func Load(dir string) (*Library, error) {
	lib := &Library{
		dir:       dir,
		templates: make(map[string]Template),
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	if err := lib.Reload(); err != nil {
		return nil, err
	}
	return lib, nil
}

// Reload re-reads the directory, replacing the in-memory set.
func (l *Library) Reload() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return err
	}

	loaded := make(map[string]Template)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, templateExt) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(l.dir, name))
		if err != nil {
			continue // Skip unreadable files
		}

		slug := strings.TrimSuffix(name, templateExt)
		loaded[slug] = Template{Slug: slug, Content: string(data)}
	}

	l.mu.Lock()
	l.templates = loaded
	l.mu.Unlock()
	return nil
}

// Dir returns the directory templates are loaded from.
func (l *Library) Dir() string {
	return l.dir
}

// Get returns the template for slug.
func (l *Library) Get(slug string) (Template, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.templates[slug]
	return t, ok
}

// Slugs returns the known slugs, sorted.
func (l *Library) Slugs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	slugs := make([]string, 0, len(l.templates))
	for slug := range l.templates {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// List returns the templates ordered by slug. The PROMPT view indexes
// into this ordering for its numbered operators.
func (l *Library) List() []Template {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Template, 0, len(l.templates))
	for _, t := range l.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// ByIndex returns the n-th template (1-based) in slug order.
func (l *Library) ByIndex(n int) (Template, bool) {
	list := l.List()
	if n < 1 || n > len(list) {
		return Template{}, false
	}
	return list[n-1], true
}

// Len returns the number of loaded templates.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.templates)
}

// =============================================================================
// RENDERING
// =============================================================================

// Render renders the named template with the given context and content.
// An unknown slug yields *TemplateNotFoundError listing what is loaded.
func (l *Library) Render(slug, context, content string) (string, error) {
	t, ok := l.Get(slug)
	if !ok {
		return "", &TemplateNotFoundError{Slug: slug, Available: l.Slugs()}
	}
	return t.Render(context, content), nil
}

// RenderFallback builds the prompt used when no slug was given: a plain
// concatenation of context and content.
func RenderFallback(context, content string) string {
	var sb strings.Builder
	sb.WriteString("Context:\n")
	sb.WriteString(context)
	sb.WriteString("\nContent:\n")
	sb.WriteString(content)
	return sb.String()
}

// =============================================================================
// MUTATION
// =============================================================================

// Save writes a template to disk and installs it in the library. Used
// by the :w command in PROMPT_EDIT mode.
func (l *Library) Save(slug, content string) error {
	path := filepath.Join(l.dir, slug+templateExt)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return err
	}

	l.mu.Lock()
	l.templates[slug] = Template{Slug: slug, Content: content}
	l.mu.Unlock()
	return nil
}

// Delete removes a template from disk and from the library.
func (l *Library) Delete(slug string) error {
	l.mu.Lock()
	_, ok := l.templates[slug]
	delete(l.templates, slug)
	l.mu.Unlock()

	if !ok {
		return &TemplateNotFoundError{Slug: slug, Available: l.Slugs()}
	}
	return os.Remove(filepath.Join(l.dir, slug+templateExt))
}
