// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// =============================================================================
// LAYOUT
// =============================================================================

// chromeHeight is the rows reserved around the content surface: header,
// input line, status bar.
const chromeHeight = 3

// sidebarWidth is the chat list pane width on the idle surface.
const sidebarWidth = 32

// =============================================================================
// HELP TEXT
// =============================================================================

const helpText = `# chatdeck

A modal terminal dashboard for chatting with AI-drafted replies.

## Modes

| Mode        | Purpose                                   |
|-------------|-------------------------------------------|
| NORMAL      | Navigate the chat list                    |
| INSERT      | Compose a message                         |
| CHAT        | Read an open conversation                 |
| PROMPT      | Manage prompt templates                   |
| PROMPT-EDIT | Edit one template                         |

## Keys

- ` + "`j`/`k`" + ` move, ` + "`Enter`" + ` open chat, ` + "`Esc`" + ` back
- ` + "`i`" + ` compose, ` + "`Enter`" + ` send, ` + "`Esc`" + ` cancel
- ` + "`/term`" + ` filter the chat list
- ` + "`:p`" + ` open the template list; there ` + "`e<n>`" + `, ` + "`d<n>`" + `, ` + "`y<n>`" + ` edit, delete, or yank template n
- ` + "`ctrl+y`" + ` pastes the yanked template while composing; ` + "`p`" + ` pastes it in a blurred editor
- ` + "`+`/`-`" + ` rate the last AI draft, ` + "`:m`" + ` shows draft metrics
- ` + "`:models`" + ` lists the backend's installed models
- ` + "`:q`" + ` quit

## AI drafting

In INSERT mode, start the line with ` + "`/p`" + `:

    /p -ct "decline politely" -p formal -m llama3.2

` + "`-ct`" + ` is the instruction, ` + "`-p`" + ` picks a template,
` + "`-m`" + ` overrides the model. The last 10 visible messages are
offered to the model as context; the reply is sanitized and sent to
the open chat.

Press any key to close this screen.
`

// =============================================================================
// VIEW
// =============================================================================

// View renders the full frame: header, the mode-appropriate surface,
// the input line, and the status bar. Rendering is pure; all state
// changes happen in Update.
func (d *Dashboard) View() string {
	if d.quitting {
		return ""
	}
	if d.width == 0 || d.height == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(d.renderHeader())
	b.WriteByte('\n')
	b.WriteString(d.renderSurface())
	b.WriteByte('\n')
	b.WriteString(d.renderInputLine())
	b.WriteByte('\n')
	b.WriteString(d.renderStatusBar())
	return b.String()
}

func (d *Dashboard) renderHeader() string {
	title := d.theme.HeaderTitle.Render(" CHATDECK ")

	var context string
	if sel := d.session.Selected(); sel != nil {
		context = d.theme.ChatMeta.Render(" " + sel.DisplayName())
	}

	var backend string
	if m := d.backendModel(); m != "" {
		backend = d.theme.ChatMeta.Render(m + " ")
	}

	gap := d.width - lipgloss.Width(title) - lipgloss.Width(context) - lipgloss.Width(backend)
	if gap < 0 {
		gap = 0
	}
	return d.theme.Header.Width(d.width).Render(title + context + strings.Repeat(" ", gap) + backend)
}

// renderSurface picks the content for the current (mode, view) pair.
func (d *Dashboard) renderSurface() string {
	switch d.machine.View() {
	case ViewHelp:
		return d.renderHelp()
	case ViewChat:
		return d.viewport.View()
	case ViewPrompt:
		if d.machine.Mode() == ModePromptEdit {
			return d.renderEditor()
		}
		return d.renderPromptList()
	case ViewChatList:
		return d.renderChatList(d.width)
	default:
		return d.renderIdle()
	}
}

// renderIdle is the NORMAL-mode surface: the chat list beside the
// matrix rain. With the animation disabled the list takes the full
// width.
func (d *Dashboard) renderIdle() string {
	if !d.anim.Active() {
		return d.renderChatList(d.width)
	}

	list := d.renderChatList(sidebarWidth)
	rain := d.anim.Render(d.theme)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, rain)
}

func (d *Dashboard) renderChatList(width int) string {
	chats := d.visibleChats()
	surfaceHeight := d.surfaceHeight()

	var rows []string
	if d.filter != "" {
		rows = append(rows, d.theme.ChatMeta.Render("filter: "+d.filter))
	}
	if len(chats) == 0 {
		rows = append(rows, d.theme.ChatMeta.Render("no chats"))
	}

	for i, c := range chats {
		if len(rows) >= surfaceHeight {
			break
		}

		name := c.DisplayName()
		if c.UnreadCount > 0 {
			name = fmt.Sprintf("%s (%d)", name, c.UnreadCount)
		}

		style := d.theme.ChatItem
		prefix := "  "
		if i == d.chatCursor {
			style = d.theme.ChatItemSelected
			prefix = "> "
		}
		if c.UnreadCount > 0 {
			style = style.Inherit(d.theme.ChatUnread)
		}
		rows = append(rows, style.MaxWidth(width).Render(prefix+name))
	}

	body := strings.Join(rows, "\n")
	return d.theme.ChatList.Width(width).Height(surfaceHeight).Render(body)
}

// renderMessages builds the transcript the viewport scrolls over.
func (d *Dashboard) renderMessages() string {
	msgs := d.session.Messages()
	if len(msgs) == 0 {
		return d.theme.ChatMeta.Render("no messages yet")
	}

	var rows []string
	for _, m := range msgs {
		sender := m.Sender
		style := d.theme.MessageTheirs
		if m.FromMe {
			sender = "me"
			style = d.theme.MessageMine
		}

		meta := d.theme.MessageSender.Render(sender) +
			d.theme.MessageTime.Render(" "+m.Timestamp.Format("15:04"))
		rows = append(rows, meta+"\n"+style.Width(d.width-2).Render(m.Body))
	}
	return strings.Join(rows, "\n\n")
}

func (d *Dashboard) renderPromptList() string {
	templates := d.library.List()
	surfaceHeight := d.surfaceHeight()

	rows := []string{d.theme.ChatMeta.Render("prompt templates (" + d.library.Dir() + ")")}
	if len(templates) == 0 {
		rows = append(rows, d.theme.ChatMeta.Render("no templates; e<n> after adding .txt files"))
	}

	for i, t := range templates {
		if len(rows) >= surfaceHeight {
			break
		}

		style := d.theme.PromptItem
		if i == d.promptCursor {
			style = d.theme.PromptItemSelected
		}

		index := d.theme.PromptIndex.Render(fmt.Sprintf("%2d ", i+1))
		preview := firstLine(t.Content)
		rows = append(rows, index+style.Render(t.Slug)+d.theme.ChatMeta.Render("  "+preview))
	}

	body := strings.Join(rows, "\n")
	return d.theme.PromptList.Width(d.width).Height(surfaceHeight).Render(body)
}

func (d *Dashboard) renderEditor() string {
	title := d.theme.PromptItemSelected.Render("editing: " + d.editSlug)
	hint := d.theme.ChatMeta.Render("esc to leave the editor, then :w saves, esc discards")
	return title + "\n" + d.theme.PromptEditor.Render(d.editor.View()) + "\n" + hint
}

// renderHelp renders the help markdown through glamour, cached per
// width so resize re-renders.
func (d *Dashboard) renderHelp() string {
	if d.helpCache != "" && d.helpCacheWidth == d.width {
		return d.helpCache
	}

	wrap := d.width - 4
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpText
	}

	out, err := renderer.Render(helpText)
	if err != nil {
		return helpText
	}

	d.helpCache = out
	d.helpCacheWidth = d.width
	return out
}

// =============================================================================
// INPUT AND STATUS LINES
// =============================================================================

// renderInputLine shows the compose input in INSERT mode, or an armed
// capture's echo, or nothing.
func (d *Dashboard) renderInputLine() string {
	switch d.mux.Capture() {
	case CaptureCommand:
		return d.theme.CommandLine.Render(":" + d.mux.Buffer())
	case CaptureSearch:
		return d.theme.CommandLine.Render("/" + d.mux.Buffer())
	case CaptureNumber:
		return d.theme.CommandLine.Render(d.mux.Buffer() + "_")
	}

	if op := d.mux.Pending(); op != nil {
		return d.theme.CommandLine.Render(op.Kind.String() + " " + op.Digits + "_")
	}

	if d.machine.Mode() == ModeInsert {
		return d.theme.InputContainer.Width(d.width).Render(
			d.theme.InputPrompt.Render("> ") + d.input.View())
	}
	return ""
}

func (d *Dashboard) renderStatusBar() string {
	mode := d.theme.ModeIndicator.Render(" " + d.machine.Mode().String() + " ")

	var middle string
	switch {
	case d.status != "" && d.statusKind == statusError:
		middle = d.theme.StatusError.Render(" " + d.status)
	case d.status != "":
		middle = d.theme.StatusInfo.Render(" " + d.status)
	case d.draftBusy > 0:
		middle = d.theme.StatusInfo.Render(" drafting...")
	default:
		middle = " " + d.renderHints()
	}

	gap := d.width - lipgloss.Width(mode) - lipgloss.Width(middle)
	if gap < 0 {
		gap = 0
	}
	return d.theme.StatusBar.Width(d.width).Render(mode + middle + strings.Repeat(" ", gap))
}

func (d *Dashboard) renderHints() string {
	hints := d.machine.KeyHints()
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			d.theme.KeyHint.Render(h.Key)+d.theme.KeyHintDesc.Render(" "+h.Desc))
	}
	return strings.Join(parts, d.theme.KeyHintDesc.Render("  "))
}

// =============================================================================
// HELPERS
// =============================================================================

func (d *Dashboard) surfaceHeight() int {
	h := d.height - chromeHeight
	if h < 1 {
		h = 1
	}
	return h
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return runewidth.Truncate(s, 48, "...")
}
