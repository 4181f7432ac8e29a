// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dash

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatdeck/internal/draft"
	"github.com/jeranaias/chatdeck/internal/metrics"
	"github.com/jeranaias/chatdeck/internal/model"
	"github.com/jeranaias/chatdeck/internal/ollama"
	"github.com/jeranaias/chatdeck/internal/prompts"
	"github.com/jeranaias/chatdeck/internal/session"
	"github.com/jeranaias/chatdeck/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// FeedbackRecorder attaches user feedback to a recorded interaction
// and reads back what is already there, so a re-rate can say what it
// replaced. *metrics.Store satisfies it; nil disables the feedback
// keys.
type FeedbackRecorder interface {
	RecordFeedback(id string, positive bool, note string) error
	GetFeedback(id string) (*metrics.Feedback, error)
}

// MetricsReader serves the :m aggregate summary. *metrics.Store
// satisfies it; nil disables the command.
type MetricsReader interface {
	Metrics(recent int) (*metrics.Summary, error)
}

// Options wires the dashboard's collaborators. Everything is passed in
// explicitly; the dashboard holds no ambient globals.
type Options struct {
	Theme    *styles.Theme
	Session  *session.Session
	Pipeline *draft.Pipeline
	Library  *prompts.Library
	Backend  *ollama.Client
	Feedback FeedbackRecorder
	Metrics  MetricsReader

	// RecentCount is how many recent interactions :m summarizes.
	RecentCount int

	MessageLimit     int
	AnimationTick    time.Duration
	AnimationEnabled bool
	DraftTimeout     time.Duration

	// AutoStartBackend spawns the completion backend if the health
	// probe finds it down.
	AutoStartBackend bool
}

// =============================================================================
// DASHBOARD MODEL
// =============================================================================

type statusKind int

const (
	statusInfo statusKind = iota
	statusError
)

// Dashboard is the root bubbletea model.
type Dashboard struct {
	theme   *styles.Theme
	keys    KeyMap
	machine *Machine
	mux     *Multiplexer

	session  *session.Session
	pipeline *draft.Pipeline
	library  *prompts.Library
	backend  *ollama.Client
	feedback FeedbackRecorder
	metrics  MetricsReader

	recentCount int

	input    textinput.Model
	editor   textarea.Model
	viewport viewport.Model

	anim        *Animation
	animTick    time.Duration
	animEnabled bool

	width  int
	height int

	messageLimit int
	draftTimeout time.Duration
	autoStart    bool

	// Cursors
	chatCursor   int
	promptCursor int

	// Chat list filter from search capture.
	filter string

	// Template being edited in PROMPT-EDIT mode.
	editSlug string

	// Yank register for PROMPT-mode y<n>. Pasted with ctrl+y in the
	// compose input or p in a blurred template editor.
	yanked string

	// Transient status line. statusID invalidates stale expirations.
	status     string
	statusKind statusKind
	statusID   int

	draftBusy int // outstanding pipeline runs, for the status line
	quitting  bool

	// Rendered help markdown, cached per width.
	helpCache      string
	helpCacheWidth int
}

// New constructs the dashboard.
func New(opts Options) *Dashboard {
	input := textinput.New()
	input.Placeholder = "type a message, or /p -ct \"...\" -p slug"
	input.CharLimit = 2000

	editor := textarea.New()
	editor.Placeholder = "template body; {{CONTEXT}} and {{CONTENT}} are substituted"

	if opts.MessageLimit <= 0 {
		opts.MessageLimit = session.DefaultMessageLimit
	}
	if opts.AnimationTick <= 0 {
		opts.AnimationTick = 50 * time.Millisecond
	}
	if opts.DraftTimeout <= 0 {
		opts.DraftTimeout = 90 * time.Second
	}
	if opts.RecentCount <= 0 {
		opts.RecentCount = 10
	}

	return &Dashboard{
		theme:        opts.Theme,
		keys:         DefaultKeyMap(),
		machine:      NewMachine(),
		mux:          NewMultiplexer(),
		session:      opts.Session,
		pipeline:     opts.Pipeline,
		library:      opts.Library,
		backend:      opts.Backend,
		feedback:     opts.Feedback,
		metrics:      opts.Metrics,
		recentCount:  opts.RecentCount,
		input:        input,
		editor:       editor,
		viewport:     viewport.New(0, 0),
		anim:         NewAnimation(0, 0, time.Now().UnixNano()),
		animTick:     opts.AnimationTick,
		animEnabled:  opts.AnimationEnabled,
		messageLimit: opts.MessageLimit,
		draftTimeout: opts.DraftTimeout,
		autoStart:    opts.AutoStartBackend,
	}
}

// Init starts the backend probe, the chat load, and the idle
// animation.
func (d *Dashboard) Init() tea.Cmd {
	cmds := []tea.Cmd{d.checkBackendCmd(), d.loadChatsCmd()}
	if d.animEnabled {
		d.anim.Start()
		cmds = append(cmds, d.animTickCmd())
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update is the single event loop: every keystroke, timer tick, and
// async result runs to completion here before the next is processed.
// A panic in any handler is converted to a status notice so a stray
// keystroke can never take the terminal down.
func (d *Dashboard) Update(msg tea.Msg) (mdl tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			d.status = fmt.Sprintf("internal error: %v", r)
			d.statusKind = statusError
			d.statusID++
			mdl = d
			cmd = d.expireStatusCmd(d.statusID)
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return d, d.handleResize(msg)

	case tea.KeyMsg:
		return d.handleKey(msg)

	case chatsLoadedMsg:
		return d, d.handleChatsLoaded(msg)

	case messagesLoadedMsg:
		return d, d.handleMessagesLoaded(msg)

	case sentMsg:
		return d, d.handleSent(msg)

	case refreshTickMsg:
		// Still on the same selection?
		if msg.tag != d.session.LoadTag() {
			return d, nil
		}
		return d, d.loadMessagesCmd(msg.tag, msg.chatID)

	case draftDoneMsg:
		return d, d.handleDraftDone(msg)

	case modelsListedMsg:
		return d, d.handleModelsListed(msg)

	case promptsReloadedMsg:
		d.clampPromptCursor()
		return d, nil

	case animTickMsg:
		if !d.anim.Active() {
			return d, nil
		}
		d.anim.Advance()
		return d, d.animTickCmd()

	case statusExpireMsg:
		if msg.id == d.statusID {
			d.status = ""
		}
		return d, nil

	case backendCheckedMsg:
		if msg.err != nil {
			if ollama.IsNotRunning(msg.err) {
				return d, d.notifyError("ollama is not running; /p drafting is unavailable")
			}
			return d, d.notifyError("completion backend unavailable: " + msg.err.Error())
		}
		return d, nil

	case svcLifecycleMsg:
		return d, d.handleLifecycle(msg)
	}

	return d, nil
}

func (d *Dashboard) handleResize(msg tea.WindowSizeMsg) tea.Cmd {
	d.width = msg.Width
	d.height = msg.Height

	surfaceHeight := msg.Height - chromeHeight
	if surfaceHeight < 1 {
		surfaceHeight = 1
	}
	d.viewport.Width = msg.Width
	d.viewport.Height = surfaceHeight
	d.input.Width = msg.Width - 4
	d.editor.SetWidth(msg.Width - 4)
	d.editor.SetHeight(surfaceHeight - 2)
	d.anim.Resize(msg.Width, surfaceHeight)
	return nil
}

// =============================================================================
// KEYSTROKE ROUTING
// =============================================================================

func (d *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	// Emergency quit works from anywhere, captures included.
	if key.Matches(msg, d.keys.Quit) {
		return d.quit()
	}

	// Fixed dispatch priority: pending operator, then armed capture.
	res := d.mux.Feed(keyStr)
	switch res.Event {
	case EventConsumed:
		return d, nil

	case EventCommandCommit:
		return d.dispatchCommand(res.Text)

	case EventCommandCancel, EventSearchCancel:
		return d, nil

	case EventSearchCommit:
		d.filter = res.Text
		d.chatCursor = 0
		return d, nil

	case EventOperatorCommit:
		return d, d.applyOperator(res.Operator, res.Number)

	case EventOperatorCancel:
		return d, nil

	case EventNumberCommit:
		// Numeric jump in the chat list (1-based).
		if chats := d.visibleChats(); res.Number >= 1 && res.Number <= len(chats) {
			d.chatCursor = res.Number - 1
		}
		return d, nil

	case EventNumberCancel:
		return d, nil

	case EventHelpDismiss:
		d.machine.LeaveHelp()
		if d.machine.View() == ViewMatrix {
			return d, d.applyEffects([]Effect{EffectStartAnimation})
		}
		return d, nil
	}

	// Nothing armed: interpret by mode.
	switch d.machine.Mode() {
	case ModeInsert:
		return d.handleInsertKey(msg, keyStr)
	case ModePromptEdit:
		return d.handleEditKey(msg, keyStr)
	case ModeNormal:
		return d.handleNormalKey(msg, keyStr)
	case ModeChat:
		return d.handleChatKey(msg, keyStr)
	case ModePrompt:
		return d.handlePromptKey(msg, keyStr)
	case ModeHelp:
		// Reached only if the dismiss capture was disarmed; restore.
		d.machine.LeaveHelp()
		return d, nil
	}
	return d, nil
}

func (d *Dashboard) handleNormalKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch {
	case keyStr == ":":
		d.mux.Arm(CaptureCommand)
		return d, nil

	case key.Matches(msg, d.keys.Search):
		d.mux.Arm(CaptureSearch)
		return d, nil

	case key.Matches(msg, d.keys.Help):
		return d, d.enterHelp()

	case key.Matches(msg, d.keys.Up):
		d.moveChatCursor(-1)
		return d, nil

	case key.Matches(msg, d.keys.Down):
		d.moveChatCursor(1)
		return d, nil

	case key.Matches(msg, d.keys.Open):
		return d, d.openSelectedChat()

	case key.Matches(msg, d.keys.Compose):
		return d, d.transition(ModeInsert)

	case len(keyStr) == 1 && keyStr[0] >= '1' && keyStr[0] <= '9':
		// Start a numeric jump with the pressed digit already buffered.
		d.mux.Arm(CaptureNumber)
		d.mux.Feed(keyStr)
		return d, nil
	}
	return d, nil
}

func (d *Dashboard) handleChatKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch {
	case keyStr == ":":
		d.mux.Arm(CaptureCommand)
		return d, nil

	case key.Matches(msg, d.keys.Back):
		return d, d.transition(ModeNormal)

	case key.Matches(msg, d.keys.Compose):
		return d, d.transition(ModeInsert)

	case key.Matches(msg, d.keys.Help):
		return d, d.enterHelp()

	case key.Matches(msg, d.keys.Refresh):
		return d, d.refreshMessages()

	case key.Matches(msg, d.keys.Up):
		d.viewport.LineUp(1)
		return d, nil

	case key.Matches(msg, d.keys.Down):
		d.viewport.LineDown(1)
		return d, nil

	case keyStr == "+":
		return d, d.recordFeedback(true)

	case keyStr == "-":
		return d, d.recordFeedback(false)
	}
	return d, nil
}

func (d *Dashboard) handleInsertKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "esc":
		_, effects, _ := d.machine.CancelInsert()
		d.applyEffects(effects)
		return d, nil

	case "enter":
		return d, d.commitInput()

	case "ctrl+y":
		return d, d.pasteYanked()
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *Dashboard) handlePromptKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	switch {
	case keyStr == ":":
		d.mux.Arm(CaptureCommand)
		return d, nil

	case key.Matches(msg, d.keys.Back):
		return d, d.transition(ModeNormal)

	case key.Matches(msg, d.keys.Help):
		return d, d.enterHelp()

	case key.Matches(msg, d.keys.Up):
		d.movePromptCursor(-1)
		return d, nil

	case key.Matches(msg, d.keys.Down):
		d.movePromptCursor(1)
		return d, nil

	case key.Matches(msg, d.keys.OpEdit):
		d.mux.ArmOperator(OpEdit)
		return d, nil

	case key.Matches(msg, d.keys.OpDelete):
		d.mux.ArmOperator(OpDelete)
		return d, nil

	case key.Matches(msg, d.keys.OpYank):
		d.mux.ArmOperator(OpYank)
		return d, nil
	}
	return d, nil
}

// handleEditKey routes PROMPT-EDIT keys. While the editor is focused
// keys go to the textarea; esc blurs it so ":" commands (:w) can run;
// esc again discards back to the prompt list.
func (d *Dashboard) handleEditKey(msg tea.KeyMsg, keyStr string) (tea.Model, tea.Cmd) {
	if d.editor.Focused() {
		if keyStr == "esc" {
			d.editor.Blur()
			return d, nil
		}
		var cmd tea.Cmd
		d.editor, cmd = d.editor.Update(msg)
		return d, cmd
	}

	switch keyStr {
	case ":":
		d.mux.Arm(CaptureCommand)
		return d, nil
	case "i":
		return d, d.editor.Focus()
	case "p":
		if d.yanked == "" {
			return d, d.notifyError("yank register is empty")
		}
		d.editor.InsertString(d.yanked)
		return d, nil
	case "esc":
		return d, d.transition(ModePrompt)
	}
	return d, nil
}

// =============================================================================
// COMMAND DISPATCH
// =============================================================================

func (d *Dashboard) dispatchCommand(text string) (tea.Model, tea.Cmd) {
	if text == "" {
		return d, nil
	}

	fields := strings.Fields(text)
	switch fields[0] {
	case "help":
		return d, d.enterHelp()

	case "p", "prompts":
		return d, d.transition(ModePrompt)

	case "m", "metrics":
		return d, d.showMetrics()

	case "models":
		if d.backend == nil {
			return d, d.notifyError("no completion backend configured")
		}
		return d, d.listModelsCmd()

	case "w":
		if d.machine.Mode() != ModePromptEdit {
			return d, d.notifyError(":w is only valid while editing a template")
		}
		return d, d.saveTemplate()

	case "q":
		return d.quit()

	default:
		return d, d.notifyError("unrecognized command: " + fields[0])
	}
}

// =============================================================================
// ACTIONS
// =============================================================================

func (d *Dashboard) transition(target Mode) tea.Cmd {
	effects, ok := d.machine.Transition(target)
	if !ok {
		return nil
	}
	return d.applyEffects(effects)
}

func (d *Dashboard) enterHelp() tea.Cmd {
	if _, ok := d.machine.Transition(ModeHelp); !ok {
		return nil
	}
	d.anim.Stop()
	d.mux.Arm(CaptureHelpDismiss)
	return nil
}

// applyEffects performs the side effects a transition emitted. This is
// the only place focus and animation state change.
func (d *Dashboard) applyEffects(effects []Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e {
		case EffectFocusInput:
			cmds = append(cmds, d.input.Focus())
		case EffectBlurInput:
			d.input.Blur()
		case EffectClearInput:
			d.input.SetValue("")
		case EffectStartAnimation:
			if d.animEnabled && !d.anim.Active() {
				d.anim.Start()
				cmds = append(cmds, d.animTickCmd())
			}
		case EffectStopAnimation:
			d.anim.Stop()
		case EffectLoadMessages:
			// Issued by openSelectedChat, which knows the tag.
		case EffectClearSelection:
			d.session.ClearSelection()
		}
	}
	return tea.Batch(cmds...)
}

func (d *Dashboard) moveChatCursor(delta int) {
	chats := d.visibleChats()
	if len(chats) == 0 {
		d.chatCursor = 0
		return
	}
	d.chatCursor += delta
	if d.chatCursor < 0 {
		d.chatCursor = 0
	}
	if d.chatCursor >= len(chats) {
		d.chatCursor = len(chats) - 1
	}
}

func (d *Dashboard) movePromptCursor(delta int) {
	n := d.library.Len()
	if n == 0 {
		d.promptCursor = 0
		return
	}
	d.promptCursor += delta
	if d.promptCursor < 0 {
		d.promptCursor = 0
	}
	if d.promptCursor >= n {
		d.promptCursor = n - 1
	}
}

func (d *Dashboard) clampPromptCursor() {
	if n := d.library.Len(); d.promptCursor >= n && n > 0 {
		d.promptCursor = n - 1
	}
}

// visibleChats applies the search filter.
func (d *Dashboard) visibleChats() []model.ChatRef {
	chats := d.session.Chats()
	if d.filter == "" {
		return chats
	}

	needle := strings.ToLower(d.filter)
	var out []model.ChatRef
	for _, c := range chats {
		if strings.Contains(strings.ToLower(c.DisplayName()), needle) {
			out = append(out, c)
		}
	}
	return out
}

// openSelectedChat commits a manual selection and issues the tagged
// load.
func (d *Dashboard) openSelectedChat() tea.Cmd {
	chats := d.visibleChats()
	if d.chatCursor >= len(chats) {
		return nil
	}
	ref := chats[d.chatCursor]

	d.session.MarkManualSelection()
	tag, ok := d.session.SelectChat(ref)
	if !ok {
		return nil
	}

	transitionCmd := d.transition(ModeChat)
	return tea.Batch(transitionCmd, d.loadMessagesCmd(tag, ref.ID))
}

func (d *Dashboard) refreshMessages() tea.Cmd {
	selected := d.session.Selected()
	if selected == nil {
		return nil
	}
	if !d.session.AllowRefresh() {
		return nil
	}
	return d.loadMessagesCmd(d.session.LoadTag(), selected.ID)
}

// commitInput sends the composed text, or routes a /p command into the
// draft pipeline. An empty buffer sends nothing and stays in INSERT.
// The target chat id is resolved here, before any goroutine starts.
func (d *Dashboard) commitInput() tea.Cmd {
	text := strings.TrimSpace(d.input.Value())
	if text == "" {
		return nil
	}

	d.input.SetValue("")

	var chatID string
	if sel := d.session.Selected(); sel != nil {
		chatID = sel.ID
	}

	if draft.IsDraftCommand(text) {
		cmd, _ := draft.ParseCommand(text)
		d.draftBusy++
		return tea.Batch(
			d.notifyInfo("drafting..."),
			d.runDraftCmd(cmd, chatID),
		)
	}

	return d.sendCmd(chatID, text)
}

// pasteYanked appends the yank register to the compose input.
func (d *Dashboard) pasteYanked() tea.Cmd {
	if d.yanked == "" {
		return d.notifyError("yank register is empty")
	}
	d.input.SetValue(d.input.Value() + d.yanked)
	d.input.CursorEnd()
	return nil
}

func (d *Dashboard) applyOperator(op OperatorKind, n int) tea.Cmd {
	tpl, ok := d.library.ByIndex(n)
	if !ok {
		return d.notifyError("no such template")
	}

	switch op {
	case OpEdit:
		d.editSlug = tpl.Slug
		d.editor.SetValue(tpl.Content)
		transitionCmd := d.transition(ModePromptEdit)
		return tea.Batch(transitionCmd, d.editor.Focus())

	case OpDelete:
		if err := d.library.Delete(tpl.Slug); err != nil {
			return d.notifyError(err.Error())
		}
		d.clampPromptCursor()
		return d.notifyInfo("deleted " + tpl.Slug)

	case OpYank:
		d.yanked = tpl.Content
		return d.notifyInfo("yanked " + tpl.Slug + " (ctrl+y pastes while composing)")
	}
	return nil
}

func (d *Dashboard) saveTemplate() tea.Cmd {
	if d.editSlug == "" {
		return d.notifyError("no template selected")
	}
	if err := d.library.Save(d.editSlug, d.editor.Value()); err != nil {
		return d.notifyError("save failed: " + err.Error())
	}

	transitionCmd := d.transition(ModePrompt)
	return tea.Batch(transitionCmd, d.notifyInfo("saved "+d.editSlug))
}

func (d *Dashboard) recordFeedback(positive bool) tea.Cmd {
	if d.feedback == nil {
		return nil
	}
	id := d.pipeline.LastInteractionID()
	if id == "" {
		return d.notifyError("no draft to rate yet")
	}

	// Re-rating overwrites; say so when the sign flips.
	prior, _ := d.feedback.GetFeedback(id)

	if err := d.feedback.RecordFeedback(id, positive, ""); err != nil {
		return d.notifyError(err.Error())
	}

	notice := "feedback: -"
	if positive {
		notice = "feedback: +"
	}
	if prior != nil && prior.Positive != positive {
		notice += " (replaces earlier rating)"
	}
	return d.notifyInfo(notice)
}

// showMetrics surfaces the draft aggregates as a status notice.
func (d *Dashboard) showMetrics() tea.Cmd {
	if d.metrics == nil {
		return d.notifyError("metrics are disabled")
	}

	sum, err := d.metrics.Metrics(d.recentCount)
	if err != nil {
		return d.notifyError(err.Error())
	}
	return d.notifyInfo(fmt.Sprintf(
		"drafts: %d total, %d sent, %d failed, +%d/-%d, delivery %.0f%%",
		sum.TotalInteractions, sum.SentCount, sum.FailedCount,
		sum.PositiveFeedback, sum.NegativeFeedback, sum.DeliveryRate*100))
}

func (d *Dashboard) quit() (tea.Model, tea.Cmd) {
	d.quitting = true
	return d, tea.Quit
}

// =============================================================================
// ASYNC RESULT HANDLERS
// =============================================================================

func (d *Dashboard) handleChatsLoaded(msg chatsLoadedMsg) tea.Cmd {
	if msg.err != nil {
		// Keep the previous list; surface the failure.
		return d.notifyError(msg.err.Error())
	}

	d.session.ApplyChats(msg.chats)
	if d.chatCursor >= len(msg.chats) {
		d.chatCursor = 0
	}
	return nil
}

func (d *Dashboard) handleMessagesLoaded(msg messagesLoadedMsg) tea.Cmd {
	if msg.err != nil {
		// Keep whatever was displayed; surface the failure.
		return d.notifyError(msg.err.Error())
	}

	if !d.session.ApplyMessages(msg.tag, msg.chatID, msg.msgs) {
		// Stale load for an abandoned selection: drop silently.
		return nil
	}

	d.viewport.SetContent(d.renderMessages())
	d.viewport.GotoBottom()
	return nil
}

func (d *Dashboard) handleSent(msg sentMsg) tea.Cmd {
	if msg.err != nil {
		return d.notifyError(msg.err.Error())
	}

	selected := d.session.Selected()
	if selected == nil {
		return nil
	}
	if !d.session.AllowRefresh() {
		return nil
	}
	return d.refreshAfterSendCmd(d.session.LoadTag(), selected.ID)
}

func (d *Dashboard) handleDraftDone(msg draftDoneMsg) tea.Cmd {
	if d.draftBusy > 0 {
		d.draftBusy--
	}

	if msg.err != nil {
		switch {
		case ollama.IsModelNotFound(msg.err):
			return d.notifyError("model not found; check -m or the configured default")
		case ollama.IsTimeout(msg.err):
			return d.notifyError("draft timed out waiting for the backend")
		}
		return d.notifyError(msg.err.Error())
	}

	res := msg.result
	if res.SendErr != nil {
		return d.notifyError("draft not delivered: " + res.SendErr.Error())
	}

	var cmds []tea.Cmd
	cmds = append(cmds, d.notifyInfo("draft sent ("+res.Interaction.Model+")"))
	if res.RecordErr != nil {
		cmds = append(cmds, d.notifyError(res.RecordErr.Error()))
	}

	if selected := d.session.Selected(); selected != nil && d.session.AllowRefresh() {
		cmds = append(cmds, d.refreshAfterSendCmd(d.session.LoadTag(), selected.ID))
	}
	return tea.Batch(cmds...)
}

func (d *Dashboard) handleModelsListed(msg modelsListedMsg) tea.Cmd {
	if msg.err != nil {
		if ollama.IsNotRunning(msg.err) {
			return d.notifyError("ollama is not running; cannot list models")
		}
		return d.notifyError(msg.err.Error())
	}
	if len(msg.models) == 0 {
		return d.notifyInfo("no models installed; pull one with ollama")
	}

	names := make([]string, 0, len(msg.models))
	for _, m := range msg.models {
		names = append(names, m.Name)
	}
	return d.notifyInfo("models: " + strings.Join(names, ", "))
}

func (d *Dashboard) handleLifecycle(msg svcLifecycleMsg) tea.Cmd {
	switch msg.kind {
	case svcEventQRChallenge:
		return d.notifyInfo("scan the QR code in your chat app to pair")
	case svcEventAuthenticated:
		return d.notifyInfo("authenticated")
	case svcEventReady:
		return d.loadChatsCmd()
	case svcEventDisconnected:
		return d.notifyError("transport disconnected: " + msg.reason)
	}
	return nil
}

// =============================================================================
// STATUS LINE
// =============================================================================

func (d *Dashboard) notifyInfo(text string) tea.Cmd {
	d.status = text
	d.statusKind = statusInfo
	d.statusID++
	return d.expireStatusCmd(d.statusID)
}

func (d *Dashboard) notifyError(text string) tea.Cmd {
	d.status = text
	d.statusKind = statusError
	d.statusID++
	return d.expireStatusCmd(d.statusID)
}

// =============================================================================
// OLLAMA ACCESS (status display)
// =============================================================================

// backendModel names the model the next draft will use.
func (d *Dashboard) backendModel() string {
	if d.backend == nil {
		return ""
	}
	return d.backend.DefaultModel()
}

var _ tea.Model = (*Dashboard)(nil)
