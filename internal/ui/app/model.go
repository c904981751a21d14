// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/chatterm/internal/chat"
	"github.com/jeranaias/chatterm/internal/model"
	"github.com/jeranaias/chatterm/internal/ui/components"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// toastDuration is how long transient notices stay visible.
const toastDuration = 2 * time.Second

// Options configures the chat screen.
type Options struct {
	// Target is the backend URL shown in the header.
	Target string
	// Greeting is shown on the welcome screen.
	Greeting string
	// AskName shows the onboarding page first.
	AskName bool
	// Theme is the initial palette.
	Theme styles.Mode
	// ShowIntent tags assistant replies with their intent.
	ShowIntent bool
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx       context.Context
	ctrl      *chat.Controller
	confirmer chat.Confirmer
	opts      Options
	keys      KeyMap

	theme    *styles.Theme
	header   *components.Header
	renderer *components.MessageRenderer
	viewport viewport.Model
	input    components.Input
	typing   components.Typing
	namePage components.NamePage

	// confirm is non-nil while the dialog is open.
	confirm      *components.Confirm
	confirmReply chan<- bool

	snap       chat.Snapshot
	userName   string
	onboarding bool
	spinning   bool
	feedback   map[string]components.Feedback

	toast   string
	toastID int

	width  int
	height int
	ready  bool

	// copyText writes to the system clipboard.
	copyText func(string) error
}

// New creates the model. ctx bounds every request the screen starts.
func New(ctx context.Context, ctrl *chat.Controller, confirmer chat.Confirmer, opts Options) Model {
	theme := styles.NewTheme(opts.Theme)
	if opts.Greeting == "" {
		opts.Greeting = chat.DefaultGreeting
	}

	header := components.NewHeader(theme)
	header.SetTarget(opts.Target)

	renderer := components.NewMessageRenderer(theme, 80)
	renderer.ShowIntent = opts.ShowIntent

	m := Model{
		ctx:        ctx,
		ctrl:       ctrl,
		confirmer:  confirmer,
		opts:       opts,
		keys:       DefaultKeyMap(),
		theme:      theme,
		header:     header,
		renderer:   renderer,
		viewport:   viewport.New(80, 10),
		input:      components.NewInput(theme, chat.MaxMessageLength),
		typing:     components.NewTyping(theme),
		namePage:   components.NewNamePage(theme),
		onboarding: opts.AskName,
		feedback:   make(map[string]components.Feedback),
		copyText:   clipboard.WriteAll,
	}
	m.snap = ctrl.Snapshot()
	m.header.SetSession(m.snap.SessionID)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.onboarding {
		return m.namePage.Init()
	}
	return nil
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case StateChangedMsg:
		return m, m.refresh()

	case sendDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, chat.ErrBusy) && !chat.IsValidationError(msg.err) {
			log.Error().Err(msg.err).Msg("send failed")
		}
		return m, m.refresh()

	case clearDoneMsg:
		cmd := m.refresh()
		switch {
		case msg.err != nil && msg.cleared:
			return m, tea.Batch(cmd, m.showToast("Cleared, but the saved session could not be removed"))
		case msg.err != nil:
			log.Warn().Err(msg.err).Msg("clear aborted")
			return m, cmd
		case msg.cleared:
			m.feedback = make(map[string]components.Feedback)
			return m, tea.Batch(cmd, m.showToast("Conversation cleared"))
		}
		return m, cmd

	case confirmRequestMsg:
		c := components.NewConfirm(m.theme, msg.prompt)
		m.confirm = &c
		m.confirmReply = msg.reply
		return m, nil

	case components.ConfirmResultMsg:
		if m.confirmReply != nil {
			m.confirmReply <- msg.OK
		}
		m.confirm, m.confirmReply = nil, nil
		return m, nil

	case components.NameSubmittedMsg:
		m.userName = msg.Name
		m.onboarding = false
		m.refreshViewport()
		return m, nil

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case clipboardResultMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("clipboard write failed")
			return m, m.showToast("Copy failed")
		}
		return m, m.showToast("Copied!")

	case ConfigReloadedMsg:
		return m.applyConfig(msg)

	case spinner.TickMsg:
		if !m.snap.Pending {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.confirmReply != nil {
			m.confirmReply <- false
			m.confirm, m.confirmReply = nil, nil
		}
		return m, tea.Quit
	}

	if m.onboarding {
		var cmd tea.Cmd
		m.namePage, cmd = m.namePage.Update(msg)
		return m, cmd
	}

	if m.confirm != nil {
		c, cmd := m.confirm.Update(msg)
		m.confirm = &c
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Send):
		return m.send()

	case key.Matches(msg, m.keys.Clear):
		return m, m.clearCmd()

	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.DismissError()
		return m, m.refresh()

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyLastReply()

	case key.Matches(msg, m.keys.ThumbUp):
		m.toggleFeedback(components.FeedbackUp)
		return m, nil

	case key.Matches(msg, m.keys.ThumbDown):
		m.toggleFeedback(components.FeedbackDown)
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.setTheme(m.theme.Toggle())
		return m, nil

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

// send hands the input to the controller. Text the controller will reject
// stays in the box so it can be edited.
func (m Model) send() (tea.Model, tea.Cmd) {
	if m.snap.Pending {
		return m, nil
	}

	text := m.input.Value()
	n := m.input.CharCount()
	if n > 0 && n <= chat.MaxMessageLength {
		m.input.Reset()
	}

	ctrl, ctx := m.ctrl, m.ctx
	return m, func() tea.Msg {
		return sendDoneMsg{err: ctrl.Send(ctx, text)}
	}
}

func (m Model) clearCmd() tea.Cmd {
	ctrl, ctx, confirmer := m.ctrl, m.ctx, m.confirmer
	return func() tea.Msg {
		cleared, err := ctrl.Clear(ctx, confirmer)
		return clearDoneMsg{cleared: cleared, err: err}
	}
}

func (m Model) copyLastReply() tea.Cmd {
	last, ok := model.LastAssistant(m.snap.Messages)
	if !ok {
		return nil
	}
	write := m.copyText
	return func() tea.Msg {
		return clipboardResultMsg{err: write(last.Text)}
	}
}

func (m *Model) toggleFeedback(want components.Feedback) {
	last, ok := model.LastAssistant(m.snap.Messages)
	if !ok {
		return
	}
	if next := m.feedback[last.ID].Toggle(want); next == components.FeedbackNone {
		delete(m.feedback, last.ID)
	} else {
		m.feedback[last.ID] = next
	}
	m.refreshViewport()
}

// showToast displays text for toastDuration.
func (m *Model) showToast(text string) tea.Cmd {
	m.toastID++
	m.toast = text
	id := m.toastID
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m Model) applyConfig(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		log.Warn().Err(msg.Err).Msg("config reload failed")
		return m, m.showToast("Config reload failed")
	}
	mode, err := styles.ParseMode(msg.Config.UI.Theme)
	if err != nil || mode == m.opts.Theme {
		return m, nil
	}
	m.opts.Theme = mode
	m.setTheme(styles.NewTheme(mode))
	return m, m.showToast("Theme updated")
}

func (m *Model) setTheme(theme *styles.Theme) {
	theme.SetSize(m.width, m.height)
	m.theme = theme
	m.header.SetTheme(theme)
	m.renderer.SetTheme(theme)
	m.input.SetTheme(theme)
	m.typing.SetTheme(theme)
	m.namePage.SetTheme(theme)
	m.refreshViewport()
}

// refresh re-reads the controller and starts the spinner when a request
// has just become pending.
func (m *Model) refresh() tea.Cmd {
	m.snap = m.ctrl.Snapshot()
	m.header.SetSession(m.snap.SessionID)
	m.input.SetDisabled(m.snap.Pending)
	m.refreshViewport()

	if m.snap.Pending && !m.spinning {
		m.spinning = true
		return m.typing.Tick()
	}
	return nil
}
