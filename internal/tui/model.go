package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/planassist/internal/chat"
	"github.com/diogo/planassist/internal/models"
)

const (
	appTitle         = "✦ Insurance Plan Assistant"
	emptyStateText   = "Ask me anything about the insurance plans!"
	inputPlaceholder = "Type your message..."
	sendingText      = "Sending"

	noticeDuration = 3 * time.Second
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// chatResultMsg carries the outcome of a chat call back into Update
	chatResultMsg struct {
		resp *models.ChatResponse
		err  error
	}
	// clearNoticeMsg hides the transient status line if it is still current
	clearNoticeMsg struct {
		seq int
	}
)

// ChatOptions configures the chat TUI.
type ChatOptions struct {
	// APIHost is shown in the header.
	APIHost string
	// Bubble controls message rendering; Width is overridden by the terminal size.
	Bubble BubbleOptions
	// CopyToClipboard overrides the clipboard writer used by /copy.
	CopyToClipboard func(string) error
}

// Model represents the TUI state
type Model struct {
	ctx        context.Context
	controller *chat.Controller
	opts       ChatOptions
	copyFn     func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	ready          bool
	animationFrame int
	rendered       int // number of messages in the viewport content

	// Transient status line
	notice      string
	noticeIsErr bool
	noticeSeq   int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model around a conversation controller
func NewChatModel(ctx context.Context, controller *chat.Controller, opts ChatOptions) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()
	// Enter submits; alt+enter inserts a line break
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	copyFn := opts.CopyToClipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	return Model{
		ctx:        ctx,
		controller: controller,
		opts:       opts,
		copyFn:     copyFn,
		textarea:   ta,
		spinner:    s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*120, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border
		inputHeight := 6  // Input panel with border
		statusHeight := 2 // Notice line + status bar
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4
		if contentWidth < 20 {
			contentWidth = 20
		}

		if !m.ready {
			m.viewport = viewport.New(contentWidth-2, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth - 2
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "enter":
			return m.handleEnter()
		}

	case chatResultMsg:
		m.controller.Complete(msg.resp, msg.err)
		m.updateViewport()
		m.viewport.GotoBottom()
		m.textarea.Focus()

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeIsErr = false
		}

	case spinner.TickMsg:
		if m.controller.Pending() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.controller.Pending() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only keys reach the textarea, and not while a request is pending
	if !m.controller.Pending() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleEnter interprets the current input: exit words, slash commands,
// or a chat submission.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())

	switch input {
	case "exit", "quit", "/exit", "/quit":
		return m, tea.Quit
	case "/copy":
		m.textarea.Reset()
		return m, m.copyLastReply()
	}

	prompt, ok := m.controller.Begin(input)
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.textarea.Blur()
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.sendMessage(prompt),
		m.spinner.Tick,
		animationTick(),
	)
}

// copyLastReply copies the latest assistant reply and shows the outcome
// on the status line.
func (m *Model) copyLastReply() tea.Cmd {
	last, ok := m.controller.LastAssistant()
	if !ok {
		return m.setNotice("Nothing to copy yet", true)
	}
	if err := m.copyFn(last.Text); err != nil {
		return m.setNotice(fmt.Sprintf("Copy failed: %v", err), true)
	}
	return m.setNotice("Copied last reply to clipboard", false)
}

func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	m.noticeIsErr = isErr
	seq := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

// sendMessage creates a command that performs the chat call off the UI goroutine
func (m Model) sendMessage(prompt string) tea.Cmd {
	ctx := m.ctx
	controller := m.controller
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = chatResultMsg{err: fmt.Errorf("chat: panic during request: %v", r)}
			}
		}()
		resp, err := controller.Send(ctx, prompt)
		return chatResultMsg{resp: resp, err: err}
	}
}

func (m Model) bubbleOptions() BubbleOptions {
	opts := m.opts.Bubble
	opts.Width = m.viewport.Width
	return opts
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	msgs := m.controller.Messages()
	m.rendered = len(msgs)
	m.viewport.SetContent(RenderConversation(msgs, m.bubbleOptions()))
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.viewport.Width + 2

	// Header
	headerParts := []string{titleStyle.Render(appTitle)}
	if m.opts.APIHost != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(m.opts.APIHost),
		)
	}
	header := headerStyle.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, headerParts...),
	)
	sections = append(sections, header)

	// Messages
	var messagesContent string
	if m.rendered == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	// Input
	var inputContent string
	if m.controller.Pending() {
		inputContent = m.renderSendingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	// Notice and status bar
	if m.notice != "" {
		style := noticeStyle
		if m.noticeIsErr {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.notice))
	}
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the empty conversation placeholder
func (m Model) renderWelcome() string {
	width := m.viewport.Width
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render(emptyStateText),
		"",
		welcomeStyle.Width(width).Render("Replies may cite the plan documents they come from"),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderSendingAnimation renders the pending indicator shown in place of the input
func (m Model) renderSendingAnimation() string {
	frame := m.animationFrame

	dots := ""
	numDots := frame % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots += lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render(".")
		} else {
			dots += " "
		}
	}

	text := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(sendingText)

	return fmt.Sprintf("%s %s%s", m.spinner.View(), text, dots)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"/copy", "Copy"},
		{"Ctrl+C", "Quit"},
		{"↑↓", "Scroll"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(ctx context.Context, controller *chat.Controller, opts ChatOptions) error {
	m := NewChatModel(ctx, controller, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
