// Package ui hosts the chat widget on the Bubble Tea event loop. Key presses
// become chat intents, the chat engine computes the next state, and the
// effects it returns run as commands whose results re-enter as intents.
package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"aria-chat/internal/chat"
)

// Backend is the question-answering service.
type Backend interface {
	SubmitQuery(ctx context.Context, question string) chat.Answer
	SubmitFile(ctx context.Context, att chat.Attachment) error
}

// Clipboard receives copied message text.
type Clipboard interface {
	Copy(text string) error
}

// Exporter writes the conversation to disk.
type Exporter interface {
	Export(messages []chat.Message) (string, error)
}

// Options configure the widget presentation.
type Options struct {
	Compact     bool
	StartClosed bool
	Style       string

	// LoadAttachment reads the file named in the attach prompt.
	LoadAttachment func(path string) (chat.Attachment, error)
	// FindFiles suggests attachment paths for a partial name.
	FindFiles func(partial string) []string
}

type mode int

const (
	modeChat mode = iota
	modeBrowse
	modeAttach
)

const maxSuggestions = 5

type (
	attachmentLoadedMsg struct{ att chat.Attachment }
	attachmentFailedMsg struct{ err error }
	exportedMsg         struct {
		path string
		err  error
	}
)

// Model is the chat container.
type Model struct {
	ctx       context.Context
	engine    *chat.Engine
	state     chat.State
	backend   Backend
	clipboard Clipboard
	exporter  Exporter
	opts      Options

	// after delivers msg once d has elapsed. Tests replace it to skip the
	// reply pacing.
	after func(d time.Duration, msg tea.Msg) tea.Cmd

	mode        mode
	input       textinput.Model
	attachInput textinput.Model
	suggestions []string
	viewport    viewport.Model
	spinner     spinner.Model
	help        help.Model
	keys        keyMap
	renderer    *Renderer

	selected int   // message index in browse mode
	offsets  []int // first content line of each message
	unread   int
	status   string
	width    int
	height   int
}

// NewModel creates the widget with a welcome message already in the thread.
func NewModel(ctx context.Context, engine *chat.Engine, backend Backend, clipboard Clipboard, exporter Exporter, opts Options, width, height int) Model {
	in := textinput.New()
	in.Placeholder = "Ask me anything..."
	in.Prompt = "❯ "
	in.Focus()

	ai := textinput.New()
	ai.Placeholder = "path/to/file"
	ai.Prompt = "📎 "
	ai.CharLimit = 1024

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(cyan)))

	m := Model{
		ctx:         ctx,
		engine:      engine,
		state:       chat.NewState(!opts.StartClosed, opts.Compact, engine.Welcome(chat.WelcomeText)),
		backend:     backend,
		clipboard:   clipboard,
		exporter:    exporter,
		opts:        opts,
		after:       tick,
		input:       in,
		attachInput: ai,
		viewport:    viewport.New(width, height),
		spinner:     sp,
		help:        help.New(),
		keys:        newKeyMap(opts.Compact),
		renderer:    NewRenderer(opts.Style, width),
		width:       width,
		height:      height,
	}
	m.layout()
	m.refresh()
	return m
}

func tick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// State returns the current conversation state.
func (m Model) State() chat.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refresh()
		return m, nil

	case chat.Intent:
		cmd := m.dispatch(msg)
		return m, cmd

	case spinner.TickMsg:
		// stop ticking once nothing is pending
		if !m.state.Composing() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case attachmentLoadedMsg:
		m.status = fmt.Sprintf("Attached %s", msg.att.Name)
		cmd := m.dispatch(chat.Attach{Attachment: msg.att})
		return m, cmd

	case attachmentFailedMsg:
		m.status = msg.err.Error()
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			log.Printf("[ERROR] transcript export failed: %v", msg.err)
			m.status = "Export failed: " + msg.err.Error()
		} else {
			log.Printf("[INFO] transcript exported to %s", msg.path)
			m.status = "Transcript saved to " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if !m.state.Open {
			return m.updateClosed(msg)
		}
		switch m.mode {
		case modeBrowse:
			return m.updateBrowse(msg)
		case modeAttach:
			return m.updateAttach(msg)
		default:
			return m.updateChat(msg)
		}
	}

	// cursor blink and similar
	var cmd tea.Cmd
	if m.mode == modeAttach {
		m.attachInput, cmd = m.attachInput.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) updateClosed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Open) {
		m.mode = modeChat
		cmd := m.dispatch(chat.OpenWidget{})
		focus := m.input.Focus()
		return m, tea.Batch(cmd, focus)
	}
	return m, nil
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Send):
		cmd := m.dispatch(chat.Send{})
		return m, cmd

	case key.Matches(msg, m.keys.Quick):
		if len(msg.Runes) == 0 {
			return m, nil
		}
		i := int(msg.Runes[0] - '1')
		if i < 0 || i >= len(QuickReplies) {
			return m, nil
		}
		cmd := m.dispatch(chat.QuickReply{Text: QuickReplies[i]})
		return m, cmd

	case key.Matches(msg, m.keys.Attach):
		m.mode = modeAttach
		m.input.Blur()
		m.attachInput.SetValue("")
		m.suggestions = m.findFiles("")
		m.layout()
		m.refresh()
		cmd := m.attachInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Detach):
		cmd := m.dispatch(chat.Detach{})
		return m, cmd

	case key.Matches(msg, m.keys.Close):
		m.input.Blur()
		cmd := m.dispatch(chat.CloseWidget{})
		return m, cmd

	case key.Matches(msg, m.keys.Export):
		return m, m.export()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
		return m, nil

	case key.Matches(msg, m.keys.Browse):
		if len(m.state.Messages) == 0 {
			return m, nil
		}
		m.mode = modeBrowse
		m.selected = len(m.state.Messages) - 1
		m.input.Blur()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.state.Input {
		edit := m.dispatch(chat.EditInput{Text: v})
		return m, tea.Batch(cmd, edit)
	}
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	current := m.state.Messages[m.selected]

	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeChat
		m.refresh()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		m.refresh()

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.state.Messages)-1 {
			m.selected++
		}
		m.refresh()

	case key.Matches(msg, m.keys.Positive):
		if current.Sender == chat.SenderBot {
			cmd := m.dispatch(chat.GiveFeedback{ID: current.ID, Value: chat.FeedbackPositive})
			return m, cmd
		}

	case key.Matches(msg, m.keys.Negative):
		if current.Sender == chat.SenderBot {
			cmd := m.dispatch(chat.GiveFeedback{ID: current.ID, Value: chat.FeedbackNegative})
			return m, cmd
		}

	case key.Matches(msg, m.keys.Copy):
		if current.Sender == chat.SenderBot {
			cmd := m.dispatch(chat.CopyMessage{ID: current.ID})
			return m, cmd
		}

	case key.Matches(msg, m.keys.Close):
		m.mode = modeChat
		cmd := m.dispatch(chat.CloseWidget{})
		return m, cmd

	case key.Matches(msg, m.keys.Export):
		return m, m.export()
	}
	return m, nil
}

func (m Model) updateAttach(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.leaveAttach()

	case key.Matches(msg, m.keys.Complete):
		if len(m.suggestions) > 0 {
			m.attachInput.SetValue(m.suggestions[0])
			m.attachInput.CursorEnd()
			m.suggestions = m.findFiles(m.suggestions[0])
			m.layout()
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		path := strings.TrimSpace(m.attachInput.Value())
		next, cmd := m.leaveAttach()
		if path == "" {
			return next, cmd
		}
		return next, tea.Batch(cmd, m.loadAttachment(path))
	}

	var cmd tea.Cmd
	before := m.attachInput.Value()
	m.attachInput, cmd = m.attachInput.Update(msg)
	if v := m.attachInput.Value(); v != before {
		m.suggestions = m.findFiles(v)
		m.layout()
		m.refresh()
	}
	return m, cmd
}

func (m Model) leaveAttach() (Model, tea.Cmd) {
	m.mode = modeChat
	m.attachInput.Blur()
	m.suggestions = nil
	m.layout()
	m.refresh()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) findFiles(partial string) []string {
	if m.opts.FindFiles == nil {
		return nil
	}
	files := m.opts.FindFiles(partial)
	if len(files) > maxSuggestions {
		files = files[:maxSuggestions]
	}
	return files
}

func (m Model) loadAttachment(path string) tea.Cmd {
	load := m.opts.LoadAttachment
	if load == nil {
		return nil
	}
	return func() tea.Msg {
		att, err := load(path)
		if err != nil {
			log.Printf("[WARN] attachment rejected: %v", err)
			return attachmentFailedMsg{err: err}
		}
		return attachmentLoadedMsg{att: att}
	}
}

func (m Model) export() tea.Cmd {
	exporter := m.exporter
	if exporter == nil {
		return nil
	}
	// Message slices are never mutated in place, so sharing is safe.
	msgs := m.state.Messages
	return func() tea.Msg {
		path, err := exporter.Export(msgs)
		return exportedMsg{path: path, err: err}
	}
}

// dispatch feeds an intent to the engine and turns the resulting effects
// into commands.
func (m *Model) dispatch(in chat.Intent) tea.Cmd {
	wasComposing := m.state.Composing()
	before := len(m.state.Messages)

	next, effects := m.engine.Reduce(m.state, in)
	m.state = next

	switch {
	case !m.state.Open:
		m.unread += len(m.state.Messages) - before
	case m.unread > 0:
		m.unread = 0
	}

	if m.input.Value() != m.state.Input {
		m.input.SetValue(m.state.Input)
		m.input.CursorEnd()
	}
	if m.mode == modeBrowse && m.selected >= len(m.state.Messages) {
		m.selected = len(m.state.Messages) - 1
	}
	m.layout()
	m.refresh()

	cmds := make([]tea.Cmd, 0, len(effects)+1)
	for _, e := range effects {
		cmds = append(cmds, m.perform(e))
	}
	if !wasComposing && m.state.Composing() {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *Model) perform(e chat.Effect) tea.Cmd {
	ctx, backend, clipboard := m.ctx, m.backend, m.clipboard

	switch e := e.(type) {
	case chat.UploadFile:
		return func() tea.Msg {
			return chat.UploadCompleted{Text: e.Text, Err: backend.SubmitFile(ctx, e.Attachment)}
		}

	case chat.SubmitQuery:
		return func() tea.Msg {
			return chat.QueryCompleted{Answer: backend.SubmitQuery(ctx, e.Question)}
		}

	case chat.ScheduleReply:
		return m.after(e.Delay, chat.ReplyDue{Answer: e.Answer})

	case chat.CopyText:
		return func() tea.Msg {
			err := clipboard.Copy(e.Text)
			if err != nil {
				log.Printf("[WARN] failed to copy message %s: %v", e.ID, err)
			}
			return chat.CopyCompleted{ID: e.ID, Err: err}
		}

	case chat.ExpireCopyFlash:
		return m.after(e.Delay, chat.CopyFlashExpired{ID: e.ID})
	}
	return nil
}

// layout sizes the viewport to whatever the fixed rows leave over.
func (m *Model) layout() {
	m.renderer.SetWidth(m.width)
	m.input.Width = m.width - 4
	m.attachInput.Width = m.width - 4
	m.help.Width = m.width

	fixed := lipgloss.Height(Header(m.width, m.opts.Compact)) +
		lipgloss.Height(QuickRepliesView(m.width)) +
		1 + // attachment / status line
		1 + // input
		1 // help
	if m.mode == modeAttach {
		fixed += len(m.suggestions)
	}

	h := m.height - fixed
	if h < 3 {
		h = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

// refresh re-renders the thread into the viewport.
func (m *Model) refresh() {
	var b strings.Builder
	m.offsets = m.offsets[:0]
	line := 0

	for i, msg := range m.state.Messages {
		block := m.renderer.Bubble(msg, BubbleOptions{
			Selected: m.mode == modeBrowse && i == m.selected,
			Copied:   m.state.Copied == msg.ID,
		})
		m.offsets = append(m.offsets, line)
		b.WriteString(block)
		b.WriteString("\n\n")
		line += lipgloss.Height(block) + 1
	}
	if m.state.Composing() {
		b.WriteString(m.renderer.Typing(m.spinner.View()))
	}

	m.viewport.SetContent(b.String())

	if m.mode != modeBrowse {
		m.viewport.GotoBottom()
		return
	}
	if m.selected < len(m.offsets) {
		top := m.offsets[m.selected]
		if top < m.viewport.YOffset || top >= m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(top)
		}
	}
}

func (m Model) View() string {
	if !m.state.Open {
		return Launcher(m.width, m.height, m.unread)
	}

	var b strings.Builder
	b.WriteString(Header(m.width, m.opts.Compact))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(QuickRepliesView(m.width))
	b.WriteString("\n")
	b.WriteString(m.infoLine())
	b.WriteString("\n")

	switch m.mode {
	case modeAttach:
		b.WriteString(m.attachInput.View())
		for _, s := range m.suggestions {
			b.WriteString("\n")
			b.WriteString(suggestionStyle.Render(s))
		}
		b.WriteString("\n")
		b.WriteString(m.help.View(attachHelp{m.keys}))
	case modeBrowse:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.help.View(browseHelp{m.keys}))
	default:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.help.View(chatHelp{m.keys}))
	}

	return b.String()
}

func (m Model) infoLine() string {
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	att := m.state.Attachment
	if att == nil {
		return ""
	}
	line := fmt.Sprintf("📎 %s (%s)", att.Name, formatSize(len(att.Data)))
	if m.state.Uploading {
		line += " · uploading..."
	}
	return attachmentStyle.Render(line)
}

func formatSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
