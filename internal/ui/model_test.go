package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"aria-chat/internal/chat"
)

type fakeBackend struct {
	mu        sync.Mutex
	queries   []string
	uploads   []chat.Attachment
	answer    chat.Answer
	uploadErr error
}

func (f *fakeBackend) SubmitQuery(_ context.Context, q string) chat.Answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.answer
}

func (f *fakeBackend) SubmitFile(_ context.Context, att chat.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, att)
	return f.uploadErr
}

type fakeClipboard struct {
	mu     sync.Mutex
	copied []string
}

func (f *fakeClipboard) Copy(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copied = append(f.copied, text)
	return nil
}

type fakeExporter struct {
	mu       sync.Mutex
	exported [][]chat.Message
	path     string
	err      error
}

func (f *fakeExporter) Export(msgs []chat.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exported = append(f.exported, msgs)
	return f.path, f.err
}

type harness struct {
	backend   *fakeBackend
	clipboard *fakeClipboard
	exporter  *fakeExporter

	// holdTimers keeps delayed messages in pending instead of delivering
	// them right away.
	holdTimers bool
	delays     []time.Duration
	pending    []tea.Msg
}

func newTestModel(t *testing.T, opts Options) (Model, *harness) {
	t.Helper()
	h := &harness{
		backend: &fakeBackend{answer: chat.Answer{
			Text:    "You can track it from your account page.",
			Sources: []string{"orders.pdf", "faq.md"},
		}},
		clipboard: &fakeClipboard{},
		exporter:  &fakeExporter{path: "/tmp/aria-test.json"},
	}

	n := 0
	engine := &chat.Engine{
		Now: func() time.Time { return time.Date(2026, 3, 4, 14, 5, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("m%03d", n)
		},
		Pacer: chat.FixedPacer(1500 * time.Millisecond),
	}

	if opts.Style == "" {
		opts.Style = "notty"
	}
	m := NewModel(context.Background(), engine, h.backend, h.clipboard, h.exporter, opts, 80, 40)
	m.after = func(d time.Duration, msg tea.Msg) tea.Cmd {
		h.delays = append(h.delays, d)
		if h.holdTimers {
			h.pending = append(h.pending, msg)
			return nil
		}
		return func() tea.Msg { return msg }
	}
	return m, h
}

// collect runs cmd and any batched commands, giving up on ones that block
// (cursor blink, spinner ticks).
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// drain feeds the results of cmd back into the model until nothing is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := collect(cmd)
	for i := 0; len(queue) > 0; i++ {
		if i > 100 {
			t.Fatal("command loop did not settle")
		}
		msg := queue[0]
		queue = queue[1:]

		switch msg.(type) {
		case chat.Intent, attachmentLoadedMsg, attachmentFailedMsg, exportedMsg:
		default:
			continue
		}
		next, c := m.Update(msg)
		m = next.(Model)
		queue = append(queue, collect(c)...)
	}
	return m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	return press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestNewModelStartsWithWelcome(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	msgs := m.State().Messages
	if len(msgs) != 1 || msgs[0].Sender != chat.SenderBot || msgs[0].Text != chat.WelcomeText {
		t.Fatalf("unexpected initial thread %+v", msgs)
	}
	if !m.State().Open {
		t.Error("widget should start open")
	}
	view := m.View()
	for _, want := range []string{"ARIA Support", "Quick Neural Queries", QuickReplies[0]} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSendShowsUserMessageThenPacedReply(t *testing.T) {
	m, h := newTestModel(t, Options{})

	m = typeText(t, m, "Where is my order?")
	if m.State().Input != "Where is my order?" {
		t.Fatalf("input not mirrored: %q", m.State().Input)
	}
	m = press(t, m, enterKey)

	msgs := m.State().Messages
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[1].Sender != chat.SenderUser || msgs[1].Text != "Where is my order?" {
		t.Errorf("unexpected user message %+v", msgs[1])
	}
	if msgs[2].Sender != chat.SenderBot || msgs[2].Text != h.backend.answer.Text {
		t.Errorf("unexpected reply %+v", msgs[2])
	}
	if len(h.backend.queries) != 1 || h.backend.queries[0] != "Where is my order?" {
		t.Errorf("queries = %v", h.backend.queries)
	}
	if len(h.delays) != 1 || h.delays[0] != 1500*time.Millisecond {
		t.Errorf("reply delays = %v", h.delays)
	}
	if m.State().Composing() {
		t.Error("should not be composing after the reply")
	}
	if m.input.Value() != "" {
		t.Errorf("text box not cleared: %q", m.input.Value())
	}

	view := m.View()
	for _, want := range []string{"Knowledge Sources:", "orders.pdf", "faq.md"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTypingIndicatorWhileAwaiting(t *testing.T) {
	m, h := newTestModel(t, Options{})
	h.holdTimers = true

	m = typeText(t, m, "hello")
	m = press(t, m, enterKey)

	if !m.State().Composing() {
		t.Fatal("expected composing while the reply is held")
	}
	if !strings.Contains(m.View(), "processing neural patterns") {
		t.Error("typing indicator not shown")
	}

	m = drain(t, m, func() tea.Msg { return h.pending[0] })
	if m.State().Composing() {
		t.Error("still composing after the reply")
	}
	if strings.Contains(m.View(), "processing neural patterns") {
		t.Error("typing indicator still shown")
	}
}

func TestEnterOnBlankInputDoesNothing(t *testing.T) {
	m, h := newTestModel(t, Options{})

	m = typeText(t, m, "   ")
	m = press(t, m, enterKey)

	if len(m.State().Messages) != 1 || len(h.backend.queries) != 0 {
		t.Errorf("blank input should not be sent")
	}
}

func TestQuickReplyFillsInputWithoutSending(t *testing.T) {
	m, h := newTestModel(t, Options{})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}, Alt: true})

	if m.State().Input != QuickReplies[2] || m.input.Value() != QuickReplies[2] {
		t.Errorf("input = %q / %q", m.State().Input, m.input.Value())
	}
	if len(m.State().Messages) != 1 || len(h.backend.queries) != 0 {
		t.Error("quick reply must not send")
	}

	m = press(t, m, enterKey)
	if len(h.backend.queries) != 1 || h.backend.queries[0] != QuickReplies[2] {
		t.Errorf("queries = %v", h.backend.queries)
	}
}

func TestReplyArrivesAfterClose(t *testing.T) {
	m, h := newTestModel(t, Options{Compact: true})
	h.holdTimers = true

	m = typeText(t, m, "Is anyone there?")
	m = press(t, m, enterKey)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlW})

	if m.State().Open {
		t.Fatal("compact widget should close")
	}
	if len(h.pending) != 1 {
		t.Fatalf("expected one held reply, got %d", len(h.pending))
	}

	m = drain(t, m, func() tea.Msg { return h.pending[0] })

	if len(m.State().Messages) != 3 {
		t.Fatalf("reply not appended while closed: %d messages", len(m.State().Messages))
	}
	if !strings.Contains(m.View(), "1 new") {
		t.Errorf("launcher should show the unread reply:\n%s", m.View())
	}

	m = press(t, m, enterKey)
	if !m.State().Open {
		t.Fatal("enter should reopen")
	}
	if m.unread != 0 {
		t.Errorf("unread = %d after reopening", m.unread)
	}
}

func TestCloseOnlyInCompactMode(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlW})

	if !m.State().Open {
		t.Error("full-page widget must not close")
	}
}

func TestStartClosedShowsLauncher(t *testing.T) {
	m, _ := newTestModel(t, Options{Compact: true, StartClosed: true})

	if m.State().Open {
		t.Fatal("expected closed widget")
	}
	if !strings.Contains(m.View(), "press enter to chat") {
		t.Error("launcher not rendered")
	}

	m = press(t, m, runeKey('o'))
	if !m.State().Open {
		t.Error("o should open the widget")
	}
}

func attachOptions(load func(string) (chat.Attachment, error)) Options {
	return Options{
		LoadAttachment: load,
		FindFiles: func(partial string) []string {
			return []string{"notes.txt", "notes.md"}
		},
	}
}

func attachFile(t *testing.T, m Model, path string) Model {
	t.Helper()
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.mode != modeAttach {
		t.Fatal("ctrl+o should open the attach prompt")
	}
	m = typeText(t, m, path)
	return press(t, m, enterKey)
}

func TestAttachUploadsBeforeQuery(t *testing.T) {
	m, h := newTestModel(t, attachOptions(func(path string) (chat.Attachment, error) {
		return chat.Attachment{Name: path, Data: []byte("hello")}, nil
	}))

	m = attachFile(t, m, "notes.txt")
	if m.State().Attachment == nil || m.State().Attachment.Name != "notes.txt" {
		t.Fatalf("attachment not set: %+v", m.State().Attachment)
	}
	if !strings.Contains(m.View(), "Attached notes.txt") {
		t.Error("attach status not shown")
	}

	m = typeText(t, m, "Summarize this")
	if !strings.Contains(m.View(), "📎 notes.txt (5 B)") {
		t.Errorf("pending attachment not shown:\n%s", m.View())
	}
	m = press(t, m, enterKey)

	if len(h.backend.uploads) != 1 || string(h.backend.uploads[0].Data) != "hello" {
		t.Errorf("uploads = %+v", h.backend.uploads)
	}
	if len(h.backend.queries) != 1 || h.backend.queries[0] != "Summarize this" {
		t.Errorf("queries = %v", h.backend.queries)
	}
	if m.State().Attachment != nil {
		t.Error("attachment should be cleared after upload")
	}
	if len(m.State().Messages) != 3 {
		t.Errorf("expected user message and reply, got %d messages", len(m.State().Messages))
	}
}

func TestUploadFailureStopsSend(t *testing.T) {
	m, h := newTestModel(t, attachOptions(func(path string) (chat.Attachment, error) {
		return chat.Attachment{Name: path, Data: []byte("x")}, nil
	}))
	h.backend.uploadErr = errors.New("unsupported file type")

	m = attachFile(t, m, "notes.txt")
	m = typeText(t, m, "Read this")
	m = press(t, m, enterKey)

	if len(h.backend.queries) != 0 {
		t.Errorf("query sent after failed upload: %v", h.backend.queries)
	}
	msgs := m.State().Messages
	last := msgs[len(msgs)-1]
	if last.Sender != chat.SenderBot || last.Text != chat.UploadFailedText {
		t.Errorf("expected upload failure message, got %+v", last)
	}
	if m.State().Attachment == nil || m.State().Input != "Read this" {
		t.Error("attachment and input should be kept for a retry")
	}
}

func TestAttachRejectedFileShowsStatus(t *testing.T) {
	m, _ := newTestModel(t, attachOptions(func(string) (chat.Attachment, error) {
		return chat.Attachment{}, errors.New("file too large")
	}))

	m = attachFile(t, m, "huge.bin")

	if m.State().Attachment != nil {
		t.Error("rejected file must not be attached")
	}
	if !strings.Contains(m.View(), "file too large") {
		t.Error("rejection not reported")
	}
}

func TestAttachPromptCompletion(t *testing.T) {
	m, _ := newTestModel(t, attachOptions(nil))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if len(m.suggestions) != 2 {
		t.Fatalf("suggestions = %v", m.suggestions)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.attachInput.Value() != "notes.txt" {
		t.Errorf("tab completed to %q", m.attachInput.Value())
	}

	m = press(t, m, escKey)
	if m.mode != modeChat || m.suggestions != nil {
		t.Error("esc should leave the prompt")
	}
}

func TestBrowseFeedback(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	welcome := m.State().Messages[0].ID

	m = press(t, m, escKey)
	if m.mode != modeBrowse {
		t.Fatal("esc should enter browse mode")
	}

	m = press(t, m, runeKey('+'))
	m = press(t, m, runeKey('+'))
	if got := m.State().Messages[0].Feedback; got != chat.FeedbackPositive {
		t.Errorf("feedback = %q after repeated +", got)
	}
	if !strings.Contains(m.View(), "helpful") {
		t.Error("feedback actions not shown")
	}

	m = press(t, m, runeKey('-'))
	if got := m.State().Messages[0].Feedback; got != chat.FeedbackNegative {
		t.Errorf("feedback = %q after -", got)
	}
	if m.State().Messages[0].ID != welcome {
		t.Error("feedback must not change the message id")
	}
}

func TestFeedbackNotOfferedOnUserMessages(t *testing.T) {
	m, h := newTestModel(t, Options{})
	h.holdTimers = true

	m = typeText(t, m, "hi")
	m = press(t, m, enterKey)
	m = press(t, m, escKey)

	if m.selected != 1 {
		t.Fatalf("selected = %d, want the user message", m.selected)
	}
	m = press(t, m, runeKey('+'))
	m = press(t, m, runeKey('c'))

	if m.State().Messages[1].Feedback != chat.FeedbackNone {
		t.Error("user message got feedback")
	}
	if m.State().Copied != "" {
		t.Error("user message was copied")
	}
}

func TestCopyFlashesAndExpires(t *testing.T) {
	m, h := newTestModel(t, Options{})
	h.holdTimers = true

	m = press(t, m, escKey)
	m = press(t, m, runeKey('c'))

	if len(h.clipboard.copied) != 1 || h.clipboard.copied[0] != chat.WelcomeText {
		t.Fatalf("clipboard = %v", h.clipboard.copied)
	}
	if m.State().Copied != m.State().Messages[0].ID {
		t.Errorf("copied = %q", m.State().Copied)
	}
	if !strings.Contains(m.View(), "Copied!") {
		t.Error("copy flash not rendered")
	}
	if len(h.delays) != 1 || h.delays[0] != chat.CopyFlashDuration {
		t.Errorf("flash delays = %v", h.delays)
	}

	m = drain(t, m, func() tea.Msg { return h.pending[0] })
	if m.State().Copied != "" {
		t.Error("flash should expire")
	}
}

func TestExportReportsPath(t *testing.T) {
	m, h := newTestModel(t, Options{})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if len(h.exporter.exported) != 1 || len(h.exporter.exported[0]) != 1 {
		t.Fatalf("exported = %v", h.exporter.exported)
	}
	if !strings.Contains(m.View(), "Transcript saved to /tmp/aria-test.json") {
		t.Error("export status not shown")
	}
}

func TestExportFailureReported(t *testing.T) {
	m, h := newTestModel(t, Options{})
	h.exporter.err = errors.New("disk full")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if !strings.Contains(m.View(), "Export failed: disk full") {
		t.Error("export failure not shown")
	}
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 50})
	m = next.(Model)

	if m.renderer.Width() != 120 || m.viewport.Width != 120 {
		t.Errorf("renderer width %d, viewport width %d", m.renderer.Width(), m.viewport.Width)
	}
	if m.viewport.Height < 3 || m.viewport.Height >= 50 {
		t.Errorf("viewport height = %d", m.viewport.Height)
	}
}

func TestLongPastedQuestionIsKept(t *testing.T) {
	m, h := newTestModel(t, Options{})
	question := strings.Repeat("why ", 700)

	m = typeText(t, m, question)
	if len(m.State().Input) != len(question) {
		t.Fatalf("input holds %d of %d bytes", len(m.State().Input), len(question))
	}
	m = press(t, m, enterKey)

	if len(h.backend.queries) != 1 || h.backend.queries[0] != question {
		t.Errorf("question was not sent in full")
	}
}
