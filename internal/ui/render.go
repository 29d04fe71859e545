package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"aria-chat/internal/chat"
)

// QuickReplies are the predefined questions offered under the thread.
var QuickReplies = []string{
	"How do I reset my password?",
	"Account settings help",
	"Billing questions",
	"Contact support",
}

const assistantName = "ARIA"

// BubbleOptions carries the per-bubble view state that is not part of the
// message itself.
type BubbleOptions struct {
	Selected bool
	Copied   bool
}

// Renderer turns messages into styled terminal text. Markdown output is
// cached per text because the thread is redrawn on every spinner frame.
type Renderer struct {
	style string
	width int
	md    *glamour.TermRenderer
	cache map[string]string
}

// NewRenderer creates a renderer for the given glamour style and width.
func NewRenderer(style string, width int) *Renderer {
	r := &Renderer{style: style}
	r.SetWidth(width)
	return r
}

// SetWidth rebuilds the markdown renderer when the width changes.
func (r *Renderer) SetWidth(width int) {
	if width < 30 {
		width = 30
	}
	if width == r.width && r.md != nil {
		return
	}
	r.width = width
	r.cache = make(map[string]string)

	styleOpt := glamour.WithStandardStyle(r.style)
	if r.style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	// A nil renderer falls back to plain text.
	r.md, _ = glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(r.innerWidth()),
	)
}

// Width is the width of the message area.
func (r *Renderer) Width() int {
	return r.width
}

func (r *Renderer) bubbleWidth() int {
	w := r.width * 3 / 4
	if w < 26 {
		w = 26
	}
	return w
}

// innerWidth is the text area of a bot bubble: border and padding take
// two cells on each side.
func (r *Renderer) innerWidth() int {
	return r.bubbleWidth() - 4
}

// Markdown renders message text as formatted terminal text.
func (r *Renderer) Markdown(text string) string {
	if out, ok := r.cache[text]; ok {
		return out
	}
	out := text
	if r.md != nil {
		if rendered, err := r.md.Render(text); err == nil {
			out = strings.Trim(rendered, "\n")
		}
	}
	r.cache[text] = out
	return out
}

// Bubble renders one message.
func (r *Renderer) Bubble(m chat.Message, opts BubbleOptions) string {
	if m.Sender == chat.SenderUser {
		return r.userBubble(m, opts)
	}
	return r.botBubble(m, opts)
}

func (r *Renderer) botBubble(m chat.Message, opts BubbleOptions) string {
	var b strings.Builder

	if opts.Copied {
		b.WriteString(copiedStyle.Render("Copied!"))
		b.WriteString("\n")
	}
	b.WriteString(botLabelStyle.Render("🤖 " + assistantName + " Neural Network"))
	b.WriteString("\n")

	// glamour word-wraps but leaves long tokens such as URLs intact
	body := fit(r.Markdown(m.Text), r.innerWidth())
	if m.Sources != nil {
		body += "\n\n" + r.sources(m.Sources)
	}

	style := botBubbleStyle.Copy().MaxWidth(r.bubbleWidth())
	if opts.Selected {
		style = style.BorderForeground(selectedBorder)
	}
	b.WriteString(style.Render(body))
	b.WriteString("\n")

	footer := timestampStyle.Render(formatTime(m))
	if actions := actionsLine(m, opts); actions != "" {
		footer += "  " + actions
	}
	b.WriteString(footer)

	return b.String()
}

func (r *Renderer) userBubble(m chat.Message, opts BubbleOptions) string {
	style := userBubbleStyle.Copy().MaxWidth(r.bubbleWidth())
	if opts.Selected {
		style = style.Background(selectedBorder)
	}
	width := r.bubbleWidth() - 2
	body := style.Render(fit(wordwrap.String(m.Text, width), width))
	footer := timestampStyle.Render(formatTime(m) + " 👤")

	block := lipgloss.JoinVertical(lipgloss.Right, body, footer)
	return lipgloss.PlaceHorizontal(r.width, lipgloss.Right, block)
}

func (r *Renderer) sources(sources []string) string {
	lines := []string{sourcesLabelStyle.Render("✨ Knowledge Sources:")}
	line := ""
	for _, s := range sources {
		tag := sourceTagStyle.Render(fit(s, r.innerWidth()-2))
		if lipgloss.Height(tag) > 1 {
			// a wrapped tag gets rows of its own
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			lines = append(lines, tag)
			continue
		}
		if line != "" && lipgloss.Width(line)+1+lipgloss.Width(tag) > r.innerWidth() {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += tag
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// actionsLine shows feedback and copy affordances. Like a hover state, they
// appear on the selected message or once feedback has been given.
func actionsLine(m chat.Message, opts BubbleOptions) string {
	if !opts.Selected && m.Feedback == chat.FeedbackNone {
		return ""
	}
	up := actionStyle.Render("👍 helpful")
	down := actionStyle.Render("👎 not helpful")
	switch m.Feedback {
	case chat.FeedbackPositive:
		up = positiveStyle.Render("👍 helpful")
	case chat.FeedbackNegative:
		down = negativeStyle.Render("👎 not helpful")
	}
	parts := []string{up, down}
	if opts.Selected {
		parts = append([]string{actionStyle.Render("⧉ copy")}, parts...)
	}
	return strings.Join(parts, "  ")
}

// Typing renders the indicator shown while a reply is pending.
func (r *Renderer) Typing(spinner string) string {
	label := botLabelStyle.Render("🧠 " + assistantName + " is processing neural patterns...")
	body := botBubbleStyle.Render(spinner + " " + typingStyle.Render("Accessing quantum knowledge matrix..."))
	return label + "\n" + body
}

// QuickRepliesView renders the suggestion chips, wrapped to width.
func QuickRepliesView(width int) string {
	lines := []string{sourcesLabelStyle.Render("⚡ Quick Neural Queries:")}
	line := ""
	for i, text := range QuickReplies {
		chip := chipKeyStyle.Render(fmt.Sprintf("alt+%d", i+1)) + " " + chipStyle.Render(text)
		if line != "" && lipgloss.Width(line)+2+lipgloss.Width(chip) > width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += "  "
		}
		line += chip
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Header renders the title bar.
func Header(width int, compact bool) string {
	left := titleStyle.Render(assistantName+" Support") + subtitleStyle.Render("⚡ Neural Network Active")
	right := ""
	if compact {
		right = timestampStyle.Render("ctrl+w ×")
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return headerStyle.Render(left + strings.Repeat(" ", gap) + right)
}

// Launcher renders the collapsed widget.
func Launcher(width, height, unread int) string {
	label := "💬 " + assistantName + " Support · press enter to chat"
	if unread > 0 {
		label += fmt.Sprintf(" · %d new", unread)
	}
	return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Bottom, launcherStyle.Render(label))
}

func formatTime(m chat.Message) string {
	return m.Timestamp.Local().Format("15:04")
}

// fit hard-wraps s by display width so no line is wider than width
// cells. Lines are broken, never cut off.
func fit(s string, width int) string {
	if width < 1 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return wrap.String(strings.Join(lines, "\n"), width)
}
