package chat

import "strings"

// Phase is the coarse state of the widget.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseIdle
	PhaseAwaiting
)

func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhaseIdle:
		return "open-idle"
	case PhaseAwaiting:
		return "open-awaiting-response"
	}
	return "unknown"
}

// State is the complete conversation state. Treat it as a value: the
// engine never mutates a Messages slice it has already handed out.
type State struct {
	Open    bool
	Compact bool // close is only offered in the compact presentation

	Input      string
	Attachment *Attachment
	Uploading  bool

	Messages []Message

	// Copied is the ID of the message whose "Copied!" flash is showing.
	Copied string

	// outstanding counts queries in flight plus replies waiting on the pacer.
	outstanding int
}

// NewState returns an open or closed state seeded with the given messages.
func NewState(open, compact bool, seed ...Message) State {
	s := State{Open: open, Compact: compact}
	if len(seed) > 0 {
		s.Messages = append([]Message(nil), seed...)
	}
	return s
}

// Composing reports whether the assistant owes at least one reply.
func (s State) Composing() bool {
	return s.outstanding > 0
}

// Phase derives the widget phase from the state.
func (s State) Phase() Phase {
	switch {
	case !s.Open:
		return PhaseClosed
	case s.Composing():
		return PhaseAwaiting
	default:
		return PhaseIdle
	}
}

// CanSend reports whether a Send intent would do anything.
func (s State) CanSend() bool {
	if !s.Open || s.Uploading {
		return false
	}
	return strings.TrimSpace(s.Input) != "" || s.Attachment != nil
}

// Find returns the index of the message with the given ID, or -1.
func (s State) Find(id string) int {
	for i := range s.Messages {
		if s.Messages[i].ID == id {
			return i
		}
	}
	return -1
}

// appendMessage copies the slice so earlier states stay untouched.
func (s State) appendMessage(m Message) State {
	msgs := make([]Message, len(s.Messages), len(s.Messages)+1)
	copy(msgs, s.Messages)
	s.Messages = append(msgs, m)
	return s
}
