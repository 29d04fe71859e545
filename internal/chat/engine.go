package chat

import (
	"strings"
	"time"
)

// CopyFlashDuration is how long "Copied!" stays visible.
const CopyFlashDuration = 2 * time.Second

// Engine computes state transitions. It holds no conversation state itself;
// the clock, ID source and pacer are injectable so tests are deterministic.
type Engine struct {
	Now   func() time.Time
	NewID func() string
	Pacer Pacer
}

// NewEngine creates an engine using the wall clock and UUIDv7 IDs.
func NewEngine(pacer Pacer) *Engine {
	return &Engine{
		Now:   time.Now,
		NewID: NewMessageID,
		Pacer: pacer,
	}
}

// Welcome builds the greeting the conversation starts with.
func (e *Engine) Welcome(text string) Message {
	return e.message(SenderBot, text, nil)
}

// Reduce returns the next state and the effects the host must run.
func (e *Engine) Reduce(s State, in Intent) (State, []Effect) {
	switch in := in.(type) {
	case OpenWidget:
		s.Open = true
		return s, nil

	case CloseWidget:
		if s.Compact {
			s.Open = false
		}
		return s, nil

	case EditInput:
		s.Input = in.Text
		return s, nil

	case QuickReply:
		s.Input = in.Text
		return s, nil

	case Attach:
		att := in.Attachment
		s.Attachment = &att
		return s, nil

	case Detach:
		s.Attachment = nil
		return s, nil

	case Send:
		return e.send(s)

	case UploadCompleted:
		s.Uploading = false
		if in.Err != nil {
			s = s.appendMessage(e.message(SenderBot, UploadFailedText, nil))
			return s, nil
		}
		s.Attachment = nil
		return e.sendText(s, in.Text)

	case QueryCompleted:
		delay := time.Duration(0)
		if e.Pacer != nil {
			delay = e.Pacer.ReplyDelay()
		}
		return s, []Effect{ScheduleReply{Answer: in.Answer, Delay: delay}}

	case ReplyDue:
		s = s.appendMessage(e.message(SenderBot, in.Answer.Text, copySources(in.Answer.Sources)))
		if s.outstanding > 0 {
			s.outstanding--
		}
		return s, nil

	case GiveFeedback:
		return setFeedback(s, in.ID, in.Value), nil

	case CopyMessage:
		i := s.Find(in.ID)
		if i < 0 {
			return s, nil
		}
		return s, []Effect{CopyText{ID: in.ID, Text: s.Messages[i].Text}}

	case CopyCompleted:
		if in.Err != nil {
			return s, nil
		}
		s.Copied = in.ID
		return s, []Effect{ExpireCopyFlash{ID: in.ID, Delay: CopyFlashDuration}}

	case CopyFlashExpired:
		if s.Copied == in.ID {
			s.Copied = ""
		}
		return s, nil
	}
	return s, nil
}

func (e *Engine) send(s State) (State, []Effect) {
	if !s.CanSend() {
		return s, nil
	}
	if s.Attachment != nil {
		s.Uploading = true
		return s, []Effect{UploadFile{Attachment: *s.Attachment, Text: s.Input}}
	}
	return e.sendText(s, s.Input)
}

func (e *Engine) sendText(s State, text string) (State, []Effect) {
	if strings.TrimSpace(text) == "" {
		return s, nil
	}
	s = s.appendMessage(e.message(SenderUser, text, nil))
	s.Input = ""
	s.outstanding++
	return s, []Effect{SubmitQuery{Question: text}}
}

func (e *Engine) message(sender Sender, text string, sources []string) Message {
	return Message{
		ID:        e.NewID(),
		Text:      text,
		Sender:    sender,
		Timestamp: e.Now(),
		Sources:   sources,
	}
}

func setFeedback(s State, id string, value Feedback) State {
	i := s.Find(id)
	if i < 0 || s.Messages[i].Feedback == value {
		return s
	}
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)
	msgs[i].Feedback = value
	s.Messages = msgs
	return s
}

func copySources(src []string) []string {
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
