package chat

import "time"

// Intent is an event the engine reacts to. UI actions and completed side
// effects are both intents.
type Intent interface {
	intent()
}

type (
	OpenWidget  struct{}
	CloseWidget struct{}

	// EditInput mirrors the text box into the state.
	EditInput struct{ Text string }

	// QuickReply fills the input with a predefined question without sending.
	QuickReply struct{ Text string }

	Attach struct{ Attachment Attachment }
	Detach struct{}

	Send struct{}

	// UploadCompleted reports the outcome of an UploadFile effect. Text is
	// the input captured when the send started.
	UploadCompleted struct {
		Text string
		Err  error
	}

	QueryCompleted struct{ Answer Answer }

	// ReplyDue fires once the pacing delay for an answer has elapsed.
	ReplyDue struct{ Answer Answer }

	GiveFeedback struct {
		ID    string
		Value Feedback
	}

	CopyMessage   struct{ ID string }
	CopyCompleted struct {
		ID  string
		Err error
	}
	CopyFlashExpired struct{ ID string }
)

func (OpenWidget) intent()       {}
func (CloseWidget) intent()      {}
func (EditInput) intent()        {}
func (QuickReply) intent()       {}
func (Attach) intent()           {}
func (Detach) intent()           {}
func (Send) intent()             {}
func (UploadCompleted) intent()  {}
func (QueryCompleted) intent()   {}
func (ReplyDue) intent()         {}
func (GiveFeedback) intent()     {}
func (CopyMessage) intent()      {}
func (CopyCompleted) intent()    {}
func (CopyFlashExpired) intent() {}

// Effect is work the host must perform on the engine's behalf. Each effect
// eventually produces another Intent, except where noted.
type Effect interface {
	effect()
}

type (
	// UploadFile answers with UploadCompleted.
	UploadFile struct {
		Attachment Attachment
		Text       string
	}

	// SubmitQuery answers with QueryCompleted.
	SubmitQuery struct{ Question string }

	// ScheduleReply answers with ReplyDue after Delay.
	ScheduleReply struct {
		Answer Answer
		Delay  time.Duration
	}

	// CopyText answers with CopyCompleted.
	CopyText struct {
		ID   string
		Text string
	}

	// ExpireCopyFlash answers with CopyFlashExpired after Delay.
	ExpireCopyFlash struct {
		ID    string
		Delay time.Duration
	}
)

func (UploadFile) effect()      {}
func (SubmitQuery) effect()     {}
func (ScheduleReply) effect()   {}
func (CopyText) effect()        {}
func (ExpireCopyFlash) effect() {}
