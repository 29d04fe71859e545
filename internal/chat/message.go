package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Feedback is the user's rating of a bot reply.
type Feedback string

const (
	FeedbackNone     Feedback = ""
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

// Message represents a single turn in the conversation.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Sources   []string  `json:"sources,omitempty"` // nil when the backend sent none
	Feedback  Feedback  `json:"feedback,omitempty"`
}

// Answer is a reply from the question-answering backend.
type Answer struct {
	Text    string
	Sources []string
}

// Attachment is a file waiting to be uploaded on the next send.
type Attachment struct {
	Name string
	Data []byte
}

// Fixed strings shown to the user.
const (
	WelcomeText      = "🚀 Welcome to the future of customer support! I'm ARIA, your AI-powered assistant. How can I help you today?"
	QueryFallback    = "Sorry, I couldn't process your request. Please try again or upload a document for more context."
	UploadFailedText = "Failed to process the uploaded file."
)

// NewMessageID returns a time-ordered identifier. UUIDv7 values sort in
// creation order.
func NewMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
