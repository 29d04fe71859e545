// Package transcript exports a conversation to disk on request. Exports
// are write-only: the widget never loads them back.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"aria-chat/internal/chat"
)

// Transcript is the exported file format.
type Transcript struct {
	SessionID  string         `json:"session_id"`
	StartedAt  time.Time      `json:"started_at"`
	ExportedAt time.Time      `json:"exported_at"`
	Messages   []chat.Message `json:"messages"`
}

// Exporter writes transcripts for one widget session.
type Exporter struct {
	dir       string
	sessionID string
	startedAt time.Time

	mu  sync.Mutex
	now func() time.Time
}

// NewExporter creates an exporter writing into dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{
		dir:       dir,
		sessionID: uuid.New().String(),
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// SessionID identifies the widget session.
func (e *Exporter) SessionID() string {
	return e.sessionID
}

// Export writes the messages and returns the file path. Repeated exports
// of the same session overwrite the same file.
func (e *Exporter) Export(messages []chat.Message) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create transcript directory: %w", err)
	}

	t := Transcript{
		SessionID:  e.sessionID,
		StartedAt:  e.startedAt,
		ExportedAt: e.now(),
		Messages:   messages,
	}
	if t.Messages == nil {
		t.Messages = []chat.Message{}
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcript: %w", err)
	}

	path := filepath.Join(e.dir, fmt.Sprintf("aria-%s.json", e.sessionID))

	// Write to temp file, then rename
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return "", fmt.Errorf("failed to rename temp file: %w", err)
	}

	return path, nil
}
