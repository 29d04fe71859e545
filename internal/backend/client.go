package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"aria-chat/internal/chat"
)

// ErrNoAnswer is returned when the backend replies without an answer field.
// Sources sent alongside are dropped: SubmitQuery shows the fallback answer
// alone rather than citations for an answer that never arrived.
var ErrNoAnswer = errors.New("response has no answer")

// Client talks to the question-answering backend. Every call is a single
// attempt; there are no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new backend client. A zero timeout means none.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SubmitQuery asks a question and never fails: any error is logged and
// replaced by the fallback answer.
func (c *Client) SubmitQuery(ctx context.Context, question string) chat.Answer {
	answer, err := c.Query(ctx, question)
	if err != nil {
		log.Printf("[ERROR] query failed: %v", err)
		return chat.Answer{Text: chat.QueryFallback}
	}
	return answer
}

// Query sends a question to POST /query/.
func (c *Client) Query(ctx context.Context, question string) (chat.Answer, error) {
	jsonData, err := json.Marshal(QueryRequest{Question: question})
	if err != nil {
		return chat.Answer{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/query/", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return chat.Answer{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return chat.Answer{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return chat.Answer{}, fmt.Errorf("backend returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return chat.Answer{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if raw.Answer == nil {
		return chat.Answer{}, ErrNoAnswer
	}

	return chat.Answer{Text: *raw.Answer, Sources: raw.Sources}, nil
}

// SubmitFile uploads an attachment to POST /upload/ as multipart field
// "file". The response body is ignored.
func (c *Client) SubmitFile(ctx context.Context, att chat.Attachment) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", att.Name)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(att.Data); err != nil {
		return fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/upload/", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("[ERROR] upload of %s failed: %v", att.Name, err)
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[ERROR] upload of %s returned status %d", att.Name, resp.StatusCode)
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	log.Printf("[INFO] uploaded %s (%d bytes)", att.Name, len(att.Data))
	return nil
}

// HealthCheck verifies that the backend is reachable.
func (c *Client) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend is unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("backend returned server error: %d", resp.StatusCode)
	}

	return nil
}

// BaseURL returns the backend origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}
