// Package backend is the HTTP client for the question service: one
// endpoint answering natural-language queries, one serving prior
// conversation history, and one ending a session.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arjunr/regchat/internal/chat"
)

// DefaultTimeout bounds a single round-trip. Query parsing on the server
// side shells out to an LLM, so this is generous.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a reply body is read.
const maxResponseBytes = 4 << 20

// QueryResponse is a successful /query reply. Questions is empty when no
// quiz is attached.
type QueryResponse struct {
	Response  string          `json:"response"`
	Questions []chat.Question `json:"questions"`
}

// Client talks to the backend service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the service rooted at baseURL. A zero timeout
// falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Query submits a natural-language request under the given session and
// returns the bot reply. Failures are *TransportError or *DecodeError.
func (c *Client) Query(ctx context.Context, query, sessionID string) (*QueryResponse, error) {
	const op = "query"

	payload := map[string]string{"query": query, "sessionId": sessionID}
	body, err := c.post(ctx, op, "/query", payload)
	if err != nil {
		return nil, err
	}

	if err := validateQueryResponse(body); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}

	var resp QueryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	if resp.Questions == nil {
		resp.Questions = []chat.Question{}
	}
	return &resp, nil
}

// History fetches the prior timeline for sessionID. A JSON null body
// decodes to an empty slice; callers treat empty and error alike.
func (c *Client) History(ctx context.Context, sessionID string) ([]chat.Message, error) {
	const op = "history"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/history/"+sessionID, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &TransportError{Op: op, StatusCode: res.StatusCode}
	}

	var msgs []chat.Message
	if err := json.Unmarshal(body, &msgs); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	return msgs, nil
}

// EndSession tells the backend the session may be discarded. Callers
// treat failures as best-effort.
func (c *Client) EndSession(ctx context.Context, sessionID string) error {
	const op = "endSession"

	_, err := c.post(ctx, op, "/endSession", map[string]string{"sessionId": sessionID})
	return err
}

// post issues a JSON POST and returns the raw body of a 2xx reply.
func (c *Client) post(ctx context.Context, op, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &DecodeError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &TransportError{Op: op, StatusCode: res.StatusCode}
	}
	return body, nil
}
