// Package dispatch orchestrates the asynchronous request/response cycle
// between the conversation timeline and the backend: one query in flight
// at a time, with the typing placeholder bracketing the round-trip, plus
// the one-shot history load per session id.
package dispatch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/arjunr/regchat/internal/backend"
	"github.com/arjunr/regchat/internal/chat"
)

// ErrorReply is the bot turn shown when a query round-trip fails.
const ErrorReply = "❌ Error retrieving questions."

// QueryClient is the slice of the backend client a dispatcher needs.
type QueryClient interface {
	Query(ctx context.Context, query, sessionID string) (*backend.QueryResponse, error)
}

// SessionSource exposes the session id in effect right now.
type SessionSource interface {
	Current() string
}

// Result carries the outcome of one round-trip back onto the event loop.
// SessionID is the id the query was issued under, so a response that
// straddles a session reset can be recognized and dropped.
type Result struct {
	SessionID string
	Text      string
	Questions []chat.Question
	Err       error
}

// Task performs the network round-trip. It is safe to run off the event
// loop: it touches no dispatcher state, only captured values.
type Task func(ctx context.Context) Result

// Dispatcher drives query round-trips against a shared timeline. Submit
// and Resolve must both be called from the event loop.
type Dispatcher struct {
	timeline *chat.Timeline
	client   QueryClient
	sessions SessionSource
	logger   *slog.Logger
	busy     bool
}

// New creates a dispatcher over the shared timeline.
func New(timeline *chat.Timeline, client QueryClient, sessions SessionSource, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{timeline: timeline, client: client, sessions: sessions, logger: logger}
}

// Busy reports whether a round-trip is in flight. The UI disables input
// while busy; there is no queue.
func (d *Dispatcher) Busy() bool { return d.busy }

// Submit starts a round-trip for text. Empty or whitespace-only input is
// a no-op, as is submitting while a round-trip is in flight; both return
// ok=false with no timeline change. Otherwise the student turn and the
// typing placeholder are appended, in that order, before the returned
// task touches the network. The caller runs the task and feeds its
// Result to Resolve.
func (d *Dispatcher) Submit(text string) (task Task, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" || d.busy {
		return nil, false
	}

	d.busy = true
	sid := d.sessions.Current()

	d.timeline.Append(chat.Message{Sender: chat.SenderStudent, Text: text})
	d.timeline.Append(chat.Message{Sender: chat.SenderBot, IsTyping: true})

	client := d.client
	return func(ctx context.Context) Result {
		resp, err := client.Query(ctx, text, sid)
		if err != nil {
			return Result{SessionID: sid, Err: err}
		}
		return Result{SessionID: sid, Text: resp.Response, Questions: resp.Questions}
	}, true
}

// Resolve applies a round-trip outcome to the timeline: the typing
// placeholder goes away, then either the bot reply or an error turn is
// appended. The busy gate clears regardless of outcome. A result issued
// under a session id that is no longer current is dropped.
func (d *Dispatcher) Resolve(res Result) {
	d.busy = false
	d.timeline.RemoveTyping()

	if res.SessionID != d.sessions.Current() {
		d.logger.Info("dropping reply for rotated session", "session_id", res.SessionID)
		return
	}

	if res.Err != nil {
		d.logger.Warn("query failed", "error", res.Err)
		d.timeline.Append(chat.Message{Sender: chat.SenderBot, Text: ErrorReply, Questions: []chat.Question{}})
		return
	}

	d.timeline.Append(chat.Message{Sender: chat.SenderBot, Text: res.Text, Questions: res.Questions})
}
