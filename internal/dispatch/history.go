package dispatch

import (
	"context"
	"log/slog"

	"github.com/arjunr/regchat/internal/chat"
)

// HistoryClient is the slice of the backend client the loader needs.
type HistoryClient interface {
	History(ctx context.Context, sessionID string) ([]chat.Message, error)
}

// HistoryResult carries a fetched timeline back onto the event loop.
type HistoryResult struct {
	SessionID string
	Messages  []chat.Message
	Err       error
}

// Loader performs the one-shot history fetch for a session id. A
// non-empty history replaces the timeline wholesale; anything else
// (empty, null, transport or decode failure) falls back to the default
// greeting without surfacing an error to the student.
type Loader struct {
	timeline  *chat.Timeline
	client    HistoryClient
	logger    *slog.Logger
	loadedFor string
}

// NewLoader creates a loader over the shared timeline.
func NewLoader(timeline *chat.Timeline, client HistoryClient, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{timeline: timeline, client: client, logger: logger}
}

// Begin starts the history fetch for sessionID. It returns ok=false when
// a load for that id has already begun: the load is one-shot per id and
// must not re-trigger on unrelated state changes. The caller runs the
// task and feeds its result to Apply.
func (l *Loader) Begin(sessionID string) (task func(ctx context.Context) HistoryResult, ok bool) {
	if sessionID == l.loadedFor {
		return nil, false
	}
	l.loadedFor = sessionID

	client := l.client
	return func(ctx context.Context) HistoryResult {
		msgs, err := client.History(ctx, sessionID)
		return HistoryResult{SessionID: sessionID, Messages: msgs, Err: err}
	}, true
}

// Apply installs a fetched history. Results for a session id that is no
// longer the most recently begun one are dropped; that happens when the
// session was reset while the fetch was in flight.
func (l *Loader) Apply(res HistoryResult) {
	if res.SessionID != l.loadedFor {
		l.logger.Info("dropping history for rotated session", "session_id", res.SessionID)
		return
	}

	if res.Err != nil {
		l.logger.Warn("history load failed, using greeting", "session_id", res.SessionID, "error", res.Err)
		l.timeline.Reset()
		return
	}
	if len(res.Messages) == 0 {
		l.timeline.Reset()
		return
	}
	l.timeline.ReplaceAll(res.Messages)
}

// Forget clears the one-shot marker so a future Begin for the same id
// fetches again. Used after an explicit session clear.
func (l *Loader) Forget() {
	l.loadedFor = ""
}
