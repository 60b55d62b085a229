// Package conversation is the root screen: the chat timeline, the input
// bar, and the entry point into the quiz overlay.
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/arjunr/regchat/internal/chat"
	"github.com/arjunr/regchat/internal/dispatch"
	"github.com/arjunr/regchat/internal/router"
	"github.com/arjunr/regchat/internal/screens/quizplayer"
	"github.com/arjunr/regchat/internal/ui/components"
	"github.com/arjunr/regchat/internal/ui/layout"
)

// helpQuery is the canned query sent by the help shortcut. The backend
// treats it like any other student query.
const helpQuery = "help"

const typingFrameInterval = 300 * time.Millisecond

// SessionController is the slice of the session manager this screen
// needs.
type SessionController interface {
	Current() string
	Reset(ctx context.Context) (string, error)
}

// ConversationScreen implements router.Screen for the chat view.
type ConversationScreen struct {
	timeline   *chat.Timeline
	dispatcher *dispatch.Dispatcher
	loader     *dispatch.Loader
	sessions   SessionController
	recorder   quizplayer.Recorder
	logger     *slog.Logger

	input components.ChatInput

	// browsing is true while the student walks the timeline with the
	// cursor instead of typing.
	browsing bool
	cursor   int

	typingFrame int
	notice      string
}

var _ router.Screen = (*ConversationScreen)(nil)
var _ router.KeyHintProvider = (*ConversationScreen)(nil)

// New creates the conversation screen over the shared timeline.
func New(timeline *chat.Timeline, dispatcher *dispatch.Dispatcher, loader *dispatch.Loader, sessions SessionController, recorder quizplayer.Recorder, logger *slog.Logger) *ConversationScreen {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationScreen{
		timeline:   timeline,
		dispatcher: dispatcher,
		loader:     loader,
		sessions:   sessions,
		recorder:   recorder,
		logger:     logger,
		input:      components.NewChatInput("e.g., 5 MCQs on interpreting functions", 200),
	}
}

func (c *ConversationScreen) Init() tea.Cmd {
	return tea.Batch(
		c.beginHistory(c.sessions.Current()),
		c.input.Init(),
	)
}

func (c *ConversationScreen) Title() string {
	return "Chat"
}

func (c *ConversationScreen) KeyHints() []layout.KeyHint {
	if c.browsing {
		return []layout.KeyHint{
			{Key: "↑/↓", Description: "Browse turns"},
			{Key: "Enter", Description: "Start quiz"},
			{Key: "Tab", Description: "Back to typing"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Tab", Description: "Browse turns"},
		{Key: "F1", Description: "Help"},
		{Key: "Ctrl+R", Description: "New session"},
	}
	return hints
}

func (c *ConversationScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		c.loader.Apply(dispatch.HistoryResult(msg))
		c.clampCursor()
		return c, nil

	case queryDoneMsg:
		c.dispatcher.Resolve(dispatch.Result(msg))
		c.clampCursor()
		return c, nil

	case typingTickMsg:
		if !c.dispatcher.Busy() {
			return c, nil
		}
		c.typingFrame++
		return c, typingTick()

	case sessionResetMsg:
		return c.handleSessionReset(msg)

	case quizplayer.FinishedMsg:
		if msg.Completed {
			c.notice = fmt.Sprintf("Quiz complete! Your score: %d/%d", msg.Result.Score, msg.Result.Total)
		}
		c.browsing = false
		return c, c.input.Focus()

	case tea.KeyMsg:
		return c.handleKey(msg)
	}

	if !c.browsing {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	return c, nil
}

func (c *ConversationScreen) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	key := msg.String()

	if key == "tab" {
		return c.toggleBrowse()
	}

	if c.browsing {
		switch key {
		case "up", "k":
			if c.cursor > 0 {
				c.cursor--
			}
			return c, nil
		case "down", "j":
			if c.cursor < c.timeline.Len()-1 {
				c.cursor++
			}
			return c, nil
		case "enter":
			return c.openQuiz()
		case "esc":
			return c.toggleBrowse()
		}
		return c, nil
	}

	switch key {
	case "enter":
		return c, c.submit(c.input.Value())
	case "f1":
		return c, c.submit(helpQuery)
	case "ctrl+r":
		return c, c.resetSession()
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ConversationScreen) toggleBrowse() (router.Screen, tea.Cmd) {
	c.browsing = !c.browsing
	if !c.browsing {
		return c, c.input.Focus()
	}
	c.input.Blur()
	c.cursor = c.lastQuizIndex()
	return c, nil
}

// lastQuizIndex returns the newest quiz-bearing turn, falling back to
// the newest turn.
func (c *ConversationScreen) lastQuizIndex() int {
	for i := c.timeline.Len() - 1; i >= 0; i-- {
		if m, ok := c.timeline.At(i); ok && m.HasQuiz() {
			return i
		}
	}
	return c.timeline.Len() - 1
}

func (c *ConversationScreen) clampCursor() {
	if c.cursor >= c.timeline.Len() {
		c.cursor = c.timeline.Len() - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

// openQuiz pushes the quiz overlay for the turn under the cursor. Turns
// without questions are inert.
func (c *ConversationScreen) openQuiz() (router.Screen, tea.Cmd) {
	m, ok := c.timeline.At(c.cursor)
	if !ok || !m.HasQuiz() {
		return c, nil
	}

	overlay := quizplayer.New(m.Questions, c.recorder, c.sessions.Current(), c.logger)
	return c, func() tea.Msg {
		return router.PushScreenMsg{Screen: overlay}
	}
}

// submit starts a query round-trip. The dispatcher rejects empty input
// and enforces the single in-flight gate.
func (c *ConversationScreen) submit(text string) tea.Cmd {
	task, ok := c.dispatcher.Submit(text)
	if !ok {
		return nil
	}
	c.input.Clear()
	c.notice = ""
	c.cursor = c.timeline.Len() - 1

	return tea.Batch(runQuery(task), typingTick())
}

func runQuery(task dispatch.Task) tea.Cmd {
	return func() tea.Msg {
		return queryDoneMsg(task(context.Background()))
	}
}

// resetSession rotates the session id off the event loop; the outcome
// arrives as a sessionResetMsg.
func (c *ConversationScreen) resetSession() tea.Cmd {
	sessions := c.sessions
	return func() tea.Msg {
		id, err := sessions.Reset(context.Background())
		return sessionResetMsg{ID: id, Err: err}
	}
}

func (c *ConversationScreen) handleSessionReset(msg sessionResetMsg) (router.Screen, tea.Cmd) {
	if msg.Err != nil {
		c.logger.Warn("session reset failed", "error", msg.Err)
		c.notice = "Couldn't start a new session. Still on the old one."
		return c, nil
	}

	c.timeline.Reset()
	c.cursor = 0
	c.notice = "Started a new session."
	return c, c.beginHistory(msg.ID)
}

// beginHistory kicks off the one-shot history load for sessionID. A
// repeat call for the same id is a no-op.
func (c *ConversationScreen) beginHistory(sessionID string) tea.Cmd {
	task, ok := c.loader.Begin(sessionID)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return historyLoadedMsg(task(context.Background()))
	}
}

func typingTick() tea.Cmd {
	return tea.Tick(typingFrameInterval, func(t time.Time) tea.Msg {
		return typingTickMsg(t)
	})
}
