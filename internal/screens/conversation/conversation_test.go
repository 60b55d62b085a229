package conversation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/arjunr/regchat/internal/backend"
	"github.com/arjunr/regchat/internal/chat"
	"github.com/arjunr/regchat/internal/dispatch"
	"github.com/arjunr/regchat/internal/quiz"
	"github.com/arjunr/regchat/internal/router"
	"github.com/arjunr/regchat/internal/screens/quizplayer"
	"github.com/arjunr/regchat/internal/store"
)

// mockQueryClient implements dispatch.QueryClient for testing.
type mockQueryClient struct {
	resp *backend.QueryResponse
	err  error
}

func (m *mockQueryClient) Query(_ context.Context, _, _ string) (*backend.QueryResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// mockHistoryClient implements dispatch.HistoryClient for testing.
type mockHistoryClient struct {
	msgs []chat.Message
	err  error
}

func (m *mockHistoryClient) History(_ context.Context, _ string) ([]chat.Message, error) {
	return m.msgs, m.err
}

// mockSessions implements SessionController for testing.
type mockSessions struct {
	id       string
	resetTo  string
	resetErr error
}

func (m *mockSessions) Current() string { return m.id }

func (m *mockSessions) Reset(_ context.Context) (string, error) {
	if m.resetErr != nil {
		return "", m.resetErr
	}
	m.id = m.resetTo
	return m.id, nil
}

// mockRecorder implements quizplayer.Recorder for testing.
type mockRecorder struct{}

func (mockRecorder) RecordAttempt(_ context.Context, _ store.AttemptRecord) error { return nil }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func quizplayerFinished(score, total int) quizplayer.FinishedMsg {
	return quizplayer.FinishedMsg{
		Result:    quiz.Result{Score: score, Total: total},
		Completed: true,
	}
}

type fixture struct {
	screen   *ConversationScreen
	timeline *chat.Timeline
	sessions *mockSessions
}

func testFixture(query *mockQueryClient, history *mockHistoryClient) fixture {
	logger := discardLogger()
	timeline := chat.NewTimeline()
	sessions := &mockSessions{id: "sess-1", resetTo: "sess-2"}
	dispatcher := dispatch.New(timeline, query, sessions, logger)
	loader := dispatch.NewLoader(timeline, history, logger)
	scr := New(timeline, dispatcher, loader, sessions, mockRecorder{}, logger)
	scr.Init()
	return fixture{screen: scr, timeline: timeline, sessions: sessions}
}

func TestConversation_Title(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})
	if f.screen.Title() != "Chat" {
		t.Errorf("Title = %q, want %q", f.screen.Title(), "Chat")
	}
}

func TestConversation_HistoryInstalls(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	f.screen.Update(historyLoadedMsg{
		SessionID: "sess-1",
		Messages: []chat.Message{
			{Sender: chat.SenderBot, Text: "Welcome back"},
			{Sender: chat.SenderStudent, Text: "hi"},
		},
	})

	msgs := f.timeline.Messages()
	if len(msgs) != 2 || msgs[0].Text != "Welcome back" {
		t.Fatalf("expected restored history, got %+v", msgs)
	}
}

func TestConversation_HistoryFailureFallsBackToGreeting(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	f.screen.Update(historyLoadedMsg{SessionID: "sess-1", Err: errors.New("down")})

	msgs := f.timeline.Messages()
	if len(msgs) != 1 || msgs[0].Text != chat.DefaultGreeting {
		t.Fatalf("expected greeting fallback, got %+v", msgs)
	}
}

func TestConversation_SubmitAppendsTurnAndTyping(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	f.screen.input.Model.SetValue("5 MCQs on polynomials")
	_, cmd := f.screen.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a round-trip command")
	}

	msgs := f.timeline.Messages()
	last := msgs[len(msgs)-1]
	prev := msgs[len(msgs)-2]
	if !last.IsTyping {
		t.Error("expected typing placeholder at the end")
	}
	if prev.Sender != chat.SenderStudent || prev.Text != "5 MCQs on polynomials" {
		t.Errorf("expected student turn before placeholder, got %+v", prev)
	}
	if f.screen.input.Value() != "" {
		t.Error("input should clear after submit")
	}
}

func TestConversation_EmptySubmitIsNoOp(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	before := f.timeline.Len()
	_, cmd := f.screen.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("empty submit should produce no command")
	}
	if f.timeline.Len() != before {
		t.Error("empty submit must not touch the timeline")
	}
}

func TestConversation_QueryResultReplacesTyping(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	f.screen.input.Model.SetValue("quiz please")
	f.screen.Update(specialKey(tea.KeyEnter))

	f.screen.Update(queryDoneMsg{
		SessionID: "sess-1",
		Text:      "Here are your questions!",
		Questions: []chat.Question{{ID: "q1", Type: chat.MultipleChoice, CorrectAnswer: "1"}},
	})

	if f.timeline.HasTyping() {
		t.Error("typing placeholder should be gone")
	}
	last, _ := f.timeline.At(f.timeline.Len() - 1)
	if !last.HasQuiz() {
		t.Errorf("expected quiz-bearing bot turn, got %+v", last)
	}
}

func TestConversation_QueryFailureShowsErrorTurn(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	f.screen.input.Model.SetValue("quiz please")
	f.screen.Update(specialKey(tea.KeyEnter))
	f.screen.Update(queryDoneMsg{SessionID: "sess-1", Err: errors.New("boom")})

	last, _ := f.timeline.At(f.timeline.Len() - 1)
	if last.Text != dispatch.ErrorReply {
		t.Errorf("expected error turn %q, got %q", dispatch.ErrorReply, last.Text)
	}
}

func TestConversation_HelpShortcut(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	_, cmd := f.screen.Update(specialKey(tea.KeyF1))
	if cmd == nil {
		t.Fatal("expected a round-trip command from F1")
	}

	msgs := f.timeline.Messages()
	student := msgs[len(msgs)-2]
	if student.Sender != chat.SenderStudent || student.Text != "help" {
		t.Errorf("expected help query turn, got %+v", student)
	}
}

func TestConversation_SessionResetRestoresGreeting(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	// Put some conversation on the timeline first.
	f.screen.Update(historyLoadedMsg{
		SessionID: "sess-1",
		Messages:  []chat.Message{{Sender: chat.SenderStudent, Text: "old turn"}},
	})

	_, cmd := f.screen.Update(sessionResetMsg{ID: "sess-2"})

	msgs := f.timeline.Messages()
	if len(msgs) != 1 || msgs[0].Text != chat.DefaultGreeting {
		t.Fatalf("expected greeting after reset, got %+v", msgs)
	}
	if cmd == nil {
		t.Error("expected a history fetch for the new session")
	}
}

func TestConversation_SessionResetFailureKeepsTimeline(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	f.screen.Update(historyLoadedMsg{
		SessionID: "sess-1",
		Messages:  []chat.Message{{Sender: chat.SenderStudent, Text: "old turn"}},
	})

	f.screen.Update(sessionResetMsg{Err: errors.New("disk full")})

	msgs := f.timeline.Messages()
	if len(msgs) != 1 || msgs[0].Text != "old turn" {
		t.Fatalf("timeline must survive a failed reset, got %+v", msgs)
	}
	if f.screen.notice == "" {
		t.Error("expected a visible notice about the failed reset")
	}
}

func TestConversation_BrowseAndOpenQuiz(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	f.screen.Update(historyLoadedMsg{
		SessionID: "sess-1",
		Messages: []chat.Message{
			{Sender: chat.SenderBot, Text: chat.DefaultGreeting},
			{Sender: chat.SenderBot, Text: "Your quiz:", Questions: []chat.Question{
				{ID: "q1", Type: chat.MultipleChoice, CorrectAnswer: "2"},
			}},
		},
	})

	// Tab into browse mode lands on the quiz turn.
	f.screen.Update(specialKey(tea.KeyTab))
	if !f.screen.browsing {
		t.Fatal("expected browse mode after tab")
	}
	if f.screen.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (the quiz turn)", f.screen.cursor)
	}

	_, cmd := f.screen.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a push command on the quiz turn")
	}
	msg := cmd()
	if _, ok := msg.(router.PushScreenMsg); !ok {
		t.Errorf("expected PushScreenMsg, got %T", msg)
	}
}

func TestConversation_EnterOnPlainTurnIsInert(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	f.screen.Update(specialKey(tea.KeyTab))
	f.screen.cursor = 0 // the greeting

	_, cmd := f.screen.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("enter on a turn without questions must do nothing")
	}
}

func TestConversation_QuizFinishedShowsScore(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	f.screen.Update(quizplayerFinished(3, 5))
	if !strings.Contains(f.screen.notice, "3/5") {
		t.Errorf("notice = %q, want score 3/5", f.screen.notice)
	}
}

func TestConversation_ViewRendersTimelineAndInput(t *testing.T) {
	f := testFixture(&mockQueryClient{}, &mockHistoryClient{})

	view := f.screen.View(80, 24)
	if !strings.Contains(view, chat.DefaultGreeting) {
		t.Error("view should show the greeting")
	}
}
