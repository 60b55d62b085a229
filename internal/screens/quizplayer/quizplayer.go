// Package quizplayer is the quiz overlay: one question at a time over
// the questions embedded in a bot turn, with answer capture, feedback
// and a final score.
package quizplayer

import (
	"context"
	"log/slog"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/arjunr/regchat/internal/chat"
	"github.com/arjunr/regchat/internal/quiz"
	"github.com/arjunr/regchat/internal/router"
	"github.com/arjunr/regchat/internal/store"
	"github.com/arjunr/regchat/internal/ui/components"
	"github.com/arjunr/regchat/internal/ui/layout"
)

// Recorder persists finished quiz runs.
type Recorder interface {
	RecordAttempt(ctx context.Context, rec store.AttemptRecord) error
}

// FinishedMsg is delivered to the conversation screen after the overlay
// closes. Completed is false when the student bailed out early.
type FinishedMsg struct {
	Result    quiz.Result
	Completed bool
}

// savedMsg confirms attempt persistence finished.
type savedMsg struct {
	err error
}

// QuizPlayerScreen drives one quiz attempt.
type QuizPlayerScreen struct {
	attempt   *quiz.Attempt
	questions []chat.Question
	options   components.OptionBar
	input     components.ChatInput
	recorder  Recorder
	sessionID string
	logger    *slog.Logger

	result quiz.Result
	saved  bool
}

var _ router.Screen = (*QuizPlayerScreen)(nil)
var _ router.KeyHintProvider = (*QuizPlayerScreen)(nil)

// New creates the overlay for the given question list. The list is the
// overlay's own snapshot; later timeline changes cannot touch it.
func New(questions []chat.Question, recorder Recorder, sessionID string, logger *slog.Logger) *QuizPlayerScreen {
	if logger == nil {
		logger = slog.Default()
	}
	qs := make([]chat.Question, len(questions))
	copy(qs, questions)

	return &QuizPlayerScreen{
		attempt:   quiz.NewAttempt(qs),
		questions: qs,
		options:   components.NewOptionBar(chat.MCQOptionCount),
		input:     components.NewChatInput("Type your answer", 120),
		recorder:  recorder,
		sessionID: sessionID,
		logger:    logger,
	}
}

func (s *QuizPlayerScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *QuizPlayerScreen) Title() string {
	return "Quiz"
}

func (s *QuizPlayerScreen) KeyHints() []layout.KeyHint {
	switch s.attempt.State() {
	case quiz.Answering:
		q, _ := s.attempt.Current()
		hints := []layout.KeyHint{}
		if q.Type == chat.MultipleChoice {
			hints = append(hints, layout.KeyHint{Key: "1-4", Description: "Choose"})
		}
		return append(hints,
			layout.KeyHint{Key: "Enter", Description: "Check answer"},
			layout.KeyHint{Key: "Esc", Description: "Close"},
		)
	case quiz.Revealed:
		label := "Next question"
		if s.attempt.Index() == s.attempt.Total()-1 {
			label = "Finish quiz"
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: label},
			{Key: "Esc", Description: "Close"},
		}
	case quiz.Complete:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Back to chat"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Close"}}
}

func (s *QuizPlayerScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			s.logger.Warn("save quiz attempt failed", "error", msg.err)
		} else {
			s.saved = true
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Cursor blink and other input machinery.
	if q, ok := s.attempt.Current(); ok && q.Type == chat.FreeResponse {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizPlayerScreen) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	if msg.String() == "enter" {
		return s.handleEnter()
	}

	q, ok := s.attempt.Current()
	if !ok || s.attempt.State() != quiz.Answering {
		return s, nil
	}

	// Route keystrokes to the active answer control and mirror the
	// chosen value into the attempt.
	var cmd tea.Cmd
	if q.Type == chat.MultipleChoice {
		s.options, cmd = s.options.Update(msg)
		if s.options.Selected > 0 {
			s.attempt.SelectAnswer(strconv.Itoa(s.options.Selected))
		}
	} else {
		s.input, cmd = s.input.Update(msg)
		s.attempt.SelectAnswer(s.input.Value())
	}
	return s, cmd
}

func (s *QuizPlayerScreen) handleEnter() (router.Screen, tea.Cmd) {
	switch s.attempt.State() {
	case quiz.Answering:
		// Checking stays disabled until an answer is chosen.
		if _, ok := s.attempt.Check(); ok {
			s.options.Disabled = true
		}
		return s, nil

	case quiz.Revealed:
		res, done, _ := s.attempt.Advance()
		if done {
			s.result = res
			return s, s.persist(res)
		}
		s.options.Reset()
		s.input.Clear()
		return s, s.input.Focus()

	case quiz.Complete:
		return s, s.finish(true)
	}
	return s, nil
}

// persist writes the finished run to the local attempt log.
func (s *QuizPlayerScreen) persist(res quiz.Result) tea.Cmd {
	rec := store.AttemptRecord{
		SessionID: s.sessionID,
		Subject:   s.subject(),
		Score:     res.Score,
		Total:     res.Total,
		Missed:    len(s.attempt.MissedIDs()),
	}
	recorder := s.recorder
	return func() tea.Msg {
		if recorder == nil {
			return savedMsg{}
		}
		return savedMsg{err: recorder.RecordAttempt(context.Background(), rec)}
	}
}

func (s *QuizPlayerScreen) subject() string {
	if len(s.questions) > 0 {
		return s.questions[0].Subject
	}
	return ""
}

// finish closes the overlay and tells the conversation screen how the
// run ended.
func (s *QuizPlayerScreen) finish(completed bool) tea.Cmd {
	res := s.result
	return tea.Sequence(
		func() tea.Msg { return router.PopScreenMsg{} },
		func() tea.Msg { return FinishedMsg{Result: res, Completed: completed} },
	)
}
