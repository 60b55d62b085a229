package quizplayer

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/arjunr/regchat/internal/chat"
	"github.com/arjunr/regchat/internal/quiz"
	"github.com/arjunr/regchat/internal/ui/theme"
)

func (s *QuizPlayerScreen) View(width, height int) string {
	switch s.attempt.State() {
	case quiz.NotReady:
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\nLoading quiz…")
	case quiz.Complete:
		return s.renderComplete(width)
	default:
		return s.renderQuestion(width)
	}
}

func (s *QuizPlayerScreen) renderQuestion(width int) string {
	q, ok := s.attempt.Current()
	if !ok {
		return ""
	}

	var b strings.Builder

	// Progress on the left, display metadata on the right.
	left := theme.Title.Render(fmt.Sprintf("  Question %d of %d", s.attempt.Index()+1, s.attempt.Total()))
	right := theme.Hint.Render(metadataLine(q))
	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if pad < 1 {
		pad = 1
	}
	b.WriteString(left + strings.Repeat(" ", pad) + right)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if q.QuestionImagePath != "" {
		b.WriteString(theme.Hint.Render("  diagram: " + q.QuestionImagePath))
		b.WriteString("\n\n")
	}

	if q.QuestionText != "" {
		b.WriteString(theme.Body.Render("  " + q.QuestionText))
		b.WriteString("\n\n")
	}

	if s.attempt.State() == quiz.Revealed {
		b.WriteString(s.renderFeedback(q, width))
		return b.String()
	}

	if q.Type == chat.MultipleChoice {
		b.WriteString("  " + s.options.View())
	} else {
		b.WriteString("  Answer: " + s.input.View())
	}
	b.WriteString("\n\n")

	if s.attempt.CanCheck() {
		b.WriteString(theme.Hint.Render("  Enter to check your answer"))
	} else {
		b.WriteString(theme.Hint.Render("  Choose an answer first"))
	}

	return b.String()
}

func (s *QuizPlayerScreen) renderFeedback(q chat.Question, width int) string {
	var b strings.Builder

	if q.Type == chat.MultipleChoice {
		correct := optionIndex(string(q.CorrectAnswer))
		b.WriteString("  " + s.options.ViewRevealed(correct))
		b.WriteString("\n\n")
	}

	if s.attempt.LastCorrect() {
		b.WriteString("  " + theme.Correct.Render("✅ Correct!"))
	} else {
		b.WriteString("  " + theme.Incorrect.Render("❌ Incorrect.") +
			theme.Body.Render(" The correct answer was ") +
			theme.Correct.Render(string(q.CorrectAnswer)) +
			theme.Body.Render("."))
	}
	b.WriteString("\n\n")

	if s.attempt.Index() == s.attempt.Total()-1 {
		b.WriteString(theme.Hint.Render("  Enter to finish the quiz"))
	} else {
		b.WriteString(theme.Hint.Render("  Enter for the next question"))
	}
	return b.String()
}

func (s *QuizPlayerScreen) renderComplete(width int) string {
	var b strings.Builder

	b.WriteString("\n\n")
	headline := fmt.Sprintf("Quiz complete! Your score: %d/%d", s.result.Score, s.result.Total)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Bold(true).
		Render(headline))
	b.WriteString("\n\n")

	if missed := s.attempt.MissedIDs(); len(missed) > 0 {
		line := fmt.Sprintf("Missed questions: %s", strings.Join(missed, ", "))
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(line))
		b.WriteString("\n\n")
	}

	if s.saved {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Result saved. See `regchat stats`."))
		b.WriteString("\n")
	}

	return b.String()
}

// metadataLine formats "subject – month year" the way the question bank
// labels exams.
func metadataLine(q chat.Question) string {
	parts := []string{}
	if q.Subject != "" {
		parts = append(parts, q.Subject)
	}
	when := strings.TrimSpace(q.Month)
	if q.Year != 0 {
		when = strings.TrimSpace(fmt.Sprintf("%s %d", q.Month, q.Year))
	}
	if when != "" {
		parts = append(parts, when)
	}
	return strings.Join(parts, " – ")
}

// optionIndex parses a canonical multiple-choice answer into its 1-based
// option number; 0 when it isn't one.
func optionIndex(answer string) int {
	if len(answer) == 1 && answer[0] >= '1' && answer[0] <= '9' {
		return int(answer[0] - '0')
	}
	return 0
}
