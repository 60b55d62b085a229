package conversation

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/arjunr/regchat/internal/chat"
	"github.com/arjunr/regchat/internal/ui/theme"
)

var typingFrames = []string{"·", "··", "···"}

func (c *ConversationScreen) View(width, height int) string {
	inputView := c.renderInputBar(width)
	inputLines := lipgloss.Height(inputView)

	noticeView := ""
	noticeLines := 0
	if c.notice != "" {
		noticeView = theme.Hint.Render("  " + c.notice)
		noticeLines = 1
	}

	timelineHeight := height - inputLines - noticeLines - 1
	if timelineHeight < 1 {
		timelineHeight = 1
	}

	var b strings.Builder
	b.WriteString(c.renderTimeline(width, timelineHeight))
	b.WriteString("\n")
	if noticeView != "" {
		b.WriteString(noticeView)
		b.WriteString("\n")
	}
	b.WriteString(inputView)
	return b.String()
}

// renderTimeline renders as many of the newest turns as fit. While
// browsing, the window shifts so the cursor stays visible.
func (c *ConversationScreen) renderTimeline(width, height int) string {
	msgs := c.timeline.Messages()
	blocks := make([]string, len(msgs))
	for i, m := range msgs {
		blocks[i] = c.renderTurn(m, width, c.browsing && i == c.cursor)
	}

	start := len(blocks)
	used := 0
	for start > 0 {
		h := lipgloss.Height(blocks[start-1]) + 1
		if used+h > height {
			break
		}
		used += h
		start--
	}
	if c.browsing && c.cursor < start {
		start = c.cursor
	}

	var b strings.Builder
	for i := start; i < len(blocks); i++ {
		b.WriteString(blocks[i])
		if i < len(blocks)-1 {
			b.WriteString("\n\n")
		}
	}

	out := b.String()
	if lines := strings.Count(out, "\n") + 1; lines > height {
		parts := strings.Split(out, "\n")
		out = strings.Join(parts[:height], "\n")
	}
	return out
}

func (c *ConversationScreen) renderTurn(m chat.Message, width int, selected bool) string {
	textWidth := width - 6
	if textWidth < 10 {
		textWidth = 10
	}

	var b strings.Builder

	if m.IsTyping {
		frame := typingFrames[c.typingFrame%len(typingFrames)]
		b.WriteString("  " + theme.BotLabel.Render("Tutor"))
		b.WriteString("\n")
		b.WriteString("  " + theme.TypingDots.Render("Typing"+frame))
		return b.String()
	}

	label := theme.BotLabel.Render("Tutor")
	text := theme.BotText
	if m.Sender == chat.SenderStudent {
		label = theme.StudentLabel.Render("You")
		text = theme.StudentText
	}

	b.WriteString("  " + label)
	b.WriteString("\n")
	body := text.Width(textWidth).Render(m.Text)
	for _, line := range strings.Split(body, "\n") {
		b.WriteString("  " + line + "\n")
	}

	if m.HasQuiz() {
		tag := fmt.Sprintf("📝 %d question quiz", len(m.Questions))
		if len(m.Questions) != 1 {
			tag = fmt.Sprintf("📝 %d questions quiz", len(m.Questions))
		}
		b.WriteString("  " + theme.QuizTag.Render(tag))
		if selected {
			b.WriteString("  " + theme.Hint.Render("Enter to start"))
		}
	}

	out := strings.TrimRight(b.String(), "\n")
	if selected {
		out = theme.SelectedTurn.Render(out)
	}
	return out
}

func (c *ConversationScreen) renderInputBar(width int) string {
	style := theme.InputBar
	if c.browsing {
		style = theme.InputBarBlurred
	}
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	return style.Width(inner).Render(c.input.View())
}
