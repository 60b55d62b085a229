package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: blues with warm accents.
var (
	Primary   = lipgloss.Color("#2563EB") // Royal Blue
	Secondary = lipgloss.Color("#0D9488") // Teal
	Accent    = lipgloss.Color("#D97706") // Amber
	Success   = lipgloss.Color("#16A34A") // Green
	Error     = lipgloss.Color("#DC2626") // Red
	Text      = lipgloss.Color("#F1F5F9") // Off-white
	TextDim   = lipgloss.Color("#7C8BA1") // Slate
	BgCard    = lipgloss.Color("#172033") // Dark Navy
	Border    = lipgloss.Color("#2B3A55") // Steel
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Conversation bubbles
var (
	BotLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StudentLabel = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	BotText = lipgloss.NewStyle().
		Foreground(Text)

	StudentText = lipgloss.NewStyle().
			Foreground(Text)

	TypingDots = lipgloss.NewStyle().
			Foreground(TextDim)

	QuizTag = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	SelectedTurn = lipgloss.NewStyle().
			Background(BgCard).
			Bold(true)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(TextDim)
)

// Chrome
var (
	HeaderBar = lipgloss.NewStyle().
			Background(BgCard).
			Padding(0, 1)

	FooterBar = lipgloss.NewStyle().
			Background(BgCard).
			Padding(0, 1)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	InputBar = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputBarBlurred = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)
)
