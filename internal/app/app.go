// Package app holds the root Bubble Tea model: the header/footer frame
// around the screen stack.
package app

import (
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/arjunr/regchat/internal/chat"
	"github.com/arjunr/regchat/internal/dispatch"
	"github.com/arjunr/regchat/internal/router"
	"github.com/arjunr/regchat/internal/screens/conversation"
	"github.com/arjunr/regchat/internal/screens/quizplayer"
	"github.com/arjunr/regchat/internal/ui/layout"
)

// Options carries the wired dependencies into the UI.
type Options struct {
	Timeline   *chat.Timeline
	Dispatcher *dispatch.Dispatcher
	Loader     *dispatch.Loader
	Sessions   conversation.SessionController
	Recorder   quizplayer.Recorder
	Logger     *slog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	sessions conversation.SessionController
	width    int
	height   int
}

func newAppModel(opts Options) AppModel {
	root := conversation.New(
		opts.Timeline,
		opts.Dispatcher,
		opts.Loader,
		opts.Sessions,
		opts.Recorder,
		opts.Logger,
	)
	return AppModel{
		router:   router.New(root),
		sessions: opts.Sessions,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	sessionTag := ""
	if m.sessions != nil {
		sessionTag = layout.ShortID(m.sessions.Current())
	}
	header := layout.RenderHeader(title, sessionTag, m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(router.KeyHintProvider); ok {
		footerHints = append(hp.KeyHints(), footerHints...)
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	return err
}
