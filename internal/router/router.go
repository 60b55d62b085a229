// Package router manages the stack of application screens: the chat
// conversation at the bottom, overlays such as the quiz player pushed on
// top.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/arjunr/regchat/internal/ui/layout"
)

// Screen is one full-content view. It renders everything between the
// header and the footer.
type Screen interface {
	// Init returns an initial command when the screen becomes active.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen plus a command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider lets a screen supply its own footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// PushScreenMsg asks the router to push a screen onto the stack.
type PushScreenMsg struct {
	Screen Screen
}

// PopScreenMsg asks the router to pop the active screen.
type PopScreenMsg struct{}

// Router is the screen stack.
type Router struct {
	stack []Screen
}

// New creates a router with the given root screen.
func New(root Screen) *Router {
	return &Router{stack: []Screen{root}}
}

// Push adds a screen on top of the stack and runs its Init.
func (r *Router) Push(s Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the active screen. The root screen is never popped.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Active returns the top of the stack.
func (r *Router) Active() Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update routes navigation messages, forwarding everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	}

	active := r.Active()
	if active == nil {
		return nil
	}

	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}
