package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// ChatInput wraps bubbles/textinput for the conversation input bar and
// the free-response answer field.
type ChatInput struct {
	Model textinput.Model
}

// NewChatInput creates a focused text input.
func NewChatInput(placeholder string, charLimit int) ChatInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return ChatInput{Model: ti}
}

// Init returns the initial command.
func (c ChatInput) Init() tea.Cmd {
	return c.Model.Focus()
}

// Update handles messages.
func (c ChatInput) Update(msg tea.Msg) (ChatInput, tea.Cmd) {
	var cmd tea.Cmd
	c.Model, cmd = c.Model.Update(msg)
	return c, cmd
}

// View renders the input.
func (c ChatInput) View() string {
	return c.Model.View()
}

// Value returns the current input text.
func (c ChatInput) Value() string {
	return c.Model.Value()
}

// Clear empties the input.
func (c *ChatInput) Clear() {
	c.Model.SetValue("")
}

// Focus gives the input keyboard focus.
func (c *ChatInput) Focus() tea.Cmd {
	return c.Model.Focus()
}

// Blur removes keyboard focus.
func (c *ChatInput) Blur() {
	c.Model.Blur()
}

// Focused reports whether the input has keyboard focus.
func (c ChatInput) Focused() bool {
	return c.Model.Focused()
}
