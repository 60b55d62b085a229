package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/arjunr/regchat/internal/ui/theme"
)

// OptionBar is the horizontal 1–4 selector for multiple-choice answers.
// Multiple-choice questions always have exactly four options numbered 1
// through 4; the option text lives in the question image, so the bar
// shows only the numbers.
type OptionBar struct {
	Count    int
	Selected int // 1-based; 0 means nothing chosen yet
	Disabled bool
}

// NewOptionBar creates a bar with count options and no selection.
func NewOptionBar(count int) OptionBar {
	return OptionBar{Count: count}
}

// Update handles arrow keys and digit shortcuts.
func (o OptionBar) Update(msg tea.Msg) (OptionBar, tea.Cmd) {
	if o.Disabled {
		return o, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch key := kmsg.String(); key {
	case "left", "h":
		if o.Selected > 1 {
			o.Selected--
		} else if o.Selected == 0 {
			o.Selected = 1
		}
	case "right", "l":
		if o.Selected == 0 {
			o.Selected = 1
		} else if o.Selected < o.Count {
			o.Selected++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			n := int(key[0] - '0')
			if n <= o.Count {
				o.Selected = n
			}
		}
	}

	return o, nil
}

// View renders the bar.
func (o OptionBar) View() string {
	var b strings.Builder
	for i := 1; i <= o.Count; i++ {
		cell := fmt.Sprintf("[ %d ]", i)
		switch {
		case o.Disabled:
			b.WriteString(theme.Disabled.Render(cell))
		case i == o.Selected:
			b.WriteString(theme.Selected.Render(cell))
		default:
			b.WriteString(theme.Unselected.Render(cell))
		}
		if i < o.Count {
			b.WriteString("  ")
		}
	}
	return b.String()
}

// ViewRevealed renders the bar with correctness feedback: the correct
// option in green, a wrong pick in red.
func (o OptionBar) ViewRevealed(correct int) string {
	var b strings.Builder
	for i := 1; i <= o.Count; i++ {
		cell := fmt.Sprintf("[ %d ]", i)
		switch {
		case i == correct:
			b.WriteString(theme.Correct.Render(cell))
		case i == o.Selected:
			b.WriteString(theme.Incorrect.Render(cell))
		default:
			b.WriteString(theme.Disabled.Render(cell))
		}
		if i < o.Count {
			b.WriteString("  ")
		}
	}
	return b.String()
}

// Reset clears the selection.
func (o *OptionBar) Reset() {
	o.Selected = 0
	o.Disabled = false
}
