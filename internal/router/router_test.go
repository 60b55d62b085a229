package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

type stubScreen struct {
	name    string
	updates int
}

func (s *stubScreen) Init() tea.Cmd { return nil }

func (s *stubScreen) Update(tea.Msg) (Screen, tea.Cmd) {
	s.updates++
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.name }
func (s *stubScreen) Title() string        { return s.name }

func TestPushPop(t *testing.T) {
	root := &stubScreen{name: "chat"}
	r := New(root)

	if r.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", r.Depth())
	}

	overlay := &stubScreen{name: "quiz"}
	r.Update(PushScreenMsg{Screen: overlay})
	if r.Depth() != 2 || r.Active() != overlay {
		t.Fatalf("overlay should be active after push")
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active() != root {
		t.Fatalf("root should be active after pop")
	}
}

func TestRootIsNeverPopped(t *testing.T) {
	root := &stubScreen{name: "chat"}
	r := New(root)

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active() != root {
		t.Fatalf("root must survive pop")
	}
}

func TestMessagesGoToActiveScreenOnly(t *testing.T) {
	root := &stubScreen{name: "chat"}
	overlay := &stubScreen{name: "quiz"}
	r := New(root)
	r.Push(overlay)

	r.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	if overlay.updates != 1 {
		t.Errorf("overlay should receive the message, got %d updates", overlay.updates)
	}
	if root.updates != 0 {
		t.Errorf("root should not receive the message, got %d updates", root.updates)
	}
}
