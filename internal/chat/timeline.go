package chat

// DefaultGreeting is the bot turn shown when there is no prior history.
const DefaultGreeting = "Hi there! How can I help you today?"

// Timeline is the ordered conversation log and the single owner of
// message state. The dispatcher, the history loader and the renderer all
// hold a reference to the same Timeline and mutate it only through this
// API. All mutation happens on the UI event loop, so no locking is done
// here.
//
// Invariant: at most one typing placeholder exists at any time, and it is
// always the last entry.
type Timeline struct {
	msgs       []Message
	generation int
}

// NewTimeline creates a timeline holding the default greeting.
func NewTimeline() *Timeline {
	t := &Timeline{}
	t.Reset()
	return t
}

// Append adds a turn at the end of the timeline. Appending a typing
// placeholder replaces any placeholder already present.
func (t *Timeline) Append(m Message) {
	if m.IsTyping {
		t.RemoveTyping()
	}
	t.msgs = append(t.msgs, m)
}

// RemoveTyping removes the typing placeholder if present and reports
// whether one was removed.
func (t *Timeline) RemoveTyping() bool {
	for i := len(t.msgs) - 1; i >= 0; i-- {
		if t.msgs[i].IsTyping {
			t.msgs = append(t.msgs[:i], t.msgs[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceAll installs msgs as the whole timeline, dropping any typing
// placeholders they may contain, and invalidates outstanding message
// references by bumping the generation.
func (t *Timeline) ReplaceAll(msgs []Message) {
	kept := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.IsTyping {
			continue
		}
		kept = append(kept, m)
	}
	t.msgs = kept
	t.generation++
}

// Reset reverts the timeline to the default greeting and invalidates
// outstanding message references.
func (t *Timeline) Reset() {
	t.msgs = []Message{{Sender: SenderBot, Text: DefaultGreeting}}
	t.generation++
}

// Messages returns a copy of the timeline in order.
func (t *Timeline) Messages() []Message {
	out := make([]Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

// Len returns the number of entries, including a typing placeholder.
func (t *Timeline) Len() int {
	return len(t.msgs)
}

// At returns the message at index i.
func (t *Timeline) At(i int) (Message, bool) {
	if i < 0 || i >= len(t.msgs) {
		return Message{}, false
	}
	return t.msgs[i], true
}

// HasTyping reports whether the typing placeholder is present.
func (t *Timeline) HasTyping() bool {
	for _, m := range t.msgs {
		if m.IsTyping {
			return true
		}
	}
	return false
}

// Generation increments whenever the timeline is replaced wholesale.
// Holders of message positions (such as an open quiz overlay) compare
// generations to detect that their reference is no longer valid.
func (t *Timeline) Generation() int {
	return t.generation
}
