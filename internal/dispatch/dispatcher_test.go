package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunr/regchat/internal/backend"
	"github.com/arjunr/regchat/internal/chat"
)

type fakeQueryClient struct {
	resp *backend.QueryResponse
	err  error
	got  []string
}

func (c *fakeQueryClient) Query(_ context.Context, query, _ string) (*backend.QueryResponse, error) {
	c.got = append(c.got, query)
	if c.err != nil {
		return nil, c.err
	}
	return c.resp, nil
}

type fakeSessions struct{ id string }

func (s *fakeSessions) Current() string { return s.id }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDispatcher(client *fakeQueryClient, sessions *fakeSessions) (*Dispatcher, *chat.Timeline) {
	tl := chat.NewTimeline()
	return New(tl, client, sessions, discardLogger()), tl
}

func TestSubmitAppendsStudentTurnThenTyping(t *testing.T) {
	client := &fakeQueryClient{resp: &backend.QueryResponse{Response: "hello"}}
	d, tl := newTestDispatcher(client, &fakeSessions{id: "sid-1"})

	task, ok := d.Submit("  5 MCQs on exponents  ")
	require.True(t, ok)
	require.NotNil(t, task)
	assert.True(t, d.Busy())

	msgs := tl.Messages()
	require.Len(t, msgs, 3) // greeting, student, typing
	assert.Equal(t, chat.SenderStudent, msgs[1].Sender)
	assert.Equal(t, "5 MCQs on exponents", msgs[1].Text, "input is trimmed")
	assert.True(t, msgs[2].IsTyping)

	// No network traffic before the task runs.
	assert.Empty(t, client.got)
}

func TestSubmitEmptyInputIsNoOp(t *testing.T) {
	d, tl := newTestDispatcher(&fakeQueryClient{}, &fakeSessions{id: "sid-1"})

	for _, input := range []string{"", "   ", "\t\n"} {
		_, ok := d.Submit(input)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, tl.Len(), "timeline unchanged")
	assert.False(t, d.Busy())
}

func TestSubmitRejectedWhileBusy(t *testing.T) {
	client := &fakeQueryClient{resp: &backend.QueryResponse{Response: "ok"}}
	d, tl := newTestDispatcher(client, &fakeSessions{id: "sid-1"})

	task, ok := d.Submit("first")
	require.True(t, ok)

	_, ok = d.Submit("second")
	assert.False(t, ok, "one in-flight dispatch at a time")
	assert.Equal(t, 3, tl.Len())

	d.Resolve(task(context.Background()))
	_, ok = d.Submit("third")
	assert.True(t, ok, "gate clears after resolve")
}

func TestSuccessfulRoundTrip(t *testing.T) {
	q := chat.Question{ID: "q1", Type: chat.MultipleChoice, CorrectAnswer: "2"}
	client := &fakeQueryClient{resp: &backend.QueryResponse{
		Response:  "Here are your questions!",
		Questions: []chat.Question{q},
	}}
	d, tl := newTestDispatcher(client, &fakeSessions{id: "sid-1"})

	task, ok := d.Submit("5 MCQs")
	require.True(t, ok)
	d.Resolve(task(context.Background()))

	assert.False(t, d.Busy())
	assert.False(t, tl.HasTyping())

	msgs := tl.Messages()
	require.Len(t, msgs, 3) // greeting, student, bot
	last := msgs[2]
	assert.Equal(t, chat.SenderBot, last.Sender)
	assert.Equal(t, "Here are your questions!", last.Text)
	require.Len(t, last.Questions, 1)
	assert.Equal(t, chat.FlexString("q1"), last.Questions[0].ID)
}

func TestFailedRoundTripAppendsErrorTurn(t *testing.T) {
	client := &fakeQueryClient{err: &backend.TransportError{Op: "query", Err: errors.New("connection refused")}}
	d, tl := newTestDispatcher(client, &fakeSessions{id: "sid-1"})

	task, ok := d.Submit("5 MCQs")
	require.True(t, ok)
	d.Resolve(task(context.Background()))

	assert.False(t, d.Busy())
	assert.False(t, tl.HasTyping())

	msgs := tl.Messages()
	last := msgs[len(msgs)-1]
	assert.Equal(t, chat.SenderBot, last.Sender)
	assert.Equal(t, ErrorReply, last.Text)
	assert.Empty(t, last.Questions)
}

func TestStaleReplyAfterSessionResetIsDropped(t *testing.T) {
	client := &fakeQueryClient{resp: &backend.QueryResponse{Response: "stale reply"}}
	sessions := &fakeSessions{id: "sid-1"}
	d, tl := newTestDispatcher(client, sessions)

	task, ok := d.Submit("5 MCQs")
	require.True(t, ok)
	res := task(context.Background())

	// The session rotates while the reply is in flight; the UI resets
	// the timeline as part of the same flow.
	sessions.id = "sid-2"
	tl.Reset()

	d.Resolve(res)

	assert.False(t, d.Busy(), "gate clears even for dropped replies")
	msgs := tl.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, chat.DefaultGreeting, msgs[0].Text)
}
