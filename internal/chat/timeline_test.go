package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimelineStartsWithGreeting(t *testing.T) {
	tl := NewTimeline()

	msgs := tl.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, SenderBot, msgs[0].Sender)
	assert.Equal(t, DefaultGreeting, msgs[0].Text)
	assert.False(t, msgs[0].IsTyping)
}

func TestAppendKeepsSingleTypingEntryLast(t *testing.T) {
	tl := NewTimeline()

	tl.Append(Message{Sender: SenderStudent, Text: "5 MCQs on exponents"})
	tl.Append(Message{Sender: SenderBot, IsTyping: true})
	tl.Append(Message{Sender: SenderBot, IsTyping: true})

	msgs := tl.Messages()
	require.Len(t, msgs, 3)
	assert.True(t, msgs[2].IsTyping)

	typing := 0
	for _, m := range msgs {
		if m.IsTyping {
			typing++
		}
	}
	assert.Equal(t, 1, typing)
}

func TestRemoveTyping(t *testing.T) {
	tl := NewTimeline()
	tl.Append(Message{Sender: SenderBot, IsTyping: true})

	assert.True(t, tl.RemoveTyping())
	assert.False(t, tl.HasTyping())
	assert.False(t, tl.RemoveTyping(), "second removal should be a no-op")
	assert.Equal(t, 1, tl.Len())
}

func TestReplaceAllDropsTypingAndBumpsGeneration(t *testing.T) {
	tl := NewTimeline()
	gen := tl.Generation()

	tl.ReplaceAll([]Message{
		{Sender: SenderBot, Text: "welcome back"},
		{Sender: SenderBot, IsTyping: true},
		{Sender: SenderStudent, Text: "hi"},
	})

	msgs := tl.Messages()
	require.Len(t, msgs, 2)
	assert.False(t, tl.HasTyping())
	assert.Greater(t, tl.Generation(), gen)
}

func TestResetRevertsToGreeting(t *testing.T) {
	tl := NewTimeline()
	tl.Append(Message{Sender: SenderStudent, Text: "hello"})
	gen := tl.Generation()

	tl.Reset()

	msgs := tl.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, DefaultGreeting, msgs[0].Text)
	assert.Greater(t, tl.Generation(), gen)
}

func TestMessagesReturnsCopy(t *testing.T) {
	tl := NewTimeline()
	msgs := tl.Messages()
	msgs[0].Text = "mutated"

	fresh, ok := tl.At(0)
	require.True(t, ok)
	assert.Equal(t, DefaultGreeting, fresh.Text)
}

func TestQuestionDecodesNumericAndStringFields(t *testing.T) {
	raw := `{
		"id": 731,
		"type": "MCQ",
		"question_text": "Which expression is equivalent?",
		"question_image_path": "images/q731.png",
		"correct_answer": 2,
		"subject": "Algebra I",
		"month": "June",
		"year": 2023
	}`

	var q Question
	require.NoError(t, json.Unmarshal([]byte(raw), &q))
	assert.Equal(t, FlexString("731"), q.ID)
	assert.Equal(t, FlexString("2"), q.CorrectAnswer)
	assert.Equal(t, MultipleChoice, q.Type)
	assert.Equal(t, "images/q731.png", q.QuestionImagePath)

	var q2 Question
	require.NoError(t, json.Unmarshal([]byte(`{"id":"q1","type":"CRQ","question_text":"Solve.","correct_answer":"x=4"}`), &q2))
	assert.Equal(t, FlexString("q1"), q2.ID)
	assert.Equal(t, FlexString("x=4"), q2.CorrectAnswer)
}

func TestHasQuiz(t *testing.T) {
	q := Question{ID: "q1", Type: MultipleChoice, CorrectAnswer: "2"}

	assert.True(t, Message{Sender: SenderBot, Questions: []Question{q}}.HasQuiz())
	assert.False(t, Message{Sender: SenderBot}.HasQuiz())
	assert.False(t, Message{Sender: SenderStudent, Questions: []Question{q}}.HasQuiz())
}
