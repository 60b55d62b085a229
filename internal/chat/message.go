package chat

import (
	"encoding/json"
	"fmt"
)

// Sender identifies who authored a conversation turn.
type Sender string

const (
	SenderBot     Sender = "bot"
	SenderStudent Sender = "student"
)

// QuestionType mirrors the backend's question categories.
type QuestionType string

const (
	MultipleChoice QuestionType = "MCQ"
	FreeResponse   QuestionType = "CRQ"
)

// MCQOptionCount is the fixed number of answer options on a
// multiple-choice question. Options are numbered 1 through 4.
const MCQOptionCount = 4

// FlexString decodes from either a JSON string or a JSON number.
// The backend stores ids and answers as TEXT, but rows imported from the
// original question dump carry bare integers.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// Question is one practice question attached to a bot turn. Subject,
// month and year are display metadata only; grading looks at Type and
// CorrectAnswer.
type Question struct {
	ID   FlexString   `json:"id"`
	Type QuestionType `json:"type"`

	QuestionText string `json:"question_text"`

	// QuestionImagePath is a path relative to the API base. It is passed
	// through unmodified; resolving it is a rendering concern.
	QuestionImagePath string `json:"question_image_path,omitempty"`

	// CorrectAnswer is the canonical answer: an option index in 1..4 for
	// multiple choice, free text otherwise.
	CorrectAnswer FlexString `json:"correct_answer"`

	Subject string `json:"subject,omitempty"`
	Month   string `json:"month,omitempty"`
	Year    int    `json:"year,omitempty"`
}

// Message is one entry in the conversation timeline.
type Message struct {
	Sender Sender `json:"sender"`

	// Text may carry inline markup on bot turns. The backend is a trusted
	// source, so the text is rendered verbatim.
	Text string `json:"text"`

	// Questions is non-empty only on bot turns that carry a quiz.
	Questions []Question `json:"questions,omitempty"`

	// IsTyping marks the transient placeholder shown while a reply is in
	// flight. It is never persisted and never counted as a real turn.
	IsTyping bool `json:"-"`
}

// HasQuiz reports whether this turn carries questions to practice.
func (m Message) HasQuiz() bool {
	return m.Sender == SenderBot && len(m.Questions) > 0
}
