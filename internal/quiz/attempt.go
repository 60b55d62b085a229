// Package quiz drives a single run through an embedded question
// sequence: one question at a time, answer capture, correctness
// feedback, scoring and missed-question tracking.
package quiz

import (
	"github.com/arjunr/regchat/internal/chat"
)

// State is the phase of an attempt with respect to the current question.
type State int

const (
	// NotReady means the attempt has no questions and exposes no
	// transitions.
	NotReady State = iota

	// Answering means no evaluation has happened for the current
	// question yet.
	Answering

	// Revealed means correctness has been computed and feedback is
	// showing.
	Revealed

	// Complete is terminal: the last question has been advanced past.
	Complete
)

func (s State) String() string {
	switch s {
	case NotReady:
		return "not-ready"
	case Answering:
		return "answering"
	case Revealed:
		return "revealed"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Result is the final outcome reported when an attempt completes.
type Result struct {
	Score int
	Total int
}

// Attempt is one run through a question list. It holds per-attempt state
// only; the question list is treated as immutable and nothing here is
// persisted. A fresh attempt starts with an empty missed set regardless
// of earlier runs over the same questions.
type Attempt struct {
	questions []chat.Question
	index     int
	selected  string
	score     int
	missed    []string
	state     State

	lastCorrect bool
}

// NewAttempt starts an attempt over questions. An empty or nil list
// yields a not-ready attempt.
func NewAttempt(questions []chat.Question) *Attempt {
	a := &Attempt{questions: questions}
	if len(questions) == 0 {
		a.state = NotReady
	} else {
		a.state = Answering
	}
	return a
}

// State returns the current phase.
func (a *Attempt) State() State { return a.state }

// Index returns the 0-based position of the current question.
func (a *Attempt) Index() int { return a.index }

// Total returns the number of questions in the attempt.
func (a *Attempt) Total() int { return len(a.questions) }

// Score returns the count of correct answers so far.
func (a *Attempt) Score() int { return a.score }

// Selected returns the candidate answer for the current question, or ""
// when none has been chosen.
func (a *Attempt) Selected() string { return a.selected }

// LastCorrect reports whether the most recent Check was correct. Only
// meaningful in the Revealed state.
func (a *Attempt) LastCorrect() bool { return a.lastCorrect }

// MissedIDs returns the ids of questions whose first check was
// incorrect, in the order they were missed.
func (a *Attempt) MissedIDs() []string {
	out := make([]string, len(a.missed))
	copy(out, a.missed)
	return out
}

// Current returns the active question. ok is false when the attempt is
// not ready or complete.
func (a *Attempt) Current() (chat.Question, bool) {
	if a.state == NotReady || a.state == Complete {
		return chat.Question{}, false
	}
	return a.questions[a.index], true
}

// SelectAnswer stores value as the candidate answer for the current
// question. Valid only while answering; it does not change state.
func (a *Attempt) SelectAnswer(value string) bool {
	if a.state != Answering {
		return false
	}
	a.selected = value
	return true
}

// CanCheck reports whether Check is currently allowed. The check action
// stays disabled until an answer has been selected.
func (a *Attempt) CanCheck() bool {
	return a.state == Answering && a.selected != ""
}

// Check evaluates the selected answer against the current question's
// canonical answer and moves to Revealed. Correct answers bump the
// score; incorrect ones record the question id in the missed set.
func (a *Attempt) Check() (correct bool, ok bool) {
	if !a.CanCheck() {
		return false, false
	}

	q := a.questions[a.index]
	correct = answersEqual(a.selected, string(q.CorrectAnswer))
	a.lastCorrect = correct
	if correct {
		a.score++
	} else {
		a.missed = append(a.missed, string(q.ID))
	}
	a.state = Revealed
	return correct, true
}

// Advance clears the selection and moves to the next question, or
// completes the attempt when the current question was the last one. The
// returned Result is meaningful only when done is true; the caller is
// responsible for surfacing it and disposing of the attempt.
func (a *Attempt) Advance() (res Result, done bool, ok bool) {
	if a.state != Revealed {
		return Result{}, false, false
	}

	a.selected = ""
	if a.index+1 < len(a.questions) {
		a.index++
		a.state = Answering
		return Result{}, false, true
	}

	a.state = Complete
	return Result{Score: a.score, Total: len(a.questions)}, true, true
}

// answersEqual compares the selected value against the canonical answer
// as coerced strings, whatever the question type. Free-response answers
// must match exactly: no whitespace or case normalization.
func answersEqual(selected, correct string) bool {
	return selected == correct
}
