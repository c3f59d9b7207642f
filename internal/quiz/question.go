package quiz

import (
	"errors"
	"fmt"
)

// ErrInvalidStatusTransition is returned when a status change skips a step
// or moves backwards.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// Status is the display lifecycle of a question or section.
type Status int

const (
	NotStarted Status = iota
	Started
	Completed
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Started:
		return "started"
	case Completed:
		return "completed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Glyph returns the single-character badge shown next to a section.
func (s Status) Glyph() string {
	switch s {
	case Started:
		return "◐"
	case Completed:
		return "●"
	}
	return "○"
}

// Transition moves s to the next status. Only NotStarted → Started and
// Started → Completed are allowed.
func (s Status) Transition(to Status) (Status, error) {
	if to != s+1 || to > Completed {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, s, to)
	}
	return to, nil
}

// AdvanceTo steps s forward one transition at a time until it reaches
// target. A target at or behind s leaves s unchanged.
func (s Status) AdvanceTo(target Status) Status {
	for s < target {
		next, err := s.Transition(s + 1)
		if err != nil {
			return s
		}
		s = next
	}
	return s
}

// Question is a single prompt plus its progress flags.
type Question struct {
	// Text is the prompt shown to the learner.
	Text string

	// Choices lists multiple-choice options. Empty means text entry only.
	Choices []string

	// CorrectAnswer is compared case-insensitively against submissions.
	CorrectAnswer string

	// MultipleChoiceCleared is set once the multiple-choice phase has been
	// answered correctly.
	MultipleChoiceCleared bool

	// Status is for display only and never affects routing.
	Status Status
}

// NewQuestion creates a question with no progress.
func NewQuestion(text string, choices []string, correctAnswer string) Question {
	return Question{
		Text:          text,
		Choices:       append([]string(nil), choices...),
		CorrectAnswer: correctAnswer,
	}
}

// NeedsMultipleChoice reports whether the question still presents its
// multiple-choice phase.
func (q Question) NeedsMultipleChoice() bool {
	return len(q.Choices) > 0 && !q.MultipleChoiceCleared
}

// clone returns a copy that does not share the Choices backing array.
func (q Question) clone() Question {
	q.Choices = append([]string(nil), q.Choices...)
	return q
}
