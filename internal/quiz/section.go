package quiz

import "github.com/google/uuid"

// Section is a titled group of questions quizzed together.
type Section struct {
	ID        uuid.UUID
	Title     string
	Questions []Question
	Status    Status
}

// NewSection creates a section with a fresh ID.
func NewSection(title string, questions []Question) Section {
	return Section{
		ID:        uuid.New(),
		Title:     title,
		Questions: cloneAll(questions),
	}
}

// NewEngine starts a quiz over the section's questions.
func (s *Section) NewEngine(opts ...Option) *Engine {
	return New(s.Questions, opts...)
}

// Observe advances the section status from an engine snapshot. The first
// submission marks it Started; a finished quiz marks it Completed. Status
// never moves backwards, so replaying a completed section keeps its badge.
func (s *Section) Observe(snap Snapshot) {
	if snap.Attempts == 0 {
		return
	}
	target := Started
	if snap.Phase == PhaseDone {
		target = Completed
	}
	s.Status = s.Status.AdvanceTo(target)
}
