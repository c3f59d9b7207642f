package play

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/morokoshi/quizlet/internal/quiz"
	"github.com/morokoshi/quizlet/internal/router"
	"github.com/morokoshi/quizlet/internal/screen"
	"github.com/morokoshi/quizlet/internal/screens/review"
	"github.com/morokoshi/quizlet/internal/ui/components"
	"github.com/morokoshi/quizlet/internal/ui/layout"
)

const inputLimit = 64

// Config carries the dependencies shared by every play screen.
type Config struct {
	Logger *zap.Logger

	// EngineOptions are applied after the screen's own scheduler and
	// logger, so quiz.WithScheduler(nil) here disables auto-dismiss.
	EngineOptions []quiz.Option
}

// PlayScreen runs one section through the quiz engine.
type PlayScreen struct {
	section *quiz.Section
	number  int
	engine  *quiz.Engine
	sched   *teaScheduler
	log     *zap.Logger

	choices components.MultiChoice
	input   components.TextInput
	retry   components.TextInput

	unsubscribe func()
	finished    bool
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.StatusProvider = (*PlayScreen)(nil)

// New creates a play screen for section. number is its 1-based position,
// used in the header. The section's status follows the engine.
func New(section *quiz.Section, number int, cfg Config) *PlayScreen {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("section", section.Title), zap.Int("number", number))

	sched := newTeaScheduler()
	opts := append([]quiz.Option{quiz.WithScheduler(sched), quiz.WithLogger(log)}, cfg.EngineOptions...)

	s := &PlayScreen{
		section: section,
		number:  number,
		engine:  section.NewEngine(opts...),
		sched:   sched,
		log:     log,
		input:   components.NewTextInput("答えを入力してください", inputLimit),
		retry:   components.NewTextInput("もう一度入力してください", inputLimit),
	}
	s.unsubscribe = s.engine.Subscribe(section.Observe)
	s.syncChoices()
	return s
}

// Engine exposes the running engine.
func (s *PlayScreen) Engine() *quiz.Engine {
	return s.engine
}

func (s *PlayScreen) Init() tea.Cmd {
	s.log.Info("section started", zap.Int("questions", s.engine.Remaining()))
	if s.engine.Done() {
		return s.finish()
	}
	return s.input.Init()
}

func (s *PlayScreen) Title() string {
	return fmt.Sprintf("第%d セクション  %s", s.number, s.section.Title)
}

func (s *PlayScreen) HeaderStatus() string {
	snap := s.engine.Snapshot()
	return fmt.Sprintf("スコア %d  残り %d", snap.Score, snap.Remaining)
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	snap := s.engine.Snapshot()
	switch {
	case snap.AwaitingRetry:
		return []layout.KeyHint{
			{Key: "Enter", Description: "再送信"},
			{Key: "Esc", Description: "Quit"},
		}
	case snap.Feedback != nil:
		return []layout.KeyHint{
			{Key: "Enter", Description: "次へ"},
			{Key: "Esc", Description: "Quit"},
		}
	case snap.Phase == quiz.PhaseMultipleChoice:
		return []layout.KeyHint{
			{Key: "1-9", Description: "Choose"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dismissTickMsg:
		if s.sched.fire(msg.id) {
			return s, s.afterChange()
		}
		return s, nil

	case components.ChoiceMsg:
		return s, s.apply("multiple choice", s.engine.SubmitMultipleChoice(msg.Value))

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Forward cursor blinks and the like to whichever input is visible.
	var cmd tea.Cmd
	if s.engine.IsAwaitingRetry() {
		s.retry, cmd = s.retry.Update(msg)
	} else {
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.finished {
		return s, nil
	}
	key := msg.String()
	snap := s.engine.Snapshot()

	// Feedback overlay: retry input or dismiss.
	if snap.Feedback != nil {
		if snap.AwaitingRetry {
			if key == "enter" {
				if s.retry.Value() == "" {
					return s, nil
				}
				return s, s.apply("retry", s.engine.SubmitRetry(s.retry.Value()))
			}
			var cmd tea.Cmd
			s.retry, cmd = s.retry.Update(msg)
			s.engine.SetInput(s.retry.Value())
			return s, cmd
		}
		switch key {
		case "enter", "space":
			s.engine.DismissFeedback()
			return s, s.afterChange()
		}
		return s, nil
	}

	switch snap.Phase {
	case quiz.PhaseMultipleChoice:
		var cmd tea.Cmd
		s.choices, cmd = s.choices.Update(msg)
		return s, cmd

	case quiz.PhaseTextEntry:
		if key == "enter" {
			if s.input.Value() == "" {
				return s, nil
			}
			return s, s.apply("text entry", s.engine.SubmitTextEntry(s.input.Value()))
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		s.engine.SetInput(s.input.Value())
		return s, cmd

	case quiz.PhaseDone:
		return s, s.finish()
	}
	return s, nil
}

// apply logs a rejected command and refreshes the screen after it.
func (s *PlayScreen) apply(what string, err error) tea.Cmd {
	if err != nil {
		s.log.Debug("submission rejected", zap.String("kind", what), zap.Error(err))
		return nil
	}
	return s.afterChange()
}

// afterChange brings the widgets in line with the engine and returns any
// timers the engine scheduled.
func (s *PlayScreen) afterChange() tea.Cmd {
	s.syncChoices()
	s.input.SetValue(s.engine.Input())
	if !s.engine.IsAwaitingRetry() {
		s.retry.SetValue("")
	}

	cmd := s.sched.drain()
	if s.engine.Done() && s.engine.CurrentFeedback() == nil {
		return tea.Batch(cmd, s.finish())
	}
	return cmd
}

func (s *PlayScreen) syncChoices() {
	q := s.engine.CurrentQuestion()
	if q == nil || !q.NeedsMultipleChoice() {
		s.choices = components.NewMultiChoice(nil)
		return
	}
	s.choices = components.NewMultiChoice(q.Choices)
}

// finish swaps this screen for the review of the finished section.
func (s *PlayScreen) finish() tea.Cmd {
	if s.finished {
		return nil
	}
	s.finished = true
	if s.unsubscribe != nil {
		s.unsubscribe()
	}

	snap := s.engine.Snapshot()
	s.log.Info("section finished",
		zap.Int("score", snap.Score),
		zap.Int("attempts", snap.Attempts),
	)
	result := review.FromSnapshot(s.section.Title, snap)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: review.New(result)}
	}
}
