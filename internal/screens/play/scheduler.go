package play

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/morokoshi/quizlet/internal/quiz"
)

// dismissTickMsg fires when a scheduled auto-dismiss is due.
type dismissTickMsg struct {
	id int
}

// teaScheduler turns engine timers into tea.Tick commands so callbacks run
// on the UI goroutine. It is only touched from Update.
type teaScheduler struct {
	next    int
	pending map[int]func()
	queued  []tea.Cmd
}

var _ quiz.Scheduler = (*teaScheduler)(nil)

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{pending: make(map[int]func())}
}

// Schedule implements quiz.Scheduler. The tick is queued until drain.
func (s *teaScheduler) Schedule(d time.Duration, fn func()) quiz.Cancel {
	id := s.next
	s.next++
	s.pending[id] = fn
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return dismissTickMsg{id: id}
	}))
	return func() { delete(s.pending, id) }
}

// drain returns the ticks queued since the last call.
func (s *teaScheduler) drain() tea.Cmd {
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// fire runs the callback for id unless it was cancelled.
func (s *teaScheduler) fire(id int) bool {
	fn, ok := s.pending[id]
	if !ok {
		return false
	}
	delete(s.pending, id)
	fn()
	return true
}
