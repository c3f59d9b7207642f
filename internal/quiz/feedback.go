package quiz

import "time"

// DefaultAutoDismissDelay is how long a successful retry stays on screen
// before the feedback is dismissed automatically.
const DefaultAutoDismissDelay = 1200 * time.Millisecond

// Feedback describes the outcome of the most recent submission.
type Feedback struct {
	Question      string
	UserAnswer    string
	CorrectAnswer string
	WasCorrect    bool

	// NeedsRetry is true when the feedback came from an incorrect text
	// entry. It stays true after the retry is answered correctly.
	NeedsRetry bool

	// RetryAttempts counts SubmitRetry calls against this feedback.
	RetryAttempts int

	// AutoDismissAfter is non-zero once a retry succeeded and the engine has
	// scheduled the feedback to close.
	AutoDismissAfter time.Duration
}

// AwaitingRetry reports whether the feedback still expects a retry answer.
func (f *Feedback) AwaitingRetry() bool {
	return f != nil && f.NeedsRetry && !f.WasCorrect
}

// Cancel stops a scheduled callback. Calling it after the callback ran, or
// more than once, is harmless.
type Cancel func()

// Scheduler runs fn once after d. Implementations decide which goroutine
// fn runs on, but must not call fn before Schedule returns.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Cancel
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, fn func()) Cancel

// Schedule calls f(d, fn).
func (f SchedulerFunc) Schedule(d time.Duration, fn func()) Cancel {
	return f(d, fn)
}

// TimeScheduler schedules callbacks with time.AfterFunc. Callbacks run on
// their own goroutine.
type TimeScheduler struct{}

// Schedule implements Scheduler.
func (TimeScheduler) Schedule(d time.Duration, fn func()) Cancel {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
