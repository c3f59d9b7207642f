package quiz

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNoQuestion is returned by submissions once the queue is empty.
	ErrNoQuestion = errors.New("no current question")

	// ErrWrongPhase is returned when a submission does not match the
	// current question's phase.
	ErrWrongPhase = errors.New("submission does not match current phase")

	// ErrNotRetrying is returned by SubmitRetry when no retry is pending.
	ErrNotRetrying = errors.New("no retry pending")
)

// Phase is what the engine expects next.
type Phase int

const (
	PhaseDone           Phase = iota // Queue empty
	PhaseMultipleChoice              // Front question shows its choices
	PhaseTextEntry                   // Front question expects free text
	PhaseRetry                       // Last text entry was wrong; retry pending
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseMultipleChoice:
		return "multiple-choice"
	case PhaseTextEntry:
		return "text-entry"
	case PhaseRetry:
		return "retry"
	}
	return "done"
}

// Snapshot is a read-only copy of the engine state, delivered to
// subscribers after every change.
type Snapshot struct {
	Phase         Phase
	Current       *Question
	Remaining     int
	Completed     []Question
	Score         int
	Attempts      int
	Feedback      *Feedback
	AwaitingRetry bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithShuffle randomizes the initial queue order.
func WithShuffle(shuffle bool) Option {
	return func(e *Engine) { e.shuffle = shuffle }
}

// WithRand sets the random source used by WithShuffle.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithScheduler sets the scheduler used for the retry auto-dismiss. A nil
// scheduler disables auto-dismiss.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithAutoDismissDelay overrides DefaultAutoDismissDelay.
func WithAutoDismissDelay(d time.Duration) Option {
	return func(e *Engine) { e.delay = d }
}

// WithTrimSpace makes answer comparison ignore leading and trailing
// whitespace.
func WithTrimSpace(trim bool) Option {
	return func(e *Engine) { e.trimSpace = trim }
}

// WithLogger sets the logger for transition tracing.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine owns the question queue and the transient feedback state.
type Engine struct {
	mu sync.Mutex

	queue     []Question
	completed []Question
	score     int
	attempts  int
	input     string
	feedback  *Feedback

	// dismissGen invalidates scheduled auto-dismisses whenever the feedback
	// changes or is dismissed.
	dismissGen    uint64
	cancelDismiss Cancel

	shuffle   bool
	rng       *rand.Rand
	scheduler Scheduler
	delay     time.Duration
	trimSpace bool
	logger    *zap.Logger

	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// New creates an engine seeded with questions. The slice is copied.
func New(questions []Question, opts ...Option) *Engine {
	e := &Engine{
		scheduler:   TimeScheduler{},
		delay:       DefaultAutoDismissDelay,
		logger:      zap.NewNop(),
		subscribers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.queue = make([]Question, 0, len(questions))
	for _, q := range questions {
		e.queue = append(e.queue, q.clone())
	}
	if e.shuffle {
		r := e.rng
		if r == nil {
			r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		r.Shuffle(len(e.queue), func(i, j int) {
			e.queue[i], e.queue[j] = e.queue[j], e.queue[i]
		})
	}
	return e
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function removes the subscription.
func (e *Engine) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subscribers, id)
		e.mu.Unlock()
	}
}

// SubmitMultipleChoice answers the multiple-choice phase of the current
// question.
func (e *Engine) SubmitMultipleChoice(answer string) error {
	e.mu.Lock()
	q, err := e.front()
	if err == nil && (e.feedback.AwaitingRetry() || !q.NeedsMultipleChoice()) {
		err = ErrWrongPhase
	}
	if err != nil {
		e.mu.Unlock()
		return err
	}

	e.attempts++
	q.Status = q.Status.AdvanceTo(Started)
	correct := e.matches(answer, q.CorrectAnswer)
	if correct {
		e.score++
		q.MultipleChoiceCleared = true
	}
	e.rotate(q)
	e.input = ""
	e.setFeedback(&Feedback{
		Question:      q.Text,
		UserAnswer:    answer,
		CorrectAnswer: q.CorrectAnswer,
		WasCorrect:    correct,
	})

	e.logger.Debug("multiple choice submitted",
		zap.String("question", q.Text),
		zap.Bool("correct", correct),
		zap.Int("score", e.score),
	)
	e.unlockAndNotify()
	return nil
}

// SubmitTextEntry answers the free-text phase of the current question.
func (e *Engine) SubmitTextEntry(answer string) error {
	e.mu.Lock()
	q, err := e.front()
	if err == nil && (e.feedback.AwaitingRetry() || q.NeedsMultipleChoice()) {
		err = ErrWrongPhase
	}
	if err != nil {
		e.mu.Unlock()
		return err
	}

	e.attempts++
	q.Status = q.Status.AdvanceTo(Started)
	correct := e.matches(answer, q.CorrectAnswer)
	if correct {
		e.score++
		q.Status = q.Status.AdvanceTo(Completed)
		e.completed = append(e.completed, q)
		e.queue = e.queue[1:]
	} else {
		e.rotate(q)
	}
	e.input = ""
	e.setFeedback(&Feedback{
		Question:      q.Text,
		UserAnswer:    answer,
		CorrectAnswer: q.CorrectAnswer,
		WasCorrect:    correct,
		NeedsRetry:    !correct,
	})

	e.logger.Debug("text entry submitted",
		zap.String("question", q.Text),
		zap.Bool("correct", correct),
		zap.Int("score", e.score),
		zap.Int("remaining", len(e.queue)),
	)
	e.unlockAndNotify()
	return nil
}

// SubmitRetry answers the retry sub-phase opened by an incorrect text
// entry. The answer is checked against the feedback's correct answer, not
// the question now at the front of the queue.
func (e *Engine) SubmitRetry(answer string) error {
	e.mu.Lock()
	fb := e.feedback
	if !fb.AwaitingRetry() {
		e.mu.Unlock()
		return ErrNotRetrying
	}

	e.attempts++
	fb.RetryAttempts++
	fb.UserAnswer = answer
	fb.WasCorrect = e.matches(answer, fb.CorrectAnswer)
	e.input = ""

	if fb.WasCorrect {
		e.score++
		e.scheduleDismiss(fb)
	}

	e.logger.Debug("retry submitted",
		zap.String("question", fb.Question),
		zap.Bool("correct", fb.WasCorrect),
		zap.Int("attempt", fb.RetryAttempts),
	)
	e.unlockAndNotify()
	return nil
}

// DismissFeedback clears the feedback and any pending auto-dismiss. It is
// a no-op when no feedback is showing.
func (e *Engine) DismissFeedback() {
	e.mu.Lock()
	if e.feedback == nil {
		e.mu.Unlock()
		return
	}
	e.setFeedback(nil)
	e.unlockAndNotify()
}

// SetInput stores the learner's in-progress answer.
func (e *Engine) SetInput(s string) {
	e.mu.Lock()
	e.input = s
	e.mu.Unlock()
}

// Input returns the in-progress answer. Every submission clears it.
func (e *Engine) Input() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.input
}

// CurrentQuestion returns a copy of the front question, or nil when done.
func (e *Engine) CurrentQuestion() *Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return nil
	}
	q := e.queue[0].clone()
	return &q
}

// Score returns the number of correct submissions so far.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// CompletedQuestions returns the questions finished in text entry, in
// completion order.
func (e *Engine) CompletedQuestions() []Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneAll(e.completed)
}

// CurrentFeedback returns a copy of the showing feedback, or nil.
func (e *Engine) CurrentFeedback() *Feedback {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.feedback == nil {
		return nil
	}
	fb := *e.feedback
	return &fb
}

// IsAwaitingRetry reports whether SubmitRetry is currently accepted.
func (e *Engine) IsAwaitingRetry() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feedback.AwaitingRetry()
}

// Phase returns what the engine expects next.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase()
}

// Remaining returns the number of questions still queued.
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Done reports whether every question has been completed.
func (e *Engine) Done() bool {
	return e.Phase() == PhaseDone
}

// Snapshot returns a copy of the full engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) phase() Phase {
	switch {
	case len(e.queue) == 0:
		return PhaseDone
	case e.feedback.AwaitingRetry():
		return PhaseRetry
	case e.queue[0].NeedsMultipleChoice():
		return PhaseMultipleChoice
	}
	return PhaseTextEntry
}

func (e *Engine) snapshot() Snapshot {
	s := Snapshot{
		Phase:         e.phase(),
		Remaining:     len(e.queue),
		Completed:     cloneAll(e.completed),
		Score:         e.score,
		Attempts:      e.attempts,
		AwaitingRetry: e.feedback.AwaitingRetry(),
	}
	if len(e.queue) > 0 {
		q := e.queue[0].clone()
		s.Current = &q
	}
	if e.feedback != nil {
		fb := *e.feedback
		s.Feedback = &fb
	}
	return s
}

// front returns the current question. Caller holds e.mu.
func (e *Engine) front() (Question, error) {
	if len(e.queue) == 0 {
		return Question{}, ErrNoQuestion
	}
	return e.queue[0], nil
}

// rotate drops the front question and appends q at the back.
func (e *Engine) rotate(q Question) {
	e.queue = append(e.queue[1:], q)
}

func (e *Engine) matches(answer, correct string) bool {
	if e.trimSpace {
		answer = strings.TrimSpace(answer)
		correct = strings.TrimSpace(correct)
	}
	return strings.ToLower(answer) == strings.ToLower(correct)
}

// setFeedback replaces the feedback and invalidates any pending
// auto-dismiss.
func (e *Engine) setFeedback(fb *Feedback) {
	if e.cancelDismiss != nil {
		e.cancelDismiss()
		e.cancelDismiss = nil
	}
	e.dismissGen++
	e.feedback = fb
}

func (e *Engine) scheduleDismiss(fb *Feedback) {
	if e.scheduler == nil {
		return
	}
	fb.AutoDismissAfter = e.delay
	gen := e.dismissGen
	e.cancelDismiss = e.scheduler.Schedule(e.delay, func() {
		e.autoDismiss(gen)
	})
}

func (e *Engine) autoDismiss(gen uint64) {
	e.mu.Lock()
	if e.feedback == nil || e.dismissGen != gen {
		e.mu.Unlock()
		return
	}
	e.cancelDismiss = nil
	e.setFeedback(nil)
	e.logger.Debug("feedback auto-dismissed")
	e.unlockAndNotify()
}

// unlockAndNotify releases e.mu and delivers a snapshot to subscribers
// outside the lock so they may call back into the engine.
func (e *Engine) unlockAndNotify() {
	snap := e.snapshot()
	subs := make([]func(Snapshot), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		subs = append(subs, fn)
	}
	e.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func cloneAll(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.clone()
	}
	return out
}
