package quiz

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		want    Status
		wantErr bool
	}{
		{"start", NotStarted, Started, Started, false},
		{"complete", Started, Completed, Completed, false},
		{"skip", NotStarted, Completed, NotStarted, true},
		{"reverse", Completed, Started, Completed, true},
		{"same", Started, Started, Started, true},
		{"past end", Completed, Completed + 1, Completed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Transition(tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidStatusTransition))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusAdvanceTo(t *testing.T) {
	assert.Equal(t, Completed, NotStarted.AdvanceTo(Completed))
	assert.Equal(t, Started, NotStarted.AdvanceTo(Started))
	assert.Equal(t, Completed, Completed.AdvanceTo(Started))
	assert.Equal(t, "○", NotStarted.Glyph())
	assert.Equal(t, "●", Completed.Glyph())
	assert.Equal(t, "started", Started.String())
}

func TestSectionObserve(t *testing.T) {
	s := NewSection("第1セクション", []Question{NewQuestion("Q1", []string{"var", "let"}, "var")})
	require.NotEqual(t, uuid.Nil, s.ID)

	e := s.NewEngine(WithScheduler(nil))
	e.Subscribe(s.Observe)
	assert.Equal(t, NotStarted, s.Status)

	require.NoError(t, e.SubmitMultipleChoice("let"))
	assert.Equal(t, Started, s.Status)

	require.NoError(t, e.SubmitMultipleChoice("var"))
	require.NoError(t, e.SubmitTextEntry("VAR"))
	assert.Equal(t, Completed, s.Status)

	// Replaying a completed section keeps its badge.
	again := s.NewEngine(WithScheduler(nil))
	again.Subscribe(s.Observe)
	require.NoError(t, again.SubmitMultipleChoice("let"))
	assert.Equal(t, Completed, s.Status)
}

func TestSectionQuestionsAreIndependent(t *testing.T) {
	s := NewSection("s", []Question{NewQuestion("Q1", []string{"a"}, "a")})
	e := s.NewEngine(WithScheduler(nil))
	require.NoError(t, e.SubmitMultipleChoice("a"))

	assert.False(t, s.Questions[0].MultipleChoiceCleared, "engine progress leaked into section")
}

func TestTimeScheduler_AutoDismiss(t *testing.T) {
	e := New([]Question{NewQuestion("Q1", nil, "let")},
		WithScheduler(TimeScheduler{}),
		WithAutoDismissDelay(10*time.Millisecond),
	)
	require.NoError(t, e.SubmitTextEntry("x"))
	require.NoError(t, e.SubmitRetry("let"))

	require.Eventually(t, func() bool {
		return e.CurrentFeedback() == nil
	}, time.Second, 5*time.Millisecond)
}
