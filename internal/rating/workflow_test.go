package rating

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFailure struct{ msg string }

func (e *apiFailure) Error() string       { return "request failed: " + e.msg }
func (e *apiFailure) UserMessage() string { return e.msg }

type countingSubmitter struct {
	calls atomic.Int32
	err   error
	last  atomic.Value
}

func (s *countingSubmitter) SubmitRating(_ context.Context, targetID string, value int) error {
	s.calls.Add(1)
	s.last.Store(fmt.Sprintf("%s=%d", targetID, value))
	return s.err
}

func TestWorkflow_Open(t *testing.T) {
	t.Run("Should refuse users without the rating capability", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{}, false)

		err := w.Open(Target{ID: "s-1"})

		assert.ErrorIs(t, err, ErrNotPermitted)
		assert.Equal(t, StateClosed, w.State())
	})

	t.Run("Should seed the draft with the previous rating", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{}, true)

		require.NoError(t, w.Open(Target{ID: "s-1", Name: "Tea Room", PreviousRating: 3}))

		draft, open := w.Draft()
		require.True(t, open)
		assert.Equal(t, Draft{TargetID: "s-1", Value: 3}, draft)
		assert.Equal(t, StateOpen, w.State())
		assert.Equal(t, "Edit Your Rating", w.Title())
	})

	t.Run("Should title a first rating differently", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{}, true)
		require.NoError(t, w.Open(Target{ID: "s-2"}))
		assert.Equal(t, "Submit Rating", w.Title())
	})
}

func TestWorkflow_Submit(t *testing.T) {
	for _, value := range []int{0, 6, -1} {
		t.Run(fmt.Sprintf("Should reject %d without a network call", value), func(t *testing.T) {
			sub := &countingSubmitter{}
			w := NewWorkflow(sub, true)
			require.NoError(t, w.Open(Target{ID: "s-1"}))
			require.NoError(t, w.SetValue(value))

			s, err := w.Submit()

			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrInvalidRating)
			assert.Equal(t, StateOpenWithError, w.State())
			draft, _ := w.Draft()
			assert.Equal(t, MsgInvalidRating, draft.ValidationMessage)
			assert.Zero(t, sub.calls.Load())
		})
	}

	t.Run("Should reject an unset value", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{}, true)
		require.NoError(t, w.Open(Target{ID: "s-1"}))

		_, err := w.Submit()

		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	for value := MinValue; value <= MaxValue; value++ {
		t.Run(fmt.Sprintf("Should accept %d and close on success", value), func(t *testing.T) {
			sub := &countingSubmitter{}
			w := NewWorkflow(sub, true)
			require.NoError(t, w.Open(Target{ID: "s-1"}))
			require.NoError(t, w.SetValue(value))

			s, err := w.Submit()
			require.NoError(t, err)
			assert.Equal(t, StateSubmitting, w.State())
			outcome, applied := w.Resolve(s.Run(t.Context()))

			require.True(t, applied)
			assert.Equal(t, Outcome{Refresh: true, Notice: MsgSubmitted}, outcome)
			assert.Equal(t, StateClosed, w.State())
			_, open := w.Draft()
			assert.False(t, open)
			assert.Equal(t, int32(1), sub.calls.Load())
		})
	}

	t.Run("Should recover from a validation error once the value is fixed", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{}, true)
		require.NoError(t, w.Open(Target{ID: "s-1"}))
		_, err := w.Submit()
		require.ErrorIs(t, err, ErrInvalidRating)

		require.NoError(t, w.SetValue(4))
		s, err := w.Submit()

		require.NoError(t, err)
		require.NotNil(t, s)
		draft, _ := w.Draft()
		assert.Empty(t, draft.ValidationMessage)
	})

	t.Run("Should refuse a second submit while in flight", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{}, true)
		require.NoError(t, w.Open(Target{ID: "s-1", PreviousRating: 2}))
		_, err := w.Submit()
		require.NoError(t, err)

		_, err = w.Submit()
		assert.ErrorIs(t, err, ErrInFlight)
		assert.ErrorIs(t, w.SetValue(5), ErrInFlight)
	})

	t.Run("Should refuse to submit a closed dialog", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{}, true)
		_, err := w.Submit()
		assert.ErrorIs(t, err, ErrNotOpen)
		assert.ErrorIs(t, w.SetValue(3), ErrNotOpen)
	})
}

func TestWorkflow_Failure(t *testing.T) {
	t.Run("Should keep the dialog open with the server message and draft", func(t *testing.T) {
		sub := &countingSubmitter{err: fmt.Errorf("submit: %w", &apiFailure{msg: "Store is closed for ratings"})}
		w := NewWorkflow(sub, true)
		require.NoError(t, w.Open(Target{ID: "s-1"}))
		require.NoError(t, w.SetValue(4))
		s, err := w.Submit()
		require.NoError(t, err)

		outcome, applied := w.Resolve(s.Run(t.Context()))

		require.True(t, applied)
		assert.False(t, outcome.Refresh)
		assert.Equal(t, "Store is closed for ratings", outcome.Err)
		assert.Equal(t, StateOpenWithError, w.State())
		draft, _ := w.Draft()
		assert.Equal(t, 4, draft.Value)
		assert.Equal(t, "Store is closed for ratings", draft.ValidationMessage)
	})

	t.Run("Should fall back to the generic message", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{err: errors.New("timeout")}, true)
		require.NoError(t, w.Open(Target{ID: "s-1", PreviousRating: 1}))
		s, err := w.Submit()
		require.NoError(t, err)

		outcome, _ := w.Resolve(s.Run(t.Context()))

		assert.Equal(t, MsgSubmitFailed, outcome.Err)
	})
}

func TestWorkflow_Cancel(t *testing.T) {
	t.Run("Should discard the draft", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{}, true)
		require.NoError(t, w.Open(Target{ID: "s-1", PreviousRating: 3}))
		require.NoError(t, w.SetValue(5))

		w.Cancel()

		assert.Equal(t, StateClosed, w.State())
		_, open := w.Target()
		assert.False(t, open)
	})

	t.Run("Should ignore a submission resolved after cancel", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{}, true)
		require.NoError(t, w.Open(Target{ID: "s-1", PreviousRating: 3}))
		s, err := w.Submit()
		require.NoError(t, err)
		w.Cancel()

		_, applied := w.Resolve(s.Run(t.Context()))

		assert.False(t, applied)
		assert.Equal(t, StateClosed, w.State())
	})

	t.Run("Should ignore a stale submission after a new dialog opened", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{}, true)
		require.NoError(t, w.Open(Target{ID: "s-1", PreviousRating: 3}))
		stale, err := w.Submit()
		require.NoError(t, err)
		w.Cancel()
		require.NoError(t, w.Open(Target{ID: "s-2", PreviousRating: 2}))
		fresh, err := w.Submit()
		require.NoError(t, err)

		_, applied := w.Resolve(stale.Run(t.Context()))
		assert.False(t, applied)
		assert.Equal(t, StateSubmitting, w.State())

		_, applied = w.Resolve(fresh.Run(t.Context()))
		assert.True(t, applied)
	})
}

func TestWorkflow_Do(t *testing.T) {
	t.Run("Should change a previous rating of 3 to 5", func(t *testing.T) {
		sub := &countingSubmitter{}
		w := NewWorkflow(sub, true)

		outcome, err := w.Do(t.Context(), Target{ID: "s-9", PreviousRating: 3}, 5)

		require.NoError(t, err)
		assert.True(t, outcome.Refresh)
		assert.Equal(t, "s-9=5", sub.last.Load())
		assert.Equal(t, StateClosed, w.State())
	})

	t.Run("Should return the validation message and close", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{}, true)

		outcome, err := w.Do(t.Context(), Target{ID: "s-9"}, 9)

		assert.ErrorIs(t, err, ErrInvalidRating)
		assert.Equal(t, MsgInvalidRating, outcome.Err)
		assert.Equal(t, StateClosed, w.State())
	})

	t.Run("Should surface permission errors", func(t *testing.T) {
		_, err := NewWorkflow(&countingSubmitter{}, false).Do(t.Context(), Target{ID: "s-9"}, 4)
		assert.ErrorIs(t, err, ErrNotPermitted)
	})
}

func TestWorkflow_Adjust(t *testing.T) {
	t.Run("Should clamp adjustments to the valid range", func(t *testing.T) {
		w := NewWorkflow(&countingSubmitter{}, true)
		require.NoError(t, w.Open(Target{ID: "s-1", PreviousRating: 5}))

		require.NoError(t, w.Adjust(1))
		d, _ := w.Draft()
		assert.Equal(t, 5, d.Value)

		require.NoError(t, w.Adjust(-2))
		d, _ = w.Draft()
		assert.Equal(t, 3, d.Value)
	})
}
