// Package rating implements the rating dialog lifecycle: open with the
// user's previous rating, edit, validate, submit, and close.
package rating

import (
	"context"
	"errors"
	"sync"

	"github.com/storerate/storerate/internal/failure"
	"github.com/storerate/storerate/pkg/logger"
)

const (
	MinValue = 1
	MaxValue = 5
)

// User-facing messages
const (
	MsgNotPermitted  = "Only Normal Users can submit ratings."
	MsgInvalidRating = "Rating must be between 1 and 5 stars."
	MsgSubmitted     = "Rating submitted successfully!"
	MsgSubmitFailed  = "Failed to submit rating."
)

var (
	ErrNotPermitted  = errors.New("user may not submit ratings")
	ErrInvalidRating = errors.New("rating out of range")
	ErrNotOpen       = errors.New("rating dialog is not open")
	ErrInFlight      = errors.New("rating submission already in flight")
)

// State is the dialog state
type State int

const (
	StateClosed State = iota
	StateOpen
	StateSubmitting
	StateOpenWithError
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateSubmitting:
		return "submitting"
	case StateOpenWithError:
		return "open_with_error"
	default:
		return "unknown"
	}
}

// Target is the item being rated
type Target struct {
	ID   string
	Name string
	// PreviousRating is the user's existing rating, 0 when unset
	PreviousRating int
}

// Draft is the in-progress rating while the dialog is open
type Draft struct {
	TargetID          string
	Value             int
	ValidationMessage string
}

// Submitter sends a rating to the backend
type Submitter interface {
	SubmitRating(ctx context.Context, targetID string, value int) error
}

// SubmitterFunc adapts a function to Submitter
type SubmitterFunc func(ctx context.Context, targetID string, value int) error

func (f SubmitterFunc) SubmitRating(ctx context.Context, targetID string, value int) error {
	return f(ctx, targetID, value)
}

// Submission is a validated rating waiting to be sent.
type Submission struct {
	dialog    uint64
	targetID  string
	value     int
	submitter Submitter
}

// Run sends the rating; it blocks until the backend answers.
func (s *Submission) Run(ctx context.Context) Result {
	log := logger.FromContext(ctx)
	log.Debug("Submitting rating", "store_id", s.targetID, "rating", s.value)
	err := s.submitter.SubmitRating(ctx, s.targetID, s.value)
	if err != nil {
		log.Warn("Rating submission failed", "store_id", s.targetID, "error", err)
	}
	return Result{dialog: s.dialog, TargetID: s.targetID, Value: s.value, Err: err}
}

// Result is the backend's answer to a Submission
type Result struct {
	dialog   uint64
	TargetID string
	Value    int
	Err      error
}

// Outcome tells the caller what to do after a resolution
type Outcome struct {
	// Refresh asks the caller to re-fetch the list exactly once
	Refresh bool
	// Notice is a message for the page-level notice area
	Notice string
	// Err is the inline dialog error, empty on success
	Err string
}

// Workflow is the rating dialog state machine.
type Workflow struct {
	mu        sync.Mutex
	submitter Submitter
	canRate   bool
	state     State
	target    Target
	draft     Draft
	dialog    uint64
}

// NewWorkflow creates a closed workflow. canRate is the session's rating capability.
func NewWorkflow(submitter Submitter, canRate bool) *Workflow {
	return &Workflow{submitter: submitter, canRate: canRate}
}

// Open starts a dialog seeded with the target's previous rating.
func (w *Workflow) Open(target Target) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canRate {
		return ErrNotPermitted
	}
	w.dialog++
	w.state = StateOpen
	w.target = target
	w.draft = Draft{TargetID: target.ID, Value: target.PreviousRating}
	return nil
}

// SetValue changes the candidate rating. Range is checked on Submit.
func (w *Workflow) SetValue(v int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case StateOpen, StateOpenWithError:
		w.draft.Value = v
		return nil
	case StateSubmitting:
		return ErrInFlight
	default:
		return ErrNotOpen
	}
}

// Adjust moves the candidate rating by delta within the valid range.
func (w *Workflow) Adjust(delta int) error {
	w.mu.Lock()
	v := w.draft.Value + delta
	w.mu.Unlock()
	return w.SetValue(min(max(v, MinValue), MaxValue))
}

// Submit validates the draft. An out-of-range value keeps the dialog open
// with a validation message and makes no network call.
func (w *Workflow) Submit() (*Submission, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case StateClosed:
		return nil, ErrNotOpen
	case StateSubmitting:
		return nil, ErrInFlight
	}
	if w.draft.Value < MinValue || w.draft.Value > MaxValue {
		w.state = StateOpenWithError
		w.draft.ValidationMessage = MsgInvalidRating
		return nil, ErrInvalidRating
	}
	w.state = StateSubmitting
	w.draft.ValidationMessage = ""
	return &Submission{dialog: w.dialog, targetID: w.draft.TargetID, value: w.draft.Value, submitter: w.submitter}, nil
}

// Resolve applies a submission result. It returns false when the result
// belongs to a dialog that was cancelled or replaced.
func (w *Workflow) Resolve(r Result) (Outcome, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r.dialog != w.dialog || w.state != StateSubmitting {
		return Outcome{}, false
	}
	if r.Err != nil {
		msg := failure.Message(r.Err, MsgSubmitFailed)
		w.state = StateOpenWithError
		w.draft.ValidationMessage = msg
		return Outcome{Err: msg}, true
	}
	w.closeLocked()
	return Outcome{Refresh: true, Notice: MsgSubmitted}, true
}

// Cancel closes the dialog and discards the draft.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateClosed {
		return
	}
	// a new dialog id orphans any in-flight submission
	w.dialog++
	w.closeLocked()
}

// Do runs a whole dialog on the caller's goroutine.
func (w *Workflow) Do(ctx context.Context, target Target, value int) (Outcome, error) {
	if err := w.Open(target); err != nil {
		return Outcome{}, err
	}
	if err := w.SetValue(value); err != nil {
		return Outcome{}, err
	}
	sub, err := w.Submit()
	if err != nil {
		draft, _ := w.Draft()
		w.Cancel()
		return Outcome{Err: draft.ValidationMessage}, err
	}
	result := sub.Run(ctx)
	outcome, _ := w.Resolve(result)
	if result.Err != nil {
		w.Cancel()
		return outcome, result.Err
	}
	return outcome, nil
}

func (w *Workflow) closeLocked() {
	w.state = StateClosed
	w.target = Target{}
	w.draft = Draft{}
}

// State returns the dialog state
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Draft returns the open draft, false when the dialog is closed.
func (w *Workflow) Draft() (Draft, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft, w.state != StateClosed
}

// Target returns the item being rated, false when the dialog is closed.
func (w *Workflow) Target() (Target, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target, w.state != StateClosed
}

// Title is the dialog heading for the open target.
func (w *Workflow) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.target.PreviousRating > 0 {
		return "Edit Your Rating"
	}
	return "Submit Rating"
}

// CanRate reports the injected rating capability
func (w *Workflow) CanRate() bool {
	return w.canRate
}
