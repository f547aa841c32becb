package survey

import (
	"context"
	"time"
)

// State is the lifecycle state of a Session.
type State int

const (
	// StateClosed is the initial and terminal state. No answers are held.
	StateClosed State = iota
	// StateActive accepts input and navigation.
	StateActive
	// StateSubmitting is the pending state while the submission call is in
	// flight. All input and navigation are ignored.
	StateSubmitting
)

var stateStrings = []string{
	"closed",
	"active",
	"submitting",
}

// String returns a human-readable label for the State.
func (s State) String() string {
	if int(s) < 0 || int(s) >= len(stateStrings) {
		return "unknown"
	}
	return stateStrings[s]
}

// Event type constants identify the lifecycle milestone of an Event. String
// values are used so events round-trip through the event log unchanged.
const (
	// EventStarted is emitted when a session starts.
	EventStarted = "started"

	// EventAnswered is emitted when an input changes the answers.
	EventAnswered = "answered"

	// EventAdvanced is emitted when the page index moves forward.
	EventAdvanced = "advanced"

	// EventRetreated is emitted when the page index moves back.
	EventRetreated = "retreated"

	// EventSubmitting is emitted when the final page is finished and the
	// submission call begins.
	EventSubmitting = "submitting"

	// EventSubmitted is emitted when the submission call succeeds.
	EventSubmitted = "submitted"

	// EventSubmitFailed is emitted when the submission call fails.
	EventSubmitFailed = "submit_failed"

	// EventSkipped is emitted when the respondent confirms skipping.
	EventSkipped = "skipped"

	// EventClosed is emitted whenever the session reaches StateClosed.
	EventClosed = "closed"

	// EventConditionError is emitted when a question's condition fails to
	// evaluate and the question is excluded.
	EventConditionError = "condition_error"
)

// Event is a structured message emitted by a Session. Events are sent over
// a channel for consumption by the event log and the terminal UI.
type Event struct {
	// Type is one of the Event* constants.
	Type string `json:"type"`

	// SessionID identifies the session instance.
	SessionID string `json:"session_id"`

	// Question is the question involved, if any.
	Question string `json:"question,omitempty"`

	// Key is the wire answer key changed by an EventAnswered.
	Key string `json:"key,omitempty"`

	// Value is the recorded value for EventAnswered. Toggles are rendered
	// as "+option" or "-option".
	Value string `json:"value,omitempty"`

	// PageIndex and PageCount locate the session after the event.
	PageIndex int `json:"page_index"`
	PageCount int `json:"page_count"`

	// Timestamp records when the event was emitted.
	Timestamp time.Time `json:"timestamp"`

	// Error holds the error message for EventSubmitFailed and
	// EventConditionError.
	Error string `json:"error,omitempty"`
}

// Submission is the body handed to a Submitter.
type Submission struct {
	// SessionID identifies the session that produced the answers.
	SessionID string
	// Catalogue is the catalogue name.
	Catalogue string
	// Timestamp is when the final page was finished.
	Timestamp time.Time
	// Responses holds every answer present at submission time.
	Responses Answers
}

// Submitter delivers a finished survey. Any error is logged by the session
// and otherwise ignored.
type Submitter interface {
	Submit(ctx context.Context, s Submission) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, s Submission) error

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, s Submission) error {
	return f(ctx, s)
}

// Confirmer asks the respondent a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}
