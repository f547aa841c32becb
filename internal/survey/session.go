package survey

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// SkipPrompt is the confirmation question asked before a survey is skipped.
const SkipPrompt = "Skip the survey? Your answers will not be sent."

// InputKind selects how RecordAnswer interprets an Input.
type InputKind int

const (
	// InputSelect overwrites a single-choice answer with Value.
	InputSelect InputKind = iota
	// InputToggle adds (Checked) or removes Value from a multi-choice answer.
	InputToggle
	// InputText overwrites a follow-up or other free-text answer.
	InputText
)

// Input is one user input event routed to RecordAnswer.
type Input struct {
	Kind    InputKind
	Key     AnswerKey
	Value   string
	Checked bool
}

// Session is one respondent's pass through a Catalogue. The zero value is
// not usable; construct with NewSession. A Session is owned by a single view
// layer; its mutex only protects against the submission running on another
// goroutine.
type Session struct {
	catalogue *Catalogue
	submitter Submitter
	events    chan<- Event
	logger    *log.Logger
	now       func() time.Time

	mu        sync.Mutex
	id        string
	state     State
	pageIndex int
	answers   Answers
	// gen increments on every Start and Close so that a submission that
	// finishes after the session was restarted does not close the new one.
	gen uint64
	// reported holds questions whose condition errors were already logged
	// this session.
	reported map[string]bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSubmitter sets the collaborator that receives finished surveys.
func WithSubmitter(sub Submitter) SessionOption {
	return func(s *Session) { s.submitter = sub }
}

// WithEventChannel sets the channel on which the session broadcasts Events.
// The session uses a non-blocking send so a slow consumer never stalls input.
func WithEventChannel(ch chan<- Event) SessionOption {
	return func(s *Session) { s.events = ch }
}

// WithLogger attaches a charmbracelet/log Logger. When nil the session
// operates silently.
func WithLogger(logger *log.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// WithClock overrides the time source used for events and submission
// timestamps. Useful in tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates a closed session over the given catalogue. The
// catalogue must not be nil and must not be modified while sessions use it.
func NewSession(catalogue *Catalogue, opts ...SessionOption) *Session {
	s := &Session{
		catalogue: catalogue,
		now:       time.Now,
		state:     StateClosed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the identifier of the current or most recent session run.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PageIndex returns the current index into the active sequence.
func (s *Session) PageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageIndex
}

// Answers returns a copy of the current answers. It is empty when closed.
func (s *Session) Answers() Answers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// Catalogue returns the session's catalogue.
func (s *Session) Catalogue() *Catalogue {
	return s.catalogue
}

// Start resets the session to the first page with no answers. Any previous
// run is discarded; there is no resume.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.id = uuid.NewString()
	s.state = StateActive
	s.pageIndex = 0
	s.answers = Answers{}
	s.reported = map[string]bool{}

	count := len(s.available())
	s.emit(Event{Type: EventStarted, PageCount: count})
	s.log("survey started", "session", s.id, "catalogue", s.catalogue.Name, "pages", count)
}

// Available returns the active sequence: the catalogue questions whose
// conditions hold against the current answers, in catalogue order. The
// returned questions share option slices with the catalogue and must be
// treated as read-only.
func (s *Session) Available() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available()
}

// Render projects the page at pageIndex of the active sequence. It reports
// false when the session is not active or the index is out of range, which
// happens when a stale index outlives a recomputation that shrank the
// sequence.
func (s *Session) Render(pageIndex int) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(pageIndex)
}

// Current renders the page at the current index.
func (s *Session) Current() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(s.pageIndex)
}

// RecordAnswer applies one input event to the answers. It reports whether
// the answers changed. Unknown questions, unknown options, inputs that do
// not match the question's kind, and inputs received while not active are
// ignored.
func (s *Session) RecordAnswer(in Input) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return false
	}
	q, ok := s.catalogue.Lookup(in.Key.Question)
	if !ok {
		s.debug("input for unknown question ignored", "question", in.Key.Question)
		return false
	}

	value := in.Value
	switch in.Kind {
	case InputSelect:
		if in.Key.Field != FieldMain || q.Kind != KindSingleChoice || !q.HasOption(in.Value) {
			s.debug("select ignored", "question", q.ID, "option", in.Value)
			return false
		}
		if cur, ok := s.answers.Get(in.Key); ok && !cur.multi && cur.text == in.Value {
			return false
		}
		s.answers.selectOption(q.ID, in.Value)

	case InputToggle:
		if in.Key.Field != FieldMain || q.Kind != KindMultiChoice || !q.HasOption(in.Value) {
			s.debug("toggle ignored", "question", q.ID, "option", in.Value)
			return false
		}
		if !s.answers.toggleOption(q.ID, in.Value, in.Checked) {
			return false
		}
		if in.Checked {
			value = "+" + in.Value
		} else {
			value = "-" + in.Value
		}

	case InputText:
		if !acceptsText(q, in.Key.Field) {
			s.debug("free text ignored", "key", in.Key.String())
			return false
		}
		if cur, ok := s.answers.Get(in.Key); ok && cur.text == in.Value || !ok && in.Value == "" {
			return false
		}
		s.answers.setText(in.Key, in.Value)

	default:
		return false
	}

	s.emit(Event{Type: EventAnswered, Question: q.ID, Key: in.Key.String(), Value: value})
	s.clampLocked()
	return true
}

// clampLocked pulls the page index back onto the active sequence after an
// answer shrank it below the current page. The caller holds s.mu.
func (s *Session) clampLocked() {
	n := len(s.available())
	if n == 0 || s.pageIndex < n {
		return
	}
	s.debug("page index clamped", "from", s.pageIndex, "to", n-1)
	s.pageIndex = n - 1
}

// OnOptionSelected records a single-choice selection.
func (s *Session) OnOptionSelected(questionID, option string) bool {
	return s.RecordAnswer(Input{Kind: InputSelect, Key: MainKey(questionID), Value: option})
}

// OnOptionToggled records a multi-choice checkbox change.
func (s *Session) OnOptionToggled(questionID, option string, checked bool) bool {
	return s.RecordAnswer(Input{Kind: InputToggle, Key: MainKey(questionID), Value: option, Checked: checked})
}

// OnFreeTextChanged records follow-up or other text.
func (s *Session) OnFreeTextChanged(key AnswerKey, text string) bool {
	return s.RecordAnswer(Input{Kind: InputText, Key: key, Value: text})
}

// OnNext routes the Next/Finish button to Advance.
func (s *Session) OnNext(ctx context.Context) { s.Advance(ctx) }

// OnBack routes the Back button to Retreat.
func (s *Session) OnBack() { s.Retreat() }

// OnSkip routes the Skip button to Skip.
func (s *Session) OnSkip(c Confirmer) bool { return s.Skip(c) }

// OnClose routes the close action to Close.
func (s *Session) OnClose() { s.Close() }

// Advance moves to the next page of the active sequence. On the last page it
// submits the answers and closes the session regardless of the outcome.
// Advance blocks for the duration of the submission call; every other call
// made meanwhile sees StateSubmitting and is ignored.
func (s *Session) Advance(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}

	active := s.available()
	if last := len(active) - 1; last >= 0 && s.pageIndex != last {
		s.pageIndex++
		// Answers on the page just left may have changed the eligibility of
		// later questions. A stale index past the end lands on the last page.
		s.clampLocked()
		active = s.available()
		s.emit(Event{Type: EventAdvanced, PageCount: len(active)})
		s.debug("advanced", "page", s.pageIndex, "pages", len(active))
		s.mu.Unlock()
		return
	}

	s.state = StateSubmitting
	gen := s.gen
	sub := Submission{
		SessionID: s.id,
		Catalogue: s.catalogue.Name,
		Timestamp: s.now(),
		Responses: s.answers.Clone(),
	}
	s.emit(Event{Type: EventSubmitting, PageCount: len(active)})
	s.log("submitting survey", "session", s.id, "answers", len(sub.Responses))
	s.mu.Unlock()

	err := s.submit(ctx, sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.emit(Event{Type: EventSubmitFailed, Error: err.Error()})
		s.warn("survey submission failed", "session", sub.SessionID, "error", err)
	} else {
		s.emit(Event{Type: EventSubmitted})
		s.log("survey submitted", "session", sub.SessionID)
	}
	if s.gen == gen {
		s.closeLocked()
	}
}

// Retreat moves to the previous page. It is a no-op on the first page and
// never triggers submission. The result is clamped to the last active page.
func (s *Session) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive || s.pageIndex == 0 {
		return
	}
	s.pageIndex--
	s.clampLocked()
	s.emit(Event{Type: EventRetreated, PageCount: len(s.available())})
}

// Skip asks c to confirm and, on a yes, closes the session without
// submitting. A nil confirmer is treated as a no. Skip is permitted on the
// last page, where it simply discards the answers. It reports whether the
// session was skipped.
func (s *Session) Skip(c Confirmer) bool {
	s.mu.Lock()
	if s.state != StateActive || c == nil {
		s.mu.Unlock()
		return false
	}
	gen := s.gen
	s.mu.Unlock()

	// The prompt may block on the respondent; do not hold the lock.
	confirmed := c.Confirm(SkipPrompt)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !confirmed || s.gen != gen || s.state != StateActive {
		return false
	}
	s.emit(Event{Type: EventSkipped})
	s.log("survey skipped", "session", s.id)
	s.closeLocked()
	return true
}

// Close forces the session to StateClosed from any state, discarding the
// answers. A submission already in flight still completes but no longer
// affects the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.closeLocked()
}

// closeLocked transitions to StateClosed. Callers must hold s.mu.
func (s *Session) closeLocked() {
	s.gen++
	s.state = StateClosed
	s.pageIndex = 0
	s.answers = nil
	s.emit(Event{Type: EventClosed})
	s.debug("survey closed", "session", s.id)
}

// available computes the active sequence. Callers must hold s.mu.
func (s *Session) available() []Question {
	out := make([]Question, 0, len(s.catalogue.Questions))
	for i := range s.catalogue.Questions {
		q := &s.catalogue.Questions[i]
		ok, err := evaluate(q.When, s.answers)
		if err != nil {
			s.reportCondition(q, err)
			continue
		}
		if ok {
			out = append(out, *q)
		}
	}
	return out
}

// render projects one page. Callers must hold s.mu.
func (s *Session) render(pageIndex int) (View, bool) {
	if s.state != StateActive {
		return View{}, false
	}
	active := s.available()
	if pageIndex < 0 || pageIndex >= len(active) {
		return View{}, false
	}
	return newView(&active[pageIndex], pageIndex, len(active), s.answers), true
}

// submit calls the submitter with panics converted to errors.
func (s *Session) submit(ctx context.Context, sub Submission) (err error) {
	if s.submitter == nil {
		return fmt.Errorf("no submitter configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submitter panicked: %v", r)
		}
	}()
	return s.submitter.Submit(ctx, sub)
}

// reportCondition logs a condition error once per question per session.
func (s *Session) reportCondition(q *Question, err error) {
	if s.reported == nil {
		s.reported = map[string]bool{}
	}
	if s.reported[q.ID] {
		return
	}
	s.reported[q.ID] = true
	s.emit(Event{Type: EventConditionError, Question: q.ID, Error: err.Error()})
	s.warn("condition failed; question excluded", "question", q.ID, "error", err)
}

// acceptsText reports whether q has a free-text slot for field.
func acceptsText(q *Question, field Field) bool {
	switch field {
	case FieldFollowUp:
		return q.HasFollowUp && q.Kind != KindInfo
	case FieldOther:
		return q.AllowOther && q.Kind == KindMultiChoice
	default:
		return false
	}
}

// emit stamps ev with the session identity and position and sends it using
// a non-blocking select. Callers must hold s.mu.
func (s *Session) emit(ev Event) {
	if s.events == nil {
		return
	}
	ev.SessionID = s.id
	ev.PageIndex = s.pageIndex
	ev.Timestamp = s.now()
	select {
	case s.events <- ev:
	default:
	}
}

func (s *Session) log(msg string, kvs ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg, kvs...)
}

func (s *Session) debug(msg string, kvs ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(msg, kvs...)
}

func (s *Session) warn(msg string, kvs ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg, kvs...)
}
