package eventlog

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/AbdelazizMoustafa10m/bacc/internal/survey"
)

// Recorder writes interactions to a Store. A nil Recorder, or one created
// with a nil store, records nothing, so callers do not need to check whether
// the event log is enabled.
type Recorder struct {
	store  *Store
	logger *log.Logger
	now    func() time.Time
}

// NewRecorder creates a Recorder. Write failures are logged to logger and
// otherwise ignored.
func NewRecorder(store *Store, logger *log.Logger) *Recorder {
	return &Recorder{store: store, logger: logger, now: time.Now}
}

// Record appends one entry.
func (r *Recorder) Record(source, action, field, value string) {
	r.write(Entry{Source: source, Action: action, Field: field, Value: value})
}

// Calculator records a calculator form interaction.
func (r *Recorder) Calculator(action, field, value string) {
	r.Record(SourceCalculator, action, field, value)
}

// Consume mirrors survey events into the log until events is closed or ctx
// is cancelled. Events still buffered in the channel when ctx is cancelled
// are drained first.
func (r *Recorder) Consume(ctx context.Context, events <-chan survey.Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			r.write(FromSurveyEvent(ev))
		case <-ctx.Done():
			for {
				select {
				case ev, ok := <-events:
					if !ok {
						return
					}
					r.write(FromSurveyEvent(ev))
				default:
					return
				}
			}
		}
	}
}

// FromSurveyEvent converts a survey event into a log entry. Field holds the
// answer key for answers and the question otherwise; Value holds the answer,
// the error, or the page position.
func FromSurveyEvent(ev survey.Event) Entry {
	e := Entry{
		Timestamp: ev.Timestamp,
		Source:    SourceSurvey,
		Action:    ev.Type,
		Field:     ev.Question,
		Session:   ev.SessionID,
	}
	switch {
	case ev.Type == survey.EventAnswered:
		e.Field = ev.Key
		e.Value = ev.Value
	case ev.Error != "":
		e.Value = ev.Error
	case ev.Type == survey.EventAdvanced || ev.Type == survey.EventRetreated || ev.Type == survey.EventStarted:
		e.Value = strconv.Itoa(ev.PageIndex+1) + "/" + strconv.Itoa(ev.PageCount)
	}
	return e
}

func (r *Recorder) write(e Entry) {
	if r == nil || r.store == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now().UTC()
	}
	if err := r.store.Append(e); err != nil && r.logger != nil {
		r.logger.Warn("event log write failed", "action", e.Action, "error", err)
	}
}
