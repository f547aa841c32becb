package eventlog

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/bacc/internal/survey"
)

var ts = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), ".bacc", "events.jsonl"))
}

func TestStore_AppendAndLoad(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Append(
		Entry{Timestamp: ts, Source: SourceCalculator, Action: "change", Field: "rank", Value: "E-4"},
		Entry{Source: SourceCalculator, Action: "add_child", Field: "child-1"},
	))
	require.NoError(t, s.Append(Entry{Timestamp: ts, Source: SourceSurvey, Action: "started"}))

	entries, err := s.Load()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "rank", entries[0].Field)
	assert.Equal(t, ts, entries[0].Timestamp)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[1].Timestamp.IsZero(), "timestamp filled in")
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.Equal(t, SourceSurvey, entries[2].Source)
}

func TestStore_LoadMissingFile(t *testing.T) {
	t.Parallel()

	entries, err := newTestStore(t).Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_LoadSkipsMalformedLines(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Append(Entry{Timestamp: ts, Source: SourceCalculator, Action: "reset"}))

	f, err := os.OpenFile(s.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{truncated\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	entries, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_LoadAllMalformed(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("garbage\nmore garbage\n"), 0o644))

	_, err := s.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 malformed lines")
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Clear(), "clearing a missing log is fine")
	require.NoError(t, s.Append(Entry{Source: SourceCalculator, Action: "reset"}))
	require.NoError(t, s.Clear())

	entries, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_ExportCSV(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Append(
		Entry{Timestamp: ts, Source: SourceCalculator, Action: "change", Field: "location", Value: "High Cost"},
		Entry{Timestamp: ts.Add(time.Minute), Source: SourceSurvey, Action: "answered", Field: "spouseImpact_other", Value: "commute, \"long\""},
	))

	var buf bytes.Buffer
	n, err := s.ExportCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"2026-03-01T09:00:00Z", "calculator", "change", "location", "High Cost"}, rows[1])
	assert.Equal(t, "commute, \"long\"", rows[2][4], "values are quoted and round-trip")
}

func TestStore_ExportCSVEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := newTestStore(t).ExportCSV(&buf)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "timestamp,source,action,field,value\n", buf.String())
}

func TestStore_ConcurrentAppend(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Append(Entry{Source: SourceCalculator, Action: "change"}))
		}()
	}
	wg.Wait()

	entries, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestFromSurveyEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ev        survey.Event
		wantField string
		wantValue string
	}{
		{
			name:      "answered uses key and value",
			ev:        survey.Event{Type: survey.EventAnswered, Question: "spouseImpact", Key: "spouseImpact", Value: "+Work"},
			wantField: "spouseImpact",
			wantValue: "+Work",
		},
		{
			name:      "advanced records position",
			ev:        survey.Event{Type: survey.EventAdvanced, PageIndex: 1, PageCount: 4},
			wantValue: "2/4",
		},
		{
			name:      "failure records error",
			ev:        survey.Event{Type: survey.EventSubmitFailed, Error: "connection refused"},
			wantValue: "connection refused",
		},
		{
			name:      "condition error keeps question",
			ev:        survey.Event{Type: survey.EventConditionError, Question: "b", Error: "boom"},
			wantField: "b",
			wantValue: "boom",
		},
		{
			name: "closed",
			ev:   survey.Event{Type: survey.EventClosed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.ev.SessionID = "s1"
			tt.ev.Timestamp = ts
			e := FromSurveyEvent(tt.ev)
			assert.Equal(t, SourceSurvey, e.Source)
			assert.Equal(t, tt.ev.Type, e.Action)
			assert.Equal(t, tt.wantField, e.Field)
			assert.Equal(t, tt.wantValue, e.Value)
			assert.Equal(t, "s1", e.Session)
			assert.Equal(t, ts, e.Timestamp)
		})
	}
}

func TestRecorder_ConsumeSessionEvents(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	rec := NewRecorder(store, nil)

	events := make(chan survey.Event, 64)
	cat := &survey.Catalogue{Name: "c", Questions: []survey.Question{
		{ID: "q", Kind: survey.KindSingleChoice, Options: []string{"a", "b"}},
	}}
	s := survey.NewSession(cat,
		survey.WithEventChannel(events),
		survey.WithSubmitter(survey.SubmitterFunc(func(context.Context, survey.Submission) error { return nil })),
	)
	s.Start()
	s.OnOptionSelected("q", "b")
	s.OnNext(context.Background())
	close(events)

	rec.Consume(context.Background(), events)

	entries, err := store.Load()
	require.NoError(t, err)
	var actions []string
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{
		survey.EventStarted,
		survey.EventAnswered,
		survey.EventSubmitting,
		survey.EventSubmitted,
		survey.EventClosed,
	}, actions)
	assert.Equal(t, "b", entries[1].Value)
}

func TestRecorder_ConsumeDrainsOnCancel(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	rec := NewRecorder(store, nil)
	events := make(chan survey.Event, 4)
	events <- survey.Event{Type: survey.EventStarted}
	events <- survey.Event{Type: survey.EventClosed}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Consume(ctx, events)

	entries, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()

	var rec *Recorder
	assert.NotPanics(t, func() { rec.Calculator("change", "rank", "E-1") })

	rec = NewRecorder(nil, nil)
	assert.NotPanics(t, func() { rec.Record(SourceSurvey, "x", "", "") })
}

func TestRecorder_WriteFailureIsIgnored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// The log path sits under a regular file, so the directory cannot be created.
	rec := NewRecorder(NewStore(filepath.Join(blocker, "events.jsonl")), nil)
	assert.NotPanics(t, func() { rec.Calculator("change", "rank", "E-1") })
}
