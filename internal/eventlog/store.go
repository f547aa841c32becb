// Package eventlog mirrors calculator and survey interactions into a local
// JSON-lines file that can be exported as CSV.
package eventlog

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry sources.
const (
	SourceCalculator = "calculator"
	SourceSurvey     = "survey"
)

// CSVHeader is the header row written by ExportCSV.
var CSVHeader = []string{"timestamp", "source", "action", "field", "value"}

// Entry is one recorded interaction.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Action    string    `json:"action"`
	Field     string    `json:"field,omitempty"`
	Value     string    `json:"value,omitempty"`
	Session   string    `json:"session,omitempty"`
}

// Store appends entries to a JSON-lines file. It is safe for concurrent use
// within one process.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store backed by path. The file and its directory are
// created on first append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Append writes entries to the end of the log. Entries without an ID or
// timestamp get one.
func (s *Store) Append(entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating event log directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening event log: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now().UTC()
		}
		if err := enc.Encode(e); err != nil {
			f.Close()
			return fmt.Errorf("writing event log entry: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing event log: %w", err)
	}
	return f.Close()
}

// Load reads every entry in file order. A missing file yields no entries.
// Malformed lines are skipped; an error is returned only when every
// non-empty line is malformed.
func (s *Store) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	defer f.Close()

	var (
		entries []Entry
		bad     int
	)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			bad++
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading event log: %w", err)
	}
	if len(entries) == 0 && bad > 0 {
		return nil, fmt.Errorf("reading event log: %d malformed lines", bad)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Clear removes the log file. Clearing a missing log is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clearing event log: %w", err)
	}
	return nil
}

// ExportCSV writes every entry to w as CSV with CSVHeader. It returns the
// number of entries written.
func (s *Store) ExportCSV(w io.Writer) (int, error) {
	entries, err := s.Load()
	if err != nil {
		return 0, err
	}
	return len(entries), WriteCSV(w, entries)
}

// WriteCSV writes entries as CSV with CSVHeader.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Source,
			e.Action,
			e.Field,
			e.Value,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
