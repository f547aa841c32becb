package survey

import (
	"encoding/json"
	"slices"
	"sort"
)

// Answer is the value stored under one AnswerKey: either a single string
// (SingleChoice, follow-up and other text) or an ordered, deduplicated list
// of options (MultiChoice).
type Answer struct {
	text    string
	choices []string
	multi   bool
}

// TextAnswer returns a single-string answer.
func TextAnswer(s string) Answer {
	return Answer{text: s}
}

// ChoicesAnswer returns a multi-choice answer holding the given options in
// order, dropping repeats after their first occurrence.
func ChoicesAnswer(options ...string) Answer {
	a := Answer{multi: true, choices: []string{}}
	for _, o := range options {
		if !slices.Contains(a.choices, o) {
			a.choices = append(a.choices, o)
		}
	}
	return a
}

// IsMulti reports whether the answer is a multi-choice list.
func (a Answer) IsMulti() bool { return a.multi }

// Text returns the single-string value, or "" for a multi-choice answer.
func (a Answer) Text() string { return a.text }

// Choices returns a copy of the selected options in first-selected order.
func (a Answer) Choices() []string {
	if !a.multi {
		return nil
	}
	return slices.Clone(a.choices)
}

// Has reports whether a multi-choice answer contains option.
func (a Answer) Has(option string) bool {
	return a.multi && slices.Contains(a.choices, option)
}

// MarshalJSON encodes a single answer as a JSON string and a multi-choice
// answer as a JSON array.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.multi {
		return json.Marshal(a.choices)
	}
	return json.Marshal(a.text)
}

// Answers is the accumulated response map of one session.
type Answers map[AnswerKey]Answer

// Get returns the answer stored under key.
func (a Answers) Get(key AnswerKey) (Answer, bool) {
	v, ok := a[key]
	return v, ok
}

// Value returns the single-string answer of a question's main field, or ""
// when the question is unanswered or multi-choice.
func (a Answers) Value(questionID string) string {
	return a[MainKey(questionID)].text
}

// Selected returns the multi-choice selection of a question's main field.
func (a Answers) Selected(questionID string) []string {
	return a[MainKey(questionID)].Choices()
}

// Clone returns a deep copy that shares no slices with a.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		if v.multi {
			v.choices = slices.Clone(v.choices)
		}
		out[k] = v
	}
	return out
}

// Keys returns the wire keys of every stored answer in sorted order.
func (a Answers) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON encodes the answers as an object keyed by wire key.
func (a Answers) MarshalJSON() ([]byte, error) {
	m := make(map[string]Answer, len(a))
	for k, v := range a {
		m[k.String()] = v
	}
	return json.Marshal(m)
}

// selectOption overwrites the main answer of a single-choice question.
func (a Answers) selectOption(questionID, option string) {
	a[MainKey(questionID)] = TextAnswer(option)
}

// toggleOption adds or removes option from a multi-choice selection.
// Checking an option already present and unchecking one that is absent
// leave the selection unchanged. It reports whether the selection changed.
func (a Answers) toggleOption(questionID, option string, checked bool) bool {
	key := MainKey(questionID)
	cur, ok := a[key]
	if !ok || !cur.multi {
		cur = ChoicesAnswer()
	}

	idx := slices.Index(cur.choices, option)
	switch {
	case checked && idx < 0:
		cur.choices = append(slices.Clone(cur.choices), option)
	case !checked && idx >= 0:
		cur.choices = slices.Delete(slices.Clone(cur.choices), idx, idx+1)
	default:
		return false
	}
	a[key] = cur
	return true
}

// setText overwrites a free-text answer. Empty text removes the key so that
// cleared fields are not submitted.
func (a Answers) setText(key AnswerKey, text string) {
	if text == "" {
		delete(a, key)
		return
	}
	a[key] = TextAnswer(text)
}
