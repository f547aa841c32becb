// Package survey implements the conditional multi-page survey wizard.
//
// A Catalogue is a static, ordered list of Question definitions. A Session
// owns the mutable state of one pass through the catalogue: the current page
// index into the active sequence and the accumulated Answers. The active
// sequence is the subsequence of the catalogue whose conditions hold against
// the current answers; it is recomputed on every render and navigation.
//
// Sessions are driven by a view layer through the input contract
// (OnOptionSelected, OnOptionToggled, OnFreeTextChanged, OnNext, OnBack,
// OnSkip, OnClose) and read through Render. None of these calls return
// errors: stale page indexes are clamped, bad predicates exclude their
// question, and submission failures are logged before the session closes.
package survey

import "strings"

// Kind identifies how a question collects its answer.
type Kind int

const (
	// KindInfo is a display-only page with no answer.
	KindInfo Kind = iota
	// KindSingleChoice collects exactly one option.
	KindSingleChoice
	// KindMultiChoice collects an ordered set of options.
	KindMultiChoice
)

// kindStrings maps each Kind to its stable name, used in TOML catalogues and
// in event log output.
var kindStrings = []string{
	"info",
	"single",
	"multi",
}

// String returns the stable name of the kind, or "unknown".
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindStrings) {
		return "unknown"
	}
	return kindStrings[k]
}

// ParseKind converts a stable kind name back into a Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindStrings {
		if strings.EqualFold(s, name) {
			return Kind(i), true
		}
	}
	return KindInfo, false
}

// IsChoice reports whether questions of this kind carry options.
func (k Kind) IsChoice() bool {
	return k == KindSingleChoice || k == KindMultiChoice
}

// Question is an immutable question definition.
type Question struct {
	// ID is the unique, stable answer key of the question.
	ID string
	// Kind selects the answer shape.
	Kind Kind
	// Title is the heading shown for the page.
	Title string
	// Description is optional secondary text.
	Description string
	// Statement is optional emphasis text, e.g. the claim a Likert scale
	// asks the respondent to rate.
	Statement string
	// Content is the rich body of an Info page.
	Content string
	// Options lists the choices in display order. Order is semantic.
	Options []string
	// AllowOther accepts a free-text supplemental answer under the
	// FieldOther key (MultiChoice only).
	AllowOther bool
	// HasFollowUp collects a free-text elaboration under the FieldFollowUp
	// key regardless of the main answer.
	HasFollowUp bool
	// Required is advisory; the engine does not gate navigation on it.
	Required bool
	// When is the eligibility condition. Nil means always active.
	When Condition
}

// HasOption reports whether value is one of the question's options.
func (q *Question) HasOption(value string) bool {
	for _, o := range q.Options {
		if o == value {
			return true
		}
	}
	return false
}

// Field selects which answer slot of a question a key refers to.
type Field int

const (
	// FieldMain is the question's primary answer.
	FieldMain Field = iota
	// FieldFollowUp is the free-text follow-up answer.
	FieldFollowUp
	// FieldOther is the free-text "other" answer of a MultiChoice question.
	FieldOther
)

// Wire suffixes of the derived answer keys.
const (
	FollowUpSuffix = "_followup"
	OtherSuffix    = "_other"
)

// AnswerKey identifies one answer slot. Answers are stored under the struct
// value, so a question ID that happens to end in a wire suffix never aliases
// another question's derived key inside a session.
type AnswerKey struct {
	Question string
	Field    Field
}

// MainKey returns the key of a question's primary answer.
func MainKey(questionID string) AnswerKey {
	return AnswerKey{Question: questionID, Field: FieldMain}
}

// FollowUpKey returns the key of a question's follow-up text.
func FollowUpKey(questionID string) AnswerKey {
	return AnswerKey{Question: questionID, Field: FieldFollowUp}
}

// OtherKey returns the key of a question's "other" text.
func OtherKey(questionID string) AnswerKey {
	return AnswerKey{Question: questionID, Field: FieldOther}
}

// String returns the wire form of the key: "id", "id_followup" or
// "id_other".
func (k AnswerKey) String() string {
	switch k.Field {
	case FieldFollowUp:
		return k.Question + FollowUpSuffix
	case FieldOther:
		return k.Question + OtherSuffix
	default:
		return k.Question
	}
}
