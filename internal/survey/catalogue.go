package survey

import (
	"fmt"
	"strings"
)

// Catalogue is the static, ordered question script of a survey.
type Catalogue struct {
	// Name identifies the catalogue in logs and submissions.
	Name string
	// Questions is the full question list in display order.
	Questions []Question
}

// Lookup returns the question with the given ID.
func (c *Catalogue) Lookup(id string) (*Question, bool) {
	for i := range c.Questions {
		if c.Questions[i].ID == id {
			return &c.Questions[i], true
		}
	}
	return nil, false
}

// Issue code constants classify each CatalogueIssue.
const (
	// IssueEmpty is reported when the catalogue has no questions.
	IssueEmpty = "EMPTY_CATALOGUE"

	// IssueEmptyID is reported when a question has an empty ID.
	IssueEmptyID = "EMPTY_QUESTION_ID"

	// IssueDuplicateID is reported when two questions share an ID.
	IssueDuplicateID = "DUPLICATE_QUESTION_ID"

	// IssueKeyCollision is reported when a question ID equals the wire form
	// of another question's follow-up or other key.
	IssueKeyCollision = "ANSWER_KEY_COLLISION"

	// IssueNoOptions is reported when a choice question has no options.
	IssueNoOptions = "NO_OPTIONS"

	// IssueDuplicateOption is reported when a question repeats an option.
	IssueDuplicateOption = "DUPLICATE_OPTION"

	// IssueUnknownReference is reported when a condition reads a question
	// that is not in the catalogue.
	IssueUnknownReference = "UNKNOWN_CONDITION_REFERENCE"

	// IssueForwardReference is reported when a condition reads a question
	// that appears at or after the conditional question. Such a question can
	// only become eligible after the respondent navigates past it.
	IssueForwardReference = "FORWARD_CONDITION_REFERENCE"

	// IssueIgnoredAttribute is reported when a question sets an attribute
	// its kind does not use (options on Info, AllowOther on SingleChoice).
	IssueIgnoredAttribute = "IGNORED_ATTRIBUTE"
)

// CatalogueIssue describes one structural problem in a Catalogue.
type CatalogueIssue struct {
	// Code is one of the Issue* constants.
	Code string
	// Question is the ID of the question involved, or empty for
	// catalogue-level issues.
	Question string
	// Message is a human-readable description.
	Message string
}

// CatalogueValidation holds the outcome of Catalogue.Validate. Errors make
// the catalogue unusable; warnings do not.
type CatalogueValidation struct {
	Errors   []CatalogueIssue
	Warnings []CatalogueIssue
}

// IsValid reports whether no errors were found.
func (r *CatalogueValidation) IsValid() bool {
	return len(r.Errors) == 0
}

// String returns a multi-line summary of all issues.
func (r *CatalogueValidation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Errors (%d):\n", len(r.Errors))
	for _, issue := range r.Errors {
		writeIssue(&b, issue)
	}
	fmt.Fprintf(&b, "Warnings (%d):\n", len(r.Warnings))
	for _, issue := range r.Warnings {
		writeIssue(&b, issue)
	}
	return b.String()
}

func writeIssue(b *strings.Builder, issue CatalogueIssue) {
	if issue.Question != "" {
		fmt.Fprintf(b, "  [%s] question %q: %s\n", issue.Code, issue.Question, issue.Message)
	} else {
		fmt.Fprintf(b, "  [%s] %s\n", issue.Code, issue.Message)
	}
}

// Validate checks the catalogue for structural problems. It returns every
// issue found so callers get the complete picture in one pass.
func (c *Catalogue) Validate() *CatalogueValidation {
	r := &CatalogueValidation{}
	addErr := func(code, q, msg string) {
		r.Errors = append(r.Errors, CatalogueIssue{Code: code, Question: q, Message: msg})
	}
	addWarn := func(code, q, msg string) {
		r.Warnings = append(r.Warnings, CatalogueIssue{Code: code, Question: q, Message: msg})
	}

	if len(c.Questions) == 0 {
		addErr(IssueEmpty, "", "catalogue has no questions")
		return r
	}

	position := make(map[string]int, len(c.Questions))
	for i, q := range c.Questions {
		if q.ID == "" {
			addErr(IssueEmptyID, "", fmt.Sprintf("question at position %d has an empty id", i))
			continue
		}
		if _, dup := position[q.ID]; dup {
			addErr(IssueDuplicateID, q.ID, "id is used by more than one question")
			continue
		}
		position[q.ID] = i
	}

	// Derived wire keys must not shadow a real question ID in submissions.
	for _, q := range c.Questions {
		if q.ID == "" {
			continue
		}
		var derived []AnswerKey
		if q.HasFollowUp {
			derived = append(derived, FollowUpKey(q.ID))
		}
		if q.AllowOther {
			derived = append(derived, OtherKey(q.ID))
		}
		for _, k := range derived {
			if _, clash := position[k.String()]; clash {
				addErr(IssueKeyCollision, q.ID,
					fmt.Sprintf("derived answer key %q collides with a question id", k.String()))
			}
		}
	}

	for i, q := range c.Questions {
		if q.ID == "" {
			continue
		}
		switch q.Kind {
		case KindSingleChoice, KindMultiChoice:
			if len(q.Options) == 0 {
				addErr(IssueNoOptions, q.ID, fmt.Sprintf("%s question has no options", q.Kind))
			}
			seen := make(map[string]bool, len(q.Options))
			for _, o := range q.Options {
				if seen[o] {
					addErr(IssueDuplicateOption, q.ID, fmt.Sprintf("option %q is listed more than once", o))
				}
				seen[o] = true
			}
			if q.Kind == KindSingleChoice && q.AllowOther {
				addWarn(IssueIgnoredAttribute, q.ID, "allow_other only applies to multi-choice questions")
			}
		case KindInfo:
			if len(q.Options) > 0 || q.AllowOther || q.HasFollowUp {
				addWarn(IssueIgnoredAttribute, q.ID, "info pages do not collect answers")
			}
		}

		if q.When == nil {
			continue
		}
		for _, ref := range q.When.Questions() {
			pos, ok := position[ref]
			switch {
			case !ok:
				addErr(IssueUnknownReference, q.ID,
					fmt.Sprintf("condition %s reads unknown question %q", q.When, ref))
			case pos >= i:
				addWarn(IssueForwardReference, q.ID,
					fmt.Sprintf("condition %s reads question %q which is not before it", q.When, ref))
			}
		}
	}

	return r
}
