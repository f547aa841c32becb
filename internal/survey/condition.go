package survey

import (
	"errors"
	"fmt"
	"strings"
)

// Condition decides whether a question belongs to the active sequence.
// Implementations must be pure functions of the answers and must treat
// absent keys as "not yet answered".
type Condition interface {
	// Evaluate reports whether the condition holds. A non-nil error is a
	// configuration error; the engine treats it as false.
	Evaluate(a Answers) (bool, error)

	// Questions returns the IDs of the questions the condition reads. Used
	// by catalogue validation.
	Questions() []string

	// String returns a short human-readable form for logs.
	String() string
}

// ConditionError reports a condition that could not be evaluated.
type ConditionError struct {
	Condition string
	Message   string
	Cause     error
}

func (e *ConditionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("condition %q: %s: %v", e.Condition, e.Message, e.Cause)
	}
	return fmt.Sprintf("condition %q: %s", e.Condition, e.Message)
}

func (e *ConditionError) Unwrap() error {
	return e.Cause
}

// IsConditionError checks if an error is a ConditionError.
func IsConditionError(err error) bool {
	var ce *ConditionError
	return errors.As(err, &ce)
}

// Equals holds when the single-choice answer of Question is exactly Value.
// An unanswered question never equals anything.
type Equals struct {
	Question string
	Value    string
}

func (c Equals) Evaluate(a Answers) (bool, error) {
	v, ok := a[MainKey(c.Question)]
	if !ok {
		return false, nil
	}
	if v.multi {
		return false, &ConditionError{
			Condition: c.String(),
			Message:   "equals cannot compare a multi-choice answer; use includes",
		}
	}
	return v.text == c.Value, nil
}

func (c Equals) Questions() []string { return []string{c.Question} }

func (c Equals) String() string { return fmt.Sprintf("%s == %q", c.Question, c.Value) }

// NotEquals holds when Question is unanswered or answered with anything
// other than Value.
type NotEquals struct {
	Question string
	Value    string
}

func (c NotEquals) Evaluate(a Answers) (bool, error) {
	eq, err := Equals(c).Evaluate(a)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

func (c NotEquals) Questions() []string { return []string{c.Question} }

func (c NotEquals) String() string { return fmt.Sprintf("%s != %q", c.Question, c.Value) }

// Includes holds when the multi-choice selection of Question contains
// Value. A single-choice answer equal to Value also satisfies it.
type Includes struct {
	Question string
	Value    string
}

func (c Includes) Evaluate(a Answers) (bool, error) {
	v, ok := a[MainKey(c.Question)]
	if !ok {
		return false, nil
	}
	if v.multi {
		return v.Has(c.Value), nil
	}
	return v.text == c.Value, nil
}

func (c Includes) Questions() []string { return []string{c.Question} }

func (c Includes) String() string { return fmt.Sprintf("%s includes %q", c.Question, c.Value) }

// Answered holds when Question has a non-empty main answer.
type Answered struct {
	Question string
}

func (c Answered) Evaluate(a Answers) (bool, error) {
	v, ok := a[MainKey(c.Question)]
	if !ok {
		return false, nil
	}
	if v.multi {
		return len(v.choices) > 0, nil
	}
	return v.text != "", nil
}

func (c Answered) Questions() []string { return []string{c.Question} }

func (c Answered) String() string { return c.Question + " answered" }

// Not negates a condition. Errors propagate unchanged.
type Not struct {
	Cond Condition
}

func (c Not) Evaluate(a Answers) (bool, error) {
	if c.Cond == nil {
		return false, &ConditionError{Condition: c.String(), Message: "not has no operand"}
	}
	ok, err := c.Cond.Evaluate(a)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (c Not) Questions() []string {
	if c.Cond == nil {
		return nil
	}
	return c.Cond.Questions()
}

func (c Not) String() string {
	if c.Cond == nil {
		return "not(<nil>)"
	}
	return "not(" + c.Cond.String() + ")"
}

// AllOf holds when every member holds. An empty AllOf holds.
type AllOf []Condition

func (c AllOf) Evaluate(a Answers) (bool, error) {
	for _, m := range c {
		ok, err := m.Evaluate(a)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (c AllOf) Questions() []string { return collectQuestions(c) }

func (c AllOf) String() string { return joinConditions("all", c) }

// AnyOf holds when at least one member holds. An empty AnyOf does not hold.
type AnyOf []Condition

func (c AnyOf) Evaluate(a Answers) (bool, error) {
	var firstErr error
	for _, m := range c {
		ok, err := m.Evaluate(a)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			return true, nil
		}
	}
	return false, firstErr
}

func (c AnyOf) Questions() []string { return collectQuestions(c) }

func (c AnyOf) String() string { return joinConditions("any", c) }

// Predicate wraps an injected pure function as a Condition. Reads lists the
// question IDs the function inspects, for validation only.
type Predicate struct {
	Name  string
	Reads []string
	Fn    func(Answers) bool
}

func (c Predicate) Evaluate(a Answers) (ok bool, err error) {
	if c.Fn == nil {
		return false, &ConditionError{Condition: c.String(), Message: "predicate has no function"}
	}
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = &ConditionError{Condition: c.String(), Message: fmt.Sprintf("predicate panicked: %v", r)}
		}
	}()
	// Predicates get a copy so a misbehaving function cannot mutate the
	// session's answers.
	return c.Fn(a.Clone()), nil
}

func (c Predicate) Questions() []string { return c.Reads }

func (c Predicate) String() string {
	if c.Name == "" {
		return "predicate"
	}
	return "predicate " + c.Name
}

// evaluate runs cond against answers with panics converted to errors. A nil
// condition always holds.
func evaluate(cond Condition, a Answers) (ok bool, err error) {
	if cond == nil {
		return true, nil
	}
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = &ConditionError{Condition: cond.String(), Message: fmt.Sprintf("panicked: %v", r)}
		}
	}()
	return cond.Evaluate(a)
}

func collectQuestions(conds []Condition) []string {
	var ids []string
	for _, m := range conds {
		if m != nil {
			ids = append(ids, m.Questions()...)
		}
	}
	return ids
}

func joinConditions(op string, conds []Condition) string {
	parts := make([]string, 0, len(conds))
	for _, m := range conds {
		if m == nil {
			parts = append(parts, "<nil>")
			continue
		}
		parts = append(parts, m.String())
	}
	return op + "(" + strings.Join(parts, ", ") + ")"
}
