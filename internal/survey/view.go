package survey

import "fmt"

// Next button labels.
const (
	LabelNext   = "Next"
	LabelFinish = "Finish"
)

// View is the render projection of one page of the active sequence.
type View struct {
	// PageIndex is the index into the active sequence that was rendered.
	PageIndex int
	// PageCount is the length of the active sequence at render time.
	PageCount int
	// ProgressPercent is (PageIndex+1)/PageCount*100.
	ProgressPercent float64
	// ProgressLabel reads "Question X of Y".
	ProgressLabel string
	// Question is the kind-specific payload.
	Question QuestionView
	// BackVisible is false only on the first page.
	BackVisible bool
	// NextLabel is LabelFinish on the last page, LabelNext otherwise.
	NextLabel string
	// SkipVisible is false only on the last page.
	SkipVisible bool
}

// IsLast reports whether the view is the last page of the active sequence.
func (v View) IsLast() bool {
	return v.PageIndex == v.PageCount-1
}

// OptionView is one option of a choice question with its current state.
// Selected is used by SingleChoice, Checked by MultiChoice.
type OptionView struct {
	Value    string
	Selected bool
	Checked  bool
}

// QuestionView is the kind-specific question payload of a View. Fields that
// do not apply to Kind are zero.
type QuestionView struct {
	ID          string
	Kind        Kind
	Title       string
	Description string
	Statement   string
	// Content is the rich body of an Info page.
	Content string
	Options []OptionView

	// AllowOther and OtherText describe the "other" field of a MultiChoice
	// question.
	AllowOther bool
	OtherText  string

	// HasFollowUp and FollowUpText describe the follow-up field.
	HasFollowUp  bool
	FollowUpText string
}

// newView projects question q at pageIndex of an active sequence of length
// count against the given answers.
func newView(q *Question, pageIndex, count int, a Answers) View {
	last := pageIndex == count-1
	v := View{
		PageIndex:       pageIndex,
		PageCount:       count,
		ProgressPercent: float64(pageIndex+1) / float64(count) * 100,
		ProgressLabel:   fmt.Sprintf("Question %d of %d", pageIndex+1, count),
		BackVisible:     pageIndex != 0,
		NextLabel:       LabelNext,
		SkipVisible:     !last,
	}
	if last {
		v.NextLabel = LabelFinish
	}

	qv := QuestionView{
		ID:    q.ID,
		Kind:  q.Kind,
		Title: q.Title,
	}

	switch q.Kind {
	case KindInfo:
		qv.Content = q.Content
	case KindSingleChoice:
		qv.Description = q.Description
		qv.Statement = q.Statement
		cur, answered := a.Get(MainKey(q.ID))
		qv.Options = make([]OptionView, len(q.Options))
		for i, o := range q.Options {
			qv.Options[i] = OptionView{Value: o, Selected: answered && !cur.multi && cur.text == o}
		}
	case KindMultiChoice:
		qv.Description = q.Description
		cur := a[MainKey(q.ID)]
		qv.Options = make([]OptionView, len(q.Options))
		for i, o := range q.Options {
			qv.Options[i] = OptionView{Value: o, Checked: cur.Has(o)}
		}
		if q.AllowOther {
			qv.AllowOther = true
			qv.OtherText = a[OtherKey(q.ID)].text
		}
	}

	if q.HasFollowUp && q.Kind != KindInfo {
		qv.HasFollowUp = true
		qv.FollowUpText = a[FollowUpKey(q.ID)].text
	}

	v.Question = qv
	return v
}
