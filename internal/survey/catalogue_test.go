package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueCodes(issues []CatalogueIssue) []string {
	codes := make([]string, len(issues))
	for i, issue := range issues {
		codes[i] = issue.Code
	}
	return codes
}

func TestDefaultCatalogue_IsValid(t *testing.T) {
	t.Parallel()

	cat := DefaultCatalogue()
	result := cat.Validate()

	assert.True(t, result.IsValid(), result.String())
	assert.Empty(t, result.Warnings, result.String())
	assert.Len(t, cat.Questions, 9)
	assert.Equal(t, QIntro, cat.Questions[0].ID)
	assert.Equal(t, QThankYou, cat.Questions[len(cat.Questions)-1].ID)
}

func TestDefaultCatalogue_FreshCopy(t *testing.T) {
	t.Parallel()

	a := DefaultCatalogue()
	a.Questions[0].Title = "changed"
	b := DefaultCatalogue()

	assert.NotEqual(t, "changed", b.Questions[0].Title)
}

func TestCatalogue_Lookup(t *testing.T) {
	t.Parallel()

	cat := DefaultCatalogue()
	q, ok := cat.Lookup(QBaccSupport)
	require.True(t, ok)
	assert.True(t, q.HasFollowUp)
	assert.True(t, q.HasOption("Neutral"))
	assert.False(t, q.HasOption("neutral"), "options are case sensitive")

	_, ok = cat.Lookup("nope")
	assert.False(t, ok)
}

func TestCatalogue_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		questions    []Question
		wantErrors   []string
		wantWarnings []string
	}{
		{
			name:       "empty",
			wantErrors: []string{IssueEmpty},
		},
		{
			name: "empty id",
			questions: []Question{
				{ID: "", Kind: KindInfo},
			},
			wantErrors: []string{IssueEmptyID},
		},
		{
			name: "duplicate id",
			questions: []Question{
				{ID: "a", Kind: KindInfo},
				{ID: "a", Kind: KindInfo},
			},
			wantErrors: []string{IssueDuplicateID},
		},
		{
			name: "key collision",
			questions: []Question{
				{ID: "q", Kind: KindSingleChoice, Options: []string{"x"}, HasFollowUp: true},
				{ID: "q_followup", Kind: KindInfo},
			},
			wantErrors: []string{IssueKeyCollision},
		},
		{
			name: "choice without options",
			questions: []Question{
				{ID: "q", Kind: KindMultiChoice},
			},
			wantErrors: []string{IssueNoOptions},
		},
		{
			name: "duplicate option",
			questions: []Question{
				{ID: "q", Kind: KindSingleChoice, Options: []string{"a", "b", "a"}},
			},
			wantErrors: []string{IssueDuplicateOption},
		},
		{
			name: "unknown reference",
			questions: []Question{
				{ID: "q", Kind: KindInfo, When: Equals{Question: "ghost", Value: "x"}},
			},
			wantErrors: []string{IssueUnknownReference},
		},
		{
			name: "forward reference",
			questions: []Question{
				{ID: "a", Kind: KindInfo, When: Answered{Question: "b"}},
				{ID: "b", Kind: KindSingleChoice, Options: []string{"x"}},
			},
			wantWarnings: []string{IssueForwardReference},
		},
		{
			name: "self reference",
			questions: []Question{
				{ID: "a", Kind: KindSingleChoice, Options: []string{"x"}, When: Answered{Question: "a"}},
			},
			wantWarnings: []string{IssueForwardReference},
		},
		{
			name: "ignored attributes",
			questions: []Question{
				{ID: "i", Kind: KindInfo, Options: []string{"x"}},
				{ID: "s", Kind: KindSingleChoice, Options: []string{"x"}, AllowOther: true},
			},
			wantWarnings: []string{IssueIgnoredAttribute, IssueIgnoredAttribute},
		},
		{
			name: "valid",
			questions: []Question{
				{ID: "a", Kind: KindSingleChoice, Options: []string{"x", "y"}},
				{ID: "b", Kind: KindMultiChoice, Options: []string{"x"}, AllowOther: true, When: Equals{Question: "a", Value: "x"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cat := &Catalogue{Name: tt.name, Questions: tt.questions}
			result := cat.Validate()

			if tt.wantErrors == nil {
				assert.True(t, result.IsValid(), result.String())
				assert.Empty(t, result.Errors)
			} else {
				assert.False(t, result.IsValid())
				assert.Equal(t, tt.wantErrors, issueCodes(result.Errors))
			}
			if tt.wantWarnings == nil {
				assert.Empty(t, result.Warnings)
			} else {
				assert.Equal(t, tt.wantWarnings, issueCodes(result.Warnings))
			}
		})
	}
}

func TestCatalogueValidation_String(t *testing.T) {
	t.Parallel()

	r := &CatalogueValidation{
		Errors:   []CatalogueIssue{{Code: IssueEmpty, Message: "catalogue has no questions"}},
		Warnings: []CatalogueIssue{{Code: IssueIgnoredAttribute, Question: "i", Message: "info pages do not collect answers"}},
	}

	out := r.String()
	assert.Contains(t, out, "Errors (1):")
	assert.Contains(t, out, "[EMPTY_CATALOGUE] catalogue has no questions")
	assert.Contains(t, out, `[IGNORED_ATTRIBUTE] question "i": info pages do not collect answers`)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range []Kind{KindInfo, KindSingleChoice, KindMultiChoice} {
		got, ok := ParseKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	got, ok := ParseKind("MULTI")
	assert.True(t, ok)
	assert.Equal(t, KindMultiChoice, got)

	_, ok = ParseKind("rating")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Kind(9).String())
	assert.True(t, KindSingleChoice.IsChoice())
	assert.False(t, KindInfo.IsChoice())
}
