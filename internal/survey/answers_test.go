package survey

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerKey_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "married", MainKey("married").String())
	assert.Equal(t, "baccSupport_followup", FollowUpKey("baccSupport").String())
	assert.Equal(t, "priorities_other", OtherKey("priorities").String())
}

func TestChoicesAnswer_Dedupes(t *testing.T) {
	t.Parallel()

	a := ChoicesAnswer("b", "a", "b", "c", "a")
	assert.True(t, a.IsMulti())
	assert.Equal(t, []string{"b", "a", "c"}, a.Choices())
	assert.True(t, a.Has("c"))
	assert.False(t, a.Has("d"))
	assert.Empty(t, a.Text())
}

func TestTextAnswer(t *testing.T) {
	t.Parallel()

	a := TextAnswer("Yes")
	assert.False(t, a.IsMulti())
	assert.Equal(t, "Yes", a.Text())
	assert.Nil(t, a.Choices())
	assert.False(t, a.Has("Yes"), "text answers have no choices")
}

func TestAnswers_CloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := Answers{}
	require.True(t, orig.toggleOption("q", "a", true))
	clone := orig.Clone()
	require.True(t, clone.toggleOption("q", "b", true))
	clone.selectOption("other", "x")

	assert.Equal(t, []string{"a"}, orig.Selected("q"))
	assert.Equal(t, []string{"a", "b"}, clone.Selected("q"))
	_, ok := orig.Get(MainKey("other"))
	assert.False(t, ok)
}

func TestAnswers_ChoicesReturnsCopy(t *testing.T) {
	t.Parallel()

	a := Answers{}
	a.toggleOption("q", "a", true)
	got := a.Selected("q")
	got[0] = "mutated"

	assert.Equal(t, []string{"a"}, a.Selected("q"))
}

func TestAnswers_ToggleUncheckLastLeavesEmptyList(t *testing.T) {
	t.Parallel()

	a := Answers{}
	require.True(t, a.toggleOption("q", "a", true))
	require.True(t, a.toggleOption("q", "a", false))

	v, ok := a.Get(MainKey("q"))
	require.True(t, ok, "the key stays once the question was touched")
	assert.True(t, v.IsMulti())
	assert.Empty(t, v.Choices())
}

func TestAnswers_MarshalJSON(t *testing.T) {
	t.Parallel()

	a := Answers{}
	a.selectOption("married", "Yes")
	a.toggleOption("spouseImpact", "Work", true)
	a.toggleOption("spouseImpact", "School", true)
	a.setText(OtherKey("spouseImpact"), "custom text")
	a.setText(FollowUpKey("baccSupport"), "please")

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"married": "Yes",
		"spouseImpact": ["Work", "School"],
		"spouseImpact_other": "custom text",
		"baccSupport_followup": "please"
	}`, string(data))

	assert.Equal(t, []string{"baccSupport_followup", "married", "spouseImpact", "spouseImpact_other"}, a.Keys())
}

func TestAnswers_EmptyMultiMarshalsAsArray(t *testing.T) {
	t.Parallel()

	a := Answers{MainKey("q"): ChoicesAnswer()}
	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"q": []}`, string(data))
}
