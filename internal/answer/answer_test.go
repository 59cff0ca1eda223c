package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/mathdrill/internal/question"
)

func singleChoice(key string) *question.Question {
	return &question.Question{
		ID:            "q1",
		Kind:          question.KindSingleChoice,
		Options:       []string{"40", "42", "44", "46"},
		CorrectAnswer: key,
	}
}

func TestCheck_SingleChoice_ByText(t *testing.T) {
	q := singleChoice("42")

	tests := []struct {
		name string
		sub  question.Submission
		want bool
	}{
		{"picked correct option", question.ChoiceAt(1), true},
		{"picked wrong option", question.ChoiceAt(0), false},
		{"typed text", question.TextAnswer(" 42 "), true},
		{"typed wrong text", question.TextAnswer("41"), false},
		{"empty", question.TextAnswer(""), false},
		{"out of range choice", question.ChoiceAt(9), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(q, tt.sub))
		})
	}
}

func TestCheck_SingleChoice_CaseInsensitive(t *testing.T) {
	q := &question.Question{
		Kind:          question.KindSingleChoice,
		Options:       []string{"Triangle", "Square"},
		CorrectAnswer: "  square ",
	}
	assert.True(t, Check(q, question.ChoiceAt(1)))
	assert.True(t, Check(q, question.TextAnswer("SQUARE")))
}

func TestCheck_SingleChoice_LetterFallback(t *testing.T) {
	q := singleChoice("b")

	// "42" != "b" literally, but option 1 encodes as letter "b".
	assert.True(t, Check(q, question.ChoiceAt(1)))
	assert.False(t, Check(q, question.ChoiceAt(2)))

	upper := singleChoice("B")
	assert.True(t, Check(upper, question.ChoiceAt(1)))
}

func TestCheck_SingleChoice_OrdinalFallback(t *testing.T) {
	q := singleChoice("3")

	assert.True(t, Check(q, question.ChoiceAt(2)), "option 2 is ordinal 3")
	assert.False(t, Check(q, question.ChoiceAt(0)))
}

func TestCheck_SingleChoice_TypedOptionUsesPosition(t *testing.T) {
	q := singleChoice("d")
	assert.True(t, Check(q, question.TextAnswer("46")))
}

func TestCheck_SingleChoice_KeyAlwaysAccepted(t *testing.T) {
	for _, key := range []string{"42", "b", "2", "B "} {
		q := singleChoice(key)
		assert.Truef(t, Check(q, question.TextAnswer(q.CorrectAnswer)), "key %q", key)
	}
}

func TestCheck_MultiBlank(t *testing.T) {
	q := &question.Question{
		Kind:          question.KindMultiBlank,
		CorrectAnswer: "3|x|Seven",
	}

	tests := []struct {
		name string
		sub  question.Submission
		want bool
	}{
		{"all correct", question.BlankAnswers("3", "x", "Seven"), true},
		{"case and space", question.BlankAnswers(" 3", "X ", "seven"), true},
		{"joined text", question.TextAnswer("3|x|seven"), true},
		{"one wrong", question.BlankAnswers("3", "y", "Seven"), false},
		{"partial fill", question.BlankAnswers("3", "x"), false},
		{"too many", question.BlankAnswers("3", "x", "Seven", "8"), false},
		{"all empty", question.BlankAnswers("", "", ""), false},
		{"nothing", question.Submission{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(q, tt.sub))
		})
	}
}

func TestCheck_MultiBlank_NoPartialCredit(t *testing.T) {
	expected := []string{"1", "2", "3", "4"}
	q := &question.Question{
		Kind:          question.KindMultiBlank,
		CorrectAnswer: "1|2|3|4",
	}
	assert.True(t, Check(q, question.BlankAnswers(expected...)))

	for i := range expected {
		changed := append([]string(nil), expected...)
		changed[i] = "9"
		assert.Falsef(t, Check(q, question.BlankAnswers(changed...)), "blank %d changed", i)
	}
}

func TestCheck_Fraction(t *testing.T) {
	q := &question.Question{
		Kind:          question.KindFraction,
		CorrectAnswer: " 3/4 ",
	}

	tests := []struct {
		name string
		sub  question.Submission
		want bool
	}{
		{"exact", question.FractionAnswer("3", "4"), true},
		{"trimmed parts", question.FractionAnswer(" 3 ", " 4"), true},
		{"typed", question.TextAnswer("3/4"), true},
		{"unreduced is not reduced", question.FractionAnswer("6", "8"), false},
		{"bare integer", question.FractionAnswer("3", ""), false},
		{"empty", question.FractionAnswer("", ""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(q, tt.sub))
		})
	}
}

func TestCheck_Fraction_BareInteger(t *testing.T) {
	q := &question.Question{Kind: question.KindFraction, CorrectAnswer: "5"}
	assert.True(t, Check(q, question.FractionAnswer("5", "")))
	assert.False(t, Check(q, question.FractionAnswer("5", "1")))
}

func TestCheck_FreeText(t *testing.T) {
	q := &question.Question{Kind: question.KindFreeText, CorrectAnswer: "Pythagoras"}
	assert.True(t, Check(q, question.TextAnswer("  pythagoras ")))
	assert.False(t, Check(q, question.TextAnswer("euclid")))
	assert.False(t, Check(q, question.TextAnswer("   ")))
}

func TestCheck_Pure(t *testing.T) {
	q := singleChoice("b")
	sub := question.ChoiceAt(1)
	for i := 0; i < 3; i++ {
		assert.True(t, Check(q, sub))
	}
	assert.Equal(t, "b", q.CorrectAnswer)
	assert.Len(t, q.Options, 4)
}

func TestCheck_NilAndUnknownKind(t *testing.T) {
	assert.False(t, Check(nil, question.TextAnswer("x")))
	assert.False(t, Check(&question.Question{Kind: "essay", CorrectAnswer: "x"}, question.TextAnswer("x")))
}

func TestLetter(t *testing.T) {
	assert.Equal(t, "a", Letter(0))
	assert.Equal(t, "b", Letter(1))
	assert.Equal(t, "", Letter(-1))
	assert.Equal(t, "", Letter(26))
}

func TestKeyIndex(t *testing.T) {
	assert.Equal(t, 1, KeyIndex(singleChoice("42")))
	assert.Equal(t, 2, KeyIndex(singleChoice("C")))
	assert.Equal(t, 3, KeyIndex(singleChoice("4")))
	assert.Equal(t, 0, KeyIndex(singleChoice("40")), "option text wins over ordinal")
	assert.Equal(t, -1, KeyIndex(singleChoice("e")))
	assert.Equal(t, -1, KeyIndex(singleChoice(" ")))
}
