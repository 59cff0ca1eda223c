package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/question"
)

func attempt(id string, correct bool, secs int, d question.Difficulty) Attempt {
	return Attempt{
		QuestionID:          id,
		SubmittedAnswer:     "x",
		IsCorrect:           correct,
		TimeSpentSeconds:    secs,
		DifficultyAtAttempt: d,
	}
}

func TestRecord_Duplicate(t *testing.T) {
	l := New()
	require.NoError(t, l.Record(attempt("q1", true, 3, question.Easy)))

	err := l.Record(attempt("q1", false, 1, question.Easy))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateAttempt))

	var dup *DuplicateAttemptError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "q1", dup.QuestionID)

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 1, l.Correct(), "rejected attempt must not change the score")
}

func TestRecord_Order(t *testing.T) {
	l := New()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, l.Record(attempt(id, false, 0, question.Easy)))
	}

	got := l.Attempts()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].QuestionID)
	assert.Equal(t, "c", got[2].QuestionID)

	last, ok := l.Last()
	require.True(t, ok)
	assert.Equal(t, "c", last.QuestionID)
}

func TestRecord_RejectsMissingID(t *testing.T) {
	l := New()
	assert.Error(t, l.Record(Attempt{}))
	assert.Equal(t, 0, l.Len())
}

func TestRecord_ClampsNegativeTime(t *testing.T) {
	l := New()
	require.NoError(t, l.Record(attempt("q1", true, -4, question.Easy)))
	assert.Equal(t, 0, l.Attempts()[0].TimeSpentSeconds)
}

func TestAttempts_ReturnsCopy(t *testing.T) {
	l := New()
	require.NoError(t, l.Record(attempt("q1", true, 1, question.Easy)))

	got := l.Attempts()
	got[0].IsCorrect = false

	assert.True(t, l.Attempts()[0].IsCorrect)
}

func TestSummary(t *testing.T) {
	l := New()
	require.NoError(t, l.Record(attempt("q1", true, 4, question.Easy)))
	require.NoError(t, l.Record(attempt("q2", false, 6, question.Easy)))
	require.NoError(t, l.Record(attempt("q3", true, 5, question.Medium)))
	require.NoError(t, l.Record(attempt("q4", true, 5, question.Medium)))

	s := l.Summary()
	assert.Equal(t, 4, s.TotalQuestions)
	assert.Equal(t, 3, s.CorrectAnswers)
	assert.InDelta(t, 75.0, s.ScorePercent, 1e-9)
	assert.Equal(t, 20, s.TimeTakenSeconds)
	assert.Equal(t, question.Medium, s.FinalDifficulty)
	assert.Equal(t, l.Len(), s.TotalQuestions)
}

func TestSummary_Empty(t *testing.T) {
	s := New().Summary()
	assert.Equal(t, Summary{FinalDifficulty: question.Easy}, s)
}

func TestSummary_IsRepeatable(t *testing.T) {
	l := New()
	require.NoError(t, l.Record(attempt("q1", true, 2, question.Easy)))
	assert.Equal(t, l.Summary(), l.Summary())
}
