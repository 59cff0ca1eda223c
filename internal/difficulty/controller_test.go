package difficulty

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/question"
)

func feed(c *Controller, outcomes ...bool) question.Difficulty {
	var d question.Difficulty
	for _, o := range outcomes {
		d = c.RecordOutcome(o)
	}
	return d
}

func TestRecordOutcome_ThreeCorrectPromotes(t *testing.T) {
	c := NewController()

	assert.Equal(t, question.Easy, c.RecordOutcome(true))
	assert.Equal(t, question.Easy, c.RecordOutcome(true))
	assert.Equal(t, question.Medium, c.RecordOutcome(true), "promotion must trigger on reaching the streak")
	assert.Equal(t, 0, c.Streak())
}

func TestRecordOutcome_IncorrectResetsStreak(t *testing.T) {
	c := NewController()

	got := feed(c, true, true, false)
	assert.Equal(t, question.Easy, got)
	assert.Equal(t, 0, c.Streak())

	assert.Equal(t, question.Easy, feed(c, true, true))
	assert.Equal(t, question.Medium, feed(c, true))
}

func TestRecordOutcome_HardIsTerminal(t *testing.T) {
	c := NewController()
	feed(c, true, true, true, true, true, true)
	require.Equal(t, question.Hard, c.Level())

	got := feed(c, true, true, true, true)
	assert.Equal(t, question.Hard, got)
	assert.Equal(t, 4, c.Streak(), "streak keeps counting at Hard")
}

func TestRecordOutcome_Table(t *testing.T) {
	tests := []struct {
		name       string
		outcomes   []bool
		wantLevel  question.Difficulty
		wantStreak int
	}{
		{"none", nil, question.Easy, 0},
		{"single wrong", []bool{false}, question.Easy, 0},
		{"two right", []bool{true, true}, question.Easy, 2},
		{"medium then one", []bool{true, true, true, true}, question.Medium, 1},
		{"wrong at medium keeps medium", []bool{true, true, true, false}, question.Medium, 0},
		{"reach hard", []bool{true, true, true, true, true, true}, question.Hard, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController()
			feed(c, tt.outcomes...)
			assert.Equal(t, tt.wantLevel, c.Level())
			assert.Equal(t, tt.wantStreak, c.Streak())
		})
	}
}

func TestRecordOutcome_Monotonic(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for run := 0; run < 50; run++ {
		c := NewController()
		prev := c.Level()
		for i := 0; i < 40; i++ {
			next := c.RecordOutcome(r.IntN(3) > 0)
			require.Truef(t, next >= prev, "regressed from %s to %s", prev, next)
			prev = next
		}
	}
}

func TestReset(t *testing.T) {
	c := NewController()
	feed(c, true, true, true, true)
	c.Reset()

	assert.Equal(t, question.Easy, c.Level())
	assert.Equal(t, 0, c.Streak())
}
