package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/ledger"
	"github.com/abhisek/mathdrill/internal/question"
	"github.com/abhisek/mathdrill/internal/router"
)

func testSummary() (ledger.Summary, []ledger.Attempt) {
	attempts := []ledger.Attempt{
		{QuestionID: "q1", SubmittedAnswer: "5", IsCorrect: true, TimeSpentSeconds: 4, DifficultyAtAttempt: question.Easy},
		{QuestionID: "q2", SubmittedAnswer: "12", IsCorrect: true, TimeSpentSeconds: 9, DifficultyAtAttempt: question.Easy},
		{QuestionID: "q3", SubmittedAnswer: "", IsCorrect: false, TimeSpentSeconds: 61, DifficultyAtAttempt: question.Easy},
	}
	return ledger.Summary{
		TotalQuestions:   3,
		CorrectAnswers:   2,
		ScorePercent:     ledger.ScorePercent(2, 3),
		TimeTakenSeconds: 74,
		FinalDifficulty:  question.Easy,
	}, attempts
}

func TestSummaryView(t *testing.T) {
	sum, attempts := testSummary()
	s := New("add-2d", sum, attempts)

	view := s.View(100, 30)
	for _, want := range []string{"Session complete!", "add-2d", "Time: 1:14", "Questions: 3", "Correct: 2", "67%", "(blank)", "1:01"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if s.Title() != "Session Summary" {
		t.Errorf("title = %q", s.Title())
	}
}

func TestSummaryViewCapsRows(t *testing.T) {
	sum, _ := testSummary()
	var attempts []ledger.Attempt
	for i := range 12 {
		attempts = append(attempts, ledger.Attempt{QuestionID: string(rune('a' + i)), SubmittedAnswer: "x"})
	}
	view := New("s", sum, attempts).View(100, 40)

	if strings.Contains(view, " 2. ") {
		t.Error("oldest rows should be dropped")
	}
	if !strings.Contains(view, "12. ") {
		t.Error("latest row missing")
	}
}

func TestSummaryEnterPops(t *testing.T) {
	sum, attempts := testSummary()
	s := New("add-2d", sum, attempts)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}
