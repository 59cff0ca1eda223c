package question

import (
	"encoding/json"
	"testing"
)

func TestDifficultyNext(t *testing.T) {
	tests := []struct {
		in, want Difficulty
	}{
		{Easy, Medium},
		{Medium, Hard},
		{Hard, Hard},
	}
	for _, tt := range tests {
		if got := tt.in.Next(); got != tt.want {
			t.Errorf("%s.Next() = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		got, err := ParseDifficulty(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDifficulty(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDifficulty("extreme"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}

func TestDifficultyJSON(t *testing.T) {
	var v struct {
		D Difficulty `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"hard"}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.D != Hard {
		t.Errorf("got %s, want hard", v.D)
	}

	if _, err := json.Marshal(struct{ D Difficulty }{Difficulty(7)}); err == nil {
		t.Error("expected marshal error for invalid difficulty")
	}
}

func TestQuestionValidate(t *testing.T) {
	valid := Question{ID: "q1", Kind: KindFreeText, CorrectAnswer: "4", Difficulty: Easy}

	tests := []struct {
		name    string
		mutate  func(q *Question)
		wantErr bool
	}{
		{"valid", func(q *Question) {}, false},
		{"no id", func(q *Question) { q.ID = "" }, true},
		{"unknown kind", func(q *Question) { q.Kind = "essay" }, true},
		{"bad difficulty", func(q *Question) { q.Difficulty = 3 }, true},
		{"blank key", func(q *Question) { q.CorrectAnswer = "  " }, true},
		{"choice without options", func(q *Question) { q.Kind = KindSingleChoice }, true},
		{"choice with options", func(q *Question) {
			q.Kind = KindSingleChoice
			q.Options = []string{"3", "4"}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			tt.mutate(&q)
			if err := q.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmissionRender(t *testing.T) {
	choice := &Question{Kind: KindSingleChoice, Options: []string{"1/2", "3/4"}}
	blanks := &Question{Kind: KindMultiBlank}
	frac := &Question{Kind: KindFraction}

	tests := []struct {
		name string
		q    *Question
		sub  Submission
		want string
	}{
		{"picked option", choice, ChoiceAt(1), "3/4"},
		{"out of range pick", choice, ChoiceAt(5), ""},
		{"typed choice", choice, TextAnswer("b"), "b"},
		{"blanks", blanks, BlankAnswers("2", "", "6"), "2||6"},
		{"fraction", frac, FractionAnswer(" 3", "4 "), "3/4"},
		{"integer", frac, FractionAnswer("5", ""), "5"},
		{"typed fraction", frac, TextAnswer("7/8"), "7/8"},
		{"free text", &Question{Kind: KindFreeText}, TextAnswer("42"), "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.Render(tt.q); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlanks(t *testing.T) {
	q := &Question{Kind: KindMultiBlank, CorrectAnswer: "2|4|8"}
	got := q.Blanks()
	if len(got) != 3 || got[0] != "2" || got[2] != "8" {
		t.Errorf("Blanks() = %v", got)
	}
}
