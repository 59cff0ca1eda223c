package problemgen

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/abhisek/mathdrill/internal/llm"
	"github.com/abhisek/mathdrill/internal/question"
	"github.com/abhisek/mathdrill/internal/session"
)

func batchJSON() json.RawMessage {
	return json.RawMessage(`{"questions": [
		{"text": "What is 345 + 278?", "kind": "free_text", "options": [], "answer": "623",
		 "solution": "Add ones: 5+8=13 carry 1. Add tens: 4+7+1=12 carry 1. Add hundreds: 3+2+1=6."},
		{"text": "Which is the largest?", "kind": "single_choice", "options": ["512", "623", "601", "599"], "answer": "623",
		 "solution": "623 has the most hundreds and tens."},
		{"text": "What is 1/4 + 1/2?", "kind": "fraction", "options": [], "answer": "3/4",
		 "solution": "1/2 = 2/4, and 1/4 + 2/4 = 3/4."}
	]}`)
}

func newTestSource(mock *llm.MockProvider, cfg Config) *Source {
	return New(mock, cfg, slog.New(slog.DiscardHandler))
}

func TestFetch_ConvertsBatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON()})
	src := newTestSource(mock, DefaultConfig())

	batch, err := src.Fetch(context.Background(), session.FetchRequest{SkillID: "add-3digit", Count: 3, Difficulty: question.Medium})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(batch.Questions))
	}

	ids := map[string]bool{}
	for _, q := range batch.Questions {
		if err := q.Validate(); err != nil {
			t.Errorf("generated question invalid: %v", err)
		}
		if q.Difficulty != question.Medium {
			t.Errorf("difficulty = %v, want medium", q.Difficulty)
		}
		if !strings.HasPrefix(q.ID, "gen-") || ids[q.ID] {
			t.Errorf("bad or repeated id %q", q.ID)
		}
		ids[q.ID] = true
	}
	if batch.Questions[1].Kind != question.KindSingleChoice || len(batch.Questions[1].Options) != 4 {
		t.Errorf("single choice = %+v", batch.Questions[1])
	}
	if batch.Questions[0].Options != nil {
		t.Errorf("free text options = %v, want nil", batch.Questions[0].Options)
	}
}

func TestFetch_Request(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON()})
	cfg := DefaultConfig()
	cfg.Skills = map[string]Skill{
		"add-3digit": {Name: "Add 3-Digit Numbers", Description: "Addition with regrouping"},
	}
	src := newTestSource(mock, cfg)

	if _, err := src.Fetch(context.Background(), session.FetchRequest{SkillID: "add-3digit", Count: 2, Difficulty: question.Hard}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d", len(calls))
	}
	req := calls[0]
	if req.Schema != BatchSchema {
		t.Error("expected batch schema")
	}
	if req.MaxTokens != 2*cfg.MaxTokensPerQuestion {
		t.Errorf("max tokens = %d", req.MaxTokens)
	}
	msg := req.Messages[0].Content
	for _, want := range []string{"Skill: Add 3-Digit Numbers", "Description: Addition with regrouping", "Difficulty: hard", "Number of questions: 2"} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestFetch_CountCapsBatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON()})
	src := newTestSource(mock, DefaultConfig())

	batch, err := src.Fetch(context.Background(), session.FetchRequest{SkillID: "s", Count: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(batch.Questions))
	}
}

func TestFetch_DropsInvalid(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions": [
		{"text": "Pick the even number", "kind": "single_choice", "options": ["3", "5", "8", "9"], "answer": "e", "solution": "8 is even."},
		{"text": "What is 7 + 5?", "kind": "free_text", "options": [], "answer": "13", "solution": "7 + 5 = 12."},
		{"text": "Fill in: 2 + _ = 5 and 4 + _ = 9", "kind": "multi_blank", "options": [], "answer": "3|", "solution": "3 and 5."},
		{"text": "What is 9 + 1?", "kind": "free_text", "options": [], "answer": "10", "solution": "9 + 1 = 10."}
	]}`)})
	src := newTestSource(mock, DefaultConfig())

	batch, err := src.Fetch(context.Background(), session.FetchRequest{SkillID: "s", Count: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Questions) != 1 || batch.Questions[0].Text != "What is 9 + 1?" {
		t.Fatalf("questions = %+v", batch.Questions)
	}
}

func TestFetch_DedupAcrossBatches(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: batchJSON()},
		llm.MockResponse{Content: batchJSON()},
	)
	src := newTestSource(mock, DefaultConfig())
	ctx := context.Background()

	if _, err := src.Fetch(ctx, session.FetchRequest{SkillID: "s", Count: 3}); err != nil {
		t.Fatal(err)
	}
	second, err := src.Fetch(ctx, session.FetchRequest{SkillID: "s", Count: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Questions) != 0 {
		t.Errorf("repeated questions served: %d", len(second.Questions))
	}
	if msg := mock.Calls()[1].Messages[0].Content; !strings.Contains(msg, "1. What is 345 + 278?") {
		t.Errorf("second prompt lacks prior questions:\n%s", msg)
	}
}

func TestFetch_SelectionNeeded(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON()})
	cfg := DefaultConfig()
	cfg.Skills = map[string]Skill{"mixed": {Types: []string{"computation", "word-problems"}}}
	src := newTestSource(mock, cfg)

	batch, err := src.Fetch(context.Background(), session.FetchRequest{SkillID: "mixed", Count: 3})
	if err != nil {
		t.Fatal(err)
	}
	if !batch.SelectionNeeded() || len(batch.AvailableTypes) != 2 {
		t.Fatalf("batch = %+v", batch)
	}
	if mock.CallCount() != 0 {
		t.Error("selection should not call the provider")
	}

	if _, err := src.Fetch(context.Background(), session.FetchRequest{SkillID: "mixed", Count: 3, QuestionType: "word-problems"}); err != nil {
		t.Fatal(err)
	}
	if msg := mock.Calls()[0].Messages[0].Content; !strings.Contains(msg, "Question type: word-problems") {
		t.Errorf("prompt lacks type:\n%s", msg)
	}
}

func TestFetch_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	src := newTestSource(mock, DefaultConfig())

	_, err := src.Fetch(context.Background(), session.FetchRequest{SkillID: "s", Count: 3})
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %v", err)
	}
}

func TestFetch_OffSchema(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions": [{"text": "1+1?"}]}`)})
	src := newTestSource(mock, DefaultConfig())

	_, err := src.Fetch(context.Background(), session.FetchRequest{SkillID: "s", Count: 3})
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}

func TestBuildDedup(t *testing.T) {
	if got := buildDedup(nil, 5); got != "None" {
		t.Errorf("empty = %q", got)
	}
	got := buildDedup([]string{"q1", "q2", "q3"}, 2)
	if got != "1. q2\n2. q3" {
		t.Errorf("got %q", got)
	}
}
