// Package problemgen generates practice questions with an LLM provider.
package problemgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/mathdrill/internal/llm"
	"github.com/abhisek/mathdrill/internal/question"
	"github.com/abhisek/mathdrill/internal/session"
)

const defaultCount = 5

// Source is a session.QuestionSource that asks an LLM for each batch.
// Generated questions are validated; failures are dropped, not retried.
type Source struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger

	mu sync.Mutex
	// asked holds normalized question texts per skill, in issue order.
	asked map[string][]string
}

var _ session.QuestionSource = (*Source)(nil)

// New creates a Source. A nil logger means slog.Default().
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		provider: provider,
		config:   cfg,
		logger:   logger,
		asked:    make(map[string][]string),
	}
}

// Fetch generates up to req.Count questions. A configured skill with several
// types and no type in the request yields a selection request instead.
func (s *Source) Fetch(ctx context.Context, req session.FetchRequest) (*session.Batch, error) {
	skill := s.config.Skills[req.SkillID]
	if req.QuestionType == "" && len(skill.Types) > 1 {
		return &session.Batch{AvailableTypes: append([]string(nil), skill.Types...)}, nil
	}
	qtype := req.QuestionType
	if qtype == "" && len(skill.Types) == 1 {
		qtype = skill.Types[0]
	}
	count := req.Count
	if count <= 0 {
		count = defaultCount
	}

	s.mu.Lock()
	prior := append([]string(nil), s.asked[req.SkillID]...)
	s.mu.Unlock()

	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)
	userMsg := buildUserMessage(req.SkillID, skill, count, req.Difficulty, qtype, prior, s.config)
	llmReq := llm.Prompt(systemPrompt, userMsg, BatchSchema, count*s.config.MaxTokensPerQuestion)
	llmReq.Temperature = s.config.Temperature

	resp, err := s.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := &session.Batch{}
	for _, item := range raw.Questions {
		if len(batch.Questions) >= count {
			break
		}
		q := item.question(req.Difficulty)
		if verr := s.validate(q); verr != nil {
			s.logger.Warn("dropping generated question", "skill_id", req.SkillID, "validator", verr.Validator, "reason", verr.Message)
			continue
		}
		norm := normalizeText(q.Text)
		if s.seen(req.SkillID, norm) {
			s.logger.Debug("dropping repeated question", "skill_id", req.SkillID)
			continue
		}
		s.asked[req.SkillID] = append(s.asked[req.SkillID], q.Text)
		batch.Questions = append(batch.Questions, q)
	}
	return batch, nil
}

// validate runs the validators in order and returns the first failure.
func (s *Source) validate(q *question.Question) *ValidationError {
	for _, v := range s.config.Validators {
		if verr := v.Validate(q); verr != nil {
			return verr
		}
	}
	return nil
}

func (s *Source) seen(skillID, norm string) bool {
	for _, t := range s.asked[skillID] {
		if normalizeText(t) == norm {
			return true
		}
	}
	return false
}

func (it itemOutput) question(d question.Difficulty) *question.Question {
	q := &question.Question{
		ID:            "gen-" + uuid.NewString(),
		Text:          strings.TrimSpace(it.Text),
		Kind:          question.Kind(it.Kind),
		CorrectAnswer: strings.TrimSpace(it.Answer),
		Solution:      strings.TrimSpace(it.Solution),
		Difficulty:    d,
	}
	if len(it.Options) > 0 {
		q.Options = it.Options
	}
	return q
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
