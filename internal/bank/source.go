package bank

import (
	"context"
	"slices"
	"sync"

	"github.com/abhisek/mathdrill/internal/question"
	"github.com/abhisek/mathdrill/internal/session"
)

// Source is a session.QuestionSource over a loaded bank. Each question is
// served at most once per Source, in file order.
type Source struct {
	mu     sync.Mutex
	skills map[string]*skill
	served map[string]bool
}

type skill struct {
	types  []string
	byType map[string][]*question.Question
}

var _ session.QuestionSource = (*Source)(nil)

// NewSource indexes f for fetching.
func NewSource(f *File) (*Source, error) {
	s := &Source{
		skills: make(map[string]*skill),
		served: make(map[string]bool),
	}
	for _, se := range f.Skills {
		sk := s.skills[se.ID]
		if sk == nil {
			sk = &skill{byType: make(map[string][]*question.Question)}
			s.skills[se.ID] = sk
		}
		for _, te := range se.Types {
			if _, ok := sk.byType[te.Name]; !ok {
				sk.types = append(sk.types, te.Name)
			}
			for _, qe := range te.Questions {
				q, err := qe.Question()
				if err != nil {
					return nil, err
				}
				sk.byType[te.Name] = append(sk.byType[te.Name], q)
			}
		}
	}
	return s, nil
}

// Open loads the bank at path.
func Open(path string) (*Source, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewSource(f)
}

// Fetch returns up to req.Count unserved questions of the requested skill
// and difficulty. A skill with several types and no type in the request
// yields a selection request instead of questions. Unknown skills and
// types yield an empty batch.
func (s *Source) Fetch(ctx context.Context, req session.FetchRequest) (*session.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, ok := s.skills[req.SkillID]
	if !ok {
		return &session.Batch{}, nil
	}

	typ := req.QuestionType
	if typ == "" {
		if len(sk.types) > 1 {
			return &session.Batch{AvailableTypes: append([]string(nil), sk.types...)}, nil
		}
		if len(sk.types) == 1 {
			typ = sk.types[0]
		}
	}

	batch := &session.Batch{}
	for _, q := range sk.byType[typ] {
		if req.Count > 0 && len(batch.Questions) >= req.Count {
			break
		}
		if q.Difficulty != req.Difficulty || s.served[q.ID] {
			continue
		}
		s.served[q.ID] = true
		batch.Questions = append(batch.Questions, q)
	}
	return batch, nil
}

// Skills returns the sorted skill ids in the bank.
func (s *Source) Skills() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.skills))
	for id := range s.skills {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Types returns the question types of a skill in file order.
func (s *Source) Types(skillID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sk, ok := s.skills[skillID]; ok {
		return append([]string(nil), sk.types...)
	}
	return nil
}
