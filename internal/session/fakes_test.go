package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/mathdrill/internal/ledger"
	"github.com/abhisek/mathdrill/internal/question"
)

var errOffline = errors.New("offline")

// fakeSource serves canned questions per difficulty, one batch per call.
type fakeSource struct {
	mu       sync.Mutex
	batches  map[question.Difficulty][][]*question.Question
	types    []string
	err      error
	requests []FetchRequest
}

func newFakeSource() *fakeSource {
	return &fakeSource{batches: make(map[question.Difficulty][][]*question.Question)}
}

func (s *fakeSource) add(d question.Difficulty, qs ...*question.Question) *fakeSource {
	s.batches[d] = append(s.batches[d], qs)
	return s
}

func (s *fakeSource) Fetch(_ context.Context, req FetchRequest) (*Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.types) > 0 && req.QuestionType == "" {
		return &Batch{AvailableTypes: s.types}, nil
	}
	queue := s.batches[req.Difficulty]
	if len(queue) == 0 {
		return &Batch{}, nil
	}
	s.batches[req.Difficulty] = queue[1:]
	return &Batch{Questions: queue[0]}, nil
}

func (s *fakeSource) Requests() []FetchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]FetchRequest(nil), s.requests...)
}

type fakeSessions struct {
	mu      sync.Mutex
	openErr error
	opened  int
	closed  []Handle
}

func (f *fakeSessions) Open(_ context.Context, userID, skillID string) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return "", f.openErr
	}
	f.opened++
	return Handle(fmt.Sprintf("sess-%d", f.opened)), nil
}

func (f *fakeSessions) Close(_ context.Context, h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, h)
	return nil
}

func (f *fakeSessions) Closed() []Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Handle(nil), f.closed...)
}

// fakeAttempts fails the first failures calls and then records.
type fakeAttempts struct {
	mu       sync.Mutex
	failures int
	calls    int
	recorded []ledger.Attempt
	handles  []Handle
}

func (f *fakeAttempts) Record(_ context.Context, a ledger.Attempt, h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 {
		f.failures--
		return errOffline
	}
	f.recorded = append(f.recorded, a)
	f.handles = append(f.handles, h)
	return nil
}

func (f *fakeAttempts) Recorded() []ledger.Attempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ledger.Attempt(nil), f.recorded...)
}

func (f *fakeAttempts) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeReports struct {
	mu      sync.Mutex
	err     error
	reports []Report
}

func (f *fakeReports) Publish(_ context.Context, r Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeReports) Reports() []Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Report(nil), f.reports...)
}

func freeText(id, key string, d question.Difficulty) *question.Question {
	return &question.Question{
		ID:            id,
		Text:          "What is " + key + "?",
		Kind:          question.KindFreeText,
		CorrectAnswer: key,
		Solution:      "It is " + key + ".",
		Difficulty:    d,
	}
}

// gatedSource lets the first free fetches through and holds later ones
// until release is closed.
type gatedSource struct {
	inner   QuestionSource
	free    int
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func newGatedSource(inner QuestionSource, free int) *gatedSource {
	return &gatedSource{
		inner:   inner,
		free:    free,
		entered: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
}

func (g *gatedSource) Fetch(ctx context.Context, req FetchRequest) (*Batch, error) {
	g.mu.Lock()
	g.calls++
	gated := g.calls > g.free
	g.mu.Unlock()

	if gated {
		g.entered <- struct{}{}
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.inner.Fetch(ctx, req)
}
