// Package session runs an adaptive practice session: it serves questions,
// scores answers, adapts difficulty and reports the result.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/mathdrill/internal/answer"
	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/ledger"
	"github.com/abhisek/mathdrill/internal/question"
	"github.com/abhisek/mathdrill/internal/timing"
)

// Deps are the collaborators of an Engine. Questions is required; the
// other collaborators are optional and skipped when nil.
type Deps struct {
	Questions QuestionSource
	Sessions  SessionService
	Attempts  AttemptSink
	Reports   ReportSink

	// Logger receives background failures. Defaults to slog.Default().
	Logger *slog.Logger

	// Clock drives active-time measurement. Defaults to the system clock.
	Clock timing.Clock
}

// Result is returned by Submit.
type Result struct {
	Correct       bool
	CorrectAnswer string
	Solution      string
	Attempt       ledger.Attempt
}

// Engine runs one practice session. All methods are safe for concurrent
// use; operations are serialized so a Submit cannot interleave with an
// Advance. Remote calls are best-effort: their failures are logged and the
// local session state stays correct. No lock is held while the engine waits
// on a collaborator, so Snapshot, Pause, Finish and Abandon return promptly
// while questions are being fetched.
type Engine struct {
	mu sync.Mutex

	cfg       Config
	questions QuestionSource
	sessions  SessionService
	attempts  []AttemptSink
	reports   []ReportSink
	logger    *slog.Logger
	clock     timing.Clock

	phase        Phase
	userID       string
	skillID      string
	handle       Handle
	questionType string
	startedAt    time.Time
	loading      bool

	batch []*question.Question
	seen  map[string]bool
	index int

	ctrl    *difficulty.Controller
	ledger  *ledger.Ledger
	tracker *timing.Tracker
	writer  *writer
}

// New creates an engine in the NotStarted phase.
func New(deps Deps, cfg Config) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := deps.Clock
	if clock == nil {
		clock = timing.SystemClock()
	}
	return &Engine{
		cfg:       cfg.withDefaults(),
		questions: deps.Questions,
		sessions:  deps.Sessions,
		attempts:  attemptTargets(deps.Attempts),
		reports:   reportTargets(deps.Reports),
		logger:    logger,
		clock:     clock,
		ctrl:      difficulty.NewController(),
		ledger:    ledger.New(),
		tracker:   timing.NewTracker(clock),
		seen:      make(map[string]bool),
	}
}

// Begin opens the session for userID practicing skillID and loads the first
// batch of questions. If the remote session cannot be opened the engine
// continues in local-only mode and the returned handle is empty.
// ErrNoMoreQuestions is returned, with the session still active, when the
// source has no questions to start with.
func (e *Engine) Begin(ctx context.Context, userID, skillID string) (Handle, error) {
	req, err := e.start(userID, skillID)
	if err != nil {
		return "", err
	}

	h := e.openRemote(ctx, userID, skillID)
	qs, qtype := e.fetch(ctx, req)

	e.mu.Lock()
	e.loading = false
	if e.phase == PhaseFinished {
		e.mu.Unlock()
		e.closeRemote(h)
		return h, ErrSessionClosed
	}
	defer e.mu.Unlock()

	e.handle = h
	e.questionType = qtype
	added := e.appendQuestions(qs)
	e.tracker.Start()
	if added == 0 {
		return h, ErrNoMoreQuestions
	}
	return h, nil
}

// start checks that the session can begin and resets its state. The
// session is active, with no questions, until the first fetch lands.
func (e *Engine) start(userID, skillID string) (FetchRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.phase == PhaseFinished:
		return FetchRequest{}, ErrSessionClosed
	case e.phase != PhaseNotStarted:
		return FetchRequest{}, &TransitionError{Op: "begin", Phase: e.phase}
	}
	if skillID == "" {
		return FetchRequest{}, fmt.Errorf("begin: skill id is required")
	}
	if e.questions == nil {
		return FetchRequest{}, fmt.Errorf("begin: no question source configured")
	}

	e.userID = userID
	e.skillID = skillID
	e.questionType = e.cfg.QuestionType
	e.writer = newWriter(e.cfg, e.logger)

	e.ctrl.Reset()
	e.ledger = ledger.New()
	e.batch = nil
	e.seen = make(map[string]bool)
	e.index = 0
	e.startedAt = e.clock.Now()
	e.phase = PhaseAwaitingAnswer
	e.loading = true
	return e.fetchRequest(e.ctrl.Level()), nil
}

// Current returns the question awaiting an answer, or the one just
// answered until Advance is called.
func (e *Engine) Current() (*question.Question, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkActive("current"); err != nil {
		return nil, err
	}
	q := e.current()
	if q == nil {
		return nil, ErrNoMoreQuestions
	}
	return q, nil
}

// Submit scores the learner's answer to q, records the attempt and queues
// it for the attempt sink. A question can be answered once per session:
// repeating a submission returns ErrDuplicateAttempt and changes nothing.
func (e *Engine) Submit(ctx context.Context, q *question.Question, sub question.Submission) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkActive("submit"); err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("submit: nil question")
	}
	if e.ledger.Has(q.ID) {
		return nil, &ledger.DuplicateAttemptError{QuestionID: q.ID}
	}
	if e.phase == PhaseAnswered {
		return nil, &TransitionError{Op: "submit", Phase: e.phase}
	}

	cur := e.current()
	if cur == nil {
		return nil, ErrNoMoreQuestions
	}
	if cur.ID != q.ID {
		return nil, fmt.Errorf("submit %s: %w", q.ID, ErrQuestionMismatch)
	}

	correct := answer.Check(q, sub)
	a := ledger.Attempt{
		QuestionID:          q.ID,
		SubmittedAnswer:     sub.Render(q),
		IsCorrect:           correct,
		TimeSpentSeconds:    e.tracker.ElapsedSeconds(),
		DifficultyAtAttempt: e.ctrl.Level(),
		RecordedAt:          e.clock.Now(),
	}
	if err := e.ledger.Record(a); err != nil {
		return nil, err
	}
	e.phase = PhaseAnswered
	e.forwardAttempt(a)

	return &Result{
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
		Solution:      q.Solution,
		Attempt:       a,
	}, nil
}

// Advance applies the last attempt's outcome to the difficulty controller
// and moves to the next question, fetching more at the new difficulty when
// the local batch is exhausted. It returns the difficulty for the next
// question. ErrNoMoreQuestions means the source had nothing more; the
// session stays active so it can still be finished.
func (e *Engine) Advance(ctx context.Context) (question.Difficulty, error) {
	e.mu.Lock()
	if err := e.checkActive("advance"); err != nil {
		e.mu.Unlock()
		return e.ctrl.Level(), err
	}
	if e.phase != PhaseAnswered {
		e.mu.Unlock()
		return e.ctrl.Level(), &TransitionError{Op: "advance", Phase: e.phase}
	}

	last, _ := e.ledger.Last()
	next := e.ctrl.RecordOutcome(last.IsCorrect)
	e.index++
	e.phase = PhaseAwaitingAnswer
	if e.index < len(e.batch) {
		e.tracker.Reset()
		e.mu.Unlock()
		return next, nil
	}
	e.loading = true
	req := e.fetchRequest(next)
	e.mu.Unlock()

	qs, qtype := e.fetch(ctx, req)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.loading = false
	if e.phase == PhaseFinished {
		return next, ErrSessionClosed
	}
	e.questionType = qtype
	added := e.appendQuestions(qs)
	// The next question's clock starts once it is available.
	e.tracker.Reset()
	if added == 0 {
		return next, ErrNoMoreQuestions
	}
	return next, nil
}

// Finish ends the session and returns its summary. Closing the remote
// session and publishing the report happen in the background.
func (e *Engine) Finish(ctx context.Context) (ledger.Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkActive("finish"); err != nil {
		return ledger.Summary{}, err
	}

	summary := e.end()
	report := Report{
		Summary:    summary,
		UserID:     e.userID,
		SkillID:    e.skillID,
		Handle:     e.handle,
		StartedAt:  e.startedAt,
		FinishedAt: e.clock.Now(),
	}
	// One job per sink: a retry repeats only the sink that failed.
	for _, sink := range e.reports {
		e.writer.enqueue(writeJob{
			op:    "publish report",
			attrs: e.logAttrs(),
			fn: func(ctx context.Context) error {
				return sink.Publish(ctx, report)
			},
		})
	}
	e.writer.close()
	return summary, nil
}

// Abandon ends the session without publishing a report and returns the
// partial summary. Queued writes may still complete in the background.
func (e *Engine) Abandon(ctx context.Context) (ledger.Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkActive("abandon"); err != nil {
		return ledger.Summary{}, err
	}
	summary := e.end()
	e.writer.close()
	return summary, nil
}

// Pause stops active-time accumulation, e.g. when the host loses focus.
func (e *Engine) Pause() { e.tracker.Pause() }

// Resume restarts active-time accumulation.
func (e *Engine) Resume() { e.tracker.Resume() }

// Attempts returns the attempts recorded so far.
func (e *Engine) Attempts() []ledger.Attempt {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Attempts()
}

// Summary returns the summary of the attempts recorded so far.
func (e *Engine) Summary() ledger.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.ledger.Summary()
	s.FinalDifficulty = e.ctrl.Level()
	return s
}

// Snapshot returns a copy of the session state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return State{
		Phase:                     e.phase,
		Handle:                    e.handle,
		UserID:                    e.userID,
		SkillID:                   e.skillID,
		QuestionIndex:             e.index,
		QuestionsSeen:             len(e.batch),
		CurrentDifficulty:         e.ctrl.Level(),
		ConsecutiveCorrectAtLevel: e.ctrl.Streak(),
		TotalAnswered:             e.ledger.Len(),
		TotalCorrect:              e.ledger.Correct(),
		QuestionElapsed:           e.tracker.Elapsed(),
		StartedAt:                 e.startedAt,
		Loading:                   e.loading,
	}
}

// Wait blocks until the background writes queued so far have been
// attempted, or ctx ends. It is never needed for correctness.
func (e *Engine) Wait(ctx context.Context) error {
	e.mu.Lock()
	w := e.writer
	e.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.wait(ctx)
}

// end moves to Finished and queues the remote close. Callers hold e.mu.
func (e *Engine) end() ledger.Summary {
	e.tracker.Pause()
	summary := e.ledger.Summary()
	summary.FinalDifficulty = e.ctrl.Level()
	e.phase = PhaseFinished

	if e.sessions != nil && e.handle != "" {
		h := e.handle
		e.writer.enqueue(writeJob{
			op:    "close session",
			attrs: e.logAttrs(),
			fn: func(ctx context.Context) error {
				return e.sessions.Close(ctx, h)
			},
		})
	}
	return summary
}

func (e *Engine) checkActive(op string) error {
	switch {
	case e.phase == PhaseFinished:
		return ErrSessionClosed
	case e.phase == PhaseNotStarted:
		return &TransitionError{Op: op, Phase: e.phase}
	}
	return nil
}

func (e *Engine) current() *question.Question {
	if e.index < 0 || e.index >= len(e.batch) {
		return nil
	}
	return e.batch[e.index]
}

// openRemote opens the remote session record, returning the empty handle on
// failure. Called without e.mu held.
func (e *Engine) openRemote(ctx context.Context, userID, skillID string) Handle {
	if e.sessions == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	h, err := e.sessions.Open(ctx, userID, skillID)
	if err != nil {
		e.logger.Warn("open session failed, continuing locally",
			"user_id", userID, "skill_id", skillID, "err", err)
		return ""
	}
	return h
}

// closeRemote closes a remote session that was opened after the engine had
// already finished. Called without e.mu held.
func (e *Engine) closeRemote(h Handle) {
	if e.sessions == nil || h == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.WriteTimeout)
	defer cancel()
	if err := e.sessions.Close(ctx, h); err != nil {
		e.logger.Warn("close session failed", "session_id", string(h), "err", err)
	}
}

// fetchRequest builds a request for BatchSize questions at d. Callers hold
// e.mu.
func (e *Engine) fetchRequest(d question.Difficulty) FetchRequest {
	return FetchRequest{
		SkillID:      e.skillID,
		Count:        e.cfg.BatchSize,
		Difficulty:   d,
		QuestionType: e.questionType,
	}
}

// fetch asks the source for req, choosing a question type when the source
// asks for one. It returns the questions and the type in effect. Called
// without e.mu held.
func (e *Engine) fetch(ctx context.Context, req FetchRequest) ([]*question.Question, string) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	batch, err := e.questions.Fetch(ctx, req)
	if err == nil && batch.SelectionNeeded() {
		req.QuestionType = e.cfg.ChooseType(batch.AvailableTypes)
		if req.QuestionType == "" {
			return nil, ""
		}
		batch, err = e.questions.Fetch(ctx, req)
	}
	if err != nil {
		e.logger.Warn("fetch questions failed",
			"skill_id", req.SkillID, "difficulty", req.Difficulty.String(), "err", err)
		return nil, req.QuestionType
	}
	if batch == nil {
		return nil, req.QuestionType
	}
	return batch.Questions, req.QuestionType
}

// appendQuestions adds fetched questions to the batch, skipping ones already
// seen this session or failing validation. Returns the number added.
// Callers hold e.mu.
func (e *Engine) appendQuestions(qs []*question.Question) int {
	added := 0
	for _, q := range qs {
		if q == nil || e.seen[q.ID] {
			continue
		}
		if verr := q.Validate(); verr != nil {
			e.logger.Warn("skipping invalid question", "err", verr)
			continue
		}
		e.seen[q.ID] = true
		e.batch = append(e.batch, q)
		added++
	}
	return added
}

// forwardAttempt queues a for the attempt sink. Local-only sessions have no
// remote record to attach attempts to, so nothing is sent.
func (e *Engine) forwardAttempt(a ledger.Attempt) {
	if e.handle == "" {
		return
	}
	h := e.handle
	for _, sink := range e.attempts {
		e.writer.enqueue(writeJob{
			op:    "record attempt",
			attrs: append(e.logAttrs(), "question_id", a.QuestionID),
			fn: func(ctx context.Context) error {
				return sink.Record(ctx, a, h)
			},
		})
	}
}

func (e *Engine) logAttrs() []any {
	return []any{"session_id", string(e.handle), "user_id", e.userID, "skill_id", e.skillID}
}
