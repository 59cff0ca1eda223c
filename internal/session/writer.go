package session

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// writeJob is one best-effort background write.
type writeJob struct {
	op    string
	attrs []any
	fn    func(ctx context.Context) error
}

// writer runs background writes on a single goroutine so they are
// delivered in the order they were queued. Failures are retried with
// exponential backoff and then logged; they never reach the caller.
type writer struct {
	mu     sync.Mutex
	jobs   chan writeJob
	closed bool

	// queued and ran count jobs accepted by enqueue and jobs finished by
	// loop. progress is closed and replaced each time a job finishes.
	queued   int
	ran      int
	progress chan struct{}

	timeout time.Duration
	retry   RetryConfig
	logger  *slog.Logger
}

func newWriter(cfg Config, logger *slog.Logger) *writer {
	w := &writer{
		jobs:     make(chan writeJob, cfg.QueueSize),
		progress: make(chan struct{}),
		timeout:  cfg.WriteTimeout,
		retry:    cfg.WriteRetry,
		logger:   logger,
	}
	go w.loop()
	return w
}

// enqueue queues a job without blocking. When the queue is full or the
// writer is closed the job is dropped and logged.
func (w *writer) enqueue(j writeJob) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		w.logger.Warn("background write dropped: writer closed", append([]any{"op", j.op}, j.attrs...)...)
		return
	}
	select {
	case w.jobs <- j:
		w.queued++
	default:
		w.logger.Warn("background write dropped: queue full", append([]any{"op", j.op}, j.attrs...)...)
	}
}

// close stops accepting jobs. Queued jobs still run.
func (w *writer) close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	close(w.jobs)
}

// wait blocks until every job queued before the call has run, or ctx ends.
// It never holds w.mu while blocked, so enqueue stays non-blocking.
func (w *writer) wait(ctx context.Context) error {
	w.mu.Lock()
	target := w.queued
	w.mu.Unlock()

	for {
		w.mu.Lock()
		if w.ran >= target {
			w.mu.Unlock()
			return nil
		}
		progress := w.progress
		w.mu.Unlock()

		select {
		case <-progress:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *writer) loop() {
	for j := range w.jobs {
		w.run(j)

		w.mu.Lock()
		w.ran++
		close(w.progress)
		w.progress = make(chan struct{})
		w.mu.Unlock()
	}
}

func (w *writer) run(j writeJob) {
	var lastErr error
	for attempt := range w.retry.MaxAttempts {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		err := j.fn(ctx)
		cancel()
		if err == nil {
			return
		}
		lastErr = err

		// Last attempt: don't sleep.
		if attempt == w.retry.MaxAttempts-1 {
			break
		}
		time.Sleep(w.backoff(attempt))
	}

	attrs := append([]any{"op", j.op, "attempts", w.retry.MaxAttempts, "err", lastErr}, j.attrs...)
	w.logger.Warn("background write failed", attrs...)
}

// backoff computes the wait before the next attempt.
func (w *writer) backoff(attempt int) time.Duration {
	wait := float64(w.retry.InitialWait) * math.Pow(w.retry.Multiplier, float64(attempt))
	if wait > float64(w.retry.MaxWait) {
		wait = float64(w.retry.MaxWait)
	}

	// Add ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
