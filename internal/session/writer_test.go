package session

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_RunsInOrder(t *testing.T) {
	w := newWriter(testConfig(), slog.New(slog.DiscardHandler))

	var mu sync.Mutex
	var got []int
	for i := 0; i < 10; i++ {
		w.enqueue(writeJob{op: "append", fn: func(context.Context) error {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			return nil
		}})
	}
	require.NoError(t, w.wait(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestWriter_DropsWhenFull(t *testing.T) {
	cfg := testConfig()
	cfg.QueueSize = 1
	logs := &syncBuffer{}
	w := newWriter(cfg, slog.New(slog.NewTextHandler(logs, nil)))

	release := make(chan struct{})
	started := make(chan struct{})
	w.enqueue(writeJob{op: "block", fn: func(context.Context) error {
		close(started)
		<-release
		return nil
	}})
	<-started

	w.enqueue(writeJob{op: "queued", fn: func(context.Context) error { return nil }})
	w.enqueue(writeJob{op: "overflow", fn: func(context.Context) error { return nil }})
	assert.Contains(t, logs.String(), "queue full")
	assert.Contains(t, logs.String(), "op=overflow")

	close(release)
	w.close()
	require.NoError(t, w.wait(context.Background()))
}

func TestWriter_EnqueueAfterClose(t *testing.T) {
	logs := &syncBuffer{}
	w := newWriter(testConfig(), slog.New(slog.NewTextHandler(logs, nil)))
	w.close()
	w.close()

	ran := false
	w.enqueue(writeJob{op: "late", fn: func(context.Context) error {
		ran = true
		return nil
	}})
	require.NoError(t, w.wait(context.Background()))
	assert.False(t, ran)
	assert.Contains(t, logs.String(), "writer closed")
}

func TestWriter_WaitHonorsContext(t *testing.T) {
	w := newWriter(testConfig(), slog.New(slog.DiscardHandler))
	release := make(chan struct{})
	w.enqueue(writeJob{op: "block", fn: func(context.Context) error {
		<-release
		return nil
	}})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, w.wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, w.wait(context.Background()))
}

func TestWriter_EnqueueDoesNotStallBehindWait(t *testing.T) {
	cfg := testConfig()
	cfg.QueueSize = 1
	w := newWriter(cfg, slog.New(slog.DiscardHandler))

	release := make(chan struct{})
	started := make(chan struct{})
	w.enqueue(writeJob{op: "block", fn: func(context.Context) error {
		close(started)
		<-release
		return nil
	}})
	<-started
	w.enqueue(writeJob{op: "queued", fn: func(context.Context) error { return nil }})

	waited := make(chan error, 1)
	go func() { waited <- w.wait(context.Background()) }()

	enqueued := make(chan struct{})
	go func() {
		w.enqueue(writeJob{op: "concurrent", fn: func(context.Context) error { return nil }})
		close(enqueued)
	}()
	select {
	case <-enqueued:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked while a wait was pending on a full queue")
	}

	close(release)
	require.NoError(t, <-waited)
}

func TestWriter_Backoff(t *testing.T) {
	w := &writer{retry: RetryConfig{
		MaxAttempts: 5,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	}}

	for _, tt := range []struct {
		attempt int
		base    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{5, time.Second},
	} {
		d := w.backoff(tt.attempt)
		assert.GreaterOrEqual(t, d, time.Duration(float64(tt.base)*0.8))
		assert.LessOrEqual(t, d, time.Duration(float64(tt.base)*1.2))
	}
}
