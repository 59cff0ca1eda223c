package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"n":1}`)},
		MockResponse{Content: json.RawMessage(`{"n":2}`)},
	)
	ctx := context.Background()

	r1, _ := mock.Generate(ctx, Prompt("", "first", nil, 10))
	r2, _ := mock.Generate(ctx, Prompt("", "second", nil, 10))
	if string(r1.Content) != `{"n":1}` || string(r2.Content) != `{"n":2}` {
		t.Fatalf("got %s, %s", r1.Content, r2.Content)
	}

	_, err := mock.Generate(ctx, Prompt("", "third", nil, 10))
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable when drained, got: %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 3 || calls[1].Messages[0].Content != "second" {
		t.Fatalf("calls = %+v", calls)
	}
	if mock.ModelID() != "mock" {
		t.Errorf("model = %q", mock.ModelID())
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"answer":"5"}`)})

	_, err := mock.Generate(context.Background(), Prompt("", "q", answerSchema(), 10))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}

func TestMockProvider_AddResponse(t *testing.T) {
	mock := NewMockProvider()
	mock.AddResponse(MockResponse{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 3, OutputTokens: 4}})

	resp, err := mock.Generate(context.Background(), Prompt("", "q", nil, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 7 {
		t.Errorf("total tokens = %d, want 7", resp.Usage.TotalTokens)
	}
}

func TestComplete_Truncation(t *testing.T) {
	_, err := complete(Prompt("", "q", answerSchema(), 16), json.RawMessage(`{"q`), Usage{}, "m", StopMaxTokens)
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) || string(maxTok.Content) != `{"q` {
		t.Fatalf("expected ErrMaxTokensExceeded with partial content, got: %v", err)
	}

	resp, err := complete(Prompt("", "q", nil, 16), json.RawMessage(`partial`), Usage{}, "m", StopMaxTokens)
	if err != nil || resp.StopReason != StopMaxTokens {
		t.Fatalf("unstructured truncation: resp=%+v err=%v", resp, err)
	}
}

func TestPurpose(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != PurposeUnknown {
		t.Errorf("default purpose = %q", got)
	}
	ctx := WithPurpose(context.Background(), PurposeQuestionGen)
	if got := PurposeFrom(ctx); got != PurposeQuestionGen {
		t.Errorf("purpose = %q", got)
	}
}

func TestFromStatus(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "12")

	var rl *ErrRateLimit
	if err := fromStatus(http.StatusTooManyRequests, h, nil); !errors.As(err, &rl) || rl.RetryAfter != 12*time.Second {
		t.Errorf("429 = %v", err)
	}
	var rej *ErrRejected
	if err := fromStatus(http.StatusForbidden, nil, nil); !errors.As(err, &rej) {
		t.Errorf("403 = %v", err)
	}
	var unavail *ErrProviderUnavailable
	for _, code := range []int{http.StatusRequestTimeout, http.StatusBadGateway, 0} {
		if err := fromStatus(code, nil, nil); !errors.As(err, &unavail) {
			t.Errorf("%d = %v", code, err)
		}
	}

	bad := http.Header{}
	bad.Set("Retry-After", "soon")
	if got := retryAfter(bad); got != 0 {
		t.Errorf("retryAfter(soon) = %v", got)
	}
}
