package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/quizvault/internal/store"
)

func openEventStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "llm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLogging_RecordsSuccessAndFailure(t *testing.T) {
	s := openEventStore(t)
	core, logs := observer.New(zap.InfoLevel)

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":true}`), Usage: Usage{InputTokens: 11, OutputTokens: 3}},
		MockResponse{Err: &APIError{Provider: "gemini", StatusCode: 400, Message: "nope"}},
	)
	p := WithLogging(mock, ProviderGemini, s.EventRepo(), zap.New(core))

	ctx := WithPurpose(context.Background(), PurposeQuizGen)
	req := Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "topic: rivers"}}}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected error")
	}

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	var ok, failed int
	for _, e := range events {
		if e.Provider != ProviderGemini || e.Purpose != PurposeQuizGen {
			t.Errorf("unexpected event labels: %+v", e.LLMRequestEventData)
		}
		if e.Success {
			ok++
			if e.InputTokens != 11 || e.ResponseBody != `{"ok":true}` {
				t.Errorf("unexpected success event: %+v", e.LLMRequestEventData)
			}
		} else {
			failed++
			if e.ErrorMessage == "" {
				t.Error("failed event has no error message")
			}
		}
	}
	if ok != 1 || failed != 1 {
		t.Fatalf("expected one success and one failure, got %d/%d", ok, failed)
	}

	if logs.FilterMessage("llm request").Len() != 1 || logs.FilterMessage("llm request failed").Len() != 1 {
		t.Fatalf("unexpected log lines: %v", logs.All())
	}
}

func TestLogging_NilRepoStillDelegates(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, ProviderMock, nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingObserver) ObserveLLMRequest(purpose string, success bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := "ok"
	if !success {
		status = "error"
	}
	r.calls = append(r.calls, purpose+":"+status)
}

func TestObserver_SeesEveryCall(t *testing.T) {
	obs := &recordingObserver{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithObserver(mock, obs)

	ctx := WithPurpose(context.Background(), PurposeResultAnalysis)
	_, _ = p.Generate(ctx, Request{})
	_, _ = p.Generate(ctx, Request{})

	want := []string{"result-analysis:ok", "result-analysis:error"}
	if len(obs.calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, obs.calls)
	}
	for i := range want {
		if obs.calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, obs.calls)
		}
	}
}

func TestRateLimit_DisabledIsPassThrough(t *testing.T) {
	mock := NewMockProvider()
	if p := WithRateLimit(mock, 0); p != Provider(mock) {
		t.Fatalf("expected pass-through, got %T", p)
	}
}

func TestRateLimit_BurstThenWaits(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	p := WithRateLimit(mock, 1)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// The second token arrives a minute later, well past this deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected the limiter to refuse the second call")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call to reach the provider, got %d", mock.CallCount())
	}
}

func TestTimeout_BoundsSlowProvider(t *testing.T) {
	p := WithTimeout(slowProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got: %v", err)
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }
