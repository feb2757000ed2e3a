package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/drillbook/internal/store"
)

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 3, OutputTokens: 4}})

	resp, err := mock.Generate(context.Background(), Request{Prompt: "first"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Model != "mock" || resp.Usage.Total() != 7 {
		t.Errorf("resp = %+v", resp)
	}

	var unavail *ErrProviderUnavailable
	if _, err := mock.Generate(context.Background(), Request{Prompt: "second"}); !errors.As(err, &unavail) {
		t.Fatalf("empty queue: expected ErrProviderUnavailable, got %v", err)
	}

	mock.Add(MockResponse{Content: json.RawMessage(`{}`)})
	if _, err := mock.Generate(context.Background(), Request{Prompt: "third"}); err != nil {
		t.Fatalf("after Add: %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 3 || calls[0].Prompt != "first" || calls[2].Prompt != "third" {
		t.Errorf("calls = %+v", calls)
	}
}

func TestPurpose(t *testing.T) {
	ctx := context.Background()
	if got := PurposeFrom(ctx); got != "unknown" {
		t.Errorf("PurposeFrom(empty) = %q", got)
	}
	if got := PurposeFrom(WithPurpose(ctx, "explain")); got != "explain" {
		t.Errorf("PurposeFrom = %q", got)
	}
}

func openEvents(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoggingProvider(t *testing.T) {
	s := openEvents(t)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"explanation":"x","key_points":[]}`), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}},
	)
	p := WithLogging(mock, ProviderMock, s.Events())
	ctx := WithPurpose(context.Background(), "explain")

	if _, err := p.Generate(ctx, Request{System: "sys", Prompt: "why?", Schema: testSchema()}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := p.Generate(ctx, Request{Prompt: "again"}); err == nil {
		t.Fatal("second call should fail")
	}

	logged, err := s.Events().LLMRequests(context.Background(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logged) != 2 {
		t.Fatalf("logged %d requests, want 2", len(logged))
	}

	// Newest first.
	failed, ok := logged[0], logged[1]
	if failed.Success || !strings.Contains(failed.ErrorMessage, "slow down") {
		t.Errorf("failed entry = %+v", failed)
	}
	if !ok.Success || ok.InputTokens != 10 || ok.OutputTokens != 5 || ok.Purpose != "explain" || ok.Provider != ProviderMock {
		t.Errorf("ok entry = %+v", ok)
	}
	for _, part := range []string{"[system]\nsys", "[user]\nwhy?", "[schema: quiz-explanation]"} {
		if !strings.Contains(ok.RequestBody, part) {
			t.Errorf("request body missing %q:\n%s", part, ok.RequestBody)
		}
	}
	if ok.ResponseBody != `{"explanation":"x","key_points":[]}` {
		t.Errorf("response body = %q", ok.ResponseBody)
	}
}

func TestNewWrapsProvider(t *testing.T) {
	s := openEvents(t)

	p, err := New(context.Background(), Config{Provider: ProviderMock, Retry: RetryConfig{MaxAttempts: 1}}, s.Events())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("model = %q", p.ModelID())
	}

	// The bare mock has no responses queued, so the call fails but is still logged.
	if _, err := p.Generate(context.Background(), Request{Prompt: "x"}); err == nil {
		t.Fatal("expected error from empty mock")
	}
	logged, err := s.Events().LLMRequests(context.Background(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logged) != 1 || logged[0].Purpose != "unknown" {
		t.Errorf("logged = %+v", logged)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(context.Background(), Config{Provider: "bogus"}, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if _, err := New(context.Background(), Config{Provider: ProviderOpenAI}, nil); err == nil {
		t.Fatal("expected error for missing key")
	}
}
