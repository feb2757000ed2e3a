package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(Config{APIKey: "test-key", Model: "claude-haiku", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":   "msg_test",
		"type": "message",
		"role": "assistant",
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"model":       "claude-haiku-4-5",
		"stop_reason": stop,
		"usage": map[string]any{
			"input_tokens":  50,
			"output_tokens": 30,
		},
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	var gotPath string
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"explanation":"Paris is the capital.","key_points":[]}`, "end_turn"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You explain quiz answers.",
		Prompt:    "Why Paris?",
		Schema:    testSchema(),
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/messages" {
		t.Errorf("path = %q, want /v1/messages", gotPath)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.Total() != 80 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Errorf("stop reason = %q, want end", resp.StopReason)
	}
	if resp.Model != "claude-haiku-4-5" {
		t.Errorf("model = %q", resp.Model)
	}
}

func TestAnthropicProvider_SchemaViolation(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"key_points":[]}`, "end_turn"))
	})

	_, err := p.Generate(context.Background(), Request{Prompt: "x", Schema: testSchema(), MaxTokens: 64})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_Truncated(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"explanation":"Par`, "max_tokens"))
	})

	_, err := p.Generate(context.Background(), Request{Prompt: "x", Schema: testSchema(), MaxTokens: 8})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_ErrorStatus(t *testing.T) {
	tests := []struct {
		status  int
		errType string
		check   func(error) bool
	}{
		{http.StatusTooManyRequests, "rate_limit_error", func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{http.StatusInternalServerError, "api_error", func(err error) bool {
			var unavail *ErrProviderUnavailable
			return errors.As(err, &unavail)
		}},
		{http.StatusUnauthorized, "authentication_error", func(err error) bool {
			var rl *ErrRateLimit
			var unavail *ErrProviderUnavailable
			return err != nil && !errors.As(err, &rl) && !errors.As(err, &unavail)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.errType, func(t *testing.T) {
			p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"type":  "error",
					"error": map[string]any{"type": tt.errType, "message": "nope"},
				})
			})
			_, err := p.Generate(context.Background(), Request{Prompt: "x", MaxTokens: 16})
			if !tt.check(err) {
				t.Fatalf("status %d: unexpected error %T (%v)", tt.status, err, err)
			}
		})
	}
}

func TestAnthropicProvider_RequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"claude-sonnet", "claude-sonnet-4-5"},
		{"claude-haiku", "claude-haiku-4-5"},
		{"claude-opus-4-1", "claude-opus-4-1"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, anthropicModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
