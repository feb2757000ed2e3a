// Package explain asks a language model why a question's answers are
// correct and caches the result per question.
package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abhisek/drillbook/internal/llm"
	"github.com/abhisek/drillbook/internal/store"
)

// Config tunes explanation requests.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used by the app.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.3,
	}
}

// Service produces explanations, serving repeats from the cache.
type Service struct {
	provider llm.Provider
	cache    store.ExplanationRepo
	cfg      Config
}

// New creates a Service. cache may be nil to disable caching.
func New(provider llm.Provider, cache store.ExplanationRepo, cfg Config) *Service {
	return &Service{provider: provider, cache: cache, cfg: cfg}
}

type output struct {
	Explanation string   `json:"explanation"`
	KeyPoints   []string `json:"key_points"`
}

// Explain returns display text explaining q's correct answers.
func (s *Service) Explain(ctx context.Context, q *store.Question) (string, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, q.ID)
		if err != nil {
			return "", fmt.Errorf("read explanation cache: %w", err)
		}
		if cached != nil {
			return cached.Content, nil
		}
	}

	prompt, err := buildPrompt(q)
	if err != nil {
		return "", fmt.Errorf("build explanation prompt: %w", err)
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "explain"), llm.Request{
		System:      systemPrompt,
		Prompt:      prompt,
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM explanation failed: %w", err)
	}

	var out output
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("failed to parse explanation response: %w", err)
	}
	text := format(out)

	if s.cache != nil {
		err := s.cache.Put(ctx, store.Explanation{
			QuestionID: q.ID,
			Content:    text,
			Model:      resp.Model,
			CreatedAt:  time.Now(),
		})
		if err != nil {
			log.Printf("warning: failed to cache explanation for question %d: %v", q.ID, err)
		}
	}
	return text, nil
}

func format(out output) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(out.Explanation))
	if len(out.KeyPoints) > 0 {
		b.WriteString("\n")
		for _, p := range out.KeyPoints {
			b.WriteString("\n• ")
			b.WriteString(strings.TrimSpace(p))
		}
	}
	return b.String()
}
