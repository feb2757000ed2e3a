// Package llm talks to hosted language models. Every provider returns
// JSON validated against the request's Schema, so callers only ever see
// well-formed structured output.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured output from a single prompt.
type Provider interface {
	// Generate sends req and returns the model's answer. With a Schema set
	// the Content is JSON that has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model the provider sends requests to.
	ModelID() string
}

// Request is a single-turn prompt.
type Request struct {
	System      string
	Prompt      string
	Schema      *Schema
	MaxTokens   int
	Temperature float64 // 0 leaves the provider default
}

// Response holds the model's output.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// stopReason normalizes provider finish reasons.
func stopReason(truncated bool) string {
	if truncated {
		return "max_tokens"
	}
	return "end"
}

// finish validates content and builds the Response, turning a truncated
// answer into ErrMaxTokensExceeded.
func finish(req Request, content json.RawMessage, usage Usage, model string, truncated bool) (*Response, error) {
	if truncated {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := req.Schema.Validate(content); err != nil {
		return nil, err
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stopReason(truncated),
	}, nil
}
