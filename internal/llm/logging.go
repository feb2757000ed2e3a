package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/abhisek/drillbook/internal/store"
)

type purposeKey struct{}

// WithPurpose labels LLM calls made with ctx, e.g. "explain".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return "unknown"
}

// LoggingProvider records every call in the llm_requests table.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
}

// WithLogging wraps p so each Generate call is appended to events.
func WithLogging(p Provider, providerName string, events store.EventRepo) Provider {
	return &LoggingProvider{inner: p, provider: providerName, events: events}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	e := store.LLMRequest{
		Timestamp:   start,
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: formatRequest(req),
	}
	if resp != nil {
		e.Model = resp.Model
		e.InputTokens = resp.Usage.InputTokens
		e.OutputTokens = resp.Usage.OutputTokens
		e.ResponseBody = string(resp.Content)
	}
	if err != nil {
		e.ErrorMessage = err.Error()
	}

	// A failed log write never fails the request.
	if logErr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), e); logErr != nil {
		log.Printf("warning: failed to log LLM request: %v", logErr)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// formatRequest renders req for the request log.
func formatRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	fmt.Fprintf(&b, "[user]\n%s\n", req.Prompt)
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "\n[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
