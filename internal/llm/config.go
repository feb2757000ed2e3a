package llm

import (
	"fmt"
	"time"
)

// Provider names accepted in configuration.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures a single provider.
type Config struct {
	Provider string
	Model    string // friendly name or provider model id; empty picks a default
	APIKey   string
	BaseURL  string // optional, OpenAI-compatible providers only
	Timeout  time.Duration
	Retry    RetryConfig
}

// RetryConfig controls backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultTimeout bounds one explanation request, retries included.
const DefaultTimeout = 30 * time.Second

// DefaultRetry returns the standard backoff policy.
func DefaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGemini:     "gemini-flash",
	ProviderOpenRouter: "google/gemini-2.0-flash-001",
	ProviderMock:       "mock",
}

// keyEnv is the conventional API key variable per provider, in discovery order.
var keyEnv = []struct{ provider, env string }{
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// Resolve fills in what the configuration leaves open. With no provider
// set, the first conventional API key variable found selects one; with a
// provider but no key, that provider's variable is read. ok is false when
// no provider could be chosen.
func (c Config) Resolve(getenv func(string) string) (resolved Config, ok bool) {
	if c.Provider == "" {
		for _, k := range keyEnv {
			if v := getenv(k.env); v != "" {
				c.Provider, c.APIKey = k.provider, v
				break
			}
		}
		if c.Provider == "" {
			return c, false
		}
	}

	if c.APIKey == "" {
		for _, k := range keyEnv {
			if k.provider == c.Provider {
				c.APIKey = getenv(k.env)
			}
		}
	}
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry = DefaultRetry()
	}
	return c, true
}

// Validate checks that the provider is known and has a key. An empty
// provider yields ErrNotConfigured.
func (c Config) Validate() error {
	switch c.Provider {
	case "":
		return ErrNotConfigured
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider", c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}

// resolveModel maps a friendly model name to a provider model id. Unknown
// names pass through unchanged.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
