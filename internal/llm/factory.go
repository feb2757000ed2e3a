package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/drillbook/internal/store"
)

// New builds the configured provider wrapped as
// caller → timeout → retry → logging → provider, so every attempt is
// logged and the timeout bounds the whole exchange.
func New(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	var p Provider = base
	if events != nil {
		p = WithLogging(p, cfg.Provider, events)
	}
	p = WithRetry(p, cfg.Retry)
	return WithTimeout(p, cfg.Timeout), nil
}
