package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// NewProvider creates a Provider from configuration, wrapped with the
// standard middleware: caller → timeout → retry → logging → base.
// reqLog may be nil to skip request logging.
func NewProvider(ctx context.Context, cfg Config, reqLog RequestLog, logger *slog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		orCfg := cfg.OpenRouter
		if orCfg.BaseURL == "" {
			orCfg.BaseURL = defaultOpenRouterBaseURL
		}
		base, err = NewOpenAIProvider(orCfg)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := base
	if reqLog != nil {
		p = WithLogging(p, cfg.Provider, reqLog, logger)
	}
	p = WithRetry(p, cfg.Retry)
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}
