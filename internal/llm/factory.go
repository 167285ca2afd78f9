package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/examprep/internal/platform/logger"
)

// NewProvider builds the configured provider wrapped as
// caller → timeout → retry → logging → base. It returns (nil, nil) when no
// provider is configured.
func NewProvider(ctx context.Context, cfg Config, recorder UsageRecorder, log *logger.Logger) (Provider, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return Wrap(base, cfg, recorder, log), nil
}

// Wrap applies the standard middleware chain to base.
func Wrap(base Provider, cfg Config, recorder UsageRecorder, log *logger.Logger) Provider {
	logged := WithLogging(base, recorder, log)
	return WithTimeout(WithRetry(logged, cfg.Retry), cfg.Timeout)
}
