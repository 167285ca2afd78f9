package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures a provider.
type Config struct {
	// Provider is one of the Provider* constants. Empty disables LLM use.
	Provider string

	Anthropic  Credentials
	OpenAI     Credentials
	Gemini     Credentials
	OpenRouter Credentials
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// Credentials for one provider. BaseURL is only honoured by the
// OpenAI-compatible providers.
type Credentials struct {
	APIKey  string
	Model   string
	BaseURL string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig has no provider selected and cheap default models.
func DefaultConfig() Config {
	return Config{
		Anthropic:  Credentials{Model: "claude-haiku"},
		OpenAI:     Credentials{Model: "gpt-4o-mini"},
		Gemini:     Credentials{Model: "gemini-flash"},
		OpenRouter: Credentials{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// credentials returns the entry for the selected provider.
func (c *Config) credentials(provider string) *Credentials {
	switch provider {
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGemini:
		return &c.Gemini
	case ProviderOpenRouter:
		return &c.OpenRouter
	}
	return nil
}

// Selected returns the credentials of the selected provider. ok is false
// when no provider with credentials is selected.
func (c Config) Selected() (cred Credentials, ok bool) {
	if p := c.credentials(c.Provider); p != nil {
		return *p, true
	}
	return Credentials{}, false
}

var envProviders = []struct {
	name   string
	prefix string
}{
	{ProviderAnthropic, "ANTHROPIC"},
	{ProviderOpenAI, "OPENAI"},
	{ProviderGemini, "GEMINI"},
	{ProviderOpenRouter, "OPENROUTER"},
}

// ConfigFromEnv reads EXAMPREP_* variables over DefaultConfig. When no
// provider is named it falls back to DiscoverConfig.
func ConfigFromEnv() Config {
	return configFromLookup(os.Getenv)
}

func configFromLookup(getenv func(string) string) Config {
	cfg := DefaultConfig()
	cfg.Provider = getenv("EXAMPREP_LLM_PROVIDER")

	for _, p := range envProviders {
		cred := cfg.credentials(p.name)
		if k := getenv("EXAMPREP_" + p.prefix + "_API_KEY"); k != "" {
			cred.APIKey = k
		}
		if m := getenv("EXAMPREP_" + p.prefix + "_MODEL"); m != "" {
			cred.Model = m
		}
		if u := getenv("EXAMPREP_" + p.prefix + "_BASE_URL"); u != "" {
			cred.BaseURL = u
		}
	}

	if d, err := time.ParseDuration(getenv("EXAMPREP_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}

	if cfg.Provider == "" {
		if found, ok := discover(cfg, getenv); ok {
			return found
		}
	}
	return cfg
}

// DiscoverConfig picks the first provider with a standard API key variable
// set, in the order Gemini, OpenAI, Anthropic, OpenRouter.
func DiscoverConfig() (Config, bool) {
	return discover(DefaultConfig(), os.Getenv)
}

func discover(cfg Config, getenv func(string) string) (Config, bool) {
	for _, name := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter} {
		var prefix string
		for _, p := range envProviders {
			if p.name == name {
				prefix = p.prefix
			}
		}
		cred := cfg.credentials(name)
		if cred.APIKey != "" {
			cfg.Provider = name
			return cfg, true
		}
		if k := getenv(prefix + "_API_KEY"); k != "" {
			cfg.Provider = name
			cred.APIKey = k
			return cfg, true
		}
	}
	return cfg, false
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool { return c.Provider != "" }

// Validate checks the selected provider has an API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderMock:
		return nil
	}
	cred := c.credentials(c.Provider)
	if cred == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if cred.APIKey == "" {
		for _, p := range envProviders {
			if p.name == c.Provider {
				return fmt.Errorf("EXAMPREP_%s_API_KEY is required for the %s provider", p.prefix, c.Provider)
			}
		}
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
