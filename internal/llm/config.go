package llm

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind selects the wire protocol a provider speaks.
type Kind string

const (
	// KindAnthropic is the native Anthropic Messages API. No model
	// discovery endpoint; the configured model list is authoritative.
	KindAnthropic Kind = "anthropic"

	// KindGemini is the native Google Gemini API. No model discovery
	// endpoint; the configured model list is authoritative.
	KindGemini Kind = "gemini"

	// KindOpenAI is the OpenAI-compatible chat completions API,
	// parameterized by base URL. Covers OpenAI itself plus OpenRouter,
	// DeepSeek, NVIDIA, DashScope-compatible mode, and friends.
	// Supports model discovery via the /models endpoint.
	KindOpenAI Kind = "openai"
)

// ProviderConfig describes one configured provider account.
// Immutable once loaded; reloaded only on process restart.
type ProviderConfig struct {
	// Name is the unique display label for this provider section,
	// e.g. "DeepSeek" or "NVIDIA".
	Name string `yaml:"name"`

	// Kind selects the client implementation.
	Kind Kind `yaml:"kind"`

	// APIKeyEnv names the environment variable holding the API key.
	// Resolved into APIKey at load time so config files never carry
	// secrets.
	APIKeyEnv string `yaml:"api_key_env"`

	// APIKey is the resolved key. Populated from APIKeyEnv by Load;
	// may also be set directly in tests.
	APIKey string `yaml:"-"`

	// BaseURL overrides the API endpoint. Required for OpenAI-compatible
	// providers other than OpenAI itself; ignored by native kinds.
	BaseURL string `yaml:"base_url"`

	// Models is the statically configured, ordered model list. May be
	// empty for KindOpenAI, in which case models must be discovered
	// dynamically.
	Models []string `yaml:"models"`
}

// Config holds the full provider roster plus request policy knobs.
type Config struct {
	Providers []ProviderConfig `yaml:"providers"`

	// Retry configures the caller-side retry decorator. The provider
	// clients themselves never retry.
	Retry RetryConfig `yaml:"retry"`

	// Timeout is the ceiling for a single provider request. Exceeding it
	// is classified as a transient failure. Default: 60s.
	Timeout time.Duration `yaml:"timeout"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// UnmarshalYAML decodes durations from strings like "60s". Absent fields
// keep whatever value the receiver already holds, so decoding over
// DefaultConfig preserves the defaults.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Providers []ProviderConfig `yaml:"providers"`
		Retry     *RetryConfig     `yaml:"retry"`
		Timeout   string           `yaml:"timeout"`
	}
	raw.Retry = &c.Retry
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.Providers = raw.Providers
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

// UnmarshalYAML decodes durations from strings like "1s".
func (r *RetryConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MaxAttempts int     `yaml:"max_attempts"`
		InitialWait string  `yaml:"initial_wait"`
		MaxWait     string  `yaml:"max_wait"`
		Multiplier  float64 `yaml:"multiplier"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.MaxAttempts != 0 {
		r.MaxAttempts = raw.MaxAttempts
	}
	if raw.Multiplier != 0 {
		r.Multiplier = raw.Multiplier
	}
	if raw.InitialWait != "" {
		d, err := time.ParseDuration(raw.InitialWait)
		if err != nil {
			return fmt.Errorf("parse initial_wait: %w", err)
		}
		r.InitialWait = d
	}
	if raw.MaxWait != "" {
		d, err := time.ParseDuration(raw.MaxWait)
		if err != nil {
			return fmt.Errorf("parse max_wait: %w", err)
		}
		r.MaxWait = d
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults and no providers.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// Load reads the provider roster from a YAML file, resolves API keys from
// the environment, and validates the result. Providers whose key env var
// is unset are kept in the roster but fail at client construction, so a
// missing key for one provider never hides the others.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read provider config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse provider config: %w", err)
	}

	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		if p.APIKeyEnv != "" {
			p.APIKey = os.Getenv(p.APIKeyEnv)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks structural integrity of the roster: non-empty unique
// names and known kinds. Key presence is checked at client construction.
func (c Config) Validate() error {
	seen := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("provider with empty name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate provider name %q", p.Name)
		}
		seen[p.Name] = true

		switch p.Kind {
		case KindAnthropic, KindGemini, KindOpenAI:
		default:
			return fmt.Errorf("provider %q: unknown kind %q", p.Name, p.Kind)
		}
	}
	return nil
}

// Find returns the provider section with the given name.
func (c Config) Find(name string) (ProviderConfig, bool) {
	for _, p := range c.Providers {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderConfig{}, false
}
