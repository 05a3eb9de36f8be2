package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Factory maps provider configurations to concrete clients and maintains
// the process-wide model-list cache keyed by provider name.
type Factory struct {
	timeout time.Duration

	mu    sync.Mutex
	cache map[string]modelCacheEntry
}

type modelCacheEntry struct {
	models    []string
	fetchedAt time.Time
}

// NewFactory creates a Factory. timeout bounds each provider request.
func NewFactory(timeout time.Duration) *Factory {
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	return &Factory{
		timeout: timeout,
		cache:   make(map[string]modelCacheEntry),
	}
}

// New maps a ProviderConfig to a concrete client bound to the given model.
// Pure kind dispatch, no I/O.
func (f *Factory) New(ctx context.Context, cfg ProviderConfig, model string) (Provider, error) {
	switch cfg.Kind {
	case KindAnthropic:
		return NewAnthropicProvider(cfg, model, f.timeout)
	case KindGemini:
		return NewGeminiProvider(ctx, cfg, model, f.timeout)
	case KindOpenAI:
		return NewOpenAIProvider(cfg, model, f.timeout)
	default:
		return nil, fmt.Errorf("provider %q: unknown kind %q", cfg.Name, cfg.Kind)
	}
}

// Models returns the model list for a provider, consulting the cache
// first. On a miss it calls ListModels, stores the result with the
// current timestamp, and returns it. A transient discovery failure falls
// back to the previously cached list if any, then to the static
// configuration if present; only when neither exists does the error
// surface. Permanent failures (auth) always surface.
func (f *Factory) Models(ctx context.Context, cfg ProviderConfig) ([]string, error) {
	f.mu.Lock()
	if entry, ok := f.cache[cfg.Name]; ok {
		models := entry.models
		f.mu.Unlock()
		return models, nil
	}
	f.mu.Unlock()

	client, err := f.New(ctx, cfg, "")
	if err != nil {
		return nil, err
	}

	models, err := client.ListModels(ctx)
	if err != nil {
		if !IsTransient(err) {
			return nil, err
		}
		if cached, ok := f.cached(cfg.Name); ok {
			return cached, nil
		}
		if len(cfg.Models) > 0 {
			return cfg.Models, nil
		}
		return nil, fmt.Errorf("list models for %s: %w", cfg.Name, err)
	}

	f.mu.Lock()
	f.cache[cfg.Name] = modelCacheEntry{models: models, fetchedAt: time.Now()}
	f.mu.Unlock()

	return models, nil
}

// Invalidate clears the cache entry for a provider, forcing the next
// Models call to re-fetch.
func (f *Factory) Invalidate(name string) {
	f.mu.Lock()
	delete(f.cache, name)
	f.mu.Unlock()
}

// FetchedAt reports when the cached model list for a provider was
// fetched. ok is false when there is no cache entry.
func (f *Factory) FetchedAt(name string) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.cache[name]
	return entry.fetchedAt, ok
}

func (f *Factory) cached(name string) ([]string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.cache[name]
	return entry.models, ok
}
