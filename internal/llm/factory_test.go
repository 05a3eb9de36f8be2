package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// newModelsServer serves the OpenAI /models discovery endpoint and counts
// how many requests it received.
func newModelsServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

const modelsBody = `{"object":"list","data":[{"id":"deepseek-chat"},{"id":"deepseek-reasoner"}]}`

func openAITestConfig(srv *httptest.Server) ProviderConfig {
	return ProviderConfig{
		Name:    "DeepSeek",
		Kind:    KindOpenAI,
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
	}
}

func TestModelsCachesDiscovery(t *testing.T) {
	srv, hits := newModelsServer(t, http.StatusOK, modelsBody)
	cfg := openAITestConfig(srv)

	f := NewFactory(5 * time.Second)
	ctx := context.Background()

	models, err := f.Models(ctx, cfg)
	if err != nil {
		t.Fatalf("Models: %v", err)
	}
	if len(models) != 2 || models[0] != "deepseek-chat" || models[1] != "deepseek-reasoner" {
		t.Fatalf("models = %v", models)
	}

	// Second call must be served from the cache.
	if _, err := f.Models(ctx, cfg); err != nil {
		t.Fatalf("Models (cached): %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}

	if _, ok := f.FetchedAt(cfg.Name); !ok {
		t.Error("expected a cache entry with a fetch timestamp")
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	srv, hits := newModelsServer(t, http.StatusOK, modelsBody)
	cfg := openAITestConfig(srv)

	f := NewFactory(5 * time.Second)
	ctx := context.Background()

	if _, err := f.Models(ctx, cfg); err != nil {
		t.Fatalf("Models: %v", err)
	}
	f.Invalidate(cfg.Name)
	if _, err := f.Models(ctx, cfg); err != nil {
		t.Fatalf("Models after invalidate: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
}

func TestModelsFallsBackToStaticOnTransientFailure(t *testing.T) {
	srv, _ := newModelsServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`)
	cfg := openAITestConfig(srv)
	cfg.Models = []string{"deepseek-chat"}

	f := NewFactory(5 * time.Second)
	models, err := f.Models(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Models: %v", err)
	}
	if len(models) != 1 || models[0] != "deepseek-chat" {
		t.Errorf("models = %v, want static fallback [deepseek-chat]", models)
	}
}

func TestModelsAuthErrorSurfaces(t *testing.T) {
	srv, _ := newModelsServer(t, http.StatusUnauthorized,
		`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	cfg := openAITestConfig(srv)
	cfg.Models = []string{"deepseek-chat"}

	f := NewFactory(5 * time.Second)
	_, err := f.Models(context.Background(), cfg)
	var authErr *ErrAuth
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want *ErrAuth", err)
	}
}

func TestModelsWithoutFallbackFails(t *testing.T) {
	srv, _ := newModelsServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`)
	cfg := openAITestConfig(srv)

	f := NewFactory(5 * time.Second)
	if _, err := f.Models(context.Background(), cfg); err == nil {
		t.Fatal("expected error with no cache and no static list")
	}
}

func TestModelsNativeKindServesStaticList(t *testing.T) {
	cfg := ProviderConfig{
		Name:   "Anthropic",
		Kind:   KindAnthropic,
		APIKey: "test-key",
		Models: []string{"claude-sonnet-4-5", "claude-haiku-4-5"},
	}

	f := NewFactory(5 * time.Second)
	models, err := f.Models(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Models: %v", err)
	}
	if len(models) != 2 || models[0] != "claude-sonnet-4-5" {
		t.Errorf("models = %v", models)
	}
}

func TestNewRejectsUnknownKind(t *testing.T) {
	f := NewFactory(0)
	if _, err := f.New(context.Background(), ProviderConfig{Name: "X", Kind: "mystery"}, "m"); err == nil {
		t.Fatal("expected unknown kind error")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	f := NewFactory(0)
	cfg := ProviderConfig{Name: "DeepSeek", Kind: KindOpenAI, APIKeyEnv: "DEEPSEEK_API_KEY"}
	if _, err := f.New(context.Background(), cfg, "deepseek-chat"); err == nil {
		t.Fatal("expected missing key error")
	}
}
