package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newChatServer(t *testing.T, handler http.HandlerFunc) ProviderConfig {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return ProviderConfig{
		Name:    "Local",
		Kind:    KindOpenAI,
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
	}
}

func TestOpenAIGenerate(t *testing.T) {
	cfg := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": `{"greeting":"hi"}`},
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     12,
				"completion_tokens": 4,
				"total_tokens":      16,
			},
		})
	})

	p, err := NewOpenAIProvider(cfg, "test-model", 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{
		System:    "be brief",
		Messages:  []Message{{Role: RoleUser, Content: "hello"}},
		MaxTokens: 64,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if string(resp.Content) != `{"greeting":"hi"}` {
		t.Errorf("Content = %s", resp.Content)
	}
	if resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 4 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
	if resp.Model != "test-model" {
		t.Errorf("Model = %q", resp.Model)
	}
	if resp.StopReason != "end" {
		t.Errorf("StopReason = %q", resp.StopReason)
	}
}

func TestOpenAIGenerateErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   any
		transient bool
	}{
		{"rate limit", http.StatusTooManyRequests, new(*ErrRateLimit), true},
		{"auth", http.StatusUnauthorized, new(*ErrAuth), false},
		{"bad request", http.StatusBadRequest, new(*ErrBadRequest), false},
		{"server error", http.StatusInternalServerError, new(*ErrProviderUnavailable), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"message":"nope","type":"test_error"}}`))
			})

			p, err := NewOpenAIProvider(cfg, "test-model", 5*time.Second)
			if err != nil {
				t.Fatalf("NewOpenAIProvider: %v", err)
			}

			_, err = p.Generate(context.Background(), Request{
				Messages: []Message{{Role: RoleUser, Content: "hello"}},
			})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.As(err, tt.wantErr) {
				t.Errorf("err = %v, want %T", err, tt.wantErr)
			}
			if got := IsTransient(err); got != tt.transient {
				t.Errorf("IsTransient = %v, want %v", got, tt.transient)
			}
		})
	}
}

func TestOpenAIListModelsOrder(t *testing.T) {
	cfg := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"id":"b-model"},{"id":"a-model"},{"id":"c-model"}]}`))
	})

	p, err := NewOpenAIProvider(cfg, "", 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}

	models, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}

	// Service order preserved, not sorted.
	want := []string{"b-model", "a-model", "c-model"}
	if len(models) != len(want) {
		t.Fatalf("models = %v", models)
	}
	for i := range want {
		if models[i] != want[i] {
			t.Errorf("models[%d] = %q, want %q", i, models[i], want[i])
		}
	}
}

func TestOpenAIGenerateSchemaValidation(t *testing.T) {
	cfg := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": "test-model",
			"choices": []map[string]any{
				{
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": `{"wrong":"shape"}`},
				},
			},
		})
	})

	p, err := NewOpenAIProvider(cfg, "test-model", 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}

	schema := &Schema{
		Name: "greeting",
		Definition: map[string]any{
			"type":                 "object",
			"properties":           map[string]any{"greeting": map[string]any{"type": "string"}},
			"required":             []any{"greeting"},
			"additionalProperties": false,
		},
	}

	_, err = p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
		Schema:   schema,
	})

	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want *ErrInvalidResponse", err)
	}
	if string(inv.Content) != `{"wrong":"shape"}` {
		t.Errorf("Content = %s, want raw response carried", inv.Content)
	}
}
