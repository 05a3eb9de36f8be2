package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "readling.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestAppendAndQueryEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "DeepSeek", Model: "deepseek-chat", Purpose: "article-gen",
			InputTokens: 500, OutputTokens: 900, LatencyMs: 1200, Success: true,
			RequestBody: "[user]\nwrite", ResponseBody: `{"article":"..."}`},
		{Provider: "DeepSeek", Model: "deepseek-chat", Purpose: "fill-blank-judge",
			InputTokens: 80, OutputTokens: 20, LatencyMs: 300, Success: true},
		{Provider: "NVIDIA", Model: "qwen-max", Purpose: "article-gen",
			LatencyMs: 50, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	// Newest first.
	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("events = %d, want 3", len(got))
	}
	if got[0].Purpose != "article-gen" || got[0].Provider != "NVIDIA" {
		t.Errorf("got[0] = %+v, want the newest event", got[0])
	}
	if got[0].Success {
		t.Error("got[0].Success = true, want false")
	}

	// Purpose filter.
	judged, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "fill-blank-judge"})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	if len(judged) != 1 || judged[0].InputTokens != 80 {
		t.Errorf("judged = %+v", judged)
	}

	// Limit.
	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited = %d, want 2", len(limited))
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "DeepSeek", Model: "deepseek-chat", Purpose: "test-summary",
		RequestBody: "req", ResponseBody: "resp", Success: true,
	})
	if err != nil {
		t.Fatalf("AppendLLMRequest: %v", err)
	}

	e, err := repo.GetLLMEvent(ctx, 1)
	if err != nil {
		t.Fatalf("GetLLMEvent: %v", err)
	}
	if e == nil {
		t.Fatal("event not found")
	}
	if e.RequestBody != "req" || e.ResponseBody != "resp" {
		t.Errorf("bodies = %q / %q", e.RequestBody, e.ResponseBody)
	}
	if e.Timestamp.IsZero() {
		t.Error("zero timestamp")
	}

	missing, err := repo.GetLLMEvent(ctx, 999)
	if err != nil {
		t.Fatalf("GetLLMEvent(999): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestUsageAggregation(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	seed := []LLMRequestEventData{
		{Provider: "DeepSeek", Model: "deepseek-chat", Purpose: "article-gen",
			InputTokens: 100, OutputTokens: 200, LatencyMs: 1000, Success: true},
		{Provider: "DeepSeek", Model: "deepseek-chat", Purpose: "article-gen",
			InputTokens: 300, OutputTokens: 400, LatencyMs: 3000, Success: true},
		{Provider: "DeepSeek", Model: "deepseek-chat", Purpose: "fill-blank-judge",
			InputTokens: 50, OutputTokens: 10, LatencyMs: 200, Success: true},
		// Failures are excluded from aggregates.
		{Provider: "DeepSeek", Model: "deepseek-chat", Purpose: "article-gen",
			LatencyMs: 100, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range seed {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}

	stats, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("LLMUsageByPurpose: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats = %+v, want 2 purposes", stats)
	}

	// Sorted by purpose: article-gen first.
	gen := stats[0]
	if gen.Purpose != "article-gen" || gen.Calls != 2 {
		t.Errorf("gen = %+v", gen)
	}
	if gen.InputTokens != 400 || gen.OutputTokens != 600 {
		t.Errorf("gen tokens = %d/%d", gen.InputTokens, gen.OutputTokens)
	}
	if gen.AvgLatencyMs != 2000 {
		t.Errorf("gen AvgLatencyMs = %d, want 2000", gen.AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("LLMUsageByModel: %v", err)
	}
	if len(byModel) != 1 || byModel[0].Calls != 3 {
		t.Errorf("byModel = %+v", byModel)
	}
	if byModel[0].InputTokens != 450 || byModel[0].OutputTokens != 610 {
		t.Errorf("byModel tokens = %d/%d", byModel[0].InputTokens, byModel[0].OutputTokens)
	}
}
