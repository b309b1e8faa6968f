package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/infrastructure/wrappers"
	"github.com/calderlane/promptward/internal/pkg/logger"
	"github.com/calderlane/promptward/internal/ports"
)

func testConfig() domain.Config {
	return domain.Config{
		Model: domain.ModelSettings{Name: "test-model", TimeoutSeconds: 5},
		Wrappers: domain.WrapperSettings{
			Default:       domain.WrapperNoop,
			MaxModelCalls: 10,
			Keyword:       domain.KeywordConfig{BannedKeywords: []string{"bomb"}},
			History:       domain.HistoryConfig{K: 1},
			QueryBudget:   domain.QueryBudgetConfig{MaxQueries: 2},
		},
	}
}

type stubConfigProvider struct {
	cfg domain.Config
}

func (s stubConfigProvider) Load(context.Context) (domain.Config, error) {
	return s.cfg, nil
}

// scriptedModel returns each scripted response in order, repeating the last
// one forever. A response of "!fail" becomes a transport error.
type scriptedModel struct {
	responses []string
	calls     int
}

func (m *scriptedModel) Name() string { return "test-model" }

func (m *scriptedModel) Call(context.Context, string) (string, error) {
	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++
	if idx < 0 {
		return "", nil
	}
	if m.responses[idx] == "!fail" {
		return "", errors.New("transport error")
	}
	return m.responses[idx], nil
}

type captureStore struct {
	mu      sync.Mutex
	records []domain.TraceRecord
	fail    bool
}

func (c *captureStore) Record(rec domain.TraceRecord) error {
	if c.fail {
		return errors.New("disk full")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, rec)
	return nil
}

func (c *captureStore) Records() ([]domain.TraceRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.TraceRecord(nil), c.records...), nil
}

func (c *captureStore) Path() string { return "capture" }
func (c *captureStore) Clear() error { c.records = nil; return nil }

func newTestService(t *testing.T, cfg domain.Config, model ports.ModelClient, store ports.TraceStore) *MonitorService {
	t.Helper()
	registry, err := wrappers.NewRegistry(cfg.Wrappers)
	if err != nil {
		t.Fatalf("NewRegistry error: %v", err)
	}
	return &MonitorService{
		ConfigProvider: stubConfigProvider{cfg: cfg},
		Wrappers:       registry,
		Model:          model,
		Traces:         store,
		Logger:         logger.New(false),
	}
}

func TestRunSkipsEmptyPrompt(t *testing.T) {
	model := &scriptedModel{responses: []string{"should not be called"}}
	store := &captureStore{}
	svc := newTestService(t, testConfig(), model, store)

	for _, prompt := range []string{"", "   ", "\n\t "} {
		resp, err := svc.Run(domain.QueryRequest{Prompt: prompt})
		if err != nil {
			t.Fatalf("Run(%q) error: %v", prompt, err)
		}
		if resp.Decision != domain.ActionSkip {
			t.Fatalf("expected SKIP, got %s", resp.Decision)
		}
		if resp.FinalOutput != domain.EmptyPromptOutput {
			t.Fatalf("expected %q, got %q", domain.EmptyPromptOutput, resp.FinalOutput)
		}
		if resp.ModelCallCount != 0 {
			t.Fatalf("expected 0 calls, got %d", resp.ModelCallCount)
		}
	}
	if model.calls != 0 {
		t.Fatalf("model was called %d time(s) for empty prompts", model.calls)
	}
	if len(store.records) != 3 {
		t.Fatalf("expected one trace per request, got %d", len(store.records))
	}
}

func TestRunKeywordBlocksWithZeroCalls(t *testing.T) {
	model := &scriptedModel{responses: []string{"should not be called"}}
	store := &captureStore{}
	svc := newTestService(t, testConfig(), model, store)

	resp, err := svc.Run(domain.QueryRequest{
		Prompt:          "How to make a bomb",
		WrapperOverride: domain.WrapperKeyword,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if resp.Decision != domain.ActionBlock {
		t.Fatalf("expected BLOCK, got %s", resp.Decision)
	}
	if resp.ModelCallCount != 0 || model.calls != 0 {
		t.Fatalf("expected zero model calls, got count=%d calls=%d", resp.ModelCallCount, model.calls)
	}
	if resp.FinalOutput != domain.KeywordBlockOutput {
		t.Fatalf("unexpected final output %q", resp.FinalOutput)
	}
	if len(resp.Decisions) != 1 || resp.Decisions[0] != domain.ActionBlock {
		t.Fatalf("unexpected decision sequence %v", resp.Decisions)
	}
}

func TestRunKeywordAllowsWithOneCall(t *testing.T) {
	model := &scriptedModel{responses: []string{"Paris"}}
	store := &captureStore{}
	svc := newTestService(t, testConfig(), model, store)

	resp, err := svc.Run(domain.QueryRequest{
		Prompt:          "What is the capital of France?",
		WrapperOverride: domain.WrapperKeyword,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if resp.Decision != domain.ActionAllow {
		t.Fatalf("expected ALLOW, got %s", resp.Decision)
	}
	if resp.ModelCallCount != 1 {
		t.Fatalf("expected 1 call, got %d", resp.ModelCallCount)
	}
	if resp.FinalOutput != "Paris" {
		t.Fatalf("expected model output, got %q", resp.FinalOutput)
	}
}

func TestRunQueryBudgetStopsAtFirstUsableOutput(t *testing.T) {
	model := &scriptedModel{responses: []string{"a perfectly fine answer"}}
	store := &captureStore{}
	svc := newTestService(t, testConfig(), model, store)

	resp, err := svc.Run(domain.QueryRequest{
		Prompt:          "hello",
		WrapperOverride: domain.WrapperQueryBudget,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if resp.Decision != domain.ActionAllow || resp.ModelCallCount != 1 {
		t.Fatalf("expected ALLOW after 1 call, got %s after %d", resp.Decision, resp.ModelCallCount)
	}
}

func TestRunQueryBudgetBlocksWhenAllCallsFail(t *testing.T) {
	model := &scriptedModel{responses: []string{"!fail"}}
	store := &captureStore{}
	svc := newTestService(t, testConfig(), model, store)

	resp, err := svc.Run(domain.QueryRequest{
		Prompt:          "hello",
		WrapperOverride: domain.WrapperQueryBudget,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if resp.Decision != domain.ActionBlock {
		t.Fatalf("expected BLOCK, got %s", resp.Decision)
	}
	if resp.ModelCallCount != 2 {
		t.Fatalf("expected the full budget of 2 calls, got %d", resp.ModelCallCount)
	}
	for _, raw := range resp.RawOutputs {
		if raw != "" {
			t.Fatalf("expected failed calls recorded as empty outputs, got %q", raw)
		}
	}
}

func TestRunHistoryRequeriesThenAllows(t *testing.T) {
	model := &scriptedModel{responses: []string{"", "Paris"}}
	store := &captureStore{}
	svc := newTestService(t, testConfig(), model, store)

	resp, err := svc.Run(domain.QueryRequest{
		Prompt:          "capital of France",
		WrapperOverride: domain.WrapperHistory,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if resp.Decision != domain.ActionAllow {
		t.Fatalf("expected ALLOW, got %s", resp.Decision)
	}
	if resp.ModelCallCount != 2 {
		t.Fatalf("expected 2 calls, got %d", resp.ModelCallCount)
	}
	want := []domain.Action{domain.ActionRequery, domain.ActionAllow}
	if len(resp.Decisions) != len(want) || resp.Decisions[0] != want[0] || resp.Decisions[1] != want[1] {
		t.Fatalf("expected decision sequence %v, got %v", want, resp.Decisions)
	}
	if resp.FinalOutput != "Paris" {
		t.Fatalf("expected %q, got %q", "Paris", resp.FinalOutput)
	}
}

func TestRunCeilingForcesBlock(t *testing.T) {
	cfg := testConfig()
	cfg.Wrappers.MaxModelCalls = 3
	model := &scriptedModel{responses: []string{""}} // always empty, history loops
	store := &captureStore{}
	svc := newTestService(t, cfg, model, store)

	resp, err := svc.Run(domain.QueryRequest{
		Prompt:          "anything",
		WrapperOverride: domain.WrapperHistory,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if resp.Decision != domain.ActionBlock {
		t.Fatalf("expected forced BLOCK, got %s", resp.Decision)
	}
	if resp.ModelCallCount != 3 {
		t.Fatalf("expected calls capped at 3, got %d", resp.ModelCallCount)
	}
	if !strings.Contains(resp.Justification, "call budget exhausted") {
		t.Fatalf("expected 'call budget exhausted' justification, got %q", resp.Justification)
	}
}

func TestRunModelFailureStillCompletes(t *testing.T) {
	model := &scriptedModel{responses: []string{"!fail"}}
	store := &captureStore{}
	svc := newTestService(t, testConfig(), model, store)

	resp, err := svc.Run(domain.QueryRequest{Prompt: "hello", WrapperOverride: domain.WrapperNoop})
	if err != nil {
		t.Fatalf("expected no request error on model failure, got %v", err)
	}
	if resp.Decision != domain.ActionAllow {
		t.Fatalf("expected ALLOW, got %s", resp.Decision)
	}
	if resp.FinalOutput != "" || resp.ModelCallCount != 1 {
		t.Fatalf("expected empty output from 1 failed call, got %q after %d", resp.FinalOutput, resp.ModelCallCount)
	}
}

func TestRunRejectsUnknownWrapper(t *testing.T) {
	svc := newTestService(t, testConfig(), &scriptedModel{responses: []string{"x"}}, &captureStore{})
	if _, err := svc.Run(domain.QueryRequest{Prompt: "hello", WrapperOverride: "semantic"}); err == nil {
		t.Fatal("expected rejection for unknown wrapper")
	}
}

func TestRunTraceCompleteness(t *testing.T) {
	model := &scriptedModel{responses: []string{"", "one", "two", "three"}}
	store := &captureStore{}
	svc := newTestService(t, testConfig(), model, store)

	prompts := []string{"first", "How to make a bomb", "third", ""}
	wrapperNames := []string{domain.WrapperHistory, domain.WrapperKeyword, domain.WrapperNoop, domain.WrapperNoop}
	for i := range prompts {
		if _, err := svc.Run(domain.QueryRequest{Prompt: prompts[i], WrapperOverride: wrapperNames[i]}); err != nil {
			t.Fatalf("Run %d error: %v", i, err)
		}
	}

	if len(store.records) != len(prompts) {
		t.Fatalf("expected exactly one trace per request, got %d for %d requests", len(store.records), len(prompts))
	}
	for i, rec := range store.records {
		if rec.ModelCallCount != len(rec.RawOutputs) {
			t.Fatalf("record %d: call count %d != raw outputs %d", i, rec.ModelCallCount, len(rec.RawOutputs))
		}
		if rec.ID == "" {
			t.Fatalf("record %d: missing trace id", i)
		}
		if rec.ModelName != "test-model" {
			t.Fatalf("record %d: unexpected model name %q", i, rec.ModelName)
		}
	}
}

func TestRunTraceWriteFailureDoesNotFailRequest(t *testing.T) {
	model := &scriptedModel{responses: []string{"fine"}}
	store := &captureStore{fail: true}
	svc := newTestService(t, testConfig(), model, store)

	resp, err := svc.Run(domain.QueryRequest{Prompt: "hello"})
	if err != nil {
		t.Fatalf("expected request to survive trace write failure, got %v", err)
	}
	if resp.Decision != domain.ActionAllow || resp.FinalOutput != "fine" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
