package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/calderlane/promptward/internal/domain"
)

func TestLoadWritesDefaultConfigOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.Wrappers.Default != domain.WrapperNoop {
		t.Fatalf("unexpected default wrapper %q", cfg.Wrappers.Default)
	}
	if len(cfg.Wrappers.Keyword.BannedKeywords) == 0 {
		t.Fatal("default config carries no banned keywords")
	}
	if cfg.Wrappers.History.K < 1 || cfg.Wrappers.QueryBudget.MaxQueries < 1 {
		t.Fatalf("default wrapper parameters invalid: %+v", cfg.Wrappers)
	}
	if cfg.Model.Name == "" || cfg.Model.BaseURL == "" {
		t.Fatalf("model defaults missing: %+v", cfg.Model)
	}
}

func TestLoadHydratesOperationalDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	minimal := `
wrappers:
  default: keyword
  keyword:
    banned_keywords: [bomb]
  history:
    k: 3
  query_budget:
    max_queries: 2
`
	if err := os.WriteFile(path, []byte(minimal), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Model.Name != domain.DefaultModelName {
		t.Fatalf("model name not defaulted: %q", cfg.Model.Name)
	}
	if cfg.Model.TimeoutSeconds != domain.DefaultTimeoutSeconds {
		t.Fatalf("timeout not defaulted: %d", cfg.Model.TimeoutSeconds)
	}
	if cfg.Wrappers.MaxModelCalls != domain.DefaultMaxModelCalls {
		t.Fatalf("max model calls not defaulted: %d", cfg.Wrappers.MaxModelCalls)
	}
	if cfg.Wrappers.Default != domain.WrapperKeyword {
		t.Fatalf("explicit default overwritten: %q", cfg.Wrappers.Default)
	}
	if cfg.Logging.Store != "file" {
		t.Fatalf("store not defaulted: %q", cfg.Logging.Store)
	}
}

func TestLoadRejectsInvalidSafetyParameters(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "empty banned keywords",
			yaml: `
wrappers:
  keyword:
    banned_keywords: []
  history:
    k: 3
  query_budget:
    max_queries: 2
`,
		},
		{
			name: "history k below one",
			yaml: `
wrappers:
  keyword:
    banned_keywords: [bomb]
  history:
    k: 0
  query_budget:
    max_queries: 2
`,
		},
		{
			name: "unknown default wrapper",
			yaml: `
wrappers:
  default: semantic
  keyword:
    banned_keywords: [bomb]
  history:
    k: 3
  query_budget:
    max_queries: 2
`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o600); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("wrappers: [not: a: mapping"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestTracePathUsesConfiguredDir(t *testing.T) {
	cfg := domain.Config{}
	cfg.Logging.Dir = "/var/log/promptward"
	cfg.Logging.TraceFile = "t.jsonl"
	if got := TracePath(cfg); got != filepath.Join("/var/log/promptward", "t.jsonl") {
		t.Fatalf("unexpected trace path %q", got)
	}

	cfg.Logging.Dir = ""
	cfg.Logging.TraceFile = ""
	got := TracePath(cfg)
	if filepath.Base(got) != domain.DefaultTraceFile {
		t.Fatalf("default trace file not applied: %q", got)
	}
}
