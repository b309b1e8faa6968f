package domain

import (
	"fmt"
	"strings"
)

// KnownWrappers lists every wrapper name the registry can construct.
func KnownWrappers() []string {
	return []string{WrapperNoop, WrapperKeyword, WrapperHistory, WrapperQueryBudget}
}

// IsKnownWrapper reports whether name is a recognized wrapper id.
func IsKnownWrapper(name string) bool {
	switch name {
	case WrapperNoop, WrapperKeyword, WrapperHistory, WrapperQueryBudget:
		return true
	}
	return false
}

// Validate rejects configurations that would weaken a wrapper at request
// time. It runs once at startup so misconfiguration surfaces before any
// model call.
func (c *Config) Validate() error {
	if c.Wrappers.Default != "" && !IsKnownWrapper(c.Wrappers.Default) {
		return fmt.Errorf("unknown default wrapper %q (known: %s)",
			c.Wrappers.Default, strings.Join(KnownWrappers(), ", "))
	}
	if c.Wrappers.MaxModelCalls < 1 {
		return fmt.Errorf("wrappers.max_model_calls must be >= 1, got %d", c.Wrappers.MaxModelCalls)
	}
	if len(c.Wrappers.Keyword.BannedKeywords) == 0 {
		return fmt.Errorf("wrappers.keyword.banned_keywords must not be empty")
	}
	for _, kw := range c.Wrappers.Keyword.BannedKeywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("wrappers.keyword.banned_keywords contains a blank entry")
		}
	}
	if c.Wrappers.History.K < 1 {
		return fmt.Errorf("wrappers.history.k must be >= 1, got %d", c.Wrappers.History.K)
	}
	if c.Wrappers.QueryBudget.MaxQueries < 1 {
		return fmt.Errorf("wrappers.query_budget.max_queries must be >= 1, got %d", c.Wrappers.QueryBudget.MaxQueries)
	}
	return nil
}

// WrapperConfigFor returns the variant-specific configuration as a mapping,
// in the shape recorded in trace records.
func (c *Config) WrapperConfigFor(name string) map[string]any {
	switch name {
	case WrapperKeyword:
		return map[string]any{"banned_keywords": append([]string(nil), c.Wrappers.Keyword.BannedKeywords...)}
	case WrapperHistory:
		return map[string]any{"k": c.Wrappers.History.K}
	case WrapperQueryBudget:
		return map[string]any{"max_queries": c.Wrappers.QueryBudget.MaxQueries}
	default:
		return map[string]any{}
	}
}

// DefaultWrapper resolves the wrapper used when a request names none.
func (c *Config) DefaultWrapper() string {
	if c.Wrappers.Default != "" {
		return c.Wrappers.Default
	}
	return WrapperNoop
}
