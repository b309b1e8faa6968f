// Package wrappers implements the closed set of safety wrappers: small
// finite-state monitors that observe a request and its raw model outputs and
// decide whether the call proceeds.
package wrappers

import (
	"fmt"
	"strings"

	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/ports"
)

// Registry builds wrapper instances per request. Stateless wrappers (and the
// per-request query_budget counter) get a fresh instance every time; the
// history wrapper is a shared singleton so its bounded buffer persists across
// requests for the process lifetime.
type Registry struct {
	cfg     domain.WrapperSettings
	history *History
}

// NewRegistry validates the wrapper configuration and constructs the shared
// history instance. Construction fails fast on missing safety-relevant
// settings so misconfiguration never silently defaults at request time.
func NewRegistry(cfg domain.WrapperSettings) (*Registry, error) {
	if _, err := NewKeyword(cfg.Keyword); err != nil {
		return nil, err
	}
	if _, err := NewQueryBudget(cfg.QueryBudget); err != nil {
		return nil, err
	}
	history, err := NewHistory(cfg.History)
	if err != nil {
		return nil, err
	}
	return &Registry{cfg: cfg, history: history}, nil
}

// ForRequest implements ports.WrapperFactory.
func (r *Registry) ForRequest(name string, maxQueriesOverride int) (ports.Wrapper, error) {
	switch name {
	case domain.WrapperNoop:
		return NewNoop(), nil
	case domain.WrapperKeyword:
		return NewKeyword(r.cfg.Keyword)
	case domain.WrapperHistory:
		return r.history, nil
	case domain.WrapperQueryBudget:
		qb := r.cfg.QueryBudget
		if maxQueriesOverride >= 1 && maxQueriesOverride <= domain.MaxQueriesOverrideLimit {
			qb.MaxQueries = maxQueriesOverride
		}
		return NewQueryBudget(qb)
	default:
		return nil, fmt.Errorf("unknown wrapper %q (known: %s)",
			name, strings.Join(domain.KnownWrappers(), ", "))
	}
}

// Describe implements ports.WrapperFactory.
func (r *Registry) Describe() []domain.WrapperInfo {
	return []domain.WrapperInfo{
		{
			ID:          domain.WrapperNoop,
			Label:       "No filter (baseline)",
			Description: "No safety check. Use to compare with other options.",
		},
		{
			ID:          domain.WrapperKeyword,
			Label:       "Block harmful keywords",
			Description: "Blocks prompts containing banned words. Best for stopping obviously harmful requests.",
		},
		{
			ID:          domain.WrapperHistory,
			Label:       "History-based",
			Description: "Avoids empty or repeated answers by re-asking the model (bounded history).",
		},
		{
			ID:          domain.WrapperQueryBudget,
			Label:       "Query budget",
			Description: "Limits how many times the model is called per request. Useful for cost control.",
		},
	}
}

var _ ports.WrapperFactory = (*Registry)(nil)
