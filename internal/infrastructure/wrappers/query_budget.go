package wrappers

import (
	"fmt"

	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/ports"
)

// QueryBudget caps model calls per request at max_queries. It allows as soon
// as a usable (non-empty, non-failed) output exists and re-queries while the
// budget has room. When the budget runs out without a usable output it
// allows the last non-empty output if one exists; when every call in the
// budget failed or came back empty, it blocks. The loop itself carries a
// separate, independent hard ceiling.
type QueryBudget struct {
	maxQueries int
	calls      int
}

// NewQueryBudget constructs the wrapper; maxQueries < 1 is a configuration
// error.
func NewQueryBudget(cfg domain.QueryBudgetConfig) (*QueryBudget, error) {
	if cfg.MaxQueries < 1 {
		return nil, fmt.Errorf("query_budget wrapper requires max_queries >= 1, got %d", cfg.MaxQueries)
	}
	return &QueryBudget{maxQueries: cfg.MaxQueries}, nil
}

func (w *QueryBudget) Name() string {
	return domain.WrapperQueryBudget
}

func (w *QueryBudget) Evaluate(obs domain.Observation) domain.Verdict {
	used := obs.CallCount()
	w.calls = used
	if latest, ok := obs.Latest(); ok && latest.Usable() {
		return domain.Verdict{
			Action:        domain.ActionAllow,
			Justification: fmt.Sprintf("Query budget: up to %d call(s); used %d.", w.maxQueries, used),
			Output:        latest.Output,
		}
	}
	if used < w.maxQueries {
		return domain.Verdict{
			Action:        domain.ActionRequery,
			Justification: fmt.Sprintf("Query budget: no usable output yet; %d of %d call(s) used.", used, w.maxQueries),
		}
	}
	// Budget exhausted. Fall back to the most recent non-empty output.
	for i := len(obs.Outputs) - 1; i >= 0; i-- {
		if obs.Outputs[i].Usable() {
			return domain.Verdict{
				Action:        domain.ActionAllow,
				Justification: fmt.Sprintf("Query budget exhausted: up to %d call(s); returning last usable output.", w.maxQueries),
				Output:        obs.Outputs[i].Output,
			}
		}
	}
	return domain.Verdict{
		Action:        domain.ActionBlock,
		Justification: fmt.Sprintf("Query budget exhausted: %d call(s) produced no usable output.", w.maxQueries),
		Output:        domain.BudgetExhaustedOutput,
	}
}

func (w *QueryBudget) State() map[string]any {
	return map[string]any{"call_count": w.calls, "max_queries": w.maxQueries}
}

var _ ports.Wrapper = (*QueryBudget)(nil)
