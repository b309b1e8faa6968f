package wrappers

import (
	"fmt"
	"strings"
	"sync"

	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/ports"
)

// History re-queries the model whenever the latest output is empty, failed,
// or textually identical to a recently admitted output. Admitted outputs go
// into a bounded FIFO buffer of length k.
//
// The buffer is process-wide, scoped to the wrapper instance's lifetime: it
// persists across requests sharing the instance, so a duplicate of an answer
// given to an earlier request is also re-queried. Per-request state is only
// the outputs carried in the observation.
type History struct {
	k int

	mu     sync.Mutex
	buffer []string
}

// NewHistory constructs the wrapper; k < 1 is a configuration error.
func NewHistory(cfg domain.HistoryConfig) (*History, error) {
	if cfg.K < 1 {
		return nil, fmt.Errorf("history wrapper requires k >= 1, got %d", cfg.K)
	}
	return &History{k: cfg.K}, nil
}

func (w *History) Name() string {
	return domain.WrapperHistory
}

func (w *History) Evaluate(obs domain.Observation) domain.Verdict {
	latest, ok := obs.Latest()
	if !ok || !latest.OK || strings.TrimSpace(latest.Output) == "" {
		return domain.Verdict{
			Action:        domain.ActionRequery,
			Justification: "History: output empty or failed; re-querying the model.",
		}
	}

	trimmed := strings.TrimSpace(latest.Output)

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, seen := range w.buffer {
		if seen == trimmed {
			return domain.Verdict{
				Action:        domain.ActionRequery,
				Justification: "History: duplicate of a recent output; re-querying the model.",
			}
		}
	}

	w.buffer = append(w.buffer, trimmed)
	if len(w.buffer) > w.k {
		w.buffer = w.buffer[1:]
	}

	return domain.Verdict{
		Action: domain.ActionAllow,
		Justification: fmt.Sprintf("History: response allowed after %d call(s) (no empty or duplicate output).",
			obs.CallCount()),
		Output: latest.Output,
	}
}

func (w *History) State() map[string]any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return map[string]any{
		"k":      w.k,
		"buffer": append([]string(nil), w.buffer...),
	}
}

var _ ports.Wrapper = (*History)(nil)
