package wrappers

import (
	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/ports"
)

// Noop is the stateless baseline wrapper: every prompt is allowed and the
// first model output is returned unchecked.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (w *Noop) Name() string {
	return domain.WrapperNoop
}

func (w *Noop) Evaluate(obs domain.Observation) domain.Verdict {
	v := domain.Verdict{
		Action:        domain.ActionAllow,
		Justification: "No filter applied (baseline). Response was not checked for safety.",
	}
	if latest, ok := obs.Latest(); ok {
		v.Output = latest.Output
	}
	return v
}

func (w *Noop) State() map[string]any {
	return map[string]any{"type": "stateless"}
}

var _ ports.Wrapper = (*Noop)(nil)
