// Package services holds the decision loop that drives a single request
// through its safety wrapper, issuing model calls as instructed and
// assembling the final, traceable result.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/ports"
)

// MonitorService mediates one request end-to-end: wrapper evaluation, model
// calls, finalization, and trace recording. All per-request state is local to
// Run, so concurrent requests never share mutable state (the history
// wrapper's cross-request buffer guards itself).
type MonitorService struct {
	ConfigProvider ports.ConfigProvider
	Wrappers       ports.WrapperFactory
	Model          ports.ModelClient
	Traces         ports.TraceStore
	Logger         ports.Logger
}

// Run processes a single mediated request. Every completed request returns a
// decision with a justification; only configuration errors (unknown wrapper)
// reject the request outright.
func (s *MonitorService) Run(req domain.QueryRequest) (domain.QueryResponse, error) {
	if s.ConfigProvider == nil || s.Wrappers == nil || s.Model == nil ||
		s.Traces == nil || s.Logger == nil {
		return domain.QueryResponse{}, errors.New("services.MonitorService dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.QueryResponse{}, fmt.Errorf("load config: %w", err)
	}

	wrapperName := req.WrapperOverride
	if wrapperName == "" {
		wrapperName = cfg.DefaultWrapper()
	}

	// Empty-prompt short circuit: no wrapper runs, no model call is made.
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		resp := domain.QueryResponse{
			FinalOutput:    domain.EmptyPromptOutput,
			Decision:       domain.ActionSkip,
			Justification:  "No prompt entered; no model call. No safety decision applied.",
			WrapperName:    wrapperName,
			WrapperState:   map[string]any{},
			RawOutputs:     []string{},
			TraceID:        uuid.NewString(),
			ModelCallCount: 0,
		}
		s.record(cfg, resp, prompt)
		return resp, nil
	}

	wrapper, err := s.Wrappers.ForRequest(wrapperName, req.MaxQueriesOverride)
	if err != nil {
		return domain.QueryResponse{}, fmt.Errorf("select wrapper: %w", err)
	}

	ceiling := cfg.Wrappers.MaxModelCalls
	if ceiling < 1 {
		ceiling = domain.DefaultMaxModelCalls
	}

	obs := domain.Observation{Prompt: prompt}
	var decisions []domain.Action
	var final domain.Verdict

	// Bootstrap visit on the bare prompt. Prompt-gating wrappers decide here
	// with zero model calls; a REQUERY requests the first call and is not
	// recorded, since it observed no output.
	v := wrapper.Evaluate(obs)
	switch v.Action {
	case domain.ActionBlock, domain.ActionModify:
		decisions = append(decisions, v.Action)
		final = v
	case domain.ActionAllow:
		res := s.callModel(ctx, cfg, prompt)
		obs.Outputs = append(obs.Outputs, res)
		v.Output = res.Output
		decisions = append(decisions, v.Action)
		final = v
	default: // REQUERY
		final = s.requeryLoop(ctx, cfg, wrapper, &obs, ceiling, &decisions)
	}

	resp := domain.QueryResponse{
		FinalOutput:    final.Output,
		Decision:       final.Action,
		Justification:  final.Justification,
		ModelCallCount: obs.CallCount(),
		RawOutputs:     rawOutputs(obs.Outputs),
		Decisions:      decisions,
		WrapperName:    wrapperName,
		WrapperState:   wrapper.State(),
		TraceID:        uuid.NewString(),
	}

	s.record(cfg, resp, prompt)
	return resp, nil
}

// requeryLoop alternates MODEL_CALLING and WRAPPER_EVALUATING until the
// wrapper terminates or the hard ceiling on model calls is hit. The ceiling
// is independent of any wrapper budget and forces a BLOCK, the system's only
// circuit breaker against misconfigured REQUERY loops.
func (s *MonitorService) requeryLoop(
	ctx context.Context,
	cfg domain.Config,
	wrapper ports.Wrapper,
	obs *domain.Observation,
	ceiling int,
	decisions *[]domain.Action,
) domain.Verdict {
	for {
		if obs.CallCount() >= ceiling {
			*decisions = append(*decisions, domain.ActionBlock)
			return domain.Verdict{
				Action:        domain.ActionBlock,
				Justification: fmt.Sprintf("Blocked: call budget exhausted (%d call(s) made).", obs.CallCount()),
				Output:        domain.CallCeilingOutput,
			}
		}

		res := s.callModel(ctx, cfg, obs.Prompt)
		obs.Outputs = append(obs.Outputs, res)

		v := wrapper.Evaluate(*obs)
		*decisions = append(*decisions, v.Action)
		if v.Action == domain.ActionRequery {
			continue
		}
		if v.Action == domain.ActionAllow && v.Output == "" {
			if latest, ok := obs.Latest(); ok {
				v.Output = latest.Output
			}
		}
		return v
	}
}

// callModel invokes the model client under a bounded timeout. A failure or
// timeout becomes an empty, not-OK result; it is recorded, not raised.
func (s *MonitorService) callModel(ctx context.Context, cfg domain.Config, prompt string) domain.ModelCallResult {
	timeout := time.Duration(cfg.Model.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = domain.DefaultTimeoutSeconds * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := s.Model.Call(cctx, prompt)
	if err != nil {
		s.Logger.Warn("model call failed", map[string]interface{}{
			"model": s.Model.Name(),
			"error": err.Error(),
		})
		return domain.ModelCallResult{OK: false}
	}
	return domain.ModelCallResult{Output: out, OK: true}
}

// record appends exactly one trace record for the completed request. A write
// failure is reported but never aborts a request that already produced a
// decision.
func (s *MonitorService) record(cfg domain.Config, resp domain.QueryResponse, prompt string) {
	rec := domain.TraceRecord{
		ID:               resp.TraceID,
		Timestamp:        time.Now().UTC(),
		ModelName:        cfg.Model.Name,
		WrapperName:      resp.WrapperName,
		WrapperConfig:    cfg.WrapperConfigFor(resp.WrapperName),
		Prompt:           prompt,
		RawOutputs:       resp.RawOutputs,
		WrapperDecisions: actionStrings(resp.Decisions),
		FinalOutput:      resp.FinalOutput,
		ModelCallCount:   resp.ModelCallCount,
		WrapperState:     resp.WrapperState,
	}
	if err := s.Traces.Record(rec); err != nil {
		s.Logger.Error("trace record dropped", err, map[string]interface{}{
			"trace_id": rec.ID,
			"wrapper":  rec.WrapperName,
		})
	}
}

func rawOutputs(results []domain.ModelCallResult) []string {
	outputs := make([]string, len(results))
	for i, res := range results {
		outputs[i] = res.Output
	}
	return outputs
}

func actionStrings(actions []domain.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a)
	}
	return out
}

var _ domain.MonitorService = (*MonitorService)(nil)
