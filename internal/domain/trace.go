package domain

import "time"

// TraceRecord is the unit of persistence: one immutable record per completed
// request, appended to the trace log and never updated. Field names are the
// trace log's compatibility contract with the metrics engine.
type TraceRecord struct {
	ID               string         `json:"trace_id"`
	Timestamp        time.Time      `json:"timestamp"`
	ModelName        string         `json:"model_name"`
	WrapperName      string         `json:"wrapper_name"`
	WrapperConfig    map[string]any `json:"wrapper_config"`
	Prompt           string         `json:"user_prompt"`
	RawOutputs       []string       `json:"raw_model_outputs"`
	WrapperDecisions []string       `json:"wrapper_decisions"`
	FinalOutput      string         `json:"final_output"`
	ModelCallCount   int            `json:"total_model_calls"`
	WrapperState     map[string]any `json:"wrapper_state"`
}

// FinalDecision derives the request's terminal decision from the recorded
// decision sequence. An empty sequence only occurs for empty-prompt requests,
// which skip wrapper evaluation entirely.
func (r TraceRecord) FinalDecision() Action {
	if len(r.WrapperDecisions) == 0 {
		return ActionSkip
	}
	return Action(r.WrapperDecisions[len(r.WrapperDecisions)-1])
}

// Blocked reports whether the request terminated with a BLOCK decision.
func (r TraceRecord) Blocked() bool {
	return r.FinalDecision() == ActionBlock
}
