package domain

import "strings"

// Action enumerates monitor decisions.
type Action string

const (
	ActionAllow   Action = "ALLOW"
	ActionBlock   Action = "BLOCK"
	ActionModify  Action = "MODIFY"
	ActionRequery Action = "REQUERY"
	// ActionSkip is reserved for empty-prompt requests and is produced by the
	// decision loop before any wrapper runs.
	ActionSkip Action = "SKIP"
)

// ModelCallResult is one outcome of invoking the model client. OK=false marks
// a transport or provider failure, distinct from an empty but successful
// completion.
type ModelCallResult struct {
	Output string
	OK     bool
}

// Usable reports whether the call produced text a wrapper can hand back to
// the caller.
func (r ModelCallResult) Usable() bool {
	return r.OK && strings.TrimSpace(r.Output) != ""
}

// Observation is what a wrapper sees on each evaluation visit: the original
// prompt plus every raw output collected so far in this request, in call order.
type Observation struct {
	Prompt  string
	Outputs []ModelCallResult
}

// Latest returns the most recent model output, if any call has been made.
func (o Observation) Latest() (ModelCallResult, bool) {
	if len(o.Outputs) == 0 {
		return ModelCallResult{}, false
	}
	return o.Outputs[len(o.Outputs)-1], true
}

// CallCount is the number of model calls issued so far in this request.
func (o Observation) CallCount() int {
	return len(o.Outputs)
}

// Verdict is a wrapper's answer for one evaluation visit. Output carries the
// text to use when the action terminates the loop: the final output for
// ALLOW, the refusal message for BLOCK, the transformed text for MODIFY. An
// empty Output on ALLOW tells the loop to use the latest raw output (issuing
// one model call first if none exists yet).
type Verdict struct {
	Action        Action
	Justification string
	Output        string
}
