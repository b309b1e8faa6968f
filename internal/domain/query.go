package domain

import "context"

// QueryRequest captures one mediated model request originating from the CLI.
type QueryRequest struct {
	Context context.Context
	Prompt  string
	// WrapperOverride selects the wrapper by name; empty means the configured
	// default.
	WrapperOverride string
	// MaxQueriesOverride adjusts the query_budget wrapper for this request
	// only. Values outside 1..MaxQueriesOverrideLimit are ignored.
	MaxQueriesOverride int
	Debug              bool
}

// QueryResponse is the canonical result propagated back to the caller. Every
// completed request carries a decision and a plain-language justification,
// even when the model failed underneath.
type QueryResponse struct {
	FinalOutput    string
	Decision       Action
	Justification  string
	ModelCallCount int
	RawOutputs     []string
	Decisions      []Action
	WrapperName    string
	WrapperState   map[string]any
	TraceID        string
}

// MonitorService exposes the use-case boundary for mediating one request.
type MonitorService interface {
	Run(QueryRequest) (QueryResponse, error)
}
