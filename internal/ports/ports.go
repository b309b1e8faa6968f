// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The monitor core depends on these abstractions only; concrete adapters live
// in the infrastructure layer (model clients, trace stores, config loading,
// CLI). This keeps the decision loop independent of any transport, provider,
// or storage choice.
package ports

import (
	"context"

	"github.com/calderlane/promptward/internal/domain"
)

// ConfigProvider loads the configuration from persistent storage.
// Implementations typically read from ~/.promptward/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ModelClient invokes the black-box language model. The core treats it as a
// pure function with latency and failure; a returned error means the call
// produced no usable output and is recorded as a failed ModelCallResult,
// never surfaced as a request fault.
type ModelClient interface {
	Name() string
	Call(ctx context.Context, prompt string) (string, error)
}

// Wrapper is a finite-state safety monitor. Given the prompt and the raw
// outputs observed so far within one request, Evaluate returns exactly one
// action with a plain-language justification. State exposes the wrapper's
// internal state for trace snapshots.
type Wrapper interface {
	Name() string
	Evaluate(domain.Observation) domain.Verdict
	State() map[string]any
}

// WrapperFactory builds wrapper instances per request. Unknown names reject
// the request before any model call. maxQueriesOverride applies to the
// query_budget wrapper only; zero means "use configured value".
type WrapperFactory interface {
	ForRequest(name string, maxQueriesOverride int) (Wrapper, error)
	Describe() []domain.WrapperInfo
}

// TraceStore is the write-only sink for completed requests plus the snapshot
// reader the metrics engine consumes. Record must append one complete record
// atomically; no update or delete of individual records exists.
type TraceStore interface {
	Record(domain.TraceRecord) error
	Records() ([]domain.TraceRecord, error)
	Path() string
	Clear() error
}

// Logger provides structured logging for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
