package trace

import (
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/ports"
)

// RetryStore decorates a trace store with a bounded exponential-backoff
// retry on the write path. A record that still cannot be written after the
// retries is dropped; the caller logs the gap and the request's decision is
// returned regardless.
type RetryStore struct {
	inner      ports.TraceStore
	maxRetries uint64
	interval   time.Duration
}

// NewRetryStore wraps inner with up to maxRetries additional write attempts.
func NewRetryStore(inner ports.TraceStore, maxRetries uint64) *RetryStore {
	return &RetryStore{
		inner:      inner,
		maxRetries: maxRetries,
		interval:   100 * time.Millisecond,
	}
}

// Record implements ports.TraceStore.
func (r *RetryStore) Record(rec domain.TraceRecord) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.interval
	policy.MaxInterval = time.Second
	return backoff.Retry(func() error {
		return r.inner.Record(rec)
	}, backoff.WithMaxRetries(policy, r.maxRetries))
}

// Records implements ports.TraceStore.
func (r *RetryStore) Records() ([]domain.TraceRecord, error) {
	return r.inner.Records()
}

// Path implements ports.TraceStore.
func (r *RetryStore) Path() string {
	return r.inner.Path()
}

// Clear implements ports.TraceStore.
func (r *RetryStore) Clear() error {
	return r.inner.Clear()
}

var _ ports.TraceStore = (*RetryStore)(nil)
