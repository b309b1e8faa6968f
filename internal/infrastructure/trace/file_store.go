// Package trace implements the append-only trace log behind the
// ports.TraceStore interface: a JSONL file store (the canonical schema), an
// insert-only SQLite store, and a retrying decorator for the write path.
package trace

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/ports"
)

// FileStore appends trace records to a JSONL file: one self-contained record
// per line. A single writer lock plus one Write call per record keeps each
// append atomic under concurrent requests; records land in completion order.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Record implements ports.TraceStore.
func (f *FileStore) Record(rec domain.TraceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = file.Write(data)
	return err
}

// Records loads all trace entries. Unparseable lines are skipped so a
// partially corrupted log still yields metrics for the intact records.
func (f *FileStore) Records() ([]domain.TraceRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var records []domain.TraceRecord
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		var rec domain.TraceRecord
		if err := json.Unmarshal(line, &rec); err == nil {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Clear removes the trace file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

var _ ports.TraceStore = (*FileStore)(nil)
