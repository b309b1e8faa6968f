package trace

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/ports"
)

// SQLiteStore persists trace records in an insert-only SQLite table. Rows are
// never updated or deleted individually; Clear drops the whole log, matching
// the file store's semantics.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path. When the database
// cannot be opened, the store falls back to a JSONL file next to it so
// traces are never silently lost.
func NewSQLiteStore(path string) *SQLiteStore {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS traces (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trace_id TEXT,
		timestamp TEXT,
		model_name TEXT,
		wrapper_name TEXT,
		wrapper_config TEXT,
		user_prompt TEXT,
		raw_model_outputs TEXT,
		wrapper_decisions TEXT,
		final_output TEXT,
		total_model_calls INTEGER,
		wrapper_state TEXT
	);`)
	return err
}

func (s *SQLiteStore) fallback() *FileStore {
	return NewFileStore(s.path + ".jsonl")
}

// Record implements ports.TraceStore.
func (s *SQLiteStore) Record(rec domain.TraceRecord) error {
	if s.db == nil {
		return s.fallback().Record(rec)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO traces
		(trace_id, timestamp, model_name, wrapper_name, wrapper_config, user_prompt,
		 raw_model_outputs, wrapper_decisions, final_output, total_model_calls, wrapper_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Timestamp.Format(time.RFC3339Nano),
		rec.ModelName,
		rec.WrapperName,
		marshalJSON(rec.WrapperConfig),
		rec.Prompt,
		marshalJSON(rec.RawOutputs),
		marshalJSON(rec.WrapperDecisions),
		rec.FinalOutput,
		rec.ModelCallCount,
		marshalJSON(rec.WrapperState),
	)
	return err
}

// Records returns all trace entries in insertion order.
func (s *SQLiteStore) Records() ([]domain.TraceRecord, error) {
	if s.db == nil {
		return s.fallback().Records()
	}
	rows, err := s.db.Query(`SELECT trace_id, timestamp, model_name, wrapper_name, wrapper_config,
		user_prompt, raw_model_outputs, wrapper_decisions, final_output, total_model_calls, wrapper_state
		FROM traces ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.TraceRecord
	for rows.Next() {
		var rec domain.TraceRecord
		var ts, config, outputs, decisions, state string
		if err := rows.Scan(&rec.ID, &ts, &rec.ModelName, &rec.WrapperName, &config,
			&rec.Prompt, &outputs, &decisions, &rec.FinalOutput, &rec.ModelCallCount, &state); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = t
		}
		_ = json.Unmarshal([]byte(config), &rec.WrapperConfig)
		_ = json.Unmarshal([]byte(outputs), &rec.RawOutputs)
		_ = json.Unmarshal([]byte(decisions), &rec.WrapperDecisions)
		_ = json.Unmarshal([]byte(state), &rec.WrapperState)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ExportJSON writes the trace table to a JSONL file in the canonical schema.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records()
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Clear deletes all trace entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback().Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM traces")
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

var _ ports.TraceStore = (*SQLiteStore)(nil)
