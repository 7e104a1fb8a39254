package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"crmimport/executor"
	"crmimport/schema"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var ErrRecordNotFound = errors.New("record not found")

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	source_file TEXT NOT NULL,
	payload TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS import_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	source_file TEXT NOT NULL,
	sheet TEXT NOT NULL DEFAULT '',
	successful INTEGER NOT NULL CHECK(successful >= 0),
	failed INTEGER NOT NULL CHECK(failed >= 0),
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertRecord persists one coerced record as JSON and returns its id.
func (s *SQLiteStore) InsertRecord(kind, sourceFile string, record schema.Record) (int64, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return 0, fmt.Errorf("encode record payload: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO records (kind, source_file, payload) VALUES (?, ?, ?);`,
		kind, sourceFile, string(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted record id: %w", err)
	}
	return id, nil
}

// GetRecord loads one stored record by id.
func (s *SQLiteStore) GetRecord(id int64) (StoredRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, kind, source_file, payload, created_at FROM records WHERE id = ?;`,
		id,
	)

	var stored StoredRecord
	var payload string
	if err := row.Scan(&stored.ID, &stored.Kind, &stored.SourceFile, &payload, &stored.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StoredRecord{}, ErrRecordNotFound
		}
		return StoredRecord{}, fmt.Errorf("scan record: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &stored.Payload); err != nil {
		return StoredRecord{}, fmt.Errorf("decode record payload: %w", err)
	}
	return stored, nil
}

// CountRecords counts stored records of one kind.
func (s *SQLiteStore) CountRecords(kind string) (int, error) {
	row := s.db.QueryRow(`SELECT COUNT(*) FROM records WHERE kind = ?;`, kind)
	count := 0
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

type StoredRecord struct {
	ID         int64
	Kind       string
	SourceFile string
	Payload    map[string]any
	CreatedAt  string
}

type Run struct {
	ID         int64
	Kind       string
	SourceFile string
	Sheet      string
	Successful int
	Failed     int
	CreatedAt  string
}

// InsertRun records one executed import's summary.
func (s *SQLiteStore) InsertRun(kind, sourceFile, sheet string, result executor.Result) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO import_runs (kind, source_file, sheet, successful, failed) VALUES (?, ?, ?, ?, ?);`,
		kind, sourceFile, sheet, result.Successful, result.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert import run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted run id: %w", err)
	}
	return id, nil
}

// ListRuns returns the import history, newest first.
func (s *SQLiteStore) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, kind, source_file, sheet, successful, failed, created_at
		 FROM import_runs ORDER BY id DESC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query import runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, 32)
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Kind, &run.SourceFile, &run.Sheet, &run.Successful, &run.Failed, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import runs: %w", err)
	}

	return runs, nil
}

// RecordWriter adapts the store to the executor's EntityWriter for one kind
// and source file.
func (s *SQLiteStore) RecordWriter(kind, sourceFile string) executor.EntityWriter {
	return &recordWriter{store: s, kind: kind, sourceFile: sourceFile}
}

type recordWriter struct {
	store      *SQLiteStore
	kind       string
	sourceFile string
}

func (w *recordWriter) Write(record schema.Record) (int64, error) {
	return w.store.InsertRecord(w.kind, w.sourceFile, record)
}
