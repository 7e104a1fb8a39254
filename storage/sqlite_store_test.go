package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"crmimport/executor"
	"crmimport/schema"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "crmimport_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_RecordRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	id, err := store.InsertRecord("leads", "leads.csv", schema.Record{
		"contactName": "Jo",
		"email":       "jo@x.com",
	})
	if err != nil {
		t.Fatalf("insert record: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive record id, got %d", id)
	}

	stored, err := store.GetRecord(id)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if stored.Kind != "leads" || stored.SourceFile != "leads.csv" {
		t.Fatalf("unexpected stored record: %+v", stored)
	}
	if stored.Payload["email"] != "jo@x.com" {
		t.Fatalf("unexpected payload: %v", stored.Payload)
	}

	count, err := store.CountRecords("leads")
	if err != nil {
		t.Fatalf("count records: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 lead record, got %d", count)
	}
}

func TestSQLiteStore_GetRecordNotFound(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	if _, err := store.GetRecord(12345); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSQLiteStore_RecordWriterPersists(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	writer := store.RecordWriter("fire_doors", "orders.xlsx")

	id, err := writer.Write(schema.Record{"doorRef": "FD-30-001", "quantity": 2.0})
	if err != nil {
		t.Fatalf("write via adapter: %v", err)
	}

	stored, err := store.GetRecord(id)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if stored.Kind != "fire_doors" {
		t.Fatalf("unexpected kind: %s", stored.Kind)
	}
	if stored.Payload["doorRef"] != "FD-30-001" {
		t.Fatalf("unexpected payload: %v", stored.Payload)
	}
}

func TestSQLiteStore_RunHistory(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	first := executor.Result{Successful: 90, Failed: 10}
	second := executor.Result{Successful: 5, Failed: 0}

	if _, err := store.InsertRun("leads", "leads.csv", "", first); err != nil {
		t.Fatalf("insert first run: %v", err)
	}
	if _, err := store.InsertRun("fire_doors", "orders.xlsx", "2024", second); err != nil {
		t.Fatalf("insert second run: %v", err)
	}

	runs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Kind != "fire_doors" || runs[0].Sheet != "2024" {
		t.Fatalf("expected newest run first, got %+v", runs[0])
	}
	if runs[1].Successful != 90 || runs[1].Failed != 10 {
		t.Fatalf("unexpected counts: %+v", runs[1])
	}
}
