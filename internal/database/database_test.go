package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestNew_CreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "catalog.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db, err := New(MemoryPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	ctx := context.Background()
	errBoom := errors.New("boom")

	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tools (id, name) VALUES ('t1', 'curl')`); err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM tools`).Scan(&count); err != nil {
		t.Fatalf("failed to count tools: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rollback to leave 0 tools, got %d", count)
	}
}

func TestWithTx_Commits(t *testing.T) {
	db, err := New(MemoryPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	ctx := context.Background()
	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO tools (id, name) VALUES ('t1', 'curl')`)
		return err
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	var name string
	if err := db.QueryRow(`SELECT name FROM tools WHERE id = 't1'`).Scan(&name); err != nil {
		t.Fatalf("failed to query tool: %v", err)
	}
	if name != "curl" {
		t.Errorf("expected 'curl', got %q", name)
	}
}
