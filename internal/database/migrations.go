package database

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	name       string
	statements []string
}

var migrations = []migration{
	{
		name: "create_tools_table",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS tools (
				id TEXT PRIMARY KEY,
				name TEXT UNIQUE NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		name: "create_command_templates_table",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS command_templates (
				id TEXT PRIMARY KEY,
				tool_id TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				template TEXT NOT NULL,
				category TEXT NOT NULL DEFAULT '',
				tags TEXT NOT NULL DEFAULT '[]',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (tool_id) REFERENCES tools(id) ON DELETE CASCADE,
				UNIQUE (tool_id, name)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_command_templates_tool_id ON command_templates(tool_id)`,
			`CREATE INDEX IF NOT EXISTS idx_command_templates_category ON command_templates(category)`,
			`CREATE INDEX IF NOT EXISTS idx_command_templates_updated_at ON command_templates(updated_at)`,
		},
	},
}

func runMigrations(db *sql.DB) error {
	ctx := context.Background()

	if err := createMigrationsTable(db); err != nil {
		return err
	}

	batch, err := NextBatch(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		hasRun, err := HasMigrationRun(ctx, db, m.name)
		if err != nil {
			return err
		}
		if hasRun {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		for _, stmt := range m.statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %s: %w", m.name, err)
			}
		}
		if err := RecordMigration(ctx, tx, m.name, batch); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

func createMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		migration TEXT UNIQUE NOT NULL,
		batch INTEGER NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// HasMigrationRun reports whether the named migration was already applied.
// Data migrations (such as seeding) use it with the same bookkeeping as schema changes.
func HasMigrationRun(ctx context.Context, q Querier, name string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM migrations WHERE migration = ?`, name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecordMigration marks the named migration as applied.
func RecordMigration(ctx context.Context, q Querier, name string, batch int) error {
	_, err := q.ExecContext(ctx, `INSERT INTO migrations (migration, batch) VALUES (?, ?)`, name, batch)
	return err
}

// NextBatch returns the batch number for migrations applied now.
func NextBatch(ctx context.Context, q Querier) (int, error) {
	var batch int
	err := q.QueryRowContext(ctx, `SELECT COALESCE(MAX(batch), 0) + 1 FROM migrations`).Scan(&batch)
	return batch, err
}
