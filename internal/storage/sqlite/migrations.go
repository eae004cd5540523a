package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
)

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// created_at columns hold Unix nanoseconds.
// The *_fold columns hold strings.ToLower of their source column; SQLite's
// LOWER and NOCASE only fold ASCII.
const schema = `
CREATE TABLE IF NOT EXISTS whatsapp_groups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    group_name TEXT NOT NULL,
    category TEXT NOT NULL,
    country TEXT NOT NULL DEFAULT 'Global',
    whatsapp_link TEXT NOT NULL,
    image_url TEXT,
    description TEXT,
    member_count INTEGER,
    featured INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    group_name_fold TEXT NOT NULL DEFAULT '',
    description_fold TEXT NOT NULL DEFAULT '',
    category_fold TEXT NOT NULL DEFAULT '',
    country_fold TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_whatsapp_groups_featured ON whatsapp_groups(featured);
CREATE INDEX IF NOT EXISTS idx_whatsapp_groups_created_at ON whatsapp_groups(created_at);
`

const foldIndexes = `
CREATE INDEX IF NOT EXISTS idx_whatsapp_groups_category_fold ON whatsapp_groups(category_fold);
CREATE INDEX IF NOT EXISTS idx_whatsapp_groups_country_fold ON whatsapp_groups(country_fold);
`

var foldColumns = []string{"group_name_fold", "description_fold", "category_fold", "country_fold"}

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	added, err := addFoldColumns(db)
	if err != nil {
		return err
	}
	if added {
		if err := backfillFolds(db); err != nil {
			return err
		}
	}
	_, err = db.Exec(foldIndexes)
	return err
}

// addFoldColumns adds the *_fold columns to databases created before they
// existed. It reports whether any column was added.
func addFoldColumns(db *sql.DB) (bool, error) {
	rows, err := db.Query("PRAGMA table_info(whatsapp_groups)")
	if err != nil {
		return false, fmt.Errorf("failed to read table info: %w", err)
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			rows.Close()
			return false, fmt.Errorf("failed to scan table info: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return false, fmt.Errorf("failed to read table info: %w", err)
	}
	rows.Close()

	added := false
	for _, col := range foldColumns {
		if existing[col] {
			continue
		}
		if _, err := db.Exec("ALTER TABLE whatsapp_groups ADD COLUMN " + col + " TEXT NOT NULL DEFAULT ''"); err != nil {
			return false, fmt.Errorf("failed to add column %s: %w", col, err)
		}
		added = true
	}
	return added, nil
}

// backfillFolds computes the *_fold columns for every existing row.
func backfillFolds(db *sql.DB) error {
	type row struct {
		id                      int64
		name, category, country string
		description             sql.NullString
	}

	rows, err := db.Query("SELECT id, group_name, category, country, description FROM whatsapp_groups")
	if err != nil {
		return fmt.Errorf("failed to read groups for backfill: %w", err)
	}
	var pending []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.name, &r.category, &r.country, &r.description); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan group for backfill: %w", err)
		}
		pending = append(pending, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to read groups for backfill: %w", err)
	}
	rows.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin backfill: %w", err)
	}
	defer tx.Rollback()

	for _, r := range pending {
		if _, err := tx.Exec(`
			UPDATE whatsapp_groups
			SET group_name_fold = ?, description_fold = ?, category_fold = ?, country_fold = ?
			WHERE id = ?`,
			fold(r.name), fold(r.description.String), fold(r.category), fold(r.country), r.id,
		); err != nil {
			return fmt.Errorf("failed to backfill group %d: %w", r.id, err)
		}
	}
	return tx.Commit()
}

// fold is the case folding shared with the memory backend's comparisons.
func fold(s string) string {
	return strings.ToLower(s)
}
