// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/groupdir/internal/models"
	"github.com/mmynk/groupdir/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

const groupColumns = `id, group_name, category, country, whatsapp_link,
	image_url, description, member_count, featured, created_at`

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes writers, keeping IDs and CreatedAt in
	// insertion order.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateGroup inserts a group and returns it with its assigned ID.
func (s *SQLiteStore) CreateGroup(ctx context.Context, input models.GroupInput) (*models.Group, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Clamp to the newest stored stamp so CreatedAt never goes backwards.
	var last int64
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(created_at), 0) FROM whatsapp_groups",
	).Scan(&last); err != nil {
		return nil, fmt.Errorf("failed to read latest created_at: %w", err)
	}
	stamp := s.now().UTC()
	if stamp.UnixNano() < last {
		stamp = time.Unix(0, last).UTC()
	}

	group := models.NewGroup(0, input, stamp)

	res, err := tx.ExecContext(ctx, `
		INSERT INTO whatsapp_groups
			(group_name, category, country, whatsapp_link, image_url, description, member_count, featured, created_at,
			 group_name_fold, description_fold, category_fold, country_fold)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.GroupName,
		group.Category,
		group.Country,
		group.WhatsAppLink,
		nullString(group.ImageURL),
		nullString(group.Description),
		nullInt(group.MemberCount),
		group.Featured,
		group.CreatedAt.UnixNano(),
		fold(group.GroupName),
		fold(derefString(group.Description)),
		fold(group.Category),
		fold(group.Country),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert group: %w", err)
	}

	group.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read group ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &group, nil
}

// GetAllGroups returns all groups ordered by ID.
func (s *SQLiteStore) GetAllGroups(ctx context.Context) ([]models.Group, error) {
	return s.queryGroups(ctx, "SELECT "+groupColumns+" FROM whatsapp_groups ORDER BY id")
}

// GetGroupByID retrieves a group by ID. Returns nil if not found.
func (s *SQLiteStore) GetGroupByID(ctx context.Context, id int64) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM whatsapp_groups WHERE id = ?", id)

	group, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, nil // Group not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetGroupsByCategory returns groups in the category, ignoring case.
func (s *SQLiteStore) GetGroupsByCategory(ctx context.Context, category string) ([]models.Group, error) {
	return s.queryGroups(ctx,
		"SELECT "+groupColumns+" FROM whatsapp_groups WHERE category_fold = ? ORDER BY id",
		fold(category))
}

// GetGroupsByCountry returns groups in the country, ignoring case.
func (s *SQLiteStore) GetGroupsByCountry(ctx context.Context, country string) ([]models.Group, error) {
	return s.queryGroups(ctx,
		"SELECT "+groupColumns+" FROM whatsapp_groups WHERE country_fold = ? ORDER BY id",
		fold(country))
}

// GetFeaturedGroups returns featured groups by descending rank.
func (s *SQLiteStore) GetFeaturedGroups(ctx context.Context, limit int) ([]models.Group, error) {
	if limit <= 0 {
		return []models.Group{}, nil
	}
	return s.queryGroups(ctx,
		"SELECT "+groupColumns+" FROM whatsapp_groups WHERE featured > 0 ORDER BY featured DESC, id ASC LIMIT ?",
		limit)
}

// GetRecentGroups returns groups newest first.
func (s *SQLiteStore) GetRecentGroups(ctx context.Context, limit int) ([]models.Group, error) {
	if limit <= 0 {
		return []models.Group{}, nil
	}
	return s.queryGroups(ctx,
		"SELECT "+groupColumns+" FROM whatsapp_groups ORDER BY created_at DESC, id DESC LIMIT ?",
		limit)
}

// SearchGroups returns groups containing query in name, description,
// category or country. Matching runs on the Go-folded columns so non-ASCII
// letters compare the same way as in the memory backend.
func (s *SQLiteStore) SearchGroups(ctx context.Context, query string) ([]models.Group, error) {
	pattern := "%" + escapeLike(fold(query)) + "%"
	return s.queryGroups(ctx, `
		SELECT `+groupColumns+` FROM whatsapp_groups
		WHERE group_name_fold LIKE ? ESCAPE '\'
			OR description_fold LIKE ? ESCAPE '\'
			OR category_fold LIKE ? ESCAPE '\'
			OR country_fold LIKE ? ESCAPE '\'
		ORDER BY id`,
		pattern, pattern, pattern, pattern)
}

func (s *SQLiteStore) queryGroups(ctx context.Context, query string, args ...interface{}) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, *group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanGroup(row scanner) (*models.Group, error) {
	var (
		group       models.Group
		imageURL    sql.NullString
		description sql.NullString
		memberCount sql.NullInt64
		createdAt   int64
	)
	if err := row.Scan(
		&group.ID,
		&group.GroupName,
		&group.Category,
		&group.Country,
		&group.WhatsAppLink,
		&imageURL,
		&description,
		&memberCount,
		&group.Featured,
		&createdAt,
	); err != nil {
		return nil, err
	}

	if imageURL.Valid {
		group.ImageURL = &imageURL.String
	}
	if description.Valid {
		group.Description = &description.String
	}
	if memberCount.Valid {
		n := int(memberCount.Int64)
		group.MemberCount = &n
	}
	group.CreatedAt = time.Unix(0, createdAt).UTC()

	return &group, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

// escapeLike escapes LIKE wildcards so the query matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
