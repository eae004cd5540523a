// Package storage provides abstractions for group directory storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/groupdir/internal/models"
)

const (
	// DefaultFeaturedLimit is the featured listing size when the caller gives none.
	DefaultFeaturedLimit = 3

	// DefaultRecentLimit is the recent listing size when the caller gives none.
	DefaultRecentLimit = 4
)

// ErrUsernameTaken is returned by CreateUser when the username already exists.
var ErrUsernameTaken = errors.New("username already taken")

// GroupStore defines the group directory operations.
//
// Absence is not an error: lookups return nil and filters return an empty
// slice when nothing matches.
type GroupStore interface {
	// CreateGroup assigns the next sequential ID, stamps CreatedAt, applies
	// defaults and stores the group.
	CreateGroup(ctx context.Context, input models.GroupInput) (*models.Group, error)

	// GetAllGroups returns every group. Callers must not rely on the order.
	GetAllGroups(ctx context.Context) ([]models.Group, error)

	// GetGroupByID returns the group with the given ID, or nil if none exists.
	GetGroupByID(ctx context.Context, id int64) (*models.Group, error)

	// GetGroupsByCategory returns groups whose category matches case-insensitively.
	GetGroupsByCategory(ctx context.Context, category string) ([]models.Group, error)

	// GetGroupsByCountry returns groups whose country matches case-insensitively.
	GetGroupsByCountry(ctx context.Context, country string) ([]models.Group, error)

	// GetFeaturedGroups returns groups with Featured > 0, highest rank first,
	// at most limit of them.
	GetFeaturedGroups(ctx context.Context, limit int) ([]models.Group, error)

	// GetRecentGroups returns the newest groups first, at most limit of them.
	GetRecentGroups(ctx context.Context, limit int) ([]models.Group, error)

	// SearchGroups returns groups whose name, description, category or
	// country contains query, ignoring case. An empty query matches all groups.
	SearchGroups(ctx context.Context, query string) ([]models.Group, error)
}

// UserStore defines user persistence operations.
type UserStore interface {
	// CreateUser assigns the next sequential ID and stores the user.
	// Returns ErrUsernameTaken if the username exists.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser returns the user with the given ID, or nil if none exists.
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// GetUserByUsername returns the user with the given username, or nil.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Store combines the group directory and user operations.
// This abstraction allows swapping storage backends (memory, SQLite)
// without changing the transport layers.
type Store interface {
	GroupStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
