// Package memory provides an in-process implementation of the storage.Store
// interface. Data lives for the lifetime of the process.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/groupdir/internal/models"
	"github.com/mmynk/groupdir/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps groups and users in maps guarded by a single lock.
// All queries are linear scans; the directory is small.
type Store struct {
	mu sync.RWMutex

	groups     map[int64]models.Group
	order      []int64 // group IDs in insertion order
	nextGroup  int64
	lastStamp  time.Time
	users      map[int64]models.User
	byUsername map[string]int64
	nextUser   int64

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		groups:     make(map[int64]models.Group),
		nextGroup:  1,
		users:      make(map[int64]models.User),
		byUsername: make(map[string]int64),
		nextUser:   1,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// CreateGroup stores a new group. ID assignment and the CreatedAt stamp
// happen under the write lock so both follow insertion order.
func (s *Store) CreateGroup(_ context.Context, input models.GroupInput) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := s.now()
	if stamp.Before(s.lastStamp) {
		stamp = s.lastStamp
	}
	s.lastStamp = stamp

	group := models.NewGroup(s.nextGroup, input, stamp)
	s.nextGroup++

	s.groups[group.ID] = group
	s.order = append(s.order, group.ID)

	return &group, nil
}

// GetAllGroups returns all groups in insertion order.
func (s *Store) GetAllGroups(_ context.Context) ([]models.Group, error) {
	return s.filter(func(models.Group) bool { return true }), nil
}

// GetGroupByID returns the group or nil.
func (s *Store) GetGroupByID(_ context.Context, id int64) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[id]
	if !ok {
		return nil, nil
	}
	return &group, nil
}

// GetGroupsByCategory returns groups in the category, ignoring case.
func (s *Store) GetGroupsByCategory(_ context.Context, category string) ([]models.Group, error) {
	return s.filter(func(g models.Group) bool {
		return strings.EqualFold(g.Category, category)
	}), nil
}

// GetGroupsByCountry returns groups in the country, ignoring case.
func (s *Store) GetGroupsByCountry(_ context.Context, country string) ([]models.Group, error) {
	return s.filter(func(g models.Group) bool {
		return strings.EqualFold(g.Country, country)
	}), nil
}

// GetFeaturedGroups returns featured groups by descending rank.
// Equal ranks keep insertion order.
func (s *Store) GetFeaturedGroups(_ context.Context, limit int) ([]models.Group, error) {
	groups := s.filter(func(g models.Group) bool { return g.Featured > 0 })
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Featured > groups[j].Featured
	})
	return truncate(groups, limit), nil
}

// GetRecentGroups returns groups newest first. Equal timestamps are
// ordered by descending ID.
func (s *Store) GetRecentGroups(_ context.Context, limit int) ([]models.Group, error) {
	groups := s.filter(func(models.Group) bool { return true })
	sort.SliceStable(groups, func(i, j int) bool {
		if !groups[i].CreatedAt.Equal(groups[j].CreatedAt) {
			return groups[i].CreatedAt.After(groups[j].CreatedAt)
		}
		return groups[i].ID > groups[j].ID
	})
	return truncate(groups, limit), nil
}

// SearchGroups returns groups with query in any searchable field.
func (s *Store) SearchGroups(_ context.Context, query string) ([]models.Group, error) {
	q := strings.ToLower(query)
	return s.filter(func(g models.Group) bool {
		for _, field := range g.Text() {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	}), nil
}

// CreateUser stores a new user.
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[user.Username]; exists {
		return storage.ErrUsernameTaken
	}

	user.ID = s.nextUser
	s.nextUser++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}

	s.users[user.ID] = *user
	s.byUsername[user.Username] = user.ID
	return nil
}

// GetUser returns the user or nil.
func (s *Store) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// GetUserByUsername returns the user or nil.
func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, nil
	}
	user := s.users[id]
	return &user, nil
}

// filter scans groups in insertion order and returns copies of the matches.
func (s *Store) filter(match func(models.Group) bool) []models.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Group, 0)
	for _, id := range s.order {
		if g := s.groups[id]; match(g) {
			out = append(out, g)
		}
	}
	return out
}

func truncate(groups []models.Group, limit int) []models.Group {
	if limit <= 0 {
		return []models.Group{}
	}
	if len(groups) > limit {
		return groups[:limit]
	}
	return groups
}
