// Package directory implements the group directory use cases shared by the
// Connect and REST transports.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/groupdir/internal/metrics"
	"github.com/mmynk/groupdir/internal/models"
	"github.com/mmynk/groupdir/internal/storage"
	"github.com/mmynk/groupdir/internal/validation"
)

var (
	ErrEmptyQuery   = errors.New("search query is required")
	ErrInvalidLimit = errors.New("limit must be a non-negative integer")
)

// Service wraps a storage.GroupStore with validation, defaults and metrics.
type Service struct {
	store   storage.GroupStore
	metrics *metrics.Metrics
}

// New creates a Service. m may be nil.
func New(store storage.GroupStore, m *metrics.Metrics) *Service {
	return &Service{store: store, metrics: m}
}

// All returns every group.
func (s *Service) All(ctx context.Context) ([]models.Group, error) {
	return s.store.GetAllGroups(ctx)
}

// Get returns the group with the given ID, or nil.
func (s *Service) Get(ctx context.Context, id int64) (*models.Group, error) {
	return s.store.GetGroupByID(ctx, id)
}

// ByCategory returns the groups in a category.
func (s *Service) ByCategory(ctx context.Context, category string) ([]models.Group, error) {
	return s.store.GetGroupsByCategory(ctx, strings.TrimSpace(category))
}

// ByCountry returns the groups in a country.
func (s *Service) ByCountry(ctx context.Context, country string) ([]models.Group, error) {
	return s.store.GetGroupsByCountry(ctx, strings.TrimSpace(country))
}

// Featured returns featured groups. A nil limit means
// storage.DefaultFeaturedLimit.
func (s *Service) Featured(ctx context.Context, limit *int) ([]models.Group, error) {
	n, err := resolveLimit(limit, storage.DefaultFeaturedLimit)
	if err != nil {
		return nil, err
	}
	return s.store.GetFeaturedGroups(ctx, n)
}

// Recent returns the newest groups. A nil limit means
// storage.DefaultRecentLimit.
func (s *Service) Recent(ctx context.Context, limit *int) ([]models.Group, error) {
	n, err := resolveLimit(limit, storage.DefaultRecentLimit)
	if err != nil {
		return nil, err
	}
	return s.store.GetRecentGroups(ctx, n)
}

// Search returns groups matching query, optionally narrowed to a category
// and/or country. An empty query is rejected with ErrEmptyQuery; any other
// query, surrounding whitespace included, is matched as given.
func (s *Service) Search(ctx context.Context, query, category, country string) ([]models.Group, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	groups, err := s.store.SearchGroups(ctx, query)
	if err != nil {
		return nil, err
	}
	return storage.Refine(groups, category, country), nil
}

// Submit validates a submission and adds it to the directory. Invalid input
// yields a *validation.Error.
func (s *Service) Submit(ctx context.Context, in models.GroupInput) (*models.Group, error) {
	in, err := validation.Group(in)
	if err != nil {
		return nil, err
	}

	group, err := s.store.CreateGroup(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	if s.metrics != nil {
		s.metrics.GroupsCreated.Inc()
	}

	slog.Info("Group created",
		"group_id", group.ID,
		"category", group.Category,
		"country", group.Country,
	)
	return group, nil
}

func resolveLimit(limit *int, fallback int) (int, error) {
	if limit == nil {
		return fallback, nil
	}
	if *limit < 0 {
		return 0, ErrInvalidLimit
	}
	return *limit, nil
}
