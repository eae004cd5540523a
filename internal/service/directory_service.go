package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/groupdir/internal/directory"
	"github.com/mmynk/groupdir/internal/models"
	"github.com/mmynk/groupdir/internal/validation"
)

// ErrGroupNotFound is returned by GetGroup for an unknown ID.
var ErrGroupNotFound = errors.New("group not found")

// DirectoryService implements the Connect DirectoryService.
type DirectoryService struct {
	dir *directory.Service
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(dir *directory.Service) *DirectoryService {
	return &DirectoryService{dir: dir}
}

// ListGroups returns every group.
func (s *DirectoryService) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	groups, err := s.dir.All(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&ListGroupsResponse{Groups: groups}), nil
}

// GetGroup retrieves a group by ID.
func (s *DirectoryService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	group, err := s.dir.Get(ctx, req.Msg.ID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if group == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("%w: %d", ErrGroupNotFound, req.Msg.ID))
	}
	return connect.NewResponse(&GetGroupResponse{Group: group}), nil
}

// ListGroupsByCategory returns the groups in a category.
func (s *DirectoryService) ListGroupsByCategory(ctx context.Context, req *connect.Request[ListGroupsByCategoryRequest]) (*connect.Response[ListGroupsResponse], error) {
	groups, err := s.dir.ByCategory(ctx, req.Msg.Category)
	if err != nil {
		slog.Error("ListGroupsByCategory failed", "category", req.Msg.Category, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&ListGroupsResponse{Groups: groups}), nil
}

// ListGroupsByCountry returns the groups in a country.
func (s *DirectoryService) ListGroupsByCountry(ctx context.Context, req *connect.Request[ListGroupsByCountryRequest]) (*connect.Response[ListGroupsResponse], error) {
	groups, err := s.dir.ByCountry(ctx, req.Msg.Country)
	if err != nil {
		slog.Error("ListGroupsByCountry failed", "country", req.Msg.Country, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&ListGroupsResponse{Groups: groups}), nil
}

// ListFeaturedGroups returns featured groups, highest rank first.
func (s *DirectoryService) ListFeaturedGroups(ctx context.Context, req *connect.Request[ListFeaturedGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	groups, err := s.dir.Featured(ctx, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListGroupsResponse{Groups: groups}), nil
}

// ListRecentGroups returns the newest groups.
func (s *DirectoryService) ListRecentGroups(ctx context.Context, req *connect.Request[ListRecentGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	groups, err := s.dir.Recent(ctx, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListGroupsResponse{Groups: groups}), nil
}

// SearchGroups runs a substring search with optional refinement.
func (s *DirectoryService) SearchGroups(ctx context.Context, req *connect.Request[SearchGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	groups, err := s.dir.Search(ctx, req.Msg.Query, req.Msg.Category, req.Msg.Country)
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Debug("SearchGroups", "query", req.Msg.Query, "results", len(groups))
	return connect.NewResponse(&ListGroupsResponse{Groups: groups}), nil
}

// CreateGroup validates and stores a submitted group.
func (s *DirectoryService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"group_name", req.Msg.GroupName,
		"category", req.Msg.Category,
	)

	group, err := s.dir.Submit(ctx, req.Msg.GroupInput)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CreateGroupResponse{Group: group}), nil
}

// ListCategories returns the category catalog.
func (s *DirectoryService) ListCategories(context.Context, *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error) {
	return connect.NewResponse(&ListCategoriesResponse{Categories: models.Categories}), nil
}

// ListCountries returns the country catalog.
func (s *DirectoryService) ListCountries(context.Context, *connect.Request[ListCountriesRequest]) (*connect.Response[ListCountriesResponse], error) {
	return connect.NewResponse(&ListCountriesResponse{Countries: models.Countries}), nil
}

// toConnectError maps directory errors to Connect codes.
func toConnectError(err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr),
		errors.Is(err, directory.ErrEmptyQuery),
		errors.Is(err, directory.ErrInvalidLimit):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		slog.Error("Directory operation failed", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}
