package service

import "github.com/mmynk/groupdir/internal/models"

// DirectoryService messages.

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []models.Group `json:"groups"`
}

type GetGroupRequest struct {
	ID int64 `json:"id"`
}

type GetGroupResponse struct {
	Group *models.Group `json:"group"`
}

type ListGroupsByCategoryRequest struct {
	Category string `json:"category"`
}

type ListGroupsByCountryRequest struct {
	Country string `json:"country"`
}

// ListFeaturedGroupsRequest asks for featured groups. Limit defaults to 3.
type ListFeaturedGroupsRequest struct {
	Limit *int `json:"limit,omitempty"`
}

// ListRecentGroupsRequest asks for the newest groups. Limit defaults to 4.
type ListRecentGroupsRequest struct {
	Limit *int `json:"limit,omitempty"`
}

type SearchGroupsRequest struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Country  string `json:"country,omitempty"`
}

type CreateGroupRequest struct {
	models.GroupInput
}

type CreateGroupResponse struct {
	Group *models.Group `json:"group"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []string `json:"categories"`
}

type ListCountriesRequest struct{}

type ListCountriesResponse struct {
	Countries []string `json:"countries"`
}

// AuthService messages.

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *models.User `json:"user"`
}
