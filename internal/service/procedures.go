package service

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/groupdir/internal/middleware"
)

const (
	// DirectoryServiceName is the fully-qualified name of the DirectoryService.
	DirectoryServiceName = "groupdir.v1.DirectoryService"
	// AuthServiceName is the fully-qualified name of the AuthService.
	AuthServiceName = "groupdir.v1.AuthService"
)

// Procedure paths. Each is the HTTP route a unary call is posted to.
const (
	ListGroupsProcedure           = "/" + DirectoryServiceName + "/ListGroups"
	GetGroupProcedure             = "/" + DirectoryServiceName + "/GetGroup"
	ListGroupsByCategoryProcedure = "/" + DirectoryServiceName + "/ListGroupsByCategory"
	ListGroupsByCountryProcedure  = "/" + DirectoryServiceName + "/ListGroupsByCountry"
	ListFeaturedGroupsProcedure   = "/" + DirectoryServiceName + "/ListFeaturedGroups"
	ListRecentGroupsProcedure     = "/" + DirectoryServiceName + "/ListRecentGroups"
	SearchGroupsProcedure         = "/" + DirectoryServiceName + "/SearchGroups"
	CreateGroupProcedure          = "/" + DirectoryServiceName + "/CreateGroup"
	ListCategoriesProcedure       = "/" + DirectoryServiceName + "/ListCategories"
	ListCountriesProcedure        = "/" + DirectoryServiceName + "/ListCountries"

	RegisterProcedure       = "/" + AuthServiceName + "/Register"
	LoginProcedure          = "/" + AuthServiceName + "/Login"
	LogoutProcedure         = "/" + AuthServiceName + "/Logout"
	GetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

// NewDirectoryServiceHandler builds an HTTP handler serving every
// DirectoryService procedure. It returns the path to mount it on.
func NewDirectoryServiceHandler(svc *DirectoryService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSON(opts)
	mux := http.NewServeMux()
	mux.Handle(ListGroupsProcedure, connect.NewUnaryHandler(ListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(GetGroupProcedure, connect.NewUnaryHandler(GetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(ListGroupsByCategoryProcedure, connect.NewUnaryHandler(ListGroupsByCategoryProcedure, svc.ListGroupsByCategory, opts...))
	mux.Handle(ListGroupsByCountryProcedure, connect.NewUnaryHandler(ListGroupsByCountryProcedure, svc.ListGroupsByCountry, opts...))
	mux.Handle(ListFeaturedGroupsProcedure, connect.NewUnaryHandler(ListFeaturedGroupsProcedure, svc.ListFeaturedGroups, opts...))
	mux.Handle(ListRecentGroupsProcedure, connect.NewUnaryHandler(ListRecentGroupsProcedure, svc.ListRecentGroups, opts...))
	mux.Handle(SearchGroupsProcedure, connect.NewUnaryHandler(SearchGroupsProcedure, svc.SearchGroups, opts...))
	mux.Handle(CreateGroupProcedure, connect.NewUnaryHandler(CreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(ListCategoriesProcedure, connect.NewUnaryHandler(ListCategoriesProcedure, svc.ListCategories, opts...))
	mux.Handle(ListCountriesProcedure, connect.NewUnaryHandler(ListCountriesProcedure, svc.ListCountries, opts...))
	return "/" + DirectoryServiceName + "/", mux
}

// NewAuthServiceHandler builds an HTTP handler serving every AuthService
// procedure. It returns the path to mount it on. GetCurrentUser additionally
// requires a valid bearer token.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSON(opts)
	mux := http.NewServeMux()
	mux.Handle(RegisterProcedure, connect.NewUnaryHandler(RegisterProcedure, svc.Register, opts...))
	mux.Handle(LoginProcedure, connect.NewUnaryHandler(LoginProcedure, svc.Login, opts...))
	mux.Handle(LogoutProcedure, connect.NewUnaryHandler(LogoutProcedure, svc.Logout, opts...))
	authed := append(opts[:len(opts):len(opts)], connect.WithInterceptors(middleware.RequireAuth(svc.jwtManager)))
	mux.Handle(GetCurrentUserProcedure, connect.NewUnaryHandler(GetCurrentUserProcedure, svc.GetCurrentUser, authed...))
	return "/" + AuthServiceName + "/", mux
}

func withJSON(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
}

// NewClient returns a Connect client for one procedure, speaking JSON.
func NewClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}
