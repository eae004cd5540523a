package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/groupdir/internal/auth"
	"github.com/mmynk/groupdir/internal/directory"
	"github.com/mmynk/groupdir/internal/metrics"
	"github.com/mmynk/groupdir/internal/middleware"
	"github.com/mmynk/groupdir/internal/models"
	"github.com/mmynk/groupdir/internal/storage"
	"github.com/mmynk/groupdir/internal/storage/memory"
)

// setupTestServer serves both services over httptest with the production
// interceptor chain and returns the server URL.
func setupTestServer(t *testing.T) string {
	t.Helper()

	store := memory.New()
	if err := storage.Seed(context.Background(), store); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	m := metrics.New()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	interceptors := connect.WithInterceptors(
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(m),
	)

	mux := http.NewServeMux()
	mux.Handle(NewDirectoryServiceHandler(NewDirectoryService(directory.New(store, m)), interceptors))
	mux.Handle(NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, nil), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server.URL
}

func codeOf(t *testing.T, err error) connect.Code {
	t.Helper()
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T: %v", err, err)
	}
	return connectErr.Code()
}

func TestListGroups(t *testing.T) {
	url := setupTestServer(t)
	client := NewClient[ListGroupsRequest, ListGroupsResponse](http.DefaultClient, url, ListGroupsProcedure)

	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 7 {
		t.Errorf("expected 7 groups, got %d", len(resp.Msg.Groups))
	}
}

func TestGetGroup(t *testing.T) {
	url := setupTestServer(t)
	client := NewClient[GetGroupRequest, GetGroupResponse](http.DefaultClient, url, GetGroupProcedure)

	resp, err := client.CallUnary(context.Background(), connect.NewRequest(&GetGroupRequest{ID: 2}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if resp.Msg.Group == nil || resp.Msg.Group.GroupName != "Tech Enthusiasts" {
		t.Errorf("unexpected group: %+v", resp.Msg.Group)
	}
	if resp.Msg.Group.Description == nil {
		t.Error("expected description to round-trip")
	}
}

func TestGetGroup_NotFound(t *testing.T) {
	url := setupTestServer(t)
	client := NewClient[GetGroupRequest, GetGroupResponse](http.DefaultClient, url, GetGroupProcedure)

	_, err := client.CallUnary(context.Background(), connect.NewRequest(&GetGroupRequest{ID: 999}))
	if err == nil {
		t.Fatal("expected error for nonexistent group")
	}
	if code := codeOf(t, err); code != connect.CodeNotFound {
		t.Errorf("expected CodeNotFound, got %v", code)
	}
}

func TestListFeaturedAndRecent(t *testing.T) {
	url := setupTestServer(t)
	ctx := context.Background()

	featured := NewClient[ListFeaturedGroupsRequest, ListGroupsResponse](http.DefaultClient, url, ListFeaturedGroupsProcedure)
	resp, err := featured.CallUnary(ctx, connect.NewRequest(&ListFeaturedGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListFeaturedGroups failed: %v", err)
	}
	wantRanks := []int{3, 2, 1}
	if len(resp.Msg.Groups) != len(wantRanks) {
		t.Fatalf("expected %d featured groups, got %d", len(wantRanks), len(resp.Msg.Groups))
	}
	for i, g := range resp.Msg.Groups {
		if g.Featured != wantRanks[i] {
			t.Errorf("position %d: rank %d, want %d", i, g.Featured, wantRanks[i])
		}
	}

	limit := 2
	recent := NewClient[ListRecentGroupsRequest, ListGroupsResponse](http.DefaultClient, url, ListRecentGroupsProcedure)
	recentResp, err := recent.CallUnary(ctx, connect.NewRequest(&ListRecentGroupsRequest{Limit: &limit}))
	if err != nil {
		t.Fatalf("ListRecentGroups failed: %v", err)
	}
	if len(recentResp.Msg.Groups) != 2 || recentResp.Msg.Groups[0].GroupName != "Crypto Investors" {
		t.Errorf("unexpected recent groups: %+v", recentResp.Msg.Groups)
	}

	negative := -1
	_, err = recent.CallUnary(ctx, connect.NewRequest(&ListRecentGroupsRequest{Limit: &negative}))
	if code := codeOf(t, err); code != connect.CodeInvalidArgument {
		t.Errorf("expected CodeInvalidArgument, got %v", code)
	}
}

func TestListGroupsByCategoryAndCountry(t *testing.T) {
	url := setupTestServer(t)
	ctx := context.Background()

	byCategory := NewClient[ListGroupsByCategoryRequest, ListGroupsResponse](http.DefaultClient, url, ListGroupsByCategoryProcedure)
	resp, err := byCategory.CallUnary(ctx, connect.NewRequest(&ListGroupsByCategoryRequest{Category: "finance"}))
	if err != nil {
		t.Fatalf("ListGroupsByCategory failed: %v", err)
	}
	if len(resp.Msg.Groups) != 1 || resp.Msg.Groups[0].GroupName != "Crypto Investors" {
		t.Errorf("unexpected finance groups: %+v", resp.Msg.Groups)
	}

	byCountry := NewClient[ListGroupsByCountryRequest, ListGroupsResponse](http.DefaultClient, url, ListGroupsByCountryProcedure)
	countryResp, err := byCountry.CallUnary(ctx, connect.NewRequest(&ListGroupsByCountryRequest{Country: "Japan"}))
	if err != nil {
		t.Fatalf("ListGroupsByCountry failed: %v", err)
	}
	if countryResp.Msg.Groups == nil || len(countryResp.Msg.Groups) != 0 {
		t.Errorf("expected empty list for Japan, got %+v", countryResp.Msg.Groups)
	}
}

func TestSearchGroups(t *testing.T) {
	url := setupTestServer(t)
	client := NewClient[SearchGroupsRequest, ListGroupsResponse](http.DefaultClient, url, SearchGroupsProcedure)
	ctx := context.Background()

	resp, err := client.CallUnary(ctx, connect.NewRequest(&SearchGroupsRequest{Query: "crypto"}))
	if err != nil {
		t.Fatalf("SearchGroups failed: %v", err)
	}
	if len(resp.Msg.Groups) != 1 || resp.Msg.Groups[0].Category != "Finance" {
		t.Errorf("unexpected search results: %+v", resp.Msg.Groups)
	}

	_, err = client.CallUnary(ctx, connect.NewRequest(&SearchGroupsRequest{}))
	if code := codeOf(t, err); code != connect.CodeInvalidArgument {
		t.Errorf("empty query: expected CodeInvalidArgument, got %v", code)
	}
}

func TestCreateGroup(t *testing.T) {
	url := setupTestServer(t)
	client := NewClient[CreateGroupRequest, CreateGroupResponse](http.DefaultClient, url, CreateGroupProcedure)
	ctx := context.Background()

	members := 120
	resp, err := client.CallUnary(ctx, connect.NewRequest(&CreateGroupRequest{GroupInput: models.GroupInput{
		GroupName:    "Street Food Lovers",
		Category:     "Food",
		Country:      "Mexico",
		WhatsAppLink: "https://chat.whatsapp.com/tacos",
		MemberCount:  &members,
	}}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	g := resp.Msg.Group
	if g == nil || g.ID != 8 {
		t.Fatalf("expected group with ID 8, got %+v", g)
	}
	if g.Country != "Mexico" || g.Featured != 0 || g.CreatedAt.IsZero() {
		t.Errorf("unexpected created group: %+v", g)
	}

	_, err = client.CallUnary(ctx, connect.NewRequest(&CreateGroupRequest{GroupInput: models.GroupInput{
		GroupName:    "Bad Link",
		Category:     "Food",
		WhatsAppLink: "https://example.com/join",
	}}))
	if code := codeOf(t, err); code != connect.CodeInvalidArgument {
		t.Errorf("expected CodeInvalidArgument, got %v", code)
	}
}

func TestListCatalogs(t *testing.T) {
	url := setupTestServer(t)
	ctx := context.Background()

	categories := NewClient[ListCategoriesRequest, ListCategoriesResponse](http.DefaultClient, url, ListCategoriesProcedure)
	resp, err := categories.CallUnary(ctx, connect.NewRequest(&ListCategoriesRequest{}))
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(resp.Msg.Categories) != len(models.Categories) {
		t.Errorf("expected %d categories, got %d", len(models.Categories), len(resp.Msg.Categories))
	}

	countries := NewClient[ListCountriesRequest, ListCountriesResponse](http.DefaultClient, url, ListCountriesProcedure)
	countryResp, err := countries.CallUnary(ctx, connect.NewRequest(&ListCountriesRequest{}))
	if err != nil {
		t.Fatalf("ListCountries failed: %v", err)
	}
	if len(countryResp.Msg.Countries) == 0 || countryResp.Msg.Countries[0] != models.DefaultCountry {
		t.Errorf("unexpected countries: %v", countryResp.Msg.Countries)
	}
}
