// Package storagetest holds behavioural tests shared by every storage.Store
// implementation.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/groupdir/internal/models"
	"github.com/mmynk/groupdir/internal/storage"
)

// Factory returns a fresh, empty store. The store is closed by the caller.
type Factory func(t *testing.T) storage.Store

// Run exercises the storage.Store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	fresh := func(t *testing.T) storage.Store {
		t.Helper()
		store := newStore(t)
		t.Cleanup(func() { store.Close() })
		return store
	}

	seeded := func(t *testing.T) storage.Store {
		t.Helper()
		store := fresh(t)
		if err := storage.Seed(ctx, store); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
		return store
	}

	t.Run("CreateGroup assigns increasing IDs", func(t *testing.T) {
		store := fresh(t)

		var last int64
		for i := 0; i < 5; i++ {
			g, err := store.CreateGroup(ctx, input("Group", "Business"))
			if err != nil {
				t.Fatalf("CreateGroup failed: %v", err)
			}
			if g.ID <= last {
				t.Fatalf("ID %d not greater than previous %d", g.ID, last)
			}
			last = g.ID
		}
	})

	t.Run("CreateGroup applies defaults", func(t *testing.T) {
		store := fresh(t)

		g, err := store.CreateGroup(ctx, input("Defaults", "Sports"))
		if err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if g.Country != models.DefaultCountry {
			t.Errorf("Country: got %q, want %q", g.Country, models.DefaultCountry)
		}
		if g.Featured != 0 {
			t.Errorf("Featured: got %d, want 0", g.Featured)
		}
		if g.Description != nil || g.ImageURL != nil || g.MemberCount != nil {
			t.Error("expected nullable fields to be nil")
		}
		if g.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}

		stored, err := store.GetGroupByID(ctx, g.ID)
		if err != nil {
			t.Fatalf("GetGroupByID failed: %v", err)
		}
		if stored == nil {
			t.Fatal("expected stored group")
		}
		if stored.Country != models.DefaultCountry || stored.Description != nil {
			t.Errorf("stored group lost defaults: %+v", stored)
		}
	})

	t.Run("GetGroupByID returns nil for missing group", func(t *testing.T) {
		store := seeded(t)

		g, err := store.GetGroupByID(ctx, 9999)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if g != nil {
			t.Errorf("expected nil group, got %+v", g)
		}
	})

	t.Run("GetAllGroups returns every group", func(t *testing.T) {
		store := seeded(t)

		groups, err := store.GetAllGroups(ctx)
		if err != nil {
			t.Fatalf("GetAllGroups failed: %v", err)
		}
		if len(groups) != len(storage.SeedGroups()) {
			t.Errorf("got %d groups, want %d", len(groups), len(storage.SeedGroups()))
		}
	})

	t.Run("GetGroupsByCategory ignores case", func(t *testing.T) {
		store := seeded(t)

		lower, err := store.GetGroupsByCategory(ctx, "technology")
		if err != nil {
			t.Fatalf("GetGroupsByCategory failed: %v", err)
		}
		upper, err := store.GetGroupsByCategory(ctx, "Technology")
		if err != nil {
			t.Fatalf("GetGroupsByCategory failed: %v", err)
		}
		if len(lower) != 1 || len(upper) != 1 {
			t.Fatalf("expected one Technology group, got %d and %d", len(lower), len(upper))
		}
		if lower[0].ID != upper[0].ID {
			t.Errorf("results differ: %d vs %d", lower[0].ID, upper[0].ID)
		}

		none, err := store.GetGroupsByCategory(ctx, "Sports")
		if err != nil {
			t.Fatalf("GetGroupsByCategory failed: %v", err)
		}
		if none == nil || len(none) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", none)
		}
	})

	t.Run("GetGroupsByCountry ignores case", func(t *testing.T) {
		store := seeded(t)

		in := input("Mumbai Startups", "Business")
		in.Country = "India"
		if _, err := store.CreateGroup(ctx, in); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		india, err := store.GetGroupsByCountry(ctx, "INDIA")
		if err != nil {
			t.Fatalf("GetGroupsByCountry failed: %v", err)
		}
		if len(india) != 1 || india[0].GroupName != "Mumbai Startups" {
			t.Errorf("unexpected India groups: %+v", india)
		}

		global, err := store.GetGroupsByCountry(ctx, "global")
		if err != nil {
			t.Fatalf("GetGroupsByCountry failed: %v", err)
		}
		if len(global) != len(storage.SeedGroups()) {
			t.Errorf("got %d Global groups, want %d", len(global), len(storage.SeedGroups()))
		}
	})

	t.Run("GetFeaturedGroups orders by rank", func(t *testing.T) {
		store := seeded(t)

		groups, err := store.GetFeaturedGroups(ctx, storage.DefaultFeaturedLimit)
		if err != nil {
			t.Fatalf("GetFeaturedGroups failed: %v", err)
		}
		want := []int{3, 2, 1}
		if len(groups) != len(want) {
			t.Fatalf("got %d featured groups, want %d", len(groups), len(want))
		}
		for i, g := range groups {
			if g.Featured != want[i] {
				t.Errorf("position %d: got rank %d, want %d", i, g.Featured, want[i])
			}
		}

		two, err := store.GetFeaturedGroups(ctx, 2)
		if err != nil {
			t.Fatalf("GetFeaturedGroups failed: %v", err)
		}
		if len(two) != 2 || two[0].Featured != 3 {
			t.Errorf("limit 2: unexpected result %+v", two)
		}

		many, err := store.GetFeaturedGroups(ctx, 50)
		if err != nil {
			t.Fatalf("GetFeaturedGroups failed: %v", err)
		}
		for _, g := range many {
			if g.Featured <= 0 {
				t.Errorf("unfeatured group %d in featured list", g.ID)
			}
		}
	})

	t.Run("GetRecentGroups returns newest first", func(t *testing.T) {
		store := seeded(t)

		groups, err := store.GetRecentGroups(ctx, storage.DefaultRecentLimit)
		if err != nil {
			t.Fatalf("GetRecentGroups failed: %v", err)
		}
		want := []string{"Crypto Investors", "Digital Marketing Masters", "Travel Enthusiasts", "Fitness Motivation"}
		if len(groups) != len(want) {
			t.Fatalf("got %d recent groups, want %d", len(groups), len(want))
		}
		for i, g := range groups {
			if g.GroupName != want[i] {
				t.Errorf("position %d: got %q, want %q", i, g.GroupName, want[i])
			}
			if i > 0 && g.CreatedAt.After(groups[i-1].CreatedAt) {
				t.Errorf("position %d newer than position %d", i, i-1)
			}
		}

		latest, err := store.CreateGroup(ctx, input("Newest", "Food"))
		if err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		top, err := store.GetRecentGroups(ctx, 1)
		if err != nil {
			t.Fatalf("GetRecentGroups failed: %v", err)
		}
		if len(top) != 1 || top[0].ID != latest.ID {
			t.Errorf("expected newest group first, got %+v", top)
		}
	})

	t.Run("non-positive limit yields empty result", func(t *testing.T) {
		store := seeded(t)

		recent, err := store.GetRecentGroups(ctx, 0)
		if err != nil {
			t.Fatalf("GetRecentGroups failed: %v", err)
		}
		featured, err := store.GetFeaturedGroups(ctx, -1)
		if err != nil {
			t.Fatalf("GetFeaturedGroups failed: %v", err)
		}
		if len(recent) != 0 || len(featured) != 0 {
			t.Errorf("expected empty results, got %d and %d", len(recent), len(featured))
		}
	})

	t.Run("SearchGroups matches fields ignoring case", func(t *testing.T) {
		store := seeded(t)

		tests := []struct {
			query string
			want  []string
		}{
			{"crypto", []string{"Crypto Investors"}},
			{"BOOKWORMS", []string{"Book Lovers Club"}},
			{"marketing", []string{"Digital Marketing Masters"}},
			{"enthusiasts", []string{"Tech Enthusiasts", "Travel Enthusiasts"}},
			{"100%", nil},
			{"zzz-no-match", nil},
		}
		for _, tt := range tests {
			groups, err := store.SearchGroups(ctx, tt.query)
			if err != nil {
				t.Fatalf("SearchGroups(%q) failed: %v", tt.query, err)
			}
			if len(groups) != len(tt.want) {
				t.Errorf("SearchGroups(%q): got %d groups, want %d", tt.query, len(groups), len(tt.want))
				continue
			}
			for i, g := range groups {
				if g.GroupName != tt.want[i] {
					t.Errorf("SearchGroups(%q)[%d]: got %q, want %q", tt.query, i, g.GroupName, tt.want[i])
				}
			}
		}

		all, err := store.SearchGroups(ctx, "")
		if err != nil {
			t.Fatalf("SearchGroups failed: %v", err)
		}
		if len(all) != len(storage.SeedGroups()) {
			t.Errorf("empty query: got %d groups, want all %d", len(all), len(storage.SeedGroups()))
		}
	})

	t.Run("matching folds non-ASCII letters", func(t *testing.T) {
		store := seeded(t)

		desc := "Treffen im CAFÉ am Ring"
		in := input("Über Club", "Travel")
		in.Country = "Österreich"
		in.Description = &desc
		created, err := store.CreateGroup(ctx, in)
		if err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		for _, query := range []string{"über", "ÜBER CLUB", "café", "österreich"} {
			groups, err := store.SearchGroups(ctx, query)
			if err != nil {
				t.Fatalf("SearchGroups(%q) failed: %v", query, err)
			}
			if len(groups) != 1 || groups[0].ID != created.ID {
				t.Errorf("SearchGroups(%q): got %+v, want only %q", query, groups, created.GroupName)
			}
		}

		byCountry, err := store.GetGroupsByCountry(ctx, "ÖSTERREICH")
		if err != nil {
			t.Fatalf("GetGroupsByCountry failed: %v", err)
		}
		if len(byCountry) != 1 || byCountry[0].ID != created.ID {
			t.Errorf("GetGroupsByCountry: got %+v, want only %q", byCountry, created.GroupName)
		}
	})

	t.Run("users", func(t *testing.T) {
		store := fresh(t)

		alice := models.NewUser("alice", "hash-a")
		if err := store.CreateUser(ctx, alice); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		bob := models.NewUser("bob", "hash-b")
		if err := store.CreateUser(ctx, bob); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if alice.ID == 0 || bob.ID <= alice.ID {
			t.Errorf("expected increasing user IDs, got %d and %d", alice.ID, bob.ID)
		}

		err := store.CreateUser(ctx, models.NewUser("alice", "other"))
		if !errors.Is(err, storage.ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}

		got, err := store.GetUserByUsername(ctx, "bob")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if got == nil || got.ID != bob.ID || got.PasswordHash != "hash-b" {
			t.Errorf("unexpected user: %+v", got)
		}

		byID, err := store.GetUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if byID == nil || byID.Username != "alice" {
			t.Errorf("unexpected user: %+v", byID)
		}

		missing, err := store.GetUserByUsername(ctx, "carol")
		if err != nil || missing != nil {
			t.Errorf("expected nil, nil for missing user; got %+v, %v", missing, err)
		}
	})
}

func input(name, category string) models.GroupInput {
	return models.GroupInput{
		GroupName:    name,
		Category:     category,
		WhatsAppLink: "https://chat.whatsapp.com/" + name,
	}
}
