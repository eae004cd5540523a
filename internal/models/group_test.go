package models

import (
	"testing"
	"time"
)

func TestNewGroupDefaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	empty := "  "
	zero := 0

	g := NewGroup(7, GroupInput{
		GroupName:    " Tech Enthusiasts ",
		Category:     "Technology",
		WhatsAppLink: "https://chat.whatsapp.com/abc",
		ImageURL:     &empty,
		MemberCount:  &zero,
	}, now)

	if g.ID != 7 {
		t.Errorf("ID: got %d, want 7", g.ID)
	}
	if g.GroupName != "Tech Enthusiasts" {
		t.Errorf("GroupName: got %q", g.GroupName)
	}
	if g.Country != DefaultCountry {
		t.Errorf("Country: got %q, want %q", g.Country, DefaultCountry)
	}
	if g.Featured != 0 {
		t.Errorf("Featured: got %d, want 0", g.Featured)
	}
	if g.ImageURL != nil {
		t.Errorf("ImageURL: expected nil for blank input, got %q", *g.ImageURL)
	}
	if g.Description != nil {
		t.Error("Description: expected nil")
	}
	if g.MemberCount != nil {
		t.Errorf("MemberCount: expected nil for zero, got %d", *g.MemberCount)
	}
	if !g.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt: got %v, want %v", g.CreatedAt, now)
	}
}

func TestNewGroupKeepsValues(t *testing.T) {
	desc := "Daily workout tips"
	members := 220

	g := NewGroup(1, GroupInput{
		GroupName:    "Fitness Motivation",
		Category:     "Health",
		Country:      "India",
		WhatsAppLink: "https://chat.whatsapp.com/example4",
		Description:  &desc,
		MemberCount:  &members,
		Featured:     2,
	}, time.Now())

	if g.Country != "India" {
		t.Errorf("Country: got %q, want India", g.Country)
	}
	if g.Description == nil || *g.Description != desc {
		t.Errorf("Description: got %v", g.Description)
	}
	if g.MemberCount == nil || *g.MemberCount != 220 {
		t.Errorf("MemberCount: got %v", g.MemberCount)
	}
	if g.Featured != 2 {
		t.Errorf("Featured: got %d, want 2", g.Featured)
	}

	// The group must not alias the caller's pointers.
	desc = "changed"
	if *g.Description != "Daily workout tips" {
		t.Error("Description aliases input pointer")
	}
}

func TestCanonicalCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Technology", "Technology", true},
		{"technology", "Technology", true},
		{" FINANCE ", "Finance", true},
		{"Gardening", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalCategory(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CanonicalCategory(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCanonicalCountry(t *testing.T) {
	got, ok := CanonicalCountry("south korea")
	if !ok || got != "South Korea" {
		t.Errorf("CanonicalCountry: got %q, %v", got, ok)
	}
	if !IsCountry(DefaultCountry) {
		t.Error("default country must be in the catalog")
	}
}
