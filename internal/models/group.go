package models

import (
	"strings"
	"time"
)

// DefaultCountry is assigned to groups submitted without a country.
const DefaultCountry = "Global"

// Group represents a WhatsApp group listed in the directory.
type Group struct {
	// ID is the unique, sequentially assigned identifier.
	ID int64 `json:"id"`

	// GroupName is the display name of the group.
	GroupName string `json:"group_name"`

	// Category is one of Categories.
	Category string `json:"category"`

	// Country is one of Countries. "Global" when the submitter gave none.
	Country string `json:"country"`

	// WhatsAppLink is the chat.whatsapp.com invite URL.
	WhatsAppLink string `json:"whatsapp_link"`

	ImageURL    *string `json:"image_url"`
	Description *string `json:"description"`
	MemberCount *int    `json:"member_count"`

	// Featured is the featured rank. Zero means not featured; higher ranks
	// are shown first.
	Featured int `json:"featured"`

	// CreatedAt is set once when the group is stored.
	CreatedAt time.Time `json:"created_at"`
}

// GroupInput is the payload accepted when a group is submitted.
// Validation tags are evaluated by the validation package.
type GroupInput struct {
	GroupName    string  `json:"group_name" validate:"required,max=100"`
	Category     string  `json:"category" validate:"required,category"`
	Country      string  `json:"country" validate:"omitempty,country"`
	WhatsAppLink string  `json:"whatsapp_link" validate:"required,whatsapp_invite"`
	ImageURL     *string `json:"image_url" validate:"omitempty,max=2048"`
	Description  *string `json:"description" validate:"omitempty,max=1000"`
	MemberCount  *int    `json:"member_count" validate:"omitempty,gte=0"`
	Featured     int     `json:"featured" validate:"gte=0"`
}

// NewGroup builds a Group from a submission, applying defaults:
// country falls back to DefaultCountry, empty optional text and a zero
// member count become null.
func NewGroup(id int64, in GroupInput, createdAt time.Time) Group {
	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = DefaultCountry
	}

	return Group{
		ID:           id,
		GroupName:    strings.TrimSpace(in.GroupName),
		Category:     in.Category,
		Country:      country,
		WhatsAppLink: strings.TrimSpace(in.WhatsAppLink),
		ImageURL:     nonEmpty(in.ImageURL),
		Description:  nonEmpty(in.Description),
		MemberCount:  nonZero(in.MemberCount),
		Featured:     in.Featured,
		CreatedAt:    createdAt,
	}
}

// Text returns the searchable text fields of the group.
func (g Group) Text() []string {
	fields := []string{g.GroupName, g.Category, g.Country}
	if g.Description != nil {
		fields = append(fields, *g.Description)
	}
	return fields
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

func nonZero(n *int) *int {
	if n == nil || *n == 0 {
		return nil
	}
	v := *n
	return &v
}
