package directory

import (
	"errors"

	"github.com/mmynk/groupdir/internal/validation"
)

// ErrInvalidInviteLink is returned when a preview is requested for a link
// that is not a WhatsApp group invite.
var ErrInvalidInviteLink = errors.New("invalid WhatsApp group link")

const (
	previewTitle       = "WhatsApp Group"
	previewDescription = "Join this WhatsApp group!"
	previewImage       = "https://images.unsplash.com/photo-1611162617213-7d7a39e9b1d7?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&h=450"
)

// LinkPreview is the Open Graph style card shown for an invite link.
type LinkPreview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	URL         string `json:"url"`
}

// Preview returns the placeholder card for an invite link. Invite pages are
// not fetched.
func Preview(link string) (LinkPreview, error) {
	if !validation.IsInviteLink(link) {
		return LinkPreview{}, ErrInvalidInviteLink
	}
	return LinkPreview{
		Title:       previewTitle,
		Description: previewDescription,
		Image:       previewImage,
		URL:         link,
	}, nil
}
