package storage

import (
	"context"
	"fmt"

	"github.com/mmynk/groupdir/internal/models"
)

// SeedGroups returns the demonstration groups in insertion order: three
// featured groups ranked 3, 2 and 1 followed by four unfeatured ones.
func SeedGroups() []models.GroupInput {
	return []models.GroupInput{
		seed("Business Network USA", "Business", "https://chat.whatsapp.com/example1",
			"https://images.unsplash.com/photo-1563986768609-322da13575f3?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&h=450",
			"Connect with entrepreneurs and business professionals across the USA", 500, 3),
		seed("Tech Enthusiasts", "Technology", "https://chat.whatsapp.com/example2",
			"https://images.unsplash.com/photo-1558021212-51b6ecfa0db9?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&h=450",
			"Stay updated with the latest in technology, gadgets and programming", 750, 2),
		seed("Book Lovers Club", "Education", "https://chat.whatsapp.com/example3",
			"https://images.unsplash.com/photo-1495020689067-958852a7765e?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&h=450",
			"A community for bookworms to discuss and recommend great reads", 320, 1),
		seed("Fitness Motivation", "Health", "https://chat.whatsapp.com/example4",
			"https://images.unsplash.com/photo-1578916171728-46686eac8d58?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&h=450",
			"Daily workout tips and motivation to stay fit", 220, 0),
		seed("Travel Enthusiasts", "Travel", "https://chat.whatsapp.com/example5",
			"https://images.unsplash.com/photo-1533777857889-4be7c70b33f7?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&h=450",
			"Share travel experiences and tips with fellow travelers", 430, 0),
		seed("Digital Marketing Masters", "Marketing", "https://chat.whatsapp.com/example6",
			"https://images.unsplash.com/photo-1515378791036-0648a3ef77b2?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&h=450",
			"Learn and discuss digital marketing strategies", 280, 0),
		seed("Crypto Investors", "Finance", "https://chat.whatsapp.com/example7",
			"https://images.unsplash.com/photo-1556248305-84a22817f323?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&h=450",
			"Discussions on cryptocurrency investments and market trends", 350, 0),
	}
}

// Seed inserts SeedGroups into the store.
func Seed(ctx context.Context, store GroupStore) error {
	for _, in := range SeedGroups() {
		if _, err := store.CreateGroup(ctx, in); err != nil {
			return fmt.Errorf("failed to seed group %q: %w", in.GroupName, err)
		}
	}
	return nil
}

func seed(name, category, link, image, description string, members, featured int) models.GroupInput {
	return models.GroupInput{
		GroupName:    name,
		Category:     category,
		WhatsAppLink: link,
		ImageURL:     &image,
		Description:  &description,
		MemberCount:  &members,
		Featured:     featured,
	}
}
