package storage

import (
	"strings"

	"github.com/mmynk/groupdir/internal/models"
)

// Refine narrows search results to a category and/or country.
// Matching is case-insensitive and exact; an empty filter is ignored.
func Refine(groups []models.Group, category, country string) []models.Group {
	category = strings.TrimSpace(category)
	country = strings.TrimSpace(country)
	if category == "" && country == "" {
		return groups
	}

	out := make([]models.Group, 0, len(groups))
	for _, g := range groups {
		if category != "" && !strings.EqualFold(g.Category, category) {
			continue
		}
		if country != "" && !strings.EqualFold(g.Country, country) {
			continue
		}
		out = append(out, g)
	}
	return out
}
