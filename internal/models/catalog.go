package models

import "strings"

// Categories is the fixed set of group categories, in display order.
var Categories = []string{
	"Business", "Education", "Entertainment", "Sports",
	"Technology", "Travel", "Food", "Health", "Finance", "Marketing", "Others",
}

// Countries is the fixed set of group countries, in display order.
var Countries = []string{
	"Global", "United States", "India", "United Kingdom", "Canada", "Australia",
	"Germany", "France", "Spain", "Italy", "Brazil", "Mexico", "Japan",
	"China", "South Korea", "Nigeria", "South Africa", "UAE", "Singapore", "Other",
}

// IsCategory reports whether name is one of Categories (exact match).
func IsCategory(name string) bool {
	return contains(Categories, name)
}

// IsCountry reports whether name is one of Countries (exact match).
func IsCountry(name string) bool {
	return contains(Countries, name)
}

// CanonicalCategory returns the catalog spelling of a category matched
// case-insensitively, e.g. "technology" -> "Technology".
func CanonicalCategory(name string) (string, bool) {
	return canonical(Categories, name)
}

// CanonicalCountry returns the catalog spelling of a country matched
// case-insensitively.
func CanonicalCountry(name string) (string, bool) {
	return canonical(Countries, name)
}

func contains(set []string, name string) bool {
	for _, v := range set {
		if v == name {
			return true
		}
	}
	return false
}

func canonical(set []string, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, v := range set {
		if strings.EqualFold(v, name) {
			return v, true
		}
	}
	return "", false
}
