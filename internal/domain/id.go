package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts free text to a lowercase [a-z0-9_] identifier.
// Empty input falls back to "item".
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugPattern.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "item"
	}
	return s
}

// UniqueID slugifies base and disambiguates against existing ids with a
// numeric suffix (_2, _3, ...).
func UniqueID(base string, existing map[string]struct{}) string {
	slug := Slugify(base)
	if _, taken := existing[slug]; !taken {
		return slug
	}

	for counter := 2; ; counter++ {
		candidate := fmt.Sprintf("%s_%d", slug, counter)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}
