package util

import (
	"strings"
	"unicode"
)

// StripUnsafe replaces ASCII control characters with spaces, collapses
// whitespace runs and trims the result.
func StripUnsafe(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if r <= 0x1F || r == 0x7F {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// FitToLength sanitizes s and truncates it to at most max runes.
func FitToLength(s string, max int) string {
	clean := StripUnsafe(s)
	runes := []rune(clean)
	if len(runes) <= max {
		return clean
	}
	return string(runes[:max])
}

// Slugify lowercases s, keeps [a-z0-9 -], joins words with "-" and truncates to max.
func Slugify(s string, max int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	slug := strings.Join(strings.Fields(b.String()), "-")
	if len(slug) > max {
		slug = slug[:max]
	}
	return slug
}

// FirstNonEmpty returns the first argument that is not blank after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
