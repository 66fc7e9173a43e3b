package fetch

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleFromURL derives a human-readable display title from a media URL's last
// path segment. It is the presentation fallback when no metadata title exists.
func TitleFromURL(mediaURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(mediaURL))
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return "Unknown Media"
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	base := segments[len(segments)-1]
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}

	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' || r == '+':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Unknown Media"
	}
	return cases.Title(language.Und).String(title)
}
