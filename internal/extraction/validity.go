package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Tokens that never belong in a real artist name; their presence means a
// heuristic latched onto video noise instead of a credit.
var bannedArtistTokens = []string{"video", "official", "lyrics", "feat", "cover", "remix"}

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	// Single-token alphanumeric codes such as upload IDs ("x7Fq9z01").
	codeLike = regexp.MustCompile(`^[A-Za-z]*\d[A-Za-z\d]*$`)
)

// ValidPair is the shared acceptance predicate applied to every candidate
// before it is allowed to compete in scoring, regardless of the source
// heuristic.
func ValidPair(artist, title string) bool {
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)

	// Length bounds count runes: description-sourced candidates carry raw
	// non-ASCII text and must not be penalized for byte width.
	if n := utf8.RuneCountInString(artist); n <= 2 || n >= 50 {
		return false
	}
	if n := utf8.RuneCountInString(title); n <= 5 || n >= 150 {
		return false
	}

	if digitsOnly.MatchString(artist) {
		return false
	}
	if !strings.Contains(artist, " ") && codeLike.MatchString(artist) {
		return false
	}

	switch title[0] {
	case '(', '[', '{':
		return false
	}
	if strings.HasPrefix(strings.ToLower(title), "www") {
		return false
	}

	lowerArtist := strings.ToLower(artist)
	for _, banned := range bannedArtistTokens {
		if strings.Contains(lowerArtist, banned) {
			return false
		}
	}
	return true
}
