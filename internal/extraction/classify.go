package extraction

import "regexp"

// MinTitleLength is the shortest normalized title worth reasoning about.
const MinTitleLength = 6

// Deny-list for content unlikely to denote a single song. Matching any
// pattern short-circuits the pipeline before heuristics run.
var nonMusicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(podcast|episode|tutorial|interview|vlog|documentary|reaction|gameplay|trailer|how to)\b`),
	regexp.MustCompile(`(?i)\bfull album\b`),
	regexp.MustCompile(`(?i)\b(mix|mixtape|megamix|compilation|playlist|mashup)\b`),
	regexp.MustCompile(`(?i)\bcover version\b`),
	regexp.MustCompile(`(?i)\btop\s*\d+\b`),
	// Numbered-list titles: "7 - something".
	regexp.MustCompile(`^\d+\s+-\s+\S+`),
	regexp.MustCompile(`(?i)\b(programa|special|edici[oó]n)\b.*\b(19|20)\d{2}\b`),
}

// IsNonMusic reports whether the normalized title matches the non-music
// deny-list.
func IsNonMusic(title string) bool {
	for _, pattern := range nonMusicPatterns {
		if pattern.MatchString(title) {
			return true
		}
	}
	return false
}
