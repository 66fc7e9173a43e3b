package extraction

import (
	"regexp"
	"strings"
)

var (
	nonLatinRun = regexp.MustCompile(`[^\x20-\x7E]+`)
	quotedSpan  = regexp.MustCompile(`"([^"]*)"`)
	yearPrefix  = regexp.MustCompile(`^\d{4}\s*[-:.|]?\s+`)
	noiseTokens = regexp.MustCompile(`(?i)\b(official|video|lyrics?|audio|cover|remix|edit|instrumental|karaoke|prod\.?|live|acoustic|version|original|hd|hq|vevo|channel)\b`)
	// Bracketed spans whose content carries no letters after noise removal.
	emptyBrackets = regexp.MustCompile(`\([^()a-zA-Z]*\)|\[[^\[\]a-zA-Z]*\]|\{[^{}a-zA-Z]*\}`)
	spaceRun      = regexp.MustCompile(`\s+`)
)

// Normalize cleans a raw title into the canonical form heuristics reason
// about. The rule chain runs to a fixpoint, so applying Normalize twice
// yields the same string as applying it once.
//
// Bracketed spans that still carry substantive content after noise removal
// are kept: the bracket-based heuristics need them, and observed titles such
// as "Song (Artist)" lose their only artist signal otherwise. Spans reduced
// to noise ("(Official Video)") are dropped.
func Normalize(raw string) string {
	s := normalizeOnce(raw)
	for {
		// Every non-identity pass strictly shortens the string, so the
		// loop terminates.
		next := normalizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeOnce(raw string) string {
	// Non-basic-Latin runs (foreign scripts, emoji) become single spaces.
	s := nonLatinRun.ReplaceAllString(raw, " ")

	// Titles of the form `"Song" by Artist` quote the song once, near the
	// end; the last quoted substring replaces the whole title.
	if spans := quotedSpan.FindAllStringSubmatch(s, -1); len(spans) > 0 {
		last := strings.TrimSpace(spans[len(spans)-1][1])
		if last != "" {
			s = last
		}
	}

	// Leading 4-digit-year prefix.
	s = yearPrefix.ReplaceAllString(s, "")

	s = noiseTokens.ReplaceAllString(s, " ")
	s = emptyBrackets.ReplaceAllString(s, " ")

	// With multiple pipes, everything before the first pipe is channel
	// branding.
	if strings.Count(s, "|") > 1 {
		s = s[strings.Index(s, "|")+1:]
	}

	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
