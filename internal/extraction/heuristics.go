package extraction

import (
	"regexp"
	"strings"
	"unicode"
)

// heuristic is one independent extraction strategy. fn returns an empty pair
// to signal "no opinion"; confidence is the strategy's fixed prior.
type heuristic struct {
	id         string
	confidence float64
	fn         func(title string, meta *Metadata) (artist, song string)
}

// defaultHeuristics returns the active strategy set in declaration order.
// Declaration order is the deterministic tie-break for equally-scored
// candidate groups, so it is part of the pipeline contract.
func defaultHeuristics(entities EntityRecognizer) []heuristic {
	hs := []heuristic{
		{id: "description", confidence: 0.95, fn: descriptionFields},
		{id: "separator", confidence: 0.9, fn: separatorSplit},
		{id: "featured", confidence: 0.8, fn: featuredArtist},
		{id: "by_split", confidence: 0.8, fn: bySplit},
		{id: "artist_list", confidence: 0.75, fn: artistList},
		{id: "multi_dash", confidence: 0.75, fn: multiDash},
		{id: "length_swap", confidence: 0.7, fn: lengthSwap},
		{id: "ascii_split", confidence: 0.7, fn: asciiDominance},
		{id: "parenthetical", confidence: 0.7, fn: parenthetical},
		{id: "brackets", confidence: 0.7, fn: bracketSplit},
		{id: "comma_swap", confidence: 0.65, fn: commaSwap},
		{id: "compact_title", confidence: 0.6, fn: compactTitle},
		{id: "capital_split", confidence: 0.55, fn: capitalSplit},
		{id: "last_word", confidence: 0.4, fn: lastWordArtist},
	}
	if entities != nil {
		hs = append(hs, heuristic{id: "entity", confidence: 0.85, fn: entitySplit(entities)})
	}
	return hs
}

// Separators ordered from most to least reliable.
var titleSeparators = []string{" - ", " – ", "|", " • ", "::", "//"}

func separatorSplit(title string, _ *Metadata) (string, string) {
	for _, sep := range titleSeparators {
		idx := strings.Index(title, sep)
		if idx < 0 {
			continue
		}
		left := strings.TrimSpace(title[:idx])
		right := strings.TrimSpace(title[idx+len(sep):])
		if left == "" || right == "" {
			return "", ""
		}
		return left, right
	}
	return "", ""
}

func multiDash(title string, _ *Metadata) (string, string) {
	if strings.Count(title, "-") <= 1 {
		return "", ""
	}
	idx := strings.Index(title, "-")
	left := strings.TrimSpace(title[:idx])
	right := strings.TrimSpace(title[idx+1:])
	if left == "" || right == "" || digitsOnly.MatchString(left) {
		return "", ""
	}
	return left, right
}

var featMarker = regexp.MustCompile(`(?i)\s(?:ft\.?|feat\.?|featuring|con|with|vs\.?|prod\.?(?:\s+by)?|remix(?:ed)?\s+by)\s`)

func featuredArtist(title string, _ *Metadata) (string, string) {
	loc := featMarker.FindStringIndex(title)
	if loc == nil {
		return "", ""
	}
	before := strings.TrimSpace(title[:loc[0]])
	after := strings.TrimSpace(title[loc[1]:])
	if before == "" || after == "" {
		return "", ""
	}

	var artists []string
	song := before
	if idx := strings.Index(before, " - "); idx >= 0 {
		artists = append(artists, strings.TrimSpace(before[:idx]))
		song = strings.TrimSpace(before[idx+3:])
	}
	artists = append(artists, splitArtistNames(after)...)
	artists = dedupeNames(artists, 3)
	if len(artists) == 0 || song == "" {
		return "", ""
	}
	return strings.Join(artists, ", "), song
}

var byMarker = regexp.MustCompile(`(?i)^(.*?)\s+(?:cover\s+)?by\s+(.+)$`)

func bySplit(title string, _ *Metadata) (string, string) {
	m := byMarker.FindStringSubmatch(title)
	if m == nil {
		return "", ""
	}
	// Artist follows "by"; the leading operand is the song.
	return strings.TrimSpace(m[2]), strings.TrimSpace(m[1])
}

var artistListPattern = regexp.MustCompile(`^([^-]+?(?:\s*[,&]\s*[^-,&]+)+)\s+-\s+(.+)$`)

func artistList(title string, _ *Metadata) (string, string) {
	m := artistListPattern.FindStringSubmatch(title)
	if m == nil {
		return "", ""
	}
	names := splitArtistNames(m[1])
	if len(names) < 2 {
		return "", ""
	}
	return strings.Join(dedupeNames(names, 3), ", "), strings.TrimSpace(m[2])
}

func lengthSwap(title string, _ *Metadata) (string, string) {
	left, right, ok := dashHalves(title)
	if !ok {
		return "", ""
	}
	// Artist credits run short; a left side much longer than the right is
	// almost always the song.
	if float64(len(left)) > 1.5*float64(len(right)) {
		return right, left
	}
	return left, right
}

func asciiDominance(title string, _ *Metadata) (string, string) {
	left, right, ok := dashHalves(title)
	if !ok {
		return "", ""
	}
	if letterRatio(left) >= letterRatio(right) {
		return left, right
	}
	return right, left
}

var parenSpan = regexp.MustCompile(`\(([^()]+)\)`)

func parenthetical(title string, _ *Metadata) (string, string) {
	spans := parenSpan.FindAllStringSubmatch(title, -1)
	if len(spans) != 1 {
		return "", ""
	}
	inside := strings.TrimSpace(spans[0][1])
	outside := strings.TrimSpace(parenSpan.ReplaceAllString(title, " "))
	if inside == "" || outside == "" {
		return "", ""
	}
	// "Song (Artist)" pattern.
	return inside, spaceRun.ReplaceAllString(outside, " ")
}

var bracketSpan = regexp.MustCompile(`\[([^\[\]]+)\]`)

func bracketSplit(title string, _ *Metadata) (string, string) {
	spans := bracketSpan.FindAllStringSubmatch(title, -1)
	if len(spans) != 1 {
		return "", ""
	}
	inside := strings.TrimSpace(spans[0][1])
	outside := strings.TrimSpace(bracketSpan.ReplaceAllString(title, " "))
	if inside == "" || outside == "" {
		return "", ""
	}
	// "Artist [Song]" pattern: text outside the span is the counterpart.
	return spaceRun.ReplaceAllString(outside, " "), inside
}

func commaSwap(title string, _ *Metadata) (string, string) {
	if strings.Count(title, ",") != 1 {
		return "", ""
	}
	idx := strings.Index(title, ",")
	song := strings.TrimSpace(title[:idx])
	artist := strings.TrimSpace(title[idx+1:])
	if song == "" || artist == "" {
		return "", ""
	}
	// "Title, Artist" ordering.
	return artist, song
}

func compactTitle(title string, _ *Metadata) (string, string) {
	if strings.ContainsAny(title, " -|,") {
		return "", ""
	}
	var boundaries []int
	runes := []rune(title)
	for i := 1; i < len(runes); i++ {
		if unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
			boundaries = append(boundaries, i)
		}
	}
	if len(boundaries) < 2 {
		return "", ""
	}
	// The boundary nearest the midpoint splits "ArtistNameSongName".
	mid := len(runes) / 2
	best := boundaries[0]
	for _, b := range boundaries[1:] {
		if abs(b-mid) < abs(best-mid) {
			best = b
		}
	}
	return camelToWords(string(runes[:best])), camelToWords(string(runes[best:]))
}

func capitalSplit(title string, _ *Metadata) (string, string) {
	words := strings.Fields(title)
	if len(words) < 3 {
		return "", ""
	}
	for i := 1; i < len(words)-1; i++ {
		if isTitleCase(words[i]) {
			return strings.Join(words[:i], " "), strings.Join(words[i:], " ")
		}
	}
	return "", ""
}

func lastWordArtist(title string, _ *Metadata) (string, string) {
	words := strings.Fields(title)
	if len(words) <= 4 {
		return "", ""
	}
	return words[len(words)-1], strings.Join(words[:len(words)-1], " ")
}

var descriptionLabels = regexp.MustCompile(`(?im)^\s*(artist|artista|singer|interprete|title|track|song|cancion|titulo)\s*[:=]\s*(.+)$`)

func descriptionFields(_ string, meta *Metadata) (string, string) {
	if meta == nil || meta.Description == "" {
		return "", ""
	}
	var artist, song string
	for _, m := range descriptionLabels.FindAllStringSubmatch(meta.Description, -1) {
		value := strings.TrimSpace(m[2])
		if value == "" {
			continue
		}
		switch strings.ToLower(m[1]) {
		case "artist", "artista", "singer", "interprete":
			if artist == "" {
				artist = value
			}
		default:
			if song == "" {
				song = value
			}
		}
	}
	if artist == "" || song == "" {
		return "", ""
	}
	return artist, song
}

func entitySplit(entities EntityRecognizer) func(string, *Metadata) (string, string) {
	return func(title string, _ *Metadata) (string, string) {
		people := entities.People(title)
		if len(people) == 0 {
			return "", ""
		}
		artist := strings.TrimSpace(people[0])
		if artist == "" {
			return "", ""
		}
		remainder := strings.Replace(title, people[0], " ", 1)
		remainder = strings.Trim(spaceRun.ReplaceAllString(remainder, " "), " -|,:")
		if remainder == "" {
			return "", ""
		}
		return artist, remainder
	}
}

func dashHalves(title string) (string, string, bool) {
	parts := strings.Split(title, " - ")
	if len(parts) != 2 {
		return "", "", false
	}
	left := strings.TrimSpace(parts[0])
	right := strings.TrimSpace(parts[1])
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

var artistNameDelims = regexp.MustCompile(`\s*(?:,|&|\band\b)\s*`)

func splitArtistNames(list string) []string {
	var names []string
	for _, part := range artistNameDelims.Split(list, -1) {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

func dedupeNames(names []string, limit int) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(name))
		if len(out) == limit {
			break
		}
	}
	return out
}

func letterRatio(s string) float64 {
	if s == "" {
		return 0
	}
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return float64(letters) / float64(len([]rune(s)))
}

func isTitleCase(word string) bool {
	runes := []rune(word)
	if len(runes) < 2 {
		return false
	}
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func camelToWords(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
