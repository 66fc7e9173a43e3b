package extraction

import (
	"regexp"
	"strings"
)

var personName = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\b`)

// NameRecognizer is the built-in EntityRecognizer: it treats consecutive
// Title-Case word runs as person names. Deployments with a real NER model
// can substitute their own implementation.
type NameRecognizer struct{}

// People returns candidate person names in order of appearance.
func (NameRecognizer) People(text string) []string {
	var people []string
	for _, m := range personName.FindAllStringSubmatch(text, -1) {
		if name := strings.TrimSpace(m[1]); name != "" {
			people = append(people, name)
		}
	}
	return people
}
