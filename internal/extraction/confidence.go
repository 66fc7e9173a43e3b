package extraction

import (
	"math"
	"strings"
)

// estimateConfidence derives the final 0–1 confidence for the winning pair.
// The base reflects how many valid candidates competed; the modifiers reward
// metadata signals that correlate with genuine single-song uploads.
func estimateConfidence(validCount int, winner *aggregateScore, rawTitle string, meta *Metadata) float64 {
	base := math.Min(float64(validCount)*0.25, 0.85)

	if meta == nil {
		meta = &Metadata{}
	}

	// Typical song length; anything outside suggests compilations or clips.
	if meta.Duration >= 30 && meta.Duration <= 720 {
		base += 0.15
	} else {
		base -= 0.05
	}
	if meta.ViewCount > 1000 {
		base += 0.05
	}
	if meta.ChannelVerified {
		base += 0.1
	}
	if strings.ContainsAny(rawTitle, "\"“”") {
		base += 0.1
	}
	for _, category := range meta.Categories {
		if strings.EqualFold(strings.TrimSpace(category), "Music") {
			base += 0.1
			break
		}
	}
	if winner != nil {
		for _, tag := range meta.Tags {
			if strings.EqualFold(strings.TrimSpace(tag), winner.artist) ||
				strings.EqualFold(strings.TrimSpace(tag), winner.title) {
				base += 0.05
				break
			}
		}
	}

	confidence := math.Min(base, 0.99)
	if confidence < 0 {
		confidence = 0
	}
	return math.Round(confidence*100) / 100
}
