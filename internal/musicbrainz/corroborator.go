package musicbrainz

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tunetag/internal/extraction"
	"tunetag/internal/logging"
	"tunetag/internal/ttlcache"
)

// matchScore is the corroboration value for a confirmed recording match. The
// external index is strong evidence but not proof: fuzzy containment matching
// tolerates credit-order and punctuation drift.
const matchScore = 0.90

// defaultLookupTimeout bounds a single corroboration lookup so a slow or
// unreachable service cannot stall extraction.
const defaultLookupTimeout = 5 * time.Second

// Corroborator scores candidate pairs against the MusicBrainz recording
// index. Lookups are cached; failures of any kind resolve to 0.
type Corroborator struct {
	client  Searcher
	cache   *ttlcache.Cache[string, float64]
	timeout time.Duration
	logger  *slog.Logger
}

var _ extraction.Corroborator = (*Corroborator)(nil)

// NewCorroborator builds a Corroborator around client. ttl governs how long a
// pair's score is reused before the service is asked again.
func NewCorroborator(client Searcher, ttl time.Duration, logger *slog.Logger) *Corroborator {
	return &Corroborator{
		client:  client,
		cache:   ttlcache.New[string, float64](ttl),
		timeout: defaultLookupTimeout,
		logger:  logging.NewComponentLogger(logger, "musicbrainz"),
	}
}

// Corroborate returns matchScore when MusicBrainz knows a recording matching
// the pair and 0 otherwise. It never returns an error: network failures,
// timeouts, and malformed payloads all score 0 and are cached like any other
// answer so a flapping service is not hammered.
func (c *Corroborator) Corroborate(ctx context.Context, artist, title string) float64 {
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	if artist == "" || title == "" {
		return 0
	}

	key := strings.ToLower(artist) + "\x00" + strings.ToLower(title)
	return c.cache.GetOrCompute(key, func() float64 {
		return c.lookup(ctx, artist, title)
	})
}

func (c *Corroborator) lookup(ctx context.Context, artist, title string) float64 {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.SearchRecordings(ctx, artist, title)
	if err != nil {
		c.logger.Debug("corroboration lookup failed",
			logging.String(logging.FieldEventType, "corroboration_miss"),
			logging.String("artist", artist),
			logging.String("title", title),
			logging.Error(err))
		return 0
	}

	for _, rec := range resp.Recordings {
		if recordingMatches(rec, artist, title) {
			return matchScore
		}
	}
	return 0
}

// recordingMatches applies case-insensitive containment in both directions on
// title and credited artist.
func recordingMatches(rec Recording, artist, title string) bool {
	if !looseMatch(rec.Title, title) {
		return false
	}
	for _, credit := range rec.ArtistCredit {
		if looseMatch(credit.Name, artist) || looseMatch(credit.Artist.Name, artist) {
			return true
		}
	}
	return false
}

func looseMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
