package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"tunetag/internal/extraction"
	"tunetag/internal/logging"
	"tunetag/internal/ttlcache"
)

// ErrMetadataUnavailable reports that neither fetch path produced a title.
// Extraction has nothing to work with past this point.
var ErrMetadataUnavailable = errors.New("metadata unavailable for url")

// DefaultOEmbedBaseURL is the public YouTube oEmbed endpoint.
const DefaultOEmbedBaseURL = "https://www.youtube.com/oembed"

// Dumper produces the raw single-item JSON for a media URL. The default
// implementation shells out to yt-dlp.
type Dumper interface {
	DumpJSON(ctx context.Context, mediaURL string) (string, error)
}

// Fetcher resolves a media URL to extraction metadata.
type Fetcher struct {
	dumper        Dumper
	httpClient    *http.Client
	oembedBaseURL string
	timeout       time.Duration
	cache         *ttlcache.Cache[string, *extraction.Metadata]
	logger        *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithDumper overrides the yt-dlp probe.
func WithDumper(d Dumper) Option {
	return func(f *Fetcher) {
		if d != nil {
			f.dumper = d
		}
	}
}

// WithHTTPClient overrides the HTTP client used for the oEmbed lookup.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithOEmbedBaseURL overrides the oEmbed endpoint.
func WithOEmbedBaseURL(baseURL string) Option {
	return func(f *Fetcher) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			f.oembedBaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// New creates a Fetcher. timeout bounds one complete fetch; ttl governs how
// long a URL's metadata is reused.
func New(timeout, ttl time.Duration, logger *slog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		dumper:        ytdlpDumper{},
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		oembedBaseURL: DefaultOEmbedBaseURL,
		timeout:       timeout,
		cache:         ttlcache.New[string, *extraction.Metadata](ttl),
		logger:        logging.NewComponentLogger(logger, "fetch"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the metadata for mediaURL. Both fetch paths run concurrently;
// the structured probe wins whenever it carries a title, the oEmbed fallback
// covers probe failures. Only successful results enter the cache.
func (f *Fetcher) Fetch(ctx context.Context, mediaURL string) (*extraction.Metadata, error) {
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL == "" {
		return nil, errors.New("url must not be empty")
	}
	if meta, ok := f.cache.Get(mediaURL); ok {
		return meta, nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	type attempt struct {
		meta *extraction.Metadata
		err  error
	}
	primary := make(chan attempt, 1)
	fallback := make(chan attempt, 1)
	go func() {
		meta, err := f.probe(ctx, mediaURL)
		primary <- attempt{meta, err}
	}()
	go func() {
		meta, err := f.oembed(ctx, mediaURL)
		fallback <- attempt{meta, err}
	}()

	probe := <-primary
	if probe.err == nil && strings.TrimSpace(probe.meta.Title) != "" {
		f.cache.Set(mediaURL, probe.meta)
		return probe.meta, nil
	}
	if probe.err != nil {
		f.logger.Debug("structured probe failed",
			logging.String(logging.FieldEventType, "fetch_probe_failed"),
			logging.String("url", mediaURL),
			logging.Error(probe.err))
	}

	oembed := <-fallback
	if oembed.err == nil && strings.TrimSpace(oembed.meta.Title) != "" {
		f.cache.Set(mediaURL, oembed.meta)
		return oembed.meta, nil
	}
	if oembed.err != nil {
		f.logger.Debug("oembed fallback failed",
			logging.String(logging.FieldEventType, "fetch_oembed_failed"),
			logging.String("url", mediaURL),
			logging.Error(oembed.err))
	}

	return nil, fmt.Errorf("%w: %s", ErrMetadataUnavailable, mediaURL)
}

// ytdlpPayload is the subset of yt-dlp's --dump-single-json output the
// pipeline consumes.
type ytdlpPayload struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Uploader          string   `json:"uploader"`
	Tags              []string `json:"tags"`
	Categories        []string `json:"categories"`
	Duration          float64  `json:"duration"`
	ViewCount         int64    `json:"view_count"`
	ChannelIsVerified bool     `json:"channel_is_verified"`
	Artist            string   `json:"artist"`
	Track             string   `json:"track"`
}

func (f *Fetcher) probe(ctx context.Context, mediaURL string) (*extraction.Metadata, error) {
	raw, err := f.dumper.DumpJSON(ctx, mediaURL)
	if err != nil {
		return nil, fmt.Errorf("probe url: %w", err)
	}
	var payload ytdlpPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode probe payload: %w", err)
	}
	return &extraction.Metadata{
		Title:           payload.Title,
		Description:     payload.Description,
		Uploader:        payload.Uploader,
		Tags:            payload.Tags,
		Categories:      payload.Categories,
		Duration:        payload.Duration,
		ViewCount:       payload.ViewCount,
		ChannelVerified: payload.ChannelIsVerified,
		Artist:          payload.Artist,
		Track:           payload.Track,
	}, nil
}

type oembedPayload struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

func (f *Fetcher) oembed(ctx context.Context, mediaURL string) (*extraction.Metadata, error) {
	endpoint, err := url.Parse(f.oembedBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse oembed url: %w", err)
	}
	params := url.Values{}
	params.Set("url", mediaURL)
	params.Set("format", "json")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oembed lookup returned %d", resp.StatusCode)
	}
	var payload oembedPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode oembed response: %w", err)
	}
	return &extraction.Metadata{Title: payload.Title, Uploader: payload.AuthorName}, nil
}

// ytdlpDumper is the production Dumper. yt-dlp must be on PATH.
type ytdlpDumper struct{}

func (ytdlpDumper) DumpJSON(ctx context.Context, mediaURL string) (string, error) {
	result, err := ytdlp.New().
		NoWarnings().
		NoPlaylist().
		SkipDownload().
		DumpSingleJSON().
		Run(ctx, mediaURL)
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}
