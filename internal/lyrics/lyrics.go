// Package lyrics fetches plain-text song lyrics from the lyrics.ovh service.
package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public lyrics.ovh API root.
const DefaultBaseURL = "https://api.lyrics.ovh/v1"

// ErrNotFound reports that the service has no lyrics for the pair.
var ErrNotFound = errors.New("no lyrics found")

// Client queries the lyrics.ovh API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// New creates a lyrics client.
func New(opts ...Option) *Client {
	client := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type lyricsResponse struct {
	Lyrics string `json:"lyrics"`
}

// Fetch returns the lyrics text for the pair. ErrNotFound distinguishes a
// clean miss from transport failures.
func (c *Client) Fetch(ctx context.Context, artist, title string) (string, error) {
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	if artist == "" || title == "" {
		return "", errors.New("artist and title must not be empty")
	}

	endpoint := c.baseURL + "/" + url.PathEscape(artist) + "/" + url.PathEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s - %s", ErrNotFound, artist, title)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lyrics lookup returned %d", resp.StatusCode)
	}

	var payload lyricsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode lyrics response: %w", err)
	}
	text := strings.TrimSpace(payload.Lyrics)
	if text == "" {
		return "", fmt.Errorf("%w: %s - %s", ErrNotFound, artist, title)
	}
	return text, nil
}
