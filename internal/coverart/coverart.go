// Package coverart locates and downloads album artwork through the iTunes
// Search API.
package coverart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultBaseURL is the public iTunes Search API root.
const DefaultBaseURL = "https://itunes.apple.com"

// ErrNotFound reports that no artwork exists for the pair.
var ErrNotFound = errors.New("no cover art found")

// Client queries the iTunes Search API.
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

// New creates a cover art client.
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

type searchResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		ArtistName     string `json:"artistName"`
		TrackName      string `json:"trackName"`
		CollectionName string `json:"collectionName"`
		ArtworkURL100  string `json:"artworkUrl100"`
	} `json:"results"`
}

// FindArtworkURL returns the highest-resolution artwork URL for the pair.
func (c *Client) FindArtworkURL(ctx context.Context, artist, title string) (string, error) {
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	if artist == "" || title == "" {
		return "", errors.New("artist and title must not be empty")
	}

	endpoint, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return "", fmt.Errorf("parse itunes url: %w", err)
	}
	params := url.Values{}
	params.Set("term", artist+" "+title)
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("limit", "5")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("itunes search returned %d", resp.StatusCode)
	}
	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode itunes response: %w", err)
	}

	for _, result := range payload.Results {
		if result.ArtworkURL100 == "" {
			continue
		}
		// The API only hands out thumbnails; the CDN serves larger renditions
		// at the same path.
		return strings.Replace(result.ArtworkURL100, "100x100", "600x600", 1), nil
	}
	return "", fmt.Errorf("%w: %s - %s", ErrNotFound, artist, title)
}

// Download fetches artworkURL into destPath.
func (c *Client) Download(ctx context.Context, artworkURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("artwork download returned %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create artwork file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write artwork file: %w", err)
	}
	return nil
}
