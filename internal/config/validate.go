package config

import (
	"errors"
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return err
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return err
	}
	c.MusicBrainz.BaseURL = strings.TrimRight(strings.TrimSpace(c.MusicBrainz.BaseURL), "/")
	c.Download.AudioFormat = strings.ToLower(strings.TrimSpace(c.Download.AudioFormat))
	return nil
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.Fetch.TimeoutSeconds <= 0 {
		return errors.New("fetch timeout_seconds must be positive")
	}
	if c.Fetch.CacheTTLSeconds <= 0 {
		return errors.New("fetch cache_ttl_seconds must be positive")
	}
	if c.MusicBrainz.Enabled {
		if c.MusicBrainz.BaseURL == "" {
			return errors.New("musicbrainz base_url required when enabled")
		}
		if strings.TrimSpace(c.MusicBrainz.UserAgent) == "" {
			return errors.New("musicbrainz user_agent required when enabled")
		}
		if c.MusicBrainz.TimeoutSeconds <= 0 {
			return errors.New("musicbrainz timeout_seconds must be positive")
		}
		if c.MusicBrainz.CacheTTLSeconds <= 0 {
			return errors.New("musicbrainz cache_ttl_seconds must be positive")
		}
	}
	switch c.Download.AudioFormat {
	case "mp3", "m4a", "opus", "flac", "wav":
	default:
		return fmt.Errorf("download audio_format: unsupported value %q", c.Download.AudioFormat)
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history path required when enabled")
	}
	for name, weight := range c.Extraction.Weights {
		if weight <= 0 {
			return fmt.Errorf("extraction weight for %q must be positive", name)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
