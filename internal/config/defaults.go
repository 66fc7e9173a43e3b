package config

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed sample_config.toml
var sampleConfig string

// SampleConfig returns the annotated sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the annotated sample configuration to target.
func CreateSample(target string) error {
	if err := os.WriteFile(target, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Default returns the baseline configuration applied before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: "~/.local/share/tunetag/staging",
			LibraryDir: "~/Music/tunetag",
			LogDir:     "~/.local/share/tunetag/logs",
		},
		Extraction: Extraction{
			Weights:         map[string]float64{},
			SemanticScorer:  false,
			EntityHeuristic: false,
		},
		MusicBrainz: MusicBrainz{
			Enabled:         true,
			BaseURL:         "https://musicbrainz.org/ws/2",
			UserAgent:       "tunetag/1.0 (https://github.com/tunetag/tunetag)",
			TimeoutSeconds:  5,
			CacheTTLSeconds: 600,
		},
		Fetch: Fetch{
			TimeoutSeconds:  30,
			CacheTTLSeconds: 600,
		},
		Download: Download{
			AudioFormat:   "mp3",
			EmbedCoverArt: true,
			FetchLyrics:   true,
		},
		History: History{
			Enabled: true,
			Path:    "~/.local/share/tunetag/history.db",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
