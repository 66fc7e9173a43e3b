package main

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"tunetag/internal/config"
	"tunetag/internal/extraction"
	"tunetag/internal/fetch"
	"tunetag/internal/history"
	"tunetag/internal/logging"
	"tunetag/internal/musicbrainz"
)

type commandContext struct {
	configFlag  *string
	jsonFlag    *bool
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jsonFlag, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		jsonFlag:    jsonFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// ensureLogger builds the process logger once. JSON output mode silences the
// console logger so command output stays parseable.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil || c.jsonOutput() {
			c.logger = logging.NewNop()
			return
		}
		level := cfg.Logging.Level
		if c.verboseFlag != nil && *c.verboseFlag {
			level = "debug"
		}
		logger, logErr := logging.New(logging.Options{
			Level:  level,
			Format: cfg.Logging.Format,
		})
		if logErr != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// buildExtractor assembles the extraction pipeline from configuration:
// optional corroborator, embedder, and entity recognizer.
func (c *commandContext) buildExtractor(cfg *config.Config, logger *slog.Logger) (*extraction.Extractor, error) {
	opts := extraction.Options{
		Weights: cfg.Extraction.Weights,
		Logger:  logger,
	}
	if cfg.Extraction.SemanticScorer {
		opts.Embedder = extraction.TermEmbedder{}
	}
	if cfg.Extraction.EntityHeuristic {
		opts.Entities = extraction.NameRecognizer{}
	}
	if cfg.MusicBrainz.Enabled {
		client, err := musicbrainz.New(cfg.MusicBrainz.BaseURL, cfg.MusicBrainz.UserAgent,
			musicbrainz.WithHTTPClient(&http.Client{
				Timeout: time.Duration(cfg.MusicBrainz.TimeoutSeconds) * time.Second,
			}))
		if err != nil {
			return nil, err
		}
		opts.Corroborator = musicbrainz.NewCorroborator(client,
			time.Duration(cfg.MusicBrainz.CacheTTLSeconds)*time.Second, logger)
	}
	return extraction.New(opts), nil
}

func (c *commandContext) buildFetcher(cfg *config.Config, logger *slog.Logger) *fetch.Fetcher {
	return fetch.New(
		time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second,
		time.Duration(cfg.Fetch.CacheTTLSeconds)*time.Second,
		logger,
	)
}

// openHistory returns the history store, or nil when history is disabled.
func (c *commandContext) openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.History.Path)
}
