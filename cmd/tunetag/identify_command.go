package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tunetag/internal/extraction"
	"tunetag/internal/fetch"
	"tunetag/internal/history"
	"tunetag/internal/logging"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var rawTitle string

	cmd := &cobra.Command{
		Use:   "identify <url>",
		Short: "Identify the artist and title behind a media URL",
		Long: `Identify fetches metadata for a media URL, runs the extraction pipeline,
and prints the most probable (artist, title) pair with its confidence.

Examples:
  tunetag identify https://youtube.com/watch?v=abc123
  tunetag identify --title "Artist Name - Song Title (Official Video)" -
  tunetag identify --json https://youtube.com/watch?v=abc123`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger := ctx.ensureLogger()

			extractor, err := ctx.buildExtractor(cfg, logger)
			if err != nil {
				return fmt.Errorf("build extractor: %w", err)
			}

			mediaURL := strings.TrimSpace(args[0])
			meta := &extraction.Metadata{Title: strings.TrimSpace(rawTitle)}
			if meta.Title == "" {
				fetched, fetchErr := resolveMetadata(cmd.Context(), ctx.buildFetcher(cfg, logger), logger, mediaURL)
				if fetchErr != nil {
					return fmt.Errorf("fetch metadata: %w", fetchErr)
				}
				meta = fetched
			}

			result := extractor.Extract(cmd.Context(), meta.Title, meta)

			if store, histErr := ctx.openHistory(cfg); histErr != nil {
				logger.Warn("open history store failed", logging.Error(histErr))
			} else if store != nil {
				defer store.Close()
				if _, addErr := store.Add(cmd.Context(), history.Record{
					URL:        mediaURL,
					Artist:     result.Artist,
					Title:      result.Title,
					Confidence: result.Confidence,
					Method:     result.Method,
					Action:     history.ActionIdentify,
				}); addErr != nil {
					logger.Warn("record identify history failed", logging.Error(addErr))
				}
			}

			out := cmd.OutOrStdout()
			if ctx.jsonOutput() {
				return printJSON(out, result)
			}

			rows := [][]string{{
				result.Artist,
				result.Title,
				strconv.FormatFloat(result.Confidence, 'f', 2, 64),
				result.Method,
			}}
			fmt.Fprintln(out, renderTable(
				[]string{"Artist", "Title", "Confidence", "Method"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			if result.Err != "" {
				fmt.Fprintf(out, "Note: %s\n", result.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rawTitle, "title", "t", "", "Skip the metadata fetch and extract from this title")

	return cmd
}

// resolveMetadata fetches metadata for mediaURL. When neither fetch path
// produced a title, identification still proceeds on a display title derived
// from the URL path.
func resolveMetadata(ctx context.Context, fetcher *fetch.Fetcher, logger *slog.Logger, mediaURL string) (*extraction.Metadata, error) {
	meta, err := fetcher.Fetch(ctx, mediaURL)
	if err == nil {
		return meta, nil
	}
	if errors.Is(err, fetch.ErrMetadataUnavailable) {
		derived := fetch.TitleFromURL(mediaURL)
		logger.Warn("metadata unavailable, deriving title from url",
			logging.String("url", mediaURL),
			logging.String("title", derived))
		return &extraction.Metadata{Title: derived}, nil
	}
	return nil, err
}
