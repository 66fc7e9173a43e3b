package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tunetag/internal/coverart"
	"tunetag/internal/downloader"
	"tunetag/internal/lyrics"
	"tunetag/internal/transcode"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var audioFormat string

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download a track, tag it, and place it in the library",
		Long: `Download runs the full pipeline: metadata fetch, artist/title extraction,
audio download, transcoding with embedded tags, cover art, and lyrics.

Examples:
  tunetag download https://youtube.com/watch?v=abc123
  tunetag download --format flac https://youtube.com/watch?v=abc123`,
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

			format := cfg.Download.AudioFormat
			if audioFormat != "" {
				format = audioFormat
			}

			store, err := ctx.openHistory(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			opts := downloader.Options{
				Fetcher:     ctx.buildFetcher(cfg, logger),
				Extractor:   extractor,
				Transcoder:  transcode.New(logger),
				Artwork:     coverart.New(),
				Lyrics:      lyrics.New(),
				StagingDir:  cfg.Paths.StagingDir,
				LibraryDir:  cfg.Paths.LibraryDir,
				AudioFormat: format,
				EmbedCover:  cfg.Download.EmbedCoverArt,
				FetchLyrics: cfg.Download.FetchLyrics,
				Logger:      logger,
			}
			if store != nil {
				defer store.Close()
				opts.History = store
			}

			dl, err := downloader.New(opts)
			if err != nil {
				return fmt.Errorf("build downloader: %w", err)
			}

			job, err := dl.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ctx.jsonOutput() {
				return printJSON(out, job)
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Artist", "Title", "Confidence", "Output"},
				[][]string{{
					job.Result.Artist,
					job.Result.Title,
					strconv.FormatFloat(job.Result.Confidence, 'f', 2, 64),
					job.OutputPath,
				}},
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			if job.LyricsPath != "" {
				fmt.Fprintf(out, "Lyrics: %s\n", job.LyricsPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&audioFormat, "format", "f", "", "Audio format override (mp3, m4a, opus, flac, wav)")

	return cmd
}
