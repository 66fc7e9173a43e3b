// Package transcode wraps ffmpeg for audio format conversion and metadata
// tagging of downloaded tracks.
package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"tunetag/internal/logging"
)

// Tags are the metadata fields written into the output container.
type Tags struct {
	Artist  string
	Title   string
	Album   string
	Comment string
}

// Options describes one transcode run.
type Options struct {
	InputPath  string
	OutputPath string
	// Format selects the audio codec family: mp3, m4a, opus, flac, or wav.
	Format string
	Tags   Tags
	// CoverPath, when set, embeds the image as front cover (mp3/m4a only).
	CoverPath string
}

// Runner executes ffmpeg invocations. Swappable for tests.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// Transcoder converts audio files via ffmpeg.
type Transcoder struct {
	runner Runner
	logger *slog.Logger
}

// New creates a Transcoder that shells out to the ffmpeg binary on PATH.
func New(logger *slog.Logger) *Transcoder {
	return &Transcoder{
		runner: execRunner{binary: "ffmpeg"},
		logger: logging.NewComponentLogger(logger, "transcode"),
	}
}

// NewWithRunner creates a Transcoder with a custom Runner.
func NewWithRunner(runner Runner, logger *slog.Logger) *Transcoder {
	return &Transcoder{
		runner: runner,
		logger: logging.NewComponentLogger(logger, "transcode"),
	}
}

var formatCodecs = map[string][]string{
	"mp3":  {"-codec:a", "libmp3lame", "-qscale:a", "2"},
	"m4a":  {"-codec:a", "aac", "-b:a", "192k"},
	"opus": {"-codec:a", "libopus", "-b:a", "128k"},
	"flac": {"-codec:a", "flac"},
	"wav":  {"-codec:a", "pcm_s16le"},
}

// Transcode converts opts.InputPath into opts.OutputPath, writing tags and
// optionally embedding cover art.
func (t *Transcoder) Transcode(ctx context.Context, opts Options) error {
	if strings.TrimSpace(opts.InputPath) == "" || strings.TrimSpace(opts.OutputPath) == "" {
		return errors.New("input and output paths required")
	}
	codecArgs, ok := formatCodecs[strings.ToLower(strings.TrimSpace(opts.Format))]
	if !ok {
		return fmt.Errorf("unsupported audio format %q", opts.Format)
	}

	args := []string{"-y", "-i", opts.InputPath}

	embedCover := opts.CoverPath != "" && supportsCover(opts.Format)
	if embedCover {
		args = append(args, "-i", opts.CoverPath,
			"-map", "0:a", "-map", "1:v",
			"-disposition:v", "attached_pic")
	} else {
		args = append(args, "-vn")
	}

	args = append(args, codecArgs...)
	args = append(args, tagArgs(opts.Tags)...)
	args = append(args, opts.OutputPath)

	t.logger.Debug("transcoding audio",
		logging.String(logging.FieldEventType, "transcode_start"),
		logging.String("output", opts.OutputPath),
		logging.String("format", strings.ToLower(opts.Format)),
		logging.Bool("cover", embedCover))

	if err := t.runner.Run(ctx, args); err != nil {
		return fmt.Errorf("transcode to %s: %w", opts.Format, err)
	}
	return nil
}

func supportsCover(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "mp3", "m4a":
		return true
	}
	return false
}

func tagArgs(tags Tags) []string {
	var args []string
	add := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			args = append(args, "-metadata", key+"="+value)
		}
	}
	add("artist", tags.Artist)
	add("title", tags.Title)
	add("album", tags.Album)
	add("comment", tags.Comment)
	return args
}

type execRunner struct {
	binary string
}

func (r execRunner) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
