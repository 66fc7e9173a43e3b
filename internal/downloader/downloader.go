package downloader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"

	"tunetag/internal/extraction"
	"tunetag/internal/history"
	"tunetag/internal/logging"
	"tunetag/internal/transcode"
)

// ErrNotIdentified reports that extraction produced a terminal error result,
// so there is nothing sensible to tag the download with.
var ErrNotIdentified = errors.New("could not identify track")

// ErrStagingLocked reports that another tunetag process holds the staging
// directory.
var ErrStagingLocked = errors.New("staging directory is locked by another process")

// MetadataFetcher resolves a URL to extraction metadata.
type MetadataFetcher interface {
	Fetch(ctx context.Context, mediaURL string) (*extraction.Metadata, error)
}

// AudioDownloader fetches the audio stream for a URL into destDir and returns
// the downloaded file path.
type AudioDownloader interface {
	Download(ctx context.Context, mediaURL, destDir, format string) (string, error)
}

// Transcoder converts and tags audio files.
type Transcoder interface {
	Transcode(ctx context.Context, opts transcode.Options) error
}

// ArtworkClient locates and downloads cover art.
type ArtworkClient interface {
	FindArtworkURL(ctx context.Context, artist, title string) (string, error)
	Download(ctx context.Context, artworkURL, destPath string) error
}

// LyricsClient fetches plain-text lyrics.
type LyricsClient interface {
	Fetch(ctx context.Context, artist, title string) (string, error)
}

// HistoryStore records completed downloads.
type HistoryStore interface {
	Add(ctx context.Context, rec history.Record) (*history.Record, error)
}

// Options wires the pipeline collaborators. Artwork, Lyrics, and History are
// optional; everything else is required.
type Options struct {
	Fetcher    MetadataFetcher
	Extractor  *extraction.Extractor
	Audio      AudioDownloader
	Transcoder Transcoder
	Artwork    ArtworkClient
	Lyrics     LyricsClient
	History    HistoryStore

	StagingDir  string
	LibraryDir  string
	AudioFormat string
	EmbedCover  bool
	FetchLyrics bool

	Logger *slog.Logger
}

// Job is the outcome of one completed download.
type Job struct {
	ID            string
	URL           string
	Result        extraction.Result
	OutputPath    string
	LyricsPath    string
	CoverEmbedded bool
}

// Downloader runs the acquisition pipeline.
type Downloader struct {
	opts   Options
	logger *slog.Logger
}

// New validates opts and builds a Downloader. A nil Audio collaborator falls
// back to the yt-dlp implementation.
func New(opts Options) (*Downloader, error) {
	if opts.Fetcher == nil || opts.Extractor == nil || opts.Transcoder == nil {
		return nil, errors.New("downloader requires fetcher, extractor, and transcoder")
	}
	if strings.TrimSpace(opts.StagingDir) == "" || strings.TrimSpace(opts.LibraryDir) == "" {
		return nil, errors.New("staging and library directories required")
	}
	if opts.Audio == nil {
		opts.Audio = ytdlpAudio{}
	}
	if strings.TrimSpace(opts.AudioFormat) == "" {
		opts.AudioFormat = "mp3"
	}
	return &Downloader{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "downloader"),
	}, nil
}

// Download acquires mediaURL end to end and returns the finished job.
func (d *Downloader) Download(ctx context.Context, mediaURL string) (*Job, error) {
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL == "" {
		return nil, errors.New("url must not be empty")
	}

	if err := os.MkdirAll(d.opts.StagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	if err := os.MkdirAll(d.opts.LibraryDir, 0o755); err != nil {
		return nil, fmt.Errorf("create library directory: %w", err)
	}

	lock := flock.New(filepath.Join(d.opts.StagingDir, ".tunetag.lock"))
	locked, err := lock.TryLockContext(ctx, 250*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquire staging lock: %w", err)
	}
	if !locked {
		return nil, ErrStagingLocked
	}
	defer func() { _ = lock.Unlock() }()

	meta, err := d.opts.Fetcher.Fetch(ctx, mediaURL)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}

	result := d.opts.Extractor.Extract(ctx, meta.Title, meta)
	if result.Err != "" {
		return nil, fmt.Errorf("%w: %s", ErrNotIdentified, result.Err)
	}

	job := &Job{ID: uuid.NewString(), URL: mediaURL, Result: result}
	stagingDir := filepath.Join(d.opts.StagingDir, job.ID)
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create job staging: %w", err)
	}
	defer func() { _ = os.RemoveAll(stagingDir) }()

	d.logger.Info("downloading audio",
		logging.String(logging.FieldEventType, "download_start"),
		logging.String("job_id", job.ID),
		logging.String("artist", result.Artist),
		logging.String("title", result.Title),
		logging.Float64("confidence", result.Confidence))

	rawPath, err := d.opts.Audio.Download(ctx, mediaURL, stagingDir, d.opts.AudioFormat)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}

	coverPath := d.fetchCover(ctx, result, stagingDir)
	job.CoverEmbedded = coverPath != ""

	baseName := sanitizeFileName(result.Artist + " - " + result.Title)
	job.OutputPath = filepath.Join(d.opts.LibraryDir, baseName+"."+d.opts.AudioFormat)

	err = d.opts.Transcoder.Transcode(ctx, transcode.Options{
		InputPath:  rawPath,
		OutputPath: job.OutputPath,
		Format:     d.opts.AudioFormat,
		CoverPath:  coverPath,
		Tags: transcode.Tags{
			Artist:  result.Artist,
			Title:   result.Title,
			Comment: mediaURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("transcode audio: %w", err)
	}

	job.LyricsPath = d.fetchLyrics(ctx, result, baseName)
	d.record(ctx, job)

	d.logger.Info("download complete",
		logging.String(logging.FieldEventType, "download_complete"),
		logging.String("job_id", job.ID),
		logging.String("output", job.OutputPath))
	return job, nil
}

// fetchCover returns the staged cover path, or "" when cover art is disabled
// or unavailable. Artwork failures never fail the job.
func (d *Downloader) fetchCover(ctx context.Context, result extraction.Result, stagingDir string) string {
	if !d.opts.EmbedCover || d.opts.Artwork == nil {
		return ""
	}
	artworkURL, err := d.opts.Artwork.FindArtworkURL(ctx, result.Artist, result.Title)
	if err != nil {
		d.logger.Debug("cover art lookup failed", logging.Error(err))
		return ""
	}
	coverPath := filepath.Join(stagingDir, "cover.jpg")
	if err := d.opts.Artwork.Download(ctx, artworkURL, coverPath); err != nil {
		d.logger.Debug("cover art download failed", logging.Error(err))
		return ""
	}
	return coverPath
}

// fetchLyrics writes lyrics next to the output file and returns the path, or
// "" when lyrics are disabled or unavailable.
func (d *Downloader) fetchLyrics(ctx context.Context, result extraction.Result, baseName string) string {
	if !d.opts.FetchLyrics || d.opts.Lyrics == nil {
		return ""
	}
	text, err := d.opts.Lyrics.Fetch(ctx, result.Artist, result.Title)
	if err != nil {
		d.logger.Debug("lyrics lookup failed", logging.Error(err))
		return ""
	}
	path := filepath.Join(d.opts.LibraryDir, baseName+".txt")
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		d.logger.Warn("write lyrics file failed", logging.Error(err))
		return ""
	}
	return path
}

func (d *Downloader) record(ctx context.Context, job *Job) {
	if d.opts.History == nil {
		return
	}
	if _, err := d.opts.History.Add(ctx, history.Record{
		URL:        job.URL,
		Artist:     job.Result.Artist,
		Title:      job.Result.Title,
		Confidence: job.Result.Confidence,
		Method:     job.Result.Method,
		Action:     history.ActionDownload,
	}); err != nil {
		d.logger.Warn("record download history failed", logging.Error(err))
	}
}

// sanitizeFileName strips path separators and shell-hostile characters from a
// display name.
func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "-", "*", "", "?", "",
		"\"", "'", "<", "", ">", "", "|", "-", "\x00", "",
	)
	cleaned := strings.TrimSpace(replacer.Replace(name))
	if cleaned == "" {
		return "untitled"
	}
	return cleaned
}

// ytdlpAudio is the production AudioDownloader. yt-dlp and ffmpeg must be on
// PATH.
type ytdlpAudio struct{}

func (ytdlpAudio) Download(ctx context.Context, mediaURL, destDir, format string) (string, error) {
	_, err := ytdlp.New().
		NoWarnings().
		NoPlaylist().
		ExtractAudio().
		AudioFormat(format).
		Output(filepath.Join(destDir, "%(id)s.%(ext)s")).
		Run(ctx, mediaURL)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		return "", fmt.Errorf("read staging directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), "."+format) {
			return filepath.Join(destDir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("no %s file produced in %s", format, destDir)
}
