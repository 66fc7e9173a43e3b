// Package downloader orchestrates the full acquisition pipeline: metadata
// fetch, pair extraction, audio download, transcoding with tags, cover art
// embedding, and lyrics retrieval.
package downloader
