// Package fetch retrieves media metadata for a URL. A structured yt-dlp probe
// and a lightweight oEmbed lookup run concurrently; the richer probe is
// preferred whenever it produces a title. Results are cached per URL.
package fetch
