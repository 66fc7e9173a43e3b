// Package musicbrainz provides a minimal MusicBrainz web service client and
// the corroborator that scores candidate (artist, title) pairs against it.
package musicbrainz
