// Package history persists identification and download results in a local
// SQLite database so past runs can be listed and audited.
package history
