// Package extraction infers a structured (artist, title) pair and a
// calibrated confidence from a noisy free-text media title, optionally aided
// by uploader metadata.
//
// No single text pattern separates artist from song title across real-world
// conventions, so the pipeline runs a battery of independent weak heuristics
// concurrently, filters their candidates through a shared validity predicate,
// and reconciles disagreements with a weighted consensus score built from
// heuristic agreement, metadata context, optional semantic similarity, and
// optional external corroboration. A separate estimator derives the final
// confidence from candidate volume and metadata quality signals.
package extraction
