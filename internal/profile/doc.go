// Package profile loads, validates, and snapshots the cleaning profile.
//
// A profile is a TOML file with one table per pipeline concern: paths,
// logging, general, detector, preprocessor, masker, and denoiser. Load reads
// the file (or falls back to defaults when none exists), expands paths,
// applies fallbacks, and validates every group before anything else runs.
//
// Snapshot flattens the five output-shaping groups into an ordered map of
// stable "group.field" keys with canonical string values. Stage fingerprints
// hash slices of that map, so key names and value formatting are part of the
// cache contract: renaming a field or changing its formatting invalidates
// previously stored checksums. Paths and logging never appear in snapshots;
// moving a cache directory must not force a re-clean.
package profile
