// Package steps tracks which pipeline outputs are stale relative to the
// active profile.
//
// Every page has twelve cached outputs, produced in a fixed order from the
// working copy through to the denoised image. Each output carries a tracker
// holding the profile fields it is sensitive to and the checksum of those
// fields when the output was last computed. Comparing a fresh fingerprint
// against the stored checksum decides whether cached work can be reused.
//
// Sensitivity is cumulative: a later output depends on everything an earlier
// output depends on, because regenerating an early artifact invalidates all
// of its descendants. NewTable encodes that by folding each stage's newly
// relevant fields into the set inherited from its predecessors.
//
// Fingerprints are cheap FNV-1a hashes over canonically ordered key/value
// pairs, not cryptographic digests. They are stable across processes and
// platforms for equal snapshots, so persisted checksums from a previous run
// remain comparable.
package steps
