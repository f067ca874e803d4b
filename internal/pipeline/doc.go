// Package pipeline drives a cleaning run from source pages to cleaned
// exports.
//
// Each page moves through five phases in order: input (working copy),
// detect (external text detector), preprocess (box refinement), mask
// (candidate fitting and compositing), and denoise (noisy-region smoothing
// plus the final export). Every phase leaves its artifacts in the cache
// directory and records a fingerprint per covered stage, so a later run
// with an unchanged profile skips straight past fresh phases. Pages run in
// parallel under a worker limit sized to the host; one page failing never
// stops its siblings.
package pipeline
