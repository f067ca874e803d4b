// Package runstore persists per-page pipeline state between process runs.
//
// The store keeps two kinds of rows in a SQLite database inside the cache
// directory: stage marks, which record the profile fingerprint each page
// stage output was last computed with, and mask fit records, which capture
// the outcome of mask selection for reporting. Stage marks let a later run
// skip stages whose tracked settings are unchanged; fit records feed the
// report command.
package runstore
