// Package detector mediates access to the external text detector command.
//
// It normalizes command invocation, enforces the configured timeout, and
// verifies the detector left the expected page artifacts in the cache
// directory before handing the parsed payload to the pipeline. The neural
// model itself stays outside the process; this package owns only the command
// boundary.
//
// Prefer this package over ad-hoc exec.Command usage when invoking the
// detector so timeout handling and artifact checks remain consistent.
package detector
