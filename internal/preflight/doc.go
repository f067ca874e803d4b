// Package preflight provides readiness checks for the external tools and
// filesystem paths a cleaning run depends on.
//
// These checks run in two contexts:
//   - The CLI "cleanplate doctor" command renders every check so a user can
//     see at a glance why a run would fail.
//   - The clean command gates on the required tool checks up front; failing
//     fast beats invoking the detector once per page just to watch it error.
//
// Feature-gated checks follow the profile -- the OCR probe is skipped when
// the blacklist filter is off.
package preflight
