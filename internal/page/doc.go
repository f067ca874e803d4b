// Package page models a single page moving through the cleaning pipeline.
//
// A page carries the working image path, the detector mask path, the original
// source path, the scale between original and working copy, and four box
// collections tracking detected text regions through their refinement stages:
// raw detections, padded extended boxes, merged extended boxes, and wide
// reference boxes. The collections live in the page payload, a JSON document
// cached next to the working image so later runs can pick up where a previous
// one left off.
//
// Image dimensions are probed from the file header and cached on the record.
// Resolution is explicit: call ResolveImageSize before any operation that
// clamps against the page bounds, and ResetImageSize after replacing the
// working image. Operations that need the size fail with ErrMissingImageSize
// rather than probing behind the caller's back.
package page
