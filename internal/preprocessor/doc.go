// Package preprocessor refines raw detections into the box collections the
// mask fitter consumes.
//
// One pass over a freshly detected payload: size filtering drops noise
// detections, initial padding widens the surviving boxes, an optional OCR
// check weeds out bubbles holding nothing but blacklisted punctuation, then
// the extended, merged-extended, and reference collections are derived in
// order. All growth clamps to the page bounds, so the working image must be
// readable when Process runs.
package preprocessor
