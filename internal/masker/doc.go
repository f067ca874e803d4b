// Package masker selects and composites the masks that cover detected text.
//
// For each mask region the fitter grows candidate masks from the detector's
// text mask and judges each candidate by the color deviation of the page
// pixels along its outer outline: a mask that fully covers the text ends in
// uniform background, so the deviation is low. The best candidate, its
// placement, and the median outline color feed compositing; regions where no
// candidate fits produce a failure result that downstream stages treat as
// data, not as an error.
package masker
