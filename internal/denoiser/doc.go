// Package denoiser softens the regions where a mask fit stayed noisy.
//
// The masker hands over the page's reference regions with the fit deviation
// each one scored. Regions at or above the configured deviation floor get a
// second pass: the page crop is run through a median and gaussian filter and
// the final mask is re-applied on top, so the text stays covered while the
// grain around it smooths out. The denoised patches form their own layer,
// kept separate from the page until applied, mirroring how the mask layer is
// handled.
package denoiser
