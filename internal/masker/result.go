package masker

import (
	"image"
	"image/color"

	"cleanplate/internal/geometry"
)

// Region pairs a mask region with the surrounding reference area used to
// judge candidate fits. Mask is a merged extended box; Reference is that box
// grown by the reference padding.
type Region struct {
	Index     int
	Mask      geometry.Box
	Reference geometry.Box
}

// FitResult is the outcome of fitting one region. Constructed whole by the
// fitter and immutable afterwards.
type FitResult struct {
	Page string
	// BestMask is nil when no candidate stayed under the deviation limit.
	// That is a data outcome, not an error; downstream stages branch on it.
	BestMask    image.Image
	Placement   image.Point
	MedianColor color.NRGBA
	FitError    float64
	ChosenIndex int
	// SourceRegion is the crop the fitter analyzed, in page coordinates.
	SourceRegion geometry.Box
	// DebugCandidates holds every candidate mask considered, in growth
	// order. Populated only when candidate retention was requested.
	DebugCandidates []image.Image
}

// Failed reports whether the region ended without a usable mask.
func (r FitResult) Failed() bool {
	return r.BestMask == nil
}

// Analytics is the per-region fit outcome persisted for reporting.
type Analytics struct {
	Page        string
	Success     bool
	ChosenIndex int
	FitError    float64
}

// Analytics returns the reporting view of the result.
func (r FitResult) Analytics() Analytics {
	return Analytics{
		Page:        r.Page,
		Success:     !r.Failed(),
		ChosenIndex: r.ChosenIndex,
		FitError:    r.FitError,
	}
}

// MaskData returns what compositing needs: the mask, its fill color, and
// where it lands on the page. The mask is nil for failed fits.
func (r FitResult) MaskData() (image.Image, color.NRGBA, image.Point) {
	return r.BestMask, r.MedianColor, r.Placement
}

// NoiseData returns what the denoiser needs: the analyzed crop and how noisy
// the accepted fit was.
func (r FitResult) NoiseData() (geometry.Box, float64) {
	return r.SourceRegion, r.FitError
}
