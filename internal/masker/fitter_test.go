package masker_test

import (
	"image"
	"image/color"
	"testing"

	"cleanplate/internal/geometry"
	"cleanplate/internal/masker"
	"cleanplate/internal/page"
)

func defaultSettings() masker.Settings {
	return masker.Settings{
		GrowthStepPixels:     2,
		GrowthSteps:          11,
		MinThickness:         2,
		OffWhiteMaxThreshold: 240,
		ImprovementThreshold: 0.1,
		MaxStandardDeviation: 15.0,
	}
}

func uniformImage(width, height int, fill color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	return img
}

func fillRect(img *image.NRGBA, rect image.Rectangle, fill color.NRGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
}

func maskWithRect(width, height int, rect image.Rectangle) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			mask.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return mask
}

// chebyshevToRect is the board distance from a point to a rectangle's pixels.
func chebyshevToRect(x, y int, rect image.Rectangle) int {
	dx := 0
	if x < rect.Min.X {
		dx = rect.Min.X - x
	} else if x >= rect.Max.X {
		dx = x - (rect.Max.X - 1)
	}
	dy := 0
	if y < rect.Min.Y {
		dy = rect.Min.Y - y
	} else if y >= rect.Max.Y {
		dy = y - (rect.Max.Y - 1)
	}
	return max(dx, dy)
}

func TestFitAcceptsTightMaskOnUniformBackground(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.NRGBA{A: 255}
	base := uniformImage(80, 80, white)
	text := image.Rect(36, 36, 44, 44)
	fillRect(base, text, black)
	cut := maskWithRect(80, 80, text)

	region := masker.Region{
		Index:     0,
		Mask:      geometry.New(30, 30, 50, 50),
		Reference: geometry.New(5, 5, 75, 75),
	}

	fitter := masker.NewFitter(defaultSettings(), nil)
	result := fitter.Fit(base, cut, region, "page.png", false)

	if result.Failed() {
		t.Fatalf("expected successful fit, got failure with error %.2f", result.FitError)
	}
	if result.ChosenIndex != 0 {
		t.Fatalf("ChosenIndex = %d, want 0 (smallest candidate already fits)", result.ChosenIndex)
	}
	if result.FitError != 0 {
		t.Fatalf("FitError = %v, want 0 on a uniform background", result.FitError)
	}
	if result.MedianColor != white {
		t.Fatalf("MedianColor = %v, want pure white", result.MedianColor)
	}
	if got := result.Placement; got.X != 5 || got.Y != 5 {
		t.Fatalf("Placement = %v, want reference origin (5,5)", got)
	}
}

func TestFitGrowsPastNoisyHalo(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	nearWhite := color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	black := color.NRGBA{A: 255}

	base := uniformImage(80, 80, white)
	text := image.Rect(36, 36, 44, 44)
	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			d := chebyshevToRect(x, y, text)
			if d == 0 {
				base.SetNRGBA(x, y, black)
			} else if d <= 6 && (x+y)%2 == 0 {
				base.SetNRGBA(x, y, nearWhite)
			}
		}
	}
	cut := maskWithRect(80, 80, text)
	region := masker.Region{
		Index:     0,
		Mask:      geometry.New(30, 30, 50, 50),
		Reference: geometry.New(5, 5, 75, 75),
	}

	fitter := masker.NewFitter(defaultSettings(), nil)
	result := fitter.Fit(base, cut, region, "page.png", false)

	if result.Failed() {
		t.Fatalf("expected successful fit, got failure with error %.2f", result.FitError)
	}
	if result.ChosenIndex == 0 {
		t.Fatal("expected a grown candidate to beat the halo-bound first candidate")
	}
	if result.FitError >= 1 {
		t.Fatalf("FitError = %.2f, want near zero once the outline clears the halo", result.FitError)
	}
}

func TestFitFastModeTakesFirstAcceptableCandidate(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	nearWhite := color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	black := color.NRGBA{A: 255}

	base := uniformImage(80, 80, white)
	text := image.Rect(36, 36, 44, 44)
	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			d := chebyshevToRect(x, y, text)
			if d == 0 {
				base.SetNRGBA(x, y, black)
			} else if d <= 6 && (x+y)%2 == 0 {
				base.SetNRGBA(x, y, nearWhite)
			}
		}
	}
	cut := maskWithRect(80, 80, text)
	region := masker.Region{
		Index:     0,
		Mask:      geometry.New(30, 30, 50, 50),
		Reference: geometry.New(5, 5, 75, 75),
	}

	settings := defaultSettings()
	settings.SelectionFast = true
	fitter := masker.NewFitter(settings, nil)
	result := fitter.Fit(base, cut, region, "page.png", false)

	if result.Failed() {
		t.Fatalf("expected successful fit, got failure with error %.2f", result.FitError)
	}
	if result.ChosenIndex != 0 {
		t.Fatalf("ChosenIndex = %d, want 0 (halo deviation is under the limit)", result.ChosenIndex)
	}
	if result.FitError <= 1 {
		t.Fatalf("FitError = %.2f, want the halo deviation rather than a clean outline", result.FitError)
	}
}

func TestFitFailsOnNoisyBackground(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.NRGBA{A: 255}

	base := uniformImage(80, 80, white)
	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			if (x+y)%2 == 0 {
				base.SetNRGBA(x, y, black)
			}
		}
	}
	text := image.Rect(36, 36, 44, 44)
	fillRect(base, text, black)
	cut := maskWithRect(80, 80, text)
	region := masker.Region{
		Index:     0,
		Mask:      geometry.New(30, 30, 50, 50),
		Reference: geometry.New(5, 5, 75, 75),
	}

	fitter := masker.NewFitter(defaultSettings(), nil)
	result := fitter.Fit(base, cut, region, "page.png", false)

	if !result.Failed() {
		t.Fatalf("expected failure on checkerboard background, got fit with error %.2f", result.FitError)
	}
	if result.BestMask != nil {
		t.Fatal("failed fits must carry a nil mask")
	}
	if result.ChosenIndex < 0 {
		t.Fatal("measurable failures keep the best candidate index for reporting")
	}
	if result.FitError <= defaultSettings().MaxStandardDeviation {
		t.Fatalf("FitError = %.2f, want above the limit", result.FitError)
	}

	analytics := result.Analytics()
	if analytics.Success {
		t.Fatal("analytics success flag must be false for failed fits")
	}
	if analytics.Page != "page.png" {
		t.Fatalf("analytics page = %q, want page.png", analytics.Page)
	}
}

func TestFitEmptyRegionFailsWithoutIndex(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	base := uniformImage(40, 40, white)
	cut := image.NewGray(image.Rect(0, 0, 40, 40))
	region := masker.Region{
		Index:     0,
		Mask:      geometry.New(10, 10, 30, 30),
		Reference: geometry.New(5, 5, 35, 35),
	}

	fitter := masker.NewFitter(defaultSettings(), nil)
	result := fitter.Fit(base, cut, region, "page.png", false)

	if !result.Failed() {
		t.Fatal("expected failure for a region without detector pixels")
	}
	if result.ChosenIndex != -1 {
		t.Fatalf("ChosenIndex = %d, want -1 when nothing was measurable", result.ChosenIndex)
	}
	if result.FitError != 0 {
		t.Fatalf("FitError = %v, want 0 when nothing was measurable", result.FitError)
	}
}

func TestFitSnapsOffWhiteMedian(t *testing.T) {
	offWhite := color.NRGBA{R: 245, G: 245, B: 245, A: 255}
	black := color.NRGBA{A: 255}
	base := uniformImage(60, 60, offWhite)
	text := image.Rect(26, 26, 34, 34)
	fillRect(base, text, black)
	cut := maskWithRect(60, 60, text)
	region := masker.Region{
		Index:     0,
		Mask:      geometry.New(20, 20, 40, 40),
		Reference: geometry.New(5, 5, 55, 55),
	}

	fitter := masker.NewFitter(defaultSettings(), nil)
	result := fitter.Fit(base, cut, region, "page.png", false)

	if result.Failed() {
		t.Fatalf("expected successful fit, got failure with error %.2f", result.FitError)
	}
	want := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if result.MedianColor != want {
		t.Fatalf("MedianColor = %v, want snap to pure white", result.MedianColor)
	}
}

func TestFitKeepsDarkMedianBelowThreshold(t *testing.T) {
	blue := color.NRGBA{R: 100, G: 150, B: 200, A: 255}
	black := color.NRGBA{A: 255}
	base := uniformImage(60, 60, blue)
	text := image.Rect(26, 26, 34, 34)
	fillRect(base, text, black)
	cut := maskWithRect(60, 60, text)
	region := masker.Region{
		Index:     0,
		Mask:      geometry.New(20, 20, 40, 40),
		Reference: geometry.New(5, 5, 55, 55),
	}

	fitter := masker.NewFitter(defaultSettings(), nil)
	result := fitter.Fit(base, cut, region, "page.png", false)

	if result.Failed() {
		t.Fatalf("expected successful fit, got failure with error %.2f", result.FitError)
	}
	if result.MedianColor != blue {
		t.Fatalf("MedianColor = %v, want the background color %v", result.MedianColor, blue)
	}
}

func TestFitRetainsDebugCandidates(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.NRGBA{A: 255}
	base := uniformImage(60, 60, white)
	text := image.Rect(26, 26, 34, 34)
	fillRect(base, text, black)
	cut := maskWithRect(60, 60, text)
	region := masker.Region{
		Index:     0,
		Mask:      geometry.New(20, 20, 40, 40),
		Reference: geometry.New(5, 5, 55, 55),
	}

	settings := defaultSettings()
	fitter := masker.NewFitter(settings, nil)
	result := fitter.Fit(base, cut, region, "page.png", true)

	if got, want := len(result.DebugCandidates), settings.GrowthSteps+1; got != want {
		t.Fatalf("len(DebugCandidates) = %d, want %d", got, want)
	}

	without := fitter.Fit(base, cut, region, "page.png", false)
	if len(without.DebugCandidates) != 0 {
		t.Fatalf("expected no retained candidates, got %d", len(without.DebugCandidates))
	}
}

func TestRegionsFromPagePairsByIndex(t *testing.T) {
	d := &page.Data{
		MergedExtended: []geometry.Box{geometry.New(10, 10, 20, 20), geometry.New(40, 40, 60, 50)},
		Reference:      []geometry.Box{geometry.New(5, 5, 25, 25), geometry.New(35, 35, 65, 55)},
	}

	regions := masker.RegionsFromPage(d)
	if len(regions) != 2 {
		t.Fatalf("len(regions) = %d, want 2", len(regions))
	}
	if regions[1].Index != 1 {
		t.Fatalf("regions[1].Index = %d, want 1", regions[1].Index)
	}
	if regions[1].Mask != d.MergedExtended[1] {
		t.Fatalf("regions[1].Mask = %v, want %v", regions[1].Mask, d.MergedExtended[1])
	}
	if regions[1].Reference != d.Reference[1] {
		t.Fatalf("regions[1].Reference = %v, want %v", regions[1].Reference, d.Reference[1])
	}
}

func TestResultViews(t *testing.T) {
	mask := image.NewRGBA(image.Rect(0, 0, 4, 4))
	result := masker.FitResult{
		Page:         "page.png",
		BestMask:     mask,
		Placement:    image.Pt(7, 9),
		MedianColor:  color.NRGBA{R: 1, G: 2, B: 3, A: 255},
		FitError:     4.5,
		ChosenIndex:  3,
		SourceRegion: geometry.New(1, 2, 30, 40),
	}

	if result.Failed() {
		t.Fatal("result with a mask must not report failure")
	}

	analytics := result.Analytics()
	if !analytics.Success || analytics.ChosenIndex != 3 || analytics.FitError != 4.5 {
		t.Fatalf("unexpected analytics: %+v", analytics)
	}

	gotMask, gotColor, gotAt := result.MaskData()
	if gotMask != image.Image(mask) || gotColor != result.MedianColor || gotAt != result.Placement {
		t.Fatal("MaskData must return the mask, fill color, and placement")
	}

	gotRegion, gotErr := result.NoiseData()
	if gotRegion != result.SourceRegion || gotErr != 4.5 {
		t.Fatalf("NoiseData = (%v, %v), want (%v, 4.5)", gotRegion, gotErr, result.SourceRegion)
	}
}
