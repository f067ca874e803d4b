package masker

import (
	"image"
	"log/slog"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"cleanplate/internal/logging"
	"cleanplate/internal/page"
)

// Fitter grows candidate masks and selects the best fit per region.
type Fitter struct {
	settings Settings
	logger   *slog.Logger
}

// Settings are the fitting knobs, mirroring the masker profile group.
type Settings struct {
	GrowthStepPixels     int
	GrowthSteps          int
	MinThickness         int
	OffWhiteMaxThreshold int
	ImprovementThreshold float64
	SelectionFast        bool
	MaxStandardDeviation float64
}

// NewFitter builds a fitter. A nil logger falls back to a no-op logger.
func NewFitter(settings Settings, logger *slog.Logger) *Fitter {
	return &Fitter{
		settings: settings,
		logger:   logging.NewComponentLogger(logger, "masker"),
	}
}

// RegionsFromPage pairs each merged extended box with its reference box by
// position.
func RegionsFromPage(d *page.Data) []Region {
	count := min(len(d.MergedExtended), len(d.Reference))
	regions := make([]Region, 0, count)
	for i := 0; i < count; i++ {
		regions = append(regions, Region{
			Index:     i,
			Mask:      d.MergedExtended[i],
			Reference: d.Reference[i],
		})
	}
	return regions
}

// FitAll fits every region of a page in order.
func (f *Fitter) FitAll(base, cutMask image.Image, regions []Region, pagePath string, keepCandidates bool) []FitResult {
	results := make([]FitResult, 0, len(regions))
	for _, region := range regions {
		results = append(results, f.Fit(base, cutMask, region, pagePath, keepCandidates))
	}
	return results
}

// Fit selects the best mask for one region.
//
// Candidates grow from the cut mask inside the reference crop: candidate k
// is the mask dilated by MinThickness + k*GrowthStepPixels. Each candidate
// is scored by the color deviation of the page pixels along its outer
// outline. Selection prefers the smallest candidate; a larger one wins only
// when it improves the deviation by at least ImprovementThreshold. When the
// best deviation still exceeds MaxStandardDeviation the region fails and the
// result carries a nil mask.
func (f *Fitter) Fit(base, cutMask image.Image, region Region, pagePath string, keepCandidates bool) FitResult {
	result := FitResult{
		Page:         pagePath,
		ChosenIndex:  -1,
		SourceRegion: region.Reference,
	}

	crop := region.Reference.Rect()
	baseCrop := imaging.Crop(base, crop)
	maskCrop := imaging.Crop(cutMask, crop)

	if !hasMaskPixels(maskCrop) {
		f.logger.Warn("mask region holds no detector pixels",
			logging.String(logging.FieldPage, pagePath),
			logging.Int("region", region.Index),
			logging.String(logging.FieldEventType, "mask_region_empty"),
		)
		return result
	}

	var (
		bestMask  image.Image
		bestColor medianColor
		bestDev   = math.Inf(1)
		bestIndex = -1
	)

	current := effect.Dilate(maskCrop, float64(f.settings.MinThickness))
	for step := 0; step <= f.settings.GrowthSteps; step++ {
		if step > 0 {
			current = effect.Dilate(current, float64(f.settings.GrowthStepPixels))
		}
		candidate := current
		if keepCandidates {
			result.DebugCandidates = append(result.DebugCandidates, candidate)
		}

		deviation, median, samples := outlineFitness(baseCrop, candidate)
		if samples == 0 {
			// The mask swallowed the whole crop; nothing left to judge.
			continue
		}

		f.logger.Debug("mask candidate evaluated",
			logging.String(logging.FieldPage, pagePath),
			logging.Int("region", region.Index),
			logging.Int("candidate", step),
			logging.Float64("deviation", deviation),
			logging.Int("outline_samples", samples),
		)

		if bestIndex < 0 || deviation < bestDev-f.settings.ImprovementThreshold {
			bestMask, bestColor, bestDev, bestIndex = candidate, median, deviation, step
		}

		if f.settings.SelectionFast && deviation <= f.settings.MaxStandardDeviation {
			bestMask, bestColor, bestDev, bestIndex = candidate, median, deviation, step
			break
		}
	}

	if bestIndex < 0 {
		f.logger.Warn("no candidate produced an outline",
			logging.String(logging.FieldPage, pagePath),
			logging.Int("region", region.Index),
			logging.String(logging.FieldEventType, "mask_fit_failed"),
		)
		return result
	}

	result.ChosenIndex = bestIndex
	result.FitError = bestDev

	if bestDev > f.settings.MaxStandardDeviation {
		f.logger.Warn("mask fit failed",
			logging.String(logging.FieldPage, pagePath),
			logging.Int("region", region.Index),
			logging.Float64("best_deviation", bestDev),
			logging.Float64("limit", f.settings.MaxStandardDeviation),
			logging.String(logging.FieldEventType, "mask_fit_failed"),
		)
		return result
	}

	result.BestMask = bestMask
	result.MedianColor = bestColor.snap(f.settings.OffWhiteMaxThreshold)
	result.Placement = image.Pt(region.Reference.X1, region.Reference.Y1)

	f.logger.Debug("mask selected",
		logging.String(logging.FieldPage, pagePath),
		logging.Int("region", region.Index),
		logging.Int("chosen_index", bestIndex),
		logging.Float64("fit_error", bestDev),
		logging.String("median_color", bestColor.hex()),
	)
	return result
}
