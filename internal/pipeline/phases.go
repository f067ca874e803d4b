package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"cleanplate/internal/denoiser"
	"cleanplate/internal/logging"
	"cleanplate/internal/masker"
	"cleanplate/internal/page"
	"cleanplate/internal/runstore"
	"cleanplate/internal/steps"
)

// phase groups consecutive stage outputs produced by one unit of work.
// Staleness is decided for the whole group: partial phase output is never
// trusted.
type phase struct {
	name      string
	outputs   []steps.Output
	artifacts func(*pageJob) []string
	run       func(context.Context, *pageJob) error
}

var phases = []phase{
	{
		name:    "input",
		outputs: []steps.Output{steps.OutputInput},
		artifacts: func(j *pageJob) []string {
			return []string{j.art.WorkingCopy()}
		},
		run: runInput,
	},
	{
		name:    "detect",
		outputs: []steps.Output{steps.OutputAIMask},
		artifacts: func(j *pageJob) []string {
			return []string{j.art.RawPayload(), j.art.AIMask()}
		},
		run: runDetect,
	},
	{
		name: "preprocess",
		outputs: []steps.Output{
			steps.OutputInitialBoxes,
			steps.OutputFinalBoxes,
			steps.OutputBoxMask,
			steps.OutputCutMask,
		},
		artifacts: func(j *pageJob) []string {
			return []string{
				j.art.InitialBoxes(),
				j.art.FinalBoxes(),
				j.art.RefinedPayload(),
				j.art.BoxMask(),
				j.art.CutMask(),
			}
		},
		run: runPreprocess,
	},
	{
		name: "mask",
		outputs: []steps.Output{
			steps.OutputMaskLayers,
			steps.OutputFinalMask,
			steps.OutputMaskOverlay,
			steps.OutputMaskedImage,
		},
		artifacts: func(j *pageJob) []string {
			return []string{
				j.art.MaskLayers(),
				j.art.FinalMask(),
				j.art.MaskOverlay(),
				j.art.MaskedImage(),
				j.art.MaskData(),
			}
		},
		run: runMask,
	},
	{
		name: "denoise",
		outputs: []steps.Output{
			steps.OutputDenoiserMask,
			steps.OutputDenoisedImage,
		},
		artifacts: func(j *pageJob) []string {
			prof := j.runner.prof
			required := []string{
				j.art.ExportClean(j.source, prof.General.PreferredFileType),
				j.art.ExportMask(prof.General.PreferredMaskFileType),
			}
			if prof.Denoiser.DenoisingEnabled {
				required = append(required, j.art.DenoiserMask(), j.art.DenoisedImage())
			}
			return required
		},
		run: runDenoise,
	},
}

func runInput(ctx context.Context, j *pageJob) error {
	general := j.runner.prof.General
	scale, err := prepareWorkingCopy(j.source, j.art.WorkingCopy(),
		general.InputHeightLowerTarget, general.InputHeightUpperTarget)
	if err != nil {
		return err
	}
	logging.WithContext(ctx, j.runner.logger).Debug("working copy prepared",
		logging.Float64("scale", scale),
	)
	return nil
}

func runDetect(ctx context.Context, j *pageJob) error {
	d, err := j.runner.detect.Detect(ctx, j.art.WorkingCopy(), j.art.CacheDir)
	if err != nil {
		return err
	}
	scale, err := workingScale(j.source, j.art.WorkingCopy())
	if err != nil {
		return err
	}

	// The external tool only sees the working copy; page identity is ours
	// to fill in before the payload goes back to disk.
	d.ImagePath = j.art.WorkingCopy()
	d.MaskPath = j.art.AIMask()
	d.OriginalPath = j.source
	d.Scale = scale
	return d.Write(j.art.RawPayload())
}

func runPreprocess(ctx context.Context, j *pageJob) error {
	d, err := page.Load(j.art.RawPayload())
	if err != nil {
		return err
	}

	if err := j.runner.pre.FilterAndPad(d); err != nil {
		return err
	}
	if err := d.WriteKindVisualization(j.art.InitialBoxes(), page.KindRaw); err != nil {
		return err
	}
	if err := j.runner.pre.DeriveCollections(ctx, d); err != nil {
		return err
	}
	if err := d.WriteVisualization(j.art.FinalBoxes()); err != nil {
		return err
	}
	if err := d.Write(j.art.RefinedPayload()); err != nil {
		return err
	}

	width, height, err := d.Size()
	if err != nil {
		return err
	}
	if err := imaging.Save(d.BoxMask(page.KindMergedExtended, width, height), j.art.BoxMask()); err != nil {
		return fmt.Errorf("save box mask: %w", err)
	}

	aiMask, err := imaging.Open(d.MaskPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", page.ErrImageUnreadable, d.MaskPath, err)
	}
	if err := imaging.Save(masker.CutMask(aiMask, d.MergedExtended), j.art.CutMask()); err != nil {
		return fmt.Errorf("save cut mask: %w", err)
	}
	return nil
}

func runMask(ctx context.Context, j *pageJob) error {
	d, err := page.Load(j.art.RefinedPayload())
	if err != nil {
		return err
	}
	base, err := imaging.Open(d.ImagePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", page.ErrImageUnreadable, d.ImagePath, err)
	}
	cut, err := imaging.Open(j.art.CutMask())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", page.ErrImageUnreadable, j.art.CutMask(), err)
	}
	width := base.Bounds().Dx()
	height := base.Bounds().Dy()

	regions := masker.RegionsFromPage(d)
	results := j.runner.fit.FitAll(base, cut, regions, d.OriginalPath, true)

	if err := imaging.Save(masker.ComposeLayers(results, width, height), j.art.MaskLayers()); err != nil {
		return fmt.Errorf("save mask layers: %w", err)
	}
	combined := masker.ComposeMask(results, width, height)
	if err := imaging.Save(combined, j.art.FinalMask()); err != nil {
		return fmt.Errorf("save final mask: %w", err)
	}
	tint, err := j.runner.prof.Masker.DebugColor()
	if err != nil {
		return err
	}
	if err := imaging.Save(masker.OverlayMask(base, combined, tint), j.art.MaskOverlay()); err != nil {
		return fmt.Errorf("save mask overlay: %w", err)
	}
	if err := imaging.Save(masker.ApplyMask(base, combined), j.art.MaskedImage()); err != nil {
		return fmt.Errorf("save masked image: %w", err)
	}

	handoff := denoiser.Payload{
		OriginalPath:  d.OriginalPath,
		TargetPath:    j.art.ExportClean(j.source, j.runner.prof.General.PreferredFileType),
		BaseImagePath: d.ImagePath,
		MaskPath:      j.art.FinalMask(),
		Scale:         d.Scale,
		Regions:       make([]denoiser.BoxDeviation, 0, len(results)),
	}
	for _, result := range results {
		if err := j.runner.store.RecordFit(ctx, runstore.FitRecord{
			RunID:       j.runID,
			Page:        d.OriginalPath,
			Failed:      result.Failed(),
			ChosenIndex: result.ChosenIndex,
			FitError:    result.FitError,
		}); err != nil {
			return err
		}
		if result.Failed() {
			// Uncovered text stays sharp; smoothing it would only smear
			// what the next tool in the chain still needs to read. The
			// region is reported in source-page coordinates.
			logging.WithContext(ctx, j.runner.logger).Warn("mask fit failed",
				logging.String(logging.FieldEventType, "fit_failure"),
				logging.String("region", result.SourceRegion.Scale(d.Scale).String()),
				logging.Float64("deviation", result.FitError),
			)
			continue
		}
		region, deviation := result.NoiseData()
		handoff.Regions = append(handoff.Regions, denoiser.BoxDeviation{Box: region, Deviation: deviation})
	}
	return handoff.Write(j.art.MaskData())
}

func runDenoise(ctx context.Context, j *pageJob) error {
	handoff, err := denoiser.Load(j.art.MaskData())
	if err != nil {
		return err
	}
	mask, err := imaging.Open(handoff.MaskPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", page.ErrImageUnreadable, handoff.MaskPath, err)
	}

	exportLayer := image.Image(mask)
	if j.runner.prof.Denoiser.DenoisingEnabled {
		cleaned, err := imaging.Open(j.art.MaskedImage())
		if err != nil {
			return fmt.Errorf("%w: %s: %v", page.ErrImageUnreadable, j.art.MaskedImage(), err)
		}
		noisy := j.runner.den.NoisyRegions(handoff)
		layer, denoised := j.runner.den.Denoise(cleaned, mask, noisy, handoff.OriginalPath)
		if err := imaging.Save(layer, j.art.DenoiserMask()); err != nil {
			return fmt.Errorf("save denoiser mask: %w", err)
		}
		if err := imaging.Save(denoised, j.art.DenoisedImage()); err != nil {
			return fmt.Errorf("save denoised image: %w", err)
		}

		merged := imaging.Clone(mask)
		draw.Draw(merged, merged.Bounds(), layer, layer.Bounds().Min, draw.Over)
		exportLayer = merged

		analytic := denoiser.Analytic{Page: handoff.OriginalPath, Deviations: handoff.Deviations()}
		logging.WithContext(ctx, j.runner.logger).Debug("denoise pass finished",
			logging.Int("regions", len(analytic.Deviations)),
			logging.Int("noisy", len(noisy)),
		)
	}

	return j.exportPage(exportLayer)
}

// exportPage composites the final layer onto the untouched original and
// writes the cleaned page plus the standalone mask. When the working copy
// was resized, the layer is scaled back first; nearest neighbor keeps mask
// edges hard.
func (j *pageJob) exportPage(layer image.Image) error {
	general := j.runner.prof.General

	original, err := imaging.Open(j.source)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", page.ErrImageUnreadable, j.source, err)
	}
	bounds := original.Bounds()
	if layer.Bounds().Dx() != bounds.Dx() || layer.Bounds().Dy() != bounds.Dy() {
		layer = imaging.Resize(layer, bounds.Dx(), bounds.Dy(), imaging.NearestNeighbor)
	}

	cleanPath := j.art.ExportClean(j.source, general.PreferredFileType)
	if err := imaging.Save(masker.ApplyMask(original, layer), cleanPath); err != nil {
		return fmt.Errorf("save cleaned page: %w", err)
	}
	maskPath := j.art.ExportMask(general.PreferredMaskFileType)
	if err := imaging.Save(layer, maskPath); err != nil {
		return fmt.Errorf("save mask export: %w", err)
	}
	return nil
}
