package denoiser

import (
	"image"
	"image/draw"
	"log/slog"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"cleanplate/internal/logging"
)

// Settings are the denoising knobs, mirroring the denoiser profile group.
// The window and strength fields keep the external denoise tool's schema so
// profiles stay portable; the built-in kernel maps them onto a median pass
// sized by TemplateWindowSize and a gaussian pass derived from the combined
// filter strengths.
type Settings struct {
	Enabled              bool
	MinStandardDeviation float64
	FilterStrength       int
	ColorFilterStrength  int
	TemplateWindowSize   int
	SearchWindowSize     int
}

// Denoiser runs the fallback smoothing pass over noisy mask regions.
type Denoiser struct {
	settings Settings
	logger   *slog.Logger
}

// New builds a denoiser. A nil logger falls back to a no-op logger.
func New(settings Settings, logger *slog.Logger) *Denoiser {
	return &Denoiser{
		settings: settings,
		logger:   logging.NewComponentLogger(logger, "denoiser"),
	}
}

// Analytic is one page's slice of the run denoise report. Deviations holds
// every fit deviation the masker recorded, not just the ones above the
// floor, so reports can show how close the rest came.
type Analytic struct {
	Page       string
	Deviations []float64
}

// NoisyRegions filters the payload's regions down to the ones at or above
// the deviation floor.
func (d *Denoiser) NoisyRegions(p *Payload) []BoxDeviation {
	noisy := make([]BoxDeviation, 0, len(p.Regions))
	for _, region := range p.Regions {
		if region.Deviation >= d.settings.MinStandardDeviation {
			noisy = append(noisy, region)
		}
	}
	return noisy
}

// Denoise smooths the given regions of the page.
//
// Each region's crop of the base image is filtered and pasted onto a
// transparent layer, then the final mask is re-applied on top so the text
// cover survives the smoothing. The returned layer holds only the processed
// patches; denoised is the base image with that layer composited over it.
func (d *Denoiser) Denoise(base, mask image.Image, regions []BoxDeviation, pagePath string) (layer, denoised *image.NRGBA) {
	bounds := base.Bounds()
	layer = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	processed := 0
	for i, region := range regions {
		rect := region.Box.Rect().Intersect(layer.Bounds())
		if rect.Empty() {
			d.logger.Warn("denoise region lies outside the page",
				logging.String(logging.FieldPage, pagePath),
				logging.Int("region", i),
				logging.String(logging.FieldEventType, "denoise_region_empty"),
			)
			continue
		}

		patch := d.smooth(imaging.Crop(base, rect))
		draw.Draw(layer, rect, patch, image.Point{}, draw.Src)
		draw.Draw(layer, rect, mask, rect.Min, draw.Over)
		processed++

		d.logger.Debug("region denoised",
			logging.String(logging.FieldPage, pagePath),
			logging.Int("region", i),
			logging.Float64("deviation", region.Deviation),
		)
	}

	denoised = imaging.Clone(base)
	draw.Draw(denoised, denoised.Bounds(), layer, image.Point{}, draw.Over)

	d.logger.Debug("page denoised",
		logging.String(logging.FieldPage, pagePath),
		logging.Int("regions", processed),
	)
	return layer, denoised
}

// smooth applies the built-in denoise kernel to one crop.
func (d *Denoiser) smooth(crop image.Image) image.Image {
	out := image.Image(crop)
	if d.settings.TemplateWindowSize > 1 {
		out = effect.Median(out, float64(d.settings.TemplateWindowSize))
	}
	if radius := float64(d.settings.FilterStrength+d.settings.ColorFilterStrength) / 8; radius > 0 {
		out = blur.Gaussian(out, radius)
	}
	return out
}
