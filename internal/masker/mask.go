package masker

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"cleanplate/internal/geometry"
)

// CutMask restricts the detector mask to the given boxes: pixels keep their
// mask value inside a box and go black everywhere else. This strips stray
// detector pixels outside any text region before fitting.
func CutMask(aiMask image.Image, boxes []geometry.Box) *image.Gray {
	bounds := aiMask.Bounds()
	out := image.NewGray(bounds)
	for _, box := range boxes {
		rect := box.Rect().Intersect(bounds)
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				if maskOn(aiMask, x, y) {
					out.SetGray(x, y, color.Gray{Y: 255})
				}
			}
		}
	}
	return out
}

// ComposeMask flattens per-region fits onto one page-sized layer: each
// successful mask is filled with its median color at its placement, the rest
// of the canvas stays transparent. Saved standalone this is the final mask;
// drawn over the working copy it cleans the page.
func ComposeMask(results []FitResult, width, height int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for _, result := range results {
		mask, fill, at := result.MaskData()
		if mask == nil {
			continue
		}
		b := mask.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if !maskOn(mask, x, y) {
					continue
				}
				px := at.X + (x - b.Min.X)
				py := at.Y + (y - b.Min.Y)
				if px < 0 || px >= width || py < 0 || py >= height {
					continue
				}
				out.SetNRGBA(px, py, fill)
			}
		}
	}
	return out
}

// ComposeLayers renders every retained candidate onto one canvas, one color
// per growth step, largest candidate first so tighter fits sit on top. The
// result shows how far each region had to grow before a candidate fit.
// Results without retained candidates contribute nothing.
func ComposeLayers(results []FitResult, width, height int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for _, result := range results {
		// Candidates are crops of the analyzed region, failed fits included.
		at := result.SourceRegion.Rect().Min
		for step := len(result.DebugCandidates) - 1; step >= 0; step-- {
			fill := layerColor(step)
			mask := result.DebugCandidates[step]
			b := mask.Bounds()
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					if !maskOn(mask, x, y) {
						continue
					}
					px := at.X + (x - b.Min.X)
					py := at.Y + (y - b.Min.Y)
					if px < 0 || px >= width || py < 0 || py >= height {
						continue
					}
					out.SetNRGBA(px, py, fill)
				}
			}
		}
	}
	return out
}

// layerColor maps a growth step to a hue, stepping around the wheel so
// neighboring steps stay distinguishable.
func layerColor(step int) color.NRGBA {
	hue := float64((step * 47) % 360)
	r, g, b := colorful.Hsv(hue, 0.85, 0.95).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// ApplyMask composites the mask layer over the page, producing the cleaned
// image.
func ApplyMask(base image.Image, mask image.Image) *image.NRGBA {
	out := imaging.Clone(base)
	draw.Draw(out, out.Bounds(), mask, mask.Bounds().Min, draw.Over)
	return out
}

// OverlayMask tints the masked pixels with the debug color over the page,
// for visual inspection of mask coverage. The tint's own alpha controls the
// overlay strength.
func OverlayMask(base image.Image, mask image.Image, tint color.NRGBA) *image.NRGBA {
	out := imaging.Clone(base)
	draw.DrawMask(out, out.Bounds(), image.NewUniform(tint), image.Point{}, mask, mask.Bounds().Min, draw.Over)
	return out
}

func maskOn(img image.Image, x, y int) bool {
	switch m := img.(type) {
	case *image.Gray:
		return m.GrayAt(x, y).Y >= 128
	case *image.RGBA:
		return m.RGBAAt(x, y).R >= 128
	case *image.NRGBA:
		px := m.NRGBAAt(x, y)
		return px.A > 0 && px.R >= 128
	default:
		r, _, _, a := img.At(x, y).RGBA()
		return a > 0 && r >= 128<<8
	}
}
