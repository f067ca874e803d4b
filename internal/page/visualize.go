package page

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Outline colors for the diagnostic overlay, one per collection.
var kindColors = map[BoxKind]color.NRGBA{
	KindRaw:            {G: 0x80, A: 0xFF},
	KindExtended:       {R: 0xFF, A: 0xFF},
	KindMergedExtended: {R: 0x80, B: 0x80, A: 0xFF},
	KindReference:      {B: 0xFF, A: 0xFF},
}

const outlineThickness = 2

// WriteVisualization draws all four collections over a copy of the working
// image and saves it to outPath. Raw boxes carry their one-based index so a
// box in the overlay can be matched to analytics output. Drawing order puts
// raw boxes on top.
func (d *Data) WriteVisualization(outPath string) error {
	return d.writeOverlay(outPath, []BoxKind{KindReference, KindMergedExtended, KindExtended, KindRaw})
}

// WriteKindVisualization draws a single collection over a copy of the
// working image; the other collections stay out of the frame.
func (d *Data) WriteKindVisualization(outPath string, kind BoxKind) error {
	return d.writeOverlay(outPath, []BoxKind{kind})
}

func (d *Data) writeOverlay(outPath string, order []BoxKind) error {
	img, err := imaging.Open(d.ImagePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImageUnreadable, d.ImagePath, err)
	}
	canvas := imaging.Clone(img)
	for _, kind := range order {
		col := kindColors[kind]
		for i, b := range d.Boxes(kind) {
			strokeRect(canvas, b.Rect(), col, outlineThickness)
			if kind == KindRaw {
				drawLabel(canvas, strconv.Itoa(i+1), b.X1+4, b.Y1+14, col)
			}
		}
	}
	if err := imaging.Save(canvas, outPath); err != nil {
		return fmt.Errorf("save visualization: %w", err)
	}
	return nil
}

func strokeRect(dst draw.Image, r image.Rectangle, col color.Color, thickness int) {
	src := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, edge := range edges {
		draw.Draw(dst, edge.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

func drawLabel(dst draw.Image, text string, x, y int, col color.Color) {
	drawer := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}
