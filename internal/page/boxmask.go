package page

import (
	"image"
	"image/draw"
)

// BoxMask rasterizes one collection as a binary mask of the given size:
// white inside every box, black elsewhere. The masker intersects this with
// the detector mask to cut text regions out of it.
func (d *Data) BoxMask(kind BoxKind, width, height int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for _, b := range d.Boxes(kind) {
		draw.Draw(mask, b.Rect().Intersect(mask.Bounds()), image.White, image.Point{}, draw.Src)
	}
	return mask
}
