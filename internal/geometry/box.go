package geometry

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
)

// Box is an axis-aligned rectangle in page pixel coordinates.
// (X1, Y1) is the top-left corner and (X2, Y2) the bottom-right corner,
// with X1 <= X2 and Y1 <= Y2.
type Box struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// New returns a box with the corner coordinates normalized so that
// X1 <= X2 and Y1 <= Y2.
func New(x1, y1, x2, y2 int) Box {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Rect converts the box to a stdlib image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Width returns the horizontal extent of the box.
func (b Box) Width() int {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b Box) Height() int {
	return b.Y2 - b.Y1
}

// Area returns the number of pixels covered by the box.
func (b Box) Area() int {
	return b.Width() * b.Height()
}

// Grow expands the box by padding on all four sides and clamps the result to
// the image bounds [0, width] x [0, height]. A negative padding shrinks the
// box; if it would invert the coordinates the box collapses to zero width or
// height around its center instead.
func (b Box) Grow(padding, width, height int) Box {
	x1 := clamp(b.X1-padding, 0, width)
	y1 := clamp(b.Y1-padding, 0, height)
	x2 := clamp(b.X2+padding, 0, width)
	y2 := clamp(b.Y2+padding, 0, height)
	if x1 > x2 {
		mid := (b.X1 + b.X2) / 2
		x1, x2 = mid, mid
	}
	if y1 > y2 {
		mid := (b.Y1 + b.Y2) / 2
		y1, y2 = mid, mid
	}
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// RightPad extends only the right edge by padding, clamped to the image
// width. Detected bubbles with vertical text tend to clip trailing columns,
// so the right edge gets extra room on its own.
func (b Box) RightPad(padding, width int) Box {
	x2 := clamp(b.X2+padding, 0, width)
	if x2 < b.X1 {
		x2 = b.X1
	}
	return Box{X1: b.X1, Y1: b.Y1, X2: x2, Y2: b.Y2}
}

// Overlaps reports whether the two boxes share any point. Touching edges and
// corners count as overlapping.
func (b Box) Overlaps(o Box) bool {
	return b.X1 <= o.X2 && o.X1 <= b.X2 && b.Y1 <= o.Y2 && o.Y1 <= b.Y2
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	return Box{
		X1: min(b.X1, o.X1),
		Y1: min(b.Y1, o.Y1),
		X2: max(b.X2, o.X2),
		Y2: max(b.Y2, o.Y2),
	}
}

// Scale multiplies all coordinates by factor, rounding to the nearest pixel.
// Used to map boxes from a resized working copy back onto the original image.
func (b Box) Scale(factor float64) Box {
	return New(
		int(math.Round(float64(b.X1)*factor)),
		int(math.Round(float64(b.Y1)*factor)),
		int(math.Round(float64(b.X2)*factor)),
		int(math.Round(float64(b.Y2)*factor)),
	)
}

// String formats the box as (x1, y1)-(x2, y2) for logs and errors.
func (b Box) String() string {
	return fmt.Sprintf("(%d, %d)-(%d, %d)", b.X1, b.Y1, b.X2, b.Y2)
}

// MarshalJSON encodes the box as the 4-tuple [x1, y1, x2, y2] used by the
// page payload format.
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X1, b.Y1, b.X2, b.Y2})
}

// UnmarshalJSON decodes the 4-tuple form and normalizes corner order.
func (b *Box) UnmarshalJSON(data []byte) error {
	var coords []int
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("decode box: %w", err)
	}
	if len(coords) != 4 {
		return fmt.Errorf("decode box: expected 4 coordinates, got %d", len(coords))
	}
	*b = New(coords[0], coords[1], coords[2], coords[3])
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
