package page

import (
	"fmt"
	"image"
	"os"

	// Decoders for the page formats the pipeline reads.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"cleanplate/internal/geometry"
)

// Data is the record for one page. The exported fields mirror the page
// payload format; the collections are mutated in place by the preprocessing
// operations below, except MergedExtended, which only ResolveOverlaps
// replaces.
type Data struct {
	// ImagePath locates the working copy the pipeline operates on.
	ImagePath string `json:"image_path"`
	// MaskPath locates the raw text mask the detector generated.
	MaskPath string `json:"mask_path"`
	// OriginalPath locates the untouched source image.
	OriginalPath string `json:"original_path"`
	// Scale is the factor mapping working-copy coordinates back onto the
	// original image.
	Scale float64 `json:"scale"`

	Raw            []geometry.Box `json:"boxes"`
	Extended       []geometry.Box `json:"extended_boxes"`
	MergedExtended []geometry.Box `json:"merged_extended_boxes"`
	Reference      []geometry.Box `json:"reference_boxes"`

	width        int
	height       int
	sizeResolved bool
}

// Boxes returns the collection for kind. The returned slice is the live
// collection; callers that only read must not modify it. Panics on an
// undefined kind, which is a programming error rather than an input
// condition.
func (d *Data) Boxes(kind BoxKind) []geometry.Box {
	return *d.boxesRef(kind)
}

func (d *Data) boxesRef(kind BoxKind) *[]geometry.Box {
	switch kind {
	case KindRaw:
		return &d.Raw
	case KindExtended:
		return &d.Extended
	case KindMergedExtended:
		return &d.MergedExtended
	case KindReference:
		return &d.Reference
	}
	panic(fmt.Sprintf("page: undefined box kind %d", int(kind)))
}

// ResolveImageSize probes the working image header for its dimensions and
// caches them on the record. Calling it again is a no-op until
// ResetImageSize. Only the header is read; pixel data stays on disk.
func (d *Data) ResolveImageSize() error {
	if d.sizeResolved {
		return nil
	}
	f, err := os.Open(d.ImagePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImageUnreadable, d.ImagePath, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImageUnreadable, d.ImagePath, err)
	}
	d.width = cfg.Width
	d.height = cfg.Height
	d.sizeResolved = true
	return nil
}

// ResetImageSize drops the cached dimensions. Call it after replacing the
// working image so the next ResolveImageSize probes the new file.
func (d *Data) ResetImageSize() {
	d.width = 0
	d.height = 0
	d.sizeResolved = false
}

// Size returns the cached working-image dimensions, or ErrMissingImageSize
// when ResolveImageSize has not run yet.
func (d *Data) Size() (width, height int, err error) {
	if !d.sizeResolved {
		return 0, 0, fmt.Errorf("%w: %s", ErrMissingImageSize, d.ImagePath)
	}
	return d.width, d.height, nil
}

// GrowAll pads every box of the named collection on all sides, clamped to
// the page bounds. Requires a resolved image size.
func (d *Data) GrowAll(kind BoxKind, padding int) error {
	if !d.sizeResolved {
		return fmt.Errorf("%w: grow %s boxes of %s", ErrMissingImageSize, kind, d.ImagePath)
	}
	boxes := d.boxesRef(kind)
	for i, b := range *boxes {
		(*boxes)[i] = b.Grow(padding, d.width, d.height)
	}
	return nil
}

// RightPadAll extends the right edge of every box of the named collection,
// clamped to the page width. Requires a resolved image size.
func (d *Data) RightPadAll(kind BoxKind, padding int) error {
	if !d.sizeResolved {
		return fmt.Errorf("%w: right-pad %s boxes of %s", ErrMissingImageSize, kind, d.ImagePath)
	}
	boxes := d.boxesRef(kind)
	for i, b := range *boxes {
		(*boxes)[i] = b.RightPad(padding, d.width)
	}
	return nil
}
