package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"cleanplate/internal/fileutil"
	"cleanplate/internal/page"
)

// prepareWorkingCopy resizes the source page into the configured height
// band and saves it as the PNG working copy. Heights inside the band are
// kept; a zero bound is disabled. Returns the scale factor mapping
// working-copy coordinates back onto the original.
func prepareWorkingCopy(source, dest string, lower, upper int) (float64, error) {
	height, err := probeHeight(source)
	if err != nil {
		return 0, err
	}
	if height <= 0 {
		return 0, fmt.Errorf("%w: %s: empty image", page.ErrImageUnreadable, source)
	}
	target := clampHeight(height, lower, upper)

	// In-band PNG pages need neither resize nor re-encode.
	if target == height && strings.EqualFold(filepath.Ext(source), ".png") {
		if err := fileutil.CopyFile(source, dest); err != nil {
			return 0, fmt.Errorf("copy working copy: %w", err)
		}
		return 1, nil
	}

	img, err := imaging.Open(source)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", page.ErrImageUnreadable, source, err)
	}
	if target != height {
		img = imaging.Resize(img, 0, target, imaging.Lanczos)
	}
	if err := imaging.Save(img, dest); err != nil {
		return 0, fmt.Errorf("save working copy: %w", err)
	}
	return float64(height) / float64(target), nil
}

func clampHeight(height, lower, upper int) int {
	if lower > 0 && height < lower {
		return lower
	}
	if upper > 0 && height > upper {
		return upper
	}
	return height
}

// workingScale recovers the scale factor from image headers, for runs where
// the working copy already exists and the input phase was skipped.
func workingScale(source, workingCopy string) (float64, error) {
	sourceHeight, err := probeHeight(source)
	if err != nil {
		return 0, err
	}
	workingHeight, err := probeHeight(workingCopy)
	if err != nil {
		return 0, err
	}
	if workingHeight <= 0 {
		return 0, fmt.Errorf("%w: %s: empty image", page.ErrImageUnreadable, workingCopy)
	}
	return float64(sourceHeight) / float64(workingHeight), nil
}

func probeHeight(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", page.ErrImageUnreadable, path, err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", page.ErrImageUnreadable, path, err)
	}
	return cfg.Height, nil
}
