//go:build tesseract

package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"cleanplate/internal/geometry"
)

// New builds the tesseract-backed engine. The native library is linked at
// build time; language data must be installed on the host.
func New(opts ...Option) (Engine, error) {
	cfg := newConfig(opts)

	// Fail at construction rather than on the first page if the language
	// data is missing.
	probe := gosseract.NewClient()
	defer probe.Close()
	if err := probe.SetLanguage(cfg.language); err != nil {
		return nil, fmt.Errorf("ocr language %q: %w", cfg.language, err)
	}

	return &tesseractEngine{language: cfg.language}, nil
}

// tesseractEngine runs one gosseract client per call; the client is not safe
// for concurrent use and pages are recognized from parallel workers.
type tesseractEngine struct {
	language string
}

func (e *tesseractEngine) Text(ctx context.Context, img image.Image, region geometry.Box) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	crop := imaging.Crop(img, region.Rect())

	// Tesseract wants a file path.
	tmp, err := os.CreateTemp("", "cleanplate-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("ocr temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmp, crop); err != nil {
		tmp.Close()
		return "", fmt.Errorf("ocr encode crop: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("ocr flush crop: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("ocr language %q: %w", e.language, err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		return "", fmt.Errorf("ocr set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}
