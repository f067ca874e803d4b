// Package ocr recognizes the text inside small page regions so the
// preprocessor can weed out boxes whose content matches the blacklist.
//
// The tesseract backend binds gosseract and needs the native library, so it
// sits behind the "tesseract" build tag. Default builds get a constructor
// that reports ErrUnavailable; callers treat that as OCR filtering switched
// off, not as a failure.
package ocr

import (
	"context"
	"errors"
	"image"

	"cleanplate/internal/geometry"
)

// ErrUnavailable reports that no recognition backend was compiled in.
var ErrUnavailable = errors.New("ocr: no recognition backend in this build")

// Engine recognizes the text inside one region of a page image.
type Engine interface {
	Text(ctx context.Context, img image.Image, region geometry.Box) (string, error)
}

const defaultLanguage = "eng"

type config struct {
	language string
}

// Option adjusts engine construction.
type Option func(*config)

// WithLanguage selects the tesseract language model, e.g. "eng" or "jpn".
func WithLanguage(language string) Option {
	return func(c *config) {
		if language != "" {
			c.language = language
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{language: defaultLanguage}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
