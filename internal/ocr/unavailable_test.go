//go:build !tesseract

package ocr_test

import (
	"errors"
	"testing"

	"cleanplate/internal/ocr"
)

func TestNewWithoutBackendReportsUnavailable(t *testing.T) {
	engine, err := ocr.New(ocr.WithLanguage("jpn"))
	if !errors.Is(err, ocr.ErrUnavailable) {
		t.Fatalf("New() error = %v, want ErrUnavailable", err)
	}
	if engine != nil {
		t.Fatalf("New() returned an engine alongside the error")
	}
}
