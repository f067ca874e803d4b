//go:build !tesseract

package ocr

// New reports ErrUnavailable. Recognition needs the tesseract build tag and
// the native library at build time.
func New(opts ...Option) (Engine, error) {
	return nil, ErrUnavailable
}
