package preflight

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"cleanplate/internal/ocr"
)

// CheckDirectoryAccess verifies the directory exists and the process can
// read, write, and traverse it.
func CheckDirectoryAccess(name, path string) Result {
	fail := func(problem string) Result {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%s)", path, problem)}
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fail("missing")
	case err != nil:
		return fail(fmt.Sprintf("stat failed: %v", err))
	case !info.IsDir():
		return fail("not a directory")
	}

	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fail(fmt.Sprintf("access denied: %v", err))
	}
	return Result{Name: name, Passed: true, Detail: path + " (read/write ok)"}
}

// CheckOCR probes the recognition backend the blacklist filter depends on.
// The filter switches off without it, so the check is optional.
func CheckOCR() Result {
	const name = "OCR backend"

	_, err := ocr.New()
	switch {
	case err == nil:
		return Result{Name: name, Passed: true, Optional: true, Detail: "recognition backend ready"}
	case errors.Is(err, ocr.ErrUnavailable):
		return Result{Name: name, Optional: true, Detail: "no recognition backend in this build"}
	default:
		return Result{Name: name, Optional: true, Detail: err.Error()}
	}
}
