package pipeline

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"cleanplate/internal/page"
	"cleanplate/internal/testsupport"
)

func TestClampHeightRespectsTheBand(t *testing.T) {
	cases := []struct {
		height, lower, upper int
		want                 int
	}{
		{500, 1000, 4000, 1000},
		{2000, 1000, 4000, 2000},
		{6000, 1000, 4000, 4000},
		{500, 0, 4000, 500},
		{6000, 1000, 0, 6000},
		{2000, 0, 0, 2000},
	}
	for _, tc := range cases {
		if got := clampHeight(tc.height, tc.lower, tc.upper); got != tc.want {
			t.Errorf("clampHeight(%d, %d, %d) = %d, want %d", tc.height, tc.lower, tc.upper, got, tc.want)
		}
	}
}

func TestPrepareWorkingCopyResizesBelowTheBand(t *testing.T) {
	dir := t.TempDir()
	source := testsupport.WritePNG(t, dir, "page.png", 60, 120, color.White)
	dest := filepath.Join(dir, "work.png")

	scale, err := prepareWorkingCopy(source, dest, 240, 480)
	if err != nil {
		t.Fatalf("prepareWorkingCopy: %v", err)
	}
	if scale != 0.5 {
		t.Fatalf("scale = %v, want 0.5", scale)
	}

	work, err := imaging.Open(dest)
	if err != nil {
		t.Fatalf("open working copy: %v", err)
	}
	if got := work.Bounds().Dy(); got != 240 {
		t.Fatalf("working height = %d, want 240", got)
	}
	// Aspect ratio is preserved, so the width doubles with the height.
	if got := work.Bounds().Dx(); got != 120 {
		t.Fatalf("working width = %d, want 120", got)
	}
}

func TestPrepareWorkingCopyKeepsInBandPagesUntouched(t *testing.T) {
	dir := t.TempDir()
	source := testsupport.WritePNG(t, dir, "page.png", 80, 300, color.White)
	dest := filepath.Join(dir, "work.png")

	scale, err := prepareWorkingCopy(source, dest, 240, 480)
	if err != nil {
		t.Fatalf("prepareWorkingCopy: %v", err)
	}
	if scale != 1 {
		t.Fatalf("scale = %v, want 1", scale)
	}

	work, err := imaging.Open(dest)
	if err != nil {
		t.Fatalf("open working copy: %v", err)
	}
	if got := work.Bounds().Dy(); got != 300 {
		t.Fatalf("working height = %d, want 300", got)
	}
}

func TestPrepareWorkingCopyCopiesInBandPNGBytes(t *testing.T) {
	dir := t.TempDir()
	source := testsupport.WritePNG(t, dir, "page.png", 80, 300, color.White)
	dest := filepath.Join(dir, "work.png")

	if _, err := prepareWorkingCopy(source, dest, 240, 480); err != nil {
		t.Fatalf("prepareWorkingCopy: %v", err)
	}

	want, err := os.ReadFile(source)
	if err != nil {
		t.Fatalf("read source: %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read working copy: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("expected working copy to be a byte copy of the source")
	}
}

func TestPrepareWorkingCopyConvertsFormat(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "page.jpg")
	if err := imaging.Save(imaging.New(40, 80, color.White), source); err != nil {
		t.Fatalf("save jpeg source: %v", err)
	}
	dest := filepath.Join(dir, "work.png")

	if _, err := prepareWorkingCopy(source, dest, 0, 0); err != nil {
		t.Fatalf("prepareWorkingCopy: %v", err)
	}
	if _, err := imaging.Open(dest); err != nil {
		t.Fatalf("working copy unreadable: %v", err)
	}
}

func TestPrepareWorkingCopyFailsOnUnreadableSource(t *testing.T) {
	dir := t.TempDir()
	source := testsupport.WriteFile(t, dir, "page.png", "not an image")

	_, err := prepareWorkingCopy(source, filepath.Join(dir, "work.png"), 0, 0)
	if !errors.Is(err, page.ErrImageUnreadable) {
		t.Fatalf("error = %v, want ErrImageUnreadable", err)
	}
}

func TestWorkingScaleRecoversFromHeaders(t *testing.T) {
	dir := t.TempDir()
	source := testsupport.WritePNG(t, dir, "page.png", 50, 400, color.White)
	working := testsupport.WritePNG(t, dir, "work.png", 25, 200, color.White)

	scale, err := workingScale(source, working)
	if err != nil {
		t.Fatalf("workingScale: %v", err)
	}
	if scale != 2 {
		t.Fatalf("scale = %v, want 2", scale)
	}
}
