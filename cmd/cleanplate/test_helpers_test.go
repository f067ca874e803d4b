package main

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cleanplate/internal/testsupport"
)

// cliTestEnv holds the temp profile and directories backing CLI invocations.
type cliTestEnv struct {
	profilePath string
	baseDir     string
	cacheDir    string
	outputDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	detector := writeStubDetector(t, base)
	return &cliTestEnv{
		profilePath: writeTestProfile(t, base, detector),
		baseDir:     base,
		cacheDir:    filepath.Join(base, "cache"),
		outputDir:   filepath.Join(base, "cleaned"),
	}
}

func writeTestProfile(t *testing.T, base, detectorCommand string) string {
	t.Helper()
	content := fmt.Sprintf(`[paths]
cache_dir = %q
output_dir = %q
log_dir = %q

[general]
input_height_lower_target = 0
input_height_upper_target = 0

[detector]
command = %q

[preprocessor]
ocr_enabled = false

[denoiser]
denoising_enabled = false
`,
		filepath.Join(base, "cache"),
		filepath.Join(base, "cleaned"),
		filepath.Join(base, "logs"),
		detectorCommand,
	)
	return testsupport.WriteFile(t, base, "profile.toml", content)
}

// writeStubDetector builds a shell detector that reuses the working copy as
// the text mask and reports one fixed detection.
func writeStubDetector(t *testing.T, dir string) string {
	t.Helper()
	script := `#!/bin/sh
img=""
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    --image) img="$2"; shift 2 ;;
    --output-dir) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
base=$(basename "$img")
stem="${base%.*}"
cp "$img" "$out/${stem}_mask.png"
cat > "$out/${stem}.json" <<'EOF'
{"image_path":"","mask_path":"","original_path":"","scale":1,"boxes":[[24,24,72,48]],"extended_boxes":[],"merged_extended_boxes":[],"reference_boxes":[]}
EOF
`
	path := filepath.Join(dir, "stub-detector")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub detector: %v", err)
	}
	return path
}

func writeTestPage(t *testing.T, dir, name string) string {
	t.Helper()
	return testsupport.WritePNG(t, dir, name, 96, 96, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
}

func runCLI(t *testing.T, profilePath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if profilePath != "" {
		args = append([]string{"--profile", profilePath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
