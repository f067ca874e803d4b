package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_profile.toml
var sampleProfile string

// Paths contains directory configuration.
type Paths struct {
	CacheDir  string `toml:"cache_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// RetentionDays prunes log files older than this many days. Zero keeps
	// everything.
	RetentionDays int `toml:"retention_days"`
}

// General contains page-level input and output settings.
type General struct {
	// PreferredFileType selects the output image format. Empty keeps the
	// format of the source page.
	PreferredFileType string `toml:"preferred_file_type"`
	// PreferredMaskFileType selects the format for standalone mask output.
	// Must be lossless; compression artifacts ruin a mask.
	PreferredMaskFileType string `toml:"preferred_mask_file_type"`
	// InputHeightLowerTarget and InputHeightUpperTarget bound the working
	// copy height in pixels. Pages outside the band are resized to the
	// nearest bound before detection. Zero disables the bound.
	InputHeightLowerTarget int `toml:"input_height_lower_target"`
	InputHeightUpperTarget int `toml:"input_height_upper_target"`
}

// Detector contains configuration for the external text detector.
type Detector struct {
	Command             string  `toml:"command"`
	ModelPath           string  `toml:"model_path"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	TimeoutSeconds      int     `toml:"timeout_seconds"`
}

// Preprocessor contains box filtering and padding settings.
type Preprocessor struct {
	// BoxMinSize drops detections below this area in square pixels.
	BoxMinSize int `toml:"box_min_size"`
	// SuspiciousBoxMinSize flags unusually large detections in logs.
	SuspiciousBoxMinSize    int    `toml:"suspicious_box_min_size"`
	BoxPaddingInitial       int    `toml:"box_padding_initial"`
	BoxRightPaddingInitial  int    `toml:"box_right_padding_initial"`
	BoxPaddingExtended      int    `toml:"box_padding_extended"`
	BoxRightPaddingExtended int    `toml:"box_right_padding_extended"`
	BoxReferencePadding     int    `toml:"box_reference_padding"`
	OCREnabled              bool   `toml:"ocr_enabled"`
	// OCRMaxSize caps the area of boxes sent to OCR; large boxes hold real
	// text and are never discarded by the blacklist.
	OCRMaxSize          int    `toml:"ocr_max_size"`
	OCRBlacklistPattern string `toml:"ocr_blacklist_pattern"`
}

// Masker contains mask growth and selection settings.
type Masker struct {
	MaskGrowthStepPixels     int     `toml:"mask_growth_step_pixels"`
	MaskGrowthSteps          int     `toml:"mask_growth_steps"`
	MinMaskThickness         int     `toml:"min_mask_thickness"`
	OffWhiteMaxThreshold     int     `toml:"off_white_max_threshold"`
	MaskImprovementThreshold float64 `toml:"mask_improvement_threshold"`
	MaskSelectionFast        bool    `toml:"mask_selection_fast"`
	MaskMaxStandardDeviation float64 `toml:"mask_max_standard_deviation"`
	DebugMaskColor           string  `toml:"debug_mask_color"`
}

// Denoiser contains settings for denoising poorly fitting mask regions.
type Denoiser struct {
	DenoisingEnabled          bool    `toml:"denoising_enabled"`
	NoiseMinStandardDeviation float64 `toml:"noise_min_standard_deviation"`
	FilterStrength            int     `toml:"filter_strength"`
	ColorFilterStrength       int     `toml:"color_filter_strength"`
	TemplateWindowSize        int     `toml:"template_window_size"`
	SearchWindowSize          int     `toml:"search_window_size"`
}

// Profile encapsulates all configuration values for a cleaning run.
//
// Sections by concern:
//   - Paths: cache, output, and log directories
//   - Logging: log format and level
//   - General: output formats and working-copy size targets
//   - Detector: external text detector invocation
//   - Preprocessor: detection filtering and box padding
//   - Masker: mask growth candidates and fit selection
//   - Denoiser: fallback denoising for noisy mask fits
type Profile struct {
	Paths        Paths        `toml:"paths"`
	Logging      Logging      `toml:"logging"`
	General      General      `toml:"general"`
	Detector     Detector     `toml:"detector"`
	Preprocessor Preprocessor `toml:"preprocessor"`
	Masker       Masker       `toml:"masker"`
	Denoiser     Denoiser     `toml:"denoiser"`
}

// DefaultProfilePath returns the absolute path to the default profile location.
func DefaultProfilePath() (string, error) {
	return expandPath("~/.config/cleanplate/profile.toml")
}

// Load locates, parses, and validates a profile. The returned profile has
// all path fields expanded and normalized. When no file exists at the
// resolved path the defaults are returned with exists = false.
func Load(path string) (*Profile, string, bool, error) {
	prof := Default()

	resolvedPath, exists, err := resolveProfilePath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open profile: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&prof); err != nil {
			return nil, "", false, fmt.Errorf("parse profile: %w", err)
		}
	}

	if err := prof.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := prof.Validate(); err != nil {
		return nil, "", false, err
	}

	return &prof, resolvedPath, exists, nil
}

func resolveProfilePath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat profile: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultProfilePath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cleanplate.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into. The output
// directory is created best-effort so profile loading still succeeds when
// the target volume is offline.
func (p *Profile) EnsureDirectories() error {
	for _, dir := range []string{p.Paths.CacheDir, p.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(p.Paths.OutputDir) != "" {
		_ = os.MkdirAll(p.Paths.OutputDir, 0o755)
	}
	return nil
}

// DebugColor parses the masker debug color as #rrggbb or #rrggbbaa hex.
func (m Masker) DebugColor() (color.NRGBA, error) {
	value := strings.TrimPrefix(strings.TrimSpace(m.DebugMaskColor), "#")
	if len(value) != 6 && len(value) != 8 {
		return color.NRGBA{}, fmt.Errorf("debug mask color %q: want #rrggbb or #rrggbbaa", m.DebugMaskColor)
	}
	parsed, err := strconv.ParseUint(value, 16, 64)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("debug mask color %q: %w", m.DebugMaskColor, err)
	}
	if len(value) == 6 {
		parsed = parsed<<8 | 0xFF
	}
	return color.NRGBA{
		R: uint8(parsed >> 24),
		G: uint8(parsed >> 16),
		B: uint8(parsed >> 8),
		A: uint8(parsed),
	}, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a commented sample profile to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleProfile), 0o644); err != nil {
		return fmt.Errorf("write sample profile: %w", err)
	}
	return nil
}
