package profile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var imageFileTypes = map[string]struct{}{
	"png": {}, "jpg": {}, "bmp": {}, "tiff": {}, "gif": {},
}

// Mask output must survive a save/load round trip bit for bit, so lossy
// formats are out.
var maskFileTypes = map[string]struct{}{
	"png": {}, "bmp": {}, "tiff": {},
}

// Validate ensures the profile is usable.
func (p *Profile) Validate() error {
	if err := p.validateGeneral(); err != nil {
		return err
	}
	if err := p.validateDetector(); err != nil {
		return err
	}
	if err := p.validatePreprocessor(); err != nil {
		return err
	}
	if err := p.validateMasker(); err != nil {
		return err
	}
	if err := p.validateDenoiser(); err != nil {
		return err
	}
	return nil
}

func (p *Profile) validateGeneral() error {
	if ft := p.General.PreferredFileType; ft != "" {
		if _, ok := imageFileTypes[ft]; !ok {
			return fmt.Errorf("general.preferred_file_type %q is not a supported image format", ft)
		}
	}
	if _, ok := maskFileTypes[p.General.PreferredMaskFileType]; !ok {
		return fmt.Errorf("general.preferred_mask_file_type %q must be a lossless format", p.General.PreferredMaskFileType)
	}
	if p.General.InputHeightLowerTarget < 0 {
		return errors.New("general.input_height_lower_target must be >= 0")
	}
	if p.General.InputHeightUpperTarget < 0 {
		return errors.New("general.input_height_upper_target must be >= 0")
	}
	if upper, lower := p.General.InputHeightUpperTarget, p.General.InputHeightLowerTarget; upper > 0 && upper < lower {
		return errors.New("general.input_height_upper_target must be >= general.input_height_lower_target")
	}
	return nil
}

func (p *Profile) validateDetector() error {
	if strings.TrimSpace(p.Detector.Command) == "" {
		return errors.New("detector.command must be set")
	}
	if p.Detector.ConfidenceThreshold <= 0 || p.Detector.ConfidenceThreshold > 1 {
		return errors.New("detector.confidence_threshold must be between 0 and 1")
	}
	if p.Detector.TimeoutSeconds <= 0 {
		return errors.New("detector.timeout_seconds must be positive")
	}
	return nil
}

func (p *Profile) validatePreprocessor() error {
	if err := ensureNonNegativeMap(map[string]int{
		"preprocessor.box_min_size":               p.Preprocessor.BoxMinSize,
		"preprocessor.suspicious_box_min_size":    p.Preprocessor.SuspiciousBoxMinSize,
		"preprocessor.box_padding_initial":        p.Preprocessor.BoxPaddingInitial,
		"preprocessor.box_right_padding_initial":  p.Preprocessor.BoxRightPaddingInitial,
		"preprocessor.box_padding_extended":       p.Preprocessor.BoxPaddingExtended,
		"preprocessor.box_right_padding_extended": p.Preprocessor.BoxRightPaddingExtended,
		"preprocessor.box_reference_padding":      p.Preprocessor.BoxReferencePadding,
		"preprocessor.ocr_max_size":               p.Preprocessor.OCRMaxSize,
	}); err != nil {
		return err
	}
	if pattern := p.Preprocessor.OCRBlacklistPattern; pattern != "" {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("preprocessor.ocr_blacklist_pattern: %w", err)
		}
	}
	return nil
}

func (p *Profile) validateMasker() error {
	if p.Masker.MaskGrowthStepPixels <= 0 {
		return errors.New("masker.mask_growth_step_pixels must be positive")
	}
	if p.Masker.MaskGrowthSteps <= 0 {
		return errors.New("masker.mask_growth_steps must be positive")
	}
	if p.Masker.MinMaskThickness < 0 {
		return errors.New("masker.min_mask_thickness must be >= 0")
	}
	if p.Masker.OffWhiteMaxThreshold < 0 || p.Masker.OffWhiteMaxThreshold > 255 {
		return errors.New("masker.off_white_max_threshold must be between 0 and 255")
	}
	if p.Masker.MaskImprovementThreshold < 0 {
		return errors.New("masker.mask_improvement_threshold must be >= 0")
	}
	if p.Masker.MaskMaxStandardDeviation < 0 {
		return errors.New("masker.mask_max_standard_deviation must be >= 0")
	}
	if _, err := p.Masker.DebugColor(); err != nil {
		return fmt.Errorf("masker.debug_mask_color: %w", err)
	}
	return nil
}

func (p *Profile) validateDenoiser() error {
	if p.Denoiser.NoiseMinStandardDeviation < 0 {
		return errors.New("denoiser.noise_min_standard_deviation must be >= 0")
	}
	if err := ensureNonNegativeMap(map[string]int{
		"denoiser.filter_strength":       p.Denoiser.FilterStrength,
		"denoiser.color_filter_strength": p.Denoiser.ColorFilterStrength,
	}); err != nil {
		return err
	}
	for key, value := range map[string]int{
		"denoiser.template_window_size": p.Denoiser.TemplateWindowSize,
		"denoiser.search_window_size":   p.Denoiser.SearchWindowSize,
	} {
		if value <= 0 || value%2 == 0 {
			return fmt.Errorf("%s must be a positive odd number", key)
		}
	}
	if p.Denoiser.SearchWindowSize < p.Denoiser.TemplateWindowSize {
		return errors.New("denoiser.search_window_size must be >= denoiser.template_window_size")
	}
	return nil
}

func ensureNonNegativeMap(values map[string]int) error {
	for key, value := range values {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	return nil
}
