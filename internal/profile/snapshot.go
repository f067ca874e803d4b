package profile

import "strconv"

// Snapshot is an ordered, flat view of the output-shaping profile groups.
// Keys are stable "group.field" strings and values canonical string
// renderings, so a slice of the snapshot can be hashed deterministically.
// The field list is spelled out by hand; the key set is a persistence
// contract and must not silently follow struct changes.
type Snapshot struct {
	keys   []string
	values map[string]string
}

// Snapshot flattens the general, detector, preprocessor, masker, and
// denoiser groups. Paths and logging are deliberately absent.
func (p *Profile) Snapshot() Snapshot {
	s := Snapshot{values: make(map[string]string, 32)}

	s.add("general.preferred_file_type", p.General.PreferredFileType)
	s.add("general.preferred_mask_file_type", p.General.PreferredMaskFileType)
	s.add("general.input_height_lower_target", canonicalInt(p.General.InputHeightLowerTarget))
	s.add("general.input_height_upper_target", canonicalInt(p.General.InputHeightUpperTarget))

	s.add("detector.model_path", p.Detector.ModelPath)
	s.add("detector.confidence_threshold", canonicalFloat(p.Detector.ConfidenceThreshold))

	s.add("preprocessor.box_min_size", canonicalInt(p.Preprocessor.BoxMinSize))
	s.add("preprocessor.suspicious_box_min_size", canonicalInt(p.Preprocessor.SuspiciousBoxMinSize))
	s.add("preprocessor.box_padding_initial", canonicalInt(p.Preprocessor.BoxPaddingInitial))
	s.add("preprocessor.box_right_padding_initial", canonicalInt(p.Preprocessor.BoxRightPaddingInitial))
	s.add("preprocessor.box_padding_extended", canonicalInt(p.Preprocessor.BoxPaddingExtended))
	s.add("preprocessor.box_right_padding_extended", canonicalInt(p.Preprocessor.BoxRightPaddingExtended))
	s.add("preprocessor.box_reference_padding", canonicalInt(p.Preprocessor.BoxReferencePadding))
	s.add("preprocessor.ocr_enabled", canonicalBool(p.Preprocessor.OCREnabled))
	s.add("preprocessor.ocr_max_size", canonicalInt(p.Preprocessor.OCRMaxSize))
	s.add("preprocessor.ocr_blacklist_pattern", p.Preprocessor.OCRBlacklistPattern)

	s.add("masker.mask_growth_step_pixels", canonicalInt(p.Masker.MaskGrowthStepPixels))
	s.add("masker.mask_growth_steps", canonicalInt(p.Masker.MaskGrowthSteps))
	s.add("masker.min_mask_thickness", canonicalInt(p.Masker.MinMaskThickness))
	s.add("masker.off_white_max_threshold", canonicalInt(p.Masker.OffWhiteMaxThreshold))
	s.add("masker.mask_improvement_threshold", canonicalFloat(p.Masker.MaskImprovementThreshold))
	s.add("masker.mask_selection_fast", canonicalBool(p.Masker.MaskSelectionFast))
	s.add("masker.mask_max_standard_deviation", canonicalFloat(p.Masker.MaskMaxStandardDeviation))
	s.add("masker.debug_mask_color", p.Masker.DebugMaskColor)

	s.add("denoiser.denoising_enabled", canonicalBool(p.Denoiser.DenoisingEnabled))
	s.add("denoiser.noise_min_standard_deviation", canonicalFloat(p.Denoiser.NoiseMinStandardDeviation))
	s.add("denoiser.filter_strength", canonicalInt(p.Denoiser.FilterStrength))
	s.add("denoiser.color_filter_strength", canonicalInt(p.Denoiser.ColorFilterStrength))
	s.add("denoiser.template_window_size", canonicalInt(p.Denoiser.TemplateWindowSize))
	s.add("denoiser.search_window_size", canonicalInt(p.Denoiser.SearchWindowSize))

	return s
}

func (s *Snapshot) add(key, value string) {
	if _, dup := s.values[key]; !dup {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Keys returns the snapshot keys in declaration order.
func (s Snapshot) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Value returns the canonical string for key.
func (s Snapshot) Value(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of keys in the snapshot.
func (s Snapshot) Len() int {
	return len(s.keys)
}

func canonicalInt(v int) string {
	return strconv.Itoa(v)
}

func canonicalBool(v bool) string {
	return strconv.FormatBool(v)
}

// canonicalFloat uses the shortest representation that round-trips, so the
// same value always renders the same byte sequence.
func canonicalFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
