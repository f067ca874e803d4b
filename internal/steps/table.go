package steps

import "fmt"

// Output identifies one cached artifact a pipeline stage produces.
type Output string

const (
	OutputInput         Output = "input"
	OutputAIMask        Output = "ai_mask"
	OutputInitialBoxes  Output = "initial_boxes"
	OutputFinalBoxes    Output = "final_boxes"
	OutputBoxMask       Output = "box_mask"
	OutputCutMask       Output = "cut_mask"
	OutputMaskLayers    Output = "mask_layers"
	OutputFinalMask     Output = "final_mask"
	OutputMaskOverlay   Output = "mask_overlay"
	OutputMaskedImage   Output = "masked_image"
	OutputDenoiserMask  Output = "denoiser_mask"
	OutputDenoisedImage Output = "denoised_image"
)

// CanonicalOrder lists every output in production order. Table construction,
// staleness cascades, and status listings all follow this order.
var CanonicalOrder = []Output{
	OutputInput,
	OutputAIMask,
	OutputInitialBoxes,
	OutputFinalBoxes,
	OutputBoxMask,
	OutputCutMask,
	OutputMaskLayers,
	OutputFinalMask,
	OutputMaskOverlay,
	OutputMaskedImage,
	OutputDenoiserMask,
	OutputDenoisedImage,
}

var descriptions = map[Output]string{
	OutputInput:         "working copy of the source page",
	OutputAIMask:        "raw text mask from the detector",
	OutputInitialBoxes:  "filtered and lightly padded detections",
	OutputFinalBoxes:    "extended, merged, and reference boxes",
	OutputBoxMask:       "binary mask of the merged box areas",
	OutputCutMask:       "detector mask cut to the box areas",
	OutputMaskLayers:    "mask growth candidates",
	OutputFinalMask:     "selected page mask",
	OutputMaskOverlay:   "debug overlay of the selected mask",
	OutputMaskedImage:   "working copy with the mask applied",
	OutputDenoiserMask:  "mask of regions left for denoising",
	OutputDenoisedImage: "masked image with noisy regions denoised",
}

// stageAdditions lists the profile keys each output newly depends on, over
// and above everything inherited from earlier outputs. Keys must match the
// profile snapshot; the table test cross-checks them against a default
// snapshot so a profile rename cannot drift past this list unnoticed.
var stageAdditions = map[Output][]string{
	OutputInput: {
		"general.preferred_file_type",
		"general.input_height_lower_target",
		"general.input_height_upper_target",
	},
	OutputAIMask: {
		"detector.model_path",
		"detector.confidence_threshold",
	},
	OutputInitialBoxes: {
		"preprocessor.box_min_size",
		"preprocessor.suspicious_box_min_size",
		"preprocessor.box_padding_initial",
		"preprocessor.box_right_padding_initial",
	},
	OutputFinalBoxes: {
		"preprocessor.box_padding_extended",
		"preprocessor.box_right_padding_extended",
		"preprocessor.box_reference_padding",
		"preprocessor.ocr_enabled",
		"preprocessor.ocr_max_size",
		"preprocessor.ocr_blacklist_pattern",
	},
	OutputBoxMask: {},
	OutputCutMask: {
		"masker.mask_growth_step_pixels",
		"masker.mask_growth_steps",
	},
	OutputMaskLayers: {
		"masker.min_mask_thickness",
	},
	OutputFinalMask: {
		"masker.off_white_max_threshold",
		"masker.mask_improvement_threshold",
		"masker.mask_selection_fast",
		"masker.mask_max_standard_deviation",
	},
	OutputMaskOverlay: {
		"masker.debug_mask_color",
	},
	OutputMaskedImage: {
		"general.preferred_mask_file_type",
	},
	OutputDenoiserMask: {
		"denoiser.denoising_enabled",
		"denoiser.noise_min_standard_deviation",
	},
	OutputDenoisedImage: {
		"denoiser.filter_strength",
		"denoiser.color_filter_strength",
		"denoiser.template_window_size",
		"denoiser.search_window_size",
	},
}

// Table holds the sensitivity trackers for every output of one page. The
// membership is fixed at construction; stages are never added or removed
// while a page is in flight.
type Table struct {
	steps map[Output]*Step
}

// NewTable builds trackers for all outputs with cumulative sensitivity:
// each output tracks its own additions plus everything earlier outputs
// track.
func NewTable() *Table {
	var cumulative []string
	table := &Table{steps: make(map[Output]*Step, len(CanonicalOrder))}
	for _, output := range CanonicalOrder {
		cumulative = append(cumulative, stageAdditions[output]...)
		table.steps[output] = NewStep(descriptions[output], cumulative...)
	}
	return table
}

// Step returns the tracker for output. Panics on an output the table does
// not define; that is a programming error, not an input condition.
func (t *Table) Step(output Output) *Step {
	step, ok := t.steps[output]
	if !ok {
		panic(fmt.Sprintf("steps: undefined output %q", output))
	}
	return step
}

// Outputs returns the table's outputs in canonical order.
func (t *Table) Outputs() []Output {
	out := make([]Output, len(CanonicalOrder))
	copy(out, CanonicalOrder)
	return out
}
