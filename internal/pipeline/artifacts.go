package pipeline

import (
	"path/filepath"
	"strings"

	"cleanplate/internal/detector"
)

// Artifacts resolves where one page's cached stage outputs and final
// exports live. Cache names all derive from the working-copy stem, so
// detector output and pipeline output sit side by side in the cache
// directory.
type Artifacts struct {
	CacheDir  string
	OutputDir string
	Stem      string
}

// ArtifactsFor derives the artifact layout for a source page.
func ArtifactsFor(cacheDir, outputDir, sourcePath string) Artifacts {
	return Artifacts{
		CacheDir:  cacheDir,
		OutputDir: outputDir,
		Stem:      detector.Stem(sourcePath),
	}
}

func (a Artifacts) cache(suffix string) string {
	return filepath.Join(a.CacheDir, a.Stem+suffix)
}

// WorkingCopy is the resized page the detector and all later phases read.
func (a Artifacts) WorkingCopy() string { return a.cache(".png") }

// RawPayload is the page record as the detector left it.
func (a Artifacts) RawPayload() string { return a.cache(".json") }

// AIMask is the unprocessed text mask from the detector.
func (a Artifacts) AIMask() string { return a.cache("_mask.png") }

// InitialBoxes visualizes the filtered and padded detections.
func (a Artifacts) InitialBoxes() string { return a.cache("_boxes.png") }

// FinalBoxes visualizes all four box collections after refinement.
func (a Artifacts) FinalBoxes() string { return a.cache("_boxes_final.png") }

// RefinedPayload is the page record with the derived collections filled in.
// The raw payload stays untouched so refinement can always restart from the
// detector's view.
func (a Artifacts) RefinedPayload() string { return a.cache("_clean.json") }

// BoxMask is the binary mask of the merged extended boxes.
func (a Artifacts) BoxMask() string { return a.cache("_box_mask.png") }

// CutMask is the detector mask restricted to the merged extended boxes.
func (a Artifacts) CutMask() string { return a.cache("_cut_mask.png") }

// MaskLayers shows every growth candidate considered during fitting.
func (a Artifacts) MaskLayers() string { return a.cache("_mask_layers.png") }

// FinalMask is the selected mask composited across all regions.
func (a Artifacts) FinalMask() string { return a.cache("_combined_mask.png") }

// MaskOverlay tints the final mask over the working copy for inspection.
func (a Artifacts) MaskOverlay() string { return a.cache("_with_masks.png") }

// MaskedImage is the working copy with the final mask applied.
func (a Artifacts) MaskedImage() string { return a.cache("_clean.png") }

// MaskData is the denoise handoff payload.
func (a Artifacts) MaskData() string { return a.cache("_mask_data.json") }

// DenoiserMask is the denoised-patch layer with the final mask on top.
func (a Artifacts) DenoiserMask() string { return a.cache("_mask_denoised.png") }

// DenoisedImage is the masked image with noisy regions smoothed.
func (a Artifacts) DenoisedImage() string { return a.cache("_denoised.png") }

// ExportClean is where the cleaned page lands. An empty preferred type
// keeps the source extension.
func (a Artifacts) ExportClean(sourcePath, preferredType string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(sourcePath)), ".")
	if preferredType != "" {
		ext = preferredType
	}
	if ext == "" {
		ext = "png"
	}
	return filepath.Join(a.OutputDir, a.Stem+"."+ext)
}

// ExportMask is where the standalone mask export lands.
func (a Artifacts) ExportMask(maskType string) string {
	if maskType == "" {
		maskType = "png"
	}
	return filepath.Join(a.OutputDir, a.Stem+"_mask."+maskType)
}
