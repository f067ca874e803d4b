package pipeline_test

import (
	"path/filepath"
	"testing"

	"cleanplate/internal/pipeline"
)

func TestArtifactsDeriveFromTheSourceStem(t *testing.T) {
	art := pipeline.ArtifactsFor("/cache", "/out", "/pages/ch01/0042.jpg")

	cases := []struct {
		got  string
		want string
	}{
		{art.WorkingCopy(), "/cache/0042.png"},
		{art.RawPayload(), "/cache/0042.json"},
		{art.AIMask(), "/cache/0042_mask.png"},
		{art.InitialBoxes(), "/cache/0042_boxes.png"},
		{art.FinalBoxes(), "/cache/0042_boxes_final.png"},
		{art.RefinedPayload(), "/cache/0042_clean.json"},
		{art.BoxMask(), "/cache/0042_box_mask.png"},
		{art.CutMask(), "/cache/0042_cut_mask.png"},
		{art.MaskLayers(), "/cache/0042_mask_layers.png"},
		{art.FinalMask(), "/cache/0042_combined_mask.png"},
		{art.MaskOverlay(), "/cache/0042_with_masks.png"},
		{art.MaskedImage(), "/cache/0042_clean.png"},
		{art.MaskData(), "/cache/0042_mask_data.json"},
		{art.DenoiserMask(), "/cache/0042_mask_denoised.png"},
		{art.DenoisedImage(), "/cache/0042_denoised.png"},
	}
	for _, tc := range cases {
		if tc.got != filepath.FromSlash(tc.want) {
			t.Errorf("artifact path = %s, want %s", tc.got, tc.want)
		}
	}
}

func TestExportPathsHonorPreferredTypes(t *testing.T) {
	art := pipeline.ArtifactsFor("/cache", "/out", "/pages/0042.jpg")

	if got, want := art.ExportClean("/pages/0042.jpg", ""), filepath.FromSlash("/out/0042.jpg"); got != want {
		t.Fatalf("clean export without preference = %s, want %s", got, want)
	}
	if got, want := art.ExportClean("/pages/0042.jpg", "png"), filepath.FromSlash("/out/0042.png"); got != want {
		t.Fatalf("clean export with preference = %s, want %s", got, want)
	}
	if got, want := art.ExportMask(""), filepath.FromSlash("/out/0042_mask.png"); got != want {
		t.Fatalf("mask export default = %s, want %s", got, want)
	}
	if got, want := art.ExportMask("tiff"), filepath.FromSlash("/out/0042_mask.tiff"); got != want {
		t.Fatalf("mask export with preference = %s, want %s", got, want)
	}
}
