package denoiser

import (
	"encoding/json"
	"fmt"
	"os"

	"cleanplate/internal/geometry"
)

// Payload is the handoff from the masker to the denoiser, cached as JSON
// next to the page's other artifacts. Paths point at the working copy, the
// composed mask, and the cleaned target written by the mask stage. Regions
// carry the deviation of every successful fit; the denoiser applies its own
// floor when deciding which ones to process.
type Payload struct {
	OriginalPath  string         `json:"original_path"`
	TargetPath    string         `json:"target_path"`
	BaseImagePath string         `json:"base_image_path"`
	MaskPath      string         `json:"mask_path"`
	Scale         float64        `json:"scale"`
	Regions       []BoxDeviation `json:"boxes_with_deviation"`
}

// BoxDeviation pairs a reference region with the deviation its mask fit
// scored. It serializes as a two element array, the box in its 4-tuple form
// followed by the deviation.
type BoxDeviation struct {
	Box       geometry.Box
	Deviation float64
}

// MarshalJSON encodes the pair as [[x1, y1, x2, y2], deviation].
func (b BoxDeviation) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{b.Box, b.Deviation})
}

// UnmarshalJSON decodes the pair form.
func (b *BoxDeviation) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode region deviation: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("decode region deviation: expected [box, deviation], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &b.Box); err != nil {
		return fmt.Errorf("decode region deviation: %w", err)
	}
	if err := json.Unmarshal(pair[1], &b.Deviation); err != nil {
		return fmt.Errorf("decode region deviation: %w", err)
	}
	return nil
}

// Deviations lists every fit deviation in region order. The full list feeds
// run reporting so the deviation floor can be judged against what the fits
// actually scored.
func (p *Payload) Deviations() []float64 {
	out := make([]float64, len(p.Regions))
	for i, region := range p.Regions {
		out[i] = region.Deviation
	}
	return out
}

// Load reads a denoise payload written by the mask stage.
func Load(path string) (*Payload, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read denoise payload: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse denoise payload %s: %w", path, err)
	}
	if p.Regions == nil {
		p.Regions = []BoxDeviation{}
	}
	return &p, nil
}

// Write stores the payload as indented JSON, matching the page payload's
// on-disk form.
func (p *Payload) Write(path string) error {
	if p.Regions == nil {
		p.Regions = []BoxDeviation{}
	}
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode denoise payload: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write denoise payload: %w", err)
	}
	return nil
}
