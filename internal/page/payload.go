package page

import (
	"encoding/json"
	"fmt"
	"os"

	"cleanplate/internal/geometry"
)

// Load reads a page payload written by the detector or a previous run.
// The cached size is left unresolved; callers probe it when they need it.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page payload: %w", err)
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse page payload %s: %w", path, err)
	}
	// Absent collections come back nil; keep them as empty sets so the
	// payload round-trips as [] rather than null.
	for _, kind := range AllKinds {
		if boxes := d.boxesRef(kind); *boxes == nil {
			*boxes = []geometry.Box{}
		}
	}
	return &d, nil
}

// Write stores the payload as indented JSON so cached artifacts stay
// readable when debugging a page by hand.
func (d *Data) Write(path string) error {
	for _, kind := range AllKinds {
		if boxes := d.boxesRef(kind); *boxes == nil {
			*boxes = []geometry.Box{}
		}
	}
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode page payload: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write page payload: %w", err)
	}
	return nil
}
