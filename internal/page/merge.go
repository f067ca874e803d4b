package page

import (
	"sort"

	"cleanplate/internal/geometry"
)

// ResolveOverlaps rebuilds the merged-extended collection from the extended
// boxes. It is the only operation that replaces MergedExtended; nothing else
// edits that collection piecemeal.
func (d *Data) ResolveOverlaps() {
	d.MergedExtended = MergeOverlapping(d.Extended)
}

// MergeOverlapping collapses a box collection into pairwise non-overlapping
// unions. The input is treated as a set, so duplicates merge into one box.
// Quadratic in the number of boxes, which stays small per page.
func MergeOverlapping(boxes []geometry.Box) []geometry.Box {
	merged := mergePass(boxes)
	// Absorbing a chain of boxes can grow a union until it covers an earlier
	// result, so repeat until the set stops shrinking.
	for {
		next := mergePass(merged)
		if len(next) == len(merged) {
			merged = next
			break
		}
		merged = next
	}
	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Y1 != b.Y1 {
			return a.Y1 < b.Y1
		}
		if a.X1 != b.X1 {
			return a.X1 < b.X1
		}
		if a.Y2 != b.Y2 {
			return a.Y2 < b.Y2
		}
		return a.X2 < b.X2
	})
	return merged
}

func mergePass(boxes []geometry.Box) []geometry.Box {
	pending := make(map[geometry.Box]struct{}, len(boxes))
	for _, b := range boxes {
		pending[b] = struct{}{}
	}
	merged := make([]geometry.Box, 0, len(pending))
	for len(pending) > 0 {
		var current geometry.Box
		for b := range pending {
			current = b
			break
		}
		delete(pending, current)
		// Union with every overlapping partner, rescanning because the
		// grown box can reach boxes it did not touch before.
		for {
			absorbed := false
			for b := range pending {
				if current.Overlaps(b) {
					current = current.Union(b)
					delete(pending, b)
					absorbed = true
				}
			}
			if !absorbed {
				break
			}
		}
		merged = append(merged, current)
	}
	return merged
}
