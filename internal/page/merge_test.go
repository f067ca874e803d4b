package page

import (
	"testing"

	"cleanplate/internal/geometry"
)

func boxSet(boxes []geometry.Box) map[geometry.Box]struct{} {
	set := make(map[geometry.Box]struct{}, len(boxes))
	for _, b := range boxes {
		set[b] = struct{}{}
	}
	return set
}

func TestMergeOverlappingClusters(t *testing.T) {
	input := []geometry.Box{
		geometry.New(0, 0, 10, 10),
		geometry.New(5, 5, 15, 15),
		geometry.New(100, 100, 110, 110),
		geometry.New(102, 102, 108, 108),
	}
	got := boxSet(MergeOverlapping(input))
	want := boxSet([]geometry.Box{
		geometry.New(0, 0, 15, 15),
		geometry.New(100, 100, 110, 110),
	})
	if len(got) != len(want) {
		t.Fatalf("merged %d boxes, want %d: %v", len(got), len(want), got)
	}
	for b := range want {
		if _, ok := got[b]; !ok {
			t.Fatalf("merged set missing %v: %v", b, got)
		}
	}
}

func TestMergeOverlappingCollapsesDuplicates(t *testing.T) {
	b := geometry.New(3, 3, 9, 9)
	got := MergeOverlapping([]geometry.Box{b, b, b})
	if len(got) != 1 || got[0] != b {
		t.Fatalf("merged duplicates = %v, want [%v]", got, b)
	}
}

func TestMergeOverlappingChainAbsorbsEarlierResult(t *testing.T) {
	// The three boxes on the edges chain into a union covering the whole
	// area, which then swallows the small center box no matter which box
	// the pass popped first.
	input := []geometry.Box{
		geometry.New(4, 4, 6, 6),
		geometry.New(0, 0, 10, 2),
		geometry.New(9, 0, 10, 9),
		geometry.New(0, 8, 10, 10),
	}
	got := MergeOverlapping(input)
	if len(got) != 1 || got[0] != geometry.New(0, 0, 10, 10) {
		t.Fatalf("merged chain = %v, want [(0, 0)-(10, 10)]", got)
	}
}

func TestMergeOverlappingOutputIsPairwiseDisjoint(t *testing.T) {
	input := []geometry.Box{
		geometry.New(0, 0, 4, 4),
		geometry.New(4, 4, 8, 8),
		geometry.New(20, 0, 24, 4),
		geometry.New(30, 30, 34, 34),
		geometry.New(33, 33, 40, 40),
		geometry.New(39, 25, 44, 44),
		geometry.New(1, 1, 2, 2),
	}
	got := MergeOverlapping(input)
	for i := 0; i < len(got); i++ {
		for j := i + 1; j < len(got); j++ {
			if got[i].Overlaps(got[j]) {
				t.Fatalf("output boxes %v and %v overlap", got[i], got[j])
			}
		}
	}
}

func TestMergeOverlappingIsIdempotent(t *testing.T) {
	input := []geometry.Box{
		geometry.New(0, 0, 10, 10),
		geometry.New(5, 5, 15, 15),
		geometry.New(40, 40, 50, 50),
	}
	once := MergeOverlapping(input)
	twice := MergeOverlapping(once)
	if len(once) != len(twice) {
		t.Fatalf("second merge changed count: %v vs %v", once, twice)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("second merge changed boxes: %v vs %v", once, twice)
		}
	}
}

func TestMergeOverlappingEmptyInput(t *testing.T) {
	got := MergeOverlapping(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("MergeOverlapping(nil) = %v, want empty non-nil slice", got)
	}
}

func TestResolveOverlapsReplacesMergedWholesale(t *testing.T) {
	d := &Data{
		Extended: []geometry.Box{
			geometry.New(0, 0, 10, 10),
			geometry.New(5, 5, 15, 15),
		},
		MergedExtended: []geometry.Box{geometry.New(999, 999, 1000, 1000)},
	}
	d.ResolveOverlaps()
	if len(d.MergedExtended) != 1 || d.MergedExtended[0] != geometry.New(0, 0, 15, 15) {
		t.Fatalf("ResolveOverlaps = %v, want [(0, 0)-(15, 15)]", d.MergedExtended)
	}
}
