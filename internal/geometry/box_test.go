package geometry

import (
	"encoding/json"
	"testing"
)

func TestNewNormalizesCornerOrder(t *testing.T) {
	got := New(10, 12, 2, 4)
	want := Box{X1: 2, Y1: 4, X2: 10, Y2: 12}
	if got != want {
		t.Fatalf("New(10, 12, 2, 4) = %v, want %v", got, want)
	}
}

func TestGrowClampsToImageBounds(t *testing.T) {
	got := New(5, 5, 10, 10).Grow(3, 12, 12)
	want := Box{X1: 2, Y1: 2, X2: 12, Y2: 12}
	if got != want {
		t.Fatalf("Grow(3) = %v, want %v", got, want)
	}
}

func TestGrowNegativePaddingCollapsesToZeroSize(t *testing.T) {
	got := New(5, 5, 10, 10).Grow(-4, 100, 100)
	if got.Width() != 0 || got.Height() != 0 {
		t.Fatalf("Grow(-4) = %v, want zero-size box", got)
	}
	if got.X1 > got.X2 || got.Y1 > got.Y2 {
		t.Fatalf("Grow(-4) produced inverted coordinates: %v", got)
	}
}

func TestGrowNegativePaddingShrinks(t *testing.T) {
	got := New(10, 10, 30, 30).Grow(-5, 100, 100)
	want := Box{X1: 15, Y1: 15, X2: 25, Y2: 25}
	if got != want {
		t.Fatalf("Grow(-5) = %v, want %v", got, want)
	}
}

func TestRightPadOnlyMovesRightEdge(t *testing.T) {
	got := New(5, 5, 10, 10).RightPad(4, 12)
	want := Box{X1: 5, Y1: 5, X2: 12, Y2: 10}
	if got != want {
		t.Fatalf("RightPad(4) = %v, want %v", got, want)
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Box
		want bool
	}{
		{"separate", New(0, 0, 10, 10), New(20, 20, 30, 30), false},
		{"intersecting", New(0, 0, 10, 10), New(5, 5, 15, 15), true},
		{"touching edge", New(0, 0, 10, 10), New(10, 0, 20, 10), true},
		{"touching corner", New(0, 0, 10, 10), New(10, 10, 20, 20), true},
		{"contained", New(0, 0, 30, 30), New(5, 5, 10, 10), true},
		{"same", New(1, 2, 3, 4), New(1, 2, 3, 4), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestUnion(t *testing.T) {
	got := New(0, 0, 10, 10).Union(New(5, 5, 15, 15))
	want := Box{X1: 0, Y1: 0, X2: 15, Y2: 15}
	if got != want {
		t.Fatalf("Union = %v, want %v", got, want)
	}
}

func TestArea(t *testing.T) {
	if got := New(2, 3, 12, 7).Area(); got != 40 {
		t.Fatalf("Area = %d, want 40", got)
	}
	if got := New(5, 5, 5, 9).Area(); got != 0 {
		t.Fatalf("Area of zero-width box = %d, want 0", got)
	}
}

func TestScaleRoundsToNearestPixel(t *testing.T) {
	got := New(10, 10, 21, 21).Scale(0.5)
	want := Box{X1: 5, Y1: 5, X2: 11, Y2: 11}
	if got != want {
		t.Fatalf("Scale(0.5) = %v, want %v", got, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	b := New(1, 2, 3, 4)
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal box: %v", err)
	}
	if string(data) != "[1,2,3,4]" {
		t.Fatalf("marshal box = %s, want [1,2,3,4]", data)
	}
	var back Box
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal box: %v", err)
	}
	if back != b {
		t.Fatalf("round trip = %v, want %v", back, b)
	}
}

func TestUnmarshalRejectsWrongArity(t *testing.T) {
	var b Box
	if err := json.Unmarshal([]byte("[1,2,3]"), &b); err == nil {
		t.Fatal("expected error for 3-element box")
	}
	if err := json.Unmarshal([]byte(`"box"`), &b); err == nil {
		t.Fatal("expected error for non-array box")
	}
}
