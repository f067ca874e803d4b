package page

import "fmt"

// BoxKind selects one of the four box collections on a page.
type BoxKind int

const (
	// KindRaw holds detections as the detector reported them. Order is
	// significant: raw box indices appear in visualizations and analytics.
	KindRaw BoxKind = iota
	// KindExtended holds raw boxes grown by the extended padding.
	KindExtended
	// KindMergedExtended holds the extended boxes after overlap resolution.
	KindMergedExtended
	// KindReference holds generously padded boxes used to sample the
	// surrounding background during mask fitting.
	KindReference
)

// AllKinds lists the collections in processing order.
var AllKinds = [...]BoxKind{KindRaw, KindExtended, KindMergedExtended, KindReference}

func (k BoxKind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindExtended:
		return "extended"
	case KindMergedExtended:
		return "merged_extended"
	case KindReference:
		return "reference"
	}
	return fmt.Sprintf("BoxKind(%d)", int(k))
}
