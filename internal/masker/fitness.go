package masker

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// medianColor carries the per-channel median of the outline samples.
type medianColor struct {
	c colorful.Color
}

func (m medianColor) hex() string { return m.c.Hex() }

// snap converts the median to a fill color, collapsing near-white medians
// to pure white so light paper textures fill cleanly.
func (m medianColor) snap(offWhiteThreshold int) color.NRGBA {
	r, g, b := m.c.RGB255()
	if int(r) >= offWhiteThreshold && int(g) >= offWhiteThreshold && int(b) >= offWhiteThreshold {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// outlineFitness scores a candidate by the page pixels one step outside its
// edge: deviation is the pooled standard deviation of the sampled channel
// values on the 0-255 scale, median the per-channel median of the samples.
func outlineFitness(base *image.NRGBA, mask *image.RGBA) (deviation float64, median medianColor, samples int) {
	bounds := mask.Bounds()
	var (
		rs, gs, bs []float64
		sum, sumSq float64
	)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if maskOnRGBA(mask, x, y) || !bordersMask(mask, x, y) {
				continue
			}
			px := base.NRGBAAt(x, y)
			for _, v := range [3]uint8{px.R, px.G, px.B} {
				fv := float64(v)
				sum += fv
				sumSq += fv * fv
			}
			rs = append(rs, float64(px.R))
			gs = append(gs, float64(px.G))
			bs = append(bs, float64(px.B))
		}
	}

	samples = len(rs)
	if samples == 0 {
		return 0, medianColor{}, 0
	}

	n := float64(samples * 3)
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	deviation = math.Sqrt(variance)

	median = medianColor{c: colorful.Color{
		R: channelMedian(rs) / 255,
		G: channelMedian(gs) / 255,
		B: channelMedian(bs) / 255,
	}}
	return deviation, median, samples
}

func channelMedian(values []float64) float64 {
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}

func maskOnRGBA(m *image.RGBA, x, y int) bool {
	return m.RGBAAt(x, y).R >= 128
}

// bordersMask reports whether any 4-neighbor of (x, y) is a mask pixel.
func bordersMask(m *image.RGBA, x, y int) bool {
	b := m.Bounds()
	if x > b.Min.X && maskOnRGBA(m, x-1, y) {
		return true
	}
	if x < b.Max.X-1 && maskOnRGBA(m, x+1, y) {
		return true
	}
	if y > b.Min.Y && maskOnRGBA(m, x, y-1) {
		return true
	}
	if y < b.Max.Y-1 && maskOnRGBA(m, x, y+1) {
		return true
	}
	return false
}

func hasMaskPixels(m *image.NRGBA) bool {
	bounds := m.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if m.NRGBAAt(x, y).R >= 128 {
				return true
			}
		}
	}
	return false
}
