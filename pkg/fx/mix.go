package fx

import (
	"github.com/pion/mediafx/pkg/pixel"
)

// Mixer blends an effect result with the original source, weighted by a
// scalar mix and an optional mask image.
type Mixer struct {
	mix  float64
	mask func(x, y int) float64
}

// NewMixer creates a Mixer. The mask value at a pixel is the last channel of
// the mask pixel normalized to [0, 1], or 0 where mask has no pixel. invert
// replaces the mask value m with 1-m. A nil mask weighs every pixel by mix
// alone.
func NewMixer(mix float64, mask pixel.Image, invert bool) *Mixer {
	m := &Mixer{mix: mix}
	if pixel.IsNil(mask) {
		return m
	}

	switch b := mask.(type) {
	case *pixel.Buffer[uint8]:
		m.mask = maskReader(b, invert)
	case *pixel.Buffer[uint16]:
		m.mask = maskReader(b, invert)
	case *pixel.Buffer[float32]:
		m.mask = maskReader(b, invert)
	}
	return m
}

func maskReader[T pixel.Sample](b *pixel.Buffer[T], invert bool) func(x, y int) float64 {
	max := float64(pixel.MaxValue[T]())
	last := int(b.Comps) - 1
	return func(x, y int) float64 {
		var v float64
		if p := b.PixelAt(x, y); p != nil {
			v = float64(p[last]) / max
		}
		if invert {
			v = 1 - v
		}
		return v
	}
}

// Identity reports whether the mixer always yields the original source.
func (m *Mixer) Identity() bool {
	return m.mix <= 0
}

// Alpha returns the weight of the effect result at (x, y).
func (m *Mixer) Alpha(x, y int) float64 {
	if m.mask == nil {
		return m.mix
	}
	return m.mix * m.mask(x, y)
}

// MixPixel writes src + (tmp - src) * alpha into dst channel by channel.
// A nil src is treated as all zero.
func MixPixel[T pixel.Sample](dst, tmp, src []T, alpha float64) {
	switch {
	case alpha >= 1:
		copy(dst, tmp)
	case alpha <= 0 && src == nil:
		var zero T
		for c := range dst {
			dst[c] = zero
		}
	case alpha <= 0:
		copy(dst, src)
	case src == nil:
		for c := range dst {
			dst[c] = pixel.FromFloat[T](float64(tmp[c]) * alpha)
		}
	default:
		for c := range dst {
			s := float64(src[c])
			dst[c] = pixel.FromFloat[T](s + (float64(tmp[c])-s)*alpha)
		}
	}
}
