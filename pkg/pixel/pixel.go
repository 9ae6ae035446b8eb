package pixel

import (
	"fmt"
	"image"
	"math"
)

// Depth is the storage type of a single channel sample.
type Depth int

const (
	DepthNone Depth = iota
	// Depth8 stores samples as uint8, max value 255
	Depth8
	// Depth16 stores samples as uint16, max value 65535
	Depth16
	// DepthFloat stores samples as float32, max value 1.0
	DepthFloat
)

func (d Depth) String() string {
	switch d {
	case Depth8:
		return "8-bit"
	case Depth16:
		return "16-bit"
	case DepthFloat:
		return "float"
	}
	return fmt.Sprintf("Depth(%d)", int(d))
}

// Valid reports whether d is one of the supported depths.
func (d Depth) Valid() bool {
	return d == Depth8 || d == Depth16 || d == DepthFloat
}

// Components is the number of channels per pixel.
type Components int

const (
	ComponentsNone  Components = 0
	ComponentsAlpha Components = 1
	ComponentsRGB   Components = 3
	ComponentsRGBA  Components = 4
)

func (c Components) String() string {
	switch c {
	case ComponentsAlpha:
		return "A"
	case ComponentsRGB:
		return "RGB"
	case ComponentsRGBA:
		return "RGBA"
	}
	return fmt.Sprintf("Components(%d)", int(c))
}

// Valid reports whether c is one of the supported layouts.
func (c Components) Valid() bool {
	return c == ComponentsAlpha || c == ComponentsRGB || c == ComponentsRGBA
}

// Format describes the memory layout of a pixel.
type Format struct {
	Depth      Depth
	Components Components
}

func (f Format) String() string {
	return fmt.Sprintf("%s %s", f.Components, f.Depth)
}

// Sample is the set of channel types a Buffer can hold.
type Sample interface {
	uint8 | uint16 | float32
}

// DepthOf returns the Depth matching T.
func DepthOf[T Sample]() Depth {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Depth8
	case uint16:
		return Depth16
	case float32:
		return DepthFloat
	}
	return DepthNone
}

// MaxValue returns the largest representable channel value for T:
// 255, 65535 or 1.0.
func MaxValue[T Sample]() T {
	var m T
	switch p := any(&m).(type) {
	case *uint8:
		*p = math.MaxUint8
	case *uint16:
		*p = math.MaxUint16
	case *float32:
		*p = 1
	}
	return m
}

// FromFloat converts v to T. Integer samples are rounded and clamped to
// [0, MaxValue]; float samples are stored as is.
func FromFloat[T Sample](v float64) T {
	var s T
	switch p := any(&s).(type) {
	case *uint8:
		*p = uint8(clampRound(v, math.MaxUint8))
	case *uint16:
		*p = uint16(clampRound(v, math.MaxUint16))
	case *float32:
		*p = float32(v)
	}
	return s
}

func clampRound(v, max float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= max {
		return max
	}
	return math.Floor(v + 0.5)
}

// Image is a host-owned pixel buffer of any supported format.
type Image interface {
	Bounds() image.Rectangle
	Format() Format
}

// Buffer is a 2D grid of pixels with Comps interleaved channels of type T.
type Buffer[T Sample] struct {
	// Pix holds the samples. The first sample of the pixel at (x, y) is
	// Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*Comps].
	Pix []T
	// Stride is the number of samples between vertically adjacent pixels.
	Stride int
	Rect   image.Rectangle
	Comps  Components
}

// NewBuffer allocates a zeroed buffer covering r.
func NewBuffer[T Sample](r image.Rectangle, c Components) *Buffer[T] {
	stride := r.Dx() * int(c)
	return &Buffer[T]{
		Pix:    make([]T, stride*r.Dy()),
		Stride: stride,
		Rect:   r,
		Comps:  c,
	}
}

// New allocates a zeroed image of format f covering r.
func New(f Format, r image.Rectangle) (Image, error) {
	if !f.Components.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedComponents, f.Components)
	}

	switch f.Depth {
	case Depth8:
		return NewBuffer[uint8](r, f.Components), nil
	case Depth16:
		return NewBuffer[uint16](r, f.Components), nil
	case DepthFloat:
		return NewBuffer[float32](r, f.Components), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedDepth, f.Depth)
}

func (b *Buffer[T]) Bounds() image.Rectangle { return b.Rect }

func (b *Buffer[T]) Format() Format {
	return Format{Depth: DepthOf[T](), Components: b.Comps}
}

// PixOffset returns the index of the first sample of the pixel at (x, y).
func (b *Buffer[T]) PixOffset(x, y int) int {
	return (y-b.Rect.Min.Y)*b.Stride + (x-b.Rect.Min.X)*int(b.Comps)
}

// PixelAt returns the channels of the pixel at (x, y), or nil if the pixel
// lies outside of the buffer.
func (b *Buffer[T]) PixelAt(x, y int) []T {
	if b == nil || !(image.Point{x, y}.In(b.Rect)) {
		return nil
	}
	i := b.PixOffset(x, y)
	return b.Pix[i : i+int(b.Comps) : i+int(b.Comps)]
}

// Row returns the samples of row y between x0 and x1, clipped to the buffer.
// The returned x0 is the first column actually covered.
func (b *Buffer[T]) Row(y, x0, x1 int) ([]T, int) {
	if b == nil || y < b.Rect.Min.Y || y >= b.Rect.Max.Y {
		return nil, x0
	}
	if x0 < b.Rect.Min.X {
		x0 = b.Rect.Min.X
	}
	if x1 > b.Rect.Max.X {
		x1 = b.Rect.Max.X
	}
	if x1 <= x0 {
		return nil, x0
	}
	return b.Pix[b.PixOffset(x0, y):b.PixOffset(x1, y)], x0
}

// Fill sets every channel of every pixel inside r to v.
func (b *Buffer[T]) Fill(r image.Rectangle, v T) {
	r = r.Intersect(b.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.Pix[b.PixOffset(r.Min.X, y):b.PixOffset(r.Max.X, y)]
		for i := range row {
			row[i] = v
		}
	}
}

// CheckFormat verifies that src can be copied into dst sample by sample.
// A nil src is always compatible.
func CheckFormat(src, dst Image) error {
	if IsNil(src) {
		return nil
	}
	sf, df := src.Format(), dst.Format()
	if !df.Depth.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedDepth, df.Depth)
	}
	if sf != df {
		return &FormatMismatchError{Src: sf, Dst: df}
	}
	return nil
}

func isNil(img Image) bool {
	switch b := img.(type) {
	case *Buffer[uint8]:
		return b == nil
	case *Buffer[uint16]:
		return b == nil
	case *Buffer[float32]:
		return b == nil
	}
	return false
}

// IsNil reports whether img is nil or a typed nil buffer.
func IsNil(img Image) bool {
	return img == nil || isNil(img)
}
