package fx

import (
	"context"
	"fmt"
	"image"

	"github.com/pion/mediafx/pkg/pixel"
)

// Copy copies the pixels of src inside window into dst. Pixels of window
// outside of src, or all of them when src is nil, are set to zero.
func Copy(ctx context.Context, dst, src pixel.Image, window image.Rectangle) error {
	if err := pixel.CheckFormat(src, dst); err != nil {
		return err
	}

	switch d := dst.(type) {
	case *pixel.Buffer[uint8]:
		return copyBuffer(ctx, d, Buffer[uint8](src), window)
	case *pixel.Buffer[uint16]:
		return copyBuffer(ctx, d, Buffer[uint16](src), window)
	case *pixel.Buffer[float32]:
		return copyBuffer(ctx, d, Buffer[float32](src), window)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedDepth, dst.Format().Depth)
}

func copyBuffer[T pixel.Sample](ctx context.Context, dst, src *pixel.Buffer[T], window image.Rectangle) error {
	window = window.Intersect(dst.Rect)
	comps := int(dst.Comps)
	return ForEachRow(ctx, window, func(y int) {
		out, _ := dst.Row(y, window.Min.X, window.Max.X)
		in, x0 := src.Row(y, window.Min.X, window.Max.X)
		if len(in) != len(out) {
			clear(out)
		}
		if in != nil {
			copy(out[(x0-window.Min.X)*comps:], in)
		}
	})
}

// Buffer returns img as a *pixel.Buffer[T], or nil when img is nil or holds
// another sample type.
func Buffer[T pixel.Sample](img pixel.Image) *pixel.Buffer[T] {
	b, _ := img.(*pixel.Buffer[T])
	return b
}
