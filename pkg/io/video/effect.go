package video

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/pion/mediafx/pkg/fx"
	"github.com/pion/mediafx/pkg/pixel"
)

// FromEffect returns a Reader rendering e at every time of frames in order.
// The reader returns io.EOF once frames.Max has been read.
func FromEffect(ctx context.Context, e fx.Effect, frames fx.FrameRange, opts ...fx.RenderOption) Reader {
	t := frames.Min
	return ReaderFunc(func() (image.Image, func(), error) {
		if t > frames.Max {
			return nil, func() {}, io.EOF
		}

		out, err := fx.Render(ctx, e, t, image.Rectangle{}, opts...)
		if err != nil {
			return nil, func() {}, fmt.Errorf("render frame %d: %w", t, err)
		}
		t++
		return pixel.ToImage(out), func() {}, nil
	})
}
