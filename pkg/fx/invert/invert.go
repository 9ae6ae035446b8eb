// Package invert implements an effect replacing every channel of every pixel
// by its complement, out = max - in.
package invert

import (
	"context"
	"fmt"
	"image"

	"github.com/pion/logging"

	mflogging "github.com/pion/mediafx/internal/logging"
	"github.com/pion/mediafx/pkg/fx"
	"github.com/pion/mediafx/pkg/pixel"
)

const (
	ID = "net.sf.openfx:Invert"

	ParamMix        = "mix"
	ParamMaskInvert = "maskInvert"
)

// Invert writes max - src[c] into dst[c] for every channel, alpha included.
func Invert[T pixel.Sample](dst, src []T) {
	max := pixel.MaxValue[T]()
	for c := range dst {
		dst[c] = max - src[c]
	}
}

// Effect is the channel inverter. Source is mandatory, Mask is optional and
// only meant to be connected outside of the filter context.
type Effect struct {
	Source fx.Clip
	Mask   fx.Clip

	mix        *fx.DoubleParam
	maskInvert *fx.BoolParam

	log logging.LeveledLogger
}

// New creates an inverter reading from src.
func New(src fx.Clip) *Effect {
	_, log := mflogging.NewInstanceLogger("mediafx/fx/invert")
	return &Effect{
		Source:     src,
		mix:        fx.NewDoubleParam(ParamMix, 1, 0, 1),
		maskInvert: fx.NewBoolParam(ParamMaskInvert, false),
		log:        log,
	}
}

func (e *Effect) Describe() fx.Descriptor {
	return fx.Descriptor{
		ID:                      ID,
		Label:                   "Invert",
		Group:                   "Color",
		Contexts:                []fx.Context{fx.ContextFilter, fx.ContextGeneral},
		Depths:                  []pixel.Depth{pixel.Depth8, pixel.Depth16, pixel.DepthFloat},
		Components:              []pixel.Components{pixel.ComponentsAlpha, pixel.ComponentsRGB, pixel.ComponentsRGBA},
		SupportsTiles:           true,
		SupportsMultiResolution: true,
	}
}

func (e *Effect) Params() fx.ParamSet {
	return fx.ParamSet{e.mix, e.maskInvert}
}

// Mix is the weight of the inverted result against the source.
func (e *Effect) Mix() *fx.DoubleParam { return e.mix }

func (e *Effect) MaskInvert() *fx.BoolParam { return e.maskInvert }

func (e *Effect) Define(ctx context.Context, t int) (fx.Definition, error) {
	if e.Source == nil {
		return fx.Definition{}, fmt.Errorf("%s: %w: Source", ID, fx.ErrMissingClip)
	}

	img, err := e.Source.Fetch(ctx, t)
	if err != nil {
		return fx.Definition{}, err
	}

	def := fx.Definition{Format: e.Source.Format()}
	if !pixel.IsNil(img) {
		def.Rect = img.Bounds()
	}
	return def, nil
}

// IsIdentity reports the source as output when mix is zero.
func (e *Effect) IsIdentity(args fx.RenderArgs) (fx.Clip, int, bool) {
	if e.Source == nil || e.mix.Value() > 0 {
		return nil, 0, false
	}
	return e.Source, args.Time, true
}

func (e *Effect) Render(ctx context.Context, args fx.RenderArgs) error {
	dst := args.Output
	src, err := fx.Fetch(ctx, e.Source, args.Time, dst)
	if err != nil {
		e.log.Warnf("render at %d: %v", args.Time, err)
		return err
	}

	var mask pixel.Image
	if e.Mask != nil {
		if mask, err = e.Mask.Fetch(ctx, args.Time); err != nil {
			return fmt.Errorf("fetch %s at %d: %w", e.Mask.Name(), args.Time, err)
		}
	}
	mixer := fx.NewMixer(e.mix.Value(), mask, e.maskInvert.Value())

	switch d := dst.(type) {
	case *pixel.Buffer[uint8]:
		return process(ctx, d, fx.Buffer[uint8](src), mixer, args.Window)
	case *pixel.Buffer[uint16]:
		return process(ctx, d, fx.Buffer[uint16](src), mixer, args.Window)
	case *pixel.Buffer[float32]:
		return process(ctx, d, fx.Buffer[float32](src), mixer, args.Window)
	}

	err = fmt.Errorf("%s: %w: %s", ID, fx.ErrUnsupportedDepth, dst.Format().Depth)
	e.log.Warn(err.Error())
	return err
}

func process[T pixel.Sample](ctx context.Context, dst, src *pixel.Buffer[T], mixer *fx.Mixer, window image.Rectangle) error {
	window = window.Intersect(dst.Rect)
	tmp := make([]T, dst.Comps)
	return fx.ForEachRow(ctx, window, func(y int) {
		for x := window.Min.X; x < window.Max.X; x++ {
			out := dst.PixelAt(x, y)
			in := src.PixelAt(x, y)
			if in != nil {
				Invert(tmp, in)
			} else {
				clear(tmp)
			}
			fx.MixPixel(out, tmp, in, mixer.Alpha(x, y))
		}
	})
}
