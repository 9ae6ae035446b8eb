package video

import (
	"errors"
	"image"

	"golang.org/x/image/draw"

	"github.com/pion/mediafx/pkg/pixel"
)

// Scaler represents scaling algorithm
type Scaler draw.Scaler

// List of scaling algorithms
var (
	ScalerNearestNeighbor = Scaler(draw.NearestNeighbor)
	ScalerApproxBiLinear  = Scaler(draw.ApproxBiLinear)
	ScalerBiLinear        = Scaler(draw.BiLinear)
	ScalerCatmullRom      = Scaler(draw.CatmullRom)
)

var errInvalidSize = errors.New("scaling: both width and height are non-positive")

// ScalerByName returns the scaler called name: "nearest", "approxbilinear",
// "bilinear" or "catmullrom".
func ScalerByName(name string) (Scaler, bool) {
	s, ok := map[string]Scaler{
		"nearest":        ScalerNearestNeighbor,
		"approxbilinear": ScalerApproxBiLinear,
		"bilinear":       ScalerBiLinear,
		"catmullrom":     ScalerCatmullRom,
	}[name]
	return s, ok
}

// Scale returns video scaling transform.
// Setting scaler=nil to use default scaler. (ScalerNearestNeighbor)
// A non-positive width or height keeps the aspect ratio of incoming image.
//
// Frames of 16-bit formats are scaled to NRGBA64 or Gray16, other frames to
// NRGBA, so that every channel, alpha included, is resampled independently.
func Scale(width, height int, scaler Scaler) TransformFunc {
	return func(r Reader) Reader {
		if scaler == nil {
			scaler = ScalerNearestNeighbor
		}

		return ReaderFunc(func() (image.Image, func(), error) {
			if width <= 0 && height <= 0 {
				return nil, func() {}, errInvalidSize
			}

			img, release, err := r.Read()
			if err != nil {
				return nil, func() {}, err
			}

			bounds := img.Bounds()
			if bounds.Empty() {
				return img, release, nil
			}
			defer release()

			rect := image.Rect(0, 0, width, height)
			if height <= 0 {
				rect.Max.Y = bounds.Dy() * width / bounds.Dx()
			} else if width <= 0 {
				rect.Max.X = bounds.Dx() * height / bounds.Dy()
			}

			var dst draw.Image
			switch pixel.FormatOf(img) {
			case pixel.Format{Depth: pixel.Depth16, Components: pixel.ComponentsAlpha}:
				dst = image.NewGray16(rect)
			case pixel.Format{Depth: pixel.Depth16, Components: pixel.ComponentsRGBA}:
				dst = image.NewNRGBA64(rect)
			case pixel.Format{Depth: pixel.Depth8, Components: pixel.ComponentsAlpha}:
				dst = image.NewGray(rect)
			default:
				dst = image.NewNRGBA(rect)
			}

			scaler.Scale(dst, rect, img, bounds, draw.Src, nil)
			return dst, func() {}, nil
		})
	}
}
