package clip

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"strings"

	"github.com/pion/mediafx/pkg/fx"
	"github.com/pion/mediafx/pkg/pixel"
)

// PatternPrefix introduces a generated test pattern in Open paths, as in
// "pattern:640x480:250".
const PatternPrefix = "pattern:"

var errPatternSize = errors.New("pattern: width and height must be positive")

// Pattern is a generated clip of color bars above a gray gradation and a
// noise area. The noise changes every frame and is deterministic per time.
type Pattern struct {
	name   string
	frames fx.FrameRange
	base   *pixel.Buffer[uint8]

	noise image.Rectangle
}

// NewPattern creates a width x height RGBA pattern defined over frames.
func NewPattern(name string, width, height int, frames fx.FrameRange) (*Pattern, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", errPatternSize, width, height)
	}

	// 75% bars, as YCbCr.
	colors := [][3]byte{
		{235, 128, 128},
		{210, 16, 146},
		{170, 166, 16},
		{145, 54, 34},
		{107, 202, 222},
		{82, 90, 240},
		{41, 240, 110},
	}

	base := pixel.NewBuffer[uint8](image.Rect(0, 0, width, height), pixel.ComponentsRGBA)
	hColorBarEnd := height * 3 / 4
	wGradationEnd := width * 5 / 7
	for y := 0; y < hColorBarEnd; y++ {
		for x := 0; x < width; x++ {
			c := colors[x*7/width]
			r, g, b := color.YCbCrToRGB(uint8(uint16(c[0])*75/100), c[1], c[2])
			copy(base.PixelAt(x, y), []uint8{r, g, b, 0xff})
		}
	}
	for y := hColorBarEnd; y < height; y++ {
		for x := 0; x < wGradationEnd; x++ {
			v := uint8(x * 255 / wGradationEnd)
			copy(base.PixelAt(x, y), []uint8{v, v, v, 0xff})
		}
	}

	return &Pattern{
		name:   name,
		frames: frames,
		base:   base,
		noise:  image.Rect(wGradationEnd, hColorBarEnd, width, height),
	}, nil
}

// parsePattern reads the "WxH[:N]" part of a pattern path. N defaults to one
// frame.
func parsePattern(desc string, first int) (*Pattern, error) {
	var w, h int
	n := 1
	size, count, hasCount := strings.Cut(desc, ":")
	if _, err := fmt.Sscanf(size, "%dx%d", &w, &h); err != nil {
		return nil, fmt.Errorf("pattern %q: %w", desc, err)
	}
	if hasCount {
		if _, err := fmt.Sscanf(count, "%d", &n); err != nil || n < 1 {
			return nil, fmt.Errorf("pattern %q: bad frame count", desc)
		}
	}
	return NewPattern(PatternPrefix+desc, w, h, fx.FrameRange{Min: first, Max: first + n - 1})
}

func (p *Pattern) Name() string { return p.name }

func (p *Pattern) Format() pixel.Format { return p.base.Format() }

func (p *Pattern) FrameRange() fx.FrameRange { return p.frames }

// Fetch renders the frame at t into a new image.
func (p *Pattern) Fetch(ctx context.Context, t int) (pixel.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.frames.Contains(t) {
		return nil, nil
	}

	img := pixel.NewBuffer[uint8](p.base.Rect, p.base.Comps)
	copy(img.Pix, p.base.Pix)

	random := rand.New(rand.NewSource(int64(t)))
	for y := p.noise.Min.Y; y < p.noise.Max.Y; y++ {
		for x := p.noise.Min.X; x < p.noise.Max.X; x++ {
			v := uint8(random.Int31n(2) * 255)
			copy(img.PixelAt(x, y), []uint8{v, v, v, 0xff})
		}
	}
	return img, nil
}
