// Package frame converts between raw byte frames and pixel images.
package frame

import (
	"fmt"

	"github.com/pion/mediafx/pkg/pixel"
)

type Decoder interface {
	Decode(frame []byte, width, height int) (pixel.Image, error)
}

// decoderFunc is a proxy type for Decoder
type decoderFunc func(frame []byte, width, height int) (pixel.Image, error)

func (f decoderFunc) Decode(frame []byte, width, height int) (pixel.Image, error) {
	return f(frame, width, height)
}

type Encoder interface {
	// Encode appends the raw representation of img to dst.
	Encode(dst []byte, img pixel.Image) ([]byte, error)
}

type encoderFunc func(dst []byte, img pixel.Image) ([]byte, error)

func (f encoderFunc) Encode(dst []byte, img pixel.Image) ([]byte, error) {
	return f(dst, img)
}

// layouts maps every format to its pixel layout.
var layouts = map[Format]pixel.Format{
	FormatRGBA:      {Depth: pixel.Depth8, Components: pixel.ComponentsRGBA},
	FormatRGB24:     {Depth: pixel.Depth8, Components: pixel.ComponentsRGB},
	FormatGray:      {Depth: pixel.Depth8, Components: pixel.ComponentsAlpha},
	FormatRGBA64LE:  {Depth: pixel.Depth16, Components: pixel.ComponentsRGBA},
	FormatRGB48LE:   {Depth: pixel.Depth16, Components: pixel.ComponentsRGB},
	FormatGray16LE:  {Depth: pixel.Depth16, Components: pixel.ComponentsAlpha},
	FormatGrayF32LE: {Depth: pixel.DepthFloat, Components: pixel.ComponentsAlpha},
	FormatRGBAF32LE: {Depth: pixel.DepthFloat, Components: pixel.ComponentsRGBA},
}

// Layout returns the pixel format frames of f decode to.
func (f Format) Layout() (pixel.Format, bool) {
	l, ok := layouts[f]
	return l, ok
}

// ForPixel returns the raw format holding images of format p. Float RGB has
// no raw counterpart and is reported as unsupported.
func ForPixel(p pixel.Format) (Format, error) {
	for f, l := range layouts {
		if l == p {
			return f, nil
		}
	}
	return "", fmt.Errorf("no raw frame format for %s", p)
}

func NewDecoder(f Format) (Decoder, error) {
	var buildDecoder func(pixel.Components) decoderFunc

	layout, ok := layouts[f]
	if !ok {
		return nil, fmt.Errorf("%s is not supported", f)
	}

	switch layout.Depth {
	case pixel.Depth8:
		buildDecoder = decode8
	case pixel.Depth16:
		buildDecoder = decode16
	case pixel.DepthFloat:
		buildDecoder = decodeFloat
	}

	return buildDecoder(layout.Components), nil
}

func NewEncoder(f Format) (Encoder, error) {
	layout, ok := layouts[f]
	if !ok {
		return nil, fmt.Errorf("%s is not supported", f)
	}

	switch layout.Depth {
	case pixel.Depth8:
		return encode8(layout), nil
	case pixel.Depth16:
		return encode16(layout), nil
	}
	return encodeFloat(layout), nil
}
