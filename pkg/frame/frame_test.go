package frame

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion/mediafx/pkg/pixel"
)

func TestDecodeEncode(t *testing.T) {
	const (
		width  = 2
		height = 1
	)

	cases := map[Format]struct {
		input    []byte
		expected pixel.Image
	}{
		FormatRGBA: {
			input: []byte{1, 2, 3, 4, 5, 6, 7, 8},
			expected: &pixel.Buffer[uint8]{
				Pix: []uint8{1, 2, 3, 4, 5, 6, 7, 8}, Stride: 8,
				Rect: image.Rect(0, 0, width, height), Comps: pixel.ComponentsRGBA,
			},
		},
		FormatGray: {
			input: []byte{0x10, 0x20},
			expected: &pixel.Buffer[uint8]{
				Pix: []uint8{0x10, 0x20}, Stride: 2,
				Rect: image.Rect(0, 0, width, height), Comps: pixel.ComponentsAlpha,
			},
		},
		FormatGray16LE: {
			input: []byte{0x34, 0x12, 0xff, 0x00},
			expected: &pixel.Buffer[uint16]{
				Pix: []uint16{0x1234, 0x00ff}, Stride: 2,
				Rect: image.Rect(0, 0, width, height), Comps: pixel.ComponentsAlpha,
			},
		},
		FormatGrayF32LE: {
			input: []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0x3f},
			expected: &pixel.Buffer[float32]{
				Pix: []float32{1, 0.5}, Stride: 2,
				Rect: image.Rect(0, 0, width, height), Comps: pixel.ComponentsAlpha,
			},
		},
	}

	for f, c := range cases {
		f, c := f, c
		t.Run(string(f), func(t *testing.T) {
			decoder, err := NewDecoder(f)
			require.NoError(t, err)

			_, err = decoder.Decode([]byte{0x00}, width, height)
			var short *InsufficientBufferError
			require.True(t, errors.As(err, &short), "expected to get a frame length mismatch")
			assert.Equal(t, 1, short.Size)
			assert.Equal(t, Size(f, width, height), short.RequiredSize)

			img, err := decoder.Decode(c.input, width, height)
			require.NoError(t, err)
			assert.Equal(t, c.expected, img)
			assert.Equal(t, len(c.input), Size(f, width, height))

			encoder, err := NewEncoder(f)
			require.NoError(t, err)
			raw, err := encoder.Encode(nil, img)
			require.NoError(t, err)
			assert.Equal(t, c.input, raw)
		})
	}
}

func TestEncodeSubImageRows(t *testing.T) {
	img := &pixel.Buffer[uint8]{
		Pix:    []uint8{1, 2, 9, 3, 4, 9},
		Stride: 3,
		Rect:   image.Rect(0, 0, 2, 2),
		Comps:  pixel.ComponentsAlpha,
	}
	encoder, err := NewEncoder(FormatGray)
	require.NoError(t, err)

	raw, err := encoder.Encode([]byte{0xaa}, img)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 1, 2, 3, 4}, raw)
}

func TestEncodeLayoutMismatch(t *testing.T) {
	encoder, err := NewEncoder(FormatRGBA)
	require.NoError(t, err)

	_, err = encoder.Encode(nil, pixel.NewBuffer[uint16](image.Rect(0, 0, 1, 1), pixel.ComponentsRGBA))
	assert.True(t, errors.Is(err, pixel.ErrFormatMismatch))
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := NewDecoder(Format("yuv420p"))
	assert.Error(t, err)
	_, err = NewEncoder(Format("yuv420p"))
	assert.Error(t, err)
	assert.Equal(t, 0, Size(Format("yuv420p"), 2, 2))
}

func TestForPixel(t *testing.T) {
	f, err := ForPixel(pixel.Format{Depth: pixel.Depth16, Components: pixel.ComponentsRGB})
	require.NoError(t, err)
	assert.Equal(t, FormatRGB48LE, f)

	layout, ok := f.Layout()
	assert.True(t, ok)
	assert.Equal(t, pixel.Depth16, layout.Depth)

	_, err = ForPixel(pixel.Format{Depth: pixel.DepthFloat, Components: pixel.ComponentsRGB})
	assert.Error(t, err)
}
