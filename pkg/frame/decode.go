package frame

import (
	"encoding/binary"
	"image"
	"math"

	"github.com/pion/mediafx/pkg/pixel"
)

func bytesPerSample(layout pixel.Format) int {
	switch layout.Depth {
	case pixel.Depth16:
		return 2
	case pixel.DepthFloat:
		return 4
	}
	return 1
}

func checkSize(frame []byte, size int) error {
	if size > len(frame) {
		return &InsufficientBufferError{Size: len(frame), RequiredSize: size}
	}
	return nil
}

// decode8 shares memory with frame.
func decode8(c pixel.Components) decoderFunc {
	return func(frame []byte, width, height int) (pixel.Image, error) {
		size := width * height * int(c)
		if err := checkSize(frame, size); err != nil {
			return nil, err
		}
		return &pixel.Buffer[uint8]{
			Pix:    frame[:size:size],
			Stride: width * int(c),
			Rect:   image.Rect(0, 0, width, height),
			Comps:  c,
		}, nil
	}
}

func decode16(c pixel.Components) decoderFunc {
	return func(frame []byte, width, height int) (pixel.Image, error) {
		img := pixel.NewBuffer[uint16](image.Rect(0, 0, width, height), c)
		if err := checkSize(frame, 2*len(img.Pix)); err != nil {
			return nil, err
		}
		for i := range img.Pix {
			img.Pix[i] = binary.LittleEndian.Uint16(frame[2*i:])
		}
		return img, nil
	}
}

func decodeFloat(c pixel.Components) decoderFunc {
	return func(frame []byte, width, height int) (pixel.Image, error) {
		img := pixel.NewBuffer[float32](image.Rect(0, 0, width, height), c)
		if err := checkSize(frame, 4*len(img.Pix)); err != nil {
			return nil, err
		}
		for i := range img.Pix {
			img.Pix[i] = math.Float32frombits(binary.LittleEndian.Uint32(frame[4*i:]))
		}
		return img, nil
	}
}

func checkLayout(img pixel.Image, layout pixel.Format) error {
	if f := img.Format(); f != layout {
		return &pixel.FormatMismatchError{Src: f, Dst: layout}
	}
	return nil
}

// rows calls fn with every row of b, in order.
func rows[T pixel.Sample](b *pixel.Buffer[T], fn func(row []T)) {
	for y := b.Rect.Min.Y; y < b.Rect.Max.Y; y++ {
		row, _ := b.Row(y, b.Rect.Min.X, b.Rect.Max.X)
		fn(row)
	}
}

func encode8(layout pixel.Format) encoderFunc {
	return func(dst []byte, img pixel.Image) ([]byte, error) {
		if err := checkLayout(img, layout); err != nil {
			return dst, err
		}
		rows(img.(*pixel.Buffer[uint8]), func(row []uint8) {
			dst = append(dst, row...)
		})
		return dst, nil
	}
}

func encode16(layout pixel.Format) encoderFunc {
	return func(dst []byte, img pixel.Image) ([]byte, error) {
		if err := checkLayout(img, layout); err != nil {
			return dst, err
		}
		rows(img.(*pixel.Buffer[uint16]), func(row []uint16) {
			for _, v := range row {
				dst = binary.LittleEndian.AppendUint16(dst, v)
			}
		})
		return dst, nil
	}
}

func encodeFloat(layout pixel.Format) encoderFunc {
	return func(dst []byte, img pixel.Image) ([]byte, error) {
		if err := checkLayout(img, layout); err != nil {
			return dst, err
		}
		rows(img.(*pixel.Buffer[float32]), func(row []float32) {
			for _, v := range row {
				dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
			}
		})
		return dst, nil
	}
}
