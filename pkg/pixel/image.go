package pixel

import (
	"image"

	"golang.org/x/image/draw"
)

// FromImage wraps img as an Image. 8-bit layouts share memory with img,
// 16-bit layouts are converted from their big-endian byte representation.
// Channels are taken verbatim, alpha premultiplication is not undone.
// Any other color model is first converted to NRGBA.
func FromImage(img image.Image) Image {
	switch src := img.(type) {
	case *image.Gray:
		return &Buffer[uint8]{Pix: src.Pix, Stride: src.Stride, Rect: src.Rect, Comps: ComponentsAlpha}
	case *image.Alpha:
		return &Buffer[uint8]{Pix: src.Pix, Stride: src.Stride, Rect: src.Rect, Comps: ComponentsAlpha}
	case *image.RGBA:
		return &Buffer[uint8]{Pix: src.Pix, Stride: src.Stride, Rect: src.Rect, Comps: ComponentsRGBA}
	case *image.NRGBA:
		return &Buffer[uint8]{Pix: src.Pix, Stride: src.Stride, Rect: src.Rect, Comps: ComponentsRGBA}
	case *image.Gray16:
		return fromBigEndian(src.Pix, src.Stride, src.Rect, ComponentsAlpha)
	case *image.Alpha16:
		return fromBigEndian(src.Pix, src.Stride, src.Rect, ComponentsAlpha)
	case *image.RGBA64:
		return fromBigEndian(src.Pix, src.Stride, src.Rect, ComponentsRGBA)
	case *image.NRGBA64:
		return fromBigEndian(src.Pix, src.Stride, src.Rect, ComponentsRGBA)
	}

	converted := image.NewNRGBA(img.Bounds())
	draw.Draw(converted, converted.Rect, img, img.Bounds().Min, draw.Src)
	return FromImage(converted)
}

func fromBigEndian(pix []uint8, stride int, r image.Rectangle, c Components) *Buffer[uint16] {
	dst := NewBuffer[uint16](r, c)
	n := r.Dx() * int(c)
	for y := 0; y < r.Dy(); y++ {
		row := pix[y*stride : y*stride+2*n]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+n]
		for i := range out {
			out[i] = uint16(row[2*i])<<8 | uint16(row[2*i+1])
		}
	}
	return dst
}

// ToImage exposes img through the standard image package. Single channel
// images become Gray or Gray16, RGB and RGBA become NRGBA or NRGBA64 with
// an opaque alpha for RGB. Float images are quantized to 16 bits.
// 8-bit single channel and RGBA images share memory with img.
func ToImage(img Image) image.Image {
	switch b := img.(type) {
	case *Buffer[uint8]:
		switch b.Comps {
		case ComponentsAlpha:
			return &image.Gray{Pix: b.Pix, Stride: b.Stride, Rect: b.Rect}
		case ComponentsRGBA:
			return &image.NRGBA{Pix: b.Pix, Stride: b.Stride, Rect: b.Rect}
		}
		return toNRGBA(b)
	case *Buffer[uint16]:
		return toWide(b, func(v uint16) uint16 { return v })
	case *Buffer[float32]:
		return toWide(b, func(v float32) uint16 { return FromFloat[uint16](float64(v) * 0xffff) })
	}
	return nil
}

func toNRGBA(b *Buffer[uint8]) *image.NRGBA {
	dst := image.NewNRGBA(b.Rect)
	for y := b.Rect.Min.Y; y < b.Rect.Max.Y; y++ {
		for x := b.Rect.Min.X; x < b.Rect.Max.X; x++ {
			p := b.PixelAt(x, y)
			i := dst.PixOffset(x, y)
			dst.Pix[i+0], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = p[0], p[1], p[2], 0xff
		}
	}
	return dst
}

func toWide[T Sample](b *Buffer[T], conv func(T) uint16) image.Image {
	put := func(pix []uint8, i int, v uint16) {
		pix[i], pix[i+1] = uint8(v>>8), uint8(v)
	}

	if b.Comps == ComponentsAlpha {
		dst := image.NewGray16(b.Rect)
		for y := b.Rect.Min.Y; y < b.Rect.Max.Y; y++ {
			for x := b.Rect.Min.X; x < b.Rect.Max.X; x++ {
				put(dst.Pix, dst.PixOffset(x, y), conv(b.PixelAt(x, y)[0]))
			}
		}
		return dst
	}

	dst := image.NewNRGBA64(b.Rect)
	for y := b.Rect.Min.Y; y < b.Rect.Max.Y; y++ {
		for x := b.Rect.Min.X; x < b.Rect.Max.X; x++ {
			p := b.PixelAt(x, y)
			i := dst.PixOffset(x, y)
			put(dst.Pix, i+0, conv(p[0]))
			put(dst.Pix, i+2, conv(p[1]))
			put(dst.Pix, i+4, conv(p[2]))
			if b.Comps == ComponentsRGBA {
				put(dst.Pix, i+6, conv(p[3]))
			} else {
				put(dst.Pix, i+6, 0xffff)
			}
		}
	}
	return dst
}

// Clone returns a deep copy of img.
func Clone(img Image) Image {
	switch b := img.(type) {
	case *Buffer[uint8]:
		return cloneBuffer(b)
	case *Buffer[uint16]:
		return cloneBuffer(b)
	case *Buffer[float32]:
		return cloneBuffer(b)
	}
	return nil
}

func cloneBuffer[T Sample](b *Buffer[T]) *Buffer[T] {
	dst := NewBuffer[T](b.Rect, b.Comps)
	for y := b.Rect.Min.Y; y < b.Rect.Max.Y; y++ {
		row, _ := b.Row(y, b.Rect.Min.X, b.Rect.Max.X)
		copy(dst.Pix[dst.PixOffset(b.Rect.Min.X, y):], row)
	}
	return dst
}

// FormatOf returns the format FromImage produces for img without converting it.
func FormatOf(img image.Image) Format {
	switch img.(type) {
	case *image.Gray, *image.Alpha:
		return Format{Depth: Depth8, Components: ComponentsAlpha}
	case *image.Gray16, *image.Alpha16:
		return Format{Depth: Depth16, Components: ComponentsAlpha}
	case *image.RGBA64, *image.NRGBA64:
		return Format{Depth: Depth16, Components: ComponentsRGBA}
	}
	return Format{Depth: Depth8, Components: ComponentsRGBA}
}
