package frame

// Format is a raw frame layout, named after the matching ffmpeg pix_fmt.
type Format string

const (
	// 8-bit formats

	// FormatRGBA is packed R, G, B, A
	FormatRGBA Format = "rgba"
	// FormatRGB24 is packed R, G, B
	FormatRGB24 Format = "rgb24"
	// FormatGray is a single 8-bit channel
	FormatGray Format = "gray"

	// 16-bit formats, little endian

	FormatRGBA64LE Format = "rgba64le"
	FormatRGB48LE  Format = "rgb48le"
	FormatGray16LE Format = "gray16le"

	// Float formats, little endian IEEE 754

	FormatGrayF32LE Format = "grayf32le"
	FormatRGBAF32LE Format = "rgbaf32le"
)
