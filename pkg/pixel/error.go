package pixel

import (
	"errors"
	"fmt"
)

var (
	// ErrFormatMismatch is returned when source and destination pixel
	// depth or component layout differ.
	ErrFormatMismatch = errors.New("pixel: image format mismatch")
	// ErrUnsupportedDepth is returned for depths other than 8-bit, 16-bit and float.
	ErrUnsupportedDepth = errors.New("pixel: unsupported pixel depth")
	// ErrUnsupportedComponents is returned for layouts other than A, RGB and RGBA.
	ErrUnsupportedComponents = errors.New("pixel: unsupported pixel components")
)

// FormatMismatchError tells the caller which formats were found to differ.
type FormatMismatchError struct {
	Src, Dst Format
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("%s: source is %s, destination is %s", ErrFormatMismatch, e.Src, e.Dst)
}

func (e *FormatMismatchError) Unwrap() error {
	return ErrFormatMismatch
}
