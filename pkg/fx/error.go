package fx

import (
	"errors"

	"github.com/pion/mediafx/pkg/pixel"
)

var (
	// ErrFormatMismatch is reported when source and destination formats differ.
	ErrFormatMismatch = pixel.ErrFormatMismatch
	// ErrUnsupportedDepth is reported for pixel depths an effect cannot render.
	ErrUnsupportedDepth = pixel.ErrUnsupportedDepth
	// ErrTemporalAccess is reported when an effect needs random access to
	// input frames and the host can't provide it.
	ErrTemporalAccess = errors.New("fx: host lacks temporal clip access")
	// ErrUnsupportedContext is reported for contexts an effect doesn't support.
	ErrUnsupportedContext = errors.New("fx: unsupported context")
	ErrUnknownParam       = errors.New("fx: unknown parameter")
	ErrParamRange         = errors.New("fx: parameter value out of range")
	ErrClipIndex          = errors.New("fx: clip index out of range")
	ErrMissingClip        = errors.New("fx: mandatory clip not connected")
)
