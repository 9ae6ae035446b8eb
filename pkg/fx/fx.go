// Package fx defines the contract between image effects and the program
// hosting them: clips, parameters, capabilities and the render call.
package fx

import (
	"context"
	"fmt"
	"image"

	"github.com/pion/mediafx/pkg/pixel"
)

// FrameRange is an inclusive range of frame times.
type FrameRange struct {
	Min, Max int
}

// Clamp returns t limited to [r.Min, r.Max].
func (r FrameRange) Clamp(t int) int {
	if t < r.Min {
		return r.Min
	}
	if t > r.Max {
		return r.Max
	}
	return t
}

func (r FrameRange) Contains(t int) bool {
	return t >= r.Min && t <= r.Max
}

// Shift moves both ends of r by d.
func (r FrameRange) Shift(d int) FrameRange {
	return FrameRange{Min: r.Min + d, Max: r.Max + d}
}

// Len returns the number of frames in r.
func (r FrameRange) Len() int {
	if r.Max < r.Min {
		return 0
	}
	return r.Max - r.Min + 1
}

func (r FrameRange) String() string {
	return fmt.Sprintf("[%d,%d]", r.Min, r.Max)
}

// Clip is a named, time-varying sequence of images.
type Clip interface {
	Name() string
	Format() pixel.Format
	FrameRange() FrameRange
	// Fetch returns the image at time t. A nil image without error means the
	// clip has no pixels at t; consumers treat it as transparent black.
	Fetch(ctx context.Context, t int) (pixel.Image, error)
}

// Context is the situation an effect is instantiated in.
type Context int

const (
	// ContextFilter is a single input, single output effect.
	ContextFilter Context = iota
	// ContextGeneral allows the effect to change the overall time domain.
	ContextGeneral
)

func (c Context) String() string {
	switch c {
	case ContextFilter:
		return "filter"
	case ContextGeneral:
		return "general"
	}
	return fmt.Sprintf("Context(%d)", int(c))
}

// ParseContext is the inverse of Context.String.
func ParseContext(s string) (Context, error) {
	switch s {
	case "filter", "":
		return ContextFilter, nil
	case "general":
		return ContextGeneral, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedContext, s)
}

// Host describes the capabilities of the program driving an effect.
type Host struct {
	// TemporalClipAccess allows effects to fetch frames at times other than
	// the one being rendered.
	TemporalClipAccess bool
	// Tiling allows a render to be split into several windows.
	Tiling bool
	// MultiResolution allows inputs and output of different sizes.
	MultiResolution bool
	// HonorIdentity lets the host skip rendering when an effect declares
	// its output equal to one of its inputs.
	HonorIdentity bool
}

// DefaultHost returns a Host with every capability enabled.
func DefaultHost() Host {
	return Host{
		TemporalClipAccess: true,
		Tiling:             true,
		MultiResolution:    true,
		HonorIdentity:      true,
	}
}

// Descriptor advertises what an effect supports and needs.
type Descriptor struct {
	ID    string
	Label string
	Group string

	Contexts   []Context
	Depths     []pixel.Depth
	Components []pixel.Components

	SupportsTiles           bool
	SupportsMultiResolution bool
	// TemporalClipAccess is set when the effect needs random access to
	// frames of its inputs.
	TemporalClipAccess bool
}

func (d Descriptor) SupportsContext(c Context) bool {
	for _, cc := range d.Contexts {
		if cc == c {
			return true
		}
	}
	return false
}

// SupportsFormat reports whether the effect can render images of format f.
func (d Descriptor) SupportsFormat(f pixel.Format) bool {
	var depthOK, compOK bool
	for _, dd := range d.Depths {
		depthOK = depthOK || dd == f.Depth
	}
	for _, cc := range d.Components {
		compOK = compOK || cc == f.Components
	}
	return depthOK && compOK
}

// CheckHost verifies that h provides every capability d requires.
func CheckHost(d Descriptor, h Host) error {
	if d.TemporalClipAccess && !h.TemporalClipAccess {
		return fmt.Errorf("%s: %w", d.ID, ErrTemporalAccess)
	}
	return nil
}

// Definition is the format and region of definition of an effect output.
type Definition struct {
	Format pixel.Format
	Rect   image.Rectangle
}

// RenderArgs are the arguments of a single render call.
type RenderArgs struct {
	Time int
	// Window is the region of Output the call must fill.
	Window image.Rectangle
	// Output is owned by the caller and shared between concurrent calls
	// with disjoint windows.
	Output pixel.Image
}

// Effect is an image effect driven by a host.
type Effect interface {
	Describe() Descriptor
	Params() ParamSet
	// Define returns the output format and region at time t.
	Define(ctx context.Context, t int) (Definition, error)
	// Render fills args.Window of args.Output. It must be safe to call
	// concurrently for disjoint windows.
	Render(ctx context.Context, args RenderArgs) error
}

// IdentityEffect is implemented by effects that can declare their output
// equal to an input frame, letting the host skip pixel processing.
type IdentityEffect interface {
	IsIdentity(args RenderArgs) (clip Clip, t int, ok bool)
}

// TimeDomainEffect is implemented by effects that expose a frame range
// different from their inputs.
type TimeDomainEffect interface {
	TimeDomain(c Context) (FrameRange, bool)
}

// FramesNeededEffect is implemented by effects reading frames at times
// other than the one being rendered.
type FramesNeededEffect interface {
	FramesNeeded(t int) map[Clip]FrameRange
}

// Fetch reads the frame of c at t and verifies it against dst. A nil clip
// yields a nil image.
func Fetch(ctx context.Context, c Clip, t int, dst pixel.Image) (pixel.Image, error) {
	if c == nil {
		return nil, nil
	}

	img, err := c.Fetch(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("fetch %s at %d: %w", c.Name(), t, err)
	}
	if pixel.IsNil(img) {
		return nil, nil
	}
	if err := pixel.CheckFormat(img, dst); err != nil {
		return nil, err
	}
	return img, nil
}
