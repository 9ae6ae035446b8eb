// Package clip provides fx.Clip implementations backed by memory, image
// files and video files.
package clip

import (
	"context"
	"errors"
	"fmt"

	"github.com/pion/mediafx/pkg/fx"
	"github.com/pion/mediafx/pkg/pixel"
)

var errEmptySequence = errors.New("clip: sequence has no frames")

// Sequence holds frames in memory at consecutive times starting at first.
type Sequence struct {
	name   string
	format pixel.Format
	first  int
	frames []pixel.Image
}

// NewSequence creates a sequence from frames, which must share a format.
func NewSequence(name string, first int, frames ...pixel.Image) (*Sequence, error) {
	if len(frames) == 0 {
		return nil, errEmptySequence
	}

	s := &Sequence{name: name, format: frames[0].Format(), first: first}
	for _, f := range frames {
		if err := s.Append(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Append adds img as the frame following the last one.
func (s *Sequence) Append(img pixel.Image) error {
	if f := img.Format(); f != s.format {
		return fmt.Errorf("%s frame %d: %w", s.name, s.first+len(s.frames), &pixel.FormatMismatchError{Src: f, Dst: s.format})
	}
	s.frames = append(s.frames, img)
	return nil
}

func (s *Sequence) Name() string { return s.name }

func (s *Sequence) Format() pixel.Format { return s.format }

func (s *Sequence) FrameRange() fx.FrameRange {
	return fx.FrameRange{Min: s.first, Max: s.first + len(s.frames) - 1}
}

// Fetch returns the frame at t, or nil outside of the frame range.
func (s *Sequence) Fetch(ctx context.Context, t int) (pixel.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i := t - s.first
	if i < 0 || i >= len(s.frames) {
		return nil, nil
	}
	return s.frames[i], nil
}

// Still is a single image shown at every time. Its frame range is only what
// it reports to effects.
type Still struct {
	name   string
	img    pixel.Image
	frames fx.FrameRange
}

func NewStill(name string, img pixel.Image, frames fx.FrameRange) *Still {
	return &Still{name: name, img: img, frames: frames}
}

func (s *Still) Name() string { return s.name }

func (s *Still) Format() pixel.Format { return s.img.Format() }

func (s *Still) FrameRange() fx.FrameRange { return s.frames }

func (s *Still) Fetch(ctx context.Context, t int) (pixel.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.img, nil
}
