// Package timeoffset implements an effect showing its input shifted in time,
// optionally played backwards.
package timeoffset

import (
	"context"
	"fmt"
	"math"

	"github.com/pion/logging"

	mflogging "github.com/pion/mediafx/internal/logging"
	"github.com/pion/mediafx/pkg/fx"
	"github.com/pion/mediafx/pkg/pixel"
)

const (
	ID = "net.sf.openfx:timeOffset"

	ParamTimeOffset   = "time_offset"
	ParamReverseInput = "reverse_input"
)

// SourceTime returns the input time shown at output time t: t+offset,
// reflected inside r when reverse is set, then clamped to r.
func SourceTime(t, offset int, reverse bool, r fx.FrameRange) int {
	s := saturatingAdd(t, offset)
	if reverse {
		// Reflection sends times outside of r past the opposite bound,
		// which is where the clamp lands.
		switch {
		case s < r.Min:
			return r.Max
		case s > r.Max:
			return r.Min
		}
		s = r.Max - s + r.Min
	}
	return r.Clamp(s)
}

func saturatingAdd(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

// Effect is the time offsetter.
type Effect struct {
	Source fx.Clip

	offset  *fx.IntParam
	reverse *fx.BoolParam

	log logging.LeveledLogger
}

// New creates a time offsetter reading from src. It fails when host can't
// fetch input frames at arbitrary times.
func New(host fx.Host, src fx.Clip) (*Effect, error) {
	_, log := mflogging.NewInstanceLogger("mediafx/fx/timeoffset")
	e := &Effect{
		Source:  src,
		offset:  fx.NewUnboundedIntParam(ParamTimeOffset, 0),
		reverse: fx.NewBoolParam(ParamReverseInput, false),
		log:     log,
	}
	e.offset.SetAnimates(false)
	e.reverse.SetAnimates(false)

	if err := fx.CheckHost(e.Describe(), host); err != nil {
		log.Errorf("refusing to load: %v", err)
		return nil, err
	}
	return e, nil
}

func (e *Effect) Describe() fx.Descriptor {
	return fx.Descriptor{
		ID:                      ID,
		Label:                   "TimeOffset",
		Group:                   "Time",
		Contexts:                []fx.Context{fx.ContextFilter, fx.ContextGeneral},
		Depths:                  []pixel.Depth{pixel.Depth8, pixel.Depth16, pixel.DepthFloat},
		Components:              []pixel.Components{pixel.ComponentsAlpha, pixel.ComponentsRGB, pixel.ComponentsRGBA},
		SupportsTiles:           true,
		SupportsMultiResolution: true,
		TemporalClipAccess:      true,
	}
}

func (e *Effect) Params() fx.ParamSet {
	return fx.ParamSet{e.offset, e.reverse}
}

func (e *Effect) Offset() *fx.IntParam { return e.offset }

func (e *Effect) Reverse() *fx.BoolParam { return e.reverse }

// SourceTime returns the input time read for output time t.
func (e *Effect) SourceTime(t int) int {
	return SourceTime(t, e.offset.Value(), e.reverse.Value(), e.Source.FrameRange())
}

// TimeDomain is the input range shifted by the offset. It is only exposed in
// the general context, and reversing doesn't change it.
func (e *Effect) TimeDomain(c fx.Context) (fx.FrameRange, bool) {
	if c != fx.ContextGeneral || e.Source == nil {
		return fx.FrameRange{}, false
	}
	return e.Source.FrameRange().Shift(e.offset.Value()), true
}

func (e *Effect) FramesNeeded(t int) map[fx.Clip]fx.FrameRange {
	if e.Source == nil {
		return nil
	}
	s := e.SourceTime(t)
	return map[fx.Clip]fx.FrameRange{e.Source: {Min: s, Max: s}}
}

func (e *Effect) Define(ctx context.Context, t int) (fx.Definition, error) {
	if e.Source == nil {
		return fx.Definition{}, fmt.Errorf("%s: %w: Source", ID, fx.ErrMissingClip)
	}

	img, err := e.Source.Fetch(ctx, e.SourceTime(t))
	if err != nil {
		return fx.Definition{}, err
	}

	def := fx.Definition{Format: e.Source.Format()}
	if !pixel.IsNil(img) {
		def.Rect = img.Bounds()
	}
	return def, nil
}

// IsIdentity redirects to the source at the shifted time.
func (e *Effect) IsIdentity(args fx.RenderArgs) (fx.Clip, int, bool) {
	if e.Source == nil {
		return nil, 0, false
	}
	return e.Source, e.SourceTime(args.Time), true
}

// Render copies the source frame at the shifted time.
func (e *Effect) Render(ctx context.Context, args fx.RenderArgs) error {
	if e.Source == nil {
		return fx.Copy(ctx, args.Output, nil, args.Window)
	}

	s := e.SourceTime(args.Time)
	src, err := fx.Fetch(ctx, e.Source, s, args.Output)
	if err != nil {
		e.log.Warnf("render at %d (source %d): %v", args.Time, s, err)
		return err
	}
	return fx.Copy(ctx, args.Output, src, args.Window)
}
