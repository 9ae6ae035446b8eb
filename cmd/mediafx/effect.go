package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/pion/mediafx/internal/config"
	"github.com/pion/mediafx/pkg/clip"
	"github.com/pion/mediafx/pkg/fx"
	"github.com/pion/mediafx/pkg/fx/invert"
	"github.com/pion/mediafx/pkg/fx/switcher"
	"github.com/pion/mediafx/pkg/fx/timeoffset"
)

var errUnknownEffect = errors.New("unknown effect")

// openClip is replaced in tests.
var openClip = clip.Open

// setup is an effect ready to render.
type setup struct {
	effect  fx.Effect
	context fx.Context
	host    fx.Host
	// frames is the range of times rendered when the job doesn't set one.
	frames fx.FrameRange
}

func host(job config.Job) fx.Host {
	h := fx.DefaultHost()
	h.TemporalClipAccess = !job.NoTemporalAccess
	return h
}

func openClips(ctx context.Context, paths []string) ([]fx.Clip, error) {
	clips := make([]fx.Clip, 0, len(paths))
	for _, p := range paths {
		c, err := openClip(ctx, p, 0)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p, err)
		}
		logger.Infof("opened %s: %s, frames %v", p, c.Format(), c.FrameRange())
		clips = append(clips, c)
	}
	return clips, nil
}

// newEffect instantiates the job's effect with its clips connected and its
// parameters set.
func newEffect(ctx context.Context, job config.Job) (*setup, error) {
	clips, err := openClips(ctx, job.Inputs)
	if err != nil {
		return nil, err
	}
	s := &setup{host: host(job), frames: clips[0].FrameRange()}

	switch job.Effect {
	case "invert":
		s.effect = invert.New(clips[0])
	case "switch":
		e := switcher.New()
		if len(clips) > switcher.MaxInputs {
			return nil, fmt.Errorf("%w: %d inputs", fx.ErrClipIndex, len(clips))
		}
		for i, c := range clips {
			if err := e.Connect(i, c); err != nil {
				return nil, err
			}
		}
		if err := e.Check(); err != nil {
			return nil, err
		}
		s.effect = e
	case "timeoffset":
		e, err := timeoffset.New(s.host, clips[0])
		if err != nil {
			return nil, err
		}
		s.effect = e
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownEffect, job.Effect)
	}

	desc := s.effect.Describe()
	if job.Context == "" {
		s.context = desc.Contexts[0]
	} else if s.context, err = fx.ParseContext(job.Context); err != nil {
		return nil, err
	}
	if !desc.SupportsContext(s.context) {
		return nil, fmt.Errorf("%s: %w: %s", desc.ID, fx.ErrUnsupportedContext, s.context)
	}

	if err := connectMask(ctx, s, job.Mask); err != nil {
		return nil, err
	}

	params := s.effect.Params()
	for _, name := range job.ParamNames() {
		if err := params.Set(name, job.Params[name]); err != nil {
			return nil, err
		}
	}

	if td, ok := s.effect.(fx.TimeDomainEffect); ok {
		if r, ok := td.TimeDomain(s.context); ok {
			s.frames = r
		}
	}
	if job.Start != nil {
		s.frames.Min = *job.Start
	}
	if job.End != nil {
		s.frames.Max = *job.End
	}
	return s, nil
}

// connectMask plugs the mask clip into effects taking one. Filter context
// effects have a single input, so the mask is left out there.
func connectMask(ctx context.Context, s *setup, path string) error {
	e, ok := s.effect.(*invert.Effect)
	if !ok || path == "" {
		return nil
	}
	if s.context == fx.ContextFilter {
		logger.Warnf("ignoring mask %s in %s context", path, s.context)
		return nil
	}

	masks, err := openClips(ctx, []string{path})
	if err != nil {
		return err
	}
	e.Mask = masks[0]
	return nil
}
