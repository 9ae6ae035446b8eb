// Package switcher implements an effect passing one of several inputs
// through unchanged.
package switcher

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/pion/logging"

	mflogging "github.com/pion/mediafx/internal/logging"
	"github.com/pion/mediafx/pkg/fx"
	"github.com/pion/mediafx/pkg/pixel"
)

const (
	ID = "net.sf.openfx.switchPlugin"

	ParamWhich = "which"

	// MaxInputs is the number of input clips. Inputs 0 and 1 are mandatory,
	// the others optional.
	MaxInputs = 10
)

// ClipName returns the name of input i.
func ClipName(i int) string {
	return strconv.Itoa(i)
}

// Effect selects input `which` as its output.
type Effect struct {
	mu     sync.RWMutex
	inputs [MaxInputs]fx.Clip

	which *fx.IntParam
	log   logging.LeveledLogger
}

func New() *Effect {
	_, log := mflogging.NewInstanceLogger("mediafx/fx/switcher")
	e := &Effect{
		which: fx.NewIntParam(ParamWhich, 0, 0, MaxInputs-1),
		log:   log,
	}
	e.updateRange()
	return e
}

func (e *Effect) Describe() fx.Descriptor {
	return fx.Descriptor{
		ID:                      ID,
		Label:                   "Switch",
		Group:                   "Merge",
		Contexts:                []fx.Context{fx.ContextFilter, fx.ContextGeneral},
		Depths:                  []pixel.Depth{pixel.Depth8, pixel.Depth16, pixel.DepthFloat},
		Components:              []pixel.Components{pixel.ComponentsAlpha, pixel.ComponentsRGB, pixel.ComponentsRGBA},
		SupportsTiles:           true,
		SupportsMultiResolution: true,
	}
}

func (e *Effect) Params() fx.ParamSet {
	return fx.ParamSet{e.which}
}

// Which is the index of the selected input.
func (e *Effect) Which() *fx.IntParam { return e.which }

// Connect plugs c into input i. Passing a nil clip disconnects it.
func (e *Effect) Connect(i int, c fx.Clip) error {
	if i < 0 || i >= MaxInputs {
		return fmt.Errorf("%w: %d", fx.ErrClipIndex, i)
	}

	e.mu.Lock()
	e.inputs[i] = c
	e.mu.Unlock()

	e.updateRange()
	return nil
}

func (e *Effect) Disconnect(i int) error {
	return e.Connect(i, nil)
}

// Input returns the clip connected to input i, or nil.
func (e *Effect) Input(i int) fx.Clip {
	if i < 0 || i >= MaxInputs {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.inputs[i]
}

// Check verifies that every mandatory input is connected.
func (e *Effect) Check() error {
	for i := 0; i < 2; i++ {
		if e.Input(i) == nil {
			return fmt.Errorf("%s: %w: %s", ID, fx.ErrMissingClip, ClipName(i))
		}
	}
	return nil
}

// DisplayMax returns max(1, highest connected optional input index).
func DisplayMax(connected func(i int) bool) int {
	for i := MaxInputs - 1; i >= 2; i-- {
		if connected(i) {
			return i
		}
	}
	return 1
}

// updateRange narrows the display range of which to the connected inputs.
func (e *Effect) updateRange() {
	max := DisplayMax(func(i int) bool { return e.Input(i) != nil })
	e.which.SetDisplayRange(0, max)
	e.log.Debugf("which display range is [0,%d]", max)
}

func (e *Effect) selected() fx.Clip {
	return e.Input(e.which.Value())
}

func (e *Effect) Define(ctx context.Context, t int) (fx.Definition, error) {
	c := e.selected()
	if c == nil {
		first := e.Input(0)
		if first == nil {
			return fx.Definition{}, fmt.Errorf("%s: %w: %s", ID, fx.ErrMissingClip, ClipName(0))
		}
		return fx.Definition{Format: first.Format()}, nil
	}

	img, err := c.Fetch(ctx, t)
	if err != nil {
		return fx.Definition{}, err
	}

	def := fx.Definition{Format: c.Format()}
	if !pixel.IsNil(img) {
		def.Rect = img.Bounds()
	}
	return def, nil
}

// IsIdentity always redirects to the selected input at the same time.
func (e *Effect) IsIdentity(args fx.RenderArgs) (fx.Clip, int, bool) {
	c := e.selected()
	if c == nil {
		return nil, 0, false
	}
	return c, args.Time, true
}

// Render copies the selected input for hosts not honoring identity.
func (e *Effect) Render(ctx context.Context, args fx.RenderArgs) error {
	src, err := fx.Fetch(ctx, e.selected(), args.Time, args.Output)
	if err != nil {
		e.log.Warnf("render at %d: %v", args.Time, err)
		return err
	}
	return fx.Copy(ctx, args.Output, src, args.Window)
}
