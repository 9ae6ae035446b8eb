package fx

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"github.com/pion/logging"
	"golang.org/x/sync/errgroup"

	mflogging "github.com/pion/mediafx/internal/logging"
	"github.com/pion/mediafx/pkg/pixel"
)

var logger = mflogging.NewLogger("mediafx/fx")

// RenderOptions configure Render.
type RenderOptions struct {
	Host Host
	// Threads bounds the number of tiles rendered at once.
	Threads int
	Logger  logging.LeveledLogger
}

type RenderOption func(*RenderOptions)

func WithHost(h Host) RenderOption {
	return func(o *RenderOptions) {
		o.Host = h
	}
}

func WithThreads(n int) RenderOption {
	return func(o *RenderOptions) {
		o.Threads = n
	}
}

func WithLogger(l logging.LeveledLogger) RenderOption {
	return func(o *RenderOptions) {
		o.Logger = l
	}
}

// Render produces the output of e at time t over window. An empty window
// renders the whole region of definition.
//
// When the host honors identity and e declares itself an identity, the input
// frame is returned as is without copying. Otherwise a new image is allocated
// and window is split into horizontal tiles rendered concurrently; the output
// is complete once every tile is.
func Render(ctx context.Context, e Effect, t int, window image.Rectangle, opts ...RenderOption) (pixel.Image, error) {
	o := RenderOptions{
		Host:    DefaultHost(),
		Threads: runtime.GOMAXPROCS(0),
		Logger:  logger,
	}
	for _, opt := range opts {
		opt(&o)
	}

	desc := e.Describe()
	if err := CheckHost(desc, o.Host); err != nil {
		return nil, err
	}

	if ie, ok := e.(IdentityEffect); ok && o.Host.HonorIdentity {
		if clip, it, ok := ie.IsIdentity(RenderArgs{Time: t, Window: window}); ok {
			img, err := clip.Fetch(ctx, it)
			if err != nil {
				return nil, fmt.Errorf("fetch identity %s at %d: %w", clip.Name(), it, err)
			}
			if !pixel.IsNil(img) {
				o.Logger.Tracef("%s at %d is identity of %s at %d", desc.ID, t, clip.Name(), it)
				return img, nil
			}
		}
	}

	def, err := e.Define(ctx, t)
	if err != nil {
		return nil, err
	}
	if !desc.SupportsFormat(def.Format) {
		return nil, fmt.Errorf("%s: %w: %s", desc.ID, pixel.ErrUnsupportedDepth, def.Format)
	}
	if window.Empty() {
		window = def.Rect
	}

	out, err := pixel.New(def.Format, window)
	if err != nil {
		return nil, err
	}

	n := o.Threads
	if !o.Host.Tiling || !desc.SupportsTiles {
		n = 1
	}
	tiles := Tiles(window, n)
	o.Logger.Tracef("%s at %d: rendering %v in %d tiles", desc.ID, t, window, len(tiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(n, 1))
	for _, tile := range tiles {
		tile := tile
		g.Go(func() error {
			return e.Render(gctx, RenderArgs{Time: t, Window: tile, Output: out})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Tiles splits r into at most n disjoint horizontal bands covering r.
func Tiles(r image.Rectangle, n int) []image.Rectangle {
	if r.Empty() {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if dy := r.Dy(); n > dy {
		n = dy
	}

	tiles := make([]image.Rectangle, 0, n)
	rows, extra := r.Dy()/n, r.Dy()%n
	y := r.Min.Y
	for i := 0; i < n; i++ {
		h := rows
		if i < extra {
			h++
		}
		tiles = append(tiles, image.Rect(r.Min.X, y, r.Max.X, y+h))
		y += h
	}
	return tiles
}

// ForEachRow calls fn for every row of window, checking ctx between rows.
// The loop stops with ctx.Err() when ctx is done; rows already processed are
// left as they are.
func ForEachRow(ctx context.Context, window image.Rectangle, fn func(y int)) error {
	for y := window.Min.Y; y < window.Max.Y; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(y)
	}
	return nil
}
