package main

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion/mediafx/internal/config"
	"github.com/pion/mediafx/pkg/clip"
	"github.com/pion/mediafx/pkg/fx"
	"github.com/pion/mediafx/pkg/fx/invert"
	"github.com/pion/mediafx/pkg/pixel"
)

// fakeClips makes openClip return a gray sequence of n frames per path,
// frame i filled with value base+i.
func fakeClips(t *testing.T, n int, base map[string]uint8) {
	t.Helper()
	orig := openClip
	t.Cleanup(func() { openClip = orig })

	openClip = func(ctx context.Context, path string, first int) (fx.Clip, error) {
		b, ok := base[path]
		if !ok {
			return nil, os.ErrNotExist
		}
		var frames []pixel.Image
		for i := 0; i < n; i++ {
			img := pixel.NewBuffer[uint8](image.Rect(0, 0, 2, 2), pixel.ComponentsAlpha)
			img.Fill(img.Rect, b+uint8(i))
			frames = append(frames, img)
		}
		return clip.NewSequence(path, first, frames...)
	}
}

func readPNG(t *testing.T, path string) *image.Gray {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	gray, ok := img.(*image.Gray)
	require.True(t, ok)
	return gray
}

func TestNewEffect(t *testing.T) {
	fakeClips(t, 10, map[string]uint8{"a": 0, "b": 100, "m": 255})
	ctx := context.Background()

	cases := map[string]struct {
		job     config.Job
		context fx.Context
		frames  fx.FrameRange
		masked  bool
		err     error
	}{
		"InvertFilterIgnoresMask": {
			job:     config.Job{Effect: "invert", Inputs: []string{"a"}, Mask: "nope"},
			context: fx.ContextFilter,
			frames:  fx.FrameRange{Min: 0, Max: 9},
		},
		"InvertGeneralMask": {
			job:     config.Job{Effect: "invert", Inputs: []string{"a"}, Mask: "m", Context: "general"},
			context: fx.ContextGeneral,
			frames:  fx.FrameRange{Min: 0, Max: 9},
			masked:  true,
		},
		"InvertGeneralMissingMask": {
			job: config.Job{Effect: "invert", Inputs: []string{"a"}, Mask: "nope", Context: "general"},
			err: os.ErrNotExist,
		},
		"SwitchDefaultsToFilter": {
			job:     config.Job{Effect: "switch", Inputs: []string{"a", "b"}},
			context: fx.ContextFilter,
			frames:  fx.FrameRange{Min: 0, Max: 9},
		},
		"SwitchGeneral": {
			job:     config.Job{Effect: "switch", Inputs: []string{"a", "b"}, Context: "general"},
			context: fx.ContextGeneral,
			frames:  fx.FrameRange{Min: 0, Max: 9},
		},
		"UnknownContext": {
			job: config.Job{Effect: "switch", Inputs: []string{"a", "b"}, Context: "paint"},
			err: fx.ErrUnsupportedContext,
		},
		"SwitchMissingInput": {
			job: config.Job{Effect: "switch", Inputs: []string{"a"}},
			err: fx.ErrMissingClip,
		},
		"TimeOffsetGeneral": {
			job: config.Job{
				Effect: "timeoffset", Inputs: []string{"a"}, Context: "general",
				Params: map[string]string{"time_offset": "5", "reverse_input": "true"},
			},
			context: fx.ContextGeneral,
			frames:  fx.FrameRange{Min: 5, Max: 14},
		},
		"TimeOffsetFilter": {
			job: config.Job{
				Effect: "timeoffset", Inputs: []string{"a"},
				Params: map[string]string{"time_offset": "5"},
			},
			context: fx.ContextFilter,
			frames:  fx.FrameRange{Min: 0, Max: 9},
		},
		"TimeOffsetNoTemporalAccess": {
			job: config.Job{Effect: "timeoffset", Inputs: []string{"a"}, NoTemporalAccess: true},
			err: fx.ErrTemporalAccess,
		},
		"UnknownParam": {
			job: config.Job{Effect: "invert", Inputs: []string{"a"}, Params: map[string]string{"gain": "1"}},
			err: fx.ErrUnknownParam,
		},
		"UnknownEffect": {
			job: config.Job{Effect: "blur", Inputs: []string{"a"}},
			err: errUnknownEffect,
		},
		"MissingClip": {
			job: config.Job{Effect: "invert", Inputs: []string{"nope"}},
			err: os.ErrNotExist,
		},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			s, err := newEffect(ctx, c.job)
			if c.err != nil {
				assert.True(t, errors.Is(err, c.err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.context, s.context)
			assert.Equal(t, c.frames, s.frames)
			if e, ok := s.effect.(*invert.Effect); ok {
				assert.Equal(t, c.masked, e.Mask != nil)
			}
		})
	}
}

func TestRunInvertToDir(t *testing.T) {
	fakeClips(t, 3, map[string]uint8{"a": 10})
	out := filepath.Join(t.TempDir(), "out")
	start, end := 1, 5

	job := config.Job{
		Effect: "invert", Inputs: []string{"a"}, Output: out,
		Start: &start, End: &end, Threads: 2,
	}
	require.NoError(t, run(context.Background(), job))

	// Frames 3 to 5 are past the input and have no pixels.
	files, err := filepath.Glob(filepath.Join(out, "*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 2)

	img := readPNG(t, filepath.Join(out, "frame000001.png"))
	assert.Equal(t, []uint8{244, 244, 244, 244}, img.Pix)
	img = readPNG(t, filepath.Join(out, "frame000002.png"))
	assert.Equal(t, []uint8{243, 243, 243, 243}, img.Pix)
}

func TestRunResize(t *testing.T) {
	fakeClips(t, 1, map[string]uint8{"a": 0, "b": 50})
	out := t.TempDir()

	job := config.Job{
		Effect: "switch", Inputs: []string{"a", "b"}, Output: out,
		Params: map[string]string{"which": "1"},
		Resize: "4x", Scaler: "nearest",
	}
	require.NoError(t, run(context.Background(), job))

	img := readPNG(t, filepath.Join(out, "frame000000.png"))
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
	assert.Equal(t, uint8(50), img.Pix[0])
}

func TestRunUnknownScaler(t *testing.T) {
	fakeClips(t, 1, map[string]uint8{"a": 0})
	job := config.Job{Effect: "invert", Inputs: []string{"a"}, Output: t.TempDir(), Resize: "4x4", Scaler: "lanczos"}
	assert.Error(t, run(context.Background(), job))
}
