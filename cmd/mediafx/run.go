package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pion/mediafx/internal/config"
	"github.com/pion/mediafx/pkg/frame"
	"github.com/pion/mediafx/pkg/fx"
	"github.com/pion/mediafx/pkg/io/ffmpeg"
	"github.com/pion/mediafx/pkg/io/video"
	"github.com/pion/mediafx/pkg/pixel"
)

// sink receives the rendered frames.
type sink interface {
	Write(t int, img image.Image) error
	Close() error
}

func run(ctx context.Context, job config.Job) error {
	s, err := newEffect(ctx, job)
	if err != nil {
		return err
	}

	opts := []fx.RenderOption{fx.WithHost(s.host)}
	if job.Threads > 0 {
		opts = append(opts, fx.WithThreads(job.Threads))
	}

	transforms := []video.TransformFunc{}
	width, height, err := job.Size()
	if err != nil {
		return err
	}
	if width > 0 || height > 0 {
		scaler, ok := video.ScalerByName(job.Scaler)
		if !ok {
			return fmt.Errorf("unknown scaler %q", job.Scaler)
		}
		transforms = append(transforms, video.Scale(width, height, scaler))
	}
	transforms = append(transforms, video.DetectChanges(func(p video.Property) {
		logger.Infof("output is now %dx%d %s", p.Width, p.Height, p.Format)
	}))

	r := video.Merge(transforms...)(video.FromEffect(ctx, s.effect, s.frames, opts...))

	out, err := newSink(job)
	if err != nil {
		return err
	}

	logger.Infof("rendering %s over %v in %s context", s.effect.Describe().ID, s.frames, s.context)
	n, err := pump(r, s.frames.Min, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	logger.Infof("wrote %d frames to %s", n, job.Output)
	return nil
}

// pump copies frames from r to out, numbering them from first. Frames
// without pixels are skipped.
func pump(r video.Reader, first int, out sink) (int, error) {
	n := 0
	err := video.ForEach(r, func(i int, img image.Image) error {
		t := first + i
		if img == nil || img.Bounds().Empty() {
			logger.Warnf("frame %d is empty, skipping", t)
			return nil
		}
		if err := out.Write(t, img); err != nil {
			return fmt.Errorf("write frame %d: %w", t, err)
		}
		n++
		return nil
	})
	return n, err
}

func newSink(job config.Job) (sink, error) {
	if ffmpeg.IsVideo(job.Output) {
		return &videoSink{path: job.Output, fps: job.FPS}, nil
	}
	if err := os.MkdirAll(job.Output, 0o755); err != nil {
		return nil, err
	}
	return &dirSink{dir: job.Output}, nil
}

// dirSink writes each frame as a numbered PNG file.
type dirSink struct {
	dir string
}

func (d *dirSink) Write(t int, img image.Image) error {
	f, err := os.Create(filepath.Join(d.dir, fmt.Sprintf("frame%06d.png", t)))
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (d *dirSink) Close() error { return nil }

// videoSink encodes frames through ffmpeg. The encoder starts on the first
// frame, which fixes the size and pixel format of the video.
type videoSink struct {
	path string
	fps  float64
	w    *ffmpeg.Writer
}

func (v *videoSink) Write(t int, img image.Image) error {
	buf := pixel.FromImage(img)
	if v.w == nil {
		f, err := frame.ForPixel(buf.Format())
		if err != nil {
			return err
		}
		b := buf.Bounds()
		if v.w, err = ffmpeg.NewWriter(v.path, b.Dx(), b.Dy(), v.fps, ffmpeg.Options{Format: f}); err != nil {
			return err
		}
	}
	return v.w.Write(buf)
}

func (v *videoSink) Close() error {
	if v.w == nil {
		return nil
	}
	return v.w.Close()
}
