package clip

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	// Image decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pion/mediafx/internal/logging"
	"github.com/pion/mediafx/pkg/fx"
	"github.com/pion/mediafx/pkg/io/ffmpeg"
	"github.com/pion/mediafx/pkg/pixel"
)

var logger = logging.NewLogger("mediafx/clip")

const defaultCacheSize = 8

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

func isImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Dir is a clip made of the image files of a directory, sorted by name.
// Frames are decoded on demand and the most recently decoded ones are cached.
type Dir struct {
	name   string
	files  []string
	first  int
	format pixel.Format

	mu       sync.Mutex
	cache    map[int]pixel.Image
	order    []int
	capacity int
}

// OpenDir lists the images under path. The first file is shown at time first.
func OpenDir(path string, first int) (*Dir, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	d := &Dir{
		name:     filepath.Base(path),
		first:    first,
		cache:    make(map[int]pixel.Image),
		capacity: defaultCacheSize,
	}
	for _, e := range entries {
		if !e.IsDir() && isImage(e.Name()) {
			d.files = append(d.files, filepath.Join(path, e.Name()))
		}
	}
	if len(d.files) == 0 {
		return nil, fmt.Errorf("%s: %w", path, errEmptySequence)
	}
	sort.Strings(d.files)

	img, err := decodeFile(d.files[0])
	if err != nil {
		return nil, err
	}
	d.format = img.Format()
	d.store(first, img)

	logger.Debugf("opened %s: %d frames of %s", path, len(d.files), d.format)
	return d, nil
}

// SetCacheSize changes how many decoded frames are kept.
func (d *Dir) SetCacheSize(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.capacity = max(n, 1)
	d.evict()
}

func (d *Dir) Name() string { return d.name }

func (d *Dir) Format() pixel.Format { return d.format }

func (d *Dir) FrameRange() fx.FrameRange {
	return fx.FrameRange{Min: d.first, Max: d.first + len(d.files) - 1}
}

// Fetch decodes the frame at t, or returns nil outside of the frame range.
// Every frame must have the format of the first one.
func (d *Dir) Fetch(ctx context.Context, t int) (pixel.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i := t - d.first
	if i < 0 || i >= len(d.files) {
		return nil, nil
	}

	d.mu.Lock()
	img, ok := d.cache[t]
	d.mu.Unlock()
	if ok {
		return img, nil
	}

	img, err := decodeFile(d.files[i])
	if err != nil {
		return nil, err
	}
	if f := img.Format(); f != d.format {
		return nil, fmt.Errorf("%s: %w", d.files[i], &pixel.FormatMismatchError{Src: f, Dst: d.format})
	}

	d.mu.Lock()
	d.store(t, img)
	d.mu.Unlock()
	return img, nil
}

// store must be called with mu held, except during construction.
func (d *Dir) store(t int, img pixel.Image) {
	if _, ok := d.cache[t]; ok {
		return
	}
	d.cache[t] = img
	d.order = append(d.order, t)
	d.evict()
}

func (d *Dir) evict() {
	for len(d.order) > d.capacity {
		delete(d.cache, d.order[0])
		d.order = d.order[1:]
	}
}

func decodeFile(path string) (pixel.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return pixel.FromImage(img), nil
}

// Open returns a clip reading path: a directory of images, a video file
// decoded through ffmpeg, a generated pattern, or a single image shown at
// every time. first is the time of the first frame.
func Open(ctx context.Context, path string, first int) (fx.Clip, error) {
	if desc, ok := strings.CutPrefix(path, PatternPrefix); ok {
		return parsePattern(desc, first)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	switch {
	case stat.IsDir():
		return OpenDir(path, first)
	case ffmpeg.IsVideo(path):
		frames, _, err := ffmpeg.Load(ctx, path, ffmpeg.Options{})
		if err != nil {
			return nil, err
		}
		return NewSequence(filepath.Base(path), first, frames...)
	}

	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return NewStill(filepath.Base(path), img, fx.FrameRange{Min: first, Max: first}), nil
}
