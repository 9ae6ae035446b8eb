package video

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion/mediafx/pkg/clip"
	"github.com/pion/mediafx/pkg/fx"
	"github.com/pion/mediafx/pkg/fx/invert"
	"github.com/pion/mediafx/pkg/pixel"
)

func constReader(img image.Image) Reader {
	return ReaderFunc(func() (image.Image, func(), error) {
		return img, func() {}, nil
	})
}

func TestMerge(t *testing.T) {
	var order []int
	mark := func(i int) TransformFunc {
		return func(r Reader) Reader {
			return ReaderFunc(func() (image.Image, func(), error) {
				img, release, err := r.Read()
				order = append(order, i)
				return img, release, err
			})
		}
	}

	r := Merge(mark(1), nil, mark(2))(constReader(image.NewGray(image.Rect(0, 0, 1, 1))))
	_, _, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, order)
}

func TestScale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := range src.Pix {
		src.Pix[i] = 200
	}

	cases := map[string]struct {
		width, height int
		expected      image.Rectangle
	}{
		"Both":        {2, 2, image.Rect(0, 0, 2, 2)},
		"KeepAspectW": {2, 0, image.Rect(0, 0, 2, 1)},
		"KeepAspectH": {-1, 4, image.Rect(0, 0, 8, 4)},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			r := Scale(c.width, c.height, nil)(constReader(src))
			img, _, err := r.Read()
			require.NoError(t, err)
			assert.Equal(t, c.expected, img.Bounds())
			assert.Equal(t, color.NRGBA{200, 200, 200, 200}, img.At(0, 0))
		})
	}

	_, _, err := Scale(0, 0, nil)(constReader(src)).Read()
	assert.Error(t, err)
}

func TestScaleKeepsDepth(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 4, 4))
	img, _, err := Scale(2, 2, ScalerBiLinear)(constReader(src)).Read()
	require.NoError(t, err)
	_, ok := img.(*image.Gray16)
	assert.True(t, ok)
}

func TestScalerByName(t *testing.T) {
	s, ok := ScalerByName("catmullrom")
	assert.True(t, ok)
	assert.NotNil(t, s)
	_, ok = ScalerByName("lanczos")
	assert.False(t, ok)
}

func TestDetectChanges(t *testing.T) {
	sizes := []image.Rectangle{
		image.Rect(0, 0, 2, 2),
		image.Rect(0, 0, 2, 2),
		image.Rect(0, 0, 4, 2),
	}
	i := 0
	src := ReaderFunc(func() (image.Image, func(), error) {
		img := image.NewNRGBA(sizes[i])
		i++
		return img, func() {}, nil
	})

	var changes []Property
	r := DetectChanges(func(p Property) { changes = append(changes, p) })(src)
	for range sizes {
		_, _, err := r.Read()
		require.NoError(t, err)
	}

	rgba8 := pixel.Format{Depth: pixel.Depth8, Components: pixel.ComponentsRGBA}
	assert.Equal(t, []Property{
		{Width: 2, Height: 2, Format: rgba8},
		{Width: 4, Height: 2, Format: rgba8},
	}, changes)
}

func TestFromEffect(t *testing.T) {
	var frames []pixel.Image
	for i := 0; i < 3; i++ {
		img := pixel.NewBuffer[uint8](image.Rect(0, 0, 2, 1), pixel.ComponentsAlpha)
		img.Fill(img.Rect, uint8(i))
		frames = append(frames, img)
	}
	src, err := clip.NewSequence("source", 1, frames...)
	require.NoError(t, err)

	r := FromEffect(context.Background(), invert.New(src), src.FrameRange())
	for i := 0; i < 3; i++ {
		img, _, err := r.Read()
		require.NoError(t, err)
		gray, ok := img.(*image.Gray)
		require.True(t, ok)
		assert.Equal(t, []uint8{uint8(255 - i), uint8(255 - i)}, gray.Pix)
	}

	_, _, err = r.Read()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestFromEffectError(t *testing.T) {
	r := FromEffect(context.Background(), invert.New(nil), fx.FrameRange{Min: 0, Max: 0})
	_, _, err := r.Read()
	assert.True(t, errors.Is(err, fx.ErrMissingClip))
}

func TestForEach(t *testing.T) {
	n, released := 0, 0
	src := ReaderFunc(func() (image.Image, func(), error) {
		if n == 3 {
			return nil, func() {}, io.EOF
		}
		n++
		return image.NewGray(image.Rect(0, 0, n, 1)), func() { released++ }, nil
	})

	var widths []int
	err := ForEach(src, func(i int, img image.Image) error {
		assert.Equal(t, len(widths), i)
		widths = append(widths, img.Bounds().Dx())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, widths)
	assert.Equal(t, 3, released)

	stop := errors.New("stop")
	n, released = 0, 0
	err = ForEach(src, func(int, image.Image) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, released)
}
