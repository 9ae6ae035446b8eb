package video

import (
	"image"

	"github.com/pion/mediafx/pkg/pixel"
)

// DetectChanges calls onChange with the properties of the first frame and
// every time the size or pixel format of the frames changes.
func DetectChanges(onChange func(Property)) TransformFunc {
	return func(r Reader) Reader {
		var current Property
		var started bool
		return ReaderFunc(func() (image.Image, func(), error) {
			img, release, err := r.Read()
			if err != nil {
				return nil, func() {}, err
			}

			bounds := img.Bounds()
			next := Property{
				Width:  bounds.Dx(),
				Height: bounds.Dy(),
				Format: pixel.FormatOf(img),
			}
			if !started || next != current {
				started = true
				current = next
				onChange(current)
			}

			return img, release, nil
		})
	}
}
