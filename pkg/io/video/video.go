// Package video chains transforms over streams of rendered frames.
package video

import (
	"errors"
	"image"
	"io"
)

// Reader produces frames one at a time. release must be called once the
// frame is no longer used. io.EOF ends the stream.
type Reader interface {
	Read() (img image.Image, release func(), err error)
}

type ReaderFunc func() (img image.Image, release func(), err error)

func (rf ReaderFunc) Read() (img image.Image, release func(), err error) {
	return rf()
}

// TransformFunc produces a new Reader that will produces a transformed video
type TransformFunc func(r Reader) Reader

// Merge merges transforms and produces a new TransformFunc that will execute
// transforms in order. Nil transforms are skipped.
func Merge(transforms ...TransformFunc) TransformFunc {
	return func(r Reader) Reader {
		for _, transform := range transforms {
			if transform != nil {
				r = transform(r)
			}
		}
		return r
	}
}

// ForEach reads r until io.EOF, calling fn with the index and image of every
// frame. Each frame is released after fn returns. The first error from r or
// fn stops the loop.
func ForEach(r Reader, fn func(i int, img image.Image) error) error {
	for i := 0; ; i++ {
		img, release, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		err = fn(i, img)
		release()
		if err != nil {
			return err
		}
	}
}
