package video

import "github.com/pion/mediafx/pkg/pixel"

// Property represents a video's basic properties
type Property struct {
	Width, Height int
	Format        pixel.Format
}
