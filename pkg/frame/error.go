package frame

import "fmt"

// InsufficientBufferError tells the caller that the raw frame provided is too
// short to hold a whole image of the requested size.
type InsufficientBufferError struct {
	Size         int
	RequiredSize int
}

func (e *InsufficientBufferError) Error() string {
	return fmt.Sprintf("frame length (%d) less than expected (%d)", e.Size, e.RequiredSize)
}
