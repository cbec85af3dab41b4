package codec

import (
	"image"
	"io"

	"github.com/allape/livegif/live/frame"
)

// Encoder appends one frame at a time to the writer it was created with.
// An Encoder belongs to a single connection and is not safe for concurrent use.
type Encoder interface {
	WriteFrame(f *frame.Frame) error
	// Close writes the trailer of the format, the writer itself is left open.
	Close() error
}

type Codec interface {
	ContentType() string
	// NewEncoder writes the format header to w.
	NewEncoder(w io.Writer, size image.Point) (Encoder, error)
}
