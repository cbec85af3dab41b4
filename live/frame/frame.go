package frame

import (
	"image"
	"time"
)

// Frame
// One rendered image. Pix is RGBA, row-major, 4 bytes per pixel with a stride of 4*Width.
// A Frame must not be modified once it has been published.
type Frame struct {
	Index      uint64
	Width      int
	Height     int
	Pix        []byte
	Delay      time.Duration
	RenderedAt time.Time
}

func (f *Frame) Size() image.Point {
	return image.Point{X: f.Width, Y: f.Height}
}

// Image wraps Pix without copying it.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: 4 * f.Width,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Result is what the producer publishes on every tick: a frame, or the reason there is none.
type Result struct {
	Frame *Frame
	Err   error
}

// Sentinel is the value a channel holds before the first frame is rendered.
func Sentinel() Result {
	return Result{Err: ErrSentinel}
}

func (r Result) IsSentinel() bool {
	return r.Frame == nil && r.Err == ErrSentinel
}

func (r Result) OK() bool {
	return r.Err == nil && r.Frame != nil
}
