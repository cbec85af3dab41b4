package render

import (
	"image"
	"time"

	"github.com/allape/livegif/live/frame"
	"github.com/fogleman/gg"
)

// Renderer paints one frame onto a drawing surface.
// Rendering the same index twice must give the same pixels, unless the renderer says otherwise.
type Renderer interface {
	// Open loads fonts and other resources. An error here stops the producer for good.
	Open() error
	Close() error

	Size() image.Point
	Render(index uint64, dc *gg.Context) error
}

// Drawer turns a Renderer into frames.
type Drawer struct {
	Renderer Renderer
	Delay    time.Duration
}

// Draw renders frame #index onto a fresh surface.
// The surface is never reused: a published frame stays immutable while encoders read it.
func (d *Drawer) Draw(index uint64) (*frame.Frame, error) {
	size := d.Renderer.Size()
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))

	err := d.Renderer.Render(index, gg.NewContextForRGBA(img))
	if err != nil {
		return nil, &frame.RenderError{Index: index, Err: err}
	}

	return &frame.Frame{
		Index:      index,
		Width:      size.X,
		Height:     size.Y,
		Pix:        img.Pix,
		Delay:      d.Delay,
		RenderedAt: time.Now(),
	}, nil
}

// Func adapts a drawing function into a Renderer.
type Func struct {
	Width  int
	Height int

	OpenFunc   func() error
	RenderFunc func(index uint64, dc *gg.Context) error
}

func (f *Func) Open() error {
	if f.OpenFunc == nil {
		return nil
	}
	return f.OpenFunc()
}

func (f *Func) Close() error {
	return nil
}

func (f *Func) Size() image.Point {
	return image.Point{X: f.Width, Y: f.Height}
}

func (f *Func) Render(index uint64, dc *gg.Context) error {
	if f.RenderFunc == nil {
		return nil
	}
	return f.RenderFunc(index, dc)
}
