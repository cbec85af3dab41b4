package drive

import (
	"image"

	"github.com/allape/livegif/live/render"
	"github.com/fogleman/gg"
)

// Renderer draws a dot driving randomly around the surface, with a short trail behind it.
// The walk is replayed from the seed, so an index always gives the same picture.
type Renderer struct {
	render.Renderer

	walker *Walker
	trail  [][2]float64

	Width    int
	Height   int
	Seed     uint64
	MaxSpeed float64
	Radius   float64
	Trail    int
}

func (r *Renderer) Open() error {
	r.reset()
	return nil
}

func (r *Renderer) Close() error {
	return nil
}

func (r *Renderer) Size() image.Point {
	return image.Point{X: r.Width, Y: r.Height}
}

func (r *Renderer) reset() {
	r.walker = NewWalker(
		r.Seed,
		r.Radius, r.Radius,
		float64(r.Width)-r.Radius, float64(r.Height)-r.Radius,
		r.MaxSpeed,
	)
	r.trail = r.trail[:0]
	r.remember()
}

func (r *Renderer) remember() {
	if len(r.trail) > 0 && len(r.trail) >= r.Trail {
		r.trail = append(r.trail[:0], r.trail[1:]...)
	}
	r.trail = append(r.trail, [2]float64{r.walker.X, r.walker.Y})
}

func (r *Renderer) advanceTo(index uint64) {
	if r.walker == nil || index < r.walker.Steps {
		r.reset()
	}
	for r.walker.Steps < index {
		r.walker.Step()
		r.remember()
	}
}

func (r *Renderer) Render(index uint64, dc *gg.Context) error {
	r.advanceTo(index)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if len(r.trail) > 1 {
		dc.SetRGB(0.6, 0.6, 0.6)
		dc.SetLineWidth(r.Radius / 2)
		dc.MoveTo(r.trail[0][0], r.trail[0][1])
		for _, p := range r.trail[1:] {
			dc.LineTo(p[0], p[1])
		}
		dc.Stroke()
	}

	dc.SetRGB(0, 0, 0)
	dc.DrawCircle(r.walker.X, r.walker.Y, r.Radius)
	dc.Fill()

	return nil
}

type Options struct {
	Width    int
	Height   int
	Seed     uint64
	MaxSpeed float64
	Radius   float64
	Trail    int
}

func New(options *Options) *Renderer {
	if options == nil {
		options = &Options{}
	}

	if options.Width == 0 {
		options.Width = 300
	}
	if options.Height == 0 {
		options.Height = 100
	}
	if options.MaxSpeed == 0 {
		options.MaxSpeed = 4
	}
	if options.Radius == 0 {
		options.Radius = 4
	}
	if options.Trail == 0 {
		options.Trail = 16
	} else if options.Trail < 0 {
		options.Trail = 1
	}

	return &Renderer{
		Width:    options.Width,
		Height:   options.Height,
		Seed:     options.Seed,
		MaxSpeed: options.MaxSpeed,
		Radius:   options.Radius,
		Trail:    options.Trail,
	}
}
