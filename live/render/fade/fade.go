package fade

import (
	"image"

	"github.com/allape/livegif/live/render"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
)

const DefaultPeriod = 128

// Renderer fills the whole surface with one colour that changes every frame.
// With zero saturation it is a grey ramp from black to almost white.
type Renderer struct {
	render.Renderer

	Width      int
	Height     int
	Period     uint64
	Saturation float64
}

func (r *Renderer) Open() error {
	return nil
}

func (r *Renderer) Close() error {
	return nil
}

func (r *Renderer) Size() image.Point {
	return image.Point{X: r.Width, Y: r.Height}
}

func (r *Renderer) Color(index uint64) colorful.Color {
	w := float64(index%r.Period) / float64(r.Period)
	if r.Saturation <= 0 {
		return colorful.Color{R: w, G: w, B: w}
	}
	return colorful.Hsv(w*360, r.Saturation, 1)
}

func (r *Renderer) Render(index uint64, dc *gg.Context) error {
	c := r.Color(index)
	dc.SetRGB(c.R, c.G, c.B)
	dc.Clear()
	return nil
}

type Options struct {
	Width      int
	Height     int
	Period     uint64
	Saturation float64
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
	if options.Period == 0 {
		options.Period = DefaultPeriod
	}
	if options.Saturation > 1 {
		options.Saturation = 1
	}

	return &Renderer{
		Width:      options.Width,
		Height:     options.Height,
		Period:     options.Period,
		Saturation: options.Saturation,
	}
}
