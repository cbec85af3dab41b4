package text

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/allape/livegif/live/render"
	"github.com/allape/livegif/live/render/font"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
)

const DefaultFormat = "this is frame #%d"

// Renderer writes the frame number on a plain background.
type Renderer struct {
	render.Renderer

	font      *truetype.Font
	face      xfont.Face
	stampFace xfont.Face

	Width           int
	Height          int
	FontPath        string
	FontSize        float64
	Format          string
	BackgroundColor color.Color
	Color           color.Color
	// Timestamp puts the current time in YYYY-MM-dd HH:mm:ss at the right bottom corner.
	// Frames are no longer reproducible from the index alone when it is set.
	Timestamp bool
}

func (r *Renderer) Open() error {
	f, err := font.Load(r.FontPath)
	if err != nil {
		return fmt.Errorf("load font %q: %w", r.FontPath, err)
	}
	r.font = f
	r.face = font.Face(f, r.FontSize)
	r.stampFace = font.Face(f, r.FontSize*0.6)
	return nil
}

func (r *Renderer) Close() error {
	return nil
}

func (r *Renderer) Size() image.Point {
	return image.Point{X: r.Width, Y: r.Height}
}

func (r *Renderer) Render(index uint64, dc *gg.Context) error {
	if r.face == nil {
		return errors.New("font is not loaded")
	}

	dc.SetColor(r.BackgroundColor)
	dc.Clear()

	dc.SetFontFace(r.face)
	dc.SetColor(r.Color)
	dc.DrawString(fmt.Sprintf(r.Format, index), 0, float64(r.Height)/2)

	if r.Timestamp {
		nowStr := time.Now().Format(time.DateTime)
		dc.SetFontFace(r.stampFace)
		dc.DrawStringAnchored(nowStr, float64(r.Width-4), float64(r.Height-4), 1, 0)
	}

	return nil
}

type Options struct {
	Width     int
	Height    int
	FontPath  string
	FontSize  float64
	Format    string
	Timestamp bool
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
	if options.FontSize == 0 {
		options.FontSize = 20
	}
	if options.Format == "" {
		options.Format = DefaultFormat
	}

	return &Renderer{
		Width:           options.Width,
		Height:          options.Height,
		FontPath:        options.FontPath,
		FontSize:        options.FontSize,
		Format:          options.Format,
		Timestamp:       options.Timestamp,
		BackgroundColor: color.White,
		Color:           color.Black,
	}
}
