package factory

import (
	"image"
	"testing"

	"github.com/allape/livegif/config"
	"github.com/allape/livegif/live/codec/gif"
	"github.com/allape/livegif/live/codec/mjpeg"
	"github.com/allape/livegif/live/render/drive"
	"github.com/allape/livegif/live/render/fade"
	"github.com/allape/livegif/live/render/text"
)

func TestRendererFromConfig(t *testing.T) {
	conf := config.Default()
	conf.Video.Width = 64
	conf.Video.Height = 32

	r, err := RendererFromConfig(conf)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.(*text.Renderer); !ok {
		t.Fatalf("expected text renderer, got %T", r)
	}
	if r.Size() != (image.Point{X: 64, Y: 32}) {
		t.Fatalf("unexpected size %v", r.Size())
	}

	conf.Video.Renderer = config.RendererFade
	conf.Video.Ext = `saturation:"0.8" period:"64"`
	r, err = RendererFromConfig(conf)
	if err != nil {
		t.Fatal(err)
	}
	if f, ok := r.(*fade.Renderer); !ok || f.Period != 64 || f.Saturation != 0.8 {
		t.Fatalf("unexpected %T %+v", r, r)
	}

	conf.Video.Renderer = config.RendererDrive
	conf.Video.Ext = `seed:"9" max_speed:"2"`
	r, err = RendererFromConfig(conf)
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := r.(*drive.Renderer); !ok || d.Seed != 9 || d.MaxSpeed != 2 {
		t.Fatalf("unexpected %T %+v", r, r)
	}
}

func TestRendererFromConfigErrors(t *testing.T) {
	conf := config.Default()
	conf.Video.Renderer = "webcam"
	if _, err := RendererFromConfig(conf); err == nil {
		t.Fatal("expected an error for an unknown renderer")
	}

	conf.Video.Renderer = config.RendererDrive
	conf.Video.Ext = `seed:"-1"`
	if _, err := RendererFromConfig(conf); err == nil {
		t.Fatal("expected an error for an invalid seed")
	}
}

func TestCodecFromConfig(t *testing.T) {
	conf := config.Default()

	c, err := CodecFromConfig(conf)
	if err != nil {
		t.Fatal(err)
	}
	g, ok := c.(*gif.Codec)
	if !ok || g.Options.LoopCount != 1 || !g.Options.Delta {
		t.Fatalf("unexpected %T %+v", c, c)
	}

	conf.Codec.Type = config.CodecMJPEG
	c, err = CodecFromConfig(conf)
	if err != nil {
		t.Fatal(err)
	}
	if m, ok := c.(*mjpeg.Codec); !ok || m.Quality != 75 || c.ContentType() != mjpeg.ContentType {
		t.Fatalf("unexpected %T %+v", c, c)
	}

	conf.Codec.Type = "png"
	if _, err := CodecFromConfig(conf); err == nil {
		t.Fatal("expected an error for an unknown codec")
	}
}
