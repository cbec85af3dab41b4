package text

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/allape/livegif/live/render"
)

func TestRender(t *testing.T) {
	r := New(nil)
	if err := r.Open(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = r.Close()
	}()

	if size := r.Size(); size.X != 300 || size.Y != 100 {
		t.Fatalf("unexpected size %v", size)
	}

	d := &render.Drawer{Renderer: r}

	a1, err := d.Draw(1)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := d.Draw(1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := d.Draw(2)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(a1.Pix, a2.Pix) {
		t.Fatal("same index rendered differently")
	}
	if bytes.Equal(a1.Pix, b.Pix) {
		t.Fatal("different indexes rendered identically")
	}

	// background is white, text is dark
	if a1.Pix[0] != 255 || a1.Pix[1] != 255 || a1.Pix[2] != 255 {
		t.Fatalf("expected white corner, got %v", a1.Pix[:4])
	}
	dark := false
	for i := 0; i < len(a1.Pix); i += 4 {
		if a1.Pix[i] < 128 {
			dark = true
			break
		}
	}
	if !dark {
		t.Fatal("no text drawn")
	}
}

func TestRenderWithoutOpen(t *testing.T) {
	d := &render.Drawer{Renderer: New(&Options{Width: 10, Height: 10})}
	if _, err := d.Draw(0); err == nil {
		t.Fatal("expected error when font is not loaded")
	}
}

func TestOpenMissingFont(t *testing.T) {
	r := New(&Options{FontPath: filepath.Join(t.TempDir(), "nope.ttf")})
	if err := r.Open(); err == nil {
		t.Fatal("expected error")
	}
}

func TestFacesBuiltOnOpen(t *testing.T) {
	r := New(&Options{Width: 80, Height: 30, Timestamp: true})
	if err := r.Open(); err != nil {
		t.Fatal(err)
	}

	face, stampFace := r.face, r.stampFace
	if face == nil || stampFace == nil {
		t.Fatal("expected faces after Open")
	}

	d := &render.Drawer{Renderer: r}
	for i := uint64(0); i < 3; i++ {
		if _, err := d.Draw(i); err != nil {
			t.Fatal(err)
		}
	}
	if r.face != face || r.stampFace != stampFace {
		t.Fatal("faces must be reused between frames")
	}
}
