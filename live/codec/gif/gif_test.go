package gif

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"math/rand"
	"testing"
	"time"

	"github.com/allape/livegif/live/frame"
)

func solidFrame(index uint64, w, h int, c color.RGBA) *frame.Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return &frame.Frame{Index: index, Width: w, Height: h, Pix: img.Pix, Delay: 40 * time.Millisecond}
}

func noiseFrame(rng *rand.Rand, index uint64, w, h int, pal []color.RGBA) *frame.Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, pal[rng.Intn(len(pal))])
		}
	}
	return &frame.Frame{Index: index, Width: w, Height: h, Pix: img.Pix, Delay: 40 * time.Millisecond}
}

func randomPalette(rng *rand.Rand, n int) []color.RGBA {
	seen := map[color.RGBA]bool{}
	var pal []color.RGBA
	for len(pal) < n {
		c := color.RGBA{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: 0xFF}
		if !seen[c] {
			seen[c] = true
			pal = append(pal, c)
		}
	}
	return pal
}

// decode composites every decoded frame the way a viewer would with disposal "none".
func decode(t *testing.T, data []byte) (*gif.GIF, []*image.RGBA) {
	t.Helper()

	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, g.Config.Width, g.Config.Height))
	var frames []*image.RGBA
	for _, p := range g.Image {
		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Src)
		snapshot := image.NewRGBA(canvas.Bounds())
		copy(snapshot.Pix, canvas.Pix)
		frames = append(frames, snapshot)
	}
	return g, frames
}

func encodeAll(t *testing.T, options Options, frames []*frame.Frame) []byte {
	t.Helper()

	var buf bytes.Buffer
	e, err := NewEncoder(&buf, frames[0].Size(), options)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range frames {
		if err := e.WriteFrame(f); err != nil {
			t.Fatal(err)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name    string
		options Options
	}{
		{"full frames", Options{LoopCount: 1}},
		{"delta frames", Options{LoopCount: 0, Delta: true}},
		{"no loop block", Options{LoopCount: -1, Delta: true}},
	}

	var input []*frame.Frame
	input = append(input, noiseFrame(rng, 0, 97, 61, randomPalette(rng, 200)))
	input = append(input, solidFrame(1, 97, 61, color.RGBA{R: 10, G: 20, B: 30, A: 0xFF}))
	input = append(input, solidFrame(2, 97, 61, color.RGBA{R: 10, G: 20, B: 30, A: 0xFF}))
	input = append(input, noiseFrame(rng, 3, 97, 61, randomPalette(rng, 3)))
	// 255 colours, so the changed pixel below still fits an exact palette
	input = append(input, noiseFrame(rng, 4, 97, 61, randomPalette(rng, 255)))

	// a small change in one corner
	last := image.NewRGBA(image.Rect(0, 0, 97, 61))
	copy(last.Pix, input[4].Pix)
	last.SetRGBA(90, 50, color.RGBA{R: 1, G: 2, B: 3, A: 0xFF})
	input = append(input, &frame.Frame{Index: 5, Width: 97, Height: 61, Pix: last.Pix, Delay: 40 * time.Millisecond})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, decoded := decode(t, encodeAll(t, tt.options, input))

			if len(decoded) != len(input) {
				t.Fatalf("expected %d frames, got %d", len(input), len(decoded))
			}
			if g.Config.Width != 97 || g.Config.Height != 61 {
				t.Fatalf("unexpected size %dx%d", g.Config.Width, g.Config.Height)
			}
			if g.LoopCount != tt.options.LoopCount {
				t.Fatalf("expected loop count %d, got %d", tt.options.LoopCount, g.LoopCount)
			}
			for i, d := range g.Delay {
				if d != 4 {
					t.Fatalf("frame %d: expected delay 4, got %d", i, d)
				}
			}
			for i := range input {
				if !bytes.Equal(decoded[i].Pix, input[i].Pix) {
					t.Fatalf("frame %d differs after decoding", i)
				}
			}

			if tt.options.Delta {
				if b := g.Image[2].Bounds(); b.Dx() != 1 || b.Dy() != 1 {
					t.Fatalf("expected an unchanged frame to be 1x1, got %v", b)
				}
				if b := g.Image[5].Bounds(); b != image.Rect(90, 50, 91, 51) {
					t.Fatalf("expected only the changed pixel, got %v", b)
				}
			}
		})
	}
}

func TestManyColours(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 0xFF})
		}
	}
	f := &frame.Frame{Width: 64, Height: 64, Pix: img.Pix}

	for _, dither := range []bool{false, true} {
		_, decoded := decode(t, encodeAll(t, Options{Dither: dither}, []*frame.Frame{f}))
		if len(decoded) != 1 {
			t.Fatalf("expected 1 frame, got %d", len(decoded))
		}

		var total int
		for i := 0; i < len(img.Pix); i += 4 {
			for c := 0; c < 3; c++ {
				d := int(img.Pix[i+c]) - int(decoded[0].Pix[i+c])
				if d < 0 {
					d = -d
				}
				total += d
			}
		}
		if mean := total / (64 * 64 * 3); mean > 40 {
			t.Fatalf("dither=%v: mean error %d too large", dither, mean)
		}
	}
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewEncoder(&buf, image.Point{X: 300, Y: 100}, Options{LoopCount: 1})
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{'G', 'I', 'F', '8', '9', 'a', 44, 1, 100, 0, 0, 0, 0}
	if !bytes.HasPrefix(buf.Bytes(), want) {
		t.Fatalf("unexpected header % x", buf.Bytes())
	}
	if !bytes.Contains(buf.Bytes(), []byte("NETSCAPE2.0")) {
		t.Fatal("expected a loop block")
	}

	buf.Reset()
	_, err = NewEncoder(&buf, image.Point{X: 1, Y: 1}, Options{LoopCount: -1})
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 13 {
		t.Fatalf("expected a bare 13 byte header, got %d bytes", buf.Len())
	}
}

func TestInvalidSize(t *testing.T) {
	for _, size := range []image.Point{{0, 1}, {1, 0}, {-1, 5}, {70000, 1}} {
		if _, err := NewEncoder(&bytes.Buffer{}, size, Options{}); err == nil {
			t.Fatalf("expected error for %v", size)
		}
	}
}

func TestDimensionMismatch(t *testing.T) {
	var buf bytes.Buffer
	e, err := NewEncoder(&buf, image.Point{X: 4, Y: 4}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	before := buf.Len()
	err = e.WriteFrame(solidFrame(0, 5, 4, color.RGBA{A: 0xFF}))
	if !errors.Is(err, frame.ErrDimensionMismatch) {
		t.Fatalf("expected dimension mismatch, got %v", err)
	}
	if buf.Len() != before {
		t.Fatal("a rejected frame must not write anything")
	}
}

func TestClose(t *testing.T) {
	var buf bytes.Buffer
	e, err := NewEncoder(&buf, image.Point{X: 2, Y: 2}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if b := buf.Bytes(); b[len(b)-1] != sTrailer || bytes.Count(b, []byte{sTrailer}) != 1 {
		t.Fatalf("expected exactly one trailer, got % x", b)
	}
	if err := e.WriteFrame(solidFrame(0, 2, 2, color.RGBA{A: 0xFF})); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestPaletteBits(t *testing.T) {
	tests := []struct{ size, bits int }{
		{1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {16, 4}, {17, 5}, {255, 8}, {256, 8},
	}
	for _, tt := range tests {
		if got := paletteBits(tt.size); got != tt.bits {
			t.Fatalf("paletteBits(%d) = %d, expected %d", tt.size, got, tt.bits)
		}
	}
}

func TestChangedBounds(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 10, 10))
	b := image.NewRGBA(image.Rect(0, 0, 10, 10))

	if r := ChangedBounds(a, b); !r.Empty() {
		t.Fatalf("expected empty, got %v", r)
	}

	b.SetRGBA(2, 3, color.RGBA{R: 1})
	b.SetRGBA(7, 5, color.RGBA{G: 1})
	if r := ChangedBounds(a, b); r != image.Rect(2, 3, 8, 6) {
		t.Fatalf("unexpected %v", r)
	}

	c := image.NewRGBA(image.Rect(0, 0, 10, 10))
	c.SetRGBA(4, 4, color.RGBA{A: 0xFF})
	if r := ChangedBounds(a, c); !r.Empty() {
		t.Fatalf("alpha only changes should be ignored, got %v", r)
	}
}
