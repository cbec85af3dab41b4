// Package gif writes an animated GIF one frame at a time.
//
// image/gif can only encode a complete animation, a live stream needs the
// header first and every frame as soon as it exists.
package gif

import (
	"compress/lzw"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/allape/livegif/live/codec"
	"github.com/allape/livegif/live/frame"
)

const ContentType = "image/gif"

const (
	fileHeader = "GIF89a"

	sExtension       = 0x21
	sImageDescriptor = 0x2C
	sTrailer         = 0x3B

	eGraphicControl = 0xF9
	eApplication    = 0xFF

	fColorTable    = 0x80
	disposalNone   = 0x01
	maxDimension   = 0xFFFF
	maxPaletteBits = 8
)

var ErrClosed = errors.New("gif encoder is closed")

type Options struct {
	// LoopCount follows image/gif: 0 loops forever, -1 shows every frame once,
	// n shows the animation n+1 times.
	LoopCount int
	// Dither applies Floyd-Steinberg when a frame has more than 256 colours.
	Dither bool
	// Delta encodes only the rectangle that changed since the previous frame.
	Delta bool
}

type Codec struct {
	codec.Codec
	Options Options
}

func (c *Codec) ContentType() string {
	return ContentType
}

func (c *Codec) NewEncoder(w io.Writer, size image.Point) (codec.Encoder, error) {
	return NewEncoder(w, size, c.Options)
}

type Encoder struct {
	codec.Encoder

	w       io.Writer
	size    image.Point
	options Options

	previous *image.RGBA
	closed   bool
}

func NewEncoder(w io.Writer, size image.Point, options Options) (*Encoder, error) {
	if size.X <= 0 || size.Y <= 0 || size.X > maxDimension || size.Y > maxDimension {
		return nil, fmt.Errorf("invalid gif size %v", size)
	}

	e := &Encoder{
		w:       w,
		size:    size,
		options: options,
	}

	err := e.writeHeader()
	if err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Encoder) writeHeader() error {
	buf := make([]byte, 0, 32)
	buf = append(buf, fileHeader...)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(e.size.X))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(e.size.Y))
	// every frame carries a local color table, no global one is needed
	buf = append(buf,
		0x00, // flags
		0x00, // background color index
		0x00, // pixel aspect ratio
	)

	if e.options.LoopCount >= 0 {
		buf = append(buf, sExtension, eApplication, 0x0B)
		buf = append(buf, "NETSCAPE2.0"...)
		buf = append(buf, 0x03, 0x01)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(e.options.LoopCount))
		buf = append(buf, 0x00)
	}

	_, err := e.w.Write(buf)
	return err
}

func (e *Encoder) WriteFrame(f *frame.Frame) error {
	if e.closed {
		return ErrClosed
	}

	if f.Width != e.size.X || f.Height != e.size.Y {
		return fmt.Errorf("%w: got %dx%d, expected %dx%d", frame.ErrDimensionMismatch, f.Width, f.Height, e.size.X, e.size.Y)
	}
	if len(f.Pix) < 4*f.Width*f.Height {
		return fmt.Errorf("short pixel buffer: %d bytes for %dx%d", len(f.Pix), f.Width, f.Height)
	}

	img := f.Image()

	bounds := img.Bounds()
	if e.options.Delta && e.previous != nil {
		bounds = ChangedBounds(e.previous, img)
		if bounds.Empty() {
			// the frame still has to be there to carry its delay
			bounds = image.Rect(0, 0, 1, 1)
		}
	}

	err := e.writeImage(Quantize(img, bounds, e.options.Dither), f.Delay)
	if err != nil {
		return err
	}

	e.previous = img

	return nil
}

func (e *Encoder) writeImage(pm *image.Paletted, delay time.Duration) error {
	r := pm.Rect
	bits := paletteBits(len(pm.Palette))
	centiseconds := uint16(delay / (10 * time.Millisecond))

	buf := make([]byte, 0, 20+3<<bits)

	buf = append(buf, sExtension, eGraphicControl, 0x04, disposalNone<<2)
	buf = binary.LittleEndian.AppendUint16(buf, centiseconds)
	buf = append(buf,
		0x00, // transparent color index
		0x00, // block terminator
	)

	buf = append(buf, sImageDescriptor)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(r.Min.X))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(r.Min.Y))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(r.Dx()))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(r.Dy()))
	buf = append(buf, fColorTable|byte(bits-1))

	for i := 0; i < 1<<bits; i++ {
		if i < len(pm.Palette) {
			c := pm.Palette[i]
			cr, cg, cb, _ := c.RGBA()
			buf = append(buf, byte(cr>>8), byte(cg>>8), byte(cb>>8))
		} else {
			buf = append(buf, 0x00, 0x00, 0x00)
		}
	}

	litWidth := bits
	if litWidth < 2 {
		litWidth = 2
	}
	buf = append(buf, byte(litWidth))

	_, err := e.w.Write(buf)
	if err != nil {
		return err
	}

	bw := &blockWriter{w: e.w}
	lzww := lzw.NewWriter(bw, lzw.LSB, litWidth)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		offset := pm.PixOffset(r.Min.X, y)
		_, err = lzww.Write(pm.Pix[offset : offset+r.Dx()])
		if err != nil {
			_ = lzww.Close()
			return err
		}
	}
	err = lzww.Close()
	if err != nil {
		return err
	}

	return bw.close()
}

// Close writes the trailer. The encoder accepts no frames afterwards.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	_, err := e.w.Write([]byte{sTrailer})
	return err
}

// paletteBits is the smallest n with 2^n >= size, at least 1.
func paletteBits(size int) int {
	bits := 1
	for bits < maxPaletteBits && 1<<bits < size {
		bits++
	}
	return bits
}

// blockWriter splits LZW output into data sub-blocks of at most 255 bytes.
type blockWriter struct {
	w   io.Writer
	buf [256]byte
	n   int
}

func (b *blockWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		k := copy(b.buf[1+b.n:], p)
		b.n += k
		written += k
		p = p[k:]
		if b.n == 255 {
			err := b.flush()
			if err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (b *blockWriter) flush() error {
	if b.n == 0 {
		return nil
	}
	b.buf[0] = byte(b.n)
	_, err := b.w.Write(b.buf[:b.n+1])
	b.n = 0
	return err
}

func (b *blockWriter) close() error {
	err := b.flush()
	if err != nil {
		return err
	}
	_, err = b.w.Write([]byte{0x00})
	return err
}
