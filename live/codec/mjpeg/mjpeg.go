// Package mjpeg streams frames as multipart/x-mixed-replace JPEG parts.
package mjpeg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"

	"github.com/allape/livegif/live/codec"
	"github.com/allape/livegif/live/frame"
)

const (
	Boundary       = "frame"
	ContentType    = "multipart/x-mixed-replace; boundary=" + Boundary
	DefaultQuality = 75
)

var ErrClosed = errors.New("mjpeg encoder is closed")

type Codec struct {
	codec.Codec
	Quality int
}

func (c *Codec) ContentType() string {
	return ContentType
}

func (c *Codec) NewEncoder(w io.Writer, size image.Point) (codec.Encoder, error) {
	return NewEncoder(w, size, c.Quality)
}

type Encoder struct {
	codec.Encoder

	mw      *multipart.Writer
	size    image.Point
	options *jpeg.Options
	buffer  *bytes.Buffer
	closed  bool
}

// NewEncoder writes nothing, a multipart body has no preamble.
func NewEncoder(w io.Writer, size image.Point, quality int) (*Encoder, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("invalid jpeg size %v", size)
	}

	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	mw := multipart.NewWriter(w)
	err := mw.SetBoundary(Boundary)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		mw:      mw,
		size:    size,
		options: &jpeg.Options{Quality: quality},
		buffer:  bytes.NewBuffer(nil),
	}, nil
}

func (e *Encoder) WriteFrame(f *frame.Frame) error {
	if e.closed {
		return ErrClosed
	}

	if f.Width != e.size.X || f.Height != e.size.Y {
		return fmt.Errorf("%w: got %dx%d, expected %dx%d", frame.ErrDimensionMismatch, f.Width, f.Height, e.size.X, e.size.Y)
	}

	e.buffer.Reset()
	err := jpeg.Encode(e.buffer, f.Image(), e.options)
	if err != nil {
		return err
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Type", "image/jpeg")
	header.Set("Content-Length", strconv.Itoa(e.buffer.Len()))

	part, err := e.mw.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(e.buffer.Bytes())
	return err
}

// Close writes the closing boundary.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.mw.Close()
}
