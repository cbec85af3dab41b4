// Package stream turns the frames of one channel subscription into encoded chunks for one connection.
package stream

import (
	"context"
	"errors"
	"image"
	"io"

	"github.com/allape/gogger"
	"github.com/allape/livegif/live/channel"
	"github.com/allape/livegif/live/codec"
	"github.com/allape/livegif/live/frame"
	"github.com/allape/livegif/monitoring"
)

var l = gogger.New("live.stream")

// Stream
// The first call to Next creates the encoder and returns the format header.
// Every following call waits for a new frame and returns its encoded bytes.
// A Stream is owned by a single connection and must not be shared.
type Stream struct {
	subscription *channel.Subscription[frame.Result]
	codec        codec.Codec
	size         image.Point
	maxFrames    int
	metrics      *monitoring.Metrics

	buffer  *Buffer
	encoder codec.Encoder

	frames   int
	skipped  uint64
	finished bool
	err      error
}

type Options struct {
	// MaxFrames ends the stream cleanly after this many frames, 0 means unbounded.
	MaxFrames int
	Metrics   *monitoring.Metrics
}

func New(subscription *channel.Subscription[frame.Result], c codec.Codec, size image.Point, options *Options) *Stream {
	if options == nil {
		options = &Options{}
	}

	maxFrames := options.MaxFrames
	if maxFrames < 0 {
		maxFrames = 0
	}

	return &Stream{
		subscription: subscription,
		codec:        c,
		size:         size,
		maxFrames:    maxFrames,
		metrics:      options.Metrics,
		buffer:       NewBuffer(),
	}
}

// Frames is the number of frames encoded so far.
func (s *Stream) Frames() int {
	return s.frames
}

// Next returns the next chunk.
// It returns io.EOF once a capped stream has written its trailer, and the same
// terminal error on every call after a failure.
func (s *Stream) Next(ctx context.Context) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}

	if s.encoder == nil {
		encoder, err := s.codec.NewEncoder(s.buffer, s.size)
		if err != nil {
			return nil, s.fail(&frame.EncodeError{Err: err})
		}
		s.encoder = encoder
		return s.buffer.Swap(), nil
	}

	if s.finished {
		return nil, io.EOF
	}

	if s.maxFrames > 0 && s.frames >= s.maxFrames {
		s.finished = true
		err := s.encoder.Close()
		if err != nil {
			return nil, s.fail(&frame.EncodeError{Err: err})
		}
		return s.buffer.Swap(), nil
	}

	for {
		result, generation, err := s.subscription.Next(ctx)
		s.recordSkipped()
		if err != nil {
			// a cancelled context is not remembered, the caller is gone anyway
			return nil, err
		}

		if result.IsSentinel() {
			continue
		}
		if result.Err != nil {
			return nil, s.fail(result.Err)
		}
		if result.Frame == nil {
			return nil, s.fail(errors.New("empty frame result"))
		}

		err = s.encoder.WriteFrame(result.Frame)
		if err != nil {
			s.metrics.EncodeFailed()
			return nil, s.fail(&frame.EncodeError{Err: err})
		}

		s.frames++
		l.Verbose().Printf("encoded frame #%d from generation %d", result.Frame.Index, generation)

		return s.buffer.Swap(), nil
	}
}

func (s *Stream) recordSkipped() {
	skipped := s.subscription.Skipped()
	s.metrics.Skipped(skipped - s.skipped)
	s.skipped = skipped
}

func (s *Stream) fail(err error) error {
	s.err = err
	s.buffer.Swap()
	return err
}
