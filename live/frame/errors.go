package frame

import (
	"errors"
	"fmt"
)

var (
	ErrSentinel          = errors.New("no frame has been rendered yet")
	ErrDimensionMismatch = errors.New("frame dimension mismatch")
)

// RenderError
// A single frame could not be drawn. The producer publishes it and keeps running.
type RenderError struct {
	Index uint64
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render frame #%d: %v", e.Index, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// EncodeError ends the one connection whose encoder failed.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return "encode frame: " + e.Err.Error()
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// FatalError
// The producer could not start, no frame will ever be published again.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "frame producer halted: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}
