// Package channel holds the latest published value for any number of readers.
//
// A Channel has one slot. Publish overwrites it and bumps the generation, readers
// wait for a generation they have not seen yet. Nothing is queued: a slow reader
// skips values instead of falling behind.
package channel

import (
	"context"
	"sync"
	"sync/atomic"
)

type Channel[T any] struct {
	locker     sync.Locker
	value      T
	generation uint64
	changed    chan struct{}

	subscribers atomic.Int64
}

func New[T any](initial T) *Channel[T] {
	return &Channel[T]{
		locker:  &sync.Mutex{},
		value:   initial,
		changed: make(chan struct{}),
	}
}

// Publish replaces the value, wakes every waiting subscriber and returns the new generation.
func (c *Channel[T]) Publish(value T) uint64 {
	c.locker.Lock()
	defer c.locker.Unlock()

	c.value = value
	c.generation++

	close(c.changed)
	c.changed = make(chan struct{})

	return c.generation
}

func (c *Channel[T]) Load() (T, uint64) {
	c.locker.Lock()
	defer c.locker.Unlock()
	return c.value, c.generation
}

func (c *Channel[T]) Generation() uint64 {
	c.locker.Lock()
	defer c.locker.Unlock()
	return c.generation
}

func (c *Channel[T]) Subscribers() int {
	return int(c.subscribers.Load())
}

// Subscribe
// The subscription starts at the current generation, so the value held right now
// is never returned by Next.
func (c *Channel[T]) Subscribe() *Subscription[T] {
	c.locker.Lock()
	defer c.locker.Unlock()

	c.subscribers.Add(1)

	return &Subscription[T]{
		channel: c,
		seen:    c.generation,
	}
}

// Subscription must be used from a single goroutine.
type Subscription[T any] struct {
	channel *Channel[T]
	seen    uint64
	skipped uint64
	closed  atomic.Bool
}

// Next blocks until a generation newer than the last one seen is published or ctx is done.
func (s *Subscription[T]) Next(ctx context.Context) (T, uint64, error) {
	c := s.channel

	for {
		c.locker.Lock()
		if c.generation != s.seen {
			value, generation := c.value, c.generation
			s.skipped += generation - s.seen - 1
			s.seen = generation
			c.locker.Unlock()
			return value, generation, nil
		}
		changed := c.changed
		c.locker.Unlock()

		select {
		case <-ctx.Done():
			var zero T
			return zero, s.seen, ctx.Err()
		case <-changed:
		}
	}
}

func (s *Subscription[T]) Seen() uint64 {
	return s.seen
}

// Skipped counts the generations published while this subscriber was busy.
func (s *Subscription[T]) Skipped() uint64 {
	return s.skipped
}

func (s *Subscription[T]) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.channel.subscribers.Add(-1)
	}
}
