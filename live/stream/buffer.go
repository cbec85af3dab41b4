package stream

import (
	"sync"
)

const initialBufferSize = 1024

// Buffer collects what an encoder writes until the stream swaps it out as one chunk.
type Buffer struct {
	locker sync.Locker
	data   []byte
}

func NewBuffer() *Buffer {
	return &Buffer{
		locker: &sync.Mutex{},
		data:   make([]byte, 0, initialBufferSize),
	}
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.locker.Lock()
	defer b.locker.Unlock()
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *Buffer) Len() int {
	b.locker.Lock()
	defer b.locker.Unlock()
	return len(b.data)
}

// Swap returns everything written so far and starts over with an empty buffer.
// The returned slice is owned by the caller.
func (b *Buffer) Swap() []byte {
	b.locker.Lock()
	defer b.locker.Unlock()
	data := b.data
	b.data = make([]byte, 0, max(initialBufferSize, cap(data)))
	return data
}
