// Package pool provides reusable byte buffers for the hot paths that would
// otherwise allocate fresh scratch space on every Compress/Decompress call:
// the tokenizer's LZ77 window, the rANS bitstream builder, and the final
// container assembly buffer.
package pool

import "sync"

const (
	// WindowBufferSize is the default capacity for a pooled LZ77 window
	// buffer: 32 KiB of window content plus dictionary seed bytes.
	WindowBufferSize = 1024 * 34
	// BitstreamBufferSize is the default capacity for a pooled rANS
	// output buffer, sized for a typical short machine-generated message.
	BitstreamBufferSize = 1024 * 4
	// ContainerBufferSize is the default capacity for the pooled buffer
	// used to assemble the final container bytes.
	ContainerBufferSize = 1024 * 4
	// MaxPooledCapacity discards buffers grown past this size instead of
	// returning them to the pool, to avoid retaining outsized allocations
	// from rare, very large inputs.
	MaxPooledCapacity = 1024 * 512
)

// ByteBuffer is a growable byte slice wrapper with an amortized growth
// strategy, reused across calls via ByteBufferPool.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given starting capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the buffer's current contents.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while retaining its backing array.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes currently written.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Grow ensures at least requiredBytes of spare capacity, reallocating and
// copying if needed.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := requiredBytes
	if doubled := cap(bb.B); doubled > growBy {
		growBy = doubled
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// WriteByte appends a single byte to the buffer, growing it as needed.
func (bb *ByteBuffer) WriteByte(b byte) {
	bb.Grow(1)
	bb.B = append(bb.B, b)
}

// ByteBufferPool pools ByteBuffers of a common default size.
type ByteBufferPool struct {
	pool sync.Pool
}

// NewByteBufferPool creates a pool whose buffers start at defaultSize.
func NewByteBufferPool(defaultSize int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
	}
}

// Get retrieves a reset ByteBuffer from the pool.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool, discarding it if it grew past
// MaxPooledCapacity.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if cap(bb.B) > MaxPooledCapacity {
		return
	}
	bb.Reset()
	p.pool.Put(bb)
}

var (
	windowPool     = NewByteBufferPool(WindowBufferSize)
	bitstreamPool  = NewByteBufferPool(BitstreamBufferSize)
	containerPool  = NewByteBufferPool(ContainerBufferSize)
)

// GetWindowBuffer retrieves a pooled buffer sized for an LZ77 window.
func GetWindowBuffer() *ByteBuffer { return windowPool.Get() }

// PutWindowBuffer returns a window buffer to its pool.
func PutWindowBuffer(bb *ByteBuffer) { windowPool.Put(bb) }

// GetBitstreamBuffer retrieves a pooled buffer sized for rANS output.
func GetBitstreamBuffer() *ByteBuffer { return bitstreamPool.Get() }

// PutBitstreamBuffer returns a bitstream buffer to its pool.
func PutBitstreamBuffer(bb *ByteBuffer) { bitstreamPool.Put(bb) }

// GetContainerBuffer retrieves a pooled buffer for final container assembly.
func GetContainerBuffer() *ByteBuffer { return containerPool.Get() }

// PutContainerBuffer returns a container buffer to its pool.
func PutContainerBuffer(bb *ByteBuffer) { containerPool.Put(bb) }
