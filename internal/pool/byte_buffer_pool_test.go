package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByteBufferGrowPreservesContents(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.Write([]byte("ab"))
	bb.Grow(100)
	bb.Write([]byte("cd"))

	assert.Equal(t, "abcd", string(bb.Bytes()))
}

func TestByteBufferResetKeepsCapacity(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.Write([]byte("hello"))
	cap0 := cap(bb.B)
	bb.Reset()

	assert.Zero(t, bb.Len(), "expected length 0 after reset")
	assert.Equal(t, cap0, cap(bb.B), "expected capacity to be retained across reset")
}

func TestByteBufferPoolGetPutDiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(8)
	bb := p.Get()
	bb.Grow(MaxPooledCapacity + 1)
	bb.Write(make([]byte, MaxPooledCapacity+1))
	p.Put(bb)

	fresh := p.Get()
	assert.LessOrEqual(t, cap(fresh.B), MaxPooledCapacity, "oversized buffer should not have been retained in the pool")
}

func TestWindowBufferPoolRoundTrip(t *testing.T) {
	bb := GetWindowBuffer()
	bb.Write([]byte("seed data"))
	PutWindowBuffer(bb)

	again := GetWindowBuffer()
	assert.Zero(t, again.Len(), "expected a reset buffer from the pool")
}
