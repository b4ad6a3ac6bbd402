package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain3HashesOnlyFirstThreeBytes(t *testing.T) {
	a := Chain3([]byte("abcdef"), 1024)
	b := Chain3([]byte("abcxyz"), 1024)
	assert.Equal(t, a, b, "Chain3 should hash only the first 3 bytes")
}

func TestChain3BoundsWithinTable(t *testing.T) {
	size := 256
	for _, s := range [][]byte{[]byte("abc"), []byte("xyz"), []byte("123")} {
		idx := Chain3(s, size)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, size)
	}
}

func TestChain3ShortInput(t *testing.T) {
	assert.Zero(t, Chain3([]byte("ab"), 1024), "Chain3 of fewer than 3 bytes should return 0")
}

func TestOf64Deterministic(t *testing.T) {
	assert.Equal(t, Of64([]byte("hello")), Of64([]byte("hello")), "Of64 must be deterministic for identical input")
}
