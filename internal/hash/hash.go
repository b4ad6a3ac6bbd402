// Package hash wraps xxHash64 for the small, hot-path hashing the codec
// needs: LZ77 hash-chain indexing over the sliding window. It is not used
// for any wire-visible identifier (templates keep their explicit 16-bit ids;
// dictionary snippets their explicit 8-bit ids) — purely an internal search
// accelerator.
package hash

import "github.com/cespare/xxhash/v2"

// Of64 returns the full 64-bit xxHash64 of data. Hashing small fixed-length
// windows (3-4 bytes) with allocation-free Sum64 is cheap enough to call per
// offset.
func Of64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Chain3 hashes a 3-byte prefix into a bucket index for a hash chain table
// of the given size (must be a power of two). Returns 0 if len(data) < 3.
func Chain3(data []byte, tableSize int) int {
	if len(data) < 3 {
		return 0
	}

	h := xxhash.Sum64(data[:3])

	return int(h) & (tableSize - 1)
}
