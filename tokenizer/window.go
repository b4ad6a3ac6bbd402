package tokenizer

import (
	"github.com/arloliu/aura/internal/hash"
	"github.com/arloliu/aura/internal/pool"
)

// maxChainLength bounds the number of candidate positions considered per
// hash bucket, trading a little compression ratio for bounded search time
// on pathological inputs (the same "max_chain_length" idea classic deflate
// implementations use).
const maxChainLength = 64

// hashBuckets is the size of the hash-chain table; must be a power of two.
const hashBuckets = 1 << 14

// window is an LZ77 sliding window: an append-only buffer of bytes already
// consumed (dictionary seed followed by processed input), plus a hash-chain
// index over 3-byte prefixes for O(1)-average match search. base is the
// absolute offset where the seeded dictionary content ends and the input
// text begins.
type window struct {
	scratch *pool.ByteBuffer
	buf     []byte
	base    int
	size    int
	table   [hashBuckets][]int
}

// newWindow borrows a pooled scratch buffer for its backing array; callers
// must call release once the window is no longer needed (the window's
// contents never escape to a caller, unlike the encoded token/container
// bytes elsewhere in this module, so it is safe to hand the backing array
// back to the pool).
func newWindow(seed []byte, size int) *window {
	scratch := pool.GetWindowBuffer()
	scratch.Reset()
	scratch.Grow(size + len(seed))

	w := &window{
		scratch: scratch,
		buf:     scratch.B,
		base:    len(seed),
		size:    size,
	}
	w.append(seed)

	return w
}

// release returns the window's scratch buffer to its pool.
func (w *window) release() {
	w.scratch.B = w.buf
	pool.PutWindowBuffer(w.scratch)
	w.scratch = nil
	w.buf = nil
}

// append adds data to the window and indexes every new 3-byte prefix.
func (w *window) append(data []byte) {
	start := len(w.buf)
	w.buf = append(w.buf, data...)

	for i := start; i+3 <= len(w.buf) && i < len(w.buf); i++ {
		if i+3 > len(w.buf) {
			break
		}
		w.index(i)
	}
}

func (w *window) index(pos int) {
	bucket := hash.Chain3(w.buf[pos:pos+3], hashBuckets)
	chain := w.table[bucket]
	chain = append(chain, pos)
	if len(chain) > maxChainLength {
		chain = chain[len(chain)-maxChainLength:]
	}
	w.table[bucket] = chain
}

// findMatch searches for the longest match of a prefix of text[p:] within
// the last w.size bytes of the window, with length capped to [3,258].
// Ties (equal length) are broken by nearest distance: candidates are
// scanned most-recent-first and only a strictly longer match replaces the
// current best.
func (w *window) findMatch(text []byte, p int) (distance, length int, found bool) {
	remaining := text[p:]
	if len(remaining) < 3 {
		return 0, 0, false
	}

	absPos := w.base + p
	maxLen := len(remaining)
	if maxLen > 258 {
		maxLen = 258
	}

	bucket := hash.Chain3(remaining, hashBuckets)
	chain := w.table[bucket]

	bestLen := 0
	bestDist := 0

	for i := len(chain) - 1; i >= 0; i-- {
		cand := chain[i]
		dist := absPos - cand
		if dist < 1 || dist > w.size {
			continue
		}

		l := w.matchLength(cand, text, p, maxLen)
		if l > bestLen {
			bestLen = l
			bestDist = dist
		}
	}

	if bestLen < 3 {
		return 0, 0, false
	}

	return bestDist, bestLen, true
}

// matchLength compares the window starting at absolute position cand
// against text starting at p, up to maxLen bytes. Once the comparison
// window reaches positions not yet appended to w.buf (absPos == len(buf)),
// it falls back to reading from text itself, which is what makes
// overlapping matches (length > distance) correct: those later bytes are
// simply copies of earlier bytes within the same match.
func (w *window) matchLength(cand int, text []byte, p int, maxLen int) int {
	absPos := w.base + p
	l := 0
	for l < maxLen {
		idx := cand + l
		var a byte
		if idx < len(w.buf) {
			a = w.buf[idx]
		} else {
			a = text[p+(idx-absPos)]
		}
		if a != text[p+l] {
			break
		}
		l++
	}

	return l
}
