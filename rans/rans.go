package rans

import (
	"fmt"

	"github.com/arloliu/aura/errs"
	"github.com/arloliu/aura/internal/pool"
)

// initialState is the rANS coder's state constant x0 = ANS_SCALE << 8,
// used both as the encoder's starting state and the value its final state
// must collapse back to once decoding has consumed every symbol.
const initialState uint32 = Scale << 8

// renormShift is the byte renormalization granularity (8 bits per step).
const renormShift = 8

// Encode entropy-codes data against table, processing bytes in reverse
// order as described in §4.4. The returned bitstream is self-contained: its
// first 4 bytes reconstruct the encoder's final state, and decode consumes
// the rest forward.
func Encode(data []byte, table *Table) ([]byte, error) {
	x := initialState

	// Renormalization emits at most a small constant number of bytes per
	// input byte; reserve generously to avoid reallocation.
	scratch := pool.GetBitstreamBuffer()
	defer pool.PutBitstreamBuffer(scratch)
	scratch.Reset()
	scratch.Grow(len(data) + 4)
	buf := scratch.B

	for i := len(data) - 1; i >= 0; i-- {
		s := data[i]
		f := uint32(table.Freq[s])
		if f == 0 {
			return nil, fmt.Errorf("rans: symbol 0x%02x has zero frequency", s)
		}
		cum := uint32(table.Cum[s])

		xMax := f << 16 // (f * (initialState >> 12)) << 8, with initialState>>12 == 256
		for x >= xMax {
			buf = append(buf, byte(x))
			x >>= renormShift
		}

		x = (x/f)<<12 + cum + (x % f)
	}

	buf = append(buf, byte(x>>24), byte(x>>16), byte(x>>8), byte(x))

	reverseBytes(buf)

	// Copy out of the pooled scratch buffer before it is reset and
	// returned to the pool by the deferred Put above.
	out := make([]byte, len(buf))
	copy(out, buf)
	scratch.B = buf

	return out, nil
}

// Decode reconstructs n original bytes from bitstream using table, the
// exact inverse of Encode. It fails with ErrCorruptPayload if the bitstream
// is exhausted before n bytes are produced, or if the final state does not
// collapse back to initialState.
func Decode(bitstream []byte, table *Table, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if len(bitstream) < 4 {
		return nil, fmt.Errorf("%w: bitstream shorter than the 4-byte initial state", errs.ErrCorruptPayload)
	}

	x := uint32(bitstream[0]) | uint32(bitstream[1])<<8 | uint32(bitstream[2])<<16 | uint32(bitstream[3])<<24
	pos := 4

	out := make([]byte, n)
	for i := 0; i < n; i++ {
		slot := x & (Scale - 1)
		s := table.Symbol(slot)
		out[i] = s

		f := uint32(table.Freq[s])
		cum := uint32(table.Cum[s])
		x = f*(x>>12) + slot - cum

		for x < initialState {
			if pos >= len(bitstream) {
				return nil, fmt.Errorf("%w: bitstream exhausted after %d of %d symbols", errs.ErrCorruptPayload, i+1, n)
			}
			x = (x << renormShift) | uint32(bitstream[pos])
			pos++
		}
	}

	if pos != len(bitstream) {
		return nil, fmt.Errorf("%w: %d trailing bitstream bytes unconsumed", errs.ErrCorruptPayload, len(bitstream)-pos)
	}
	if x != initialState {
		return nil, fmt.Errorf("%w: final state 0x%x does not match initial state 0x%x", errs.ErrCorruptPayload, x, initialState)
	}

	return out, nil
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
