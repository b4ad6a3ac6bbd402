// Package metadata implements the fixed-width metadata side-channel (C3):
// serializing/parsing the 6-byte records described in spec §3.4 and
// deriving the zero-decompression MetadataSummary of §4.6.
package metadata

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/aura/errs"
	"github.com/arloliu/aura/format"
)

// EntrySize is the fixed width, in bytes, of one MetadataEntry record.
const EntrySize = 6

// Entry is one metadata record describing a token in the token stream.
type Entry struct {
	TokenIndex uint16
	Kind       format.MetadataKind
	Value      uint16
	Flags      uint8
}

// NewLiteralRun builds a kind=0x00 entry describing a maximal literal run.
func NewLiteralRun(tokenIndex uint16, runLength uint16) Entry {
	return Entry{TokenIndex: tokenIndex, Kind: format.MetaKindLiteral, Value: runLength}
}

// NewDictionary builds a kind=0x01 entry.
func NewDictionary(tokenIndex uint16, snippetID uint8) Entry {
	return Entry{TokenIndex: tokenIndex, Kind: format.MetaKindDictionary, Value: uint16(snippetID)}
}

// NewLZMatch builds a kind=0x02 entry. distance is capped at 0xFFFF per §4.3
// (it is a routing hint, not the authoritative value).
func NewLZMatch(tokenIndex uint16, distance int) Entry {
	d := distance
	if d > 0xFFFF {
		d = 0xFFFF
	}

	return Entry{TokenIndex: tokenIndex, Kind: format.MetaKindLZMatch, Value: uint16(d)} //nolint:gosec
}

// NewTemplate builds a kind=0x03 entry.
func NewTemplate(tokenIndex uint16, templateID uint16) Entry {
	return Entry{TokenIndex: tokenIndex, Kind: format.MetaKindTemplate, Value: templateID}
}

// NewFallback builds the single kind=0x04 entry a fallback container
// carries, always at token_index 0.
func NewFallback(reason format.FallbackReason) Entry {
	return Entry{TokenIndex: 0, Kind: format.MetaKindFallback, Value: uint16(reason)}
}

// AppendTo writes e's 6-byte big-endian encoding to dst and returns the
// extended slice.
func (e Entry) AppendTo(dst []byte) []byte {
	var buf [EntrySize]byte
	binary.BigEndian.PutUint16(buf[0:2], e.TokenIndex)
	buf[2] = byte(e.Kind)
	binary.BigEndian.PutUint16(buf[3:5], e.Value)
	buf[5] = e.Flags

	return append(dst, buf[:]...)
}

// Encode serializes a slice of entries to their concatenated 6-byte records.
func Encode(entries []Entry) []byte {
	out := make([]byte, 0, len(entries)*EntrySize)
	for _, e := range entries {
		out = e.AppendTo(out)
	}

	return out
}

// Decode parses count 6-byte records from data, validating (per §4.3):
//   - every kind is one of the five non-reserved kinds when strict is true
//   - token_index is non-decreasing across the array
//
// data must be exactly count*EntrySize bytes.
func Decode(data []byte, count int, strict bool) ([]Entry, error) {
	if len(data) != count*EntrySize {
		return nil, fmt.Errorf("%w: expected %d metadata bytes, got %d", errs.ErrBadMetadataCount, count*EntrySize, len(data))
	}

	entries := make([]Entry, count)
	var lastIndex uint16
	for i := 0; i < count; i++ {
		off := i * EntrySize
		e := Entry{
			TokenIndex: binary.BigEndian.Uint16(data[off : off+2]),
			Kind:       format.MetadataKind(data[off+2]),
			Value:      binary.BigEndian.Uint16(data[off+3 : off+5]),
			Flags:      data[off+5],
		}

		if strict && !e.Kind.Known() {
			return nil, fmt.Errorf("%w: kind 0x%02x at entry %d", errs.ErrReservedMetadataKind, byte(e.Kind), i)
		}

		if i > 0 && e.TokenIndex < lastIndex {
			return nil, fmt.Errorf("%w: entry %d token_index %d < previous %d", errs.ErrBadMetadataOrder, i, e.TokenIndex, lastIndex)
		}
		lastIndex = e.TokenIndex

		entries[i] = e
	}

	return entries, nil
}

// Summary is the result of extract_metadata (§4.6): everything a consumer
// can learn about a container without touching the frequency table or
// payload bytes.
type Summary struct {
	Method         format.Method
	OriginalSize   uint32
	PayloadSize    uint32
	MetadataCount  uint16
	TemplateIDs    []uint16
	IsFallback     bool
	FallbackReason format.FallbackReason // meaningful only if IsFallback
	KindCounts     [6]uint32             // index 0-4 per MetadataKind, index 5 aggregates reserved kinds
}

// Summarize derives a Summary from already-parsed header fields and
// metadata entries, without ever looking at the frequency table or payload.
func Summarize(method format.Method, originalSize, payloadSize uint32, entries []Entry) Summary {
	s := Summary{
		Method:        method,
		OriginalSize:  originalSize,
		PayloadSize:   payloadSize,
		MetadataCount: uint16(len(entries)), //nolint:gosec
	}

	for _, e := range entries {
		idx := int(e.Kind)
		if idx > 5 {
			idx = 5
		}
		s.KindCounts[idx]++

		switch e.Kind {
		case format.MetaKindTemplate:
			s.TemplateIDs = append(s.TemplateIDs, e.Value)
		case format.MetaKindFallback:
			s.IsFallback = true
			s.FallbackReason = format.FallbackReason(e.Value)
		}
	}

	return s
}
