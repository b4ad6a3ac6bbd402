// Package container implements the wire container (C5): the bit-exact
// header, frequency table, metadata array, and payload layout of §6.1, and
// the parse-time invariants of §4.5.
package container

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/aura/errs"
	"github.com/arloliu/aura/format"
	"github.com/arloliu/aura/internal/pool"
	"github.com/arloliu/aura/metadata"
	"github.com/arloliu/aura/rans"
)

// Magic is the 4-byte container identifier, ASCII "AURA".
var Magic = [4]byte{'A', 'U', 'R', 'A'}

// Version is the only container format version this package emits or
// accepts.
const Version = 0x01

// HeaderSize is the size, in bytes, of the fixed fields preceding the
// frequency table (magic..metadata_count).
const HeaderSize = 16

// FrequencyTableSize is the on-wire size of the 256-entry frequency table
// present only when Method == MethodHybrid.
const FrequencyTableSize = 256 * 2

// MaxMessageSize bounds OriginalSize to keep length-prefixed fields from
// being used to stage unbounded allocations while parsing untrusted input.
const MaxMessageSize = 1 << 24

// Container is the parsed representation of an AURA wire container.
type Container struct {
	Method         format.Method
	OriginalSize   uint32
	PayloadSize    uint32
	FrequencyTable [256]uint16 // valid only when Method == MethodHybrid
	Metadata       []metadata.Entry
	Payload        []byte
}

// Marshal serializes c to its wire form per §6.1.
func (c *Container) Marshal() ([]byte, error) {
	if !c.Method.Valid() {
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrBadMethod, byte(c.Method))
	}
	if int(c.PayloadSize) != len(c.Payload) {
		return nil, fmt.Errorf("container: payload_size %d does not match payload length %d", c.PayloadSize, len(c.Payload))
	}
	if len(c.Metadata) > 0xFFFF {
		return nil, fmt.Errorf("container: %d metadata entries exceeds u16 range", len(c.Metadata))
	}

	hasFreq := c.Method == format.MethodHybrid
	freqSize := 0
	if hasFreq {
		freqSize = FrequencyTableSize
	}

	total := HeaderSize + freqSize + len(c.Metadata)*metadata.EntrySize + len(c.Payload)

	scratch := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(scratch)
	scratch.Reset()
	scratch.Grow(total)
	buf := scratch.B

	buf = append(buf, Magic[:]...)
	buf = append(buf, Version, byte(c.Method))

	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], c.OriginalSize)
	buf = append(buf, u32[:]...)
	binary.BigEndian.PutUint32(u32[:], c.PayloadSize)
	buf = append(buf, u32[:]...)

	var u16 [2]byte
	binary.BigEndian.PutUint16(u16[:], uint16(len(c.Metadata))) //nolint:gosec
	buf = append(buf, u16[:]...)

	if hasFreq {
		for _, f := range c.FrequencyTable {
			binary.BigEndian.PutUint16(u16[:], f)
			buf = append(buf, u16[:]...)
		}
	}

	buf = append(buf, metadata.Encode(c.Metadata)...)
	buf = append(buf, c.Payload...)

	// Copy out of the pooled scratch buffer: scratch is reset and returned
	// to the pool by the deferred Put above, so the caller must not end up
	// holding a slice backed by it.
	out := make([]byte, len(buf))
	copy(out, buf)
	scratch.B = buf

	return out, nil
}

// Parse validates and decodes a wire container per the §4.5 procedure.
// strict controls whether unknown metadata kinds are rejected (§6.4
// strict_parse option).
func Parse(data []byte, strict bool) (*Container, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: only %d bytes, need at least %d", errs.ErrTruncatedContainer, len(data), HeaderSize)
	}

	if data[0] != Magic[0] || data[1] != Magic[1] || data[2] != Magic[2] || data[3] != Magic[3] {
		return nil, errs.ErrBadMagic
	}
	if data[4] != Version {
		return nil, fmt.Errorf("%w: got 0x%02x", errs.ErrUnsupportedVersion, data[4])
	}

	method := format.Method(data[5])
	if !method.Valid() {
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrBadMethod, data[5])
	}

	originalSize := binary.BigEndian.Uint32(data[6:10])
	payloadSize := binary.BigEndian.Uint32(data[10:14])
	metadataCount := binary.BigEndian.Uint16(data[14:16])

	if originalSize > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes", errs.ErrMessageTooLarge, originalSize)
	}

	pos := HeaderSize

	var freqTable [256]uint16
	if method == format.MethodHybrid {
		if len(data) < pos+FrequencyTableSize {
			return nil, fmt.Errorf("%w: frequency table truncated", errs.ErrTruncatedContainer)
		}
		sum := 0
		for i := 0; i < 256; i++ {
			f := binary.BigEndian.Uint16(data[pos+i*2 : pos+i*2+2])
			freqTable[i] = f
			sum += int(f)
		}
		if sum != rans.Scale {
			return nil, fmt.Errorf("%w: sum %d, want %d", errs.ErrBadFrequencyTable, sum, rans.Scale)
		}
		pos += FrequencyTableSize
	}

	metaBytes := int(metadataCount) * metadata.EntrySize
	if len(data) < pos+metaBytes {
		return nil, fmt.Errorf("%w: metadata array truncated", errs.ErrTruncatedContainer)
	}
	entries, err := metadata.Decode(data[pos:pos+metaBytes], int(metadataCount), strict)
	if err != nil {
		return nil, err
	}
	pos += metaBytes

	if len(data) < pos+int(payloadSize) {
		return nil, fmt.Errorf("%w: payload truncated", errs.ErrTruncatedContainer)
	}
	payload := data[pos : pos+int(payloadSize)]
	pos += int(payloadSize)

	if pos != len(data) {
		return nil, fmt.Errorf("%w: %d bytes after declared sections", errs.ErrTrailingBytes, len(data)-pos)
	}

	return &Container{
		Method:         method,
		OriginalSize:   originalSize,
		PayloadSize:    payloadSize,
		FrequencyTable: freqTable,
		Metadata:       entries,
		Payload:        payload,
	}, nil
}

// ParseMetadataOnly implements the §4.6 metadata fast-path: it parses only
// the header and metadata array, never touching the frequency table or
// payload bytes, and returns a summary plus the method/sizes a caller needs
// to decide whether to decompress at all.
func ParseMetadataOnly(data []byte, strict bool) (metadata.Summary, error) {
	if len(data) < HeaderSize {
		return metadata.Summary{}, fmt.Errorf("%w: only %d bytes, need at least %d", errs.ErrTruncatedContainer, len(data), HeaderSize)
	}
	if data[0] != Magic[0] || data[1] != Magic[1] || data[2] != Magic[2] || data[3] != Magic[3] {
		return metadata.Summary{}, errs.ErrBadMagic
	}
	if data[4] != Version {
		return metadata.Summary{}, fmt.Errorf("%w: got 0x%02x", errs.ErrUnsupportedVersion, data[4])
	}

	method := format.Method(data[5])
	if !method.Valid() {
		return metadata.Summary{}, fmt.Errorf("%w: 0x%02x", errs.ErrBadMethod, data[5])
	}

	originalSize := binary.BigEndian.Uint32(data[6:10])
	payloadSize := binary.BigEndian.Uint32(data[10:14])
	metadataCount := binary.BigEndian.Uint16(data[14:16])

	pos := HeaderSize
	if method == format.MethodHybrid {
		pos += FrequencyTableSize
	}

	metaBytes := int(metadataCount) * metadata.EntrySize
	if len(data) < pos+metaBytes {
		return metadata.Summary{}, fmt.Errorf("%w: metadata array truncated", errs.ErrTruncatedContainer)
	}

	entries, err := metadata.Decode(data[pos:pos+metaBytes], int(metadataCount), strict)
	if err != nil {
		return metadata.Summary{}, err
	}

	return metadata.Summarize(method, originalSize, payloadSize, entries), nil
}
