package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/aura/format"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	entries := []Entry{
		NewLiteralRun(0, 3),
		NewDictionary(3, 2),
		NewLZMatch(4, 40000),
		NewTemplate(5, 99),
	}

	data := Encode(entries)
	assert.Len(t, data, len(entries)*EntrySize)

	got, err := Decode(data, len(entries), true)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestLZMatchDistanceCapped(t *testing.T) {
	e := NewLZMatch(0, 0x1FFFF)
	assert.Equal(t, uint16(0xFFFF), e.Value)
}

func TestDecodeBadLength(t *testing.T) {
	_, err := Decode(make([]byte, 5), 1, true)
	assert.Error(t, err)
}

func TestDecodeStrictRejectsReservedKind(t *testing.T) {
	e := Entry{TokenIndex: 0, Kind: format.MetadataKind(0x7F), Value: 1}
	data := Encode([]Entry{e})

	_, err := Decode(data, 1, true)
	assert.Error(t, err)

	got, err := Decode(data, 1, false)
	require.NoError(t, err)
	assert.Equal(t, e, got[0])
}

func TestDecodeRejectsDecreasingTokenIndex(t *testing.T) {
	entries := []Entry{
		NewLiteralRun(5, 1),
		NewLiteralRun(2, 1),
	}
	data := Encode(entries)

	_, err := Decode(data, 2, true)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	entries := []Entry{
		NewTemplate(0, 7),
		NewLZMatch(1, 5),
		NewFallback(format.ReasonIncompressible),
	}

	s := Summarize(format.MethodHybrid, 100, 40, entries)
	assert.Equal(t, []uint16{7}, s.TemplateIDs)
	assert.True(t, s.IsFallback)
	assert.Equal(t, format.ReasonIncompressible, s.FallbackReason)
	assert.Equal(t, uint32(1), s.KindCounts[format.MetaKindTemplate])
	assert.Equal(t, uint32(1), s.KindCounts[format.MetaKindLZMatch])
	assert.Equal(t, uint32(1), s.KindCounts[format.MetaKindFallback])
}
