package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/aura/errs"
	"github.com/arloliu/aura/format"
	"github.com/arloliu/aura/metadata"
	"github.com/arloliu/aura/rans"
)

func TestMarshalParseRoundTripFallback(t *testing.T) {
	c := &Container{
		Method:       format.MethodFallback,
		OriginalSize: 3,
		PayloadSize:  3,
		Metadata:     []metadata.Entry{metadata.NewFallback(format.ReasonTooSmall)},
		Payload:      []byte("abc"),
	}

	wire, err := c.Marshal()
	require.NoError(t, err)

	got, err := Parse(wire, true)
	require.NoError(t, err)
	assert.Equal(t, c.Method, got.Method)
	assert.Equal(t, c.OriginalSize, got.OriginalSize)
	assert.Equal(t, c.Payload, got.Payload)
	assert.Equal(t, c.Metadata, got.Metadata)
}

func TestMarshalParseRoundTripHybrid(t *testing.T) {
	tokenBytes := []byte("token stream bytes for the hybrid payload")
	table, err := rans.BuildTable(tokenBytes)
	require.NoError(t, err)
	bitstream, err := rans.Encode(tokenBytes, table)
	require.NoError(t, err)

	c := &Container{
		Method:         format.MethodHybrid,
		OriginalSize:   100,
		PayloadSize:    uint32(len(bitstream)),
		FrequencyTable: table.Freq,
		Metadata:       []metadata.Entry{metadata.NewLZMatch(0, 12)},
		Payload:        bitstream,
	}

	wire, err := c.Marshal()
	require.NoError(t, err)

	got, err := Parse(wire, true)
	require.NoError(t, err)
	assert.Equal(t, format.MethodHybrid, got.Method)
	assert.Equal(t, table.Freq, got.FrequencyTable)
	assert.Equal(t, bitstream, got.Payload)
}

func TestParseRejectsBadMagic(t *testing.T) {
	wire := []byte("XXXX\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")
	_, err := Parse(wire, true)
	assert.ErrorIs(t, err, errs.ErrBadMagic)
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	c := &Container{Method: format.MethodFallback, OriginalSize: 0, PayloadSize: 0}
	wire, err := c.Marshal()
	require.NoError(t, err)
	wire[4] = 0x02

	_, err = Parse(wire, true)
	assert.ErrorIs(t, err, errs.ErrUnsupportedVersion)
}

func TestParseRejectsTrailingBytes(t *testing.T) {
	c := &Container{Method: format.MethodFallback, OriginalSize: 0, PayloadSize: 0}
	wire, err := c.Marshal()
	require.NoError(t, err)
	wire = append(wire, 0x00)

	_, err = Parse(wire, true)
	assert.ErrorIs(t, err, errs.ErrTrailingBytes)
}

func TestParseRejectsTruncated(t *testing.T) {
	_, err := Parse([]byte{0x41, 0x55}, true)
	assert.ErrorIs(t, err, errs.ErrTruncatedContainer)
}

func TestParseMetadataOnlyDoesNotTouchPayload(t *testing.T) {
	c := &Container{
		Method:       format.MethodFallback,
		OriginalSize: 5,
		PayloadSize:  5,
		Metadata:     []metadata.Entry{metadata.NewFallback(format.ReasonBelowThreshold)},
		Payload:      []byte("hello"),
	}
	wire, err := c.Marshal()
	require.NoError(t, err)

	summary, err := ParseMetadataOnly(wire, true)
	require.NoError(t, err)
	assert.True(t, summary.IsFallback)
	assert.Equal(t, format.ReasonBelowThreshold, summary.FallbackReason)
	assert.Equal(t, uint32(5), summary.OriginalSize)
}
