package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tokens := []Token{
		NewLiteral('h'),
		NewLiteral('i'),
		NewDictionary(7),
		NewMatch(100, 258),
		NewTemplate(42, []string{"alice", "10.0.0.1"}),
	}

	data, err := Encode(nil, tokens)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, tokens, got)
}

func TestEncodeMatchOutOfRange(t *testing.T) {
	_, err := Encode(nil, []Token{NewMatch(0, 10)})
	assert.Error(t, err)

	_, err = Encode(nil, []Token{NewMatch(32769, 10)})
	assert.Error(t, err)

	_, err = Encode(nil, []Token{NewMatch(10, 2)})
	assert.Error(t, err)

	_, err = Encode(nil, []Token{NewMatch(10, 259)})
	assert.Error(t, err)
}

func TestDecodeTruncated(t *testing.T) {
	data, err := Encode(nil, []Token{NewMatch(100, 10)})
	require.NoError(t, err)

	_, err = Decode(data[:len(data)-1])
	assert.Error(t, err)
}

func TestDecodeUnknownTag(t *testing.T) {
	_, err := Decode([]byte{0xFF})
	assert.Error(t, err)
}

func TestTemplatePayloadRoundTrip(t *testing.T) {
	data := EncodeTemplatePayload(nil, 7, []string{"a", "bb", ""})

	id, slots, err := DecodeTemplatePayload(data)
	require.NoError(t, err)
	assert.Equal(t, uint16(7), id)
	assert.Equal(t, []string{"a", "bb", ""}, slots)
}

func TestTemplatePayloadTrailingBytes(t *testing.T) {
	data := EncodeTemplatePayload(nil, 7, []string{"a"})
	data = append(data, 0xFF)

	_, _, err := DecodeTemplatePayload(data)
	assert.Error(t, err)
}
