package aura

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultCodecRoundTrip(t *testing.T) {
	c, err := NewDefaultCodec()
	require.NoError(t, err)

	text := []byte("hello from the aura codec core")
	container, err := c.Compress(text)
	require.NoError(t, err)

	out, err := c.Decompress(container)
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestMarshalParseHelpers(t *testing.T) {
	c, err := NewDefaultCodec()
	require.NoError(t, err)

	container, err := c.Compress([]byte("short"))
	require.NoError(t, err)

	wire, err := Marshal(container)
	require.NoError(t, err)

	parsed, err := Parse(wire)
	require.NoError(t, err)
	assert.Equal(t, container.Method, parsed.Method)
}
