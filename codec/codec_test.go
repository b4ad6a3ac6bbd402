package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/aura/dict"
	"github.com/arloliu/aura/format"
	"github.com/arloliu/aura/template"
)

func TestCompressDecompressEmptyInput(t *testing.T) {
	c, err := New(nil, nil)
	require.NoError(t, err)

	cont, err := c.Compress(nil)
	require.NoError(t, err)
	assert.Equal(t, format.MethodFallback, cont.Method)
	assert.Equal(t, uint32(0), cont.OriginalSize)
	require.Len(t, cont.Metadata, 1)
	assert.Equal(t, format.MetaKindFallback, cont.Metadata[0].Kind)
	assert.Equal(t, uint16(format.ReasonTooSmall), cont.Metadata[0].Value)

	out, err := c.Decompress(cont)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCompressBelowMinSizeFallsBack(t *testing.T) {
	c, err := New(nil, nil)
	require.NoError(t, err)

	text := []byte("short")
	cont, err := c.Compress(text)
	require.NoError(t, err)
	assert.Equal(t, format.MethodFallback, cont.Method)

	out, err := c.Decompress(cont)
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestCompressTemplateOnly(t *testing.T) {
	reg := template.NewRegistry()
	require.NoError(t, reg.RegisterTemplate(1, "user {0} logged in from {1} at a precise recorded moment in time"))

	// 71 input bytes against a 42-byte template-only container is a 1.69x
	// ratio, below the 3.0 default, so the threshold is lowered here.
	c, err := New(reg, nil, WithTemplateThreshold(1.5))
	require.NoError(t, err)

	text := []byte("user alice logged in from 10.0.0.1 at a precise recorded moment in time")
	cont, err := c.Compress(text)
	require.NoError(t, err)
	require.Equal(t, format.MethodTemplateOnly, cont.Method)

	out, err := c.Decompress(cont)
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestCompressHybridPath(t *testing.T) {
	c, err := New(nil, nil)
	require.NoError(t, err)

	base := "the quick brown fox jumps over the lazy dog while everyone watches in amazement "
	text := []byte(strings.Repeat(base, 10))

	cont, err := c.Compress(text)
	require.NoError(t, err)
	require.Equal(t, format.MethodHybrid, cont.Method)

	wire, err := cont.Marshal()
	require.NoError(t, err)
	assert.Less(t, len(wire), len(text))

	out, err := c.Decompress(cont)
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestCompressIncompressibleFallsBack(t *testing.T) {
	c, err := New(nil, nil)
	require.NoError(t, err)

	// Deterministic pseudo-random-looking bytes, all distinct, long enough
	// to clear MIN_SIZE but resist both LZ77 and entropy coding gains.
	text := make([]byte, 200)
	for i := range text {
		text[i] = byte((i*97 + 53) % 256)
	}

	cont, err := c.Compress(text)
	require.NoError(t, err)
	assert.Equal(t, format.MethodFallback, cont.Method)

	out, err := c.Decompress(cont)
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestCompressIsDeterministic(t *testing.T) {
	c, err := New(nil, nil)
	require.NoError(t, err)

	text := []byte(strings.Repeat("deterministic output please ", 5))

	a, err := c.Compress(text)
	require.NoError(t, err)
	b, err := c.Compress(text)
	require.NoError(t, err)

	wireA, err := a.Marshal()
	require.NoError(t, err)
	wireB, err := b.Marshal()
	require.NoError(t, err)
	assert.Equal(t, wireA, wireB)
}

func TestExtractMetadataMatchesDecompress(t *testing.T) {
	c, err := New(nil, nil)
	require.NoError(t, err)

	text := []byte(strings.Repeat("metadata fast path correctness check ", 8))
	cont, err := c.Compress(text)
	require.NoError(t, err)

	wire, err := cont.Marshal()
	require.NoError(t, err)

	summary, err := c.ExtractMetadata(wire)
	require.NoError(t, err)

	out, err := c.Decompress(cont)
	require.NoError(t, err)

	assert.Equal(t, int(summary.OriginalSize), len(out))
}

func TestNewCodecRejectsInvalidOptions(t *testing.T) {
	_, err := New(nil, nil, WithHybridThreshold(0.5))
	assert.Error(t, err)

	_, err = New(nil, nil, WithLZWindowBytes(1000))
	assert.Error(t, err)
}

func TestRegisterTemplateThroughCodec(t *testing.T) {
	c, err := New(nil, dict.Empty())
	require.NoError(t, err)

	require.NoError(t, c.RegisterTemplate(1, "ping {0}"))

	cont, err := c.Compress([]byte("ping but this particular message is padded out past the minimum size threshold"))
	require.NoError(t, err)
	assert.NotEqual(t, format.MethodTemplateOnly, cont.Method) // matches the pattern, but the template-only ratio is below the threshold
}

func TestStatsAccumulatesAcrossCalls(t *testing.T) {
	c, err := New(nil, nil, WithTemplateThreshold(1.5))
	require.NoError(t, err)

	require.NoError(t, c.RegisterTemplate(1, "user {0} logged in from {1} at a precise recorded moment in time"))

	_, err = c.Compress([]byte("short")) // fallback: below min size
	require.NoError(t, err)

	_, err = c.Compress([]byte("user alice logged in from 10.0.0.1 at a precise recorded moment in time"))
	require.NoError(t, err)

	// Long enough for the hybrid container, with its 512-byte frequency
	// table, to reach the 1.1x hybrid threshold.
	base := strings.Repeat("abcabcabcabc ", 80)
	_, err = c.Compress([]byte(base))
	require.NoError(t, err)

	stats := c.Stats()
	assert.EqualValues(t, 3, stats.TotalCalls)
	assert.EqualValues(t, 1, stats.FallbackCount)
	assert.EqualValues(t, 1, stats.TemplateOnlyCount)
	assert.EqualValues(t, 1, stats.HybridCount)
	assert.Positive(t, stats.TotalOriginalBytes)
	assert.Positive(t, stats.TotalCompressedBytes)
	assert.Positive(t, stats.CompressionRatio())
}
