package dict

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndGet(t *testing.T) {
	d, err := New([]string{"hello world", "goodbye"})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	snippet, ok := d.Get(0)
	require.True(t, ok)
	assert.Equal(t, "hello world", string(snippet))

	_, ok = d.Get(5)
	assert.False(t, ok)
}

func TestNewTooManyEntries(t *testing.T) {
	snippets := make([]string, MaxEntries+1)
	for i := range snippets {
		snippets[i] = "x"
	}
	_, err := New(snippets)
	assert.Error(t, err)
}

func TestNewSnippetTooLarge(t *testing.T) {
	_, err := New([]string{strings.Repeat("a", MaxSnippetLength+1)})
	assert.Error(t, err)
}

func TestSeedConcatenatesInOrder(t *testing.T) {
	d, err := New([]string{"ab", "cd", "ef"})
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(d.Seed()))
}

func TestLongestMatchAt(t *testing.T) {
	d, err := New([]string{"short", "a much longer snippet"})
	require.NoError(t, err)

	text := []byte("a much longer snippet follows")
	id, length, ok := d.LongestMatchAt(text, 0)
	require.True(t, ok)
	assert.Equal(t, uint8(1), id)
	assert.Equal(t, len("a much longer snippet"), length)
}

func TestLongestMatchAtNoMatch(t *testing.T) {
	d, err := New([]string{"zzz"})
	require.NoError(t, err)

	_, _, ok := d.LongestMatchAt([]byte("abc"), 0)
	assert.False(t, ok)
}

func TestLoadFromJSON(t *testing.T) {
	r := strings.NewReader(`{"entries":[{"snippet":"one"},{"snippet":"two"}]}`)
	d, err := Load(r)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	s, ok := d.Get(1)
	require.True(t, ok)
	assert.Equal(t, "two", string(s))
}

func TestEmpty(t *testing.T) {
	d := Empty()
	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Seed())
}
