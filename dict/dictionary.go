// Package dict implements the §6.2 dictionary format: a fixed table of up
// to 256 short UTF-8 snippets, keyed by their implicit position, used to
// seed the tokenizer's LZ77 window with commonly recurring phrases.
package dict

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arloliu/aura/errs"
)

const (
	// MaxEntries is the largest number of snippets a dictionary may hold
	// (an 8-bit id addresses at most 256 entries).
	MaxEntries = 256
	// MaxSnippetLength is the largest encodable snippet length (an 8-bit
	// length prefix addresses at most 255 bytes).
	MaxSnippetLength = 255
)

// Dictionary is an immutable, ordered table of snippets. Position in the
// table is the snippet's 8-bit id.
type Dictionary struct {
	snippets [][]byte
}

// New builds a Dictionary from an ordered list of snippet strings. It fails
// if there are more than MaxEntries snippets or any snippet exceeds
// MaxSnippetLength bytes.
func New(snippets []string) (*Dictionary, error) {
	if len(snippets) > MaxEntries {
		return nil, fmt.Errorf("%w: %d entries", errs.ErrDictionaryTooLarge, len(snippets))
	}

	d := &Dictionary{snippets: make([][]byte, len(snippets))}
	for i, s := range snippets {
		if len(s) > MaxSnippetLength {
			return nil, fmt.Errorf("%w: entry %d is %d bytes", errs.ErrSnippetTooLarge, i, len(s))
		}
		d.snippets[i] = []byte(s)
	}

	return d, nil
}

// Empty returns a dictionary with no snippets.
func Empty() *Dictionary { return &Dictionary{} }

// Len returns the number of snippets in the dictionary.
func (d *Dictionary) Len() int { return len(d.snippets) }

// Get returns the snippet bytes for id, or (nil, false) if id is unused.
func (d *Dictionary) Get(id uint8) ([]byte, bool) {
	if int(id) >= len(d.snippets) {
		return nil, false
	}

	return d.snippets[id], true
}

// Seed returns the concatenation of all snippet contents in id order, used
// to prime the LZ77 sliding window before the first input byte is seen.
func (d *Dictionary) Seed() []byte {
	total := 0
	for _, s := range d.snippets {
		total += len(s)
	}

	out := make([]byte, 0, total)
	for _, s := range d.snippets {
		out = append(out, s...)
	}

	return out
}

// LongestMatchAt returns the id and length of the longest dictionary
// snippet that is a prefix of text[pos:], or (0, 0, false) if none matches
// with length >= 4 (the tokenizer's minimum profitable snippet length).
func (d *Dictionary) LongestMatchAt(text []byte, pos int) (id uint8, length int, ok bool) {
	remaining := text[pos:]
	bestLen := 0
	bestID := uint8(0)

	for i, s := range d.snippets {
		if len(s) < 4 || len(s) > len(remaining) {
			continue
		}
		if len(s) <= bestLen {
			continue
		}
		if bytesEqual(remaining[:len(s)], s) {
			bestLen = len(s)
			bestID = uint8(i) //nolint:gosec
		}
	}

	if bestLen == 0 {
		return 0, 0, false
	}

	return bestID, bestLen, true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// jsonEntry is one entry in the §6.2 dictionary JSON artifact.
type jsonEntry struct {
	Snippet string `json:"snippet"`
}

type jsonDocument struct {
	Entries []jsonEntry `json:"entries"`
}

// Load reads a dictionary JSON artifact of the shape
// {"entries": [{"snippet": "..."}, ...]} where position in the array is the
// snippet's implicit 8-bit id.
func Load(r io.Reader) (*Dictionary, error) {
	var doc jsonDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("dictionary: decode: %w", err)
	}

	snippets := make([]string, len(doc.Entries))
	for i, e := range doc.Entries {
		snippets[i] = e.Snippet
	}

	return New(snippets)
}
