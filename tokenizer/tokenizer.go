// Package tokenizer implements the tokenizer stage (C2): reducing an input
// message to a stream of tokens (literal bytes, dictionary references, LZ77
// back-references, and whole-message template substitutions) plus the
// parallel metadata side-channel entries described in §4.2 and §4.3.
package tokenizer

import (
	"github.com/arloliu/aura/dict"
	"github.com/arloliu/aura/metadata"
	"github.com/arloliu/aura/template"
	"github.com/arloliu/aura/token"
)

// DefaultWindowSize is the LZ77 sliding window capacity in bytes (32 KiB),
// the largest distance a Match token can encode (§3.3).
const DefaultWindowSize = 32768

// minDictMatch is the smallest snippet length the dictionary check
// considers profitable; shorter snippets are left to the LZ77 search, which
// can express 3-byte matches anyway.
const minDictMatch = 4

// Tokenizer reduces messages to token streams against a shared template
// registry and dictionary. It is safe for concurrent use as long as the
// registry and dictionary themselves are not being mutated concurrently.
type Tokenizer struct {
	registry   *template.Registry
	dictionary *dict.Dictionary
	windowSize int
}

// New builds a Tokenizer. A nil dictionary is treated as empty; a zero or
// negative windowSize falls back to DefaultWindowSize.
func New(registry *template.Registry, dictionary *dict.Dictionary, windowSize int) *Tokenizer {
	if dictionary == nil {
		dictionary = dict.Empty()
	}
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	return &Tokenizer{registry: registry, dictionary: dictionary, windowSize: windowSize}
}

// Result is the output of Tokenize: the token stream and its parallel
// metadata side-channel entries.
type Result struct {
	Tokens   []token.Token
	Metadata []metadata.Entry
}

// Tokenize implements the §4.2 algorithm:
//  1. whole-message template attempt
//  2. otherwise, scan left to right: dictionary check, then LZ77 match
//     search, falling back to a single literal byte
func (tk *Tokenizer) Tokenize(text []byte) Result {
	if tk.registry != nil {
		if m, ok := tk.registry.MatchText(string(text)); ok {
			return Result{
				Tokens:   []token.Token{token.NewTemplate(m.TemplateID, m.Slots)},
				Metadata: []metadata.Entry{metadata.NewTemplate(0, m.TemplateID)},
			}
		}
	}

	return tk.tokenizeLZ(text)
}

func (tk *Tokenizer) tokenizeLZ(text []byte) Result {
	win := newWindow(tk.dictionary.Seed(), tk.windowSize)
	defer win.release()

	var tokens []token.Token
	var entries []metadata.Entry

	literalRunStart := -1
	literalRunLen := 0

	flushLiteralRun := func() {
		if literalRunLen == 0 {
			return
		}
		entries = append(entries, metadata.NewLiteralRun(uint16(literalRunStart), uint16(literalRunLen))) //nolint:gosec
		literalRunStart = -1
		literalRunLen = 0
	}

	p := 0
	for p < len(text) {
		if id, length, ok := tk.dictionary.LongestMatchAt(text, p); ok {
			flushLiteralRun()
			tokens = append(tokens, token.NewDictionary(id))
			entries = append(entries, metadata.NewDictionary(uint16(len(tokens)-1), id)) //nolint:gosec
			win.append(text[p : p+length])
			p += length

			continue
		}

		if distance, length, ok := win.findMatch(text, p); ok {
			flushLiteralRun()
			tokens = append(tokens, token.NewMatch(distance, length))
			entries = append(entries, metadata.NewLZMatch(uint16(len(tokens)-1), distance)) //nolint:gosec
			win.append(text[p : p+length])
			p += length

			continue
		}

		tokens = append(tokens, token.NewLiteral(text[p]))
		if literalRunLen == 0 {
			literalRunStart = len(tokens) - 1
		}
		literalRunLen++
		win.append(text[p : p+1])
		p++
	}

	flushLiteralRun()

	return Result{Tokens: tokens, Metadata: entries}
}
