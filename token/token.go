// Package token defines the tagged-union Token type emitted by the
// tokenizer (C2) and consumed by the rANS stage (C4) and token replay (C6
// decode), plus its tag-byte serialization (§3.3).
package token

import "github.com/arloliu/aura/format"

// Token is a single emitted unit of the token stream. Exactly one of the
// field groups below is meaningful, selected by Kind; this mirrors a sum
// type using a discriminant field, the idiomatic Go substitute for an enum
// with payload.
type Token struct {
	Kind format.TokenKind

	Literal byte // valid when Kind == TokenLiteral

	Distance int // valid when Kind == TokenMatch; 1..32768
	Length   int // valid when Kind == TokenMatch; 3..258

	DictID uint8 // valid when Kind == TokenDictionary

	TemplateID uint16   // valid when Kind == TokenTemplate
	Slots      []string // valid when Kind == TokenTemplate
}

// NewLiteral builds a Literal(byte) token.
func NewLiteral(b byte) Token {
	return Token{Kind: format.TokenLiteral, Literal: b}
}

// NewDictionary builds a Dictionary(id) token.
func NewDictionary(id uint8) Token {
	return Token{Kind: format.TokenDictionary, DictID: id}
}

// NewMatch builds a Match(distance, length) token.
func NewMatch(distance, length int) Token {
	return Token{Kind: format.TokenMatch, Distance: distance, Length: length}
}

// NewTemplate builds a Template(id, slots) token.
func NewTemplate(id uint16, slots []string) Token {
	return Token{Kind: format.TokenTemplate, TemplateID: id, Slots: slots}
}

// ExpandedLen returns the number of plaintext bytes this token expands to.
func (t Token) ExpandedLen() int {
	switch t.Kind {
	case format.TokenLiteral:
		return 1
	case format.TokenDictionary:
		return -1 // caller must resolve against the dictionary
	case format.TokenMatch:
		return t.Length
	case format.TokenTemplate:
		return -1 // caller must resolve via the template registry
	default:
		return 0
	}
}
