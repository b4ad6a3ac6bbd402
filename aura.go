// Package aura provides a multi-layer, self-describing message compression
// codec: a template layer for whole-message patterns, an LZ77 back-reference
// layer, and an order-0 rANS entropy layer, composed behind a single
// compress/decompress API with a zero-decompression metadata side-channel.
//
// # Core Features
//
//   - Whole-message template matching with numbered {N} slot placeholders
//   - LZ77 sliding-window back-reference compression seeded by a shared dictionary
//   - Order-0 rANS entropy coding over the serialized token stream
//   - A self-describing container format (magic, version, method, sizes, frequency table, metadata, payload)
//   - A fixed-width metadata side-channel that lets callers inspect a container without decompressing it
//   - Never-worse encoding: every compressed container is no larger than the original plus a fixed 22-byte envelope
//
// # Basic Usage
//
// Compressing and decompressing a message with the default codec:
//
//	import "github.com/arloliu/aura"
//
//	c, _ := aura.NewDefaultCodec()
//	container, _ := c.Compress([]byte("hello, world"))
//	text, _ := c.Decompress(container)
//
// Registering a template. Compress considers it only for inputs of at least
// the minimum compression size (50 bytes by default), and emits the
// template-only form only when that form reaches the template ratio
// threshold (3.0 by default); the short message below is therefore stored
// uncompressed:
//
//	c, _ := aura.NewDefaultCodec()
//	_ = c.RegisterTemplate(1, "user {0} logged in from {1}")
//	container, _ := c.Compress([]byte("user alice logged in from 10.0.0.1"))
//
// # Package Structure
//
// This package provides a convenient top-level wrapper around the codec
// package, mirroring its registry/dictionary/options construction. For
// direct access to the container format, tokenizer, or entropy coder, use the
// container, tokenizer, and rans packages.
package aura

import (
	"github.com/arloliu/aura/codec"
	"github.com/arloliu/aura/container"
	"github.com/arloliu/aura/dict"
	"github.com/arloliu/aura/internal/options"
	"github.com/arloliu/aura/metadata"
	"github.com/arloliu/aura/template"
)

// Codec is a re-export of codec.Codec, the type every constructor below
// returns.
type Codec = codec.Codec

// Container is a re-export of container.Container, the parsed wire
// representation Compress produces and Decompress consumes.
type Container = container.Container

// Option configures a Codec at construction time (§6.4).
type Option = options.Option[*codec.Options]

// NewCodec builds a Codec against an existing template registry and
// dictionary, applying any supplied options over the §6.4 defaults.
func NewCodec(registry *template.Registry, dictionary *dict.Dictionary, opts ...Option) (*Codec, error) {
	return codec.New(registry, dictionary, opts...)
}

// NewDefaultCodec builds a Codec with an empty template registry, an empty
// dictionary, and default options. Use RegisterTemplate and a dictionary
// built separately via dict.Load for a non-trivial deployment.
func NewDefaultCodec(opts ...Option) (*Codec, error) {
	return codec.New(template.NewRegistry(), dict.Empty(), opts...)
}

// Re-exported options, matching the §6.4 configuration keys.
var (
	WithMinCompressionSize = codec.WithMinCompressionSize
	WithHybridThreshold    = codec.WithHybridThreshold
	WithTemplateThreshold  = codec.WithTemplateThreshold
	WithLZWindowBytes      = codec.WithLZWindowBytes
	WithStrictParse        = codec.WithStrictParse
)

// Compress is a convenience wrapper around c.Compress.
func Compress(c *Codec, text []byte) (*Container, error) {
	return c.Compress(text)
}

// Decompress is a convenience wrapper around c.Decompress.
func Decompress(c *Codec, container *Container) ([]byte, error) {
	return c.Decompress(container)
}

// ExtractMetadata is a convenience wrapper around c.ExtractMetadata.
func ExtractMetadata(c *Codec, containerBytes []byte) (metadata.Summary, error) {
	return c.ExtractMetadata(containerBytes)
}

// Marshal serializes a Container to its wire bytes.
func Marshal(c *Container) ([]byte, error) {
	return c.Marshal()
}

// Parse validates and decodes wire bytes into a Container, rejecting
// unknown metadata kinds (strict_parse=true). Use Codec.Parse for a
// codec-configured strictness setting.
func Parse(data []byte) (*Container, error) {
	return container.Parse(data, true)
}
