// Package codec implements the compression driver (C6): the top-level
// compress/decompress/extract_metadata API, the never-worse encode decision
// procedure of §4.6, and the decode dispatch of §4.6/§4.7.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/aura/container"
	"github.com/arloliu/aura/dict"
	"github.com/arloliu/aura/errs"
	"github.com/arloliu/aura/format"
	"github.com/arloliu/aura/internal/options"
	"github.com/arloliu/aura/metadata"
	"github.com/arloliu/aura/rans"
	"github.com/arloliu/aura/template"
	"github.com/arloliu/aura/token"
	"github.com/arloliu/aura/tokenizer"
)

// Codec orchestrates the full compress/decompress pipeline against a shared
// template registry and dictionary. A Codec is safe for concurrent
// Compress/Decompress/ExtractMetadata calls as long as RegisterTemplate is
// not racing with them (§5): the registry's own lock covers that case.
type Codec struct {
	registry   *template.Registry
	dictionary *dict.Dictionary
	opts       Options
	stats      statsAccumulator
}

// New builds a Codec. A nil dictionary is treated as empty.
func New(registry *template.Registry, dictionary *dict.Dictionary, opts ...options.Option[*Options]) (*Codec, error) {
	if registry == nil {
		registry = template.NewRegistry()
	}
	if dictionary == nil {
		dictionary = dict.Empty()
	}

	o := defaultOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return nil, err
	}

	return &Codec{registry: registry, dictionary: dictionary, opts: o}, nil
}

// RegisterTemplate adds a template to the codec's registry (§6.4 item 5).
func (c *Codec) RegisterTemplate(id uint16, pattern string) error {
	return c.registry.RegisterTemplate(id, pattern)
}

// Compress implements the §4.6 never-worse encode decision procedure. Every
// call's outcome is folded into the Codec's CompressionStats, retrievable via
// Stats without re-deriving anything from the returned container.
func (c *Codec) Compress(text []byte) (*container.Container, error) {
	cc, err := c.compress(text)
	if err != nil {
		return nil, err
	}

	if wire, wireErr := cc.Marshal(); wireErr == nil {
		c.stats.record(cc.Method, len(text), len(wire))
	}

	return cc, nil
}

func (c *Codec) compress(text []byte) (*container.Container, error) {
	n := uint32(len(text)) //nolint:gosec

	if n < c.opts.minCompressionSize {
		return c.fallback(text, format.ReasonTooSmall)
	}

	if tc, ok := c.tryTemplateOnly(text, n); ok {
		return tc, nil
	}

	hc, ratio, err := c.tryHybrid(text, n)
	if err != nil {
		return c.fallback(text, format.ReasonCodecError)
	}
	if ratio >= c.opts.hybridThreshold {
		return hc, nil
	}

	reason := format.ReasonBelowThreshold
	if ratio < 1.0 {
		reason = format.ReasonIncompressible
	}

	return c.fallback(text, reason)
}

func (c *Codec) fallback(text []byte, reason format.FallbackReason) (*container.Container, error) {
	n := uint32(len(text)) //nolint:gosec

	return &container.Container{
		Method:       format.MethodFallback,
		OriginalSize: n,
		PayloadSize:  n,
		Metadata:     []metadata.Entry{metadata.NewFallback(reason)},
		Payload:      append([]byte(nil), text...),
	}, nil
}

func (c *Codec) tryTemplateOnly(text []byte, n uint32) (*container.Container, bool) {
	m, ok := c.registry.MatchText(string(text))
	if !ok {
		return nil, false
	}

	payload := token.EncodeTemplatePayload(nil, m.TemplateID, m.Slots)
	entries := []metadata.Entry{metadata.NewTemplate(0, m.TemplateID)}

	cc := &container.Container{
		Method:       format.MethodTemplateOnly,
		OriginalSize: n,
		PayloadSize:  uint32(len(payload)), //nolint:gosec
		Metadata:     entries,
		Payload:      payload,
	}

	envelope := container.HeaderSize + len(entries)*metadata.EntrySize + len(payload)
	ratio := float64(n) / float64(envelope)
	if ratio < c.opts.templateThreshold {
		return nil, false
	}

	return cc, true
}

// tryHybrid runs the full §4.2-§4.4 pipeline and assembles a trial
// method=0x01 container, returning it alongside the ratio against the full
// trial container size so Compress can apply HYBRID_RATIO.
func (c *Codec) tryHybrid(text []byte, n uint32) (*container.Container, float64, error) {
	tk := tokenizer.New(c.registry, c.dictionary, int(c.opts.lzWindowBytes))
	result := tk.Tokenize(text)

	tokenBytes, err := token.Encode(nil, result.Tokens)
	if err != nil {
		return nil, 0, fmt.Errorf("codec: encode token stream: %w", err)
	}
	if len(tokenBytes) == 0 {
		return nil, 0, fmt.Errorf("codec: empty token stream")
	}

	table, err := rans.BuildTable(tokenBytes)
	if err != nil {
		return nil, 0, fmt.Errorf("codec: build frequency table: %w", err)
	}

	bitstream, err := rans.Encode(tokenBytes, table)
	if err != nil {
		return nil, 0, fmt.Errorf("codec: rans encode: %w", err)
	}

	// The container does not carry an explicit token-stream length field
	// (see DESIGN.md); a 4-byte big-endian prefix records it so decode
	// knows how many symbols to ask rans.Decode for.
	payload := make([]byte, 0, 4+len(bitstream))
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(tokenBytes))) //nolint:gosec
	payload = append(payload, lenBuf[:]...)
	payload = append(payload, bitstream...)

	cc := &container.Container{
		Method:         format.MethodHybrid,
		OriginalSize:   n,
		PayloadSize:    uint32(len(payload)), //nolint:gosec
		FrequencyTable: table.Freq,
		Metadata:       result.Metadata,
		Payload:        payload,
	}

	wire, err := cc.Marshal()
	if err != nil {
		return nil, 0, err
	}

	ratio := float64(n) / float64(len(wire))

	return cc, ratio, nil
}

// Decompress reverses Compress, dispatching on c.Method per §4.6.
func (c *Codec) Decompress(cont *container.Container) ([]byte, error) {
	switch cont.Method {
	case format.MethodFallback:
		if cont.PayloadSize != cont.OriginalSize {
			return nil, fmt.Errorf("%w: fallback payload_size %d != original_size %d", errs.ErrLengthMismatch, cont.PayloadSize, cont.OriginalSize)
		}

		return append([]byte(nil), cont.Payload...), nil

	case format.MethodTemplateOnly:
		id, slots, err := token.DecodeTemplatePayload(cont.Payload)
		if err != nil {
			return nil, err
		}
		text, err := c.registry.FormatTemplate(id, slots)
		if err != nil {
			return nil, err
		}
		if uint32(len(text)) != cont.OriginalSize { //nolint:gosec
			return nil, fmt.Errorf("%w: template expanded to %d bytes, want %d", errs.ErrLengthMismatch, len(text), cont.OriginalSize)
		}

		return []byte(text), nil

	case format.MethodHybrid:
		return c.decodeHybrid(cont)

	default:
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrBadMethod, byte(cont.Method))
	}
}

func (c *Codec) decodeHybrid(cont *container.Container) ([]byte, error) {
	if len(cont.Payload) < 4 {
		return nil, fmt.Errorf("%w: hybrid payload shorter than token-length prefix", errs.ErrCorruptPayload)
	}
	tokenStreamLen := int(binary.BigEndian.Uint32(cont.Payload[:4]))
	bitstream := cont.Payload[4:]

	table, err := rans.FromCounts(cont.FrequencyTable)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrBadFrequencyTable, err)
	}

	tokenBytes, err := rans.Decode(bitstream, table, tokenStreamLen)
	if err != nil {
		return nil, err
	}

	tokens, err := token.Decode(tokenBytes)
	if err != nil {
		return nil, err
	}

	text, err := c.replayTokens(tokens)
	if err != nil {
		return nil, err
	}

	if uint32(len(text)) != cont.OriginalSize { //nolint:gosec
		return nil, fmt.Errorf("%w: replayed %d bytes, want %d", errs.ErrLengthMismatch, len(text), cont.OriginalSize)
	}

	return text, nil
}

// replayTokens reconstructs plaintext from a decoded token stream against a
// fresh window seeded with the dictionary, mirroring the encode-side window
// exactly (§4.6 decode step for method=0x01).
func (c *Codec) replayTokens(tokens []token.Token) ([]byte, error) {
	out := append([]byte(nil), c.dictionary.Seed()...)
	base := len(out)

	for _, t := range tokens {
		switch t.Kind {
		case format.TokenLiteral:
			out = append(out, t.Literal)
		case format.TokenDictionary:
			snippet, ok := c.dictionary.Get(t.DictID)
			if !ok {
				return nil, fmt.Errorf("%w: id %d", errs.ErrUnknownSnippetID, t.DictID)
			}
			out = append(out, snippet...)
		case format.TokenMatch:
			start := len(out) - t.Distance
			if start < 0 {
				return nil, fmt.Errorf("%w: match distance %d exceeds available window", errs.ErrCorruptPayload, t.Distance)
			}
			for i := 0; i < t.Length; i++ {
				out = append(out, out[start+i])
			}
		case format.TokenTemplate:
			text, err := c.registry.FormatTemplate(t.TemplateID, t.Slots)
			if err != nil {
				return nil, err
			}
			out = append(out, text...)
		default:
			return nil, fmt.Errorf("%w: unknown token kind %d", errs.ErrCorruptPayload, t.Kind)
		}
	}

	return out[base:], nil
}

// ExtractMetadata implements the §4.6 metadata fast-path: it parses only the
// header and metadata array, never the frequency table or payload.
func (c *Codec) ExtractMetadata(containerBytes []byte) (metadata.Summary, error) {
	return container.ParseMetadataOnly(containerBytes, c.opts.strictParse)
}

// Parse validates and decodes wire bytes into a Container using the codec's
// configured strict_parse setting.
func (c *Codec) Parse(data []byte) (*container.Container, error) {
	return container.Parse(data, c.opts.strictParse)
}
