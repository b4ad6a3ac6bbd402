// Package collab declares the narrow interfaces the codec core exchanges
// data with at its edges (§6.5). None of these are implemented here — audit
// logging, response caching, and template discovery are explicitly out of
// scope for the core (§9 design notes) — but the shapes are named so a host
// application can wire real collaborators against a stable contract.
package collab

import (
	"context"

	"github.com/arloliu/aura/metadata"
)

// ContainerSource is the "from transport" edge: a raw opaque byte buffer
// containing a single container, handed to the codec for decode or metadata
// extraction.
type ContainerSource interface {
	NextContainer(ctx context.Context) ([]byte, error)
}

// AuditRecord is the tuple the codec core hands to an external audit sink
// after a compress or decompress call. The codec does not persist these
// itself; persistence is the sink's responsibility.
type AuditRecord struct {
	Plaintext []byte
	Container []byte
	Summary   metadata.Summary
}

// AuditSink is the "to audit sink" edge.
type AuditSink interface {
	Record(ctx context.Context, rec AuditRecord) error
}

// TemplateRegistrar is the subset of template.Registry's write surface a
// template-discovery miner needs. The miner reads a stream of plaintext
// messages out-of-band and, when it promotes a recurring shape to a
// template, calls RegisterTemplate against the codec's shared registry
// (external synchronization is the miner's responsibility; see §5).
type TemplateRegistrar interface {
	RegisterTemplate(id uint16, pattern string) error
}

// TemplateMiner is the "to template discovery" edge: a read-only stream of
// plaintext messages is fed to it, and it promotes templates via a
// TemplateRegistrar.
type TemplateMiner interface {
	Observe(ctx context.Context, plaintext []byte) error
}

// ConfigSource is the "from configuration" edge: consumed once at codec
// construction to locate the dictionary and template store artifacts.
type ConfigSource interface {
	DictionaryPath() string
	TemplateStorePath() string
}
