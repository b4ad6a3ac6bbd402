package template

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/arloliu/aura/errs"
)

// storeEntry is one template record in the §6.3 JSON template store format.
type storeEntry struct {
	Pattern string `json:"pattern"`
}

// storeDocument is the top-level JSON document shape:
//
//	{"version": "1", "templates": {"<decimal_id>": {"pattern": "..."}}}
type storeDocument struct {
	Version   string                `json:"version"`
	Templates map[string]storeEntry `json:"templates"`
}

// LoadStore reads a template store JSON document and builds a Registry from
// it via RegistryBuilder. The returned Registry still accepts
// RegisterTemplate calls. Template ids are decoded from their decimal string keys;
// ids that don't fit in 16 bits are rejected.
func LoadStore(r io.Reader) (*Registry, error) {
	var doc storeDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("template store: decode: %w", err)
	}

	builder := NewRegistryBuilder()
	for key, entry := range doc.Templates {
		n, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("template store: template id %q is not a decimal integer: %w", key, err)
		}
		if n >= 1<<16 {
			return nil, fmt.Errorf("%w: id %d", errs.ErrTemplateIDTooLarge, n)
		}

		if err := builder.Add(uint16(n), entry.Pattern); err != nil {
			return nil, err
		}
	}

	return builder.Build()
}

// WriteStore serializes a registry's known templates back into the §6.3
// JSON document shape. Useful for template-discovery tooling (§6.5) that
// promotes newly mined templates and persists them for the next process
// restart.
func WriteStore(w io.Writer, r *Registry) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := storeDocument{
		Version:   "1",
		Templates: make(map[string]storeEntry, len(r.byID)),
	}
	for id, tmpl := range r.byID {
		doc.Templates[strconv.FormatUint(uint64(id), 10)] = storeEntry{Pattern: tmpl.Pattern()}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(doc)
}
