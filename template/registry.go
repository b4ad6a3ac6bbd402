package template

import (
	"fmt"
	"sort"
	"sync"

	"github.com/arloliu/aura/errs"
)

// Registry stores templates by id and matches input text against them. It
// is read-safe to share across goroutines; RegisterTemplate takes an
// exclusive lock, so mutation never races with concurrent MatchText or
// FormatTemplate calls. Hot encode/decode paths that know the registry has
// stopped changing can build it once via RegistryBuilder and avoid the
// builder entirely for the steady-state read path.
type Registry struct {
	mu        sync.RWMutex
	byID      map[uint16]*Template
	sortedIDs []uint16 // ascending, for "lowest id wins" tie-breaking in MatchText
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[uint16]*Template)}
}

// RegisterTemplate compiles and adds a new template. It fails with
// ErrDuplicateID if id is already registered, or ErrInvalidPattern if the
// pattern fails to compile. The registry is left unchanged on error.
func (r *Registry) RegisterTemplate(id uint16, pattern string) error {
	tmpl, err := compile(id, pattern)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("%w: id %d", errs.ErrDuplicateID, id)
	}

	r.byID[id] = tmpl
	r.sortedIDs = insertSorted(r.sortedIDs, id)

	return nil
}

func insertSorted(ids []uint16, id uint16) []uint16 {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id

	return ids
}

// Get returns the template registered under id, if any.
func (r *Registry) Get(id uint16) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	return t, ok
}

// MatchText finds the template, if any, whose pattern reconstructs text
// byte-for-byte given some slot capture. When multiple templates match, the
// one with the lowest id wins, making the result deterministic.
func (r *Registry) MatchText(text string) (TemplateMatch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.sortedIDs {
		tmpl := r.byID[id]
		if slots, ok := tmpl.matchText(text); ok {
			return TemplateMatch{TemplateID: id, Slots: slots}, true
		}
	}

	return TemplateMatch{}, false
}

// FormatTemplate substitutes slots into the template registered under id,
// inserting the same value at every occurrence of a repeated slot index.
func (r *Registry) FormatTemplate(id uint16, slots []string) (string, error) {
	r.mu.RLock()
	tmpl, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: id %d", errs.ErrUnknownID, id)
	}

	return tmpl.format(slots)
}

// TemplateMatch is the result of a successful MatchText call.
type TemplateMatch struct {
	TemplateID uint16
	Slots      []string
}

// RegistryBuilder accumulates templates before freezing them into a
// Registry, mirroring the teacher's clone-then-finalize header pattern: bulk
// loading (e.g. from a JSON template store) should not pay per-call lock
// overhead.
type RegistryBuilder struct {
	templates map[uint16]string
	order     []uint16
}

// NewRegistryBuilder creates an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{templates: make(map[uint16]string)}
}

// Add stages a template pattern for the given id. It does not compile the
// pattern; compilation errors surface from Build.
func (b *RegistryBuilder) Add(id uint16, pattern string) error {
	if _, exists := b.templates[id]; exists {
		return fmt.Errorf("%w: id %d", errs.ErrDuplicateID, id)
	}

	b.templates[id] = pattern
	b.order = append(b.order, id)

	return nil
}

// Build compiles all staged templates into a fresh Registry.
func (b *RegistryBuilder) Build() (*Registry, error) {
	// r is not shared until Build returns, so it is filled without taking
	// its lock; Add has already rejected duplicate ids.
	r := NewRegistry()
	for _, id := range b.order {
		tmpl, err := compile(id, b.templates[id])
		if err != nil {
			return nil, err
		}
		r.byID[id] = tmpl
		r.sortedIDs = insertSorted(r.sortedIDs, id)
	}

	return r, nil
}
