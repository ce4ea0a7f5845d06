package render

import (
	"html/template"
	"sort"
)

// Variant is one renderable section type. Each variant owns its prop
// schema: DefaultProps supplies a value for every prop it understands, and
// Render receives the submitted props merged over those defaults.
type Variant interface {
	Type() string
	DefaultProps() map[string]any
	Render(props map[string]any) (template.HTML, error)
}

// Registry maps a section type tag to its variant. It is populated once at
// startup and only read afterwards.
type Registry struct {
	variants map[string]Variant
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{variants: make(map[string]Variant)}
}

// Register adds a variant, replacing any previous one with the same type.
func (r *Registry) Register(v Variant) {
	r.variants[v.Type()] = v
}

// Lookup resolves a section type tag to its variant.
func (r *Registry) Lookup(sectionType string) (Variant, bool) {
	v, ok := r.variants[sectionType]
	return v, ok
}

// Types lists the registered type tags in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.variants))
	for t := range r.variants {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
