// Package walkers provides the concrete passes over query ASTs — the
// canonicaliser and the printer — plus the named registry through which
// callers discover them, and a loader that rebuilds an AST from its JSON
// interchange form.
package walkers

import (
	"fmt"
	"sort"

	"github.com/bibql/go-bibql/internal/alias"
	"github.com/bibql/go-bibql/internal/ast"
)

// Pass is a named tree pass. Every registered pass must also implement
// TransformPass or RenderPass.
type Pass interface {
	Name() string
}

// TransformPass rebuilds a tree into a new tree. The input tree is not
// modified.
type TransformPass interface {
	Pass
	Transform(n ast.Node) (ast.Node, error)
}

// RenderPass serialises a tree to text.
type RenderPass interface {
	Pass
	Render(n ast.Node) (string, error)
}

// Registry holds the named passes. It is built once and read-only
// afterwards, so lookups are safe for concurrent use.
type Registry struct {
	passes map[string]Pass
}

// NewRegistry validates and registers the given passes. A nil pass, an
// empty or duplicate name, or a pass implementing neither TransformPass nor
// RenderPass is a registration error: broken registrations must surface at
// startup, not at first use.
func NewRegistry(passes ...Pass) (*Registry, error) {
	r := &Registry{passes: make(map[string]Pass, len(passes))}
	for _, p := range passes {
		if p == nil {
			return nil, fmt.Errorf("walkers: cannot register a nil pass")
		}
		name := p.Name()
		if name == "" {
			return nil, fmt.Errorf("walkers: pass %T has an empty name", p)
		}
		if _, exists := r.passes[name]; exists {
			return nil, fmt.Errorf("walkers: duplicate pass name %q", name)
		}
		switch p.(type) {
		case TransformPass, RenderPass:
		default:
			return nil, fmt.Errorf("walkers: pass %q implements neither Transform nor Render", name)
		}
		r.passes[name] = p
	}
	return r, nil
}

// Default returns a registry with the two standard passes: "canonicalise"
// (using the given alias table) and "print".
func Default(aliases *alias.Table) (*Registry, error) {
	return NewRegistry(NewCanonicalizer(aliases), &Printer{})
}

// Get returns the pass registered under name.
func (r *Registry) Get(name string) (Pass, error) {
	p, ok := r.passes[name]
	if !ok {
		return nil, fmt.Errorf("walkers: no pass registered as %q", name)
	}
	return p, nil
}

// Names returns the registered pass names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.passes))
	for name := range r.passes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
