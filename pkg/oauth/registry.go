package oauth

import "fmt"

// Registry resolves a Provider by its Kind.
type Registry struct {
	providers map[Kind]Provider
}

// NewRegistry builds a registry from the given providers.
// A later provider replaces an earlier one of the same kind.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[Kind]Provider, len(providers))}
	for _, p := range providers {
		if p == nil {
			continue
		}
		r.providers[p.Kind()] = p
	}
	return r
}

// Get returns the provider registered for kind.
func (r *Registry) Get(kind Kind) (Provider, error) {
	if r != nil {
		if p, ok := r.providers[kind]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, kind)
}

// Kinds returns the registered provider kinds in declaration order.
func (r *Registry) Kinds() []Kind {
	var kinds []Kind
	for _, k := range []Kind{Google, Kakao} {
		if _, ok := r.providers[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
