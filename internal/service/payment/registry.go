package payment

import (
	"fmt"
	"sort"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/ports/payments"
)

// Registry resolves the adapter of a provider.
type Registry struct {
	adapters map[domain.Provider]payments.Adapter
}

// NewRegistry indexes adapters by provider. Registering a provider twice is an error.
func NewRegistry(adapters ...payments.Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[domain.Provider]payments.Adapter, len(adapters))}
	for _, a := range adapters {
		if a == nil {
			continue
		}
		p := a.Provider()
		if _, dup := r.adapters[p]; dup {
			return nil, fmt.Errorf("payment registry: provider %s registered twice", p)
		}
		r.adapters[p] = a
	}
	return r, nil
}

// Get returns the adapter of p.
func (r *Registry) Get(p domain.Provider) (payments.Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, apperr.WithReason(apperr.ErrInvalid, "Unsupported payment provider")
	}
	return a, nil
}

// Resolve parses a raw provider name and returns its adapter.
func (r *Registry) Resolve(raw string) (payments.Adapter, error) {
	p, ok := domain.ParseProvider(raw)
	if !ok {
		return nil, apperr.WithReason(apperr.ErrInvalid, "Unsupported payment provider")
	}
	return r.Get(p)
}

// Providers lists the configured providers in name order.
func (r *Registry) Providers() []domain.Provider {
	out := make([]domain.Provider, 0, len(r.adapters))
	for p := range r.adapters {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
