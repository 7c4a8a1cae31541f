package llm

import (
	"fmt"
	"sort"
	"sync"
)

// Router manages LLM providers and routing
type Router struct {
	providers       map[string]Provider
	defaultProvider string
	mu              sync.RWMutex
}

// NewRouter creates a new LLM router
func NewRouter(defaultProvider string) *Router {
	return &Router{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
	}
}

// RegisterProvider registers an LLM provider
func (r *Router) RegisterProvider(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// GetProvider returns a provider by name. An empty name resolves to the
// default provider, or to any configured provider when the default is
// absent. Unconfigured providers are treated as absent.
func (r *Router) GetProvider(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requested := name
	if name == "" {
		name = r.defaultProvider
	}

	if p, ok := r.providers[name]; ok && p.IsConfigured() {
		return p, nil
	}

	if requested == "" {
		var names []string
		for n, p := range r.providers {
			if p.IsConfigured() {
				names = append(names, n)
			}
		}
		sort.Strings(names)
		if len(names) > 0 {
			return r.providers[names[0]], nil
		}
		return nil, fmt.Errorf("no provider configured")
	}

	if _, ok := r.providers[name]; ok {
		return nil, fmt.Errorf("provider not configured: %s", name)
	}
	return nil, fmt.Errorf("provider not found: %s", name)
}

// ListProviders returns list of configured provider names
func (r *Router) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var providers []string
	for name, p := range r.providers {
		if p.IsConfigured() {
			providers = append(providers, name)
		}
	}
	return providers
}

// DefaultProvider returns the default provider name
func (r *Router) DefaultProvider() string {
	return r.defaultProvider
}

// ProviderInfo contains information about an LLM provider
type ProviderInfo struct {
	Name       string   `json:"name"`
	Models     []string `json:"models"`
	Default    bool     `json:"default"`
	Configured bool     `json:"configured"`
}

// GetProvidersInfo returns information about all providers
func (r *Router) GetProvidersInfo() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var infos []ProviderInfo
	for name, p := range r.providers {
		infos = append(infos, ProviderInfo{
			Name:       name,
			Models:     p.AvailableModels(),
			Default:    name == r.defaultProvider,
			Configured: p.IsConfigured(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
