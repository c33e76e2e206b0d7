package llm

import (
	"fmt"
	"sort"
)

// Registry maps configuration keys to LLM clients so that callers can select
// a completion provider by a plain config value (e.g. "ollama_llama3",
// "gemini_flash") instead of depending on a concrete implementation.
type Registry struct {
	clients    map[string]LLM
	defaultKey string
}

// NewRegistry creates an empty registry with the given default key.
func NewRegistry(defaultKey string) *Registry {
	return &Registry{
		clients:    make(map[string]LLM),
		defaultKey: defaultKey,
	}
}

// Register adds a client under a key. Registering an existing key replaces it.
func (r *Registry) Register(key string, client LLM) {
	r.clients[key] = client
}

// Get returns the client for key, or an error if the key is unknown.
// An empty key selects the default client.
func (r *Registry) Get(key string) (LLM, error) {
	if key == "" {
		key = r.defaultKey
	}
	client, ok := r.clients[key]
	if !ok {
		return nil, fmt.Errorf("unknown llm %q (available: %v)", key, r.Keys())
	}
	return client, nil
}

// Default returns the default client.
func (r *Registry) Default() (LLM, error) {
	return r.Get("")
}

// Keys lists registered keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.clients))
	for k := range r.clients {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
