package analysis

import (
	"fmt"
	"sync"

	"GoCollate/internal/collation"
)

// Registry manages analyzer instances by name.
type Registry struct {
	analyzers map[string]Analyzer
	mu        sync.RWMutex
}

// NewRegistry creates a Registry with the built-in analyzers registered.
func NewRegistry() *Registry {
	r := &Registry{
		analyzers: make(map[string]Analyzer),
	}
	r.analyzers["standard"] = NewStandardAnalyzer()
	r.analyzers["whitespace"] = NewWhitespaceAnalyzer()
	r.analyzers["keyword"] = NewKeywordAnalyzer()
	return r
}

// Get returns the analyzer registered under the given name.
func (r *Registry) Get(name string) (Analyzer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyzers[name]
	if !ok {
		return nil, fmt.Errorf("unknown analyzer: %q", name)
	}
	return a, nil
}

// Register adds a custom analyzer to the registry.
func (r *Registry) Register(name string, a Analyzer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.analyzers[name]; exists {
		return fmt.Errorf("analyzer already registered: %q", name)
	}
	r.analyzers[name] = a
	return nil
}

// RegisterCollated builds a collation analyzer for the locale and
// registers it under name. All collated fields resolving to name share
// one key source, serialized internally.
func (r *Registry) RegisterCollated(name, locale string, opts collation.Options, v collation.Version) error {
	source, err := collation.NewLocaleKeySource(locale, opts)
	if err != nil {
		return fmt.Errorf("collated analyzer %q: %w", name, err)
	}
	a, err := NewCollationKeyAnalyzer(v, source)
	if err != nil {
		return fmt.Errorf("collated analyzer %q: %w", name, err)
	}
	return r.Register(name, a)
}

// Names returns the names of all registered analyzers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	return names
}
