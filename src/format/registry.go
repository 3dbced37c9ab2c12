package format

import (
	"fmt"
	"github.com/jom-io/logalyzer/src/record"
	"sort"
	"sync"
)

const (
	ApacheCombined = "apache_combined"
	ApacheCommon   = "apache_common"
	JSONLines      = "json"
)

// Parser turns one raw line into a record. Implementations keep no state
// between calls and may be shared by concurrent readers.
type Parser interface {
	Name() string
	Parse(line string) (record.Record, error)
}

type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

func NewRegistry(parsers ...Parser) (*Registry, error) {
	r := &Registry{parsers: make(map[string]Parser, len(parsers))}
	for _, p := range parsers {
		if err := r.Register(p.Name(), p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(name string, p Parser) error {
	if name == "" || p == nil {
		return fmt.Errorf("register format: empty name or nil parser")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parsers[name]; ok {
		return fmt.Errorf("register format: %q already registered", name)
	}
	r.parsers[name] = p
	return nil
}

func (r *Registry) Resolve(name string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[name]
	if !ok {
		return nil, &FormatNotFoundError{Format: name, Code: FormatNotFoundCode}
	}
	return p, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(NewApacheCombined(), NewApacheCommon(), NewJSON())
	if err != nil {
		panic(err)
	}
	return r
})

// Default returns the process-wide registry with the built-in formats.
func Default() *Registry {
	return defaultRegistry()
}
