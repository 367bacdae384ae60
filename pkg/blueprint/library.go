package blueprint

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Library is a set of compiled programs addressed by name. It is safe for concurrent use.
type Library struct {
	mu       sync.RWMutex
	programs map[string]*Program
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{programs: make(map[string]*Program)}
}

// Add registers p. Names must be unique.
func (l *Library) Add(p *Program) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.programs[p.Name]; ok {
		return fmt.Errorf("blueprint '%s' defined twice", p.Name)
	}
	l.programs[p.Name] = p
	return nil
}

// Get returns the program called name, or an error matching domain.ErrUnknownBlueprint.
func (l *Library) Get(name string) (*Program, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.programs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownBlueprint, name)
	}
	return p, nil
}

// Names lists the registered programs in lexical order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.programs))
	for n := range l.programs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
