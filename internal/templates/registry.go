package templates

import (
	"fmt"
	"sync"

	"github.com/abhisek/quizsupply/internal/question"
)

// Registry maps subjects to generators and holds the emergency generator.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	bySubject map[question.Subject]Generator
	emergency Generator
}

// NewRegistry creates a registry with the given emergency generator and
// subject generators. A later generator for the same subject replaces an
// earlier one.
func NewRegistry(emergency Generator, gens ...Generator) *Registry {
	r := &Registry{
		bySubject: make(map[question.Subject]Generator),
		emergency: emergency,
	}
	for _, g := range gens {
		r.bySubject[g.Subject()] = g
	}
	return r
}

// DefaultRegistry returns a registry with one template generator per subject.
func DefaultRegistry() *Registry {
	return NewRegistry(&EmergencyGenerator{},
		&MathGenerator{},
		&ReasoningGenerator{},
		&ThinkingGenerator{},
		&EnglishGenerator{},
		&ReadingGenerator{},
	)
}

// Register adds or replaces the generator for g.Subject().
func (r *Registry) Register(g Generator) error {
	if !g.Subject().Valid() {
		return fmt.Errorf("register %s: unknown subject %q", g.Name(), g.Subject())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySubject[g.Subject()] = g
	return nil
}

// SetEmergency swaps the last-resort generator.
func (r *Registry) SetEmergency(g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emergency = g
}

// For returns the generator for subject.
func (r *Registry) For(subject question.Subject) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.bySubject[subject]
	return g, ok
}

// Emergency returns the last-resort generator, or nil if none is set.
func (r *Registry) Emergency() Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emergency
}
