package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/waymark/pkg/domain"
)

// ErrFunctionNotFound is returned by Lookup when neither a plain name nor a
// factory prefix matches.
var ErrFunctionNotFound = errors.New("transition function not found")

// Factory builds a transition function from the argument of a parameterized
// name such as "click:WORLD.searchButton".
type Factory func(arg string) (domain.TransitionFunc, error)

// Registry manages the transition functions that definitions refer to by name.
type Registry struct {
	mu        sync.RWMutex
	funcs     map[string]domain.TransitionFunc
	factories map[string]Factory
}

// NewRegistry creates a registry holding the built-ins "always" and "never".
func NewRegistry() *Registry {
	r := &Registry{
		funcs:     make(map[string]domain.TransitionFunc),
		factories: make(map[string]Factory),
	}
	r.Register("always", domain.Always)
	r.Register("never", domain.Never)
	return r
}

// Register adds a function to the registry.
// If a function with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn domain.TransitionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// RegisterFactory handles every name of the form "prefix:arg".
func (r *Registry) RegisterFactory(prefix string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[prefix] = f
}

// Lookup resolves a name to a function. Plain names take precedence over factories.
func (r *Registry) Lookup(name string) (domain.TransitionFunc, error) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	var factory Factory
	prefix, arg, parameterized := strings.Cut(name, ":")
	if !ok && parameterized {
		factory = r.factories[prefix]
	}
	r.mu.RUnlock()

	if ok {
		return fn, nil
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}

	fn, err := factory(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return fn, nil
}

// Has reports whether name can be resolved.
func (r *Registry) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Execute looks up a function by name and runs it.
func (r *Registry) Execute(ctx context.Context, name string) (bool, error) {
	fn, err := r.Lookup(name)
	if err != nil {
		return false, err
	}
	return fn(ctx)
}

// Names returns the registered plain names and factory prefixes (as "prefix:"), sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.funcs)+len(r.factories))
	for name := range r.funcs {
		out = append(out, name)
	}
	for prefix := range r.factories {
		out = append(out, prefix+":")
	}
	slices.Sort(out)
	return out
}

// ParseObjectKey parses "State.Object" arguments used by object factories.
func ParseObjectKey(arg string) (domain.ObjectKey, error) {
	state, object, ok := strings.Cut(arg, ".")
	if !ok || state == "" || object == "" {
		return domain.ObjectKey{}, fmt.Errorf("expected State.Object, got %q", arg)
	}
	return domain.ObjectKey{State: state, Object: object}, nil
}
