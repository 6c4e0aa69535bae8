package di

import (
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// Default is the package-level Registry used when Declare is given nil.
var Default = NewRegistry()

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for declaration and build events.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// ClassInfo is the static metadata recorded for a declared class.
type ClassInfo struct {
	Name    string
	Deps    []DependencyKey
	Trigger string
	// Err is the cached contract violation, if any. Build returns it.
	Err error
}

// Registry records which classes have declared their dependencies.
//
// Declaring a class twice in the same Registry fails with RedeclarationError.
// A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	logger  zerolog.Logger
	classes map[reflect.Type]struct{}
	byName  map[string]int // index into infos
	infos   []ClassInfo
}

// NewRegistry returns an empty Registry. Logging is off unless WithLogger is given.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger:  zerolog.Nop(),
		classes: make(map[reflect.Type]struct{}),
		byName:  make(map[string]int),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Classes returns the names of declared classes in declaration order.
func (r *Registry) Classes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.infos))
	for i, info := range r.infos {
		out[i] = info.Name
	}
	return out
}

// Lookup returns the metadata recorded for the named class.
func (r *Registry) Lookup(name string) (ClassInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byName[name]
	if !ok {
		return ClassInfo{}, false
	}
	info := r.infos[i]
	info.Deps = append([]DependencyKey(nil), info.Deps...)
	return info, true
}

// declare runs prepare under the registry lock and records the class only if
// prepare succeeds, so a type is either fully declared or not at all.
func (r *Registry) declare(t reflect.Type, prepare func() (ClassInfo, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[t]; exists {
		return RedeclarationError{Class: className(t)}
	}
	info, err := prepare()
	if err != nil {
		return err
	}
	r.classes[t] = struct{}{}
	// distinct local types can share a name; Lookup keeps the first
	if _, taken := r.byName[info.Name]; !taken {
		r.byName[info.Name] = len(r.infos)
	}
	r.infos = append(r.infos, info)
	return nil
}

func className(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
