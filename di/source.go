package di

import (
	"errors"
	"fmt"
	"sync"
)

// Source supplies named values to Lookup descriptors at build time.
//
// Implementations should be read-only from the builder's point of view and
// free of side effects.
//
// Expected usage:
//
//	val, ok, err := src.Resolve("db.dsn")
type Source interface {
	Resolve(key string) (val any, ok bool, err error)
}

// ErrSourcePanic is returned if a Source implementation panics internally.
var ErrSourcePanic = errors.New("di: source panic during Resolve")

// MapSource is a simple in-memory Source. It is safe for concurrent use.
type MapSource struct {
	mu    sync.RWMutex
	items map[string]any
}

// NewMapSource returns an empty MapSource.
func NewMapSource() *MapSource {
	return &MapSource{items: map[string]any{}}
}

// Provide stores a value under a key and returns the source for chaining.
func (s *MapSource) Provide(key string, val any) *MapSource {
	s.mu.Lock()
	s.items[key] = val
	s.mu.Unlock()
	return s
}

// Resolve implements Source and converts panics into errors.
func (s *MapSource) Resolve(key string) (val any, ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			val = nil
			ok = false
			err = fmt.Errorf("%w: %v", ErrSourcePanic, rec)
		}
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

// Get returns the value if present (no panic).
func (s *MapSource) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// MustGet returns the value or panics with a helpful message.
func (s *MapSource) MustGet(key string) any {
	v, ok := s.Get(key)
	if !ok {
		panic(fmt.Errorf("di: source missing key %q", key))
	}
	return v
}
