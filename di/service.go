package di

import (
	"errors"
	"reflect"
	"strconv"
)

// ErrNilTarget is returned when an injector is applied to a nil service
// or a service with a nil Val.
var ErrNilTarget = errors.New("di: nil target service")

// DependencyKey names a dependency in a Manifest and in a Service's Deps bag.
//
// Keys are typically defined as package-level constants to avoid typos.
//
// Example:
//
//	const (
//	  KeyLogger      di.DependencyKey = "logger"
//	  KeyTaskManager di.DependencyKey = "taskManager"
//	)
type DependencyKey string

// Key converts a string into a DependencyKey.
func Key(name string) DependencyKey { return DependencyKey(name) }

// DuplicateKeyError is returned when a dependency name is used twice, either in
// a Manifest or when injecting into a Service.
type DuplicateKeyError struct{ Key DependencyKey }

// Error implements the error interface.
func (e DuplicateKeyError) Error() string {
	// Example: di: duplicate dependency key "logger"
	return "di: duplicate dependency key " + strconv.Quote(string(e.Key))
}

// MissingDependencyError is returned when a dependency key is not present.
//
// TryGetAs uses it to distinguish "missing" from "wrong type"; Lookup
// descriptors return it when their Source has no value for the key.
type MissingDependencyError struct{ Key DependencyKey }

// Error implements the error interface.
func (e MissingDependencyError) Error() string {
	// Example: di: dependency "logger" missing
	return "di: dependency " + strconv.Quote(string(e.Key)) + " missing"
}

// WrongTypeDependencyError is returned when a dependency exists but is of a different type.
type WrongTypeDependencyError struct {
	// Key is the dependency key requested.
	Key DependencyKey

	// GotType is reflect.TypeOf(raw).String() for the stored value.
	GotType string
}

// Error implements the error interface.
func (e WrongTypeDependencyError) Error() string {
	// Example: di: dependency "logger" has wrong type (*tasks.TaskManager)
	return "di: dependency " + strconv.Quote(string(e.Key)) + " has wrong type (" + e.GotType + ")"
}

// Service pairs a constructed instance with the collaborators injected into it.
//
// Val is the instance. Deps records every resolved collaborator under its
// manifest key, which makes wiring observable in tests and debugging.
type Service[T any] struct {
	Val  *T
	Deps map[DependencyKey]any
}

// Init constructs a Service by calling ctor and initializing the dependency bag.
func Init[T any](ctor func() *T) *Service[T] {
	return &Service[T]{Val: ctor(), Deps: make(map[DependencyKey]any)}
}

// Value returns the constructed value pointer.
func (s *Service[T]) Value() *T { return s.Val }

// Injector mutates a Service in-place and returns an error if wiring fails.
type Injector[T any] func(*Service[T]) error

// With applies a single injector to the Service.
//
// If inj is nil, With is a no-op and returns (s, nil).
func (s *Service[T]) With(inj Injector[T]) (*Service[T], error) {
	if inj == nil {
		return s, nil
	}
	if err := inj(s); err != nil {
		return s, err
	}
	return s, nil
}

// WithAll applies multiple injectors in order.
//
// It stops at the first error and returns that error.
func (s *Service[T]) WithAll(deps ...Injector[T]) (*Service[T], error) {
	for _, inj := range deps {
		if _, err := s.With(inj); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Injecting builds an Injector that records dep under key and hands it to bind.
//
// The returned injector fails with ErrNilTarget for a nil service and with
// DuplicateKeyError when key is already recorded.
func Injecting[T any, D any](key DependencyKey, dep D, bind func(target *T, dependency D) error) Injector[T] {
	return func(s *Service[T]) error {
		if s == nil || s.Val == nil {
			return ErrNilTarget
		}
		if s.Deps == nil {
			s.Deps = make(map[DependencyKey]any)
		}
		if _, exists := s.Deps[key]; exists {
			return DuplicateKeyError{Key: key}
		}
		if bind != nil {
			if err := bind(s.Val, dep); err != nil {
				return err
			}
		}
		s.Deps[key] = dep
		return nil
	}
}

// Has reports whether a dependency exists for the key (regardless of type).
func (s *Service[T]) Has(key DependencyKey) bool {
	if s == nil || s.Deps == nil {
		return false
	}
	_, ok := s.Deps[key]
	return ok
}

// GetAny returns the raw stored dependency value without type assertions.
func (s *Service[T]) GetAny(key DependencyKey) (any, bool) {
	if s == nil || s.Deps == nil {
		return nil, false
	}
	v, ok := s.Deps[key]
	return v, ok
}

// GetAs returns the dependency typed as D.
//
// ok is false if the key is missing, the stored value is nil, or it is not a D.
func GetAs[T any, D any](s *Service[T], key DependencyKey) (D, bool) {
	var zero D
	if s == nil || s.Deps == nil {
		return zero, false
	}
	raw, ok := s.Deps[key]
	if !ok || raw == nil {
		return zero, false
	}
	d, ok := raw.(D)
	return d, ok
}

// TryGetAs returns the dependency typed as D.
//
// It returns:
//   - MissingDependencyError if the key is not present
//   - WrongTypeDependencyError if the key exists but is not a D
func TryGetAs[T any, D any](s *Service[T], key DependencyKey) (D, error) {
	var zero D
	if s == nil || s.Deps == nil {
		return zero, MissingDependencyError{Key: key}
	}
	raw, ok := s.Deps[key]
	if !ok || raw == nil {
		return zero, MissingDependencyError{Key: key}
	}
	d, ok := raw.(D)
	if !ok {
		return zero, WrongTypeDependencyError{
			Key:     key,
			GotType: reflect.TypeOf(raw).String(),
		}
	}
	return d, nil
}

// MustGetAs returns the dependency typed as D or panics with the TryGetAs error.
func MustGetAs[T any, D any](s *Service[T], key DependencyKey) D {
	d, err := TryGetAs[T, D](s, key)
	if err != nil {
		panic(err)
	}
	return d
}

// Clone returns a shallow copy of the Service.
//
// The instance pointer (Val) is shared. The dependency bag (Deps) is copied
// into a new map so changes to the copy do not leak into the original.
func (s *Service[T]) Clone() *Service[T] {
	if s == nil {
		return nil
	}
	cp := &Service[T]{Val: s.Val}
	if len(s.Deps) > 0 {
		cp.Deps = make(map[DependencyKey]any, len(s.Deps))
		for k, v := range s.Deps {
			cp.Deps[k] = v
		}
	} else {
		cp.Deps = make(map[DependencyKey]any)
	}
	return cp
}
