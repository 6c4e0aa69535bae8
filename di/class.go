package di

import (
	"reflect"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// injectTag names the struct tag that binds a field to a manifest entry.
const injectTag = "inject"

// slot is a struct field that receives one manifest entry.
type slot struct {
	key   DependencyKey
	field string
	index []int
	typ   reflect.Type
}

// Class is a declared use-case type: a struct T plus its dependency manifest.
//
// A Class is immutable once declared. Build may be called from any number of
// goroutines; every call resolves collaborators afresh and returns a new *T.
type Class[T any] struct {
	name        string
	typ         reflect.Type
	manifest    Manifest
	slots       []slot
	trigger     string
	contractErr error
	logger      zerolog.Logger
}

// Declare registers T's dependency manifest in reg (Default when nil).
//
// It works out, once, which field receives each dependency and whether *T
// satisfies the execution trigger contract. A contract violation does not
// fail Declare; it is cached and returned by every Build. Descriptors are not
// resolved here.
//
// Declare fails with:
//   - InvalidClassError if T is not a struct
//   - RedeclarationError if T was already declared in reg
//   - SlotNotFoundError / UnboundSlotError if fields and manifest keys differ
func Declare[T any](reg *Registry, manifest Manifest) (*Class[T], error) {
	if reg == nil {
		reg = Default
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	name := className(t)
	if t.Kind() != reflect.Struct {
		return nil, InvalidClassError{Class: name, Reason: "must be a struct type, got " + t.Kind().String()}
	}

	c := &Class[T]{
		name:     name,
		typ:      t,
		manifest: manifest,
		logger:   reg.logger,
	}

	err := reg.declare(t, func() (ClassInfo, error) {
		slots, err := planSlots(name, t, manifest)
		if err != nil {
			return ClassInfo{}, err
		}
		c.slots = slots
		c.trigger, c.contractErr = CheckContract(name, LocalMethods(t))
		return ClassInfo{Name: name, Deps: manifest.Keys(), Trigger: c.trigger, Err: c.contractErr}, nil
	})
	if err != nil {
		reg.logger.Error().Err(err).Str("class", name).Msg("declare failed")
		return nil, err
	}

	if c.contractErr != nil {
		c.logger.Warn().Err(c.contractErr).Str("class", name).Msg("class violates execution trigger contract")
	} else {
		c.logger.Debug().
			Str("class", name).
			Strs("deps", manifest.keyStrings()).
			Str("trigger", c.trigger).
			Msg("class declared")
	}
	return c, nil
}

// MustDeclare is Declare that panics on error. It suits package-level vars:
//
//	var CreateTaskClass = di.MustDeclare[CreateTask](nil, di.MustManifest(
//		di.Dep("logger", di.Instantiable[Logger]()),
//	))
func MustDeclare[T any](reg *Registry, manifest Manifest) *Class[T] {
	c, err := Declare[T](reg, manifest)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the class name, e.g. "tasks.CreateTask".
func (c *Class[T]) Name() string { return c.name }

// Manifest returns the declared manifest.
func (c *Class[T]) Manifest() Manifest { return c.manifest }

// Trigger returns the execution trigger name, or "" if the contract failed.
func (c *Class[T]) Trigger() string { return c.trigger }

// Validate returns the contract violation found at declaration, if any.
func (c *Class[T]) Validate() error { return c.contractErr }

// Build resolves every manifest entry and returns a fully wired *T.
//
// No instance is returned on failure.
func (c *Class[T]) Build() (*T, error) {
	svc, err := c.BuildService()
	if err != nil {
		return nil, err
	}
	return svc.Val, nil
}

// MustBuild is Build that panics on error.
func (c *Class[T]) MustBuild() *T {
	v, err := c.Build()
	if err != nil {
		panic(err)
	}
	return v
}

// BuildAny implements Builder, so a Class can be another class's dependency.
func (c *Class[T]) BuildAny() (any, error) {
	v, err := c.Build()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// BuildService is Build that also returns the resolved collaborators keyed by
// dependency name.
func (c *Class[T]) BuildService() (*Service[T], error) {
	if c.contractErr != nil {
		return nil, c.contractErr
	}

	start := time.Now()
	log := c.logger
	debug := log.GetLevel() <= zerolog.DebugLevel
	if debug {
		log = log.With().Str("build_id", uuid.NewString()).Logger()
	}

	injectors := make([]Injector[T], 0, len(c.slots))
	for i, entry := range c.manifest.entries {
		v, err := entry.Descriptor.Resolve()
		if err != nil {
			err = ResolveError{Class: c.name, Key: entry.Key, Err: err}
			log.Warn().Err(err).Str("class", c.name).Msg("build failed")
			return nil, err
		}
		injectors = append(injectors, c.bindSlot(c.slots[i], v))
	}

	svc, err := Init(func() *T { return new(T) }).WithAll(injectors...)
	if err != nil {
		log.Warn().Err(err).Str("class", c.name).Msg("build failed")
		return nil, err
	}

	if debug {
		log.Debug().Str("class", c.name).Int("deps", len(injectors)).Dur("took", time.Since(start)).Msg("built")
	}
	return svc, nil
}

func (c *Class[T]) bindSlot(s slot, v any) Injector[T] {
	return Injecting(s.key, v, func(target *T, dep any) error {
		if dep == nil {
			return nil
		}
		val := reflect.ValueOf(dep)
		if !val.Type().AssignableTo(s.typ) {
			return SlotTypeError{Class: c.name, Key: s.key, Want: s.typ.String(), Got: val.Type().String()}
		}
		field := reflect.ValueOf(target).Elem().FieldByIndex(s.index)
		if !field.CanSet() {
			// unexported slot
			field = reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
		}
		field.Set(val)
		return nil
	})
}

// planSlots maps each manifest key to a field of t. A field tagged
// `inject:"name"` takes precedence over a field whose Go name is "name".
// Fields tagged `inject:"-"` are never slots.
func planSlots(class string, t reflect.Type, m Manifest) ([]slot, error) {
	tagged := make(map[DependencyKey]reflect.StructField)
	named := make(map[DependencyKey]reflect.StructField)
	var taggedOrder []reflect.StructField

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup(injectTag)
		switch {
		case tag == "-":
			continue
		case ok && tag != "":
			tagged[DependencyKey(tag)] = f
			taggedOrder = append(taggedOrder, f)
		default:
			named[DependencyKey(f.Name)] = f
		}
	}

	slots := make([]slot, 0, m.Len())
	for _, e := range m.entries {
		f, ok := tagged[e.Key]
		if !ok {
			f, ok = named[e.Key]
		}
		if !ok {
			return nil, SlotNotFoundError{Class: class, Key: e.Key}
		}
		slots = append(slots, slot{key: e.Key, field: f.Name, index: f.Index, typ: f.Type})
	}

	for _, f := range taggedOrder {
		key := DependencyKey(f.Tag.Get(injectTag))
		if _, ok := m.index[key]; !ok {
			return nil, UnboundSlotError{Class: class, Field: f.Name, Key: key}
		}
	}
	return slots, nil
}
