package di

import "reflect"

// DescriptorKind tags which collaborator source a Descriptor refers to.
type DescriptorKind uint8

const (
	// KindInvalid is the zero Descriptor. It never resolves.
	KindInvalid DescriptorKind = iota
	// KindBuildable resolves by calling a Builder (typically another *Class).
	KindBuildable
	// KindInstantiable resolves to a fresh zero value allocated with new.
	KindInstantiable
	// KindValue resolves to the stored value unchanged.
	KindValue
	// KindLookup resolves by reading a Source at build time.
	KindLookup
)

// String implements fmt.Stringer.
func (k DescriptorKind) String() string {
	switch k {
	case KindBuildable:
		return "buildable"
	case KindInstantiable:
		return "instantiable"
	case KindValue:
		return "value"
	case KindLookup:
		return "lookup"
	default:
		return "invalid"
	}
}

// Builder is anything that can produce a collaborator on demand.
//
// *Class[T] implements Builder, so a declared class can be used as a
// dependency of another declared class.
type Builder interface {
	BuildAny() (any, error)
}

// BuildFunc adapts a plain function to the Builder interface.
type BuildFunc func() (any, error)

// BuildAny implements Builder.
func (f BuildFunc) BuildAny() (any, error) { return f() }

// Descriptor is an unresolved reference to a collaborator source.
//
// The kind is fixed when the Descriptor is created; Resolve never probes the
// underlying value to guess what it is.
type Descriptor struct {
	kind    DescriptorKind
	builder Builder
	typ     reflect.Type
	value   any
	source  Source
	key     string
}

// Buildable returns a Descriptor resolved by calling b.BuildAny on every build.
func Buildable(b Builder) Descriptor {
	return Descriptor{kind: KindBuildable, builder: b}
}

// Instantiable returns a Descriptor resolved to new(D) on every build.
func Instantiable[D any]() Descriptor {
	return Descriptor{kind: KindInstantiable, typ: reflect.TypeOf((*D)(nil)).Elem()}
}

// Value returns a Descriptor that resolves to v itself.
//
// The same v is handed to every instance, so mutable values are shared.
func Value(v any) Descriptor {
	return Descriptor{kind: KindValue, value: v}
}

// Lookup returns a Descriptor that reads key from src on every build.
func Lookup(src Source, key string) Descriptor {
	return Descriptor{kind: KindLookup, source: src, key: key}
}

// Kind reports the descriptor's variant.
func (d Descriptor) Kind() DescriptorKind { return d.kind }

// Type reports the type a descriptor is known to produce, or nil when that is
// only known after resolution.
func (d Descriptor) Type() reflect.Type {
	switch d.kind {
	case KindInstantiable:
		return reflect.PointerTo(d.typ)
	case KindValue:
		if d.value == nil {
			return nil
		}
		return reflect.TypeOf(d.value)
	default:
		return nil
	}
}

// Resolve turns the descriptor into a concrete collaborator.
//
// Resolution is eager and uncached: every call builds or allocates anew,
// except for KindValue which always returns the same value.
func (d Descriptor) Resolve() (any, error) {
	switch d.kind {
	case KindBuildable:
		if isNilBuilder(d.builder) {
			return nil, ErrNilDescriptor
		}
		return d.builder.BuildAny()
	case KindInstantiable:
		if d.typ == nil {
			return nil, ErrNilDescriptor
		}
		return reflect.New(d.typ).Interface(), nil
	case KindValue:
		return d.value, nil
	case KindLookup:
		if d.source == nil {
			return nil, ErrNilDescriptor
		}
		v, ok, err := d.source.Resolve(d.key)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, MissingDependencyError{Key: DependencyKey(d.key)}
		}
		return v, nil
	default:
		return nil, ErrNilDescriptor
	}
}

func isNilBuilder(b Builder) bool {
	if b == nil {
		return true
	}
	v := reflect.ValueOf(b)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Interface:
		return v.IsNil()
	}
	return false
}
