package di

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNilDescriptor is returned when a descriptor has nothing to resolve from:
// the zero Descriptor, a nil Builder, or a nil Source.
var ErrNilDescriptor = errors.New("di: nil descriptor")

// MissingTriggerError is returned when a class declares neither Execute nor Call.
type MissingTriggerError struct{ Class string }

// Error implements the error interface.
func (e MissingTriggerError) Error() string {
	// Example: di: class "CreateTask" must define an execution trigger (Execute or Call)
	return "di: class " + strconv.Quote(e.Class) + " must define an execution trigger (" +
		TriggerExecute + " or " + TriggerCall + ")"
}

// DuplicateTriggerError is returned when a class declares both Execute and Call.
type DuplicateTriggerError struct{ Class string }

// Error implements the error interface.
func (e DuplicateTriggerError) Error() string {
	return "di: class " + strconv.Quote(e.Class) + " should only define one execution trigger, found " +
		TriggerExecute + " and " + TriggerCall
}

// ExtraPublicSurfaceError is returned when a class exports methods besides its trigger.
type ExtraPublicSurfaceError struct {
	Class   string
	Trigger string
	Methods []string
}

// Error implements the error interface.
func (e ExtraPublicSurfaceError) Error() string {
	// Example: di: class "CreateTask" should only define Execute as a public method. Additional public methods: Helper
	return "di: class " + strconv.Quote(e.Class) + " should only define " + e.Trigger +
		" as a public method. Additional public methods: " + strings.Join(e.Methods, ", ")
}

// RedeclarationError is returned when a class declares its dependencies twice
// in the same Registry.
type RedeclarationError struct{ Class string }

// Error implements the error interface.
func (e RedeclarationError) Error() string {
	return "di: class " + strconv.Quote(e.Class) + " already declared its dependencies"
}

// InvalidClassError is returned when a type cannot act as a class.
type InvalidClassError struct {
	Class  string
	Reason string
}

// Error implements the error interface.
func (e InvalidClassError) Error() string {
	return "di: invalid class " + strconv.Quote(e.Class) + ": " + e.Reason
}

// InvalidManifestError is returned for a malformed manifest entry.
type InvalidManifestError struct{ Reason string }

// Error implements the error interface.
func (e InvalidManifestError) Error() string {
	return "di: invalid manifest: " + e.Reason
}

// SlotNotFoundError is returned when a manifest key has no matching field.
type SlotNotFoundError struct {
	Class string
	Key   DependencyKey
}

// Error implements the error interface.
func (e SlotNotFoundError) Error() string {
	return "di: class " + strconv.Quote(e.Class) + " has no slot for dependency " + strconv.Quote(string(e.Key))
}

// UnboundSlotError is returned when an inject-tagged field names a dependency
// the manifest does not declare.
type UnboundSlotError struct {
	Class string
	Field string
	Key   DependencyKey
}

// Error implements the error interface.
func (e UnboundSlotError) Error() string {
	return "di: class " + strconv.Quote(e.Class) + " field " + e.Field +
		" expects undeclared dependency " + strconv.Quote(string(e.Key))
}

// SlotTypeError is returned when a resolved collaborator does not fit its slot.
type SlotTypeError struct {
	Class string
	Key   DependencyKey
	Want  string
	Got   string
}

// Error implements the error interface.
func (e SlotTypeError) Error() string {
	return "di: dependency " + strconv.Quote(string(e.Key)) + " of class " + strconv.Quote(e.Class) +
		" resolved to " + e.Got + ", slot wants " + e.Want
}

// ResolveError wraps a failure to resolve one manifest entry.
type ResolveError struct {
	Class string
	Key   DependencyKey
	Err   error
}

// Error implements the error interface.
func (e ResolveError) Error() string {
	return "di: resolve dependency " + strconv.Quote(string(e.Key)) + " of class " +
		strconv.Quote(e.Class) + ": " + e.Err.Error()
}

// Unwrap returns the underlying resolution error.
func (e ResolveError) Unwrap() error { return e.Err }
