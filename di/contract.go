package di

import (
	"reflect"
	"runtime"
	"sort"
)

// Recognized execution trigger names.
const (
	TriggerExecute = "Execute"
	TriggerCall    = "Call"
)

// CheckContract applies the single-trigger rule to a class's locally declared
// exported methods and returns the trigger name on success.
//
// Checks run in order and stop at the first failure:
//  1. presence: Execute or Call must be declared (MissingTriggerError)
//  2. exclusivity: not both (DuplicateTriggerError)
//  3. surface: nothing else may be exported (ExtraPublicSurfaceError)
//
// Extra methods are reported in the order they appear in methods.
func CheckContract(class string, methods []string) (string, error) {
	var hasExecute, hasCall bool
	for _, m := range methods {
		switch m {
		case TriggerExecute:
			hasExecute = true
		case TriggerCall:
			hasCall = true
		}
	}

	if !hasExecute && !hasCall {
		return "", MissingTriggerError{Class: class}
	}
	if hasExecute && hasCall {
		return "", DuplicateTriggerError{Class: class}
	}

	trigger := TriggerExecute
	if hasCall {
		trigger = TriggerCall
	}

	var extras []string
	for _, m := range methods {
		if m != trigger {
			extras = append(extras, m)
		}
	}
	if len(extras) > 0 {
		return "", ExtraPublicSurfaceError{Class: class, Trigger: trigger, Methods: extras}
	}
	return trigger, nil
}

// LocalMethods returns the exported methods of *t that t declares itself,
// leaving out anything promoted from embedded fields. Names are sorted.
//
// A method declared on t that shadows a promoted one counts as t's own.
func LocalMethods(t reflect.Type) []string {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	promoted := promotedNames(t)
	pt := reflect.PointerTo(t)
	out := make([]string, 0, pt.NumMethod())
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if !m.IsExported() {
			continue
		}
		if _, ok := promoted[m.Name]; ok && !declaredLocally(t, m) {
			continue
		}
		out = append(out, m.Name)
	}
	sort.Strings(out)
	return out
}

// promotedNames lists every method name an embedded field of t provides.
func promotedNames(t reflect.Type) map[string]struct{} {
	names := make(map[string]struct{})
	if t.Kind() != reflect.Struct {
		return names
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		addMethodNames(names, f.Type)
		if f.Type.Kind() != reflect.Pointer && f.Type.Kind() != reflect.Interface {
			addMethodNames(names, reflect.PointerTo(f.Type))
		}
	}
	return names
}

func addMethodNames(dst map[string]struct{}, t reflect.Type) {
	for i := 0; i < t.NumMethod(); i++ {
		dst[t.Method(i).Name] = struct{}{}
	}
}

// declaredLocally reports whether m, a method of *t whose name an embedded
// field also provides, is declared on t itself. Promoted methods are compiler
// wrappers in both method sets; a value-receiver method declared on t is a
// wrapper only in the *t set.
func declaredLocally(t reflect.Type, m reflect.Method) bool {
	if !isWrapper(m.Func) {
		return true
	}
	vm, ok := t.MethodByName(m.Name)
	return ok && !isWrapper(vm.Func)
}

// autogeneratedFile is the file the compiler reports for the method wrappers
// it synthesizes for promoted and pointer-receiver methods.
const autogeneratedFile = "<autogenerated>"

func isWrapper(fn reflect.Value) bool {
	if !fn.IsValid() {
		return false
	}
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return false
	}
	file, _ := f.FileLine(f.Entry())
	return file == autogeneratedFile
}
