// Package di wires single-responsibility use-case types from a declared
// dependency manifest.
//
// A use case is a struct whose only exported method is its execution trigger,
// either Execute or Call. It states its collaborators once:
//
//	type CreateTask struct {
//		logger      *Logger      `inject:"logger"`
//		taskManager *TaskManager `inject:"taskManager"`
//	}
//
//	func (c *CreateTask) Execute(name string) string { ... }
//
//	var CreateTaskClass = di.MustDeclare[CreateTask](nil, di.MustManifest(
//		di.Dep("logger", di.Instantiable[Logger]()),
//		di.Dep("taskManager", di.Instantiable[TaskManager]()),
//	))
//
// and callers get wired instances on demand:
//
//	uc, err := CreateTaskClass.Build()
//
// # Descriptors
//
// Each manifest entry is a Descriptor, chosen explicitly:
//
//   - Buildable(b): calls b.BuildAny(); a *Class is a Builder, so classes nest
//   - Instantiable[D](): a fresh new(D)
//   - Value(v): v itself, shared by every build
//   - Lookup(src, key): whatever src holds for key at build time
//
// # Contract
//
// Declare checks the exported methods *T declares itself. Promoted methods of
// embedded fields do not count, but a method T redeclares over one does. Exactly one of Execute or Call must be there
// and nothing else. The result is computed once and every Build returns the
// violation, if any: MissingTriggerError, DuplicateTriggerError or
// ExtraPublicSurfaceError.
//
// There is no container graph, no lifetimes and no autowiring by type. Every
// class is wired on its own, and every Build resolves its collaborators anew.
//
// # Import
//
//	"github.com/sghaida/usecase/di"
package di
