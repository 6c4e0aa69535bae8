// Package usecase is the root of a small declarative dependency mechanism for
// single-trigger use cases.
//
// A use case is a struct that exposes exactly one exported method, Execute or
// Call. It declares what it needs in a manifest; the factory builds a fresh,
// fully wired instance on request.
//
// See subpackages:
//   - di: manifests, descriptors, the class factory and the contract check
//   - cmd/triggerlint: checks the contract from source, before anything runs
//   - examples/tasks: runnable end-to-end wiring
package usecase
