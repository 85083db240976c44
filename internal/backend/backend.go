// Package backend defines the opaque code-generation collaborator behind
// the compiler core: the lowerer hands it a verified internal/ir Module
// and asks for one of object/assembly/textual-IR/bitcode output. The
// core ships exactly one concrete implementation
// (internal/backend/llvmir); this package only fixes the interface and a
// registry threaded explicitly through initialization rather than a
// package-level mutable map.
package backend

import (
	"errors"

	"github.com/nanoc-lang/nanoc/internal/ir"
)

// ErrUnsupported is returned by an emit method a backend cannot perform
// (e.g. bitcode emission from a backend with no bitcode writer).
var ErrUnsupported = errors.New("backend: operation not supported")

// OptLevel is the requested optimization level: 0-3, plus 's'/'z'
// which the CLI aliases to 2 before reaching the backend.
type OptLevel int

const (
	OptNone OptLevel = iota
	OptLess
	OptDefault
	OptAggressive
)

// Backend turns a verified internal/ir.Module into target output.
// Generate must be called once before any Emit* method.
type Backend interface {
	// Name identifies the backend for --backend selection and diagnostics.
	Name() string
	// Generate lowers module into the backend's own representation,
	// targeting the given LLVM-style target triple. It returns false (with
	// no emit methods usable) if generation itself failed.
	Generate(module *ir.Module, targetTriple string, opt OptLevel) bool
	// EmitObject writes a platform-native object file to path.
	EmitObject(path string) error
	// EmitAssembly writes target-specific textual assembly to path.
	EmitAssembly(path string) error
	// EmitIR writes the backend's own textual IR to path.
	EmitIR(path string) error
	// EmitBitcode writes a bitcode-serialized module to path.
	EmitBitcode(path string) error
	// LinkExecutable invokes the system linker over the given object
	// files through a child-process invocation, producing outputPath.
	LinkExecutable(objectPaths []string, outputPath string, shared, pic bool) error
	// SizeOf reports the backend's layout opinion for t; ok is false when
	// it has none. internal/lower does not call it: sizeof is folded with
	// ir.SizeOf.
	SizeOf(t ir.Type) (size int64, ok bool)
}

// Factory constructs a fresh Backend instance, used by a Registry entry so
// every compilation gets its own backend state rather than sharing one
// across compiles.
type Factory func() Backend

// Registry maps a --backend selection name to a Factory. It is always
// constructed explicitly (NewRegistry) by the CLI's build command, never
// stored in a package variable.
type Registry struct {
	factories map[string]Factory
	order     []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds name as a selectable backend.
func (r *Registry) Register(name string, f Factory) {
	if _, exists := r.factories[name]; !exists {
		r.order = append(r.order, name)
	}
	r.factories[name] = f
}

// New constructs a fresh Backend for name, or reports ok=false if name was
// never registered.
func (r *Registry) New(name string) (Backend, bool) {
	f, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names returns every registered backend name in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
