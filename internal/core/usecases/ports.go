// Package usecases implements the resolver pipeline over the entities
// package: context enumeration/selection, pack resolution, the
// component/condition solver, the layer connection resolver, and the SVD
// expand/derive/check orchestration. Every operation here is synchronous
// and single-threaded; the only shared mutable state is the
// DiagnosticSink passed into each entry point.
package usecases

import (
	"context"

	"github.com/embedstack/cbuild/internal/core/entities"
)

// DiagnosticSink is the abstract diagnostic collaborator.
// A single instance is constructed by the CLI frontend and threaded
// through every resolver call; it is never a package-level singleton.
type DiagnosticSink interface {
	Error(code, message string, params map[string]string, file string, line, col int)
	Warn(code, message string, params map[string]string, file string, line, col int)
	Info(code, message string, params map[string]string, file string, line, col int)
	Diagnostics() []entities.Diagnostic
	Counts() entities.DiagnosticCounts
}

// SolutionLoader parses a *.csolution.yml document tree into entities.
type SolutionLoader interface {
	LoadSolution(ctx context.Context, path string, sink DiagnosticSink) (*entities.Solution, error)
	LoadProject(ctx context.Context, path string, sink DiagnosticSink) (*entities.Project, error)
	LoadLayer(ctx context.Context, path string, sink DiagnosticSink) (*entities.Layer, error)
}

// CdefaultLoader parses the cdefault.yml compiler-default document.
type CdefaultLoader interface {
	LoadCdefault(ctx context.Context, path string, sink DiagnosticSink) (*entities.AttributeSet, error)
}

// PackRepository is the read-only, installed-pack-root collaborator: a
// directory hierarchy indexed as <vendor>/<name>/<version>/, exposed as a
// flat list of installed pack IDs plus the ability to fully load one.
type PackRepository interface {
	// Installed lists every pack version found under the pack root,
	// sorted by (vendor, name, version descending).
	Installed(ctx context.Context) ([]entities.PackID, error)
	// Load parses the PDSC manifest for one installed pack.
	Load(ctx context.Context, id entities.PackID, sink DiagnosticSink) (*entities.Pack, error)
	// Root returns the pack repository's root directory (CMSIS_PACK_ROOT).
	Root() string
}

// LockReader reads a previously emitted *.cbuild-pack.yml for frozen-mode
// comparison.
type LockReader interface {
	ReadPackLock(ctx context.Context, path string) ([]entities.ResolvedPack, bool, error)
}

// LoadPolicy selects which installed pack versions participate in
// resolution.
type LoadPolicy int

const (
	LoadDefault LoadPolicy = iota
	LoadLatest
	LoadAll
	LoadRequired
)

func ParseLoadPolicy(s string) LoadPolicy {
	switch s {
	case "latest":
		return LoadLatest
	case "all":
		return LoadAll
	case "required":
		return LoadRequired
	default:
		return LoadDefault
	}
}
